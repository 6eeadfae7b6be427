package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/khrees2412/predicta/internal/app"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			MarginTop(1).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")).
			Bold(true)
)

// current is the container built for the running command
var current *app.App

var rootCmd = &cobra.Command{
	Use:   "predicta",
	Short: "Explainable candidate ranking for job descriptions",
	Long: `Predicta ranks résumés against a job description with TF-IDF cosine similarity,
explains each score with term weights and skill overlap, and can re-rank candidates
with a gradient-boosted model trained on your own labels.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize app with all dependencies
		application, err := app.NewApp(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to initialize app: %w", err)
		}
		current = application

		// Store app in command context
		cmd.SetContext(app.SetAppInContext(cmd.Context(), application))
		return nil
	},
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// cmd.Print* writes to the configured output; keep tables on stdout
	rootCmd.SetOut(os.Stdout)
	err := rootCmd.ExecuteContext(ctx)

	// Cleanup: close app resources
	if current != nil {
		current.Close()
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

// getApp returns the container stored by PersistentPreRunE
func getApp(cmd *cobra.Command) (*app.App, error) {
	application := app.GetAppFromContext(cmd.Context())
	if application == nil {
		return nil, fmt.Errorf("application not initialized")
	}
	return application, nil
}

// parseID parses a positive numeric id argument
func parseID(arg, noun string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s ID %q: %w", noun, arg, app.ErrInvalidArgument)
	}
	return id, nil
}

// readText returns inline text or the contents of file; exactly one must be set
func readText(text, file, what string) (string, error) {
	switch {
	case text != "" && file != "":
		return "", fmt.Errorf("use either --text or --file for the %s, not both: %w", what, app.ErrInvalidArgument)
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read %s file: %w", what, err)
		}
		return string(data), nil
	case text != "":
		return text, nil
	}
	return "", fmt.Errorf("%s text is required (--text or --file): %w", what, app.ErrInvalidArgument)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
