package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/khrees2412/predicta/internal/app"
	"github.com/khrees2412/predicta/internal/database"
	"github.com/khrees2412/predicta/internal/logger"
	"github.com/khrees2412/predicta/internal/skills"
	"github.com/khrees2412/predicta/pkg/models"
)

var candidateCmd = &cobra.Command{
	Use:     "candidate",
	Aliases: []string{"cand"},
	Short:   "Manage candidates submitted for a job",
}

var addCandidateCmd = &cobra.Command{
	Use:   "add <job-id>",
	Short: "Submit a résumé for a job",
	Example: `  predicta candidate add 1 --name "Ada Lovelace" --email ada@example.com --file ada.txt
  predicta candidate add 1 --name "Bob" --text "Java developer, 3 years of experience"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := getApp(cmd)
		if err != nil {
			return err
		}
		jobID, err := parseID(args[0], "job")
		if err != nil {
			return err
		}
		if _, err := database.GetJob(jobID); err != nil {
			return fmt.Errorf("fetch job: %w", err)
		}

		name, _ := cmd.Flags().GetString("name")
		email, _ := cmd.Flags().GetString("email")
		text, _ := cmd.Flags().GetString("text")
		file, _ := cmd.Flags().GetString("file")

		resume, err := readText(text, file, "résumé")
		if err != nil {
			return err
		}
		if strings.TrimSpace(resume) == "" {
			return fmt.Errorf("résumé is empty: %w", app.ErrInvalidArgument)
		}

		c := &models.Candidate{
			JobID:      jobID,
			Name:       strings.TrimSpace(name),
			Email:      strings.TrimSpace(email),
			ResumeText: resume,
		}
		if err := database.CreateCandidate(c); err != nil {
			return fmt.Errorf("save candidate: %w", err)
		}

		application.Logger.Debug("candidate added",
			zap.Int64("candidate_id", c.ID),
			zap.Int64("job_id", jobID),
			zap.String("resume", logger.TruncateForLog(resume, 80)))

		cmd.Printf("✓ Candidate added: %s (ID: %d)\n", displayName(c.Name), c.ID)
		return nil
	},
}

var listCandidatesCmd = &cobra.Command{
	Use:   "list <job-id>",
	Short: "List candidates for a job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jobID, err := parseID(args[0], "job")
		if err != nil {
			return err
		}
		job, err := database.GetJob(jobID)
		if err != nil {
			return fmt.Errorf("fetch job: %w", err)
		}

		cands, err := database.GetCandidatesByJob(jobID)
		if err != nil {
			return fmt.Errorf("fetch candidates: %w", err)
		}
		if len(cands) == 0 {
			cmd.Printf("No candidates for %q yet. Add one with 'predicta candidate add %d --file resume.txt'\n", job.Title, jobID)
			return nil
		}

		cmd.Println(titleStyle.Render(fmt.Sprintf("Candidates for %s", job.Title)))
		for _, c := range cands {
			cmd.Printf("\n%s %s\n", labelStyle.Render(fmt.Sprintf("%d.", c.ID)), displayName(c.Name))
			if c.Email != "" {
				cmd.Printf("   %s %s\n", labelStyle.Render("Email:"), c.Email)
			}
			cmd.Printf("   %s %s\n", labelStyle.Render("Skills:"), joinOrNone(skills.Extract(c.ResumeText)))
			if years, ok := skills.YearsOfExperience(c.ResumeText); ok {
				cmd.Printf("   %s %d\n", labelStyle.Render("Experience (years):"), years)
			}
		}
		return nil
	},
}

var removeCandidateCmd = &cobra.Command{
	Use:   "remove <candidate-id>",
	Short: "Remove a candidate",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "candidate")
		if err != nil {
			return err
		}
		c, err := database.GetCandidate(id)
		if err != nil {
			return fmt.Errorf("fetch candidate: %w", err)
		}
		if err := database.DeleteCandidate(id); err != nil {
			return fmt.Errorf("remove candidate: %w", err)
		}
		cmd.Printf("✓ Removed candidate: %s\n", displayName(c.Name))
		return nil
	},
}

func displayName(name string) string {
	if name == "" {
		return "Unnamed"
	}
	return name
}

func init() {
	rootCmd.AddCommand(candidateCmd)
	candidateCmd.AddCommand(addCandidateCmd)
	candidateCmd.AddCommand(listCandidatesCmd)
	candidateCmd.AddCommand(removeCandidateCmd)

	addCandidateCmd.Flags().String("name", "", "Candidate name")
	addCandidateCmd.Flags().String("email", "", "Candidate email")
	addCandidateCmd.Flags().String("text", "", "Résumé text")
	addCandidateCmd.Flags().String("file", "", "Read the résumé from a file")
}
