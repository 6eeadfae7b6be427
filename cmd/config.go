package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/khrees2412/predicta/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  "View and update configuration settings",
}

var showConfigCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.Println(titleStyle.Render("Configuration"))
		cmd.Printf("%s %s\n", labelStyle.Render("Config File:"), config.GetConfigPath())

		for _, key := range config.Keys() {
			value := config.Get(key)
			if config.IsSecret(key) {
				// Show if API keys are configured (but don't show the actual keys)
				if value != "" {
					value = "✓ Configured"
				} else {
					value = "✗ Not configured"
				}
			}
			cmd.Printf("%s %s\n", labelStyle.Render(key+":"), value)
		}
		return nil
	},
}

var setConfigCmd = &cobra.Command{
	Use:   "set",
	Short: "Update a configuration value",
	Example: `  predicta config set --key embedding_provider --value sbert
  predicta config set --key embedding_url --value http://127.0.0.1:8001
  predicta config set --key remove_stopwords --value false
  predicta config set --key openai_key --value sk-...`,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, _ := cmd.Flags().GetString("key")
		value, _ := cmd.Flags().GetString("value")

		if key == "" || !cmd.Flags().Changed("value") {
			return fmt.Errorf("both --key and --value are required")
		}

		if err := config.Set(key, value); err != nil {
			return fmt.Errorf("update config: %w", err)
		}

		cmd.Printf("✓ Configuration updated: %s\n", key)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(showConfigCmd)
	configCmd.AddCommand(setConfigCmd)

	// Flags for set command
	setConfigCmd.Flags().String("key", "", "Configuration key")
	setConfigCmd.Flags().String("value", "", "Configuration value")
}
