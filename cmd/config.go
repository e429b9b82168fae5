package cmd

import (
	"fmt"
	"strings"

	"github.com/longkey1/dsadrill/internal/drill/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const configFields = "configfile, model, gemini_base_url, gemini_token, request_timeout"

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config [field]",
	Short: "Display current configuration",
	Long: `Display the current configuration values.
This command shows all configuration values loaded from the config file, .env and environment variables.

If a field name is specified, only that field's value is displayed.
Available fields: ` + configFields + `

Examples:
  dsadrill config                    # Show all configuration
  dsadrill config model              # Show only model
  dsadrill config gemini_base_url    # Show only Gemini base URL
  dsadrill config gemini_token       # Show only Gemini token (masked)`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		out := cmd.OutOrStdout()

		// If a field is specified, show only that field
		if len(args) > 0 {
			field := strings.ToLower(args[0])
			switch field {
			case "configfile":
				fmt.Fprintln(out, viper.ConfigFileUsed())
			case "model":
				fmt.Fprintln(out, cfg.Model)
			case "gemini_base_url", "geminibaseurl":
				fmt.Fprintln(out, cfg.GetBaseURL())
			case "gemini_token", "geminitoken":
				fmt.Fprintln(out, config.MaskToken(cfg.GetToken()))
			case "request_timeout", "requesttimeout":
				fmt.Fprintln(out, cfg.RequestTimeout)
			default:
				return fmt.Errorf("unknown field: %s\nAvailable fields: %s", args[0], configFields)
			}
			return nil
		}

		// Display all configuration values
		fmt.Fprintf(out, "ConfigFile: %s\n", viper.ConfigFileUsed())
		fmt.Fprintf(out, "Model: %s\n", cfg.Model)
		fmt.Fprintf(out, "GeminiBaseURL: %s\n", cfg.GetBaseURL())
		fmt.Fprintf(out, "GeminiToken: %s\n", config.MaskToken(cfg.GetToken()))
		fmt.Fprintf(out, "RequestTimeout: %s\n", cfg.RequestTimeout)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
