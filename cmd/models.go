/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/longkey1/dsadrill/internal/drill"
	"github.com/longkey1/dsadrill/internal/gemini"
	"github.com/spf13/cobra"
)

// modelsCmd represents the models command
var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List Gemini models that can answer questions",
	Long: `List the Gemini models that support content generation.
Fetches the latest model information directly from the API.

The configured model is marked as default. Select another one with the
model setting in the config file or DSADRILL_MODEL.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		client := gemini.NewClient(cfg, "", 0, logger.Named("gemini"))
		models, err := client.ListModels(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list models: %w", err)
		}
		if len(models) == 0 {
			return fmt.Errorf("no models returned from API")
		}

		printModels(cmd.OutOrStdout(), models)
		return nil
	},
}

func printModels(out io.Writer, models []drill.ModelInfo) {
	fmt.Fprintf(out, "Available models:\n\n")

	// Calculate column widths
	maxModelIDWidth := 15
	for _, model := range models {
		if len(model.ID) > maxModelIDWidth {
			maxModelIDWidth = len(model.ID)
		}
	}

	fmt.Fprintf(out, "%-*s  %-10s  %s\n", maxModelIDWidth, "MODEL ID", "DEFAULT", "DESCRIPTION")
	fmt.Fprintf(out, "%s  %s  %s\n",
		strings.Repeat("-", maxModelIDWidth),
		strings.Repeat("-", 10),
		strings.Repeat("-", 50))

	for _, model := range models {
		defaultMark := ""
		if model.IsDefault {
			defaultMark = "Yes"
		}
		fmt.Fprintf(out, "%-*s  %-10s  %s\n", maxModelIDWidth, model.ID, defaultMark, model.Description)
	}

	fmt.Fprintf(out, "\nUse a model with: DSADRILL_MODEL=<model id> dsadrill start\n")
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}
