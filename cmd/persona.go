/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/longkey1/dsadrill/internal/drill/persona"
	"github.com/spf13/cobra"
)

var (
	showSystem  bool
	showWelcome bool
)

// personaCmd represents the persona command
var personaCmd = &cobra.Command{
	Use:   "persona",
	Short: "Show the instructor persona",
	Long: `Show the fixed persona the instructor is given on every request.

The persona is built into the binary and cannot be changed. By default the
name, labels and sampling temperature are printed. Use --system to print the
system instruction sent to the API and --welcome to print the greeting that
opens every drill.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p := persona.Default()
		out := cmd.OutOrStdout()

		if showSystem {
			fmt.Fprintln(out, p.System)
			return nil
		}
		if showWelcome {
			fmt.Fprintln(out, p.Welcome)
			return nil
		}

		fmt.Fprintf(out, "Name: %s\n", p.Name)
		fmt.Fprintf(out, "InstructorLabel: %s\n", p.Role)
		fmt.Fprintf(out, "StudentLabel: %s\n", p.Student)
		fmt.Fprintf(out, "Temperature: %g\n", p.Temperature)
		fmt.Fprintf(out, "SystemInstruction: %d characters (use --system to print)\n", len(p.System))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(personaCmd)
	personaCmd.Flags().BoolVar(&showSystem, "system", false, "Print the system instruction")
	personaCmd.Flags().BoolVar(&showWelcome, "welcome", false, "Print the welcome message")
	personaCmd.MarkFlagsMutuallyExclusive("system", "welcome")
}
