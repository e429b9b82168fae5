/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/chzyer/readline"
	"github.com/longkey1/dsadrill/internal/repl"
	"github.com/spf13/cobra"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start an interactive drill",
	Long: `Start an interactive drill with the instructor.

Enter sends the message. End a line with '\' to continue on the next line.
Ctrl+C discards the current input and is ignored while the instructor is
answering. Type '/help' for commands, '/exit' or Ctrl+D to quit.

The conversation lives only as long as the drill.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		sess, p := newSession(cfg)
		term := newTerminal(p, false)

		rl, err := readline.NewEx(&readline.Config{
			Prompt:          repl.DefaultPrompt,
			InterruptPrompt: "^C",
			EOFPrompt:       "exit",
			Stdout:          os.Stderr,
			HistoryLimit:    200,
		})
		if err != nil {
			return fmt.Errorf("initializing terminal: %w", err)
		}
		defer rl.Close()

		term.Banner(p.Name, sess.Model)
		fmt.Fprintf(os.Stderr, "Type '/help' for commands, '/exit' or 'Ctrl+D' to quit\n\n")

		loop := &repl.Loop{
			Reader:           rl,
			Session:          sess,
			Terminal:         term,
			Out:              os.Stderr,
			Prompt:           p.Student + "> ",
			IgnoreInterrupts: true,
			Logger:           logger.Named("repl"),
		}
		return loop.Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}
