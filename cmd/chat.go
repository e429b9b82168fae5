/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/longkey1/dsadrill/internal/drill"
	"github.com/spf13/cobra"
)

var (
	useEditor bool
	echoInput bool
)

// errReplyFailed makes the process exit non-zero after the failure message
// has been printed.
var errReplyFailed = errors.New("the instructor could not answer")

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Ask the instructor a single question",
	Long: `Ask the instructor a single question and print the reply.

For an interactive drill, use 'dsadrill start' instead.

If no message is provided as an argument, it reads from stdin.
If --editor flag is set, it opens the default editor (from EDITOR environment variable) to compose the message.

The command exits with status 1 when the instructor reply is a failure.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		message, err := readMessage(args, cmd.InOrStdin())
		if err != nil {
			return err
		}
		if strings.TrimSpace(message) == "" {
			return fmt.Errorf("message is empty")
		}

		sess, p := newSession(cfg)
		term := newTerminal(p, echoInput)
		unsubscribe := sess.Store().Subscribe(term.Observer())
		defer unsubscribe()

		if !sess.Submit(cmd.Context(), message) {
			return fmt.Errorf("message was not accepted")
		}

		if last, ok := sess.Store().Last(); ok && last.Sender == drill.SenderBot && last.IsError {
			return errReplyFailed
		}
		return nil
	},
}

// readMessage returns the message from the editor, the arguments or in.
func readMessage(args []string, in io.Reader) (string, error) {
	if useEditor {
		message, err := getMessageFromEditor()
		if err != nil {
			return "", fmt.Errorf("getting message from editor: %w", err)
		}
		return message, nil
	}
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	input, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("reading from stdin: %w", err)
	}
	return string(input), nil
}

// getMessageFromEditor opens the default editor and returns the edited message
func getMessageFromEditor() (string, error) {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		return "", fmt.Errorf("EDITOR environment variable is not set")
	}

	// Create a temporary file
	tmpFile, err := os.CreateTemp("", "dsadrill-*.md")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpFile.Close()
	defer os.Remove(tmpFile.Name())

	// Open the editor
	cmd := exec.Command(editor, tmpFile.Name())
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("failed to open editor: %w", err)
	}

	// Read the edited content
	content, err := os.ReadFile(tmpFile.Name())
	if err != nil {
		return "", fmt.Errorf("failed to read edited content: %w", err)
	}

	return string(content), nil
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().BoolVarP(&useEditor, "editor", "e", false, "Use default editor (from EDITOR environment variable) to compose message")
	chatCmd.Flags().BoolVar(&echoInput, "echo", false, "Print the question above the reply")
}
