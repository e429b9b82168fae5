// Package repl runs the interactive drill loop on a terminal.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/longkey1/dsadrill/internal/drill/conversation"
	"github.com/longkey1/dsadrill/internal/drill/session"
	"github.com/longkey1/dsadrill/internal/render"
)

const (
	DefaultPrompt       = "Student> "
	DefaultContPrompt   = "....... "
	DefaultThinkingText = "Instructor is thinking..."

	spinnerInterval = 80 * time.Millisecond
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Loop reads student input and feeds it to a session until the user leaves.
type Loop struct {
	Reader   LineReader
	Session  *session.Session
	Terminal *render.Terminal
	Out      io.Writer // prompts, spinner and command output

	Prompt       string
	ContPrompt   string
	ThinkingText string

	// IgnoreInterrupts swallows SIGINT while a request is in flight.
	IgnoreInterrupts bool

	Logger *zap.Logger
}

func (l *Loop) defaults() {
	if l.Prompt == "" {
		l.Prompt = DefaultPrompt
	}
	if l.ContPrompt == "" {
		l.ContPrompt = DefaultContPrompt
	}
	if l.ThinkingText == "" {
		l.ThinkingText = DefaultThinkingText
	}
	if l.Out == nil {
		l.Out = os.Stderr
	}
	if l.Logger == nil {
		l.Logger = zap.NewNop()
	}
}

// Run prints the transcript so far and then serves input until /exit, EOF
// or ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	l.defaults()

	l.Terminal.Transcript(l.Session.Store().Messages())

	// Store events arrive on the submitting goroutine; forward them so that
	// all terminal output happens here, between spinner frames.
	events := make(chan conversation.Event, 64)
	unsubscribe := l.Session.Store().Subscribe(func(ev conversation.Event) {
		events <- ev
	})
	defer unsubscribe()

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		input, err := ReadInput(l.Reader, l.Prompt, l.ContPrompt)
		if err != nil {
			if errors.Is(err, ErrInterrupt) {
				fmt.Fprintln(l.Out, "(input discarded, use /exit or Ctrl+D to leave)")
				continue
			}
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(l.Out, "\nDismissed.")
				return nil
			}
			return fmt.Errorf("input error: %w", err)
		}

		switch ParseCommand(input) {
		case CommandHelp:
			fmt.Fprint(l.Out, helpText)
			fmt.Fprintln(l.Out)
			continue
		case CommandHistory:
			l.Terminal.Transcript(l.Session.Store().Messages())
			continue
		case CommandClear:
			fmt.Fprint(l.Out, "\033[H\033[2J")
			continue
		case CommandExit:
			fmt.Fprintln(l.Out, "Dismissed.")
			return nil
		case CommandUnknown:
			fmt.Fprintf(l.Out, "Unknown command: %s (type '/help' for available commands)\n", input)
			continue
		}

		l.send(ctx, input, events)
	}
}

// send submits input on a goroutine and animates the spinner until the
// reply has been appended.
func (l *Loop) send(ctx context.Context, input string, events <-chan conversation.Event) {
	show := l.Terminal.Observer()

	var sigCh chan os.Signal
	if l.IgnoreInterrupts {
		sigCh = make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt)
		defer signal.Stop(sigCh)
	}

	done := make(chan bool, 1)
	go func() {
		done <- l.Session.Submit(ctx, input)
	}()

	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	i := 0
	for {
		select {
		case ev := <-events:
			if ev.Kind == conversation.EventAppended {
				fmt.Fprint(l.Out, "\r\033[K")
				show(ev)
			}
		case accepted := <-done:
			fmt.Fprint(l.Out, "\r\033[K")
			if !accepted {
				l.Logger.Debug("submission ignored", zap.Int("length", len(input)))
			}
			drain(events, show)
			return
		case <-sigCh:
			l.Logger.Debug("interrupt ignored while waiting for the instructor")
		case <-ticker.C:
			if l.Session.Loading() {
				fmt.Fprintf(l.Out, "\r%s %s", spinnerFrames[i], l.ThinkingText)
				i = (i + 1) % len(spinnerFrames)
			}
		}
	}
}

// drain renders events that were queued before Submit returned.
func drain(events <-chan conversation.Event, show conversation.Observer) {
	for {
		select {
		case ev := <-events:
			show(ev)
		default:
			return
		}
	}
}
