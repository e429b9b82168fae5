// Package render prints a conversation to a terminal. Bot messages are
// treated as markdown and rendered with glamour.
package render

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"github.com/longkey1/dsadrill/internal/drill"
	"github.com/longkey1/dsadrill/internal/drill/conversation"
)

const (
	defaultWidth = 100
	timeLayout   = "15:04"
)

// Options configures a Terminal.
type Options struct {
	BotLabel  string // e.g. "Instructor"
	UserLabel string // e.g. "Student"
	Plain     bool   // print bot markdown as-is
	Style     string // glamour standard style; empty selects one from the terminal
	Width     int    // word wrap width
	EchoUser  bool   // print user messages when they are appended
}

// Terminal writes messages to out.
type Terminal struct {
	out    io.Writer
	opts   Options
	md     *glamour.TermRenderer
	logger *zap.Logger

	mu sync.Mutex
}

// NewTerminal creates a renderer. If the markdown renderer cannot be built
// the terminal falls back to plain output.
func NewTerminal(out io.Writer, opts Options, logger *zap.Logger) *Terminal {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.BotLabel == "" {
		opts.BotLabel = "Bot"
	}
	if opts.UserLabel == "" {
		opts.UserLabel = "You"
	}
	if opts.Width <= 0 {
		opts.Width = defaultWidth
	}

	t := &Terminal{out: out, opts: opts, logger: logger}
	if opts.Plain {
		return t
	}

	styleOpt := glamour.WithAutoStyle()
	if opts.Style != "" {
		styleOpt = glamour.WithStandardStyle(opts.Style)
	}
	md, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(opts.Width))
	if err != nil {
		logger.Warn("markdown renderer unavailable, using plain output", zap.Error(err))
		return t
	}
	t.md = md
	return t
}

// Banner prints the session header.
func (t *Terminal) Banner(title, model string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rule := strings.Repeat("=", len(title)+8)
	fmt.Fprintf(t.out, "\n%s\n=== %s ===\n%s\n", rule, title, rule)
	fmt.Fprintf(t.out, "Model: %s\n", model)
	fmt.Fprintln(t.out, "Strict Mode Enabled")
	fmt.Fprintln(t.out)
}

// Message prints a single message.
func (t *Terminal) Message(msg drill.Message) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.writeMessage(msg)
}

// Transcript prints every message in order.
func (t *Terminal) Transcript(msgs []drill.Message) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, msg := range msgs {
		t.writeMessage(msg)
	}
}

// Observer returns a store observer that prints appended messages.
// User messages are skipped unless EchoUser is set, since the user has just
// typed them.
func (t *Terminal) Observer() conversation.Observer {
	return func(ev conversation.Event) {
		if ev.Kind != conversation.EventAppended {
			return
		}
		if ev.Message.Sender == drill.SenderUser && !t.opts.EchoUser {
			return
		}
		t.Message(ev.Message)
	}
}

// Label returns the heading printed above msg.
func (t *Terminal) Label(msg drill.Message) string {
	if msg.Sender == drill.SenderUser {
		return t.opts.UserLabel
	}
	if msg.IsError {
		return t.opts.BotLabel + " [!]"
	}
	return t.opts.BotLabel
}

func (t *Terminal) writeMessage(msg drill.Message) {
	fmt.Fprintf(t.out, "%s (%s):\n", t.Label(msg), msg.Timestamp.Format(timeLayout))

	body := msg.Text
	if msg.Sender == drill.SenderBot && t.md != nil && !msg.IsError {
		rendered, err := t.md.Render(msg.Text)
		if err != nil {
			t.logger.Debug("markdown render failed", zap.String("id", msg.ID), zap.Error(err))
		} else {
			body = strings.Trim(rendered, "\n")
		}
	}

	fmt.Fprintf(t.out, "%s\n\n", body)
}
