// Package drill provides the core types shared by the conversation store,
// the session controller and the text-generation backends.
//
// The backend contract is the Generator interface. A Generator returns
// generated text on success, in-band sentinel text for degraded outcomes
// (NoDataText, UnreachableText), and an error only for failures the caller
// must flag as errors (see ErrDelivery).
package drill

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	// FailureText is shown in place of a reply when the backend reports an
	// explicit failure.
	FailureText = "System Failure: Unable to compute response."

	// NoDataText is returned in-band when the backend answered but carried no
	// generated text.
	NoDataText = "Runtime Error: No response data received."

	// UnreachableText is returned in-band when no usable response was obtained.
	UnreachableText = "Segmentation Fault: Unable to connect to the knowledge base. Check your network or API key."
)

// ErrDelivery marks a request the backend rejected (non-2xx status) or that
// ran past its deadline.
var ErrDelivery = errors.New("delivery failure")

// ModelInfo represents information about an available model.
type ModelInfo struct {
	ID          string // Model identifier (e.g., "gemini-2.5-flash")
	Description string // Human-readable description of the model
	IsDefault   bool   // Whether this is the configured model
}

// Generator produces a reply for a single, stateless user message.
//
// Example usage:
//
//	client := gemini.NewClient(cfg, persona.System, persona.Temperature, logger)
//	reply, err := client.Generate(ctx, "How does QuickSort work?")
type Generator interface {
	// Generate sends userText as the only conversational turn.
	Generate(ctx context.Context, userText string) (string, error)
}

// GeneratorFunc adapts a plain function to the Generator interface.
type GeneratorFunc func(ctx context.Context, userText string) (string, error)

// Generate calls f(ctx, userText).
func (f GeneratorFunc) Generate(ctx context.Context, userText string) (string, error) {
	return f(ctx, userText)
}

// ParseModelID normalizes a model identifier.
// The "models/" prefix returned by the models endpoint is accepted and removed.
//
// Example:
//
//	id, err := ParseModelID("models/gemini-2.5-flash")
//	// id = "gemini-2.5-flash"
func ParseModelID(model string) (string, error) {
	id := strings.TrimSpace(model)
	id = strings.TrimPrefix(id, "models/")

	if id == "" {
		return "", fmt.Errorf("model identifier cannot be empty")
	}
	if strings.ContainsAny(id, " \t\n/?#") {
		return "", fmt.Errorf("invalid model identifier: %q", model)
	}

	return id, nil
}
