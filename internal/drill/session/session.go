// Package session implements the controller that drives one conversation:
// it validates input, records the exchange in a conversation.Store and keeps
// at most one backend request in flight.
package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/longkey1/dsadrill/internal/drill"
	"github.com/longkey1/dsadrill/internal/drill/conversation"
)

// Session represents one running conversation.
type Session struct {
	ID        string
	Model     string
	CreatedAt time.Time

	store     *conversation.Store
	generator drill.Generator
	logger    *zap.Logger

	// mu serializes the idle check with the start of a submission.
	mu sync.Mutex
}

// NewSession creates a session backed by store. The welcome message is
// seeded when the store is empty.
func NewSession(store *conversation.Store, generator drill.Generator, model, welcome string, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	if store.Len() == 0 {
		store.Append(drill.NewWelcomeMessage(welcome))
	}
	return &Session{
		ID:        uuid.New().String(),
		Model:     model,
		CreatedAt: time.Now(),
		store:     store,
		generator: generator,
		logger:    logger,
	}
}

// Store returns the conversation the session writes to.
func (s *Session) Store() *conversation.Store {
	return s.store
}

// Submit sends raw to the backend and records both sides of the exchange.
//
// Leading and trailing whitespace is removed; inner whitespace is kept.
// Blank input, or input arriving while a request is in flight, is ignored
// and Submit returns false. Otherwise Submit blocks until the reply (or the
// failure message) has been appended and returns true.
func (s *Session) Submit(ctx context.Context, raw string) bool {
	text := strings.TrimSpace(raw)
	if text == "" {
		return false
	}

	s.mu.Lock()
	if s.store.Loading() {
		s.mu.Unlock()
		s.logger.Debug("submission rejected, request in flight")
		return false
	}
	s.store.Append(drill.NewUserMessage(text))
	s.store.SetLoading(true)
	s.mu.Unlock()

	defer s.store.SetLoading(false)

	start := time.Now()
	reply, err := s.generate(ctx, text)
	if err != nil {
		s.logger.Warn("generation failed",
			zap.String("session", s.GetShortID()),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		s.store.Append(drill.NewBotMessage(drill.FailureText, true))
		return true
	}

	s.logger.Debug("reply received",
		zap.String("session", s.GetShortID()),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("length", len(reply)))
	s.store.Append(drill.NewBotMessage(reply, false))
	return true
}

// generate shields the session from a panicking backend.
func (s *Session) generate(ctx context.Context, text string) (reply string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("generator panic: %v", r)
		}
	}()
	return s.generator.Generate(ctx, text)
}

// Loading reports whether a request is in flight.
func (s *Session) Loading() bool {
	return s.store.Loading()
}

// GetShortID returns the shortened session ID (first 8 characters)
func (s *Session) GetShortID() string {
	if len(s.ID) >= 8 {
		return s.ID[:8]
	}
	return s.ID
}

// MessageCount returns the number of messages in the session, welcome included.
func (s *Session) MessageCount() int {
	return s.store.Len()
}
