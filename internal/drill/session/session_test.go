package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/longkey1/dsadrill/internal/drill"
	"github.com/longkey1/dsadrill/internal/drill/conversation"
)

const testWelcome = "# Welcome"

// mockGenerator records every call and answers with a fixed reply or error.
type mockGenerator struct {
	mu       sync.Mutex
	calls    []string
	response string
	err      error
	// onCall runs inside Generate before it returns.
	onCall func(text string)
}

func (m *mockGenerator) Generate(_ context.Context, text string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, text)
	onCall := m.onCall
	m.mu.Unlock()

	if onCall != nil {
		onCall(text)
	}
	return m.response, m.err
}

func (m *mockGenerator) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func newTestSession(gen drill.Generator) *Session {
	return NewSession(conversation.NewStore(), gen, "gemini-test", testWelcome, nil)
}

func TestNewSessionSeedsWelcome(t *testing.T) {
	s := newTestSession(&mockGenerator{})

	msgs := s.Store().Messages()
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	if msgs[0].ID != drill.WelcomeID || msgs[0].Sender != drill.SenderBot || msgs[0].Text != testWelcome {
		t.Fatalf("unexpected welcome message: %+v", msgs[0])
	}
	if s.Loading() {
		t.Fatalf("new session must be idle")
	}
	if len(s.GetShortID()) != 8 {
		t.Fatalf("expected 8 character short id, got %q", s.GetShortID())
	}
}

func TestNewSessionKeepsExistingStore(t *testing.T) {
	store := conversation.NewStore()
	store.Append(drill.NewBotMessage("already here", false))

	s := NewSession(store, &mockGenerator{}, "m", testWelcome, nil)
	if s.MessageCount() != 1 {
		t.Fatalf("expected welcome not to be seeded twice, got %d messages", s.MessageCount())
	}
}

func TestSubmitSuccess(t *testing.T) {
	gen := &mockGenerator{response: "Arrays are contiguous."}
	s := newTestSession(gen)

	if !s.Submit(context.Background(), "What is an array?") {
		t.Fatalf("expected submission to be accepted")
	}

	msgs := s.Store().Messages()
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}
	if msgs[1].Sender != drill.SenderUser || msgs[1].Text != "What is an array?" {
		t.Errorf("unexpected user message: %+v", msgs[1])
	}
	if msgs[2].Sender != drill.SenderBot || msgs[2].Text != "Arrays are contiguous." || msgs[2].IsError {
		t.Errorf("unexpected bot message: %+v", msgs[2])
	}
	if s.Loading() {
		t.Errorf("loading must be cleared after the reply")
	}
}

func TestSubmitLoadingBracketsExchange(t *testing.T) {
	gen := &mockGenerator{response: "ok"}
	s := newTestSession(gen)

	gen.onCall = func(string) {
		if !s.Loading() {
			t.Errorf("loading must be set while the backend is called")
		}
		if s.MessageCount() != 2 {
			t.Errorf("user message must be visible before the backend is called, got %d messages", s.MessageCount())
		}
	}

	var events []string
	s.Store().Subscribe(func(ev conversation.Event) {
		switch ev.Kind {
		case conversation.EventAppended:
			events = append(events, "append:"+ev.Message.Sender.String())
		case conversation.EventLoading:
			events = append(events, fmt.Sprintf("loading:%v", ev.Loading))
		}
	})

	s.Submit(context.Background(), "q")

	want := []string{"append:user", "loading:true", "append:bot", "loading:false"}
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("events = %v, want %v", events, want)
		}
	}
}

func TestSubmitRejectsBlankInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"spaces", "   "},
		{"tabs and newlines", "\t\n \r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &mockGenerator{response: "unused"}
			s := newTestSession(gen)

			var events int
			s.Store().Subscribe(func(conversation.Event) { events++ })

			if s.Submit(context.Background(), tt.input) {
				t.Fatalf("expected blank input to be rejected")
			}
			if s.MessageCount() != 1 || s.Loading() || events != 0 || gen.callCount() != 0 {
				t.Fatalf("state changed: count=%d loading=%v events=%d calls=%d",
					s.MessageCount(), s.Loading(), events, gen.callCount())
			}
		})
	}
}

func TestSubmitRejectedWhileInFlight(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	gen := &mockGenerator{response: "done"}
	gen.onCall = func(string) {
		close(entered)
		<-release
	}
	s := newTestSession(gen)

	done := make(chan bool)
	go func() {
		done <- s.Submit(context.Background(), "first")
	}()

	select {
	case <-entered:
	case <-time.After(5 * time.Second):
		t.Fatal("backend was never called")
	}

	countBefore := s.MessageCount()
	if s.Submit(context.Background(), "second") {
		t.Fatalf("expected submission during an in-flight request to be rejected")
	}
	if s.MessageCount() != countBefore || !s.Loading() {
		t.Fatalf("rejected submission changed state: count=%d loading=%v", s.MessageCount(), s.Loading())
	}

	close(release)
	if !<-done {
		t.Fatalf("first submission should have been accepted")
	}
	if gen.callCount() != 1 {
		t.Fatalf("expected exactly one backend call, got %d", gen.callCount())
	}
	if s.MessageCount() != 3 {
		t.Fatalf("expected 3 messages, got %d", s.MessageCount())
	}
}

func TestSubmitConcurrentCallersOnlyOneAccepted(t *testing.T) {
	release := make(chan struct{})
	gen := &mockGenerator{response: "ok"}
	gen.onCall = func(string) { <-release }
	s := newTestSession(gen)

	const callers = 16
	var wg sync.WaitGroup
	results := make(chan bool, callers)
	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			results <- s.Submit(context.Background(), fmt.Sprintf("q%d", i))
		}(i)
	}
	close(start)

	// Rejected callers return immediately; the accepted one waits on release.
	deadline := time.After(5 * time.Second)
	for rejected := 0; rejected < callers-1; {
		select {
		case ok := <-results:
			if ok {
				t.Fatalf("an accepted submission finished before release")
			}
			rejected++
		case <-deadline:
			t.Fatal("timed out waiting for rejected submissions")
		}
	}
	close(release)
	wg.Wait()
	close(results)

	accepted := 0
	for ok := range results {
		if ok {
			accepted++
		}
	}
	if accepted != 1 || gen.callCount() != 1 {
		t.Fatalf("accepted=%d calls=%d, want 1 and 1", accepted, gen.callCount())
	}
}

func TestSubmitTrimsButKeepsInnerWhitespace(t *testing.T) {
	gen := &mockGenerator{response: "ok"}
	s := newTestSession(gen)

	s.Submit(context.Background(), "\n  line one\n\n  line two\t \n")

	want := "line one\n\n  line two"
	if gen.calls[0] != want {
		t.Errorf("backend got %q, want %q", gen.calls[0], want)
	}
	if got := s.Store().Messages()[1].Text; got != want {
		t.Errorf("user message = %q, want %q", got, want)
	}
}

func TestSubmitBackendError(t *testing.T) {
	gen := &mockGenerator{err: fmt.Errorf("wrapped: %w", drill.ErrDelivery)}
	s := newTestSession(gen)

	if !s.Submit(context.Background(), "Explain heaps") {
		t.Fatalf("expected submission to be accepted")
	}

	last, _ := s.Store().Last()
	if last.Sender != drill.SenderBot || !last.IsError || last.Text != drill.FailureText {
		t.Fatalf("unexpected failure message: %+v", last)
	}
	if s.Loading() {
		t.Fatalf("loading must be cleared after a failure")
	}
}

func TestSubmitBackendPanic(t *testing.T) {
	gen := drill.GeneratorFunc(func(context.Context, string) (string, error) {
		panic("boom")
	})
	s := newTestSession(gen)

	if !s.Submit(context.Background(), "Explain tries") {
		t.Fatalf("expected submission to be accepted")
	}
	last, _ := s.Store().Last()
	if !last.IsError || last.Text != drill.FailureText {
		t.Fatalf("unexpected message after panic: %+v", last)
	}
	if s.Loading() {
		t.Fatalf("loading must be cleared after a panic")
	}
}

func TestSubmitLoadingClearedExactlyOnce(t *testing.T) {
	tests := []struct {
		name string
		gen  *mockGenerator
	}{
		{"success", &mockGenerator{response: "ok"}},
		{"failure", &mockGenerator{err: errors.New("nope")}},
		{"empty reply", &mockGenerator{response: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(tt.gen)

			var cleared int
			s.Store().Subscribe(func(ev conversation.Event) {
				if ev.Kind == conversation.EventLoading && !ev.Loading {
					cleared++
				}
			})

			s.Submit(context.Background(), "q")
			if cleared != 1 {
				t.Fatalf("loading cleared %d times, want 1", cleared)
			}
		})
	}
}

func TestSubmitEmptyReplyIsAppendedVerbatim(t *testing.T) {
	s := newTestSession(&mockGenerator{response: ""})

	s.Submit(context.Background(), "q")

	last, _ := s.Store().Last()
	if last.Sender != drill.SenderBot || last.Text != "" || last.IsError {
		t.Fatalf("unexpected message: %+v", last)
	}
}

func TestSubmitPreservesOrderAcrossTurns(t *testing.T) {
	var n int
	gen := drill.GeneratorFunc(func(_ context.Context, text string) (string, error) {
		n++
		if n == 2 {
			return "", errors.New("second fails")
		}
		return "re: " + text, nil
	})
	s := newTestSession(gen)

	inputs := []string{"a", "b", "a"}
	for _, in := range inputs {
		if !s.Submit(context.Background(), in) {
			t.Fatalf("submission %q rejected", in)
		}
	}

	msgs := s.Store().Messages()
	want := []struct {
		sender  drill.Sender
		text    string
		isError bool
	}{
		{drill.SenderBot, testWelcome, false},
		{drill.SenderUser, "a", false},
		{drill.SenderBot, "re: a", false},
		{drill.SenderUser, "b", false},
		{drill.SenderBot, drill.FailureText, true},
		{drill.SenderUser, "a", false},
		{drill.SenderBot, "re: a", false},
	}
	if len(msgs) != len(want) {
		t.Fatalf("expected %d messages, got %d", len(want), len(msgs))
	}

	seen := make(map[string]bool)
	for i, w := range want {
		m := msgs[i]
		if m.Sender != w.sender || m.Text != w.text || m.IsError != w.isError {
			t.Errorf("message %d = %+v, want %+v", i, m, w)
		}
		if seen[m.ID] {
			t.Errorf("duplicate message id %q", m.ID)
		}
		seen[m.ID] = true
	}
}
