// Package conversation holds the ordered message list and loading flag of a
// single chat session and notifies observers of every change.
package conversation

import (
	"sort"
	"sync"

	"github.com/longkey1/dsadrill/internal/drill"
)

// EventKind identifies the mutation an Event reports.
type EventKind int

const (
	EventAppended EventKind = iota // a message was appended
	EventLoading                   // the loading flag changed
)

// Event describes one store mutation.
type Event struct {
	Kind    EventKind
	Message drill.Message // set for EventAppended
	Index   int           // position of the appended message
	Loading bool          // set for EventLoading
}

// Observer receives store events. Observers run on the goroutine that
// performed the mutation and must not call back into mutating methods.
type Observer func(Event)

// Store is an append-only, insertion-ordered message list plus the
// in-flight flag. The zero value is ready to use.
type Store struct {
	mu        sync.RWMutex
	messages  []drill.Message
	loading   bool
	observers map[int]Observer
	nextObs   int

	// notifyMu keeps observer delivery in mutation order.
	notifyMu sync.Mutex
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		messages: make([]drill.Message, 0, 16),
	}
}

// Append adds msg to the end of the conversation. It never fails and does
// not inspect the message content.
func (s *Store) Append(msg drill.Message) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	s.messages = append(s.messages, msg)
	idx := len(s.messages) - 1
	observers := s.snapshotObservers()
	s.mu.Unlock()

	notify(observers, Event{Kind: EventAppended, Message: msg, Index: idx})
}

// SetLoading sets the in-flight flag. Setting the current value again is
// not reported to observers.
func (s *Store) SetLoading(loading bool) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	if s.loading == loading {
		s.mu.Unlock()
		return
	}
	s.loading = loading
	observers := s.snapshotObservers()
	s.mu.Unlock()

	notify(observers, Event{Kind: EventLoading, Loading: loading})
}

// Loading reports whether a request is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Len returns the number of messages.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// Messages returns a copy of the conversation in insertion order.
func (s *Store) Messages() []drill.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	copied := make([]drill.Message, len(s.messages))
	copy(copied, s.messages)
	return copied
}

// Last returns the most recent message, if any.
func (s *Store) Last() (drill.Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.messages) == 0 {
		return drill.Message{}, false
	}
	return s.messages[len(s.messages)-1], true
}

// Subscribe registers fn for all future events and returns a function that
// removes it again.
func (s *Store) Subscribe(fn Observer) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.observers == nil {
		s.observers = make(map[int]Observer)
	}
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.observers, id)
			s.mu.Unlock()
		})
	}
}

// snapshotObservers must be called with s.mu held.
func (s *Store) snapshotObservers() []Observer {
	if len(s.observers) == 0 {
		return nil
	}
	ids := make([]int, 0, len(s.observers))
	for id := range s.observers {
		ids = append(ids, id)
	}
	sort.Ints(ids) // registration order
	out := make([]Observer, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.observers[id])
	}
	return out
}

func notify(observers []Observer, ev Event) {
	for _, fn := range observers {
		fn(ev)
	}
}
