package drill

import (
	"time"

	"github.com/google/uuid"
)

// Sender identifies who authored a message.
type Sender int

const (
	SenderUser Sender = iota
	SenderBot
)

func (s Sender) String() string {
	switch s {
	case SenderUser:
		return "user"
	case SenderBot:
		return "bot"
	default:
		return "unknown"
	}
}

// WelcomeID is the fixed identifier of the message seeded at session start.
const WelcomeID = "welcome"

// Message is a single entry of a conversation. Messages are never edited
// after creation.
type Message struct {
	ID        string
	Text      string
	Sender    Sender
	Timestamp time.Time
	IsError   bool // only ever set on bot messages reporting a failure
}

// NewUserMessage creates a user message with a fresh ID.
func NewUserMessage(text string) Message {
	return Message{
		ID:        uuid.NewString(),
		Text:      text,
		Sender:    SenderUser,
		Timestamp: time.Now(),
	}
}

// NewBotMessage creates a bot message with a fresh ID.
func NewBotMessage(text string, isError bool) Message {
	return Message{
		ID:        uuid.NewString(),
		Text:      text,
		Sender:    SenderBot,
		Timestamp: time.Now(),
		IsError:   isError,
	}
}

// NewWelcomeMessage creates the bot message that opens every session.
func NewWelcomeMessage(text string) Message {
	return Message{
		ID:        WelcomeID,
		Text:      text,
		Sender:    SenderBot,
		Timestamp: time.Now(),
	}
}
