package repl

import "strings"

// Command is a slash command typed at the prompt.
type Command int

const (
	CommandNone Command = iota
	CommandHelp
	CommandHistory
	CommandClear
	CommandExit
	CommandUnknown
)

// ParseCommand recognizes slash commands. Input that does not start with a
// slash, contains whitespace or further slashes (a path, a comment) is a
// regular message.
func ParseCommand(input string) Command {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "/") || strings.ContainsAny(input[1:], " \t\n/*") {
		return CommandNone
	}

	switch strings.ToLower(input) {
	case "/help", "/h", "/?":
		return CommandHelp
	case "/history", "/hist":
		return CommandHistory
	case "/clear", "/c":
		return CommandClear
	case "/exit", "/quit", "/q":
		return CommandExit
	default:
		if len(input) == 1 {
			return CommandNone
		}
		return CommandUnknown
	}
}

const helpText = `
Available commands:
  /help, /h      - Show this help message
  /history       - Print the whole conversation again
  /clear, /c     - Clear the screen
  /exit, /quit   - Leave the drill
  Ctrl+D         - Leave the drill
  Line ending \  - Continue the message on the next line
`
