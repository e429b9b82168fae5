package repl

import (
	"errors"
	"strings"

	"github.com/chzyer/readline"
)

// LineReader is the subset of *readline.Instance used by the loop.
type LineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

// ErrInterrupt is returned by ReadInput when Ctrl+C is pressed at the prompt.
var ErrInterrupt = readline.ErrInterrupt

// ReadInput reads one submission. A line ending in a backslash continues on
// the next line; the backslash is replaced by a newline. Pressing Ctrl+C
// discards everything typed so far.
func ReadInput(r LineReader, prompt, contPrompt string) (string, error) {
	var b strings.Builder
	r.SetPrompt(prompt)
	defer r.SetPrompt(prompt)

	for {
		line, err := r.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				return "", ErrInterrupt
			}
			// EOF in the middle of a continued input still submits it
			if b.Len() > 0 {
				b.WriteString(line)
				return b.String(), nil
			}
			return line, err
		}

		if strings.HasSuffix(line, `\`) {
			b.WriteString(strings.TrimSuffix(line, `\`))
			b.WriteByte('\n')
			r.SetPrompt(contPrompt)
			continue
		}

		b.WriteString(line)
		return b.String(), nil
	}
}
