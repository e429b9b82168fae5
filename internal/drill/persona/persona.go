// Package persona holds the fixed instructor persona sent with every request.
// The persona is compiled into the binary and cannot be overridden at runtime.
package persona

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
)

//go:embed persona.toml
var personaFile string

// Persona represents the structure of the persona TOML file
type Persona struct {
	Name        string  `toml:"name"`
	Role        string  `toml:"role"`    // label for bot messages
	Student     string  `toml:"student"` // label for user messages
	Temperature float64 `toml:"temperature"`
	Welcome     string  `toml:"welcome"`
	System      string  `toml:"system"`
}

var (
	loadOnce sync.Once
	loaded   *Persona
	loadErr  error
)

// Default returns the embedded persona. It panics if the embedded file is
// malformed, which is caught by the package tests.
func Default() Persona {
	p, err := load()
	if err != nil {
		panic(err)
	}
	return *p
}

func load() (*Persona, error) {
	loadOnce.Do(func() {
		loaded, loadErr = Decode(personaFile)
	})
	return loaded, loadErr
}

// Decode parses a persona document.
func Decode(data string) (*Persona, error) {
	var p Persona
	if _, err := toml.Decode(data, &p); err != nil {
		return nil, fmt.Errorf("error decoding persona file: %w", err)
	}

	p.Welcome = strings.TrimSpace(p.Welcome)
	p.System = strings.TrimSpace(p.System)

	if p.System == "" {
		return nil, fmt.Errorf("persona has no system instruction")
	}
	if p.Welcome == "" {
		return nil, fmt.Errorf("persona has no welcome message")
	}
	if p.Temperature < 0 || p.Temperature > 2 {
		return nil, fmt.Errorf("persona temperature out of range: %v", p.Temperature)
	}
	return &p, nil
}
