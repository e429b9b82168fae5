package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/longkey1/dsadrill/internal/drill"
	"github.com/longkey1/dsadrill/internal/drill/config"
)

func TestReadMessage(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		stdin string
		want  string
	}{
		{"args are joined", []string{"How", "does", "QuickSort", "work?"}, "ignored", "How does QuickSort work?"},
		{"stdin when no args", nil, "Explain heaps\n", "Explain heaps\n"},
		{"empty stdin", nil, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readMessage(tt.args, strings.NewReader(tt.stdin))
			if err != nil {
				t.Fatalf("readMessage() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("readMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	if err := writeDefaultConfig(path, false); err != nil {
		t.Fatalf("writeDefaultConfig() error = %v", err)
	}

	var got config.Config
	if _, err := toml.DecodeFile(path, &got); err != nil {
		t.Fatalf("written file is not valid TOML: %v", err)
	}
	if got.Model != config.DefaultModel || got.GeminiToken != config.DefaultGeminiToken || got.GeminiBaseURL != config.DefaultGeminiBaseURL {
		t.Errorf("unexpected defaults: %+v", got)
	}

	if err := writeDefaultConfig(path, false); err == nil {
		t.Errorf("expected an error when the file exists")
	}
	if err := os.WriteFile(path, []byte("model = \"x\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := writeDefaultConfig(path, true); err != nil {
		t.Fatalf("forced overwrite failed: %v", err)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), config.DefaultModel) {
		t.Errorf("file not overwritten:\n%s", data)
	}
}

func TestPrintModels(t *testing.T) {
	var buf bytes.Buffer
	printModels(&buf, []drill.ModelInfo{
		{ID: "gemini-2.5-flash", Description: "Fast", IsDefault: true},
		{ID: "gemini-2.0-flash", Description: "Older"},
	})

	lines := strings.Split(buf.String(), "\n")
	var defaults int
	for _, line := range lines {
		if strings.HasPrefix(line, "gemini-") && strings.Contains(line, "Yes") {
			defaults++
			if !strings.HasPrefix(line, "gemini-2.5-flash") {
				t.Errorf("wrong default row: %q", line)
			}
		}
	}
	if defaults != 1 {
		t.Errorf("expected one default row, got %d:\n%s", defaults, buf.String())
	}
}

func TestNewLogger(t *testing.T) {
	for _, v := range []bool{false, true} {
		l, err := newLogger(v)
		if err != nil {
			t.Fatalf("newLogger(%v) error = %v", v, err)
		}
		if got := l.Core().Enabled(-1); got != v {
			t.Errorf("newLogger(%v) debug enabled = %v", v, got)
		}
	}
}
