package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNew_JSONFormatWritesStructuredFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := New(Options{Level: "info", Format: "json", Component: "importer", Writer: &buf})
	log.Info().Str("file", "2025.02.02-05.xlsx").Int("entries", 5).Msg("parsed")

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if payload["component"] != "importer" || payload["file"] != "2025.02.02-05.xlsx" {
		t.Fatalf("unexpected payload: %v", payload)
	}
	if payload["entries"] != float64(5) {
		t.Fatalf("unexpected entries field: %v", payload["entries"])
	}
}

func TestNew_LevelFiltersDebug(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := New(Options{Level: "warn", Format: "json", Writer: &buf})
	log.Debug().Msg("hidden")
	log.Info().Msg("hidden too")
	log.Warn().Msg("shown")

	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]zerolog.Level{
		"":        zerolog.InfoLevel,
		"DEBUG":   zerolog.DebugLevel,
		"warning": zerolog.WarnLevel,
		"off":     zerolog.Disabled,
		"bogus":   zerolog.InfoLevel,
	}
	for input, want := range tests {
		if got := parseLevel(input); got != want {
			t.Fatalf("parseLevel(%q): want %v, got %v", input, want, got)
		}
	}
}
