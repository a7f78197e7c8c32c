package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]string{
		"trace":   "trace",
		"DEBUG":   "debug",
		"warning": "warn",
		"error":   "error",
		"":        "info",
		"bogus":   "info",
	}
	for in, want := range cases {
		if got := parseLevel(in).String(); got != want {
			t.Fatalf("parseLevel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNamedWritesComponent(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(Options{Level: "debug", Writer: &buf}); err != nil {
		t.Fatalf("init: %v", err)
	}
	Named("session").Debug().Str("line", "garbage").Msg("diagnostic")
	out := buf.String()
	for _, want := range []string{`"component":"session"`, `"line":"garbage"`, `"message":"diagnostic"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in %s", want, out)
		}
	}
}

func TestInitWithPathAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "qrhunt.log")
	if err := Init(Options{Path: path}); err != nil {
		t.Fatalf("init: %v", err)
	}
	Get().Info().Msg("first")
	if err := Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "first") {
		t.Fatalf("expected message in log file, got %q", string(data))
	}
}
