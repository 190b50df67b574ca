package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestSetupWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invoicer.log")
	defer func() { log.Logger = zerolog.New(os.Stderr) }()

	if err := Setup(LogConfig{Level: "debug", Format: "json", Output: path}); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	l := WithComponent("test")
	l.Info().Str("invoice", "INV-1").Msg("generated")

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(b)
	for _, want := range []string{`"component":"test"`, `"invoice":"INV-1"`, `"message":"generated"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %q missing %s", out, want)
		}
	}
}

func TestSetupRejectsUnknownLevel(t *testing.T) {
	if err := Setup(LogConfig{Level: "loud"}); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
