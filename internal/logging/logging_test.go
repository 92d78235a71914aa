package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestInitializeTo_Console(t *testing.T) {
	var buf bytes.Buffer
	if err := InitializeTo(&buf, false, "debug"); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	Named("resolver").Infow("hello", FieldFunction, "uppercase-annotator")
	out := buf.String()
	if !strings.Contains(out, "hello") || !strings.Contains(out, "uppercase-annotator") {
		t.Fatalf("unexpected console output: %q", out)
	}
	if JSONOutput {
		t.Fatalf("expected console mode")
	}
}

func TestInitializeTo_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := InitializeTo(&buf, true, "info"); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	Named("stage").Warnw("absent", FieldRole, "extractor")
	out := buf.String()
	if !strings.Contains(out, `"level":"warn"`) || !strings.Contains(out, `"component":"stage"`) {
		t.Fatalf("unexpected json output: %q", out)
	}
}

func TestInitializeTo_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	if err := InitializeTo(&buf, false, "warn"); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	Logger.Info("quiet")
	if buf.Len() != 0 {
		t.Fatalf("info should be filtered at warn level, got %q", buf.String())
	}
}

func TestParseLevel_Invalid(t *testing.T) {
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
