package functions

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFunctions_BuiltinsOnly(t *testing.T) {
	cmd := NewCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(nil)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("functions: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 8 {
		t.Fatalf("expected 8 builtins, got %d:\n%s", len(lines), out.String())
	}
	want := `{"id":"count-length-annotator","role":"annotator","signature":{"in":"any","out":"number"},"source":"builtin","summary":"character count of text or document text"}`
	if lines[0] != want {
		t.Fatalf("unexpected first line\nwant: %s\n got: %s", want, lines[0])
	}
}

func TestFunctions_WithConfigMarksSelection(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "scribe.cue")
	body := `{
  configVersion: "1"
  "annotator-identifier": "shout"
  functions: {
    shout: { role: "annotator", in: "text", out: "text", inline: "return function(s) return s end" }
  }
}`
	if err := os.WriteFile(cfg, []byte(body), 0o644); err != nil {
		t.Fatalf("write cfg: %v", err)
	}
	entries, err := list(cfg)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var selected []string
	for _, e := range entries {
		if e.Selected {
			selected = append(selected, e.ID+"/"+e.Source)
		}
	}
	if len(entries) != 9 || len(selected) != 1 || selected[0] != "shout/lua" {
		t.Fatalf("unexpected entries: %d selected=%v", len(entries), selected)
	}
}
