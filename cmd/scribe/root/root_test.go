package root

import (
	"testing"

	"github.com/flarebyte/scribe/internal/logging"
)

func TestExecute_LogLevelFromEnv(t *testing.T) {
	t.Cleanup(func() { _ = logging.InitializeTo(discard{}, false, "warn") })

	t.Setenv("SCRIBE_LOG_LEVEL", "loud")
	if err := Execute([]string{"version"}); err == nil {
		t.Fatalf("expected invalid level from environment to fail")
	}

	t.Setenv("SCRIBE_LOG_LEVEL", "debug")
	t.Setenv("SCRIBE_LOG_JSON", "true")
	if err := Execute([]string{"version"}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !logging.JSONOutput {
		t.Fatalf("expected JSON logging from SCRIBE_LOG_JSON")
	}
}

func TestExecute_FlagOverridesEnv(t *testing.T) {
	t.Cleanup(func() { _ = logging.InitializeTo(discard{}, false, "warn") })

	t.Setenv("SCRIBE_LOG_LEVEL", "loud")
	if err := Execute([]string{"--log-level", "error", "version"}); err != nil {
		t.Fatalf("flag should take precedence over env: %v", err)
	}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
