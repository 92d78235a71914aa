package e2e

import (
	"fmt"
	"strings"
	"testing"
)

func luaRepo(workers int, inline string, timeoutMs int) map[string]string {
	files := map[string]string{
		"scribe.cue": fmt.Sprintf(`{
  configVersion: "1"
  "extractor-identifier": "identity-extractor"
  "annotator-identifier": "scored"
  "postprocessor-identifier": "write-back"
  discovery: { root: "data" }
  workers: %d
  errors: { mode: "fail-fast" }
  lua: {
    timeoutMs: %d
    memoryLimitBytes: 8388608
    deterministicRandom: true
    libs: { base: true, table: true, string: true, math: true }
  }
  functions: {
    scored: { role: "annotator", in: "text", inline: %q }
  }
}
`, workers, timeoutMs, inline),
	}
	for i := 0; i < 30; i++ {
		files[fmt.Sprintf("data/f%04d.doc.yaml", i)] = fmt.Sprintf("text: item %d\n", i)
	}
	return files
}

func TestLuaSandboxE2E_FailFastInfiniteLoop(t *testing.T) {
	bin := buildScribe(t)
	repo := seedRepo(t, luaRepo(1, "return function(s) while true do end end", 20))
	r := runCmd(t, bin, repo, "run", "--config", "scribe.cue")
	if r.code == 0 {
		t.Fatalf("expected non-zero exit")
	}
	if string(r.stdout) != "" {
		t.Fatalf("expected empty stdout, got %s", r.stdout)
	}
	if got := string(r.stderr); !strings.Contains(got, "annotate:") || !strings.Contains(got, "sandbox timeout") {
		t.Fatalf("unexpected stderr: %s", got)
	}
	if strings.Count(string(r.stderr), "\n") != 1 {
		t.Fatalf("expected a single error line: %q", r.stderr)
	}
}

func TestLuaSandboxE2E_DeterministicRandomAcrossWorkers(t *testing.T) {
	bin := buildScribe(t)
	code := "return function(s) return s .. ' ' .. math.random(1, 1000000) end"
	r1 := runCmd(t, bin, seedRepo(t, luaRepo(1, code, 2000)), "run", "--config", "scribe.cue")
	r8 := runCmd(t, bin, seedRepo(t, luaRepo(8, code, 2000)), "run", "--config", "scribe.cue")
	if r1.code != 0 || len(r1.stderr) != 0 {
		t.Fatalf("workers=1 failed: code=%d stderr=%s", r1.code, r1.stderr)
	}
	if r8.code != 0 || len(r8.stderr) != 0 {
		t.Fatalf("workers=8 failed: code=%d stderr=%s", r8.code, r8.stderr)
	}
	if string(r1.stdout) != string(r8.stdout) {
		t.Fatalf("stdout drift workers=1 vs workers=8")
	}
}
