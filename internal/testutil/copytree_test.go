package testutil

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCopyTree_RoundTrip(t *testing.T) {
	src := filepath.Join(t.TempDir(), "src")
	dst := filepath.Join(t.TempDir(), "dst")
	files := map[string]string{
		"a.doc.yaml":        "text: a\n",
		"nested/b.doc.yaml": "text: b\n",
		".gitignore":        "tmp/\n",
	}
	if err := WriteTree(src, files); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := WriteTree(dst, map[string]string{"stale.txt": "x"}); err != nil {
		t.Fatalf("write stale: %v", err)
	}
	if err := CopyTree(src, dst); err != nil {
		t.Fatalf("copy: %v", err)
	}
	got, err := ReadTree(dst)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if diff := cmp.Diff(files, got); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
}
