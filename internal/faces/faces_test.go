package faces

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNumericLabels(t *testing.T) {
	set := Numeric()
	if !set.Numeric() {
		t.Fatalf("expected numeric set")
	}
	if got := set.Label(7); got != "7" {
		t.Fatalf("expected label 7, got %q", got)
	}
	if !set.Covers(12) {
		t.Fatalf("numeric set should cover any deck")
	}
	if got := set.Width(12); got != 2 {
		t.Fatalf("expected width 2, got %d", got)
	}
}

func TestLoadSkipsBlankAndComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "faces.txt")
	data := "# animals\ncat\n\n  dog  \nfox\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write faces: %v", err)
	}
	set, err := Load(path)
	if err != nil {
		t.Fatalf("load faces: %v", err)
	}
	if set.Len() != 3 {
		t.Fatalf("expected 3 labels, got %d", set.Len())
	}
	if got := set.Label(2); got != "dog" {
		t.Fatalf("expected dog, got %q", got)
	}
	if got := set.Label(4); got != "4" {
		t.Fatalf("expected numeric fallback, got %q", got)
	}
	if set.Covers(4) {
		t.Fatalf("three labels should not cover four pairs")
	}
	if got := set.Width(3); got != 3 {
		t.Fatalf("expected width 3, got %d", got)
	}
}

func TestLoadRejectsBadSets(t *testing.T) {
	cases := map[string]string{
		"empty":     "# nothing\n\n",
		"duplicate": "cat\ncat\n",
		"too wide":  "hippopotamus\n",
	}
	for name, data := range cases {
		path := filepath.Join(t.TempDir(), "faces.txt")
		if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
			t.Fatalf("write faces: %v", err)
		}
		if _, err := Load(path); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestWideRunesCountByCell(t *testing.T) {
	set, err := New([]string{"猫", "犬"})
	if err != nil {
		t.Fatalf("new set: %v", err)
	}
	if got := set.Width(2); got != 2 {
		t.Fatalf("expected width 2, got %d", got)
	}
}
