package phrasebank

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const yamlBank = `
generic:
  - "rough week"
  - "tough scene"
top_score:
  - "crushed it"
empty_cat: []
`

const jsonBank = `{
  "generic": ["rough week"],
  "top_score": ["crushed it"]
}`

func TestLoadYAML(t *testing.T) {
	b, err := Load([]byte(yamlBank), ".yaml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := []string{"rough week", "tough scene"}
	if diff := cmp.Diff(want, b.Phrases("generic")); diff != "" {
		t.Errorf("generic mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadJSON(t *testing.T) {
	b, err := Load([]byte(jsonBank), ".json")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(b.Phrases("top_score")) != 1 {
		t.Errorf("unexpected bank: %v", b)
	}
}

func TestLoadSniffsFormat(t *testing.T) {
	if _, err := Load([]byte(jsonBank), ""); err != nil {
		t.Errorf("JSON content without extension: %v", err)
	}
	if _, err := Load([]byte(yamlBank), ""); err != nil {
		t.Errorf("YAML content without extension: %v", err)
	}
}

func TestLoadEmptyBank(t *testing.T) {
	if _, err := Load([]byte("{}"), ".json"); err == nil {
		t.Fatal("expected error for empty bank")
	}
	if _, err := Load([]byte(""), ".yaml"); err == nil {
		t.Fatal("expected error for empty document")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "phrases.yml")
	if err := os.WriteFile(path, []byte(yamlBank), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if !b.Has("generic") {
		t.Error("expected generic category")
	}
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestHasAndCategories(t *testing.T) {
	b, err := Load([]byte(yamlBank), ".yaml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if b.Has("empty_cat") {
		t.Error("empty category should not count as present")
	}
	if b.Has("missing") {
		t.Error("missing category should not count as present")
	}
	want := []string{"empty_cat", "generic", "top_score"}
	if diff := cmp.Diff(want, b.Categories()); diff != "" {
		t.Errorf("categories mismatch (-want +got):\n%s", diff)
	}
}
