package manifest

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), DefaultName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
	return path
}

func TestLoadPreservesDocumentOrder(t *testing.T) {
	path := writeManifest(t, `{
		"zeta": {"dependencies": ["wp-dom"]},
		"alpha": {"dependencies": []},
		"beta": {"dependencies": ["wp-element", "wp-i18n"], "version": "1.2.3"}
	}`)

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := []string{"zeta", "alpha", "beta"}
	if got := m.Handles(); !reflect.DeepEqual(got, want) {
		t.Errorf("Handles() = %v, want %v", got, want)
	}

	rec, ok := m.Record("beta")
	if !ok {
		t.Fatal("Record(beta) not found")
	}
	if !reflect.DeepEqual(rec.Dependencies, []string{"wp-element", "wp-i18n"}) {
		t.Errorf("beta dependencies = %v", rec.Dependencies)
	}
	if rec.Version != "1.2.3" {
		t.Errorf("beta version = %q, want 1.2.3", rec.Version)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("Load() expected error for missing file")
	}
}

func TestLoadRejectsMalformedRecord(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"dependencies not an array", `{"a": {"dependencies": "wp-dom"}}`},
		{"top level not an object", `["a", "b"]`},
		{"truncated document", `{"a": {"dependencies": ["x"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeManifest(t, tt.content)
			if _, err := Load(path); err == nil {
				t.Errorf("Load() expected error for %s", tt.name)
			}
		})
	}
}

func TestLoadOrEmptyFallsBack(t *testing.T) {
	m := LoadOrEmpty(filepath.Join(t.TempDir(), "missing.json"))
	if m.Len() != 0 {
		t.Errorf("Len() = %d, want 0", m.Len())
	}

	path := writeManifest(t, "not json at all")
	if m := LoadOrEmpty(path); m.Len() != 0 {
		t.Errorf("Len() = %d for unparseable manifest, want 0", m.Len())
	}
}

func TestAddAndHas(t *testing.T) {
	m := New()
	m.Add("a", AssetRecord{Dependencies: []string{"x"}})
	m.Add("b", AssetRecord{})
	m.Add("a", AssetRecord{Dependencies: []string{"y"}})

	if !m.Has("a") || !m.Has("b") || m.Has("c") {
		t.Error("Has() gave wrong membership")
	}
	if got := m.Handles(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Handles() = %v, re-adding must not duplicate order", got)
	}

	rec, _ := m.Record("a")
	if !reflect.DeepEqual(rec.Dependencies, []string{"y"}) {
		t.Errorf("Record(a) = %v after overwrite", rec.Dependencies)
	}
}

func TestMarshalRoundTripKeepsOrder(t *testing.T) {
	m := New()
	m.Add("late", AssetRecord{Dependencies: []string{"wp-dom"}})
	m.Add("early", AssetRecord{Dependencies: nil})

	data, err := m.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}

	var back Manifest
	if err := back.UnmarshalJSON(data); err != nil {
		t.Fatalf("UnmarshalJSON() error = %v", err)
	}
	if got := back.Handles(); !reflect.DeepEqual(got, []string{"late", "early"}) {
		t.Errorf("Handles() = %v after round trip", got)
	}
}
