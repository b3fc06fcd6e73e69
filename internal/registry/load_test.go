package registry

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/amara-nwosu/gene-report-reader/internal/common"
)

const sampleRegistryJSON = `{
  "fields": [
    {"name": "Patient Name", "patterns": ["^\\s*patient name\\s*:\\s*(.+)$"], "normalizer": "collapse_space"},
    {"name": "Report Date", "patterns": ["^\\s*report date\\s*:\\s*(.+)$"], "normalizer": "date_iso"},
    {"name": "Comments", "patterns": ["^\\s*comments?\\s*:\\s*(.+)$"]}
  ]
}`

func TestParse_ValidRegistry(t *testing.T) {
	r, err := Parse([]byte(sampleRegistryJSON))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	specs := r.Fields()
	if len(specs) != 3 {
		t.Fatalf("got %d fields, want 3", len(specs))
	}
	if specs[0].Name != "Patient Name" || specs[2].Name != "Comments" {
		t.Errorf("declaration order not preserved: %v", specs)
	}
	if specs[1].Normalize == nil {
		t.Error("normalizer not attached to Report Date")
	}
	if specs[2].Normalize != nil {
		t.Error("Comments should have no normalizer")
	}
	if got := specs[1].Normalize("05/01/2024"); got != "2024-05-01" {
		t.Errorf("wrong normalizer attached: got %q", got)
	}
}

func TestParse_SchemaViolations(t *testing.T) {
	cases := []struct {
		name string
		json string
	}{
		{"not json", `{`},
		{"missing fields key", `{}`},
		{"empty fields", `{"fields": []}`},
		{"field without patterns", `{"fields": [{"name": "X"}]}`},
		{"empty pattern list", `{"fields": [{"name": "X", "patterns": []}]}`},
		{"empty name", `{"fields": [{"name": "", "patterns": ["x"]}]}`},
		{"unknown normalizer", `{"fields": [{"name": "X", "patterns": ["x"], "normalizer": "reverse"}]}`},
		{"unknown key", `{"fields": [{"name": "X", "patterns": ["x"], "priority": 1}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse([]byte(tc.json)); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	t.Run("schema failure carries code", func(t *testing.T) {
		_, err := Parse([]byte(`{"fields": []}`))
		var appErr *common.AppError
		if !errors.As(err, &appErr) || appErr.Code != "REGISTRY_SCHEMA" {
			t.Errorf("got %v, want REGISTRY_SCHEMA AppError", err)
		}
	})
}

func TestParse_RejectsBadPatternAndDuplicates(t *testing.T) {
	t.Run("invalid regexp", func(t *testing.T) {
		_, err := Parse([]byte(`{"fields": [{"name": "X", "patterns": ["([unclosed"]}]}`))
		if err == nil {
			t.Error("expected compile error")
		}
	})

	t.Run("duplicate names", func(t *testing.T) {
		_, err := Parse([]byte(`{"fields": [
			{"name": "X", "patterns": ["a"]},
			{"name": "X", "patterns": ["b"]}
		]}`))
		if err == nil {
			t.Error("expected duplicate name error")
		}
	})
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	if err := os.WriteFile(path, []byte(sampleRegistryJSON), 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if r.Len() != 3 {
		t.Errorf("got %d fields, want 3", r.Len())
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
