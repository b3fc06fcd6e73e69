package fields

import (
	"reflect"
	"regexp"
	"testing"

	"github.com/amara-nwosu/gene-report-reader/internal/registry"
)

func specsFor(t *testing.T, r *registry.Registry) []registry.FieldSpec {
	t.Helper()
	return r.Fields()
}

func mustRegistry(t *testing.T, specs ...registry.FieldSpec) []registry.FieldSpec {
	t.Helper()
	r, err := registry.New(specs...)
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}
	return r.Fields()
}

func TestExtract_ContainsExactlyDeclaredFieldsInOrder(t *testing.T) {
	specs := mustRegistry(t,
		registry.FieldSpec{Name: "Patient Name", Patterns: []*regexp.Regexp{registry.MustPattern(`patient name:\s*(.+)`)}},
		registry.FieldSpec{Name: "Date of Birth", Patterns: []*regexp.Regexp{registry.MustPattern(`dob:\s*(.+)`)}},
	)

	texts := []string{
		"",
		"Patient Name: Jane Doe\nDOB: 1980-01-01\nNotes: none",
		"Notes: illegible scan",
		"completely unrelated text | with pipes\nand lines",
	}
	for _, text := range texts {
		res := Extract(text, specs)
		if res.Len() != 2 {
			t.Fatalf("text %q: got %d fields, want 2", text, res.Len())
		}
		fs := res.Fields()
		if fs[0].Name != "Patient Name" || fs[1].Name != "Date of Birth" {
			t.Errorf("text %q: wrong order: %v", text, fs)
		}
	}
}

func TestExtract_ExampleScenario(t *testing.T) {
	specs := mustRegistry(t,
		registry.FieldSpec{Name: "Patient Name", Patterns: []*regexp.Regexp{registry.MustPattern(`patient name:\s*(.+)`)}},
		registry.FieldSpec{Name: "Date of Birth", Patterns: []*regexp.Regexp{registry.MustPattern(`dob:\s*(.+)`)}},
	)

	t.Run("both fields present", func(t *testing.T) {
		res := Extract("Patient Name: Jane Doe\nDOB: 1980-01-01\nNotes: none", specs)
		want := []Field{
			{Name: "Patient Name", Value: "Jane Doe"},
			{Name: "Date of Birth", Value: "1980-01-01"},
		}
		if !reflect.DeepEqual(res.Fields(), want) {
			t.Errorf("got %v, want %v", res.Fields(), want)
		}
	})

	t.Run("nothing matches", func(t *testing.T) {
		res := Extract("Notes: illegible scan", specs)
		want := []Field{
			{Name: "Patient Name", Value: ""},
			{Name: "Date of Birth", Value: ""},
		}
		if !reflect.DeepEqual(res.Fields(), want) {
			t.Errorf("got %v, want %v", res.Fields(), want)
		}
	})
}

func TestExtract_FirstPatternWins(t *testing.T) {
	specs := mustRegistry(t, registry.FieldSpec{
		Name: "Sample ID",
		Patterns: []*regexp.Regexp{
			registry.MustPattern(`sample id:\s*(\S+)`),
			registry.MustPattern(`specimen:\s*(\S+)`),
		},
	})

	res := Extract("Specimen: SP-9\nSample ID: GS-1", specs)
	if v, _ := res.Get("Sample ID"); v != "GS-1" {
		t.Errorf("got %q, want value from first pattern GS-1", v)
	}
}

func TestExtract_LeftmostOccurrenceWins(t *testing.T) {
	specs := mustRegistry(t, registry.FieldSpec{
		Name:     "Gene",
		Patterns: []*regexp.Regexp{registry.MustPattern(`gene:\s*(\S+)`)},
	})

	// Repeated boilerplate later in the text must not override the first hit.
	res := Extract("Gene: BRCA1\nfooter boilerplate Gene: PLACEHOLDER", specs)
	if v, _ := res.Get("Gene"); v != "BRCA1" {
		t.Errorf("got %q, want BRCA1", v)
	}
}

func TestExtract_CaseInsensitiveAndTrimmed(t *testing.T) {
	specs := mustRegistry(t, registry.FieldSpec{
		Name:     "Patient Name",
		Patterns: []*regexp.Regexp{registry.MustPattern(`patient name:\s*(.+)`)},
	})

	res := Extract("PATIENT NAME:    Jane Doe   ", specs)
	if v, _ := res.Get("Patient Name"); v != "Jane Doe" {
		t.Errorf("got %q, want trimmed %q", v, "Jane Doe")
	}
}

func TestExtract_NormalizerApplied(t *testing.T) {
	specs := mustRegistry(t, registry.FieldSpec{
		Name:      "Report Date",
		Patterns:  []*regexp.Regexp{registry.MustPattern(`report date:\s*(.+)`)},
		Normalize: registry.DateISO,
	})

	t.Run("recognized layout reformatted", func(t *testing.T) {
		res := Extract("Report Date: 05/01/2024", specs)
		if v, _ := res.Get("Report Date"); v != "2024-05-01" {
			t.Errorf("got %q, want 2024-05-01", v)
		}
	})

	t.Run("unrecognized layout kept raw", func(t *testing.T) {
		res := Extract("Report Date: sometime last spring", specs)
		if v, _ := res.Get("Report Date"); v != "sometime last spring" {
			t.Errorf("got %q, want raw value", v)
		}
	})
}

func TestExtract_Idempotent(t *testing.T) {
	specs := specsFor(t, registry.Default())
	text := "Patient Name: Jane Doe\nBRCA1 c.68_69delAG Pathogenic mutation detected"

	a := Extract(text, specs)
	b := Extract(text, specs)
	if !reflect.DeepEqual(a.Fields(), b.Fields()) {
		t.Errorf("extract is not deterministic: %v vs %v", a.Fields(), b.Fields())
	}
}

func TestExtract_DefaultRegistryScenario(t *testing.T) {
	text := `
Patient Name: Jane Doe
Patient ID: 12345
Sample Date - 2024-05-01
BRCA1 c.68_69delAG Pathogenic mutation detected
Recommendations: Consider familial testing.
`
	res := Extract(text, registry.Default().Fields())

	want := map[string]string{
		"Patient Name":    "Jane Doe",
		"Patient ID":      "12345",
		"Sample Date":     "2024-05-01",
		"Gene":            "BRCA1",
		"Variant":         "c.68_69delAG",
		"Classification":  "Pathogenic",
		"Recommendations": "Consider familial testing.",
	}
	for name, v := range want {
		got, ok := res.Get(name)
		if !ok {
			t.Fatalf("field %q not declared", name)
		}
		if got != v {
			t.Errorf("field %q: got %q, want %q", name, got, v)
		}
	}

	// Fields without a match are declared but empty.
	for _, name := range []string{"Date of Birth", "Transcript", "Zygosity"} {
		got, ok := res.Get(name)
		if !ok {
			t.Fatalf("field %q not declared", name)
		}
		if got != "" {
			t.Errorf("field %q: got %q, want empty", name, got)
		}
	}
}

func TestResult_JSONRoundTrip(t *testing.T) {
	specs := specsFor(t, registry.Default())
	res := Extract("Patient Name: Jane Doe", specs)

	b, err := res.JSON()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	back, err := FromJSON(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(res.Fields(), back.Fields()) {
		t.Errorf("round trip changed fields: %v vs %v", res.Fields(), back.Fields())
	}
}
