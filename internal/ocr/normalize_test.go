package ocr

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"crlf to lf", "a\r\nb\rc", "a\nb\nc"},
		{"tabs and space runs", "a\t\tb   c", "a b c"},
		{"blank line runs collapse", "a\n\n\n\n\nb", "a\n\nb"},
		{"trailing spaces stripped", "a   \nb", "a\nb"},
		{"rule noise removed", "Patient Name: Jane\n------\nGene: BRCA1", "Patient Name: Jane\n\nGene: BRCA1"},
		{"underscore box lines removed", "___ \nvalue", "value"},
		{"outer whitespace trimmed", "\n\n  text  \n\n", "text"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.in); got != tc.want {
				t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestHeuristicConfidence(t *testing.T) {
	empty := heuristicConfidence("")
	report := heuristicConfidence("Patient Name: Jane Doe\nDOB: 1980-01-01\nBRCA1 c.68_69delAG Pathogenic")

	if report <= empty {
		t.Errorf("report-like text should score higher: %f <= %f", report, empty)
	}
	if report > 1.0 {
		t.Errorf("confidence above 1: %f", report)
	}
}

func TestBlendConfidence(t *testing.T) {
	if got := blendConfidence(0, 0.5); got != 0.5 {
		t.Errorf("heuristic only: got %f", got)
	}
	if got := blendConfidence(0.8, 0.4); got < 0.67 || got > 0.69 {
		t.Errorf("blend: got %f, want 0.68", got)
	}
	if got := blendConfidence(1.0, 1.0); got > 1.0 {
		t.Errorf("blend exceeded 1: %f", got)
	}
}
