package registry

import "regexp"

// Label-and-value lines are the dominant layout in scanned genetic reports:
// "Patient Name: Jane Doe", "Sample Date - 2024-05-01". Shorthand variant
// lines ("BRCA1 c.68_69delAG Pathogenic mutation detected") carry the gene,
// the HGVS token, and the classification in one line, so those fields get a
// second pattern matching that layout.
const (
	sep            = `\s*[:|\-]\s*`
	classification = `likely\s+pathogenic|pathogenic|likely\s+benign|benign|variant\s+of\s+uncertain\s+significance|vus`
	hgvsToken      = `(?:c\.|p\.|g\.)\S+|exon\S+`
)

// Default returns the built-in clinical report registry. The field order here
// is the row order of every exported table.
func Default() *Registry {
	r, err := New(
		FieldSpec{
			Name: "Patient Name",
			Patterns: []*regexp.Regexp{
				MustPattern(`^\s*patient(?:\s+name)?` + sep + `(.+)$`),
			},
			Normalize: CollapseSpace,
		},
		FieldSpec{
			Name: "Patient ID",
			Patterns: []*regexp.Regexp{
				MustPattern(`^\s*(?:patient\s+id|identifier|mrn|id)` + sep + `(.+)$`),
			},
			Normalize: CollapseSpace,
		},
		FieldSpec{
			Name: "Date of Birth",
			Patterns: []*regexp.Regexp{
				MustPattern(`^\s*(?:date\s+of\s+birth|dob|birth\s+date)` + sep + `(.+)$`),
			},
			Normalize: DateISO,
		},
		FieldSpec{
			Name: "Sample ID",
			Patterns: []*regexp.Regexp{
				MustPattern(`^\s*(?:sample\s+id|specimen(?:\s+id)?|sample)` + sep + `(.+)$`),
			},
			Normalize: CollapseSpace,
		},
		FieldSpec{
			Name: "Sample Date",
			Patterns: []*regexp.Regexp{
				MustPattern(`^\s*(?:sample\s+date|collection\s+date|collected(?:\s+on)?)` + sep + `(.+)$`),
			},
			Normalize: DateISO,
		},
		FieldSpec{
			Name: "Report Date",
			Patterns: []*regexp.Regexp{
				MustPattern(`^\s*(?:report\s+date|reported(?:\s+on)?|date\s+of\s+report)` + sep + `(.+)$`),
			},
			Normalize: DateISO,
		},
		FieldSpec{
			Name: "Gene",
			Patterns: []*regexp.Regexp{
				MustPattern(`^\s*gene` + sep + `(.+)$`),
				MustPattern(`^\s*([A-Z][A-Z0-9]{1,9})[\s,:;\-]+(?:` + hgvsToken + `)`),
			},
			Normalize: Upper,
		},
		FieldSpec{
			Name: "Variant",
			Patterns: []*regexp.Regexp{
				MustPattern(`^\s*variant` + sep + `(.+)$`),
				MustPattern(`^\s*[A-Z][A-Z0-9]{1,9}[\s,:;\-]+(` + hgvsToken + `)`),
			},
			Normalize: CollapseSpace,
		},
		FieldSpec{
			Name: "Transcript",
			Patterns: []*regexp.Regexp{
				MustPattern(`^\s*transcript` + sep + `(.+)$`),
				MustPattern(`\b(N[MR]_\d+(?:\.\d+)?)\b`),
			},
			Normalize: CollapseSpace,
		},
		FieldSpec{
			Name: "Zygosity",
			Patterns: []*regexp.Regexp{
				MustPattern(`^\s*zygosity` + sep + `(.+)$`),
				MustPattern(`\b(heterozygous|homozygous|hemizygous)\b`),
			},
			Normalize: TitleCase,
		},
		FieldSpec{
			Name: "Classification",
			Patterns: []*regexp.Regexp{
				MustPattern(`^\s*classification` + sep + `(.+)$`),
				MustPattern(`\b(` + classification + `)\b`),
			},
			Normalize: TitleCase,
		},
		FieldSpec{
			Name: "Interpretation",
			Patterns: []*regexp.Regexp{
				MustPattern(`^\s*interpretation` + sep + `(.+)$`),
			},
			Normalize: CollapseSpace,
		},
		FieldSpec{
			Name: "Recommendations",
			Patterns: []*regexp.Regexp{
				MustPattern(`^\s*recommendations?` + sep + `(.+)$`),
			},
			Normalize: CollapseSpace,
		},
		FieldSpec{
			Name: "Notes",
			Patterns: []*regexp.Regexp{
				MustPattern(`^\s*notes?` + sep + `(.+)$`),
			},
			Normalize: CollapseSpace,
		},
	)
	if err != nil {
		panic(err) // built-in specs are validated by tests
	}
	return r
}
