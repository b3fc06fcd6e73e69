package registry

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Normalizer transforms a matched raw value before storage. Normalizers are
// total: when a transform cannot produce a sensible value it returns its
// input unchanged, never an error.
type Normalizer func(string) string

// Named normalizers available to JSON-loaded registries.
const (
	NormCollapseSpace = "collapse_space"
	NormDateISO       = "date_iso"
	NormTitleCase     = "title_case"
	NormUpper         = "upper"
)

var normalizers = map[string]Normalizer{
	NormCollapseSpace: CollapseSpace,
	NormDateISO:       DateISO,
	NormTitleCase:     TitleCase,
	NormUpper:         Upper,
}

// LookupNormalizer resolves a normalizer by name.
func LookupNormalizer(name string) (Normalizer, error) {
	n, ok := normalizers[name]
	if !ok {
		return nil, fmt.Errorf("unknown normalizer %q", name)
	}
	return n, nil
}

var reSpaceRun = regexp.MustCompile(`\s+`)

// CollapseSpace trims the value and squeezes internal whitespace runs to a
// single space.
func CollapseSpace(s string) string {
	return strings.TrimSpace(reSpaceRun.ReplaceAllString(s, " "))
}

// Date layouts seen in scanned reports, most specific first.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"02 Jan 2006",
	"2 Jan 2006",
	"02-Jan-2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 January 2006",
}

// DateISO reformats a recognized date to YYYY-MM-DD. Unrecognized layouts are
// returned unchanged.
func DateISO(s string) string {
	v := CollapseSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return s
}

// TitleCase uppercases the first letter of each space-separated word,
// lowercasing the rest ("LIKELY PATHOGENIC" -> "Likely Pathogenic").
func TitleCase(s string) string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return s
	}
	for i, w := range words {
		r := []rune(strings.ToLower(w))
		r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// Upper trims and uppercases the value.
func Upper(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
