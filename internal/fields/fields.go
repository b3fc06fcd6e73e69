// Package fields turns recognized report text into a normalized, ordered set
// of named values using a pattern registry.
package fields

import (
	"encoding/json"
	"strings"

	"github.com/amara-nwosu/gene-report-reader/internal/registry"
)

// Field is one extracted name/value pair. Value is "" when nothing matched.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Result is an ordered field-name-to-value mapping for one report text.
// Order is registry declaration order; every declared field is present.
type Result struct {
	fields []Field
	index  map[string]int
}

// Fields returns the extracted pairs in registry order.
func (r Result) Fields() []Field {
	out := make([]Field, len(r.fields))
	copy(out, r.fields)
	return out
}

// Get returns the value for name and whether the field is declared.
func (r Result) Get(name string) (string, bool) {
	i, ok := r.index[name]
	if !ok {
		return "", false
	}
	return r.fields[i].Value, true
}

// Len returns the number of declared fields.
func (r Result) Len() int { return len(r.fields) }

// Matched returns how many fields have a non-empty value.
func (r Result) Matched() int {
	n := 0
	for _, f := range r.fields {
		if f.Value != "" {
			n++
		}
	}
	return n
}

// JSON encodes the result as an ordered array of {name,value} objects.
func (r Result) JSON() ([]byte, error) {
	return json.Marshal(r.fields)
}

// FromJSON decodes a result previously encoded with JSON.
func FromJSON(data []byte) (Result, error) {
	var fs []Field
	if err := json.Unmarshal(data, &fs); err != nil {
		return Result{}, err
	}
	return newResult(fs), nil
}

func newResult(fs []Field) Result {
	idx := make(map[string]int, len(fs))
	for i, f := range fs {
		idx[f.Name] = i
	}
	return Result{fields: fs, index: idx}
}

// Extract applies specs to text in registry order and returns one value per
// spec. For each spec the patterns are tried in order; the first pattern that
// matches wins, and within the text the leftmost occurrence wins (repeated
// boilerplate never overrides the first real value). Unmatched fields get an
// empty value. Extract never fails: any text, including "", is valid input.
func Extract(text string, specs []registry.FieldSpec) Result {
	fs := make([]Field, 0, len(specs))
	for _, spec := range specs {
		fs = append(fs, Field{Name: spec.Name, Value: extractOne(text, spec)})
	}
	return newResult(fs)
}

func extractOne(text string, spec registry.FieldSpec) string {
	for _, re := range spec.Patterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		raw := m[0]
		if len(m) > 1 {
			// First non-empty capture group carries the value; a pattern
			// whose groups all matched empty yields an empty value.
			raw = ""
			for _, g := range m[1:] {
				if g != "" {
					raw = g
					break
				}
			}
		}
		raw = strings.TrimSpace(raw)
		if spec.Normalize != nil {
			raw = strings.TrimSpace(spec.Normalize(raw))
		}
		return raw
	}
	return ""
}
