package registry

import (
	"fmt"
	"regexp"
)

// FieldSpec is a declarative rule for locating one named value in report text.
// Patterns are tried in order; the first one that matches anywhere in the text
// supplies the field's raw value (capture group 1 when present, otherwise the
// whole match).
type FieldSpec struct {
	Name      string
	Patterns  []*regexp.Regexp
	Normalize Normalizer // optional; must be total when set
}

// Registry holds the ordered, immutable set of field specs the reader knows
// how to extract. Declaration order is the order fields appear in every
// extraction result and every rendered table.
type Registry struct {
	specs []FieldSpec
}

// New validates specs and builds a registry. Names must be unique and
// non-empty, and every spec needs at least one pattern.
func New(specs ...FieldSpec) (*Registry, error) {
	seen := make(map[string]struct{}, len(specs))
	for i, s := range specs {
		if s.Name == "" {
			return nil, fmt.Errorf("spec %d: empty field name", i)
		}
		if _, dup := seen[s.Name]; dup {
			return nil, fmt.Errorf("duplicate field name %q", s.Name)
		}
		seen[s.Name] = struct{}{}
		if len(s.Patterns) == 0 {
			return nil, fmt.Errorf("field %q: no patterns", s.Name)
		}
	}
	out := make([]FieldSpec, len(specs))
	copy(out, specs)
	return &Registry{specs: out}, nil
}

// Fields returns the specs in declaration order. The returned slice is a
// copy, so callers cannot reorder the registry.
func (r *Registry) Fields() []FieldSpec {
	out := make([]FieldSpec, len(r.specs))
	copy(out, r.specs)
	return out
}

// Len returns the number of declared fields.
func (r *Registry) Len() int { return len(r.specs) }

// CompilePattern compiles expr case-insensitive and multi-line, the matching
// mode every registry pattern uses. Scanned text is matched line-anchored, so
// ^ and $ bind to line boundaries.
func CompilePattern(expr string) (*regexp.Regexp, error) {
	return regexp.Compile("(?im)" + expr)
}

// MustPattern is CompilePattern for built-in patterns known to be valid.
func MustPattern(expr string) *regexp.Regexp {
	re, err := CompilePattern(expr)
	if err != nil {
		panic(err)
	}
	return re
}
