package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"regexp"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/amara-nwosu/gene-report-reader/internal/common"
)

// fileSpec is the on-disk shape of one field rule.
type fileSpec struct {
	Name       string   `json:"name"`
	Patterns   []string `json:"patterns"`
	Normalizer string   `json:"normalizer,omitempty"`
}

type fileRegistry struct {
	Fields []fileSpec `json:"fields"`
}

// registrySchema returns the JSON-Schema (draft 2020-12 subset) a registry
// file must satisfy. Kept as a generic map so it can double as documentation.
func registrySchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []string{"fields"},
		"properties": map[string]any{
			"fields": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"required":             []string{"name", "patterns"},
					"properties": map[string]any{
						"name": map[string]any{"type": "string", "minLength": 1},
						"patterns": map[string]any{
							"type":     "array",
							"minItems": 1,
							"items":    map[string]any{"type": "string", "minLength": 1},
						},
						"normalizer": map[string]any{
							"type": "string",
							"enum": []string{NormCollapseSpace, NormDateISO, NormTitleCase, NormUpper},
						},
					},
				},
			},
		},
	}
}

// validateRegistryJSON validates data against the registry file schema.
func validateRegistryJSON(data []byte) error {
	b, err := json.Marshal(registrySchema())
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("registry.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("registry.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal registry: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return common.NewAppError("REGISTRY_SCHEMA", "registry file does not match schema", err)
	}
	return nil
}

// Parse builds a registry from JSON bytes, validating against the schema and
// compiling every pattern. The resulting registry is immutable.
func Parse(data []byte) (*Registry, error) {
	if err := validateRegistryJSON(data); err != nil {
		return nil, err
	}
	var fr fileRegistry
	if err := json.Unmarshal(data, &fr); err != nil {
		return nil, fmt.Errorf("decode registry: %w", err)
	}
	specs := make([]FieldSpec, 0, len(fr.Fields))
	for _, f := range fr.Fields {
		patterns := make([]*regexp.Regexp, 0, len(f.Patterns))
		for _, p := range f.Patterns {
			re, err := CompilePattern(p)
			if err != nil {
				return nil, fmt.Errorf("field %q: pattern %q: %w", f.Name, p, err)
			}
			patterns = append(patterns, re)
		}
		spec := FieldSpec{Name: f.Name, Patterns: patterns}
		if f.Normalizer != "" {
			n, err := LookupNormalizer(f.Normalizer)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", f.Name, err)
			}
			spec.Normalize = n
		}
		specs = append(specs, spec)
	}
	return New(specs...)
}

// LoadFile reads and parses a registry JSON file.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry: %w", err)
	}
	return Parse(data)
}
