// Package schema performs structural-shape validation of decoded
// *.csolution.yml / *.cproject.yml / *.clayer.yml / cdefault.yml documents
// against a JSON Schema per document kind, using
// github.com/google/jsonschema-go, the same library
// _examples/standardbeagle-lci wires in for its MCP tool input schemas.
// This is the `-n/--no-check-schema` gate: skipped when the CLI disables
// it, run by default otherwise.
package schema

import (
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

var schemas = map[string]*jsonschema.Schema{
	"csolution": {
		Type:     "object",
		Required: []string{"solution"},
		Properties: map[string]*jsonschema.Schema{
			"solution": {
				Type:     "object",
				Required: []string{"projects"},
				Properties: map[string]*jsonschema.Schema{
					"projects": {Type: "array", Items: &jsonschema.Schema{Type: "object"}},
				},
			},
		},
	},
	"cproject": {
		Type:     "object",
		Required: []string{"project"},
		Properties: map[string]*jsonschema.Schema{
			"project": {Type: "object"},
		},
	},
	"clayer": {
		Type:     "object",
		Required: []string{"layer"},
		Properties: map[string]*jsonschema.Schema{
			"layer": {Type: "object"},
		},
	},
	"cdefault": {
		Type:     "object",
		Required: []string{"default"},
		Properties: map[string]*jsonschema.Schema{
			"default": {Type: "object"},
		},
	},
}

// resolved caches each schema's Resolve() result -- resolution validates
// the schema itself and wires $ref/$dynamicRef lookups, and only needs to
// happen once per process.
var resolved = map[string]*jsonschema.Resolved{}

func init() {
	for kind, s := range schemas {
		r, err := s.Resolve(nil)
		if err != nil {
			panic(fmt.Sprintf("yamlloader/schema: invalid built-in schema %q: %v", kind, err))
		}
		resolved[kind] = r
	}
}

// Validate checks raw against the schema registered for kind ("csolution",
// "cproject", "clayer", "cdefault") and returns one message per violation.
// An unknown kind is treated as "nothing to check" rather than an error,
// since new document kinds may be added without a matching schema yet.
func Validate(kind string, raw map[string]any) []string {
	r, ok := resolved[kind]
	if !ok {
		return nil
	}
	if err := r.Validate(raw); err != nil {
		return []string{err.Error()}
	}
	return nil
}
