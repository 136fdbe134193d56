// Package yamlloader implements the usecases.SolutionLoader and
// usecases.CdefaultLoader collaborators: it decodes *.csolution.yml,
// *.cproject.yml, *.clayer.yml, and cdefault.yml documents into entities.
//
// Decoding goes through two stages: gopkg.in/yaml.v3 unmarshals the raw
// document into a map[string]any (so unknown keys don't abort decoding),
// then github.com/go-viper/mapstructure/v2 decodes that map into the
// package's typed DTOs with weakly-typed input conversion (e.g. a YAML
// boolean written as a string in hand-edited documents still decodes).
// Each document kind is, by default, structurally validated against a
// JSON Schema (internal/adapters/yamlloader/schema) before conversion,
// skipped when the caller sets SkipSchemaCheck (the `-n/--no-check-schema`
// CLI flag).
package yamlloader

import (
	"context"
	"fmt"
	"os"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"

	"github.com/embedstack/cbuild/internal/adapters/fsutil"
	"github.com/embedstack/cbuild/internal/adapters/yamlloader/schema"
	"github.com/embedstack/cbuild/internal/core/entities"
	"github.com/embedstack/cbuild/internal/core/usecases"
)

// Loader implements usecases.SolutionLoader and usecases.CdefaultLoader.
type Loader struct {
	// SkipSchemaCheck disables JSON-Schema structural validation, matching
	// `-n/--no-check-schema`.
	SkipSchemaCheck bool
}

// New builds a Loader with schema checking enabled.
func New() *Loader {
	return &Loader{}
}

func readRaw(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("yamlloader: %s: %w", path, err)
	}
	return raw, nil
}

func decodeInto(raw map[string]any, target any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           target,
		TagName:          "yaml",
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

func (l *Loader) checkSchema(kind string, raw map[string]any, path string, sink usecases.DiagnosticSink) {
	if l.SkipSchemaCheck {
		return
	}
	for _, msg := range schema.Validate(kind, raw) {
		sink.Error("M101", msg, map[string]string{"kind": kind}, path, 0, 0)
	}
}

// LoadSolution decodes a *.csolution.yml document.
func (l *Loader) LoadSolution(ctx context.Context, path string, sink usecases.DiagnosticSink) (*entities.Solution, error) {
	raw, err := readRaw(path)
	if err != nil {
		return nil, err
	}
	l.checkSchema("csolution", raw, path, sink)

	var doc solutionFileDoc
	if err := decodeInto(raw, &doc); err != nil {
		return nil, fmt.Errorf("yamlloader: %s: %w", path, err)
	}
	sol, err := toSolution(doc.Solution, path)
	if err != nil {
		return nil, fmt.Errorf("yamlloader: %s: %w", path, err)
	}
	if err := sol.Validate(); err != nil {
		return nil, err
	}
	return sol, nil
}

// LoadProject decodes a *.cproject.yml document. The project's Name is
// derived from the file's base name, matching entities.Solution's
// project-ref-to-name convention.
func (l *Loader) LoadProject(ctx context.Context, path string, sink usecases.DiagnosticSink) (*entities.Project, error) {
	raw, err := readRaw(path)
	if err != nil {
		return nil, err
	}
	l.checkSchema("cproject", raw, path, sink)

	var doc projectFileDoc
	if err := decodeInto(raw, &doc); err != nil {
		return nil, fmt.Errorf("yamlloader: %s: %w", path, err)
	}
	name := baseNameWithoutSuffixes(path, ".cproject.yml", ".cproject.yaml")
	proj, err := toProject(doc.Project, name, path)
	if err != nil {
		return nil, fmt.Errorf("yamlloader: %s: %w", path, err)
	}
	if err := proj.Validate(); err != nil {
		return nil, err
	}
	return proj, nil
}

// LoadLayer decodes a *.clayer.yml document.
func (l *Loader) LoadLayer(ctx context.Context, path string, sink usecases.DiagnosticSink) (*entities.Layer, error) {
	raw, err := readRaw(path)
	if err != nil {
		return nil, err
	}
	l.checkSchema("clayer", raw, path, sink)

	var doc layerFileDoc
	if err := decodeInto(raw, &doc); err != nil {
		return nil, fmt.Errorf("yamlloader: %s: %w", path, err)
	}
	name := baseNameWithoutSuffixes(path, ".clayer.yml", ".clayer.yaml")
	layer, err := toLayer(doc.Layer, name, path)
	if err != nil {
		return nil, fmt.Errorf("yamlloader: %s: %w", path, err)
	}
	if err := layer.Validate(); err != nil {
		return nil, err
	}
	return layer, nil
}

// LoadCdefault decodes the cdefault.yml compiler-default document.
func (l *Loader) LoadCdefault(ctx context.Context, path string, sink usecases.DiagnosticSink) (*entities.AttributeSet, error) {
	raw, err := readRaw(path)
	if err != nil {
		return nil, err
	}
	l.checkSchema("cdefault", raw, path, sink)

	var doc cdefaultFileDoc
	if err := decodeInto(raw, &doc); err != nil {
		return nil, fmt.Errorf("yamlloader: %s: %w", path, err)
	}
	attrs := toAttributeSet(doc.Default)
	return &attrs, nil
}

func baseNameWithoutSuffixes(path string, suffixes ...string) string {
	name := fsutil.NormalizeSlashes(path)
	if i := lastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	for _, suffix := range suffixes {
		if len(name) > len(suffix) && name[len(name)-len(suffix):] == suffix {
			return name[:len(name)-len(suffix)]
		}
	}
	return name
}

func lastIndexByte(s string, b byte) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == b {
			return i
		}
	}
	return -1
}
