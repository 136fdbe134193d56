package usecases

import (
	"context"
	"fmt"

	"github.com/embedstack/cbuild/internal/core/entities"
)

// PendingGenerator is one component's recorded request to run (or have
// already run) an external generator, keyed by (generator id, options).
type PendingGenerator struct {
	GeneratorID string
	Component   string
	Options     map[string]string
	Global      bool // true if the active toolchain declares this id as a global generator
}

// PdscImporter loads a single PDSC-shaped document (a real pack manifest
// or a generated .gpdsc import) into a Pack, used to re-invoke the loader
// on generator output.
type PdscImporter interface {
	ImportPDSC(ctx context.Context, path string, sink DiagnosticSink) (*entities.Pack, error)
}

// CollectPendingGenerators scans resolved components for a GeneratorRef and
// records one PendingGenerator per distinct (generator id, component),
// matching against the set of globally-declared generator IDs the active
// toolchain config supplies.
func CollectPendingGenerators(resolved []entities.ResolvedComponent, globalGenerators map[string]bool) []PendingGenerator {
	var out []PendingGenerator
	seen := make(map[string]bool)
	for _, rc := range resolved {
		if rc.Component.GeneratorRef == "" {
			continue
		}
		key := rc.Component.GeneratorRef + "\x00" + rc.Component.ID()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, PendingGenerator{
			GeneratorID: rc.Component.GeneratorRef,
			Component:   rc.Component.ID(),
			Global:      globalGenerators[rc.Component.GeneratorRef],
		})
	}
	return out
}

// ImportGeneratedPack re-invokes the PDSC loader on a legacy generator's
// `.gpdsc` output file and merges its components/conditions/APIs into the
// active catalog, mirroring the import loop a legacy (non-global)
// generator's output feeds back into before final component resolution.
func ImportGeneratedPack(ctx context.Context, importer PdscImporter, gpdscPath string, catalog []*entities.Pack, sink DiagnosticSink) ([]*entities.Pack, error) {
	pack, err := importer.ImportPDSC(ctx, gpdscPath, sink)
	if err != nil {
		return nil, fmt.Errorf("import generated pack %s: %w", gpdscPath, err)
	}
	for _, existing := range catalog {
		if existing.ID == pack.ID {
			return nil, fmt.Errorf("generated pack %s collides with an already-loaded pack id", gpdscPath)
		}
	}
	return append(catalog, pack), nil
}
