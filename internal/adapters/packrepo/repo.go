// Package packrepo implements usecases.PackRepository over an installed
// CMSIS_PACK_ROOT directory hierarchy: <vendor>/<name>/<version>/*.pdsc.
// Traversal uses github.com/bmatcuk/doublestar/v4 for the "**" glob the
// pack root's nested layout needs (a direct dependency of
// _examples/standardbeagle-lci, adopted here for the same concern).
package packrepo

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/embedstack/cbuild/internal/adapters/xmlloader"
	"github.com/embedstack/cbuild/internal/core/entities"
	"github.com/embedstack/cbuild/internal/core/usecases"
)

// Repository implements usecases.PackRepository over a real CMSIS_PACK_ROOT.
type Repository struct {
	root string
	fsys fs.FS
}

// New builds a Repository rooted at root, using the OS filesystem.
func New(root string) *Repository {
	return &Repository{root: root, fsys: os.DirFS(root)}
}

// NewFS builds a Repository over an arbitrary fs.FS rooted at root,
// letting tests substitute an in-memory filesystem for doublestar.Glob.
func NewFS(root string, fsys fs.FS) *Repository {
	return &Repository{root: root, fsys: fsys}
}

var _ usecases.PackRepository = (*Repository)(nil)

func (r *Repository) Root() string { return r.root }

// Installed lists every "<vendor>/<name>/<version>/*.pdsc" match under the
// pack root, sorted by (vendor, name, version descending).
func (r *Repository) Installed(ctx context.Context) ([]entities.PackID, error) {
	matches, err := doublestar.Glob(r.fsys, "*/*/*/*.pdsc")
	if err != nil {
		return nil, fmt.Errorf("packrepo: glob: %w", err)
	}
	ids := make([]entities.PackID, 0, len(matches))
	for _, m := range matches {
		id, ok := packIDFromPath(m)
		if ok {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		if ids[i].Vendor != ids[j].Vendor {
			return ids[i].Vendor < ids[j].Vendor
		}
		if ids[i].Name != ids[j].Name {
			return ids[i].Name < ids[j].Name
		}
		vi, _ := entities.ParseVersion(ids[i].Version)
		vj, _ := entities.ParseVersion(ids[j].Version)
		return vi.Greater(vj)
	})
	return ids, nil
}

// Load parses the PDSC manifest for one installed pack release.
func (r *Repository) Load(ctx context.Context, id entities.PackID, sink usecases.DiagnosticSink) (*entities.Pack, error) {
	dir := filepath.Join(r.root, id.Vendor, id.Name, id.Version)
	matches, err := doublestar.Glob(r.fsys, filepath.ToSlash(filepath.Join(id.Vendor, id.Name, id.Version, "*.pdsc")))
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("packrepo: no .pdsc found under %s", dir)
	}
	pack, err := xmlloader.LoadPDSC(filepath.Join(r.root, matches[0]), dir)
	if err != nil {
		return nil, err
	}
	if pack.ID.Version == "" {
		pack.ID.Version = id.Version
	}
	return pack, nil
}

// packIDFromPath extracts a PackID from a "<vendor>/<name>/<version>/x.pdsc"
// glob match.
func packIDFromPath(match string) (entities.PackID, bool) {
	parts := strings.Split(filepath.ToSlash(match), "/")
	if len(parts) < 4 {
		return entities.PackID{}, false
	}
	return entities.PackID{Vendor: parts[0], Name: parts[1], Version: parts[2]}, true
}
