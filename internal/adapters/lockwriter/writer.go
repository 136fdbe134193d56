// Package lockwriter emits the resolver's output documents --
// *.cbuild-pack.yml (resolved packs), *.cbuild-set.yml (the active context
// set), and *.cbuild.yml (one context's full resolved build plan) -- as
// YAML, written atomically so a reader never observes a partial file.
package lockwriter

import (
	"context"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/embedstack/cbuild/internal/adapters/fsutil"
	"github.com/embedstack/cbuild/internal/core/entities"
	"github.com/embedstack/cbuild/internal/core/usecases"
)

// Writer emits cbuild's generated YAML documents.
type Writer struct{}

// New builds a Writer.
func New() *Writer { return &Writer{} }

type packLockDoc struct {
	Generator struct {
		ID string `yaml:"id"`
	} `yaml:"generated-by,omitempty"`
	Packs []packLockEntryDoc `yaml:"packs"`
}

type packLockEntryDoc struct {
	Pack       string   `yaml:"pack"`
	SelectedBy []string `yaml:"selected-by,omitempty"`
	Hash       string   `yaml:"hash,omitempty"`
}

// packEntryDoc builds a packLockEntryDoc for p, rendering its catalog hash
// as hex so CheckFrozen can read it back byte-stable from the lock file.
func packEntryDoc(p entities.ResolvedPack) packLockEntryDoc {
	doc := packLockEntryDoc{Pack: p.ID.String(), SelectedBy: p.SelectedBy}
	if p.Hash != 0 {
		doc.Hash = strconv.FormatUint(p.Hash, 16)
	}
	return doc
}

// WritePackLock writes a *.cbuild-pack.yml document for the given resolved
// pack set (convert passes the union across all selected contexts).
func (w *Writer) WritePackLock(path string, packs []entities.ResolvedPack) error {
	doc := packLockDoc{}
	doc.Generator.ID = "cbuild"
	for _, p := range packs {
		doc.Packs = append(doc.Packs, packEntryDoc(p))
	}
	return writeYAML(path, doc)
}

type setLockDoc struct {
	ContextSet struct {
		Contexts []string `yaml:"contexts"`
		Compiler string   `yaml:"compiler,omitempty"`
	} `yaml:"cbuild-set"`
}

// WriteContextSet writes a *.cbuild-set.yml document for the active
// selection, as produced by usecases.SelectContexts.
func (w *Writer) WriteContextSet(path string, contexts []*entities.Context, compiler string) error {
	doc := setLockDoc{}
	doc.ContextSet.Compiler = compiler
	for _, c := range contexts {
		doc.ContextSet.Contexts = append(doc.ContextSet.Contexts, c.ID.String())
	}
	sort.Strings(doc.ContextSet.Contexts)
	return writeYAML(path, doc)
}

type buildLockDoc struct {
	Build struct {
		Context    string             `yaml:"context"`
		Components []string           `yaml:"components"`
		Packs      []packLockEntryDoc `yaml:"packs"`
	} `yaml:"cbuild"`
}

// WriteContextBuild writes a *.cbuild.yml document for one fully resolved
// context: its component and pack selections.
func (w *Writer) WriteContextBuild(path string, ctx *entities.Context) error {
	doc := buildLockDoc{}
	doc.Build.Context = ctx.ID.String()
	for _, rc := range ctx.Components {
		doc.Build.Components = append(doc.Build.Components, rc.Component.ID())
	}
	for _, p := range ctx.Packs {
		doc.Build.Packs = append(doc.Build.Packs, packEntryDoc(p))
	}
	return writeYAML(path, doc)
}

func writeYAML(path string, doc any) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(path, data, 0o644)
}

var _ usecases.LockReader = (*Reader)(nil)

// Reader implements usecases.LockReader by reading back a previously
// written *.cbuild-pack.yml, used for `--frozen-packs` drift comparison.
type Reader struct{}

// NewReader builds a Reader.
func NewReader() *Reader { return &Reader{} }

// ReadPackLock reads a *.cbuild-pack.yml. found is false when the file does
// not exist (no prior lock to compare against).
func (r *Reader) ReadPackLock(ctx context.Context, path string) ([]entities.ResolvedPack, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var doc packLockDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, false, err
	}
	out := make([]entities.ResolvedPack, 0, len(doc.Packs))
	for _, p := range doc.Packs {
		id, err := parsePackIDString(p.Pack)
		if err != nil {
			return nil, false, err
		}
		var hash uint64
		if p.Hash != "" {
			hash, _ = strconv.ParseUint(p.Hash, 16, 64)
		}
		out = append(out, entities.ResolvedPack{ID: id, SelectedBy: p.SelectedBy, Hash: hash})
	}
	return out, true, nil
}

// ReadContextSet reads back a *.cbuild-set.yml document, used to restrict
// resolution to a previously saved context selection (-S/--context-set).
func (r *Reader) ReadContextSet(path string) (*usecases.ContextSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc setLockDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &usecases.ContextSet{Contexts: doc.ContextSet.Contexts, Compiler: doc.ContextSet.Compiler}, nil
}

// parsePackIDString parses the "Vendor::Name@Version" notation produced by
// entities.PackID.String().
func parsePackIDString(s string) (entities.PackID, error) {
	vendor, rest, _ := strings.Cut(s, "::")
	name, version, _ := strings.Cut(rest, "@")
	return entities.PackID{Vendor: vendor, Name: name, Version: version}, nil
}
