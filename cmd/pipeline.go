package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/embedstack/cbuild/internal/adapters/diagnostics"
	"github.com/embedstack/cbuild/internal/adapters/lockwriter"
	"github.com/embedstack/cbuild/internal/adapters/packrepo"
	"github.com/embedstack/cbuild/internal/adapters/yamlloader"
	"github.com/embedstack/cbuild/internal/core/entities"
	"github.com/embedstack/cbuild/internal/core/usecases"
)

// pipeline holds every collaborator and intermediate result a CLI command
// needs, built once per invocation by loadPipeline so convert/list/run
// share exactly one resolution pass.
type pipeline struct {
	diag      *diagnostics.Context
	formatter *diagnostics.ConsoleFormatter
	loader    *yamlloader.Loader
	repo      *packrepo.Repository

	solution *entities.Solution
	projects map[string]*entities.Project
	all      []*entities.Context
	selected []*entities.Context
	catalog  []*entities.Pack
}

// loadPipeline loads the solution document tree named by solutionPath,
// expands and filters contexts per the -c/-S/-a flags, and resolves each
// selected context's packs and components. It does not write any output
// file -- that is left to the caller (convert/run).
func loadPipeline(ctx context.Context, resolver interface {
	PackRoot() string
	LoadPolicy() usecases.LoadPolicy
}, solutionPath string) (*pipeline, error) {
	diag, formatter := newDiagnostics()
	loader := yamlloader.New()
	loader.SkipSchemaCheck = noCheckSchema

	sol, err := loader.LoadSolution(ctx, solutionPath, diag)
	if err != nil {
		return nil, fmt.Errorf("load solution: %w", err)
	}

	base := solutionDir(solutionPath)
	projects := make(map[string]*entities.Project, len(sol.Projects))
	for _, pref := range sol.Projects {
		p, err := loader.LoadProject(ctx, filepath.Join(base, pref.Path), diag)
		if err != nil {
			return nil, fmt.Errorf("load project %s: %w", pref.Path, err)
		}
		projects[p.Name] = p
	}

	if cdefaultPath := filepath.Join(base, "cdefault.yml"); fileExists(cdefaultPath) {
		if attrs, err := loader.LoadCdefault(ctx, cdefaultPath, diag); err == nil {
			usecases.MergeCdefault(sol, attrs)
		}
	}

	factory := usecases.NewContextFactory(sol, projects)
	all, err := factory.Expand()
	if err != nil {
		return nil, fmt.Errorf("expand contexts: %w", err)
	}

	selected := all
	if activeTarget != "" {
		narrowed, _, err := usecases.NarrowToActiveTarget(all, usecases.ParseActiveTarget(activeTarget))
		if err != nil {
			return nil, err
		}
		selected = narrowed
	}
	if len(contextFilters) > 0 || contextSetFile != "" {
		var set *usecases.ContextSet
		if contextSetFile != "" {
			cs, err := readContextSet(filepath.Join(base, contextSetFile))
			if err != nil {
				return nil, err
			}
			set = cs
		}
		strict, err := usecases.SelectContextsStrict(selected, contextFilters, set)
		if err != nil {
			return nil, err
		}
		selected = strict
	}

	var repo *packrepo.Repository
	var catalog []*entities.Pack
	if resolver.PackRoot() != "" {
		repo = packrepo.New(resolver.PackRoot())
		installed, err := repo.Installed(ctx)
		if err != nil {
			return nil, fmt.Errorf("list installed packs: %w", err)
		}
		for _, id := range installed {
			pack, err := repo.Load(ctx, id, diag)
			if err != nil {
				diag.Warn("M200", err.Error(), nil, resolver.PackRoot(), 0, 0)
				continue
			}
			catalog = append(catalog, pack)
		}
		usecases.CheckPacks(catalog, diag)

		packResolver := usecases.NewPackResolver(repo, diag, resolver.LoadPolicy())
		resolvedPacks, err := packResolver.Resolve(ctx, sol, selected)
		if err != nil {
			return nil, fmt.Errorf("resolve packs: %w", err)
		}

		solver := usecases.NewComponentSolver(catalog, diag)
		for _, c := range selected {
			env := usecases.BuildEnvironment(c)
			refs := append([]entities.ComponentRef{}, c.Project.Components...)
			for _, layerPath := range c.Project.Layers {
				layer, err := loader.LoadLayer(ctx, filepath.Join(base, layerPath), diag)
				if err != nil {
					diag.Warn("M400", err.Error(), nil, layerPath, 0, 0)
					continue
				}
				refs = append(refs, layer.Components...)
			}
			resolved, errs := solver.ResolveAll(refs, env)
			for _, e := range errs {
				diag.Error("M300", e.Error(), nil, c.Project.Path, 0, 0)
			}
			c.Components = resolved
			c.Packs = resolvedPacks
		}
	}

	return &pipeline{
		diag: diag, formatter: formatter, loader: loader, repo: repo,
		solution: sol, projects: projects, all: all, selected: selected, catalog: catalog,
	}, nil
}

func readContextSet(path string) (*usecases.ContextSet, error) {
	return lockwriter.NewReader().ReadContextSet(path)
}

// solutionDir returns the directory a solution's relative project/layer
// paths resolve against.
func solutionDir(solutionPath string) string {
	return filepath.Dir(solutionPath)
}

// solutionBaseName strips the directory and the ".csolution.yml"/
// ".csolution.yaml" suffix from a solution path, the base name the
// emitted cbuild-pack.yml/cbuild-set.yml documents share.
func solutionBaseName(solutionPath string) string {
	name := filepath.Base(solutionPath)
	for _, suffix := range []string{".csolution.yml", ".csolution.yaml"} {
		if strings.HasSuffix(name, suffix) {
			return strings.TrimSuffix(name, suffix)
		}
	}
	return strings.TrimSuffix(name, filepath.Ext(name))
}
