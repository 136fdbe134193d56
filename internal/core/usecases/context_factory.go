package usecases

import (
	"fmt"
	"sort"

	"github.com/embedstack/cbuild/internal/core/entities"
)

// ContextFactory expands a Solution's declared projects, build-types, and
// target-types into the full set of candidate Contexts.
type ContextFactory struct {
	Solution *entities.Solution
	Projects map[string]*entities.Project // project name -> loaded project
}

// NewContextFactory builds a factory over an already-loaded solution and
// its projects (keyed by the project name the solution's ProjectRef
// resolves to).
func NewContextFactory(sol *entities.Solution, projects map[string]*entities.Project) *ContextFactory {
	return &ContextFactory{Solution: sol, Projects: projects}
}

// contextFilterAllows reports whether a for-context/not-for-context rule
// set, attached to a project/layer/component/file entry, permits the given
// context. A bare name, a dotted "<project>.<build>" or "<project>+<target>"
// tuple, and glob segments are all accepted by matching the corresponding
// ContextID fields independently; an empty filter list means "no
// restriction".
func contextFilterAllows(id entities.ContextID, forContext, notForContext []string) bool {
	for _, pat := range notForContext {
		if contextMatchesFilter(id, pat) {
			return false
		}
	}
	if len(forContext) == 0 {
		return true
	}
	for _, pat := range forContext {
		if contextMatchesFilter(id, pat) {
			return true
		}
	}
	return false
}

// contextMatchesFilter matches a single filter string against a context
// id. The filter may supply any prefix of Project[.BuildType][+TargetType];
// missing segments wildcard. Each segment supports glob (*, ?).
func contextMatchesFilter(id entities.ContextID, pattern string) bool {
	filter, err := entities.ParseContextID(pattern)
	if err != nil {
		// A bare glob with no '.' or '+' parses as just a project segment.
		return entities.NewGlobMatcher(pattern).Match(id.Project)
	}
	if filter.Project != "" && filter.Project != "*" && !entities.NewGlobMatcher(filter.Project).Match(id.Project) {
		return false
	}
	if filter.BuildType != "" && !entities.NewGlobMatcher(filter.BuildType).Match(id.BuildType) {
		return false
	}
	if filter.TargetType != "" && !entities.NewGlobMatcher(filter.TargetType).Match(id.TargetType) {
		return false
	}
	return true
}

// Expand produces every candidate Context: the cartesian product of
// projects x build-types x target-types, minus combinations a project's
// own for-context/not-for-context rules exclude. Projects come in solution
// declaration order; within a project, build-types and target-types are
// each iterated in name order, not in declaration order.
func (f *ContextFactory) Expand() ([]*entities.Context, error) {
	builds := sortedBuildTypeNames(f.Solution.BuildTypes)
	targets := sortedTargetTypeNames(f.Solution.TargetTypes)
	if len(builds) == 0 {
		builds = []string{""}
	}
	if len(targets) == 0 {
		targets = []string{""}
	}

	var out []*entities.Context
	for _, pref := range f.Solution.Projects {
		projName := projectRefName(pref.Path)
		proj, ok := f.Projects[projName]
		if !ok {
			return nil, fmt.Errorf("context factory: project %q referenced by solution but not loaded", projName)
		}
		for _, b := range builds {
			for _, t := range targets {
				id := entities.ContextID{Project: projName, BuildType: b, TargetType: t}
				if !contextFilterAllows(id, pref.ForContext, pref.NotForContext) {
					continue
				}
				ctx := &entities.Context{ID: id, Project: proj}
				if b != "" {
					ctx.BuildType = f.Solution.BuildTypes[b]
				}
				if t != "" {
					ctx.TargetType = f.Solution.TargetTypes[t]
				}
				out = append(out, ctx)
			}
		}
	}
	return out, nil
}

func sortedBuildTypeNames(m map[string]*entities.BuildType) []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func sortedTargetTypeNames(m map[string]*entities.TargetType) []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// projectRefName reuses the same basename-stripping rule the entities
// package applies when enumerating AllContextIDs, so factory output
// matches it exactly.
func projectRefName(path string) string {
	name := path
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '/' || name[i] == '\\' {
			name = name[i+1:]
			break
		}
	}
	for _, suffix := range []string{".cproject.yml", ".cproject.yaml"} {
		if len(name) > len(suffix) && name[len(name)-len(suffix):] == suffix {
			return name[:len(name)-len(suffix)]
		}
	}
	return name
}

// EffectiveBuild returns a Context's merged build attribute set: solution
// build-type, overlaid by target-type, overlaid by the project's own Build
// field, following an additive-merge rule (cdefault.yml is merged in
// separately, before this, by MergeCdefault).
func EffectiveBuild(ctx *entities.Context) entities.AttributeSet {
	var acc entities.AttributeSet
	if ctx.BuildType != nil {
		acc = acc.Merge(ctx.BuildType.Attributes)
	}
	if ctx.TargetType != nil {
		acc = acc.Merge(ctx.TargetType.Attributes)
	}
	if ctx.Project != nil {
		acc = acc.Merge(ctx.Project.Build)
	}
	return acc
}
