package usecases

import (
	"fmt"
	"sort"

	"github.com/embedstack/cbuild/internal/core/entities"
)

// ContextFilter is one user-supplied `-c/--context` selector string,
// possibly with glob segments, and an explicit "only-build"/"only-target"
// abbreviation ("+CortexM4" or ".Debug" with no project segment means "any
// project").
type ContextFilter = string

// ContextSet is a loaded companion context-set file (*.cbuild-set.yml):
// an explicit, ordered list of context names plus the active toolchain.
type ContextSet struct {
	Contexts []string
	Compiler string
}

// SelectionResult is the outcome of applying filters to a candidate list:
// the matched contexts in original order, plus any filter that matched
// nothing.
type SelectionResult struct {
	Selected []*entities.Context
	Unmatched []string
}

// SelectContexts narrows `all` to the contexts matching any filter in
// `filters` (union of matches across filters), optionally further
// restricted to the context names enumerated by `set`. An empty filter
// list selects every context in `all` (optionally still filtered by set).
func SelectContexts(all []*entities.Context, filters []ContextFilter, set *ContextSet) (SelectionResult, error) {
	var setNames map[string]bool
	if set != nil {
		setNames = make(map[string]bool, len(set.Contexts))
		for _, n := range set.Contexts {
			setNames[n] = true
		}
	}

	if len(filters) == 0 {
		var out []*entities.Context
		for _, c := range all {
			if setNames != nil && !setNames[c.ID.String()] {
				continue
			}
			out = append(out, c)
		}
		return SelectionResult{Selected: out}, nil
	}

	var result SelectionResult
	matched := make(map[string]bool)
	for _, f := range filters {
		matchedAny := false
		for _, c := range all {
			if setNames != nil && !setNames[c.ID.String()] {
				continue
			}
			if contextMatchesFilter(c.ID, f) {
				matchedAny = true
				matched[c.ID.String()] = true
			}
		}
		if !matchedAny {
			result.Unmatched = append(result.Unmatched, f)
		}
	}
	for _, c := range all {
		if matched[c.ID.String()] {
			matched[c.ID.String()] = false
			result.Selected = append(result.Selected, c)
		}
	}
	return result, nil
}

// ErrUnmatchedFilter is returned when SelectContextsStrict finds a filter
// that matched zero contexts.
type ErrUnmatchedFilter struct {
	Filter string
}

func (e *ErrUnmatchedFilter) Error() string {
	return fmt.Sprintf("filter %q matched no context", e.Filter)
}

// SelectContextsStrict behaves like SelectContexts but returns the first
// unmatched-filter error instead of reporting it as data, for CLI entry
// points that must fail the command.
func SelectContextsStrict(all []*entities.Context, filters []ContextFilter, set *ContextSet) ([]*entities.Context, error) {
	res, err := SelectContexts(all, filters, set)
	if err != nil {
		return nil, err
	}
	if len(res.Unmatched) > 0 {
		return nil, &ErrUnmatchedFilter{Filter: res.Unmatched[0]}
	}
	return res.Selected, nil
}

// ActiveTargetSelection is the result of parsing `--active <target>[@<set>]`.
type ActiveTargetSelection struct {
	TargetType string
	SetName    string
}

// ParseActiveTarget parses the `-a/--active` flag value.
func ParseActiveTarget(s string) ActiveTargetSelection {
	for i := 0; i < len(s); i++ {
		if s[i] == '@' {
			return ActiveTargetSelection{TargetType: s[:i], SetName: s[i+1:]}
		}
	}
	return ActiveTargetSelection{TargetType: s}
}

// NarrowToActiveTarget restricts `all` to contexts whose TargetType name
// equals the active selection, and resolves the named TargetSet record
// when one is given.
func NarrowToActiveTarget(all []*entities.Context, active ActiveTargetSelection) ([]*entities.Context, *entities.TargetSet, error) {
	var out []*entities.Context
	var targetSet *entities.TargetSet
	for _, c := range all {
		if c.ID.TargetType != active.TargetType {
			continue
		}
		out = append(out, c)
		if active.SetName != "" && c.TargetType != nil && targetSet == nil {
			for i := range c.TargetType.TargetSets {
				if c.TargetType.TargetSets[i].Name == active.SetName {
					targetSet = &c.TargetType.TargetSets[i]
					break
				}
			}
		}
	}
	if active.SetName != "" && targetSet == nil {
		return out, nil, fmt.Errorf("target-set %q not found for target %q", active.SetName, active.TargetType)
	}
	return out, targetSet, nil
}

// SortedNames renders and sorts context IDs, used for `list contexts`
// output.
func SortedNames(ctxs []*entities.Context) []string {
	names := make([]string, len(ctxs))
	for i, c := range ctxs {
		names[i] = c.ID.String()
	}
	sort.Strings(names)
	return names
}
