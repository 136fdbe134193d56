package entities

// DependencyReport summarizes the packs/components selected for one
// resolved context. `list dependencies` does not use it; that command
// prints the API resolution errors directly.
type DependencyReport struct {
	PacksCount      int `json:"packs_count"`
	ComponentsCount int `json:"components_count"`
	FilesCount      int `json:"files_count"`

	// UnresolvedSelectors lists component selectors the solver could not
	// satisfy with any installed pack.
	UnresolvedSelectors []string `json:"unresolved_selectors"`

	// AmbiguousSelectors maps a selector string to the set of candidate
	// component IDs it matched without a unique highest-version winner.
	AmbiguousSelectors map[string][]string `json:"ambiguous_selectors"`

	// PacksBySelector maps a resolved pack ID to the component selectors it
	// was pulled in to satisfy.
	PacksBySelector map[string][]string `json:"packs_by_selector"`
}

// NewDependencyReport creates an empty dependency report with initialized maps.
func NewDependencyReport() *DependencyReport {
	return &DependencyReport{
		UnresolvedSelectors: []string{},
		AmbiguousSelectors:  make(map[string][]string),
		PacksBySelector:     make(map[string][]string),
	}
}
