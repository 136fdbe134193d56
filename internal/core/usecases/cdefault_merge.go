package usecases

import "github.com/embedstack/cbuild/internal/core/entities"

// MergeCdefault folds a loaded cdefault.yml compiler-default AttributeSet
// into every build-type of a solution before context enumeration runs. The
// cdefault attributes are the base layer; an explicit build-type attribute
// always wins.
func MergeCdefault(sol *entities.Solution, cdefault *entities.AttributeSet) {
	if cdefault == nil {
		return
	}
	for _, bt := range sol.BuildTypes {
		bt.Attributes = cdefault.Merge(bt.Attributes)
	}
	if len(sol.BuildTypes) == 0 {
		// A solution with no explicit build-types still has an implicit
		// default one; synthesize it so cdefault attributes still apply.
		sol.BuildTypes = map[string]*entities.BuildType{
			"": {Name: "", Attributes: *cdefault},
		}
	}
}
