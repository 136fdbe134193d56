package usecases

import (
	"testing"

	"github.com/embedstack/cbuild/internal/core/entities"
)

func ctxNamed(name string) *entities.Context {
	id, _ := entities.ParseContextID(name)
	return &entities.Context{ID: id}
}

// TestSelectContextsUnmatchedFilter covers scenario S2: a filter
// that matches zero contexts is reported verbatim.
func TestSelectContextsUnmatchedFilter(t *testing.T) {
	all := []*entities.Context{ctxNamed("Proj.Debug+CortexM4")}
	_, err := SelectContextsStrict(all, []string{"Proj.Release+CortexM4"}, nil)
	if err == nil {
		t.Fatal("expected an unmatched filter error")
	}
	uf, ok := err.(*ErrUnmatchedFilter)
	if !ok {
		t.Fatalf("expected *ErrUnmatchedFilter, got %T", err)
	}
	if uf.Filter != "Proj.Release+CortexM4" {
		t.Errorf("unmatched filter = %q", uf.Filter)
	}
}

func TestSelectContextsGlob(t *testing.T) {
	all := []*entities.Context{
		ctxNamed("Proj.Debug+CortexM4"),
		ctxNamed("Proj.Release+CortexM4"),
		ctxNamed("Other.Debug+CortexM4"),
	}
	res, err := SelectContexts(all, []string{"Proj.*+CortexM4"}, nil)
	if err != nil {
		t.Fatalf("SelectContexts: %v", err)
	}
	if len(res.Selected) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(res.Selected))
	}
}

func TestSelectContextsFilterCompleteness(t *testing.T) {
	all := []*entities.Context{
		ctxNamed("A.Debug+T1"),
		ctxNamed("B.Debug+T1"),
		ctxNamed("C.Release+T1"),
	}
	res, err := SelectContexts(all, []string{"A.*", "B.*"}, nil)
	if err != nil {
		t.Fatalf("SelectContexts: %v", err)
	}
	excluded := map[string]bool{"C.Release+T1": true}
	for _, c := range res.Selected {
		if excluded[c.ID.String()] {
			t.Errorf("context %s should have been excluded", c.ID)
		}
	}
	if len(res.Selected) != 2 {
		t.Fatalf("expected 2 selected, got %d", len(res.Selected))
	}
}

func TestParseActiveTarget(t *testing.T) {
	sel := ParseActiveTarget("CortexM4@probe1")
	if sel.TargetType != "CortexM4" || sel.SetName != "probe1" {
		t.Errorf("unexpected parse: %+v", sel)
	}
	sel2 := ParseActiveTarget("CortexM4")
	if sel2.TargetType != "CortexM4" || sel2.SetName != "" {
		t.Errorf("unexpected parse: %+v", sel2)
	}
}
