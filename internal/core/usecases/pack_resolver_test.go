package usecases

import (
	"context"
	"sort"
	"testing"

	"github.com/embedstack/cbuild/internal/core/entities"
)

type fakeSink struct {
	errs []string
}

func (f *fakeSink) Error(code, message string, params map[string]string, file string, line, col int) {
	f.errs = append(f.errs, code+": "+message)
}
func (f *fakeSink) Warn(code, message string, params map[string]string, file string, line, col int) {}
func (f *fakeSink) Info(code, message string, params map[string]string, file string, line, col int) {}
func (f *fakeSink) Diagnostics() []entities.Diagnostic                                               { return nil }
func (f *fakeSink) Counts() entities.DiagnosticCounts                                                { return entities.DiagnosticCounts{} }

type fakePackRepo struct {
	versions []entities.PackID
	packs    map[entities.PackID]*entities.Pack
}

func (r *fakePackRepo) Installed(ctx context.Context) ([]entities.PackID, error) {
	return append([]entities.PackID{}, r.versions...), nil
}
func (r *fakePackRepo) Load(ctx context.Context, id entities.PackID, sink DiagnosticSink) (*entities.Pack, error) {
	if p, ok := r.packs[id]; ok {
		return p, nil
	}
	return &entities.Pack{ID: id}, nil
}
func (r *fakePackRepo) Root() string { return "/packs" }

// TestPackResolverVersionRange covers scenario S3: a pack version
// constraint under each loading policy.
func TestPackResolverVersionRange(t *testing.T) {
	versions := []entities.PackID{
		{Vendor: "ARM", Name: "CMSIS", Version: "5.7.0"},
		{Vendor: "ARM", Name: "CMSIS", Version: "5.8.0"},
		{Vendor: "ARM", Name: "CMSIS", Version: "5.9.0"},
		{Vendor: "ARM", Name: "CMSIS", Version: "6.0.0"},
	}
	repo := &fakePackRepo{versions: versions}

	sol, _ := entities.NewSolution("Sol")
	c, err := entities.ParseVersionConstraint(">=5.8.0")
	if err != nil {
		t.Fatalf("ParseVersionConstraint: %v", err)
	}
	sol.Packs = []entities.PackConstraint{{Vendor: "ARM", Name: "CMSIS", Constraint: c}}

	t.Run("latest", func(t *testing.T) {
		r := NewPackResolver(repo, &fakeSink{}, LoadLatest)
		resolved, err := r.Resolve(context.Background(), sol, nil)
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if len(resolved) != 1 || resolved[0].ID.Version != "6.0.0" {
			t.Fatalf("expected single 6.0.0, got %+v", resolved)
		}
	})

	t.Run("all", func(t *testing.T) {
		r := NewPackResolver(repo, &fakeSink{}, LoadAll)
		resolved, err := r.Resolve(context.Background(), sol, nil)
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		got := make([]string, len(resolved))
		for i, rp := range resolved {
			got[i] = rp.ID.Version
		}
		sort.Strings(got)
		want := []string{"5.8.0", "5.9.0", "6.0.0"}
		if len(got) != len(want) {
			t.Fatalf("got %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("got %v, want %v", got, want)
			}
		}
	})

	t.Run("required", func(t *testing.T) {
		r := NewPackResolver(repo, &fakeSink{}, LoadRequired)
		resolved, err := r.Resolve(context.Background(), sol, nil)
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if len(resolved) != 1 || resolved[0].ID.Version != "5.8.0" {
			t.Fatalf("expected single 5.8.0 (the constraint's named boundary), got %+v", resolved)
		}
	})
}

func TestIntersectAllAssociative(t *testing.T) {
	a, _ := entities.ParseVersionConstraint(">=1.0.0")
	b, _ := entities.ParseVersionConstraint("1.0.0:3.0.0")
	c, _ := entities.ParseVersionConstraint(">=2.0.0")

	ab, ok1 := entities.IntersectVersionConstraints(a, b)
	abc1, ok2 := entities.IntersectVersionConstraints(ab, c)
	bc, ok3 := entities.IntersectVersionConstraints(b, c)
	abc2, ok4 := entities.IntersectVersionConstraints(a, bc)

	if !ok1 || !ok2 || !ok3 || !ok4 {
		t.Fatalf("unexpected non-intersecting constraints")
	}
	if abc1.String() != abc2.String() {
		t.Errorf("intersection not associative: %s vs %s", abc1.String(), abc2.String())
	}
}

func TestCheckFrozenDetectsDrift(t *testing.T) {
	locked := []entities.ResolvedPack{{ID: entities.PackID{Vendor: "ARM", Name: "CMSIS", Version: "5.8.0"}}}
	fresh := []entities.ResolvedPack{{ID: entities.PackID{Vendor: "ARM", Name: "CMSIS", Version: "6.0.0"}}}
	drifts := CheckFrozen(fresh, locked)
	if len(drifts) != 1 {
		t.Fatalf("expected 1 drift, got %d", len(drifts))
	}
	if drifts[0].Type != entities.DriftVersionMismatch {
		t.Errorf("expected version mismatch drift, got %v", drifts[0].Type)
	}
}
