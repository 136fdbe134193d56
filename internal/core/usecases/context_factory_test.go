package usecases

import (
	"testing"

	"github.com/embedstack/cbuild/internal/core/entities"
)

// TestContextFactoryExpandMinimal covers scenario S1: a solution
// with one project, one build-type, one target-type produces exactly one
// context.
func TestContextFactoryExpandMinimal(t *testing.T) {
	sol, err := entities.NewSolution("MySolution")
	if err != nil {
		t.Fatalf("NewSolution: %v", err)
	}
	sol.Projects = []entities.ProjectRef{{Path: "Proj.cproject.yml"}}
	sol.BuildTypes["Debug"] = &entities.BuildType{Name: "Debug"}
	sol.TargetTypes["CortexM4"] = &entities.TargetType{Name: "CortexM4", Device: "ARM::CM4"}

	proj, err := entities.NewProject("Proj")
	if err != nil {
		t.Fatalf("NewProject: %v", err)
	}

	f := NewContextFactory(sol, map[string]*entities.Project{"Proj": proj})
	ctxs, err := f.Expand()
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if len(ctxs) != 1 {
		t.Fatalf("expected 1 context, got %d", len(ctxs))
	}
	if got, want := ctxs[0].ID.String(), "Proj.Debug+CortexM4"; got != want {
		t.Errorf("context id = %q, want %q", got, want)
	}
}

// TestContextFactoryExpandCartesian covers the cartesian-product
// expansion across multiple build-types and target-types.
func TestContextFactoryExpandCartesian(t *testing.T) {
	sol, _ := entities.NewSolution("Sol")
	sol.Projects = []entities.ProjectRef{{Path: "App.cproject.yml"}}
	sol.BuildTypes["Debug"] = &entities.BuildType{Name: "Debug"}
	sol.BuildTypes["Release"] = &entities.BuildType{Name: "Release"}
	sol.TargetTypes["Board1"] = &entities.TargetType{Name: "Board1"}
	sol.TargetTypes["Board2"] = &entities.TargetType{Name: "Board2"}

	proj, _ := entities.NewProject("App")
	f := NewContextFactory(sol, map[string]*entities.Project{"App": proj})
	ctxs, err := f.Expand()
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if len(ctxs) != 4 {
		t.Fatalf("expected 4 contexts, got %d", len(ctxs))
	}
}

// TestContextFactoryForContextFilter verifies a project's for-context
// rule excludes combinations it doesn't name.
func TestContextFactoryForContextFilter(t *testing.T) {
	sol, _ := entities.NewSolution("Sol")
	sol.Projects = []entities.ProjectRef{{Path: "App.cproject.yml", ForContext: []string{"*.Debug"}}}
	sol.BuildTypes["Debug"] = &entities.BuildType{Name: "Debug"}
	sol.BuildTypes["Release"] = &entities.BuildType{Name: "Release"}
	sol.TargetTypes["Board1"] = &entities.TargetType{Name: "Board1"}

	proj, _ := entities.NewProject("App")
	f := NewContextFactory(sol, map[string]*entities.Project{"App": proj})
	ctxs, err := f.Expand()
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if len(ctxs) != 1 {
		t.Fatalf("expected 1 context after filter, got %d", len(ctxs))
	}
	if ctxs[0].ID.BuildType != "Debug" {
		t.Errorf("expected Debug build-type to survive, got %q", ctxs[0].ID.BuildType)
	}
}
