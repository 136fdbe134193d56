package usecases

import (
	"testing"

	"github.com/embedstack/cbuild/internal/core/entities"
)

func TestComponentSolverSelectHighestVersion(t *testing.T) {
	pack := &entities.Pack{
		ID: entities.PackID{Vendor: "ARM", Name: "CMSIS", Version: "6.0.0"},
		Components: []*entities.Component{
			mustComponent(t, "ARM", "CMSIS", "Driver", "USART", "1.0.0"),
			mustComponent(t, "ARM", "CMSIS", "Driver", "USART", "2.0.0"),
		},
	}
	solver := NewComponentSolver([]*entities.Pack{pack}, &fakeSink{})
	env := entities.NewEnvironment()

	ref := entities.ComponentRef{Selector: entities.ComponentSelector{Cclass: "CMSIS", Cgroup: "Driver:USART"}}
	c, err := solver.Select(ref, env)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if c.Attributes.Cversion != "2.0.0" {
		t.Errorf("expected highest version 2.0.0, got %s", c.Attributes.Cversion)
	}
}

func TestComponentSolverUnresolvedSelector(t *testing.T) {
	solver := NewComponentSolver(nil, &fakeSink{})
	env := entities.NewEnvironment()
	ref := entities.ComponentRef{Selector: entities.ComponentSelector{Cclass: "Missing"}}
	_, err := solver.Select(ref, env)
	if err == nil {
		t.Fatal("expected an error for unresolved selector")
	}
}

func TestComponentSolverConditionGating(t *testing.T) {
	cond := &entities.Condition{
		ID: "CM4-only",
		Rules: []entities.Rule{
			{Kind: entities.RuleRequire, Attributes: []entities.Attribute{{Key: "Dname", Value: "CM4"}}},
		},
	}
	pack := &entities.Pack{
		ID:         entities.PackID{Vendor: "ARM", Name: "CMSIS", Version: "1.0.0"},
		Conditions: map[string]*entities.Condition{"CM4-only": cond},
		Components: []*entities.Component{
			mustComponentWithCondition(t, "ARM", "CMSIS", "Driver", "SPI", "1.0.0", "CM4-only"),
		},
	}
	solver := NewComponentSolver([]*entities.Pack{pack}, &fakeSink{})
	ref := entities.ComponentRef{Selector: entities.ComponentSelector{Cclass: "CMSIS", Cgroup: "Driver:SPI"}}

	envBad := entities.NewEnvironment()
	envBad.Set("Dname", "CM0")
	if _, err := solver.Select(ref, envBad); err == nil {
		t.Fatal("expected selector to fail when condition does not hold")
	}

	envGood := entities.NewEnvironment()
	envGood.Set("Dname", "CM4")
	if _, err := solver.Select(ref, envGood); err != nil {
		t.Fatalf("expected selector to succeed when condition holds: %v", err)
	}
}

func mustComponent(t *testing.T, vendor, class, group, sub, version string) *entities.Component {
	t.Helper()
	c, err := entities.NewComponent(entities.ComponentAttributes{
		Cvendor: vendor, Cclass: class, Cgroup: group + ":" + sub, Cversion: version,
	}, entities.PackID{Vendor: vendor, Name: "CMSIS", Version: version})
	if err != nil {
		t.Fatalf("NewComponent: %v", err)
	}
	c.MaxInstances = 1
	return c
}

func mustComponentWithCondition(t *testing.T, vendor, class, group, sub, version, condRef string) *entities.Component {
	t.Helper()
	c := mustComponent(t, vendor, class, group, sub, version)
	c.ConditionRef = condRef
	return c
}
