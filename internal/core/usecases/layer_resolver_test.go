package usecases

import (
	"testing"

	"github.com/embedstack/cbuild/internal/core/entities"
)

// TestLayerResolverScenarioS6 covers scenario S6: two layer types,
// Board and Shield, with two compatible assignments.
func TestLayerResolverScenarioS6(t *testing.T) {
	b1 := &entities.Layer{Name: "B1", Type: "Board", Connections: []entities.Connection{
		{ID: "c1", Provides: []entities.KV{{Key: "bus", Value: "i2c"}}},
	}}
	b2 := &entities.Layer{Name: "B2", Type: "Board", Connections: []entities.Connection{
		{ID: "c2", Provides: []entities.KV{{Key: "bus", Value: "spi"}}},
	}}
	s1 := &entities.Layer{Name: "S1", Type: "Shield", Connections: []entities.Connection{
		{ID: "c3", Consumes: []entities.KV{{Key: "bus", Value: "i2c"}}},
	}}
	s2 := &entities.Layer{Name: "S2", Type: "Shield", Connections: []entities.Connection{
		{ID: "c4", Consumes: []entities.KV{{Key: "bus", Value: "spi"}}},
	}}

	slots := []LayerSlot{
		{Type: "Board", Candidates: []*entities.Layer{b1, b2}},
		{Type: "Shield", Candidates: []*entities.Layer{s1, s2}},
	}
	resolver := NewLayerResolver(slots)
	assignment, unsat := resolver.Resolve()
	if unsat != nil {
		t.Fatalf("expected a satisfying assignment, unsatisfied: %+v", unsat)
	}
	board := assignment["Board"]
	shield := assignment["Shield"]
	if board == nil || shield == nil {
		t.Fatal("expected both slots filled")
	}
	validPair := (board.Name == "B1" && shield.Name == "S1") || (board.Name == "B2" && shield.Name == "S2")
	if !validPair {
		t.Errorf("unexpected pairing: %s + %s", board.Name, shield.Name)
	}

	all := resolver.ResolveAll()
	if len(all) != 2 {
		t.Fatalf("expected 2 total assignments with --update-idx, got %d", len(all))
	}
}

func TestLayerResolverContradiction(t *testing.T) {
	board := &entities.Layer{Name: "B1", Type: "Board", Connections: []entities.Connection{
		{ID: "c1", Provides: []entities.KV{{Key: "bus", Value: "i2c"}}},
	}}
	shield := &entities.Layer{Name: "S1", Type: "Shield", Connections: []entities.Connection{
		{ID: "c2", Consumes: []entities.KV{{Key: "bus", Value: "spi"}}},
	}}
	slots := []LayerSlot{
		{Type: "Board", Candidates: []*entities.Layer{board}},
		{Type: "Shield", Candidates: []*entities.Layer{shield}},
	}
	resolver := NewLayerResolver(slots)
	assignment, unsat := resolver.Resolve()
	if assignment != nil {
		t.Fatalf("expected no valid assignment, got %+v", assignment)
	}
	if len(unsat) == 0 {
		t.Fatal("expected an unsatisfied-consume report")
	}
}

func TestLayerResolverIdentityConflict(t *testing.T) {
	a := &entities.Layer{Name: "A", Type: "Board", Connections: []entities.Connection{
		{ID: "c1", Provides: []entities.KV{{Key: "mcu", Value: "stm32"}}},
	}}
	b := &entities.Layer{Name: "B", Type: "Core", Connections: []entities.Connection{
		{ID: "c2", Provides: []entities.KV{{Key: "mcu", Value: "nrf52"}}},
	}}
	slots := []LayerSlot{
		{Type: "Board", Candidates: []*entities.Layer{a}},
		{Type: "Core", Candidates: []*entities.Layer{b}},
	}
	resolver := NewLayerResolver(slots)
	assignment, _ := resolver.Resolve()
	if assignment != nil {
		t.Fatal("expected identity conflict between layers providing different values for the same key to fail")
	}
}
