package entities

import "testing"

func TestRefGraphFindCycleAcyclic(t *testing.T) {
	g := NewRefGraph()
	g.AddEdge("A", "B")
	g.AddEdge("B", "C")
	if cyc := g.FindCycle(); cyc != nil {
		t.Errorf("expected no cycle, got %v", cyc)
	}
}

func TestRefGraphFindCycleDetects(t *testing.T) {
	g := NewRefGraph()
	g.AddEdge("A", "B")
	g.AddEdge("B", "C")
	g.AddEdge("C", "A")
	cyc := g.FindCycle()
	if cyc == nil {
		t.Fatal("expected a cycle to be found")
	}
	if cyc[0] != cyc[len(cyc)-1] {
		t.Errorf("expected cycle path to start and end on the same node, got %v", cyc)
	}
}

func TestRefGraphSelfLoop(t *testing.T) {
	g := NewRefGraph()
	g.AddEdge("A", "A")
	if cyc := g.FindCycle(); cyc == nil {
		t.Error("expected self-loop to be detected as a cycle")
	}
}
