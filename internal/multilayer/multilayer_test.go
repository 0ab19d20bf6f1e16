package multilayer

import "testing"

func TestAggregateSumsWeightedLayers(t *testing.T) {
	nodes := []interface{}{"a", "b"}
	layers := []Layer{
		{Nodes: nodes, Weight: 1.0, Links: []Link{{From: "a", To: "b", Weight: 2.0}}},
		{Nodes: nodes, Weight: 0.5, Links: []Link{{From: "a", To: "b", Weight: 4.0}}},
	}
	g, err := Aggregate(layers, false)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	ai, _ := g.IndexOf("a")
	bi, _ := g.IndexOf("b")
	// Σ_layer layer.Weight*link.Weight = 1*2 + 0.5*4 = 4.0
	var got float64
	for _, nb := range g.Out[ai] {
		if nb.To == bi {
			got = nb.W
		}
	}
	if got != 4.0 {
		t.Fatalf("expected aggregated weight 4.0, got %v", got)
	}
}

func TestAggregateOmitsZeroWeightEdges(t *testing.T) {
	nodes := []interface{}{"a", "b"}
	layers := []Layer{
		{Nodes: nodes, Weight: 1.0, Links: []Link{{From: "a", To: "b", Weight: 1.0}}},
		{Nodes: nodes, Weight: -1.0, Links: []Link{{From: "a", To: "b", Weight: 1.0}}},
	}
	g, err := Aggregate(layers, false)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	ai, _ := g.IndexOf("a")
	if len(g.Out[ai]) != 0 {
		t.Fatalf("expected the cancelled-out edge to be omitted, got %+v", g.Out[ai])
	}
}

func TestAggregateRejectsMismatchedNodeSets(t *testing.T) {
	layers := []Layer{
		{Nodes: []interface{}{"a", "b"}, Links: nil},
		{Nodes: []interface{}{"a", "c"}, Links: nil},
	}
	if _, err := Aggregate(layers, false); err == nil {
		t.Fatal("expected an InputError for mismatched node sets across layers")
	}
}

func TestAggregateRejectsEmptyLayerList(t *testing.T) {
	if _, err := Aggregate(nil, false); err == nil {
		t.Fatal("expected an InputError for an empty layer list")
	}
}

func TestAggregateIsDeterministicAcrossCalls(t *testing.T) {
	nodes := []interface{}{"a", "b", "c"}
	layers := []Layer{
		{Nodes: nodes, Weight: 1.0, Links: []Link{
			{From: "a", To: "b", Weight: 1.0},
			{From: "b", To: "c", Weight: 2.0},
		}},
	}
	first, err := Aggregate(layers, false)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	second, err := Aggregate(layers, false)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	for i := 0; i < first.N; i++ {
		if first.IDAt(i) != second.IDAt(i) {
			t.Fatalf("node order differs across identical Aggregate calls at index %d", i)
		}
	}
}
