package graphadapter

import "testing"

func TestBuildUndirectedSymmetrizesAndAverages(t *testing.T) {
	b := NewBuilder(false)
	b.AddEdge("a", "b", 2.0)
	b.AddEdge("b", "a", 4.0) // same unordered pair seen from both directions: averaged
	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	ai, _ := g.IndexOf("a")
	bi, _ := g.IndexOf("b")

	if len(g.Out[ai]) != 1 || g.Out[ai][0].To != bi || g.Out[ai][0].W != 3.0 {
		t.Fatalf("expected averaged edge weight 3.0, got %+v", g.Out[ai])
	}
	if g.KOut[ai] != 3.0 || g.KOut[bi] != 3.0 {
		t.Fatalf("expected strengths 3.0, got %v %v", g.KOut[ai], g.KOut[bi])
	}
	if g.M != 6.0 {
		t.Fatalf("expected M = sum(k_out) = 6.0, got %v", g.M)
	}
}

func TestBuildUndirectedOneDirectionOnlyKeepsRawWeight(t *testing.T) {
	b := NewBuilder(false)
	b.AddEdge("a", "b", 5.0) // only one direction seen: no averaging divisor
	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	ai, _ := g.IndexOf("a")
	if g.Out[ai][0].W != 5.0 {
		t.Fatalf("expected weight 5.0, got %v", g.Out[ai][0].W)
	}
}

func TestBuildSelfLoop(t *testing.T) {
	b := NewBuilder(false)
	b.AddNode("a", 1)
	b.AddEdge("a", "a", 3.0)
	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	ai, _ := g.IndexOf("a")
	if g.Loop[ai] != 3.0 {
		t.Fatalf("expected loop weight 3.0, got %v", g.Loop[ai])
	}
	if g.KOut[ai] != 3.0 {
		t.Fatalf("expected strength 3.0 from self-loop, got %v", g.KOut[ai])
	}
}

func TestBuildDirectedKeepsSeparateInOutStrengths(t *testing.T) {
	b := NewBuilder(true)
	b.AddEdge("a", "b", 2.0)
	b.AddEdge("b", "c", 3.0)
	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	ai, _ := g.IndexOf("a")
	bi, _ := g.IndexOf("b")
	ci, _ := g.IndexOf("c")

	if g.KOut[ai] != 2.0 || g.KInAt(ai) != 0 {
		t.Fatalf("node a: expected out=2 in=0, got out=%v in=%v", g.KOut[ai], g.KInAt(ai))
	}
	if g.KOut[bi] != 3.0 || g.KInAt(bi) != 2.0 {
		t.Fatalf("node b: expected out=3 in=2, got out=%v in=%v", g.KOut[bi], g.KInAt(bi))
	}
	if g.KInAt(ci) != 3.0 {
		t.Fatalf("node c: expected in=3, got %v", g.KInAt(ci))
	}
	if g.M != 5.0 {
		t.Fatalf("expected M=5.0, got %v", g.M)
	}
}

func TestBuildRejectsUnknownEdgeEndpointUnderExplicitOrder(t *testing.T) {
	b := NewBuilder(false).WithOrder([]interface{}{"a", "b"})
	b.AddEdge("a", "c", 1.0)
	if _, err := b.Build(); err == nil {
		t.Fatal("expected InputError for edge referencing a node outside the explicit order")
	}
}

func TestWithOrderPreservesCallerSequence(t *testing.T) {
	order := []interface{}{"z", "a", "m"}
	b := NewBuilder(false).WithOrder(order)
	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for i, id := range order {
		if g.IDAt(i) != id {
			t.Fatalf("index %d: expected %v, got %v", i, id, g.IDAt(i))
		}
	}
}
