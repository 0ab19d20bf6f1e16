package quality

import (
	"math"
	"testing"

	"github.com/gilchrisn/communitygo/internal/graphadapter"
	"github.com/gilchrisn/communitygo/internal/partition"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func buildTwoNodeGraph(t *testing.T) *graphadapter.Graph {
	t.Helper()
	b := graphadapter.NewBuilder(false)
	b.AddEdge("a", "b", 1.0)
	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return g
}

// TestDeltaModularityTelescopesAgainstGlobal confirms the per-move
// modularity delta and the recomputed global modularity agree: this is
// the invariant that pinned down the undoubled M convention (M = sum of
// k_out, no /2).
func TestDeltaModularityTelescopesAgainstGlobal(t *testing.T) {
	g := buildTwoNodeGraph(t)
	p := partition.New(g)
	ai, _ := g.IndexOf("a")
	bi, _ := g.IndexOf("b")

	before := Global(p, Modularity, false, 1.0, CPMUnit)
	p.AccumulateNeighbors(ai)
	delta := DeltaModularityUndirected(p, bi)
	p.MoveNodeToCommunity(ai, bi)
	after := Global(p, Modularity, false, 1.0, CPMUnit)

	if !almostEqual(after-before, delta) {
		t.Fatalf("delta %v did not telescope: before=%v after=%v (after-before=%v)", delta, before, after, after-before)
	}
}

// TestDeltaCPMTelescopesAgainstGlobal confirms the same telescoping
// property for CPM's delta/global pair, which pinned down the
// cpmInternalWeight /2 undoubling for undirected graphs.
func TestDeltaCPMTelescopesAgainstGlobal(t *testing.T) {
	g := buildTwoNodeGraph(t)
	p := partition.New(g)
	ai, _ := g.IndexOf("a")
	bi, _ := g.IndexOf("b")

	gamma := 0.5
	before := Global(p, CPM, false, gamma, CPMUnit)
	p.AccumulateNeighbors(ai)
	delta := DeltaCPM(p, bi, gamma)
	p.MoveNodeToCommunity(ai, bi)
	after := Global(p, CPM, false, gamma, CPMUnit)

	if !almostEqual(after-before, delta) {
		t.Fatalf("CPM delta %v did not telescope: before=%v after=%v", delta, before, after)
	}
}

// TestDeltaCPMTelescopesWithSelfLoop pins down that a self-loop is counted
// once (never doubled) in CPM's L_c. Before the fix, cpmInternalWeight
// halved the self-loop along with the doubled pair sum, so Global's
// before/after values diverged from DeltaCPM's returned delta by exactly
// half the self-loop weight.
func TestDeltaCPMTelescopesWithSelfLoop(t *testing.T) {
	b := graphadapter.NewBuilder(false)
	b.AddEdge("a", "a", 5.0)
	b.AddEdge("a", "b", 0.1)
	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	p := partition.New(g)
	ai, _ := g.IndexOf("a")
	bi, _ := g.IndexOf("b")

	gamma := 1.0
	before := Global(p, CPM, false, gamma, CPMUnit)
	if !almostEqual(before, 5.0) {
		t.Fatalf("expected singleton-a's self-loop to contribute L_a=5 once, got Global=%v", before)
	}

	p.AccumulateNeighbors(bi)
	delta := DeltaCPM(p, ai, gamma)
	p.MoveNodeToCommunity(bi, ai)
	after := Global(p, CPM, false, gamma, CPMUnit)

	if !almostEqual(after-before, delta) {
		t.Fatalf("CPM delta %v did not telescope across a self-loop: before=%v after=%v (after-before=%v)", delta, before, after, after-before)
	}
	if !almostEqual(after, 4.1) {
		t.Fatalf("expected merged community's CPM quality 5.1-gamma*1=4.1, got %v", after)
	}
}

func TestDeltaIsZeroForStaying(t *testing.T) {
	g := buildTwoNodeGraph(t)
	p := partition.New(g)
	ai, _ := g.IndexOf("a")
	p.AccumulateNeighbors(ai)
	oldC := p.CurrentCommunity()
	if d := DeltaModularityUndirected(p, oldC); d != 0 {
		t.Fatalf("expected 0 delta for staying put, got %v", d)
	}
	if d := DeltaCPM(p, oldC, 1.0); d != 0 {
		t.Fatalf("expected 0 CPM delta for staying put, got %v", d)
	}
}

func TestClampNonFiniteToZero(t *testing.T) {
	if clamp(math.NaN()) != 0 {
		t.Fatal("NaN should clamp to 0")
	}
	if clamp(math.Inf(1)) != 0 {
		t.Fatal("+Inf should clamp to 0")
	}
	if clamp(math.Inf(-1)) != 0 {
		t.Fatal("-Inf should clamp to 0")
	}
	if clamp(3.5) != 3.5 {
		t.Fatal("finite values should pass through unchanged")
	}
}

// TestEvaluateAgreesWithGlobal checks the external-membership evaluator
// against the partition-based Global computation for an equivalent
// assignment, across both objectives.
func TestEvaluateAgreesWithGlobal(t *testing.T) {
	b := graphadapter.NewBuilder(false)
	b.AddEdge("a", "b", 1.0)
	b.AddEdge("b", "c", 1.0)
	b.AddEdge("c", "a", 1.0)
	b.AddEdge("d", "e", 2.0)
	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	p := partition.New(g)
	ai, _ := g.IndexOf("a")
	bi, _ := g.IndexOf("b")
	ci, _ := g.IndexOf("c")
	di, _ := g.IndexOf("d")
	ei, _ := g.IndexOf("e")

	p.AccumulateNeighbors(bi)
	p.MoveNodeToCommunity(bi, ai)
	p.AccumulateNeighbors(ci)
	p.MoveNodeToCommunity(ci, ai)
	p.AccumulateNeighbors(ei)
	p.MoveNodeToCommunity(ei, di)

	membership := map[int]int{ai: 0, bi: 0, ci: 0, di: 1, ei: 1}

	for _, kind := range []Kind{Modularity, CPM} {
		want := Global(p, kind, false, 1.0, CPMUnit)
		got := Evaluate(g, membership, EvaluateOptions{Kind: kind, Directed: false, Gamma: 1.0, CPMMode: CPMUnit})
		if !almostEqual(want, got) {
			t.Fatalf("kind=%v: Global=%v Evaluate=%v disagree", kind, want, got)
		}
	}
}

func TestEvaluateSingletonFillsMissingNodes(t *testing.T) {
	b := graphadapter.NewBuilder(false)
	b.AddEdge("a", "b", 1.0)
	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	// No membership supplied at all: every node becomes its own singleton.
	// Both nodes then report 0 internal weight against strength 1 over
	// M=2, giving modularity (0/2 - 0.25)*2 = -0.5.
	got := Evaluate(g, map[int]int{}, EvaluateOptions{Kind: Modularity})
	if !almostEqual(got, -0.5) {
		t.Fatalf("expected -0.5 modularity for an all-singleton fallback, got %v", got)
	}
}
