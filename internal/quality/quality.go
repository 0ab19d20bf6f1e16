// Package quality implements the objective functions and per-move delta
// formulas from spec §4.3: undirected and directed modularity, and CPM
// (unit and size-aware). Every formula here is a pure function of a
// partition.Partition's current aggregates and scratch — none of them
// mutate state.
package quality

import (
	"math"

	"github.com/gilchrisn/communitygo/internal/graphadapter"
	"github.com/gilchrisn/communitygo/internal/partition"
)

// Kind selects the objective.
type Kind int

const (
	Modularity Kind = iota
	CPM
)

// CPMMode selects the reporting convention for CPM's penalty term
// (spec §6 Options table, "cpmMode").
type CPMMode int

const (
	CPMUnit CPMMode = iota
	CPMSizeAware
)

// cpmInternalWeight recovers CPM's L_c (spec §4.3: "internal pairs once,
// self-loops once") from the doubled bookkeeping moveNodeToCommunity's
// undirected update requires (spec §4.2: "adds/subtracts 2·w_to_c"), which
// is also what the undirected modularity sum in spec §4.3 expects directly.
// internalEdge = 2·pairs + loopSum (self-loops are stored singly, never
// doubled), so pairs = (internalEdge-loopSum)/2 and L_c = pairs+loopSum =
// (internalEdge+loopSum)/2. Directed internal weight is never doubled (each
// directed edge, including a self-loop, is counted once already), so it
// passes through unchanged.
func cpmInternalWeight(internalEdge, loopSum float64, directed bool) float64 {
	if directed {
		return internalEdge
	}
	return (internalEdge + loopSum) / 2
}

// clamp treats non-finite deltas as zero gain, per spec §4.4's failure
// mode: "NaN/inf gains: implementers must treat non-finite gain as 0."
func clamp(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}

// DeltaModularityUndirected returns the exact change in Global's undirected
// modularity for moving the current node into c: the node's strength is
// taken out of its old community's total before that community is scored,
// and the result is doubled to match Global's doubled internal-weight
// convention. Returns 0 when c equals the node's current community or when
// M is 0.
func DeltaModularityUndirected(p *partition.Partition, c int) float64 {
	oldC := p.CurrentCommunity()
	if c == oldC {
		return 0
	}
	m2 := p.Graph().M
	if m2 == 0 {
		return 0
	}
	kv := p.Graph().KOut[p.CurrentNode()]
	wNew := p.NeighborWeight(c)
	wOld := p.NeighborWeight(oldC)
	totNew := p.TotalStrength(c)
	totOld := p.TotalStrength(oldC)

	gainNew := wNew/m2 - kv*totNew/(m2*m2)
	gainOld := wOld/m2 - kv*(totOld-kv)/(m2*m2)
	return clamp(2 * (gainNew - gainOld))
}

// DeltaModularityDirected returns the exact change in Global's directed
// modularity for moving the current node into c. The 2·kOut·kIn term
// accounts for the node's own out/in strengths leaving the old community's
// totals and joining the new one's.
func DeltaModularityDirected(p *partition.Partition, c int) float64 {
	oldC := p.CurrentCommunity()
	if c == oldC {
		return 0
	}
	m := p.Graph().M
	if m == 0 {
		return 0
	}
	v := p.CurrentNode()
	kOut := p.Graph().KOut[v]
	kIn := p.Graph().KInAt(v)

	inNew, outNew := p.InFromC(c), p.OutToC(c)
	inOld, outOld := p.InFromC(oldC), p.OutToC(oldC)
	tNew, fNew := p.TotalInStrength(c), p.TotalOutStrength(c)
	tOld, fOld := p.TotalInStrength(oldC), p.TotalOutStrength(oldC)

	linear := (inNew + outNew - inOld - outOld) / m
	quad := (kOut*(tNew-tOld) + kIn*(fNew-fOld) + 2*kOut*kIn) / (m * m)
	return clamp(linear - quad)
}

// DeltaCPM implements spec §4.2's CPM formula. S is always totalSize: with
// the default node size of 1, totalSize equals nodeCount, so this single
// closed form serves both the unit and size-aware conventions — cpmMode
// only selects which convention Global reports (spec §6: "Reporting-only
// selector for quality()").
func DeltaCPM(p *partition.Partition, c int, gamma float64) float64 {
	oldC := p.CurrentCommunity()
	if c == oldC {
		return 0
	}
	v := p.CurrentNode()
	wNew := p.NeighborWeight(c)
	wOld := p.NeighborWeight(oldC)

	sv := float64(p.Graph().Size[v])
	sNew := float64(p.TotalSize(c))
	sOld := float64(p.TotalSize(oldC))

	delta := (wNew - wOld) - gamma*sv*(sNew-sOld+sv)
	return clamp(delta)
}

// Delta dispatches to the formula selected by kind/directed.
func Delta(p *partition.Partition, c int, kind Kind, directed bool, gamma float64) float64 {
	switch kind {
	case CPM:
		return DeltaCPM(p, c, gamma)
	default:
		if directed {
			return DeltaModularityDirected(p, c)
		}
		return DeltaModularityUndirected(p, c)
	}
}

// Global computes the total quality of the current partition, per spec
// §4.3's four formulas.
func Global(p *partition.Partition, kind Kind, directed bool, gamma float64, cpmMode CPMMode) float64 {
	q := p.CommunityCount()
	switch kind {
	case CPM:
		total := 0.0
		for c := 0; c < q; c++ {
			if p.NodeCount(c) == 0 {
				continue
			}
			l := cpmInternalWeight(p.InternalEdgeWeight(c), p.LoopWeight(c), directed)
			if cpmMode == CPMSizeAware {
				s := float64(p.TotalSize(c))
				total += l - gamma*s*(s-1)/2
			} else {
				n := float64(p.NodeCount(c))
				total += l - gamma*n*(n-1)/2
			}
		}
		return total
	default:
		if directed {
			return globalDirectedModularity(p)
		}
		return globalUndirectedModularity(p)
	}
}

func globalUndirectedModularity(p *partition.Partition) float64 {
	m2 := p.Graph().M
	if m2 == 0 {
		return 0
	}
	total := 0.0
	for c := 0; c < p.CommunityCount(); c++ {
		if p.NodeCount(c) == 0 {
			continue
		}
		l := p.InternalEdgeWeight(c)
		d := p.TotalStrength(c)
		total += l/m2 - (d/m2)*(d/m2)
	}
	return total
}

func globalDirectedModularity(p *partition.Partition) float64 {
	m := p.Graph().M
	if m == 0 {
		return 0
	}
	total := 0.0
	for c := 0; c < p.CommunityCount(); c++ {
		if p.NodeCount(c) == 0 {
			continue
		}
		l := p.InternalEdgeWeight(c)
		f := p.TotalOutStrength(c)
		t := p.TotalInStrength(c)
		total += l/m - (f*t)/(m*m)
	}
	return total
}

// EvaluateOptions configures the external-membership evaluator.
type EvaluateOptions struct {
	Kind      Kind
	Directed  bool
	Gamma     float64
	CPMMode   CPMMode
	Strict    bool // fail with MissingMembership instead of singleton-filling
}

// Evaluate scores an externally supplied node->community membership map in
// O(N+E), per spec §4.3's edge-scan evaluator. Membership keys use the
// graph's dense indices; nodes missing from membership become singletons
// unless opts.Strict is set, in which case the caller should pre-check and
// raise MissingMembership themselves (this function assumes the caller
// already resolved that policy into a complete or deliberately-singleton
// map, keeping Evaluate itself a pure numeric function).
func Evaluate(g *graphadapter.Graph, membership map[int]int, opts EvaluateOptions) float64 {
	comms := make(map[int]struct {
		nodeCount     int
		totalSize     int
		internal      float64
		loop          float64 // self-loop weight only, undoubled, for CPM's L_c
		totalStrength float64
		totalOut      float64
		totalIn       float64
	})

	nextSingleton := -1
	resolved := make([]int, g.N)
	for v := 0; v < g.N; v++ {
		c, ok := membership[v]
		if !ok {
			c = nextSingleton
			nextSingleton--
		}
		resolved[v] = c
	}

	for v := 0; v < g.N; v++ {
		c := resolved[v]
		agg := comms[c]
		agg.nodeCount++
		agg.totalSize += g.Size[v]
		if opts.Directed {
			agg.totalOut += g.KOut[v]
			agg.totalIn += g.KInAt(v)
		} else {
			agg.totalStrength += g.KOut[v]
		}
		agg.internal += g.Loop[v]
		agg.loop += g.Loop[v]
		comms[c] = agg
	}

	for v := 0; v < g.N; v++ {
		cv := resolved[v]
		for _, nb := range g.Out[v] {
			if nb.To == v {
				continue
			}
			cw := resolved[nb.To]
			if cw == cv {
				agg := comms[cv]
				agg.internal += nb.W
				comms[cv] = agg
			}
		}
	}

	switch opts.Kind {
	case CPM:
		total := 0.0
		for _, agg := range comms {
			l := cpmInternalWeight(agg.internal, agg.loop, opts.Directed)
			if opts.CPMMode == CPMSizeAware {
				s := float64(agg.totalSize)
				total += l - opts.Gamma*s*(s-1)/2
			} else {
				n := float64(agg.nodeCount)
				total += l - opts.Gamma*n*(n-1)/2
			}
		}
		return total
	default:
		if opts.Directed {
			m := g.M
			if m == 0 {
				return 0
			}
			total := 0.0
			for _, agg := range comms {
				total += agg.internal/m - (agg.totalOut*agg.totalIn)/(m*m)
			}
			return total
		}
		m2 := g.M
		if m2 == 0 {
			return 0
		}
		total := 0.0
		for _, agg := range comms {
			total += agg.internal/m2 - (agg.totalStrength/m2)*(agg.totalStrength/m2)
		}
		return total
	}
}
