package iogv

import (
	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/gilchrisn/communitygo/internal/graphadapter"
)

// PageRank computes informational PageRank scores over a graph's finest
// level for DOT output annotation; JSON and CSV output carry no pagerank
// scores (spec.md's Open Questions leave this unaddressed; it never feeds
// back into the clustering objective).
// Grounded on the teacher's PageRankCalculator, simplified: gonum's
// network.PageRank wants a directed graph, so undirected input is
// expanded into both directions before scoring, the same conversion the
// teacher's convertWeightedUndirectedToDirected performs.
func PageRank(g *graphadapter.Graph, damping, tolerance float64) map[int]float64 {
	directed := simple.NewWeightedDirectedGraph(0, 0)
	for i := 0; i < g.N; i++ {
		directed.AddNode(simple.Node(int64(i)))
	}
	for i := 0; i < g.N; i++ {
		for _, nb := range g.Out[i] {
			if nb.To == i {
				continue
			}
			directed.SetWeightedEdge(simple.WeightedEdge{F: simple.Node(int64(i)), T: simple.Node(int64(nb.To)), W: nb.W})
		}
	}

	scores := network.PageRank(directed, damping, tolerance)
	out := make(map[int]float64, len(scores))
	for id, score := range scores {
		out[int(id)] = score
	}
	return out
}
