// Package coarsen contracts a partition's communities into super-nodes for
// the next Louvain level, per spec §4.6.
package coarsen

import (
	"sort"

	"github.com/gilchrisn/communitygo/internal/graphadapter"
	"github.com/gilchrisn/communitygo/internal/partition"
)

// Coarsen builds the graph for the next level: one super-node per
// non-empty community, whose node id is the community id c, sized
// totalSize[c]; on a compacted partition super-node index i is community i.
// It carries one directed edge per unique
// (P[i], P[j]) key carrying the summed weight of every edge (i→j, w) in g
// that maps to it (self-loops included). Emission is sorted by (u, v) for
// determinism (spec §9's "associative iteration determinism").
func Coarsen(g *graphadapter.Graph, p *partition.Partition) (*graphadapter.Graph, error) {
	q := p.CommunityCount()
	order := make([]interface{}, 0, q)
	for c := 0; c < q; c++ {
		if p.NodeCount(c) > 0 {
			order = append(order, c)
		}
	}

	b := graphadapter.NewBuilder(g.Directed).WithOrder(order)
	for _, id := range order {
		b.AddNode(id, p.TotalSize(id.(int)))
	}

	type pairKey struct{ u, v int }
	sums := make(map[pairKey]float64)
	for i := 0; i < g.N; i++ {
		ci := p.NodeCommunity(i)
		for _, nb := range g.Out[i] {
			cj := p.NodeCommunity(nb.To)
			sums[pairKey{ci, cj}] += nb.W
		}
	}

	keys := make([]pairKey, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(a, bI int) bool {
		if keys[a].u != keys[bI].u {
			return keys[a].u < keys[bI].u
		}
		return keys[a].v < keys[bI].v
	})

	for _, k := range keys {
		b.AddEdge(k.u, k.v, sums[k])
	}

	return b.Build()
}
