// Package multilayer implements the multilayer edge-weight aggregator
// spec.md names only by interface (§OUT OF SCOPE, §6): it collapses a
// non-empty list of graph layers into the single weighted adjacency the
// rest of the engine operates on.
package multilayer

import (
	"github.com/gilchrisn/communitygo/internal/cgerrors"
	"github.com/gilchrisn/communitygo/internal/graphadapter"
)

// Link is one edge record within a layer, generic over whatever shape the
// caller's layer data takes; LinkWeight extracts its weight.
type Link struct {
	From, To interface{}
	Weight   float64
}

// Layer is one input graph layer: Nodes fixes the shared node id set
// (order-significant — all layers must agree on membership, not order),
// Links its edges, and Weight the per-layer multiplier applied to every
// edge before summing into the aggregate (spec.md §6: "Σ_layer layer.weight
// · linkWeight(link)").
type Layer struct {
	Nodes  []interface{}
	Links  []Link
	Weight float64 // defaults to 1 if zero value is never set by caller
}

// Aggregate sums per-layer weighted edges into a single Builder-ready edge
// set: emitted weight for (from,to) is Σ_layer layer.Weight·link.Weight;
// zero-weight edges are omitted. All layers must share an identical node
// id set, checked up front, else InputError.
func Aggregate(layers []Layer, directed bool) (*graphadapter.Graph, error) {
	if len(layers) == 0 {
		return nil, cgerrors.NewInputError("multilayer input requires at least one layer")
	}

	nodeSet := make(map[interface{}]bool, len(layers[0].Nodes))
	for _, id := range layers[0].Nodes {
		nodeSet[id] = true
	}
	for li, layer := range layers[1:] {
		other := make(map[interface{}]bool, len(layer.Nodes))
		for _, id := range layer.Nodes {
			other[id] = true
		}
		if len(other) != len(nodeSet) {
			return nil, cgerrors.NewInputError("layer %d node set differs from layer 0", li+1)
		}
		for id := range nodeSet {
			if !other[id] {
				return nil, cgerrors.NewInputError("layer %d missing node %v present in layer 0", li+1, id)
			}
		}
	}

	type key struct{ from, to interface{} }
	sums := make(map[key]float64)
	order := make([]key, 0)
	seen := make(map[key]bool)

	for _, layer := range layers {
		w := layer.Weight
		if w == 0 {
			w = 1
		}
		for _, link := range layer.Links {
			k := key{link.From, link.To}
			if !seen[k] {
				seen[k] = true
				order = append(order, k)
			}
			sums[k] += w * link.Weight
		}
	}

	b := graphadapter.NewBuilder(directed).WithOrder(layers[0].Nodes)
	for _, k := range order {
		if sums[k] == 0 {
			continue
		}
		b.AddEdge(k.from, k.to, sums[k])
	}
	return b.Build()
}
