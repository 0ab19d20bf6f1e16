// Package iogv implements the DOT/JSON parsing and writing spec.md names
// only by interface (§OUT OF SCOPE, §6 CLI). DOT is handled via gonum's
// graph/encoding/dot package over the custom dotGraph/dotNode/dotEdge
// types in dotgraph.go; JSON and CSV are this package's own formats for
// Clusters.toJSON()-shaped output.
package iogv

import (
	"fmt"

	"gonum.org/v1/gonum/graph/encoding/dot"

	"github.com/gilchrisn/communitygo/internal/cgerrors"
	"github.com/gilchrisn/communitygo/internal/graphadapter"
)

// ReadDOT parses DOT source into a Builder-ready graph. Node ids are the
// DOT node identifiers (strings); edge weight comes from a "weight"
// attribute, defaulting to 1 (spec.md §6: "default w = data.weight or
// 1"); node size comes from a "size" attribute, defaulting to 1.
func ReadDOT(data []byte, directed bool) (*graphadapter.Graph, error) {
	dst := newDotGraph(directed)
	if err := dot.Unmarshal(data, dst); err != nil {
		return nil, cgerrors.NewInputError("malformed DOT input: %v", err)
	}

	b := graphadapter.NewBuilder(directed)
	for _, n := range dst.nodes {
		b.AddNode(n.DOTID(), n.size)
	}
	for _, e := range dst.edgesSlice() {
		b.AddEdge(e.from.DOTID(), e.to.DOTID(), e.weight)
	}
	return b.Build()
}

// WriteDOT serializes a graph plus an optional community overlay
// (node index -> community id, written as a "community" attribute) back
// to DOT source.
func WriteDOT(g *graphadapter.Graph, membership map[int]int) ([]byte, error) {
	return WriteDOTAnnotated(g, membership, nil)
}

// WriteDOTAnnotated is WriteDOT plus an optional per-node pagerank overlay
// (SPEC_FULL.md's --annotate-pagerank flag), written as a "pagerank"
// attribute alongside "community".
func WriteDOTAnnotated(g *graphadapter.Graph, membership map[int]int, pagerank map[int]float64) ([]byte, error) {
	dst := newDotGraph(g.Directed)
	ids := make(map[int]*dotNode, g.N)
	for i := 0; i < g.N; i++ {
		n := dst.NewNode().(*dotNode)
		n.SetDOTID(fmt.Sprintf("%v", g.IDAt(i)))
		n.size = g.Size[i]
		if membership != nil {
			if c, ok := membership[i]; ok {
				cc := c
				n.community = &cc
			}
		}
		if pagerank != nil {
			if pr, ok := pagerank[i]; ok {
				prv := pr
				n.pagerank = &prv
			}
		}
		dst.AddNode(n)
		ids[i] = n
	}

	seen := make(map[[2]int]bool)
	for i := 0; i < g.N; i++ {
		for _, nb := range g.Out[i] {
			if !g.Directed {
				lo, hi := i, nb.To
				if lo > hi {
					lo, hi = hi, lo
				}
				key := [2]int{lo, hi}
				if seen[key] {
					continue
				}
				seen[key] = true
			}
			e := dst.NewEdge(ids[i], ids[nb.To]).(*dotEdge)
			e.weight = nb.W
			dst.SetEdge(e)
		}
	}

	out, err := dot.Marshal(dst, "communitygo", "", "  ")
	if err != nil {
		return nil, fmt.Errorf("iogv: marshal DOT: %w", err)
	}
	return out, nil
}
