// Package graphadapter builds the dense-indexed, symmetrized, weighted
// adjacency the rest of the engine operates on (spec §3, §4.1). It is
// read-only once constructed: the partition and local-move loop mutate
// their own state and never alias into a Graph's slices.
package graphadapter

import (
	"sort"

	"github.com/gilchrisn/communitygo/internal/cgerrors"
)

// Edge is a single weighted, directed input edge before indexing.
type Edge struct {
	From, To interface{}
	Weight   float64
}

// LinkWeightFunc extracts a weight from a caller's edge record. The zero
// value for any edge field defaults to 1, matching spec §6's
// "default w = data.weight or 1".
type LinkWeightFunc func(e Edge) float64

// NodeSizeFunc extracts an integer size for a node id; defaults to 1.
type NodeSizeFunc func(id interface{}) int

// Graph is the immutable-per-level adjacency described in spec §3.
type Graph struct {
	N        int
	Directed bool

	Out [][]Neighbor // out[i] = (j, w) pairs
	In  [][]Neighbor // in[i] = (j, w) pairs; equals Out when undirected

	Size []int     // s_i
	Loop []float64 // loop_i, self-loop weight

	KOut []float64 // out-strength
	KIn  []float64 // in-strength; nil when undirected (KInAt returns KOut then)

	M float64 // total weight, Σ_i k_out(i)

	idToIndex map[interface{}]int
	indexToID []interface{}
}

// Neighbor is one (target index, weight) adjacency entry.
type Neighbor struct {
	To int
	W  float64
}

// Builder accumulates edges and node attributes before indexing them into
// a Graph. Node order, if not supplied via WithOrder, is the order ids are
// first seen across AddNode/AddEdge calls — this is the "input order"
// spec §4.1 allows as the default dense index.
type Builder struct {
	directed bool
	order    []interface{}
	seen     map[interface{}]bool
	edges    []Edge
	sizes    map[interface{}]int
	hasOrder bool
}

// NewBuilder creates a Builder for an undirected or directed graph.
func NewBuilder(directed bool) *Builder {
	return &Builder{
		directed: directed,
		seen:     make(map[interface{}]bool),
		sizes:    make(map[interface{}]int),
	}
}

// WithOrder fixes the dense-index order explicitly; callers use this to
// keep a shared node order across multilayer input (spec §4.1: "or a
// caller-supplied order that all layers must share").
func (b *Builder) WithOrder(order []interface{}) *Builder {
	b.order = append([]interface{}{}, order...)
	b.hasOrder = true
	for _, id := range order {
		b.seen[id] = true
	}
	return b
}

func (b *Builder) touch(id interface{}) {
	if b.hasOrder {
		return
	}
	if !b.seen[id] {
		b.seen[id] = true
		b.order = append(b.order, id)
	}
}

// AddNode registers a node (with an optional size) even if it has no
// incident edges.
func (b *Builder) AddNode(id interface{}, size int) {
	b.touch(id)
	b.sizes[id] = size
}

// AddEdge registers a directed input edge. In undirected mode the reverse
// direction is synthesized at Build time per the averaging rule in spec
// §4.1/§9(c).
func (b *Builder) AddEdge(from, to interface{}, weight float64) {
	b.touch(from)
	b.touch(to)
	b.edges = append(b.edges, Edge{From: from, To: to, Weight: weight})
}

// Build indexes the accumulated nodes/edges into a Graph. If the builder
// was given an explicit order (WithOrder), any edge endpoint missing from
// that order is an InputError (spec §4.1: "Fails with InputError if a
// caller-supplied id list references a node absent from the graph" is the
// mirror case — here we guard the symmetric direction, that every edge
// endpoint is a known node).
func (b *Builder) Build() (*Graph, error) {
	n := len(b.order)
	idToIndex := make(map[interface{}]int, n)
	for i, id := range b.order {
		idToIndex[id] = i
	}

	g := &Graph{
		N:         n,
		Directed:  b.directed,
		Size:      make([]int, n),
		Loop:      make([]float64, n),
		KOut:      make([]float64, n),
		idToIndex: idToIndex,
		indexToID: append([]interface{}{}, b.order...),
	}
	for i, id := range b.order {
		if sz, ok := b.sizes[id]; ok {
			g.Size[i] = sz
		} else {
			g.Size[i] = 1
		}
	}

	if b.directed {
		return b.buildDirected(g)
	}
	return b.buildUndirected(g)
}

func (b *Builder) idx(idToIndex map[interface{}]int, id interface{}) (int, bool) {
	i, ok := idToIndex[id]
	return i, ok
}

func (b *Builder) buildDirected(g *Graph) (*Graph, error) {
	g.Out = make([][]Neighbor, g.N)
	g.In = make([][]Neighbor, g.N)
	g.KIn = make([]float64, g.N)

	for _, e := range b.edges {
		i, ok := b.idx(g.idToIndex, e.From)
		if !ok {
			return nil, cgerrors.NewInputError("edge references unknown node %v", e.From)
		}
		j, ok := b.idx(g.idToIndex, e.To)
		if !ok {
			return nil, cgerrors.NewInputError("edge references unknown node %v", e.To)
		}
		w := e.Weight
		if i == j {
			g.Loop[i] += w
			g.Out[i] = append(g.Out[i], Neighbor{To: i, W: w})
			g.In[i] = append(g.In[i], Neighbor{To: i, W: w})
			g.KOut[i] += w
			g.KIn[i] += w
			g.M += w
			continue
		}
		g.Out[i] = append(g.Out[i], Neighbor{To: j, W: w})
		g.In[j] = append(g.In[j], Neighbor{To: i, W: w})
		g.KOut[i] += w
		g.KIn[j] += w
		g.M += w
	}
	return g, nil
}

type pairKey struct{ a, b int }

func (b *Builder) buildUndirected(g *Graph) (*Graph, error) {
	g.Out = make([][]Neighbor, g.N)
	g.KIn = nil // undirected: KIn aliases KOut, see KInAt

	sums := make(map[pairKey]float64)
	dirFlags := make(map[pairKey][2]bool) // seenAB, seenBA

	for _, e := range b.edges {
		i, ok := b.idx(g.idToIndex, e.From)
		if !ok {
			return nil, cgerrors.NewInputError("edge references unknown node %v", e.From)
		}
		j, ok := b.idx(g.idToIndex, e.To)
		if !ok {
			return nil, cgerrors.NewInputError("edge references unknown node %v", e.To)
		}
		if i == j {
			g.Loop[i] += e.Weight
			continue
		}
		lo, hi, forward := i, j, true
		if i > j {
			lo, hi, forward = j, i, false
		}
		key := pairKey{lo, hi}
		sums[key] += e.Weight
		flags := dirFlags[key]
		if forward {
			flags[0] = true
		} else {
			flags[1] = true
		}
		dirFlags[key] = flags
	}

	// Deterministic emission order: sorted by (lo, hi), per spec §9's
	// "associative iteration determinism" discipline.
	keys := make([]pairKey, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(a, b int) bool {
		if keys[a].a != keys[b].a {
			return keys[a].a < keys[b].a
		}
		return keys[a].b < keys[b].b
	})

	for _, k := range keys {
		flags := dirFlags[k]
		count := 0
		if flags[0] {
			count++
		}
		if flags[1] {
			count++
		}
		if count == 0 {
			count = 1
		}
		w := sums[k] / float64(count)
		g.Out[k.a] = append(g.Out[k.a], Neighbor{To: k.b, W: w})
		g.Out[k.b] = append(g.Out[k.b], Neighbor{To: k.a, W: w})
		g.KOut[k.a] += w
		g.KOut[k.b] += w
	}

	for i := 0; i < g.N; i++ {
		if g.Loop[i] != 0 {
			g.Out[i] = append(g.Out[i], Neighbor{To: i, W: g.Loop[i]})
			g.KOut[i] += g.Loop[i]
		}
	}
	for i := 0; i < g.N; i++ {
		g.M += g.KOut[i]
	}

	g.In = g.Out
	return g, nil
}

// KInAt returns the in-strength of node i, aliasing KOut for undirected
// graphs per spec §3.
func (g *Graph) KInAt(i int) float64 {
	if g.Directed {
		return g.KIn[i]
	}
	return g.KOut[i]
}

// IndexOf returns the dense index for an input id.
func (g *Graph) IndexOf(id interface{}) (int, bool) {
	i, ok := g.idToIndex[id]
	return i, ok
}

// IDAt returns the original id for a dense index.
func (g *Graph) IDAt(i int) interface{} {
	return g.indexToID[i]
}
