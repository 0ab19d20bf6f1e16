package iogv

import (
	"fmt"
	"strconv"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/iterator"
)

// dotNode is the gonum graph.Node this package round-trips through
// encoding/dot: it carries the DOT node id as a label (distinct from the
// dense int64 id gonum wants) and a "size" attribute mapping to spec.md's
// node size, defaulting to 1 when absent.
type dotNode struct {
	id        int64
	dotID     string
	size      int
	community *int     // set by WriteDOT's community overlay, nil otherwise
	pagerank  *float64 // set by WriteDOTAnnotated's --annotate-pagerank overlay
}

func (n *dotNode) ID() int64 { return n.id }

func (n *dotNode) DOTID() string {
	if n.dotID != "" {
		return n.dotID
	}
	return strconv.FormatInt(n.id, 10)
}

func (n *dotNode) SetDOTID(id string) { n.dotID = id }

func (n *dotNode) Attributes() []encoding.Attribute {
	var attrs []encoding.Attribute
	if n.size != 1 {
		attrs = append(attrs, encoding.Attribute{Key: "size", Value: strconv.Itoa(n.size)})
	}
	if n.community != nil {
		attrs = append(attrs, encoding.Attribute{Key: "community", Value: strconv.Itoa(*n.community)})
	}
	if n.pagerank != nil {
		attrs = append(attrs, encoding.Attribute{Key: "pagerank", Value: strconv.FormatFloat(*n.pagerank, 'g', -1, 64)})
	}
	return attrs
}

func (n *dotNode) SetAttribute(attr encoding.Attribute) error {
	if attr.Key != "size" {
		return nil
	}
	v, err := strconv.Atoi(attr.Value)
	if err != nil {
		return fmt.Errorf("iogv: invalid size attribute %q: %w", attr.Value, err)
	}
	n.size = v
	return nil
}

// dotEdge carries its weight as a DOT attribute, since plain DOT has no
// built-in notion of edge weight (spec.md §6: "default w = data.weight or
// 1").
type dotEdge struct {
	from, to *dotNode
	weight   float64
}

func (e *dotEdge) From() graph.Node         { return e.from }
func (e *dotEdge) To() graph.Node           { return e.to }
func (e *dotEdge) ReversedEdge() graph.Edge { return &dotEdge{from: e.to, to: e.from, weight: e.weight} }
func (e *dotEdge) Weight() float64          { return e.weight }

func (e *dotEdge) Attributes() []encoding.Attribute {
	return []encoding.Attribute{{Key: "weight", Value: strconv.FormatFloat(e.weight, 'g', -1, 64)}}
}

func (e *dotEdge) SetAttribute(attr encoding.Attribute) error {
	if attr.Key != "weight" {
		return nil
	}
	v, err := strconv.ParseFloat(attr.Value, 64)
	if err != nil {
		return fmt.Errorf("iogv: invalid weight attribute %q: %w", attr.Value, err)
	}
	e.weight = v
	return nil
}

// dotGraph is a minimal graph.Builder implementation serving as both the
// encoding/dot.Unmarshal destination and the encoding/dot.Marshal source,
// using dotNode/dotEdge so edge weight and node size survive the round
// trip as DOT attributes (gonum's simple.WeightedUndirectedGraph does not
// expose attribute hooks on its own edge type).
type dotGraph struct {
	directed bool
	nextID   int64
	nodes    map[int64]*dotNode
	adj      map[int64]map[int64]*dotEdge
}

func newDotGraph(directed bool) *dotGraph {
	return &dotGraph{
		directed: directed,
		nodes:    make(map[int64]*dotNode),
		adj:      make(map[int64]map[int64]*dotEdge),
	}
}

func (g *dotGraph) NewNode() graph.Node {
	id := g.nextID
	g.nextID++
	return &dotNode{id: id, size: 1}
}

func (g *dotGraph) AddNode(n graph.Node) {
	dn := n.(*dotNode)
	g.nodes[dn.ID()] = dn
	if dn.ID() >= g.nextID {
		g.nextID = dn.ID() + 1
	}
	if g.adj[dn.ID()] == nil {
		g.adj[dn.ID()] = make(map[int64]*dotEdge)
	}
}

func (g *dotGraph) NewEdge(from, to graph.Node) graph.Edge {
	return &dotEdge{from: from.(*dotNode), to: to.(*dotNode), weight: 1}
}

func (g *dotGraph) SetEdge(e graph.Edge) {
	de, ok := e.(*dotEdge)
	if !ok {
		de = &dotEdge{from: e.From().(*dotNode), to: e.To().(*dotNode), weight: 1}
	}
	g.setDirected(de.from.ID(), de.to.ID(), de)
	if !g.directed {
		rev := &dotEdge{from: de.to, to: de.from, weight: de.weight}
		g.setDirected(de.to.ID(), de.from.ID(), rev)
	}
}

func (g *dotGraph) setDirected(from, to int64, e *dotEdge) {
	if g.adj[from] == nil {
		g.adj[from] = make(map[int64]*dotEdge)
	}
	g.adj[from][to] = e
}

// graph.Graph surface, needed because graph.Builder embeds graph.Graph
// and encoding/dot.Marshal reads the source through it.

func (g *dotGraph) Node(id int64) graph.Node {
	if n, ok := g.nodes[id]; ok {
		return n
	}
	return nil
}

func (g *dotGraph) Nodes() graph.Nodes {
	ns := make([]graph.Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		ns = append(ns, n)
	}
	return iterator.NewOrderedNodes(ns)
}

func (g *dotGraph) From(id int64) graph.Nodes {
	neighbors := g.adj[id]
	ns := make([]graph.Node, 0, len(neighbors))
	for to := range neighbors {
		ns = append(ns, g.nodes[to])
	}
	return iterator.NewOrderedNodes(ns)
}

func (g *dotGraph) HasEdgeBetween(xid, yid int64) bool {
	if _, ok := g.adj[xid][yid]; ok {
		return true
	}
	_, ok := g.adj[yid][xid]
	return ok
}

func (g *dotGraph) Edge(uid, vid int64) graph.Edge {
	if e, ok := g.adj[uid][vid]; ok {
		return e
	}
	return nil
}

func (g *dotGraph) WeightedEdge(uid, vid int64) graph.WeightedEdge {
	if e, ok := g.adj[uid][vid]; ok {
		return e
	}
	return nil
}

func (g *dotGraph) Weight(xid, yid int64) (w float64, ok bool) {
	if e, exists := g.adj[xid][yid]; exists {
		return e.weight, true
	}
	return 0, false
}

// edgesSlice returns every directed edge once (for directed graphs) or
// every unordered pair once (for undirected), used by the graphadapter
// bridge in dot.go.
func (g *dotGraph) edgesSlice() []*dotEdge {
	var out []*dotEdge
	seen := make(map[[2]int64]bool)
	for from, row := range g.adj {
		for to, e := range row {
			if !g.directed {
				lo, hi := from, to
				if lo > hi {
					lo, hi = hi, lo
				}
				key := [2]int64{lo, hi}
				if seen[key] {
					continue
				}
				seen[key] = true
			}
			out = append(out, e)
		}
	}
	return out
}
