// Package cluster is the public facade spec.md §6 names: detectClusters,
// evaluateQuality, and the Clusters result type. It wires together
// internal/graphadapter, internal/louvain, internal/refine,
// internal/coarsen, and internal/quality, mirroring the teacher's
// pkg/clustering split between the engine internals and a stable caller
// surface.
package cluster

import (
	"github.com/rs/zerolog"

	"github.com/gilchrisn/communitygo/internal/cgerrors"
	"github.com/gilchrisn/communitygo/internal/coarsen"
	"github.com/gilchrisn/communitygo/internal/graphadapter"
	"github.com/gilchrisn/communitygo/internal/louvain"
	"github.com/gilchrisn/communitygo/internal/quality"
	"github.com/gilchrisn/communitygo/internal/refine"
)

// Clusters is the result of DetectClusters: a final node->community
// membership over the original graph's node ids, plus the quality score
// and run metadata spec.md §6's toJSON() shape exposes.
type Clusters struct {
	graph      *graphadapter.Graph
	membership []int // original dense index -> final community id
	levels     int
	quality    float64
	opts       louvain.Options
}

// DetectClusters runs the full multi-level pipeline (spec.md §4.7) over a
// prebuilt graph and returns its Clusters.
func DetectClusters(g *graphadapter.Graph, opts louvain.Options, logger zerolog.Logger) (*Clusters, error) {
	result, err := louvain.Run(g, opts, refine.Run, coarsen.Coarsen, logger)
	if err != nil {
		return nil, err
	}

	membership := make([]int, g.N)
	for i := 0; i < g.N; i++ {
		membership[i] = result.OriginalToCurrent[i]
	}

	q := quality.Global(result.FinalPartition, opts.Kind, opts.Directed, opts.Resolution, opts.CPMMode)

	return &Clusters{
		graph:      g,
		membership: membership,
		levels:     len(result.Levels),
		quality:    q,
		opts:       opts,
	}, nil
}

// GetClass returns the community id assigned to nodeID, and whether the id
// was found in the graph (spec.md §6: "getClass(nodeId)").
func (c *Clusters) GetClass(nodeID interface{}) (int, bool) {
	idx, ok := c.graph.IndexOf(nodeID)
	if !ok {
		return 0, false
	}
	return c.membership[idx], true
}

// GetCommunities returns every community id mapped to its member node ids,
// in original (pre-dense-indexing) id form (spec.md §6:
// "getCommunities() (community id → node id list)").
func (c *Clusters) GetCommunities() map[int][]interface{} {
	out := make(map[int][]interface{})
	for i, comm := range c.membership {
		out[comm] = append(out[comm], c.graph.IDAt(i))
	}
	return out
}

// Quality returns the final partition's quality score under the options
// the run used (spec.md §6: "quality()").
func (c *Clusters) Quality() float64 { return c.quality }

// Levels returns how many outer-driver levels the run produced.
func (c *Clusters) Levels() int { return c.levels }

// Membership returns the raw dense-index membership slice, for callers
// (iogv, the CLI) that need positional access without id round-tripping.
func (c *Clusters) Membership() []int { return c.membership }

// Graph returns the graph the clusters were computed over.
func (c *Clusters) Graph() *graphadapter.Graph { return c.graph }

// EvaluateQuality scores an externally supplied node->community membership
// (keyed by the graph's raw node ids) under the given objective, per
// spec.md §4.3's edge-scan evaluator and §6's evaluateQuality interface.
// strict mode fails fast with MissingMembership for any node absent from
// membership; non-strict treats absent nodes as singleton communities.
func EvaluateQuality(g *graphadapter.Graph, membership map[interface{}]int, opts quality.EvaluateOptions) (float64, error) {
	resolved := make(map[int]int, len(membership))
	for id, comm := range membership {
		idx, ok := g.IndexOf(id)
		if !ok {
			continue
		}
		resolved[idx] = comm
	}

	if opts.Strict {
		for i := 0; i < g.N; i++ {
			if _, ok := resolved[i]; !ok {
				return 0, &cgerrors.MissingMembership{NodeID: g.IDAt(i)}
			}
		}
	}

	return quality.Evaluate(g, resolved, opts), nil
}
