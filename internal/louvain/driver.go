package louvain

import (
	"github.com/gilchrisn/communitygo/internal/graphadapter"
	"github.com/gilchrisn/communitygo/internal/partition"
	"github.com/gilchrisn/communitygo/internal/rng"
	"github.com/rs/zerolog"
)

// RefineFunc runs Leiden-style refinement (spec §4.5) over coarse's graph
// and returns the refined partition. The driver takes this as a parameter
// rather than importing internal/refine directly, since refine itself
// builds on RunLocalMoveLoop from this package — injecting the dependency
// here keeps the two packages acyclic.
type RefineFunc func(coarse *partition.Partition, opts Options, r *rng.Source, fixed map[int]bool) *partition.Partition

// CoarsenFunc contracts a partition's communities into the next level's
// graph (spec §4.6). The driver takes this as a parameter rather than
// importing internal/coarsen directly, for the same acyclic-dependency
// reason as RefineFunc: pass coarsen.Coarsen.
type CoarsenFunc func(g *graphadapter.Graph, p *partition.Partition) (*graphadapter.Graph, error)

// LevelResult records one outer-driver level's adapter and final partition,
// per spec §4.7's "Append {adapter, partition} to levels."
type LevelResult struct {
	Adapter   *graphadapter.Graph
	Partition *partition.Partition
	Refined   bool
}

// Result is the outer driver's full output (spec §4.7: "Emits: final
// graph, final partition, levels, originalToCurrent, original node id
// list").
type Result struct {
	FinalGraph        *graphadapter.Graph
	FinalPartition    *partition.Partition
	Levels            []LevelResult
	OriginalToCurrent []int
	OriginalIDs       []interface{}
}

// Run executes spec §4.7's multi-level loop: base is the finest-level
// graph (already built by graphadapter). fixed marks immobile nodes and
// applies only at the finest level, per spec §4.4/§4.5. refineFn is
// invoked once per level when opts.Refine is set; pass refine.Run.
// coarsenFn contracts communities between levels; pass coarsen.Coarsen.
func Run(base *graphadapter.Graph, opts Options, refineFn RefineFunc, coarsenFn CoarsenFunc, logger zerolog.Logger) (*Result, error) {
	r := rng.New(opts.RandomSeed)

	originalToCurrent := make([]int, base.N)
	for i := range originalToCurrent {
		originalToCurrent[i] = i
	}
	originalIDs := make([]interface{}, base.N)
	for i := 0; i < base.N; i++ {
		originalIDs[i] = base.IDAt(i)
	}

	current := base
	var levels []LevelResult

	for level := 0; level < opts.MaxLevels; level++ {
		p := partition.New(current)

		var fixed map[int]bool
		if level == 0 {
			fixed = opts.FixedNodes
		}

		RunLocalMoveLoop(p, opts, r, fixed, nil, opts.AllowNewCommunity)
		renumber(p, opts)

		refined := false
		effective := p
		if opts.Refine && refineFn != nil {
			refinedPartition := refineFn(p, opts, r, fixed)
			renumber(refinedPartition, opts)
			effective = refinedPartition
			refined = true
		}

		logger.Debug().
			Int("level", level).
			Int("nodes", current.N).
			Int("communities", effective.CommunityCount()).
			Bool("refined", refined).
			Msg("local-move level complete")

		levels = append(levels, LevelResult{Adapter: current, Partition: effective, Refined: refined})

		for i := range originalToCurrent {
			originalToCurrent[i] = effective.NodeCommunity(originalToCurrent[i])
		}

		if effective.CommunityCount() == current.N {
			break
		}

		nextGraph, err := coarsenFn(current, effective)
		if err != nil {
			return nil, err
		}
		current = nextGraph
	}

	if len(levels) == 0 {
		p := partition.New(base)
		renumber(p, opts)
		levels = append(levels, LevelResult{Adapter: base, Partition: p})
		current = base
	}

	final := levels[len(levels)-1].Partition
	return &Result{
		FinalGraph:        current,
		FinalPartition:    final,
		Levels:            levels,
		OriginalToCurrent: originalToCurrent,
		OriginalIDs:       originalIDs,
	}, nil
}

func renumber(p *partition.Partition, opts Options) {
	switch opts.PreserveLabels {
	case PreserveKeepOldOrder:
		p.CompactCommunityIds(partition.CompactKeepOldOrder, nil)
	case PreserveMap:
		p.CompactCommunityIds(partition.CompactPreserveMap, opts.PreserveLabelsMap)
	default:
		p.CompactCommunityIds(partition.CompactDefault, nil)
	}
}
