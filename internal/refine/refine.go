// Package refine implements the Leiden-style refinement pass from spec
// §4.5: a fresh singleton partition re-optimized under the constraint that
// a node may only move into a refined community founded within its own
// macro (Louvain-level) community.
package refine

import (
	"github.com/gilchrisn/communitygo/internal/louvain"
	"github.com/gilchrisn/communitygo/internal/partition"
	"github.com/gilchrisn/communitygo/internal/rng"
)

// Run breaks overly-merged macro communities discovered by a greedy
// Louvain pass (coarse) into one or more refined communities on the same
// graph, per spec §4.5. allowNewCommunity is always ignored: no new
// singletons are created during refinement.
func Run(coarse *partition.Partition, opts louvain.Options, r *rng.Source, fixed map[int]bool) *partition.Partition {
	g := coarse.Graph()
	ref := partition.New(g)

	macro := make([]int, g.N)
	for i := 0; i < g.N; i++ {
		macro[i] = coarse.NodeCommunity(i)
	}
	// commMacro[c] tracks the macro id each refinement community id was
	// founded under; refinement communities start as singletons, so
	// commMacro[i] = macro[i] initially and only ever grows as moves
	// happen (moved nodes always join a community within their own macro
	// community, so commMacro never needs updating post-creation).
	commMacro := make([]int, g.N)
	copy(commMacro, macro)

	admit := func(c int) bool {
		if c >= len(commMacro) {
			return false // refinement never creates fresh singletons
		}
		v := ref.CurrentNode()
		return commMacro[c] == macro[v]
	}

	louvain.RunLocalMoveLoop(ref, opts, r, fixed, admit, false)
	return ref
}
