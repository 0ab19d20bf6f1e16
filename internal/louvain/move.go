package louvain

import (
	"github.com/gilchrisn/communitygo/internal/partition"
	"github.com/gilchrisn/communitygo/internal/quality"
	"github.com/gilchrisn/communitygo/internal/rng"
)

const epsilon = 1e-12

// randomTrialBudget implements spec §4.4's "min(10, max(1, |candidates|))"
// rule for the random and random-neighbor strategies.
func randomTrialBudget(candidateCount int) int {
	b := candidateCount
	if b < 1 {
		b = 1
	}
	if b > 10 {
		b = 10
	}
	return b
}

// AdmissibleFunc reports whether community c may be evaluated as a move
// target for the node the partition's scratch was last built for. A nil
// function admits every candidate; refinement (spec §4.5) supplies one that
// restricts to the node's macro community.
type AdmissibleFunc func(c int) bool

// totalSizeOf returns totalSize[c], treating the not-yet-created fresh
// singleton slot (c == CommunityCount()) as size 0.
func totalSizeOf(p *partition.Partition, c int) int {
	if c >= p.CommunityCount() {
		return 0
	}
	return p.TotalSize(c)
}

// evalCandidate computes the quality-delta gain for moving the node the
// scratch was last built for into community c, honoring maxCommunitySize.
func evalCandidate(p *partition.Partition, opts Options, c int) (float64, bool) {
	if opts.MaxCommunitySize > 0 {
		v := p.CurrentNode()
		if totalSizeOf(p, c)+p.Graph().Size[v] > opts.MaxCommunitySize {
			return 0, false
		}
	}
	return quality.Delta(p, c, opts.Kind, opts.Directed, opts.Resolution), true
}

// RunLocalMoveLoop executes spec §4.4's per-level local-move loop against
// partition p. fixed marks immobile nodes (finest level only, per spec);
// pass nil to allow every node to move. admit restricts candidate
// admissibility for Leiden refinement; pass nil outside refinement.
func RunLocalMoveLoop(p *partition.Partition, opts Options, r *rng.Source, fixed map[int]bool, admit AdmissibleFunc, allowNewCommunity bool) (improved bool, totalMoves int) {
	n := p.Graph().N
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	r.ShuffleInts(order)

	for pass := 0; pass < opts.MaxLocalPasses; pass++ {
		passMoves := 0
		for _, v := range order {
			if fixed != nil && fixed[v] {
				continue
			}
			p.AccumulateNeighbors(v)
			oldC := p.CurrentCommunity()

			bestC := oldC
			bestGain := 0.0

			tryCandidate := func(c int) {
				if c == oldC {
					return
				}
				if admit != nil && !admit(c) {
					return
				}
				gain, ok := evalCandidate(p, opts, c)
				if !ok {
					return
				}
				if gain > bestGain {
					bestGain = gain
					bestC = c
				}
			}

			switch opts.CandidateStrategy {
			case StrategyAll:
				for c := 0; c < p.CommunityCount(); c++ {
					if p.NodeCount(c) > 0 {
						tryCandidate(c)
					}
				}
			case StrategyRandomAny:
				budget := randomTrialBudget(len(p.Candidates()))
				q := p.CommunityCount()
				for i := 0; i < budget; i++ {
					if q <= 0 {
						break
					}
					tryCandidate(r.IntN(q))
				}
			case StrategyRandomNeighbor:
				cands := p.Candidates()
				budget := randomTrialBudget(len(cands))
				for i := 0; i < budget; i++ {
					if len(cands) == 0 {
						break
					}
					tryCandidate(cands[r.IntN(len(cands))])
				}
			default: // StrategyNeighbors
				for _, c := range p.Candidates() {
					tryCandidate(c)
				}
			}

			if allowNewCommunity {
				tryCandidate(p.CommunityCount())
			}

			if bestGain > epsilon {
				p.MoveNodeToCommunity(v, bestC)
				passMoves++
				improved = true
			}
		}
		totalMoves += passMoves
		if passMoves == 0 {
			break
		}
	}
	return improved, totalMoves
}
