package louvain

import "github.com/gilchrisn/communitygo/internal/quality"

// CandidateStrategy selects how candidate move targets are enumerated for
// a node during the local-move loop (spec §4.4, §6).
type CandidateStrategy int

const (
	// StrategyNeighbors considers only communities touched by the node's
	// incident edges (accumulateNeighbors' candidate list).
	StrategyNeighbors CandidateStrategy = iota
	// StrategyAll considers every non-empty community slot.
	StrategyAll
	// StrategyRandomAny draws trial communities uniformly from 0..Q.
	StrategyRandomAny
	// StrategyRandomNeighbor draws trials from the accumulated neighbor
	// candidate list (with replacement).
	StrategyRandomNeighbor
)

// PreserveLabels selects the compactCommunityIds renumbering policy a run
// uses after each local-move phase (spec §6's preserveLabels option).
type PreserveLabels int

const (
	PreserveDefault PreserveLabels = iota
	PreserveKeepOldOrder
	PreserveMap
)

// Options configures a full outer-driver run, mirroring spec §6's Options
// table one field per row.
type Options struct {
	Kind              quality.Kind
	Resolution        float64
	Directed          bool
	RandomSeed        int64
	CandidateStrategy CandidateStrategy
	AllowNewCommunity bool
	MaxCommunitySize  int // 0 means unbounded
	Refine            bool
	FixedNodes        map[int]bool
	PreserveLabels    PreserveLabels
	PreserveLabelsMap map[int]int
	CPMMode           quality.CPMMode
	MaxLevels         int
	MaxLocalPasses    int
}

// DefaultOptions returns the spec §6 Options table's bracketed defaults.
func DefaultOptions() Options {
	return Options{
		Kind:              quality.Modularity,
		Resolution:        1.0,
		Directed:          false,
		RandomSeed:        42,
		CandidateStrategy: StrategyNeighbors,
		AllowNewCommunity: false,
		MaxCommunitySize:  0,
		Refine:            true,
		PreserveLabels:    PreserveDefault,
		CPMMode:           quality.CPMUnit,
		MaxLevels:         50,
		MaxLocalPasses:    20,
	}
}
