// Package partition implements the mutable community assignment the local
// move loop and refinement pass operate on (spec §3, §4.2). A Partition
// owns its arrays outright; it never aliases the graphadapter.Graph it was
// built from, which stays read-only for the Partition's lifetime.
package partition

import (
	"math"

	"github.com/gilchrisn/communitygo/internal/graphadapter"
)

// Partition holds per-node community assignment and per-community
// aggregates, plus scratch accumulators reused across node evaluations.
type Partition struct {
	g *graphadapter.Graph

	nodeCommunity []int
	q             int // communityCount, Q

	nodeCount     []int
	totalSize     []int
	internalEdge  []float64
	loopSum       []float64 // self-loop weight only, undoubled, for CPM's L_c
	totalStrength []float64 // undirected
	totalOut      []float64 // directed
	totalIn       []float64 // directed

	// scratch, rebuilt per accumulateNeighbors call
	neighborWeight []float64 // undirected
	outToC         []float64 // directed
	inFromC        []float64 // directed
	inCandidates   []bool
	candidates     []int
	curNode        int
	curOldC        int
}

// New creates a fresh partition with every node in its own singleton
// community, per spec §3's "Lifecycle" and §4.2's "Initial state".
func New(g *graphadapter.Graph) *Partition {
	n := g.N
	p := &Partition{
		g:             g,
		nodeCommunity: make([]int, n),
		q:             n,
		nodeCount:     make([]int, n),
		totalSize:     make([]int, n),
		internalEdge:  make([]float64, n),
		loopSum:       make([]float64, n),
		inCandidates:  make([]bool, n),
	}
	if g.Directed {
		p.totalOut = make([]float64, n)
		p.totalIn = make([]float64, n)
		p.outToC = make([]float64, n)
		p.inFromC = make([]float64, n)
	} else {
		p.totalStrength = make([]float64, n)
		p.neighborWeight = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		p.nodeCommunity[i] = i
		p.nodeCount[i] = 1
		p.totalSize[i] = g.Size[i]
		p.internalEdge[i] = g.Loop[i]
		p.loopSum[i] = g.Loop[i]
		if g.Directed {
			p.totalOut[i] = g.KOut[i]
			p.totalIn[i] = g.KInAt(i)
		} else {
			p.totalStrength[i] = g.KOut[i]
		}
	}
	return p
}

// Graph returns the graph this partition was built over.
func (p *Partition) Graph() *graphadapter.Graph { return p.g }

// CommunityCount returns Q, the current number of community slots (some
// may be empty).
func (p *Partition) CommunityCount() int { return p.q }

// NodeCommunity returns the current community id of node v.
func (p *Partition) NodeCommunity(v int) int { return p.nodeCommunity[v] }

// TotalSize returns totalSize[c], or 0 for a not-yet-created slot (c ==
// CommunityCount() under allowNewCommunity, before the move that would
// appendSlot has actually happened).
func (p *Partition) TotalSize(c int) int {
	if c >= len(p.totalSize) {
		return 0
	}
	return p.totalSize[c]
}

// NodeCount returns nodeCount[c], or 0 for a not-yet-created slot.
func (p *Partition) NodeCount(c int) int {
	if c >= len(p.nodeCount) {
		return 0
	}
	return p.nodeCount[c]
}

// InternalEdgeWeight returns internalEdgeWeight[c], or 0 for a not-yet-created slot.
func (p *Partition) InternalEdgeWeight(c int) float64 {
	if c >= len(p.internalEdge) {
		return 0
	}
	return p.internalEdge[c]
}

// LoopWeight returns the self-loop weight summed over c's members, counted
// once per loop (never doubled), or 0 for a not-yet-created slot. CPM's L_c
// needs this separately from InternalEdgeWeight because the latter doubles
// undirected inter-node pairs but leaves self-loops singly counted.
func (p *Partition) LoopWeight(c int) float64 {
	if c >= len(p.loopSum) {
		return 0
	}
	return p.loopSum[c]
}

// TotalStrength returns totalStrength[c] (undirected mode), or 0 for a
// not-yet-created slot.
func (p *Partition) TotalStrength(c int) float64 {
	if c >= len(p.totalStrength) {
		return 0
	}
	return p.totalStrength[c]
}

// TotalOutStrength returns totalOutStrength[c] (directed mode), or 0 for a
// not-yet-created slot.
func (p *Partition) TotalOutStrength(c int) float64 {
	if c >= len(p.totalOut) {
		return 0
	}
	return p.totalOut[c]
}

// TotalInStrength returns totalInStrength[c] (directed mode), or 0 for a
// not-yet-created slot.
func (p *Partition) TotalInStrength(c int) float64 {
	if c >= len(p.totalIn) {
		return 0
	}
	return p.totalIn[c]
}

func (p *Partition) growIfNeeded(newQ int) {
	if newQ <= cap(p.nodeCount) {
		return
	}
	newCap := int(math.Ceil(float64(cap(p.nodeCount)) * 1.5))
	if newCap < newQ {
		newCap = newQ
	}
	grow := func(s []int) []int {
		g := make([]int, len(s), newCap)
		copy(g, s)
		return g
	}
	growF := func(s []float64) []float64 {
		g := make([]float64, len(s), newCap)
		copy(g, s)
		return g
	}
	p.nodeCount = grow(p.nodeCount)
	p.totalSize = grow(p.totalSize)
	p.internalEdge = growF(p.internalEdge)
	p.loopSum = growF(p.loopSum)
	if p.g.Directed {
		p.totalOut = growF(p.totalOut)
		p.totalIn = growF(p.totalIn)
		p.outToC = growF(p.outToC)
		p.inFromC = growF(p.inFromC)
	} else {
		p.totalStrength = growF(p.totalStrength)
		p.neighborWeight = growF(p.neighborWeight)
	}
	grown := make([]bool, len(p.inCandidates), newCap)
	copy(grown, p.inCandidates)
	p.inCandidates = grown
}

func (p *Partition) appendSlot() {
	p.growIfNeeded(p.q + 1)
	p.nodeCount = append(p.nodeCount, 0)
	p.totalSize = append(p.totalSize, 0)
	p.internalEdge = append(p.internalEdge, 0)
	p.loopSum = append(p.loopSum, 0)
	if p.g.Directed {
		p.totalOut = append(p.totalOut, 0)
		p.totalIn = append(p.totalIn, 0)
		p.outToC = append(p.outToC, 0)
		p.inFromC = append(p.inFromC, 0)
	} else {
		p.totalStrength = append(p.totalStrength, 0)
		p.neighborWeight = append(p.neighborWeight, 0)
	}
	p.inCandidates = append(p.inCandidates, false)
	p.q++
}

// clearScratch resets every candidate touched since the last
// accumulateNeighbors call; this is O(|prior candidates|), never O(N),
// per spec §3's "Scratch" and §5's resource-model guarantee.
func (p *Partition) clearScratch() {
	for _, c := range p.candidates {
		p.inCandidates[c] = false
		if p.g.Directed {
			p.outToC[c] = 0
			p.inFromC[c] = 0
		} else {
			p.neighborWeight[c] = 0
		}
	}
	p.candidates = p.candidates[:0]
}

func (p *Partition) touch(c int) {
	if !p.inCandidates[c] {
		p.inCandidates[c] = true
		p.candidates = append(p.candidates, c)
	}
}

// AccumulateNeighbors walks v's incident edges, building the per-candidate
// weight accumulators used by the delta formulas. v's own community is
// always touched so "stay" is a valid candidate, which is also what keeps
// deltaCPM's closed form correct (spec §9, open question (b)). Returns the
// candidate count.
func (p *Partition) AccumulateNeighbors(v int) int {
	p.clearScratch()
	p.curNode = v
	p.curOldC = p.nodeCommunity[v]
	p.touch(p.curOldC)

	for _, nb := range p.g.Out[v] {
		if nb.To == v {
			continue // self-loop handled by internal-weight bookkeeping, not as a "move target"
		}
		c := p.nodeCommunity[nb.To]
		p.touch(c)
		if p.g.Directed {
			p.outToC[c] += nb.W
		} else {
			p.neighborWeight[c] += nb.W
		}
	}
	if p.g.Directed {
		for _, nb := range p.g.In[v] {
			if nb.To == v {
				continue
			}
			c := p.nodeCommunity[nb.To]
			p.touch(c)
			p.inFromC[c] += nb.W
		}
	}
	return len(p.candidates)
}

// Candidates returns the community ids touched by the last
// AccumulateNeighbors call, including the node's current community.
func (p *Partition) Candidates() []int { return p.candidates }

// CurrentNode and CurrentCommunity expose the node/community the scratch
// buffers were last built for.
func (p *Partition) CurrentNode() int      { return p.curNode }
func (p *Partition) CurrentCommunity() int { return p.curOldC }

// NeighborWeight returns the undirected weight from the current node to
// community c, 0 if c was not touched.
func (p *Partition) NeighborWeight(c int) float64 {
	if c >= len(p.neighborWeight) {
		return 0
	}
	return p.neighborWeight[c]
}

// OutToC / InFromC return the directed weight from/to the current node and
// community c.
func (p *Partition) OutToC(c int) float64 {
	if c >= len(p.outToC) {
		return 0
	}
	return p.outToC[c]
}

func (p *Partition) InFromC(c int) float64 {
	if c >= len(p.inFromC) {
		return 0
	}
	return p.inFromC[c]
}

// MoveNodeToCommunity moves the node the scratch was built for (v) into
// newC. newC == CommunityCount() appends a fresh singleton slot. Returns
// false (a no-op) iff newC == the node's current community.
//
// Preconditions: AccumulateNeighbors(v) must have been called most
// recently with this v, so the scratch accumulators reflect v's edges.
func (p *Partition) MoveNodeToCommunity(v int, newC int) bool {
	oldC := p.nodeCommunity[v]
	if newC == p.q {
		p.appendSlot()
	}
	if newC == oldC {
		return false
	}

	sv := p.g.Size[v]
	selfLoop := p.g.Loop[v]

	if p.g.Directed {
		wOldOut, wOldIn := p.OutToC(oldC), p.InFromC(oldC)
		wNewOut, wNewIn := p.OutToC(newC), p.InFromC(newC)
		p.internalEdge[oldC] -= wOldOut + wOldIn + selfLoop
		p.internalEdge[newC] += wNewOut + wNewIn + selfLoop
		p.totalOut[oldC] -= p.g.KOut[v]
		p.totalIn[oldC] -= p.g.KInAt(v)
		p.totalOut[newC] += p.g.KOut[v]
		p.totalIn[newC] += p.g.KInAt(v)
	} else {
		wOld := p.NeighborWeight(oldC)
		wNew := p.NeighborWeight(newC)
		p.internalEdge[oldC] -= 2*wOld + selfLoop
		p.internalEdge[newC] += 2*wNew + selfLoop
		p.totalStrength[oldC] -= p.g.KOut[v]
		p.totalStrength[newC] += p.g.KOut[v]
	}

	p.loopSum[oldC] -= selfLoop
	p.loopSum[newC] += selfLoop
	p.nodeCount[oldC]--
	p.nodeCount[newC]++
	p.totalSize[oldC] -= sv
	p.totalSize[newC] += sv
	p.nodeCommunity[v] = newC
	return true
}

// CompactMode selects a compactCommunityIds renumbering policy (spec §4.2).
type CompactMode int

const (
	// CompactDefault sorts by (totalSize desc, nodeCount desc, oldId asc).
	CompactDefault CompactMode = iota
	// CompactKeepOldOrder renumbers ascending by old id (stable).
	CompactKeepOldOrder
	// CompactPreserveMap renumbers ascending by a caller-supplied
	// old-id -> rank map, nulls last, default order as tiebreak.
	CompactPreserveMap
)

// CompactCommunityIds eliminates empty slots and renumbers 0..Q'-1,
// rebuilding every aggregate with a single O(N+E) scan (spec §4.2). When
// mode is CompactPreserveMap, preserveMap supplies the old-id -> rank
// ordering; ids absent from preserveMap sort last.
func (p *Partition) CompactCommunityIds(mode CompactMode, preserveMap map[int]int) []int {
	nonEmpty := make([]int, 0, p.q)
	for c := 0; c < p.q; c++ {
		if p.nodeCount[c] > 0 {
			nonEmpty = append(nonEmpty, c)
		}
	}

	switch mode {
	case CompactKeepOldOrder:
		sortInts(nonEmpty)
	case CompactPreserveMap:
		sortByPreserveMap(nonEmpty, preserveMap, p.totalSize, p.nodeCount)
	default:
		sortByDefault(nonEmpty, p.totalSize, p.nodeCount)
	}

	oldToNew := make([]int, p.q)
	for newID, oldID := range nonEmpty {
		oldToNew[oldID] = newID
	}

	newN := len(nonEmpty)
	newNodeCommunity := make([]int, len(p.nodeCommunity))
	for v, oldC := range p.nodeCommunity {
		newNodeCommunity[v] = oldToNew[oldC]
	}

	p.nodeCommunity = newNodeCommunity
	p.q = newN
	p.rebuildAggregates()
	return oldToNew
}

// rebuildAggregates recomputes every per-community aggregate from
// nodeCommunity and the graph in one O(N+E) scan, per spec §4.2's
// "Rebuilds aggregates by a single O(N+E) scan."
func (p *Partition) rebuildAggregates() {
	n := p.q
	p.nodeCount = make([]int, n)
	p.totalSize = make([]int, n)
	p.internalEdge = make([]float64, n)
	p.loopSum = make([]float64, n)
	p.inCandidates = make([]bool, n)
	p.candidates = nil

	if p.g.Directed {
		p.totalOut = make([]float64, n)
		p.totalIn = make([]float64, n)
		p.outToC = make([]float64, n)
		p.inFromC = make([]float64, n)
	} else {
		p.totalStrength = make([]float64, n)
		p.neighborWeight = make([]float64, n)
	}

	for v := 0; v < p.g.N; v++ {
		c := p.nodeCommunity[v]
		p.nodeCount[c]++
		p.totalSize[c] += p.g.Size[v]
		if p.g.Directed {
			p.totalOut[c] += p.g.KOut[v]
			p.totalIn[c] += p.g.KInAt(v)
		} else {
			p.totalStrength[c] += p.g.KOut[v]
		}
	}

	pairSum := make([]float64, n)
	for v := 0; v < p.g.N; v++ {
		cv := p.nodeCommunity[v]
		p.internalEdge[cv] += p.g.Loop[v]
		p.loopSum[cv] += p.g.Loop[v]
		for _, nb := range p.g.Out[v] {
			if nb.To == v {
				continue
			}
			cw := p.nodeCommunity[nb.To]
			if cw == cv {
				pairSum[cv] += nb.W
			}
		}
	}
	// Undirected: Out[] stores each unordered pair {i,j} once per
	// endpoint, so scanning all members naturally accumulates 2w per
	// internal pair — the doubled convention spec §4.2's move operator
	// uses ("adds/subtracts 2·w_to_c"). Directed counts each internal
	// edge once, matching moveNodeToCommunity's outToC+inFromC update.
	for c := 0; c < n; c++ {
		p.internalEdge[c] += pairSum[c]
	}
}

// GetCommunityMembers returns, for each community 0..Q-1, the node indices
// currently assigned to it (spec §4.2).
func (p *Partition) GetCommunityMembers() [][]int {
	members := make([][]int, p.q)
	for v, c := range p.nodeCommunity {
		members[c] = append(members[c], v)
	}
	return members
}

func sortInts(s []int) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

func sortByPreserveMap(ids []int, m map[int]int, totalSize, nodeCount []int) {
	rank := func(id int) (int, bool) {
		r, ok := m[id]
		return r, ok
	}
	insertionSort(ids, func(a, b int) bool {
		ra, oka := rank(a)
		rb, okb := rank(b)
		if oka && okb && ra != rb {
			return ra < rb
		}
		if oka != okb {
			return oka // present ranks sort before absent ones
		}
		return defaultLess(a, b, totalSize, nodeCount)
	})
}

func sortByDefault(ids []int, totalSize, nodeCount []int) {
	insertionSort(ids, func(a, b int) bool {
		return defaultLess(a, b, totalSize, nodeCount)
	})
}

func defaultLess(a, b int, totalSize, nodeCount []int) bool {
	if totalSize[a] != totalSize[b] {
		return totalSize[a] > totalSize[b]
	}
	if nodeCount[a] != nodeCount[b] {
		return nodeCount[a] > nodeCount[b]
	}
	return a < b
}

func insertionSort(s []int, less func(a, b int) bool) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && less(s[j], s[j-1]); j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
