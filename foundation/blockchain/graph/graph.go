// Package graph maintains the DAG of blocks and implements the fork choice
// rule that selects the winning chain. The graph tracks identity and
// topology only; it performs no event validation.
package graph

import (
	"errors"
	"slices"

	"github.com/ardanlabs/juliachain/foundation/blockchain/database"
)

// ErrWouldClobber is returned when a block with the same id but different
// content is already in the graph. Ids are content hashes, so this signals
// a hash collision and a broken uniqueness assumption.
var ErrWouldClobber = errors.New("different block with the same id already in the graph")

// Graph owns the mapping of block ids to blocks, the parent edges between
// them, and a cached winning chain. Each block names at most one parent,
// so the graph is a forest and at most one simple path connects any two
// blocks.
type Graph struct {
	blocks   map[database.BlockID]database.Block
	children map[database.BlockID][]database.BlockID
	chain    []database.Block
}

// New constructs an empty block graph.
func New() *Graph {
	return &Graph{
		blocks:   make(map[database.BlockID]database.Block),
		children: make(map[database.BlockID][]database.BlockID),
	}
}

// AddBlock inserts a block into the graph. Re-adding an identical block is
// an idempotent no-op. A different block under an existing id fails with
// ErrWouldClobber. Otherwise the node and its parent edge are recorded and
// the winning chain is brought up to date: appended in O(1) when the block
// extends the current tail, fully recomputed when the topology changed in
// a way that could alter the fork choice outcome.
func (g *Graph) AddBlock(block database.Block) error {
	if existing, exists := g.blocks[block.ID]; exists {
		if existing.Equal(block) {
			return nil
		}
		return ErrWouldClobber
	}

	g.blocks[block.ID] = block
	if block.Parent != nil {
		g.children[*block.Parent] = append(g.children[*block.Parent], block.ID)
	}

	// Fast path: the block extends the winning chain's tail and no orphan
	// children were registered under its id before it arrived. Orphans
	// would extend the chain further, which only the full recompute sees.
	if block.Parent != nil && len(g.chain) > 0 {
		if *block.Parent == g.chain[len(g.chain)-1].ID && len(g.children[block.ID]) == 0 {
			g.chain = append(g.chain, block)
			return nil
		}
	}

	chains := g.chains()
	if len(chains) == 0 {
		g.chain = nil
		return nil
	}
	g.chain = chains[0]

	return nil
}

// WinningChain returns a read-only snapshot of the winning chain, ordered
// root to leaf.
func (g *Graph) WinningChain() []database.Block {
	return slices.Clone(g.chain)
}

// Chains returns every root to leaf path in fork choice preference order:
// longest first, with ties broken toward the pair enumerated first when
// roots and leaves are each walked in ascending id order.
func (g *Graph) Chains() [][]database.Block {
	return g.chains()
}

// =============================================================================

// chains enumerates all root/leaf pairs in a fixed deterministic order and
// computes the unique simple path for each pair that is connected. The
// cost is O(roots x leaves x path length), which is acceptable for low
// fork-width workloads but is a known scalability limit of this rule.
func (g *Graph) chains() [][]database.Block {
	roots := g.rootIDs()
	leaves := g.leafIDs()

	var chains [][]database.Block
	for _, root := range roots {
		for _, leaf := range leaves {
			if path := g.path(root, leaf); path != nil {
				chains = append(chains, path)
			}
		}
	}

	// Stable, so equal lengths keep their enumeration order and the first
	// strictly longest path wins.
	slices.SortStableFunc(chains, func(a, b []database.Block) int {
		return len(b) - len(a)
	})

	return chains
}

// path walks parent pointers up from the leaf and returns the root to
// leaf path, or nil when the leaf's ancestry never reaches the root. An
// orphan whose parent was never inserted anchors no path.
func (g *Graph) path(rootID database.BlockID, leafID database.BlockID) []database.Block {
	current, exists := g.blocks[leafID]
	if !exists {
		return nil
	}

	var reversed []database.Block
	for {
		reversed = append(reversed, current)

		if current.ID == rootID {
			slices.Reverse(reversed)
			return reversed
		}

		if current.Parent == nil {
			return nil
		}

		parent, exists := g.blocks[*current.Parent]
		if !exists {
			return nil
		}
		current = parent
	}
}

// rootIDs returns the ids of all blocks with no parent in ascending order.
func (g *Graph) rootIDs() []database.BlockID {
	var ids []database.BlockID
	for id, block := range g.blocks {
		if block.Parent == nil {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)

	return ids
}

// leafIDs returns the ids of all blocks with no children in ascending order.
func (g *Graph) leafIDs() []database.BlockID {
	var ids []database.BlockID
	for id := range g.blocks {
		if len(g.children[id]) == 0 {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)

	return ids
}
