// Package chain keeps the header index, the best-chain view and chain-work accounting.
//
// Nodes live in an append-only arena owned by an Index. Parent and skip links are arena
// positions fixed when a node is added, so traversal is safe while new headers arrive.
package chain

import (
	"math/big"
	"slices"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/goodnatureofminers/factorcore/internal/consensus/model"
)

// NodeID addresses a node inside its Index.
type NodeID int32

// NoNode marks an absent link.
const NoNode NodeID = -1

const medianTimeBlocks = 11

// Node is one known header together with its position in the header tree.
type Node struct {
	index  *Index
	id     NodeID
	parent NodeID
	skip   NodeID

	hash    chainhash.Hash
	height  int32
	header  model.BlockHeader
	workSum *big.Int
	timeMax int64
}

// ID returns the arena position of the node.
func (n *Node) ID() NodeID { return n.id }

// Hash returns the block hash.
func (n *Node) Hash() chainhash.Hash { return n.hash }

// Height returns the distance from genesis.
func (n *Node) Height() int32 { return n.height }

// Bits returns the semiprime bit length of the header.
func (n *Node) Bits() uint16 { return n.header.Bits }

// Time returns the header timestamp in unix seconds.
func (n *Node) Time() int64 { return int64(n.header.Time) }

// TimeMax returns the largest timestamp of the node and all its ancestors.
func (n *Node) TimeMax() int64 { return n.timeMax }

// WorkSum returns a copy of the accumulated chain work up to and including this node.
func (n *Node) WorkSum() *big.Int { return new(big.Int).Set(n.workSum) }

// Header returns a copy of the stored header.
func (n *Node) Header() model.BlockHeader {
	h := n.header
	if h.P1 != nil {
		h.P1 = new(big.Int).Set(h.P1)
	}
	return h
}

// Parent returns the previous node, or nil for genesis.
func (n *Node) Parent() *Node {
	n.index.mu.RLock()
	defer n.index.mu.RUnlock()
	return n.index.node(n.parent)
}

// Ancestor returns the ancestor at height, nil when height is negative or above the node.
func (n *Node) Ancestor(height int32) *Node {
	if n == nil {
		return nil
	}
	n.index.mu.RLock()
	defer n.index.mu.RUnlock()
	return n.ancestor(height)
}

// RelativeAncestor returns the ancestor distance blocks below the node.
func (n *Node) RelativeAncestor(distance int32) *Node {
	return n.Ancestor(n.height - distance)
}

// ancestor walks the skip list. The caller holds the index lock.
func (n *Node) ancestor(height int32) *Node {
	if height < 0 || height > n.height {
		return nil
	}

	nodes := n.index.nodes
	walk := n
	for walk.height > height {
		heightSkip := skipHeight(walk.height)
		heightSkipPrev := skipHeight(walk.height - 1)
		// only follow skip if parent's skip is not a better jump
		if walk.skip != NoNode &&
			(heightSkip == height ||
				(heightSkip > height && !(heightSkipPrev < heightSkip-2 && heightSkipPrev >= height))) {
			walk = nodes[walk.skip]
			continue
		}
		if walk.parent == NoNode {
			panic("chain: non-genesis node without parent")
		}
		walk = nodes[walk.parent]
	}
	return walk
}

// CalcPastMedianTime returns the median timestamp of the node and up to ten of its ancestors.
func (n *Node) CalcPastMedianTime() time.Time {
	n.index.mu.RLock()
	defer n.index.mu.RUnlock()

	timestamps := make([]int64, 0, medianTimeBlocks)
	for it := n; it != nil && len(timestamps) < medianTimeBlocks; it = n.index.node(it.parent) {
		timestamps = append(timestamps, it.Time())
	}
	slices.Sort(timestamps)
	return time.Unix(timestamps[len(timestamps)/2], 0)
}

func clearLowestBit(n int32) int32 {
	return n & (n - 1)
}

// skipHeight picks the height a node's skip link points to. Any height below h would be
// correct; this choice bounds walks to about 110 steps over 2^18 blocks.
func skipHeight(h int32) int32 {
	if h < 2 {
		return 0
	}
	if h&1 != 0 {
		return clearLowestBit(clearLowestBit(h-1)) + 1
	}
	return clearLowestBit(h)
}
