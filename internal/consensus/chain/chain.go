package chain

import (
	"sort"
	"sync"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// Chain is the array view of one branch, indexed by height. The zero value is an empty chain.
type Chain struct {
	mu    sync.RWMutex
	nodes []*Node
}

// SetTip makes n the tip. Entries shared with the previous branch are kept; everything
// above the fork is overwritten. A nil tip empties the chain.
func (c *Chain) SetTip(n *Node) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n == nil {
		c.nodes = nil
		return
	}

	size := int(n.height) + 1
	if size <= len(c.nodes) {
		clear(c.nodes[size:])
		c.nodes = c.nodes[:size]
	} else {
		c.nodes = append(c.nodes, make([]*Node, size-len(c.nodes))...)
	}

	for n != nil && c.nodes[n.height] != n {
		c.nodes[n.height] = n
		n = n.Parent()
	}
}

// Tip returns the highest node or nil when empty.
func (c *Chain) Tip() *Node {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tip()
}

// Genesis returns the node at height zero or nil when empty.
func (c *Chain) Genesis() *Node {
	return c.At(0)
}

// Height returns the tip height, -1 when empty.
func (c *Chain) Height() int32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return int32(len(c.nodes)) - 1
}

// At returns the node at height or nil when out of range.
func (c *Chain) At(height int32) *Node {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.at(height)
}

// Contains reports whether n is on this branch.
func (c *Chain) Contains(n *Node) bool {
	if n == nil {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.contains(n)
}

// Next returns the successor of n on this branch, nil when n is the tip or not contained.
func (c *Chain) Next(n *Node) *Node {
	if n == nil {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.contains(n) {
		return nil
	}
	return c.at(n.height + 1)
}

// Locator lists hashes from n back to genesis: ten single steps, then doubling gaps.
// A nil n starts at the tip.
func (c *Chain) Locator(n *Node) []chainhash.Hash {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if n == nil {
		n = c.tip()
	}

	step := int32(1)
	hashes := make([]chainhash.Hash, 0, 32)
	for n != nil {
		hashes = append(hashes, n.hash)
		if n.height == 0 {
			break
		}
		height := max(n.height-step, 0)
		if c.contains(n) {
			n = c.at(height)
		} else {
			n = n.Ancestor(height)
		}
		if len(hashes) > 10 {
			step *= 2
		}
	}
	return hashes
}

// FindFork returns the highest node shared by this branch and the branch ending at n.
func (c *Chain) FindFork(n *Node) *Node {
	if n == nil {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	if height := int32(len(c.nodes)) - 1; n.height > height {
		n = n.Ancestor(height)
	}
	for n != nil && !c.contains(n) {
		n = n.Parent()
	}
	return n
}

// FindEarliestAtLeast returns the first node with TimeMax >= t and height >= height.
func (c *Chain) FindEarliestAtLeast(t int64, height int32) *Node {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i := sort.Search(len(c.nodes), func(i int) bool {
		n := c.nodes[i]
		return n.timeMax >= t && n.height >= height
	})
	if i == len(c.nodes) {
		return nil
	}
	return c.nodes[i]
}

func (c *Chain) tip() *Node {
	if len(c.nodes) == 0 {
		return nil
	}
	return c.nodes[len(c.nodes)-1]
}

func (c *Chain) at(height int32) *Node {
	if height < 0 || int(height) >= len(c.nodes) {
		return nil
	}
	return c.nodes[height]
}

func (c *Chain) contains(n *Node) bool {
	return c.at(n.height) == n
}
