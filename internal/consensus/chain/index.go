package chain

import (
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/goodnatureofminers/factorcore/internal/consensus/model"
	"github.com/goodnatureofminers/factorcore/internal/consensus/params"
)

var (
	// ErrUnknownParent is returned when a header's previous block is not indexed.
	ErrUnknownParent = errors.New("unknown parent")
	// ErrNotGenesis is returned for a parentless header that is not the network genesis.
	ErrNotGenesis = errors.New("parentless header is not genesis")
)

// Index is the append-only set of every header seen, keyed by block hash.
type Index struct {
	mu      sync.RWMutex
	genesis chainhash.Hash
	nodes   []*Node
	byHash  map[chainhash.Hash]NodeID
	best    NodeID
}

// NewIndex returns an empty index for the network. When p carries no genesis hash the
// first parentless header becomes genesis.
func NewIndex(p *params.Params) *Index {
	return &Index{
		genesis: p.GenesisHash,
		byHash:  make(map[chainhash.Hash]NodeID),
		best:    NoNode,
	}
}

// AddHeader links a header under its parent and returns its node. Headers already
// indexed return the existing node.
func (idx *Index) AddHeader(header *model.BlockHeader) (*Node, error) {
	hash := header.BlockHash()

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if id, ok := idx.byHash[hash]; ok {
		return idx.nodes[id], nil
	}

	n := &Node{
		index:  idx,
		id:     NodeID(len(idx.nodes)),
		parent: NoNode,
		skip:   NoNode,
		hash:   hash,
		header: *header,
	}
	if header.P1 != nil {
		n.header.P1 = new(big.Int).Set(header.P1)
	}
	proof := headerProof(&n.header)

	if header.PrevBlock == (chainhash.Hash{}) {
		if len(idx.nodes) > 0 || (idx.genesis != (chainhash.Hash{}) && hash != idx.genesis) {
			return nil, fmt.Errorf("%w: %s", ErrNotGenesis, hash)
		}
		n.workSum = proof
		n.timeMax = n.Time()
	} else {
		pid, ok := idx.byHash[header.PrevBlock]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownParent, header.PrevBlock)
		}
		parent := idx.nodes[pid]
		n.parent = pid
		n.height = parent.height + 1
		n.skip = parent.ancestor(skipHeight(n.height)).id
		n.workSum = proof.Add(proof, parent.workSum)
		n.timeMax = max(parent.timeMax, n.Time())
	}

	idx.nodes = append(idx.nodes, n)
	idx.byHash[hash] = n.id
	if idx.best == NoNode || n.workSum.Cmp(idx.nodes[idx.best].workSum) > 0 {
		idx.best = n.id
	}
	return n, nil
}

// LookupNode returns the node for hash or nil.
func (idx *Index) LookupNode(hash chainhash.Hash) *Node {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	id, ok := idx.byHash[hash]
	if !ok {
		return nil
	}
	return idx.nodes[id]
}

// HaveNode reports whether hash is indexed.
func (idx *Index) HaveNode(hash chainhash.Hash) bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	_, ok := idx.byHash[hash]
	return ok
}

// BestHeader returns the node with the most accumulated work. The first seen wins ties.
func (idx *Index) BestHeader() *Node {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.node(idx.best)
}

// Len returns the number of indexed headers.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.nodes)
}

func (idx *Index) node(id NodeID) *Node {
	if id == NoNode {
		return nil
	}
	return idx.nodes[id]
}
