package chain

import (
	"math/big"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/require"

	"github.com/goodnatureofminers/factorcore/internal/consensus/model"
	"github.com/goodnatureofminers/factorcore/internal/consensus/params"
)

const baseTime = 1650443545

func testParams() *params.Params {
	p := params.RegTest
	p.GenesisHash = chainhash.Hash{}
	return &p
}

func linearTime(h int32) uint32 {
	return baseTime + uint32(h)*1800
}

type branchOpts struct {
	parent     *Node
	count      int
	branch     uint64
	factorBits uint
	timeOf     func(h int32) uint32
}

// extend appends count headers above opts.parent (or a new genesis when nil) and returns
// the new nodes in height order.
func extend(t *testing.T, idx *Index, opts branchOpts) []*Node {
	t.Helper()

	if opts.factorBits == 0 {
		opts.factorBits = 16
	}
	if opts.timeOf == nil {
		opts.timeOf = linearTime
	}

	var (
		prev   chainhash.Hash
		height int32
	)
	if opts.parent != nil {
		prev = opts.parent.Hash()
		height = opts.parent.Height() + 1
	}

	nodes := make([]*Node, 0, opts.count)
	for i := 0; i < opts.count; i++ {
		h := &model.BlockHeader{
			Version:   1,
			PrevBlock: prev,
			Time:      opts.timeOf(height),
			Bits:      32,
			Nonce:     opts.branch<<32 | uint64(height),
			P1:        new(big.Int).Lsh(big.NewInt(1), opts.factorBits-1),
		}
		n, err := idx.AddHeader(h)
		require.NoError(t, err)
		require.Equal(t, height, n.Height())
		nodes = append(nodes, n)
		prev = n.Hash()
		height++
	}
	return nodes
}
