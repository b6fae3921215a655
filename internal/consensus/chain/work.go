package chain

import (
	"math"
	"math/big"

	"github.com/goodnatureofminers/factorcore/internal/consensus/model"
	"github.com/goodnatureofminers/factorcore/internal/consensus/params"
)

// minWorkFactorBits is the smallest factor size credited with any work.
const minWorkFactorBits = 16

// WorkForFactorBits maps the bit length of the smaller factor to block work:
// with a = sqrt(2·b·log2 b), work = 2^floor(a) + floor(1024·frac(a))·2^(floor(a)-11).
func WorkForFactorBits(bits int) *big.Int {
	if bits < minWorkFactorBits {
		return new(big.Int)
	}

	b := float64(bits)
	a := math.Sqrt(2 * b * math.Log2(b))
	aInt := math.Floor(a)
	aFra := a - aInt

	shift := uint(aInt)
	tail := big.NewInt(int64(math.Floor(1024 * aFra)))
	work := new(big.Int).Lsh(big.NewInt(1), shift)
	return work.Add(work, tail.Lsh(tail, shift-11))
}

// BlockProof returns the work credited to a single block.
func BlockProof(n *Node) *big.Int {
	return headerProof(&n.header)
}

func headerProof(h *model.BlockHeader) *big.Int {
	if h.P1 == nil {
		return new(big.Int)
	}
	return WorkForFactorBits(h.P1.BitLen())
}

// ProofEquivalentTime expresses the work between from and to as seconds of mining at
// the rate of tip. The result keeps the sign of to - from and saturates at math.MaxInt64.
func ProofEquivalentTime(to, from, tip *Node, p *params.Params) int64 {
	proof := BlockProof(tip)
	if proof.Sign() == 0 {
		return 0
	}

	r := new(big.Int).Sub(to.workSum, from.workSum)
	sign := int64(1)
	if r.Sign() < 0 {
		sign = -1
		r.Neg(r)
	}

	r.Mul(r, big.NewInt(p.TargetSpacing))
	r.Quo(r, proof)
	if r.BitLen() > 63 {
		return sign * math.MaxInt64
	}
	return sign * r.Int64()
}
