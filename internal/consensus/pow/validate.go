// Package pow implements the factoring proof of work: seed derivation, header validation,
// difficulty retargeting and a Pollard rho factor finder.
package pow

import (
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/goodnatureofminers/factorcore/internal/consensus/model"
	"github.com/goodnatureofminers/factorcore/internal/consensus/params"
)

// Rejection reasons. CheckProofOfWork wraps exactly one of them.
var (
	ErrBitsOutOfRange   = errors.New("semiprime bit length out of range")
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrSemiprimeSize    = errors.New("semiprime has wrong bit length")
	ErrFactorSize       = errors.New("factor has wrong bit length")
	ErrNotDivisor       = errors.New("factor does not divide semiprime")
	ErrFactorOrder      = errors.New("factor is not the smaller one")
	ErrCompositeFactor  = errors.New("composite factor")
)

var reasons = []struct {
	err   error
	label string
}{
	{ErrBitsOutOfRange, "bits_out_of_range"},
	{ErrOffsetOutOfRange, "offset_out_of_range"},
	{ErrSemiprimeSize, "semiprime_size"},
	{ErrFactorSize, "factor_size"},
	{ErrNotDivisor, "not_divisor"},
	{ErrFactorOrder, "factor_order"},
	{ErrCompositeFactor, "composite_factor"},
}

// ReasonAccepted labels a header that passed every check.
const ReasonAccepted = "accepted"

// RejectReason returns a stable label for a CheckProofOfWork result.
func RejectReason(err error) string {
	if err == nil {
		return ReasonAccepted
	}
	for _, r := range reasons {
		if errors.Is(err, r.err) {
			return r.label
		}
	}
	return "unknown"
}

// Proof is the arithmetic behind a proof-of-work verdict. Fields are nil for checks not reached.
type Proof struct {
	W  *big.Int
	N  *big.Int
	P1 *big.Int
	P2 *big.Int
}

// CheckProofOfWork returns nil when the header carries a valid factorization.
func CheckProofOfWork(h *model.BlockHeader, p *params.Params) error {
	_, err := EvaluateProofOfWork(h, p)
	return err
}

// EvaluateProofOfWork runs the checks cheapest first and stops at the first failure.
func EvaluateProofOfWork(h *model.BlockHeader, p *params.Params) (Proof, error) {
	var proof Proof

	bits := int(h.Bits)
	if bits == 0 || bits >= MaxBits {
		return proof, fmt.Errorf("%w: %d", ErrBitsOutOfRange, bits)
	}

	if h.WOffset == math.MinInt64 || abs(h.WOffset) > 16*int64(bits) {
		return proof, fmt.Errorf("%w: %d exceeds %d", ErrOffsetOutOfRange, h.WOffset, 16*bits)
	}

	proof.W = GHash(h, p.HashRounds)
	n := new(big.Int).Add(proof.W, big.NewInt(h.WOffset))
	proof.N = n
	if n.Sign() <= 0 || n.BitLen() != bits {
		return proof, fmt.Errorf("%w: %d bits, want %d", ErrSemiprimeSize, n.BitLen(), bits)
	}

	p1 := new(big.Int)
	if h.P1 != nil {
		p1.Set(h.P1)
	}
	proof.P1 = p1
	if want := (bits >> 1) + (bits & 1); p1.Sign() <= 0 || p1.BitLen() != want {
		return proof, fmt.Errorf("%w: %d bits, want %d", ErrFactorSize, p1.BitLen(), want)
	}

	p2, rem := new(big.Int).QuoRem(n, p1, new(big.Int))
	proof.P2 = p2
	if rem.Sign() != 0 {
		return proof, fmt.Errorf("%w: n=%s p1=%s", ErrNotDivisor, n, p1)
	}

	if p1.Cmp(p2) > 0 {
		return proof, fmt.Errorf("%w: p1=%s p2=%s", ErrFactorOrder, p1, p2)
	}

	if !IsProbablePrime(p1, p.MillerRabinRounds) {
		return proof, fmt.Errorf("%w: p1=%s", ErrCompositeFactor, p1)
	}
	if !IsProbablePrime(p2, p.MillerRabinRounds) {
		return proof, fmt.Errorf("%w: p2=%s", ErrCompositeFactor, p2)
	}
	return proof, nil
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
