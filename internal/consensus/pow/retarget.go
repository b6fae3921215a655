package pow

import (
	"github.com/goodnatureofminers/factorcore/internal/consensus/chain"
	"github.com/goodnatureofminers/factorcore/internal/consensus/params"
)

// Retarget bands on the share of the target timespan a window consumed. The constants are
// single precision and compared after widening.
var (
	easierAbove = float64(float32(1.0333))
	harderBelow = float64(float32(0.90))
)

// NextWorkRequired returns the bit length required of the block following last.
func NextWorkRequired(last *chain.Node, blockTime int64, p *params.Params) uint16 {
	if last == nil {
		panic("pow: next work without a previous block")
	}

	interval := p.DifficultyAdjustmentInterval()
	if (int64(last.Height())+1)%interval != 0 {
		if !p.AllowMinDifficultyBlocks {
			return last.Bits()
		}
		if blockTime > last.Time()+2*p.TargetSpacing {
			return p.PowLimit
		}
		// last block not mined under the min-difficulty exemption
		n := last
		for n.Height() > 0 && int64(n.Height())%interval != 0 && n.Bits() == p.PowLimit {
			n = n.Parent()
		}
		return n.Bits()
	}

	first := last.Ancestor(last.Height() - int32(interval-1))
	if first == nil {
		panic("pow: retarget window starts below genesis")
	}
	return CalculateNextWorkRequired(last, first.Time(), p)
}

// CalculateNextWorkRequired moves the bit length by one when the window ending at last ran
// outside the band around the target timespan.
func CalculateNextWorkRequired(last *chain.Node, firstTime int64, p *params.Params) uint16 {
	if p.NoRetargeting {
		return last.Bits()
	}

	consumed := float64(last.Time()-firstTime) / float64(p.TargetTimespan)
	switch {
	case consumed < harderBelow:
		return last.Bits() + 1
	case consumed > easierAbove:
		return last.Bits() - 1
	}
	return last.Bits()
}
