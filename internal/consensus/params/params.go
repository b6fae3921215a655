// Package params holds the consensus parameters of each FACT0RN network.
package params

import (
	"errors"
	"fmt"
	"math/big"
	"sort"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/goodnatureofminers/factorcore/internal/consensus/model"
)

var (
	// ErrUnknownNetwork is returned by ForNetwork for names without a parameter table.
	ErrUnknownNetwork = errors.New("unknown network")
	// ErrInvalidParams is returned by Validate.
	ErrInvalidParams = errors.New("invalid consensus params")
)

// Params are the read-only consensus rules of one network.
type Params struct {
	Network string

	// PowLimit is the smallest semiprime bit length a block may use.
	PowLimit uint16

	TargetSpacing  int64
	TargetTimespan int64

	AllowMinDifficultyBlocks bool
	NoRetargeting            bool

	MillerRabinRounds int
	HashRounds        int

	MinimumChainWork *big.Int
	GenesisHash      chainhash.Hash
	Genesis          model.BlockHeader
	DefaultPort      string
}

// DifficultyAdjustmentInterval returns the number of blocks between retargets.
func (p *Params) DifficultyAdjustmentInterval() int64 {
	return p.TargetTimespan / p.TargetSpacing
}

// Validate checks the invariants every consumer relies on.
func (p *Params) Validate() error {
	switch {
	case p.TargetSpacing <= 0:
		return fmt.Errorf("%w: target spacing %d", ErrInvalidParams, p.TargetSpacing)
	case p.TargetTimespan < p.TargetSpacing:
		return fmt.Errorf("%w: target timespan %d below spacing %d", ErrInvalidParams, p.TargetTimespan, p.TargetSpacing)
	case p.PowLimit == 0 || p.PowLimit >= 1024:
		return fmt.Errorf("%w: pow limit %d", ErrInvalidParams, p.PowLimit)
	case p.MillerRabinRounds < 1:
		return fmt.Errorf("%w: miller-rabin rounds %d", ErrInvalidParams, p.MillerRabinRounds)
	case p.HashRounds < 1:
		return fmt.Errorf("%w: hash rounds %d", ErrInvalidParams, p.HashRounds)
	}
	return nil
}

// ForNetwork returns the parameters registered under name.
func ForNetwork(name string) (*Params, error) {
	p, ok := networks[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNetwork, name)
	}
	return p, nil
}

// Networks lists the registered network names in sorted order.
func Networks() []string {
	names := make([]string, 0, len(networks))
	for name := range networks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
