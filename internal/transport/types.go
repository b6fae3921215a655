package transport

import (
	"context"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/goodnatureofminers/factorcore/internal/consensus/chain"
	"github.com/goodnatureofminers/factorcore/internal/consensus/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	ChainView interface {
		Tip() *chain.Node
		Locator(n *chain.Node) []chainhash.Hash
		FindEarliestAtLeast(t int64, height int32) *chain.Node
	}
	RejectionStore interface {
		RecentRejections(ctx context.Context, network string, limit uint64) ([]model.VerifiedHeader, error)
	}
	SyncState interface {
		Synced() bool
	}
)
