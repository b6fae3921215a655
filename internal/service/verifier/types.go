package verifier

import (
	"context"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/goodnatureofminers/factorcore/internal/consensus/model"
	"github.com/goodnatureofminers/factorcore/internal/consensus/pow"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	HeaderSource interface {
		BestHeight(ctx context.Context) (int32, error)
		HashAt(ctx context.Context, height int32) (chainhash.Hash, error)
		Header(ctx context.Context, hash chainhash.Hash) (*model.BlockHeader, error)
	}
	Repository interface {
		InsertVerifiedHeaders(ctx context.Context, headers []model.VerifiedHeader) error
		MaxHeight(ctx context.Context, network string) (uint64, bool, error)
	}
	ProofChecker interface {
		Check(h *model.BlockHeader) (pow.Proof, error)
	}
	Metrics interface {
		ObserveFetch(err error, headers int, started time.Time)
		ObserveVerdict(reason string)
		ObserveReorg(depth int32)
		SetTip(height int32)
	}
)
