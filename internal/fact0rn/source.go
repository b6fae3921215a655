// Package fact0rn reads best-chain headers from a FACT0RN node over JSON-RPC.
package fact0rn

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"go.uber.org/ratelimit"

	"github.com/goodnatureofminers/factorcore/internal/consensus/model"
	"github.com/goodnatureofminers/factorcore/pkg/safe"
)

var (
	// ErrBlockNotFound is returned when the node does not know a block hash.
	ErrBlockNotFound = errors.New("block not found")
	// ErrHeightOutOfRange is returned when a height is above the node's best chain.
	ErrHeightOutOfRange = errors.New("block height out of range")
	// ErrHashMismatch is returned when a decoded header does not hash to the hash it was requested by.
	ErrHashMismatch = errors.New("header hash mismatch")
)

// Source serves headers of the node's best chain.
type Source struct {
	client  RPCClient
	limiter ratelimit.Limiter
}

// NewSource builds a Source issuing at most rps requests per second. rps <= 0 disables pacing.
func NewSource(client RPCClient, rps int) (*Source, error) {
	if client == nil {
		return nil, errors.New("rpc client is required")
	}
	limiter := ratelimit.NewUnlimited()
	if rps > 0 {
		limiter = ratelimit.New(rps)
	}
	return &Source{client: client, limiter: limiter}, nil
}

// BestHeight returns the height of the node's best chain.
func (s *Source) BestHeight(ctx context.Context) (int32, error) {
	if err := s.take(ctx); err != nil {
		return 0, err
	}
	count, err := s.client.GetBlockCount()
	if err != nil {
		return 0, fmt.Errorf("get block count: %w", classify(err))
	}
	height, err := safe.Int32(count)
	if err != nil {
		return 0, fmt.Errorf("block count: %w", err)
	}
	return height, nil
}

// HashAt returns the best-chain hash at height.
func (s *Source) HashAt(ctx context.Context, height int32) (chainhash.Hash, error) {
	if err := s.take(ctx); err != nil {
		return chainhash.Hash{}, err
	}
	hash, err := s.client.GetBlockHash(int64(height))
	if err != nil {
		return chainhash.Hash{}, fmt.Errorf("get block hash %d: %w", height, classify(err))
	}
	if hash == nil {
		return chainhash.Hash{}, fmt.Errorf("get block hash %d: %w", height, ErrBlockNotFound)
	}
	return *hash, nil
}

// Header fetches and decodes the header of hash. The decoded header must hash back to hash.
func (s *Source) Header(ctx context.Context, hash chainhash.Hash) (*model.BlockHeader, error) {
	if err := s.take(ctx); err != nil {
		return nil, err
	}

	hashParam, err := json.Marshal(hash.String())
	if err != nil {
		return nil, fmt.Errorf("marshal hash: %w", err)
	}
	verboseParam, err := json.Marshal(false)
	if err != nil {
		return nil, fmt.Errorf("marshal verbose flag: %w", err)
	}

	res, err := s.client.RawRequest("getblockheader", []json.RawMessage{hashParam, verboseParam})
	if err != nil {
		return nil, fmt.Errorf("get block header %s: %w", hash, classify(err))
	}

	var raw string
	if err = json.Unmarshal(res, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal block header %s: %w", hash, err)
	}
	header, err := model.ParseHeaderHex(raw)
	if err != nil {
		return nil, fmt.Errorf("parse block header %s: %w", hash, err)
	}
	if got := header.BlockHash(); got != hash {
		return nil, fmt.Errorf("%w: requested %s, decoded %s", ErrHashMismatch, hash, got)
	}
	return header, nil
}

func (s *Source) take(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.limiter.Take()
	return ctx.Err()
}

func classify(err error) error {
	var rpcErr *btcjson.RPCError
	if !errors.As(err, &rpcErr) {
		return err
	}
	switch rpcErr.Code {
	case btcjson.ErrRPCBlockNotFound:
		return fmt.Errorf("%w: %w", ErrBlockNotFound, err)
	case btcjson.ErrRPCInvalidParameter:
		return fmt.Errorf("%w: %w", ErrHeightOutOfRange, err)
	default:
		return err
	}
}
