package verifier

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/factorcore/internal/consensus/chain"
	"github.com/goodnatureofminers/factorcore/internal/consensus/model"
	"github.com/goodnatureofminers/factorcore/internal/consensus/pow"
	"github.com/goodnatureofminers/factorcore/pkg/bignum"
	"github.com/goodnatureofminers/factorcore/pkg/safe"
)

var (
	// ErrBadBits marks a header whose nBits differs from the retarget result.
	ErrBadBits = errors.New("unexpected semiprime bit length")
	// ErrTimeTooOld marks a header not later than the median time past of its parent.
	ErrTimeTooOld = errors.New("header time not after median time past")
	// ErrTimeTooNew marks a header too far in the future.
	ErrTimeTooNew = errors.New("header time too far in the future")
	// ErrReorgTooDeep is returned when the node's chain forks below the configured depth.
	ErrReorgTooDeep = errors.New("reorganization deeper than allowed")
)

const (
	reasonBadBits    = "bad_bits"
	reasonTimeTooOld = "time_too_old"
	reasonTimeTooNew = "time_too_new"
)

type fetched struct {
	hash     chainhash.Hash
	header   *model.BlockHeader
	proofErr error
}

func (s *Service) fetchAt(ctx context.Context, height int32) (fetched, error) {
	hash, err := s.source.HashAt(ctx, height)
	if err != nil {
		return fetched{}, err
	}
	return s.fetchHash(ctx, hash)
}

func (s *Service) fetchHash(ctx context.Context, hash chainhash.Hash) (fetched, error) {
	header, err := s.source.Header(ctx, hash)
	if err != nil {
		return fetched{}, err
	}
	_, proofErr := s.checker.Check(header)
	return fetched{hash: hash, header: header, proofErr: proofErr}, nil
}

// reconcileTip compares the active tip with the node's chain and links the node's branch when they differ.
func (s *Service) reconcileTip(ctx context.Context, best int32) error {
	tip := s.active.Tip()
	if tip == nil || best < 0 {
		return nil
	}
	height := min(best, tip.Height())
	nodeHash, err := s.source.HashAt(ctx, height)
	if err != nil {
		return err
	}
	if ours := s.active.At(height); ours != nil && ours.Hash() == nodeHash {
		return nil
	}

	s.logger.Info("node switched branch",
		zap.Int32("height", height),
		zap.Stringer("node_hash", nodeHash),
		zap.Stringer("tip", tip.Hash()),
	)
	f, err := s.fetchHash(ctx, nodeHash)
	if err != nil {
		return err
	}
	if err = s.connect(ctx, f); err != nil {
		return err
	}

	// The node's tip is not above ours, so its branch wins even without more work.
	if node := s.index.LookupNode(nodeHash); node != nil && best <= tip.Height() && !s.active.Contains(node) {
		s.switchTo(node)
	}
	return nil
}

// connect links a fetched header, pulling in any missing ancestors first.
func (s *Service) connect(ctx context.Context, f fetched) error {
	if node := s.index.LookupNode(f.hash); node != nil {
		s.activate(node)
		return nil
	}
	if f.header.PrevBlock != (chainhash.Hash{}) && !s.index.HaveNode(f.header.PrevBlock) {
		if err := s.connectAncestors(ctx, f.header.PrevBlock); err != nil {
			return err
		}
	}
	return s.link(ctx, f)
}

// connectAncestors walks back from hash to the first indexed header and links the gap oldest first.
func (s *Service) connectAncestors(ctx context.Context, hash chainhash.Hash) error {
	var missing []fetched
	for hash != (chainhash.Hash{}) && !s.index.HaveNode(hash) {
		if int32(len(missing)) >= s.cfg.MaxReorgDepth {
			return fmt.Errorf("%w: no known ancestor within %d headers", ErrReorgTooDeep, s.cfg.MaxReorgDepth)
		}
		f, err := s.fetchHash(ctx, hash)
		if err != nil {
			return err
		}
		missing = append(missing, f)
		hash = f.header.PrevBlock
	}

	for i := len(missing) - 1; i >= 0; i-- {
		if err := s.link(ctx, missing[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) link(ctx context.Context, f fetched) error {
	parent := s.index.LookupNode(f.header.PrevBlock)
	reason := pow.RejectReason(f.proofErr)
	if f.proofErr == nil {
		if err := s.checkContext(parent, f.header); err != nil {
			reason = contextReason(err)
			f.proofErr = err
		}
	}

	node, err := s.index.AddHeader(f.header)
	if err != nil {
		return fmt.Errorf("index header %s: %w", f.hash, err)
	}

	s.metrics.ObserveVerdict(reason)
	if f.proofErr != nil {
		s.logger.Error("header rejected",
			zap.Int32("height", node.Height()),
			zap.Stringer("hash", node.Hash()),
			zap.String("reason", reason),
			zap.Error(f.proofErr),
		)
	}

	s.activate(node)
	return s.record(ctx, node, reason)
}

// checkContext applies the rules that depend on the parent: retarget result and timestamp bounds.
func (s *Service) checkContext(parent *chain.Node, h *model.BlockHeader) error {
	if parent == nil {
		return nil
	}
	blockTime := int64(h.Time)
	if want := pow.NextWorkRequired(parent, blockTime, s.params); h.Bits != want {
		return fmt.Errorf("%w: got %d, want %d", ErrBadBits, h.Bits, want)
	}
	if mtp := parent.CalcPastMedianTime().Unix(); blockTime <= mtp {
		return fmt.Errorf("%w: %d <= %d", ErrTimeTooOld, blockTime, mtp)
	}
	if limit := s.now().Add(maxFutureBlockTime).Unix(); blockTime > limit {
		return fmt.Errorf("%w: %d > %d", ErrTimeTooNew, blockTime, limit)
	}
	return nil
}

func contextReason(err error) string {
	switch {
	case errors.Is(err, ErrBadBits):
		return reasonBadBits
	case errors.Is(err, ErrTimeTooOld):
		return reasonTimeTooOld
	case errors.Is(err, ErrTimeTooNew):
		return reasonTimeTooNew
	default:
		return pow.RejectReason(err)
	}
}

// activate moves the active chain to node when it carries more work than the current tip.
func (s *Service) activate(node *chain.Node) {
	tip := s.active.Tip()
	if tip != nil && node.WorkSum().Cmp(tip.WorkSum()) <= 0 {
		return
	}
	s.switchTo(node)
}

func (s *Service) switchTo(node *chain.Node) {
	if tip := s.active.Tip(); tip != nil {
		if fork := chain.LastCommonAncestor(tip, node); fork != tip {
			depth := tip.Height() - fork.Height()
			s.metrics.ObserveReorg(depth)
			s.logger.Warn("chain reorganization",
				zap.Int32("depth", depth),
				zap.Int32("fork_height", fork.Height()),
				zap.Stringer("fork", fork.Hash()),
				zap.Stringer("old_tip", tip.Hash()),
				zap.Stringer("new_tip", node.Hash()),
				zap.Int64("equivalent_time_seconds", chain.ProofEquivalentTime(node, tip, node, s.params)),
			)
		}
	}

	s.active.SetTip(node)
	s.metrics.SetTip(node.Height())
}

func (s *Service) record(ctx context.Context, node *chain.Node, reason string) error {
	if !s.synced.Load() && int64(node.Height()) <= s.persisted {
		return nil
	}

	height, err := safe.Uint64(node.Height())
	if err != nil {
		return err
	}
	h := node.Header()
	status := model.HeaderAccepted
	if reason != pow.ReasonAccepted {
		status = model.HeaderRejected
	}

	return s.writer.Add(ctx, model.VerifiedHeader{
		Network:    s.params.Network,
		Height:     height,
		Hash:       node.Hash().String(),
		PrevHash:   h.PrevBlock.String(),
		Timestamp:  time.Unix(int64(h.Time), 0).UTC(),
		Version:    h.Version,
		Bits:       h.Bits,
		Nonce:      h.Nonce,
		WOffset:    h.WOffset,
		P1:         hex.EncodeToString(bignum.Encode(h.P1)),
		ChainWork:  node.WorkSum().Text(16),
		Status:     status,
		Reason:     reason,
		VerifiedAt: s.now().UTC(),
	})
}
