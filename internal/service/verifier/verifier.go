// Package verifier follows a node's best chain and independently checks every header it serves.
package verifier

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/goodnatureofminers/factorcore/internal/clock"
	"github.com/goodnatureofminers/factorcore/internal/consensus/chain"
	"github.com/goodnatureofminers/factorcore/internal/consensus/model"
	"github.com/goodnatureofminers/factorcore/internal/consensus/params"
	"github.com/goodnatureofminers/factorcore/pkg/batcher"
	"github.com/goodnatureofminers/factorcore/pkg/safe"
	"github.com/goodnatureofminers/factorcore/pkg/workerpool"
)

// Config tunes the verifier. Zero fields take the package defaults.
type Config struct {
	WorkerCount   int
	FetchBatch    int
	PollInterval  time.Duration
	MaxReorgDepth int32
	Write         batcher.Config
}

func (c Config) withDefaults() Config {
	if c.WorkerCount < 1 {
		c.WorkerCount = defaultWorkerCount
	}
	if c.FetchBatch < 1 {
		c.FetchBatch = defaultFetchBatch
	}
	if c.PollInterval <= 0 {
		c.PollInterval = defaultPollInterval
	}
	if c.MaxReorgDepth < 1 {
		c.MaxReorgDepth = defaultMaxReorgDepth
	}
	if c.Write.Size < 1 {
		c.Write.Size = writeBatchSize
	}
	if c.Write.Interval <= 0 {
		c.Write.Interval = writeFlushInterval
	}
	if c.Write.RPS < 1 {
		c.Write.RPS = writeRPS
	}
	return c
}

// Service verifies the headers of one network.
type Service struct {
	logger  *zap.Logger
	params  *params.Params
	source  HeaderSource
	repo    Repository
	checker ProofChecker
	metrics Metrics
	cfg     Config
	wake    <-chan struct{}
	now     func() time.Time

	index  *chain.Index
	active *chain.Chain
	writer *batcher.Batcher[model.VerifiedHeader]

	// persisted is the highest stored height from an earlier run, -1 when none.
	persisted int64
	synced    atomic.Bool
}

// NewService builds a Service. wake is optional and shortens the idle wait when a new block is announced.
func NewService(
	logger *zap.Logger,
	p *params.Params,
	source HeaderSource,
	repo Repository,
	checker ProofChecker,
	metrics Metrics,
	cfg Config,
	wake <-chan struct{},
) (*Service, error) {
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	if p == nil {
		return nil, errors.New("params are required")
	}
	if source == nil {
		return nil, errors.New("header source is required")
	}
	if repo == nil {
		return nil, errors.New("repository is required")
	}
	if checker == nil {
		return nil, errors.New("proof checker is required")
	}
	if metrics == nil {
		return nil, errors.New("verifier metrics is required")
	}

	logger = logger.Named("verifier").With(zap.String("network", p.Network))
	cfg = cfg.withDefaults()

	return &Service{
		logger:    logger,
		params:    p,
		source:    source,
		repo:      repo,
		checker:   checker,
		metrics:   metrics,
		cfg:       cfg,
		wake:      wake,
		now:       time.Now,
		index:     chain.NewIndex(p),
		active:    &chain.Chain{},
		writer:    batcher.New(logger.Named("writer"), cfg.Write, repo.InsertVerifiedHeaders, nil),
		persisted: -1,
	}, nil
}

// Chain returns the verified active chain. It is safe for concurrent readers.
func (s *Service) Chain() *chain.Chain {
	return s.active
}

// Index returns every header the verifier has linked.
func (s *Service) Index() *chain.Index {
	return s.index
}

// Synced reports whether the last round reached the node's best height.
func (s *Service) Synced() bool {
	return s.synced.Load()
}

// Run follows the node until ctx is canceled or the node serves a chain of another network.
func (s *Service) Run(ctx context.Context) error {
	if err := s.loadPersisted(ctx); err != nil {
		return err
	}

	s.writer.Start(ctx)
	defer s.writer.Stop()

	backoff := clock.Backoff{Min: minBackoff, Max: maxBackoff}
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		caughtUp, err := s.sync(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if fatal(err) {
				s.logger.Error("verifier stopped", zap.Error(err))
				return err
			}
			d := backoff.Next()
			s.logger.Warn("sync round failed, backing off", zap.Error(err), zap.Duration("sleep", d))
			if err = clock.Wait(ctx, d, nil); err != nil {
				return err
			}
			continue
		}
		backoff.Reset()

		if caughtUp {
			if err = clock.Wait(ctx, s.cfg.PollInterval, s.wake); err != nil {
				return err
			}
		}
	}
}

func (s *Service) loadPersisted(ctx context.Context) error {
	height, found, err := s.repo.MaxHeight(ctx, s.params.Network)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}
	persisted, err := safe.Int64(height)
	if err != nil {
		return err
	}
	s.persisted = persisted
	s.logger.Info("resuming after stored verdicts", zap.Int64("stored_height", persisted))
	return nil
}

// sync runs one round: reconcile the tip with the node, then fetch and connect the next range.
func (s *Service) sync(ctx context.Context) (bool, error) {
	best, err := s.source.BestHeight(ctx)
	if err != nil {
		return false, err
	}
	if err = s.reconcileTip(ctx, best); err != nil {
		return false, err
	}

	from := s.active.Height() + 1
	if from > best {
		s.markSynced(true)
		return true, nil
	}
	to := best
	if span := int32(s.cfg.FetchBatch); to-from+1 > span {
		to = from + span - 1
	}

	heights := make([]int32, 0, to-from+1)
	for h := from; h <= to; h++ {
		heights = append(heights, h)
	}

	started := time.Now()
	headers, err := workerpool.Map(ctx, s.cfg.WorkerCount, heights, s.fetchAt)
	s.metrics.ObserveFetch(err, len(heights), started)
	if err != nil {
		return false, err
	}

	for _, f := range headers {
		if err = s.connect(ctx, f); err != nil {
			return false, err
		}
	}

	caughtUp := to >= best
	s.markSynced(caughtUp)
	if !caughtUp {
		s.logger.Info("verified range", zap.Int32("from", from), zap.Int32("to", to), zap.Int32("best", best))
	}
	return caughtUp, nil
}

func (s *Service) markSynced(v bool) {
	if s.synced.Swap(v) == v {
		return
	}
	if v {
		tip := s.active.Tip()
		if tip == nil {
			s.logger.Info("caught up with empty node chain")
			return
		}
		s.logger.Info("caught up with node",
			zap.Int32("height", tip.Height()),
			zap.Stringer("tip", tip.Hash()),
			zap.String("chain_work", tip.WorkSum().Text(16)),
		)
	}
}

func fatal(err error) bool {
	return errors.Is(err, chain.ErrNotGenesis) || errors.Is(err, ErrReorgTooDeep)
}
