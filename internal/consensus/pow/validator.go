package pow

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/goodnatureofminers/factorcore/internal/consensus/model"
	"github.com/goodnatureofminers/factorcore/internal/consensus/params"
)

// Validator checks headers against one network and reports each verdict.
type Validator struct {
	logger  *zap.Logger
	metrics Metrics
	params  *params.Params
}

// NewValidator constructs a Validator.
func NewValidator(logger *zap.Logger, metrics Metrics, p *params.Params) (*Validator, error) {
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	if metrics == nil {
		return nil, errors.New("metrics is required")
	}
	if p == nil {
		return nil, errors.New("params are required")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Validator{
		logger:  logger.Named("pow"),
		metrics: metrics,
		params:  p,
	}, nil
}

// Check evaluates the header proof of work. The returned error is a rejection reason.
func (v *Validator) Check(h *model.BlockHeader) (Proof, error) {
	started := time.Now()
	proof, err := EvaluateProofOfWork(h, v.params)
	v.metrics.ObserveCheck(RejectReason(err), started)

	hash := h.BlockHash()
	if err != nil {
		v.logger.Warn("proof of work rejected",
			zap.Stringer("hash", hash),
			zap.Uint16("bits", h.Bits),
			zap.Int64("offset", h.WOffset),
			zap.String("reason", RejectReason(err)),
			zap.Error(err),
		)
		return proof, err
	}

	v.logger.Debug("proof of work accepted",
		zap.Stringer("hash", hash),
		zap.Uint16("bits", h.Bits),
		zap.Stringer("w", proof.W),
		zap.Stringer("n", proof.N),
	)
	return proof, nil
}

// Params returns the network the validator checks against.
func (v *Validator) Params() *params.Params {
	return v.params
}
