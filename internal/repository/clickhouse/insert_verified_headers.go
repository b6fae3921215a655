package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/factorcore/internal/consensus/model"
)

const insertVerifiedHeadersQuery = `
INSERT INTO verified_headers (
	network,
	height,
	hash,
	prev_hash,
	timestamp,
	version,
	bits,
	nonce,
	w_offset,
	p1,
	chain_work,
	status,
	reason,
	verified_at
) VALUES`

// InsertVerifiedHeaders stores header verdicts in ClickHouse.
func (r *Repository) InsertVerifiedHeaders(ctx context.Context, headers []model.VerifiedHeader) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("insert_verified_headers", firstNetwork(headers), err, start)
	}()

	if len(headers) == 0 {
		return nil
	}

	batch, err := r.conn.PrepareBatch(ctx, insertVerifiedHeadersQuery)
	if err != nil {
		return fmt.Errorf("prepare verified headers batch: %w", err)
	}

	for _, h := range headers {
		if err = batch.Append(
			h.Network,
			h.Height,
			h.Hash,
			h.PrevHash,
			h.Timestamp,
			h.Version,
			h.Bits,
			h.Nonce,
			h.WOffset,
			h.P1,
			h.ChainWork,
			string(h.Status),
			h.Reason,
			h.VerifiedAt,
		); err != nil {
			_ = batch.Abort()
			return fmt.Errorf("append verified header %d: %w", h.Height, err)
		}
	}

	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert verified headers: %w", err)
	}
	return nil
}

func firstNetwork(headers []model.VerifiedHeader) string {
	if len(headers) == 0 {
		return ""
	}
	return headers[0].Network
}
