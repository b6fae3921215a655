package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/factorcore/internal/consensus/model"
)

const recentRejectionsQuery = `
SELECT
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
	reason,
	verified_at
FROM verified_headers FINAL
WHERE network = ? AND status = ?
ORDER BY height DESC
LIMIT ?`

// RecentRejections returns the highest rejected headers of network, newest first.
func (r *Repository) RecentRejections(ctx context.Context, network string, limit uint64) (headers []model.VerifiedHeader, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("recent_rejections", network, err, start)
	}()

	if limit == 0 {
		return nil, nil
	}

	rows, err := r.conn.Query(ctx, recentRejectionsQuery, network, string(model.HeaderRejected), limit)
	if err != nil {
		return nil, fmt.Errorf("query recent rejections: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	for rows.Next() {
		h := model.VerifiedHeader{Network: network, Status: model.HeaderRejected}
		if err = rows.Scan(
			&h.Height,
			&h.Hash,
			&h.PrevHash,
			&h.Timestamp,
			&h.Version,
			&h.Bits,
			&h.Nonce,
			&h.WOffset,
			&h.P1,
			&h.ChainWork,
			&h.Reason,
			&h.VerifiedAt,
		); err != nil {
			return nil, fmt.Errorf("scan rejected header: %w", err)
		}
		headers = append(headers, h)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recent rejections: %w", err)
	}

	return headers, nil
}
