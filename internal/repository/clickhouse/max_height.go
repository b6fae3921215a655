package clickhouse

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const maxHeightQuery = `
SELECT count() AS headers, max(height) AS max_height
FROM verified_headers
WHERE network = ?`

// MaxHeight returns the highest verified height stored for network. found is false on an empty table.
func (r *Repository) MaxHeight(ctx context.Context, network string) (height uint64, found bool, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("max_height", network, err, start)
	}()

	rows, err := r.conn.Query(ctx, maxHeightQuery, network)
	if err != nil {
		return 0, false, fmt.Errorf("query max height: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	if !rows.Next() {
		return 0, false, errors.New("max height not found")
	}

	var count uint64
	if err = rows.Scan(&count, &height); err != nil {
		return 0, false, fmt.Errorf("scan max height: %w", err)
	}
	if err = rows.Err(); err != nil {
		return 0, false, fmt.Errorf("iterate max height: %w", err)
	}

	return height, count > 0, nil
}
