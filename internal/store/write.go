package store

import (
	"context"
	"fmt"
	"time"
)

// Insert appends a new snapshot blob and returns the row with its
// store-assigned id. Timestamps are stored in UTC; the insert either
// fully lands with an id or fails with nothing persisted.
func (s *Store) Insert(ctx context.Context, data []byte, message string, timestamp time.Time) (Row, error) {
	ts := timestamp.UTC()
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO snapshots (message, timestamp, data)
		VALUES (?, ?, ?)
	`,
		message,
		ts.Format(timeLayout),
		data,
	)
	if err != nil {
		return Row{}, fmt.Errorf("insert snapshot: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return Row{}, fmt.Errorf("insert snapshot: last insert id: %w", err)
	}

	return Row{ID: id, Message: message, Timestamp: ts}, nil
}
