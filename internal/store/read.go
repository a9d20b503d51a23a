package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Row is snapshot metadata: the store-assigned id, the commit message,
// and the commit timestamp in UTC.
type Row struct {
	ID        int64
	Message   string
	Timestamp time.Time
}

// RowWithData is a Row plus the stored payload bytes.
type RowWithData struct {
	Row
	Data []byte
}

// Get returns the payload for an id. Returns sql.ErrNoRows if the id
// does not exist.
func (s *Store) Get(ctx context.Context, id int64) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT data FROM snapshots WHERE id = ?
	`, id).Scan(&data)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// GetLatest returns the payload with the highest id. Returns
// sql.ErrNoRows if the store is empty.
func (s *Store) GetLatest(ctx context.Context) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT data FROM snapshots ORDER BY id DESC LIMIT 1
	`).Scan(&data)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Entry returns the metadata row for an id. Returns sql.ErrNoRows if the
// id does not exist.
func (s *Store) Entry(ctx context.Context, id int64) (Row, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, message, timestamp FROM snapshots WHERE id = ?
	`, id)
	return scanRow(row.Scan)
}

// LatestEntry returns the metadata row with the highest id. Returns
// sql.ErrNoRows if the store is empty.
func (s *Store) LatestEntry(ctx context.Context) (Row, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, message, timestamp FROM snapshots ORDER BY id DESC LIMIT 1
	`)
	return scanRow(row.Scan)
}

// Count returns the number of snapshots.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM snapshots
	`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count snapshots: %w", err)
	}
	return count, nil
}

// ListRange returns up to limit metadata rows in ascending id order,
// skipping the first offset rows. A zero limit yields an empty result.
//
// Returns an empty slice (not nil) if the window is past the end.
func (s *Store) ListRange(ctx context.Context, offset, limit int) ([]Row, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, message, timestamp
		FROM snapshots
		ORDER BY id ASC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	entries := []Row{}
	for rows.Next() {
		entry, err := scanRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}

	return entries, nil
}

// ListRangeWithData is ListRange including each row's payload bytes.
func (s *Store) ListRangeWithData(ctx context.Context, offset, limit int) ([]RowWithData, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, message, timestamp, data
		FROM snapshots
		ORDER BY id ASC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	entries := []RowWithData{}
	for rows.Next() {
		var entry RowWithData
		var ts string
		if err := rows.Scan(&entry.ID, &entry.Message, &ts, &entry.Data); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		parsed, err := parseTimestamp(ts)
		if err != nil {
			return nil, err
		}
		entry.Timestamp = parsed
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}

	return entries, nil
}

// ID returns the UUID minted when this database was created.
func (s *Store) ID(ctx context.Context) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `
		SELECT value FROM meta WHERE key = 'store_id'
	`).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("read store id: %w", err)
	}
	return id, nil
}

func scanRow(scan func(dest ...any) error) (Row, error) {
	var entry Row
	var ts string
	if err := scan(&entry.ID, &entry.Message, &ts); err != nil {
		if err == sql.ErrNoRows {
			return Row{}, err
		}
		return Row{}, fmt.Errorf("scan snapshot: %w", err)
	}
	parsed, err := parseTimestamp(ts)
	if err != nil {
		return Row{}, err
	}
	entry.Timestamp = parsed
	return entry, nil
}

func parseTimestamp(ts string) (time.Time, error) {
	parsed, err := time.Parse(timeLayout, ts)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse snapshot timestamp %q: %w", ts, err)
	}
	return parsed.UTC(), nil
}
