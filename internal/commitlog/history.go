package commitlog

import (
	"context"
	"fmt"
	"math"

	"github.com/roach88/strata/internal/codec"
)

// ToEnd extends a History range through the final commit.
const ToEnd = math.MaxInt

// History returns commit metadata for the half-open range [start, end)
// over the full history in ascending id order. Bounds follow sequence
// slicing rules: negative values count back from the end and are clamped
// to zero, and an empty or inverted range yields an empty slice. Use 0
// and ToEnd for the whole history.
func (l *Log) History(ctx context.Context, start, end int) ([]CommitEntry, error) {
	offset, limit, err := l.resolveRange(ctx, start, end)
	if err != nil || limit == 0 {
		return []CommitEntry{}, err
	}
	rows, err := l.store.ListRange(ctx, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	entries := make([]CommitEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, entryFromRow(row))
	}
	return entries, nil
}

// HistoryWithData is History with each commit's tree decoded alongside
// its metadata.
func (l *Log) HistoryWithData(ctx context.Context, start, end int) ([]CommitEntryWithData, error) {
	offset, limit, err := l.resolveRange(ctx, start, end)
	if err != nil || limit == 0 {
		return []CommitEntryWithData{}, err
	}
	rows, err := l.store.ListRangeWithData(ctx, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	entries := make([]CommitEntryWithData, 0, len(rows))
	for _, row := range rows {
		text, err := codec.Decompress(row.Data)
		if err != nil {
			return nil, err
		}
		data, err := l.codec.Decode(text)
		if err != nil {
			return nil, err
		}
		entries = append(entries, CommitEntryWithData{
			CommitEntry: entryFromRow(row.Row),
			Data:        data,
		})
	}
	return entries, nil
}

// resolveRange turns slice-style bounds into an offset and limit for the
// store. Negative bounds are resolved against the current commit count.
func (l *Log) resolveRange(ctx context.Context, start, end int) (offset, limit int, err error) {
	count := 0
	if start < 0 || end < 0 || end == ToEnd {
		count, err = l.store.Count(ctx)
		if err != nil {
			return 0, 0, fmt.Errorf("history: %w", err)
		}
	}
	if end == ToEnd {
		end = count
	}
	if start < 0 {
		start += count
		if start < 0 {
			start = 0
		}
	}
	if end < 0 {
		end += count
		if end < 0 {
			end = 0
		}
	}
	if end <= start {
		return 0, 0, nil
	}
	return start, end - start, nil
}
