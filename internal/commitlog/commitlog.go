package commitlog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/strata/internal/codec"
	"github.com/roach88/strata/internal/store"
)

// Latest selects the most recent commit in Load, LoadRaw and
// LoadCommitEntry. Real ids start at 1.
const Latest int64 = 0

// CommitEntry is the immutable record of one commit: the store-assigned
// id, the message, and the commit timestamp (always timezone-aware UTC).
type CommitEntry struct {
	ID        int64
	Message   string
	Timestamp time.Time
}

// CommitEntryWithData is a CommitEntry plus the decoded payload.
type CommitEntryWithData struct {
	CommitEntry
	Data any
}

// Log is the versioned history of a parameter tree. Every Commit stores
// a full encoded snapshot; Load rebuilds any snapshot by id.
type Log struct {
	store *store.Store
	codec *codec.Codec
}

// New wires a log over an open store with the given codec.
func New(st *store.Store, c *codec.Codec) *Log {
	return &Log{store: st, codec: c}
}

// Open opens (or creates) the database at path and builds a log whose
// codec decodes through reg.
func Open(path string, reg *codec.Registry) (*Log, error) {
	st, err := store.Open(path)
	if err != nil {
		return nil, err
	}
	return New(st, codec.New(reg)), nil
}

// Close disposes the underlying store connection pool.
func (l *Log) Close() error { return l.store.Close() }

// Path returns the database file path.
func (l *Log) Path() string { return l.store.Path() }

// StoreID returns the UUID minted when the underlying database was
// created.
func (l *Log) StoreID(ctx context.Context) (string, error) {
	return l.store.ID(ctx)
}

// Commit encodes root and appends it as a new snapshot stamped with the
// current time. Encoding failures abort before anything reaches the
// store.
func (l *Log) Commit(ctx context.Context, message string, root any) (CommitEntry, error) {
	return l.commit(ctx, message, root, time.Now().UTC())
}

// CommitAt is Commit with an explicit timestamp, which is converted to
// UTC for storage.
func (l *Log) CommitAt(ctx context.Context, message string, root any, timestamp time.Time) (CommitEntry, error) {
	return l.commit(ctx, message, root, timestamp.UTC())
}

func (l *Log) commit(ctx context.Context, message string, root any, timestamp time.Time) (CommitEntry, error) {
	text, err := l.codec.Encode(root)
	if err != nil {
		return CommitEntry{}, err
	}
	// Normalize so byte-identical messages compare equal regardless of
	// the Unicode composition the caller happened to produce.
	message = norm.NFC.String(message)
	row, err := l.store.Insert(ctx, codec.Compress(text), message, timestamp)
	if err != nil {
		return CommitEntry{}, fmt.Errorf("commit: %w", err)
	}
	return entryFromRow(row), nil
}

// Load rebuilds the tree stored in the given commit; pass Latest for the
// most recent one. Missing commits yield a NotFoundError; a payload
// referencing an unregistered type yields codec.UnknownTypeError while
// the commit itself stays loadable raw.
func (l *Log) Load(ctx context.Context, id int64) (any, error) {
	text, err := l.loadText(ctx, id)
	if err != nil {
		return nil, err
	}
	return l.codec.Decode(text)
}

// LoadRaw returns the decompressed payload text without reconstructing
// any objects, for callers that do not have the defining types on hand.
func (l *Log) LoadRaw(ctx context.Context, id int64) (string, error) {
	return l.loadText(ctx, id)
}

func (l *Log) loadText(ctx context.Context, id int64) (string, error) {
	var data []byte
	var err error
	if id <= Latest {
		id = Latest
		data, err = l.store.GetLatest(ctx)
	} else {
		data, err = l.store.Get(ctx, id)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", &NotFoundError{ID: id, Path: l.store.Path()}
		}
		return "", fmt.Errorf("load: %w", err)
	}
	return codec.Decompress(data)
}

// LoadCommitEntry returns a commit's metadata only; pass Latest for the
// most recent one.
func (l *Log) LoadCommitEntry(ctx context.Context, id int64) (CommitEntry, error) {
	var row store.Row
	var err error
	if id <= Latest {
		id = Latest
		row, err = l.store.LatestEntry(ctx)
	} else {
		row, err = l.store.Entry(ctx, id)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CommitEntry{}, &NotFoundError{ID: id, Path: l.store.Path()}
		}
		return CommitEntry{}, fmt.Errorf("load commit entry: %w", err)
	}
	return entryFromRow(row), nil
}

// NumCommits returns the number of commits in the log.
func (l *Log) NumCommits(ctx context.Context) (int, error) {
	return l.store.Count(ctx)
}

func entryFromRow(row store.Row) CommitEntry {
	return CommitEntry{ID: row.ID, Message: row.Message, Timestamp: row.Timestamp.UTC()}
}
