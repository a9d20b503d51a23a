package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
	if s.Path() != path {
		t.Errorf("Path() = %q, want %q", s.Path(), path)
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("Open() iteration %d failed: %v", i, err)
		}
		s.Close()
	}

	s, err := Open(path)
	if err != nil {
		t.Fatalf("final Open() failed: %v", err)
	}
	defer s.Close()

	for _, table := range []string{"snapshots", "meta"} {
		var name string
		err := s.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?",
			table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q not found after idempotent opens: %v", table, err)
		}
	}
}

func TestOpen_Pragmas(t *testing.T) {
	s := openTestStore(t)

	if err := s.verifyPragma("journal_mode", "wal"); err != nil {
		t.Error(err)
	}
	if err := s.verifyPragma("busy_timeout", "5000"); err != nil {
		t.Error(err)
	}
}

func TestInsert_AssignsSequentialIDs(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 1; i <= 3; i++ {
		row, err := s.Insert(ctx, []byte("payload"), "msg", ts)
		if err != nil {
			t.Fatalf("Insert() %d failed: %v", i, err)
		}
		if row.ID != int64(i) {
			t.Errorf("Insert() %d assigned id %d, want %d", i, row.ID, i)
		}
	}
}

func TestGet_ReturnsStoredPayload(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	want := []byte{0x01, 0x02, 0x00, 0xff}
	row, err := s.Insert(ctx, want, "msg", time.Now())
	if err != nil {
		t.Fatalf("Insert() failed: %v", err)
	}

	got, err := s.Get(ctx, row.ID)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if string(got) != string(want) {
		t.Errorf("Get() = %v, want %v", got, want)
	}
}

func TestGet_MissingID(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.Get(ctx, 99); err != sql.ErrNoRows {
		t.Errorf("Get(99) error = %v, want sql.ErrNoRows", err)
	}
}

func TestGetLatest(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.GetLatest(ctx); err != sql.ErrNoRows {
		t.Errorf("GetLatest() on empty store error = %v, want sql.ErrNoRows", err)
	}

	s.Insert(ctx, []byte("first"), "a", time.Now())
	s.Insert(ctx, []byte("second"), "b", time.Now())

	got, err := s.GetLatest(ctx)
	if err != nil {
		t.Fatalf("GetLatest() failed: %v", err)
	}
	if string(got) != "second" {
		t.Errorf("GetLatest() = %q, want %q", got, "second")
	}
}

func TestEntry_RoundTripsTimestamp(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	ts := time.Date(2024, 3, 15, 9, 30, 0, 123456789, time.FixedZone("plus2", 2*3600))
	row, err := s.Insert(ctx, []byte("x"), "calibration", ts)
	if err != nil {
		t.Fatalf("Insert() failed: %v", err)
	}

	entry, err := s.Entry(ctx, row.ID)
	if err != nil {
		t.Fatalf("Entry() failed: %v", err)
	}
	if entry.Message != "calibration" {
		t.Errorf("Entry().Message = %q", entry.Message)
	}
	if !entry.Timestamp.Equal(ts) {
		t.Errorf("Entry().Timestamp = %v, want %v", entry.Timestamp, ts)
	}
	if loc := entry.Timestamp.Location(); loc != time.UTC {
		t.Errorf("Entry().Timestamp location = %v, want UTC", loc)
	}
}

func TestLatestEntry_Empty(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.LatestEntry(context.Background()); err != sql.ErrNoRows {
		t.Errorf("LatestEntry() error = %v, want sql.ErrNoRows", err)
	}
}

func TestCount(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	count, err := s.Count(ctx)
	if err != nil || count != 0 {
		t.Fatalf("Count() = %d, %v; want 0, nil", count, err)
	}

	s.Insert(ctx, []byte("x"), "a", time.Now())
	s.Insert(ctx, []byte("y"), "b", time.Now())

	count, err = s.Count(ctx)
	if err != nil || count != 2 {
		t.Fatalf("Count() = %d, %v; want 2, nil", count, err)
	}
}

func TestListRange(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, msg := range []string{"a", "b", "c", "d"} {
		if _, err := s.Insert(ctx, []byte(msg), msg, time.Now()); err != nil {
			t.Fatalf("Insert(%q) failed: %v", msg, err)
		}
	}

	rows, err := s.ListRange(ctx, 1, 2)
	if err != nil {
		t.Fatalf("ListRange() failed: %v", err)
	}
	if len(rows) != 2 || rows[0].Message != "b" || rows[1].Message != "c" {
		t.Errorf("ListRange(1, 2) = %+v", rows)
	}

	rows, err = s.ListRange(ctx, 10, 5)
	if err != nil {
		t.Fatalf("ListRange() past end failed: %v", err)
	}
	if rows == nil || len(rows) != 0 {
		t.Errorf("ListRange(10, 5) = %v, want empty non-nil slice", rows)
	}
}

func TestListRangeWithData(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	s.Insert(ctx, []byte("one"), "a", time.Now())
	s.Insert(ctx, []byte("two"), "b", time.Now())

	rows, err := s.ListRangeWithData(ctx, 0, 10)
	if err != nil {
		t.Fatalf("ListRangeWithData() failed: %v", err)
	}
	if len(rows) != 2 || string(rows[0].Data) != "one" || string(rows[1].Data) != "two" {
		t.Errorf("ListRangeWithData() = %+v", rows)
	}
}

func TestID_PersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	s1, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	id1, err := s1.ID(ctx)
	if err != nil {
		t.Fatalf("ID() failed: %v", err)
	}
	s1.Close()

	if id1 == "" {
		t.Fatal("ID() returned empty string")
	}

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s2.Close()

	id2, err := s2.ID(ctx)
	if err != nil {
		t.Fatalf("ID() after reopen failed: %v", err)
	}
	if id1 != id2 {
		t.Errorf("store id changed across opens: %q then %q", id1, id2)
	}
}
