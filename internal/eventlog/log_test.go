package eventlog

import (
	"context"
	"testing"

	pebblestore "github.com/Vivek2302/msbuild/internal/storage/pebble"
)

func newTestLog(t *testing.T) *Log {
	t.Helper()
	dir := t.TempDir()
	db, err := pebblestore.Open(pebblestore.Options{DataDir: dir, Fsync: pebblestore.FsyncModeAlways})
	if err != nil {
		t.Fatalf("open pebble: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	l, err := OpenLog(db, "run-1")
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	return l
}

func TestAppendAssignsSequential(t *testing.T) {
	l := newTestLog(t)
	ctx := context.Background()
	seqs, err := l.Append(ctx, []AppendRecord{
		{Header: EncodeHeader(1, 0), Payload: []byte("p1")},
		{Header: EncodeHeader(2, 1), Payload: []byte("p2")},
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if len(seqs) != 2 {
		t.Fatalf("want 2 seqs, got %d", len(seqs))
	}
	if !(seqs[0] < seqs[1]) {
		t.Fatalf("expected increasing seqs: %v", seqs)
	}
}

func TestAppendEmptyIsNoop(t *testing.T) {
	l := newTestLog(t)
	seqs, err := l.Append(context.Background(), nil)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if len(seqs) != 0 {
		t.Fatalf("expected no seqs, got %v", seqs)
	}
}

func TestAppendDurableAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	db, err := pebblestore.Open(pebblestore.Options{DataDir: dir, Fsync: pebblestore.FsyncModeAlways})
	if err != nil {
		t.Fatalf("open pebble: %v", err)
	}
	l, err := OpenLog(db, "run-1")
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	ctx := context.Background()
	seqs, err := l.Append(ctx, []AppendRecord{{Header: EncodeHeader(1, 0), Payload: []byte("x")}})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if len(seqs) != 1 {
		t.Fatalf("want one seq")
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// reopen and ensure lastSeq is restored via run metadata
	db2, err := pebblestore.Open(pebblestore.Options{DataDir: dir, Fsync: pebblestore.FsyncModeAlways})
	if err != nil {
		t.Fatalf("reopen pebble: %v", err)
	}
	t.Cleanup(func() { _ = db2.Close() })
	l2, err := OpenLog(db2, "run-1")
	if err != nil {
		t.Fatalf("open log2: %v", err)
	}
	seqs2, err := l2.Append(ctx, []AppendRecord{{Header: EncodeHeader(2, 0), Payload: []byte("y")}})
	if err != nil {
		t.Fatalf("append2: %v", err)
	}
	if !(seqs[0] < seqs2[0]) {
		t.Fatalf("expected next seq > previous: prev=%d next=%d", seqs[0], seqs2[0])
	}
}

func TestRunsAreIsolated(t *testing.T) {
	dir := t.TempDir()
	db, err := pebblestore.Open(pebblestore.Options{DataDir: dir, Fsync: pebblestore.FsyncModeAlways})
	if err != nil {
		t.Fatalf("open pebble: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	la, _ := OpenLog(db, "run-a")
	lb, _ := OpenLog(db, "run-b")
	ctx := context.Background()
	if _, err := la.Append(ctx, []AppendRecord{{Header: EncodeHeader(1, 0), Payload: []byte("a")}}); err != nil {
		t.Fatalf("append a: %v", err)
	}
	if _, err := lb.Append(ctx, []AppendRecord{
		{Header: EncodeHeader(1, 0), Payload: []byte("b1")},
		{Header: EncodeHeader(2, 0), Payload: []byte("b2")},
	}); err != nil {
		t.Fatalf("append b: %v", err)
	}

	itemsA, _ := la.Read(ReadOptions{})
	itemsB, _ := lb.Read(ReadOptions{})
	if len(itemsA) != 1 || len(itemsB) != 2 {
		t.Fatalf("expected 1 and 2 items, got %d and %d", len(itemsA), len(itemsB))
	}
	if string(itemsA[0].Payload) != "a" {
		t.Fatalf("run-a read run-b data: %q", itemsA[0].Payload)
	}
}

func TestListRuns(t *testing.T) {
	dir := t.TempDir()
	db, err := pebblestore.Open(pebblestore.Options{DataDir: dir, Fsync: pebblestore.FsyncModeAlways})
	if err != nil {
		t.Fatalf("open pebble: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	for _, run := range []string{"run-a", "run-b"} {
		l, err := OpenLog(db, run)
		if err != nil {
			t.Fatalf("open %s: %v", run, err)
		}
		if _, err := l.Append(ctx, []AppendRecord{{Header: EncodeHeader(1, 0)}}); err != nil {
			t.Fatalf("append %s: %v", run, err)
		}
	}

	runs, err := ListRuns(db)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 2 || runs[0] != "run-a" || runs[1] != "run-b" {
		t.Fatalf("unexpected runs: %v", runs)
	}
}
