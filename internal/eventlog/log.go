package eventlog

import (
	"context"
	"encoding/binary"
	"strings"
	"sync"

	"github.com/cockroachdb/pebble"

	pebblestore "github.com/Vivek2302/msbuild/internal/storage/pebble"
)

// AppendRecord represents a single appendable event record.
type AppendRecord struct {
	Header  []byte
	Payload []byte
}

// Log provides append-only operations for one build run.
type Log struct {
	db  *pebblestore.DB
	run string

	mu       sync.Mutex
	lastSeq  uint64
	notifyCh chan struct{}
	trimHook TrimHook
}

// OpenLog initializes a Log and loads the last sequence from metadata (if any).
func OpenLog(db *pebblestore.DB, run string) (*Log, error) {
	l := &Log{db: db, run: run, notifyCh: make(chan struct{}), trimHook: noopTrimHook{}}
	meta, err := db.Get(KeyRunMeta(run))
	if err == nil && len(meta) >= 8 {
		l.lastSeq = binary.BigEndian.Uint64(meta[:8])
	}
	return l, nil
}

// Run returns the run ID this log is scoped to.
func (l *Log) Run() string { return l.run }

// SetTrimHook installs the hook observing trimmed ranges. Call before any trim.
func (l *Log) SetTrimHook(h TrimHook) {
	if h != nil {
		l.trimHook = h
	}
}

// Append appends the provided records as a single atomic batch. Returns assigned seq numbers.
func (l *Log) Append(ctx context.Context, recs []AppendRecord) ([]uint64, error) {
	if len(recs) == 0 {
		return nil, nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	b := l.db.NewBatch()
	defer b.Close()

	seqs := make([]uint64, len(recs))
	for i, r := range recs {
		l.lastSeq++
		seq := l.lastSeq
		val := EncodeRecord(r.Header, r.Payload)
		if err := b.Set(KeyRunEntry(l.run, seq), val, nil); err != nil {
			return nil, err
		}
		seqs[i] = seq
	}

	var meta [8]byte
	binary.BigEndian.PutUint64(meta[:], l.lastSeq)
	if err := b.Set(KeyRunMeta(l.run), meta[:], nil); err != nil {
		return nil, err
	}

	if err := l.db.CommitBatch(ctx, b); err != nil {
		return nil, err
	}
	// notify waiters
	close(l.notifyCh)
	l.notifyCh = make(chan struct{})
	return seqs, nil
}

// ListRuns scans run metadata keys and returns every known run ID in key
// order (chronological, since run IDs sort by creation time).
func ListRuns(db *pebblestore.DB) ([]string, error) {
	lo := append([]byte(nil), runPrefix...)
	hi := append(append([]byte(nil), runPrefix...), 0xff)
	iter, err := db.NewIter(&pebble.IterOptions{LowerBound: lo, UpperBound: hi})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var runs []string
	for ok := iter.First(); ok; ok = iter.Next() {
		key := string(iter.Key())
		if !strings.HasSuffix(key, string(logMetaSeg)) {
			continue
		}
		run := strings.TrimSuffix(strings.TrimPrefix(key, string(runPrefix)), string(logMetaSeg))
		runs = append(runs, run)
	}
	return runs, nil
}
