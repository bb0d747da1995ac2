package eventlog

import (
	"context"
	"time"

	"github.com/cockroachdb/pebble"
)

// TrimHook is an optional callback invoked when trims delete ranges.
// Implementations may emit metrics or record the gap for downstream readers.
type TrimHook interface {
	EmitTrimRange(run string, minSeq, maxSeq uint64)
}

type noopTrimHook struct{}

func (noopTrimHook) EmitTrimRange(string, uint64, uint64) {}

// TrimOlderThan deletes entries whose header timestamp is < cutoffMs.
// The scan stops at the first entry at or past the cutoff, relying on append
// order matching write time. Deletes are committed in batches of up to
// batchLimit keys with an optional throttle between commits.
// Returns the number of deleted entries and the last deleted sequence (0 if none).
func (l *Log) TrimOlderThan(ctx context.Context, cutoffMs int64, batchLimit int, throttle time.Duration) (int, uint64, error) {
	if batchLimit <= 0 {
		batchLimit = 1024
	}

	low, hi := entryBounds(l.run)
	iter, err := l.db.NewIter(&pebble.IterOptions{LowerBound: low, UpperBound: hi})
	if err != nil {
		return 0, 0, err
	}
	defer iter.Close()

	deleted := 0
	var lastSeq uint64
	var minSeq uint64
	firstDeleted := true
	for ok := iter.First(); ok; {
		b := l.db.NewBatch()
		n := 0
		for ok && n < batchLimit {
			seq := seqFromEntryKey(iter.Key())
			dec, decErr := DecodeRecord(iter.Value())
			if decErr == nil {
				if ms, _, okHdr := DecodeHeader(dec.Header); okHdr && ms < cutoffMs {
					if err := b.Delete(iter.Key(), nil); err != nil {
						b.Close()
						return deleted, lastSeq, err
					}
					deleted++
					lastSeq = seq
					if firstDeleted {
						minSeq = seq
						firstDeleted = false
					}
					n++
					ok = iter.Next()
					continue
				}
			}
			// stop at the first entry newer than the cutoff
			ok = false
			break
		}
		if n > 0 {
			if err := l.db.CommitBatch(ctx, b); err != nil {
				b.Close()
				return deleted, lastSeq, err
			}
			b.Close()
			l.trimHook.EmitTrimRange(l.run, minSeq, lastSeq)
			if throttle > 0 {
				time.Sleep(throttle)
			}
		} else {
			b.Close()
		}
	}
	return deleted, lastSeq, nil
}

// TrimToMaxBytes approximates retention by total value bytes.
// If current bytes <= maxBytes, it is a no-op. Otherwise it deletes the oldest
// entries until total bytes <= maxBytes. Batched and throttled like
// TrimOlderThan.
func (l *Log) TrimToMaxBytes(ctx context.Context, maxBytes int64, batchLimit int, throttle time.Duration) (int, error) {
	if batchLimit <= 0 {
		batchLimit = 1024
	}
	if maxBytes < 0 {
		return 0, nil
	}

	low, hi := entryBounds(l.run)
	iter, err := l.db.NewIter(&pebble.IterOptions{LowerBound: low, UpperBound: hi})
	if err != nil {
		return 0, err
	}
	defer iter.Close()

	var total int64
	for ok := iter.First(); ok; ok = iter.Next() {
		total += int64(len(iter.Value()))
	}
	if total <= maxBytes {
		return 0, nil
	}

	deleted := 0
	var minSeq uint64
	var lastSeq uint64
	firstDeleted := true
	for ok := iter.First(); ok && total > maxBytes; {
		b := l.db.NewBatch()
		n := 0
		for ok && n < batchLimit && total > maxBytes {
			valLen := int64(len(iter.Value()))
			seq := seqFromEntryKey(iter.Key())
			if err := b.Delete(iter.Key(), nil); err != nil {
				b.Close()
				return deleted, err
			}
			total -= valLen
			deleted++
			n++
			lastSeq = seq
			if firstDeleted {
				minSeq = seq
				firstDeleted = false
			}
			ok = iter.Next()
		}
		if n > 0 {
			if err := l.db.CommitBatch(ctx, b); err != nil {
				b.Close()
				return deleted, err
			}
			b.Close()
			l.trimHook.EmitTrimRange(l.run, minSeq, lastSeq)
			if throttle > 0 {
				time.Sleep(throttle)
			}
		} else {
			b.Close()
		}
	}
	return deleted, nil
}
