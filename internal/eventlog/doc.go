// Package eventlog implements the append-only store for encoded
// task-parameter events.
//
// # Overview
//
// Each build run owns one log, persisted in Pebble. Keys are
// lexicographically ordered for efficient range scans:
//   - run/{id}/log/m           (run metadata: lastSeq)
//   - run/{id}/log/e/{seq_be8} (entries)
//   - run/{id}/cursor/{name}   (durable replay cursors)
//
// Records are stored as: varint headerLen | header | payload | crc32c.
// The header is a fixed 9 bytes: a big-endian write timestamp in milliseconds
// plus the event kind ordinal, so retention and coarse filtering never need
// to decode the payload. The payload is the event codec's output and is
// opaque to this package.
//
// API surface (internal)
//
//	l, _ := OpenLog(db, runID)
//	seqs, _ := l.Append(ctx, []AppendRecord{{Header: h, Payload: p}})
//
//	items, next := l.Read(ReadOptions{Start: TokenFromSeq(seqs[0]), Limit: 100})
//	_ = next // resume position
//
//	woke := l.WaitForAppend(200 * time.Millisecond)
//	_ = woke
//
//	_ = l.CommitCursor("console", TokenFromSeq(seqs[len(seqs)-1]))
//
//	// Retention, batched and throttled; deleted ranges reach the TrimHook.
//	_, _, _ = l.TrimOlderThan(ctx, cutoffMs, 1024, 0)
//	_, _ = l.TrimToMaxBytes(ctx, maxBytes, 1024, 0)
package eventlog
