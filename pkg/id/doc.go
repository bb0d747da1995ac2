// Package id provides the 128-bit, lexicographically sortable identifiers
// used to scope build runs in the parameter event store.
//
// # Format
//
// An ID is 16 bytes big-endian: [8 bytes ms_timestamp][8 bytes sequence].
// Byte-wise comparison preserves chronological order, so run keys listed from
// storage come back in start order, and IDs generated within the same
// millisecond remain strictly increasing by sequence.
//
// # Monotonicity
//
// The Generator ensures per-process monotonicity:
//   - If the system clock regresses, it pins to the last seen millisecond and
//     increments the sequence to avoid going backwards.
//   - If the sequence would overflow within a millisecond, it waits for the
//     next millisecond before emitting the next ID.
//
// Usage
//
//	g := id.NewGenerator()
//	runID := g.Next()
//	s := runID.String()       // hex, the CLI-facing form
//	back, _ := id.Parse(s)
package id
