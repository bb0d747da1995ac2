package eventlog

import (
	"encoding/binary"
)

// Keyspace helpers for Pebble keys.
//
// Layout (byte-wise, lexicographically sortable):
// - run/{id}/log/m
// - run/{id}/log/e/{seq_be8}
// - run/{id}/cursor/{name}

var (
	runPrefix  = []byte("run/")
	logMetaSeg = []byte("/log/m")
	entrySeg   = []byte("/log/e/")
	cursorSeg  = []byte("/cursor/")
)

func appendBE8(dst []byte, v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return append(dst, b[:]...)
}

// KeyRunMeta builds the run metadata key.
func KeyRunMeta(run string) []byte {
	k := make([]byte, 0, len(run)+16)
	k = append(k, runPrefix...)
	k = append(k, run...)
	k = append(k, logMetaSeg...)
	return k
}

// KeyRunEntry builds the entry key with a big-endian sequence for proper ordering.
func KeyRunEntry(run string, seq uint64) []byte {
	k := make([]byte, 0, len(run)+24)
	k = append(k, runPrefix...)
	k = append(k, run...)
	k = append(k, entrySeg...)
	k = appendBE8(k, seq)
	return k
}

// KeyRunCursor builds the durable cursor key for a named consumer.
func KeyRunCursor(run, consumer string) []byte {
	k := make([]byte, 0, len(run)+len(consumer)+16)
	k = append(k, runPrefix...)
	k = append(k, run...)
	k = append(k, cursorSeg...)
	k = append(k, consumer...)
	return k
}

// entryBounds returns the [low, high) iterator bounds covering every entry of
// a run.
func entryBounds(run string) (low, hi []byte) {
	low = KeyRunEntry(run, 0)
	hi = KeyRunEntry(run, ^uint64(0))
	hi = append(hi, 0x00)
	return low, hi
}

// seqFromEntryKey extracts the sequence from an entry key.
func seqFromEntryKey(key []byte) uint64 {
	return binary.BigEndian.Uint64(key[len(key)-8:])
}
