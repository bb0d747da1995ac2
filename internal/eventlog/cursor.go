package eventlog

import (
	"encoding/binary"
)

// CommitCursor stores the last processed token for a named consumer
// idempotently. A token lower than the stored one is ignored, so replays
// cannot move a consumer backwards.
func (l *Log) CommitCursor(consumer string, tok Token) error {
	key := KeyRunCursor(l.run, consumer)
	cur, err := l.db.Get(key)
	if err == nil && len(cur) >= 8 {
		prev := binary.BigEndian.Uint64(cur[:8])
		if tok.Seq() <= prev {
			return nil
		}
	}
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], tok.Seq())
	return l.db.Set(key, b[:])
}

// GetCursor loads the current cursor token for a named consumer.
func (l *Log) GetCursor(consumer string) (Token, bool) {
	cur, err := l.db.Get(KeyRunCursor(l.run, consumer))
	if err != nil || len(cur) < 8 {
		return Token{}, false
	}
	var t Token
	copy(t[:], cur[:8])
	return t, true
}
