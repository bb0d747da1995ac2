package taskevent

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"
)

// Wire-level errors. Both are decode-fatal: the event being read is abandoned
// and no partial result is returned.
var (
	ErrTruncated = errors.New("taskevent: truncated input")
	ErrCorrupt   = errors.New("taskevent: corrupt input")
)

// wireWriter accumulates the binary form of one event.
type wireWriter struct {
	buf []byte
}

func (w *wireWriter) writeUvarint(v uint64) {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	w.buf = append(w.buf, tmp[:n]...)
}

func (w *wireWriter) writeString(s string) {
	w.writeUvarint(uint64(len(s)))
	w.buf = append(w.buf, s...)
}

// writeOptionalString distinguishes absent from empty with a presence byte.
func (w *wireWriter) writeOptionalString(s string, present bool) {
	if !present {
		w.buf = append(w.buf, 0)
		return
	}
	w.buf = append(w.buf, 1)
	w.writeString(s)
}

// writeTimestamp emits 8 bytes of big-endian Unix seconds followed by 4 bytes
// of big-endian nanoseconds. Decoding yields the same instant in UTC.
func (w *wireWriter) writeTimestamp(t time.Time) {
	var b [12]byte
	binary.BigEndian.PutUint64(b[:8], uint64(t.Unix()))
	binary.BigEndian.PutUint32(b[8:], uint32(t.Nanosecond()))
	w.buf = append(w.buf, b[:]...)
}

// writeContext emits a presence byte and, when present, the seven build
// coordinates as fixed-width big-endian int32s. Fixed width because unset
// coordinates are -1, which a uvarint cannot carry.
func (w *wireWriter) writeContext(c *BuildContext) {
	if c == nil {
		w.buf = append(w.buf, 0)
		return
	}
	w.buf = append(w.buf, 1)
	for _, v := range c.fields() {
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], uint32(v))
		w.buf = append(w.buf, b[:]...)
	}
}

// wireReader consumes the binary form of one event.
type wireReader struct {
	buf []byte
	off int
}

func (r *wireReader) remaining() int { return len(r.buf) - r.off }

func (r *wireReader) readByte() (byte, error) {
	if r.off >= len(r.buf) {
		return 0, ErrTruncated
	}
	b := r.buf[r.off]
	r.off++
	return b, nil
}

func (r *wireReader) readUvarint() (uint64, error) {
	v, n := binary.Uvarint(r.buf[r.off:])
	if n == 0 {
		return 0, ErrTruncated
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: varint overflow", ErrCorrupt)
	}
	r.off += n
	return v, nil
}

func (r *wireReader) readString() (string, error) {
	n, err := r.readUvarint()
	if err != nil {
		return "", err
	}
	if n > uint64(r.remaining()) {
		return "", fmt.Errorf("%w: string length %d exceeds remaining %d", ErrTruncated, n, r.remaining())
	}
	s := string(r.buf[r.off : r.off+int(n)])
	r.off += int(n)
	return s, nil
}

func (r *wireReader) readOptionalString() (string, bool, error) {
	p, err := r.readByte()
	if err != nil {
		return "", false, err
	}
	switch p {
	case 0:
		return "", false, nil
	case 1:
		s, err := r.readString()
		return s, err == nil, err
	default:
		return "", false, fmt.Errorf("%w: bad presence byte 0x%02x", ErrCorrupt, p)
	}
}

func (r *wireReader) readTimestamp() (time.Time, error) {
	if r.remaining() < 12 {
		return time.Time{}, ErrTruncated
	}
	sec := int64(binary.BigEndian.Uint64(r.buf[r.off : r.off+8]))
	nsec := binary.BigEndian.Uint32(r.buf[r.off+8 : r.off+12])
	r.off += 12
	if nsec >= 1e9 {
		return time.Time{}, fmt.Errorf("%w: nanoseconds out of range", ErrCorrupt)
	}
	return time.Unix(sec, int64(nsec)).UTC(), nil
}

func (r *wireReader) readContext() (*BuildContext, error) {
	p, err := r.readByte()
	if err != nil {
		return nil, err
	}
	switch p {
	case 0:
		return nil, nil
	case 1:
	default:
		return nil, fmt.Errorf("%w: bad presence byte 0x%02x", ErrCorrupt, p)
	}
	if r.remaining() < 4*numContextFields {
		return nil, ErrTruncated
	}
	var vals [numContextFields]int32
	for i := range vals {
		vals[i] = int32(binary.BigEndian.Uint32(r.buf[r.off : r.off+4]))
		r.off += 4
	}
	c := contextFromFields(vals)
	return &c, nil
}
