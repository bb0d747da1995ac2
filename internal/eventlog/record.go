package eventlog

import (
	"encoding/binary"
	"errors"
	"hash/crc32"
)

// Record encoding: varint headerLen | header | payload | crc32c(header|payload)

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// ErrBadRecord marks a stored record that is truncated or fails its checksum.
var ErrBadRecord = errors.New("eventlog: bad record")

// headerSize is the fixed header: 8 bytes big-endian ms timestamp + 1 kind byte.
const headerSize = 9

// EncodeHeader builds the fixed record header.
func EncodeHeader(tsMs int64, kind byte) []byte {
	h := make([]byte, headerSize)
	binary.BigEndian.PutUint64(h[:8], uint64(tsMs))
	h[8] = kind
	return h
}

// DecodeHeader splits the fixed record header. ok is false when the header
// does not have the expected size.
func DecodeHeader(h []byte) (tsMs int64, kind byte, ok bool) {
	if len(h) != headerSize {
		return 0, 0, false
	}
	return int64(binary.BigEndian.Uint64(h[:8])), h[8], true
}

// EncodeRecord frames a header and payload for storage.
func EncodeRecord(header, payload []byte) []byte {
	out := make([]byte, 0, 10+len(header)+len(payload)+4)
	var tmp [10]byte
	n := binary.PutUvarint(tmp[:], uint64(len(header)))
	out = append(out, tmp[:n]...)
	out = append(out, header...)
	out = append(out, payload...)

	crc := crc32.Update(0, castagnoli, header)
	crc = crc32.Update(crc, castagnoli, payload)
	var crcb [4]byte
	binary.BigEndian.PutUint32(crcb[:], crc)
	out = append(out, crcb[:]...)
	return out
}

// Decoded is an unframed record.
type Decoded struct {
	Header  []byte
	Payload []byte
}

// DecodeRecord unframes a stored record, verifying its checksum.
func DecodeRecord(b []byte) (Decoded, error) {
	if len(b) < 1+4 {
		return Decoded{}, ErrBadRecord
	}
	hlen, n := binary.Uvarint(b)
	if n <= 0 {
		return Decoded{}, ErrBadRecord
	}
	if int(n)+int(hlen)+4 > len(b) {
		return Decoded{}, ErrBadRecord
	}
	header := b[n : n+int(hlen)]
	payload := b[n+int(hlen) : len(b)-4]
	expect := binary.BigEndian.Uint32(b[len(b)-4:])
	crc := crc32.Update(0, castagnoli, header)
	crc = crc32.Update(crc, castagnoli, payload)
	if crc != expect {
		return Decoded{}, ErrBadRecord
	}
	return Decoded{Header: append([]byte(nil), header...), Payload: append([]byte(nil), payload...)}, nil
}
