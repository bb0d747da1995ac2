package taskevent

import (
	"errors"
	"testing"
	"time"
)

func TestUvarintRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 127, 128, 300, 16383, 16384, 1<<32 - 1, 1<<63 - 1}
	w := &wireWriter{}
	for _, v := range values {
		w.writeUvarint(v)
	}
	r := &wireReader{buf: w.buf}
	for _, want := range values {
		got, err := r.readUvarint()
		if err != nil {
			t.Fatalf("read %d: %v", want, err)
		}
		if got != want {
			t.Fatalf("got %d, want %d", got, want)
		}
	}
	if r.remaining() != 0 {
		t.Fatalf("%d bytes left over", r.remaining())
	}
}

func TestUvarintTruncated(t *testing.T) {
	r := &wireReader{buf: []byte{0x80}} // continuation bit with no next byte
	if _, err := r.readUvarint(); err == nil {
		t.Fatalf("expected error")
	}
}

func TestStringRoundTrip(t *testing.T) {
	w := &wireWriter{}
	w.writeString("")
	w.writeString("hello")
	w.writeString("héllo wörld") // multi-byte runes
	r := &wireReader{buf: w.buf}
	for _, want := range []string{"", "hello", "héllo wörld"} {
		got, err := r.readString()
		if err != nil {
			t.Fatalf("read %q: %v", want, err)
		}
		if got != want {
			t.Fatalf("got %q, want %q", got, want)
		}
	}
}

func TestStringLengthBeyondInput(t *testing.T) {
	w := &wireWriter{}
	w.writeUvarint(1000)
	w.buf = append(w.buf, 'x')
	r := &wireReader{buf: w.buf}
	if _, err := r.readString(); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected truncated, got %v", err)
	}
}

func TestTimestampExactRoundTrip(t *testing.T) {
	zone := time.FixedZone("UTC+11", 11*3600)
	cases := []time.Time{
		time.Unix(0, 0),
		time.Date(2024, 3, 9, 17, 4, 5, 999999999, time.UTC),
		time.Date(2031, 12, 31, 23, 59, 59, 1, zone),
	}
	for _, want := range cases {
		w := &wireWriter{}
		w.writeTimestamp(want)
		r := &wireReader{buf: w.buf}
		got, err := r.readTimestamp()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if !got.Equal(want) {
			t.Fatalf("got %v, want %v", got, want)
		}
		if got.Location() != time.UTC {
			t.Fatalf("decoded location = %v, want UTC", got.Location())
		}
	}
}

func TestContextRoundTrip(t *testing.T) {
	in := &BuildContext{
		SubmissionID:      5,
		NodeID:            1,
		EvaluationID:      InvalidID,
		ProjectInstanceID: 12,
		ProjectContextID:  InvalidID,
		TargetID:          88,
		TaskID:            3,
	}
	w := &wireWriter{}
	w.writeContext(in)
	r := &wireReader{buf: w.buf}
	out, err := r.readContext()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if out == nil || *out != *in {
		t.Fatalf("got %+v, want %+v", out, in)
	}

	w = &wireWriter{}
	w.writeContext(nil)
	r = &wireReader{buf: w.buf}
	out, err = r.readContext()
	if err != nil {
		t.Fatalf("read absent: %v", err)
	}
	if out != nil {
		t.Fatalf("absent context decoded as %+v", out)
	}
}

func TestBadPresenceByte(t *testing.T) {
	r := &wireReader{buf: []byte{7}}
	if _, _, err := r.readOptionalString(); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected corrupt, got %v", err)
	}
	r = &wireReader{buf: []byte{7}}
	if _, err := r.readContext(); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected corrupt, got %v", err)
	}
}
