package eventlog

import (
	"context"
	"testing"
	"time"
)

type captureTrimHook struct {
	run      string
	min, max uint64
	called   bool
}

func (c *captureTrimHook) EmitTrimRange(run string, minSeq, maxSeq uint64) {
	c.run, c.min, c.max, c.called = run, minSeq, maxSeq, true
}

func TestTrimOlderThanByTimestamp(t *testing.T) {
	l := newTestLog(t)
	now := time.Now().UnixMilli()
	recs := []AppendRecord{
		{Header: EncodeHeader(now-10_000, 0), Payload: []byte("a")},
		{Header: EncodeHeader(now-5_000, 0), Payload: []byte("b")},
		{Header: EncodeHeader(now, 0), Payload: []byte("c")},
	}
	if _, err := l.Append(context.Background(), recs); err != nil {
		t.Fatalf("append: %v", err)
	}

	del, last, err := l.TrimOlderThan(context.Background(), now-1, 10, 0)
	if err != nil {
		t.Fatalf("trim: %v", err)
	}
	if del != 2 {
		t.Fatalf("expected 2 deleted, got %d", del)
	}
	if last != 2 {
		t.Fatalf("expected last deleted seq 2, got %d", last)
	}

	items, _ := l.Read(ReadOptions{})
	if len(items) != 1 || string(items[0].Payload) != "c" {
		t.Fatalf("expected only newest entry to survive, got %d items", len(items))
	}
}

func TestTrimOlderThanKeepsAllWhenCutoffOld(t *testing.T) {
	l := newTestLog(t)
	now := time.Now().UnixMilli()
	if _, err := l.Append(context.Background(), []AppendRecord{{Header: EncodeHeader(now, 0)}}); err != nil {
		t.Fatalf("append: %v", err)
	}
	del, _, err := l.TrimOlderThan(context.Background(), now-60_000, 10, 0)
	if err != nil {
		t.Fatalf("trim: %v", err)
	}
	if del != 0 {
		t.Fatalf("expected no deletions, got %d", del)
	}
}

func TestTrimToMaxBytes(t *testing.T) {
	l := newTestLog(t)
	for i := 0; i < 3; i++ {
		if _, err := l.Append(context.Background(), []AppendRecord{{Header: EncodeHeader(int64(i+1), 0), Payload: []byte("0123456789")}}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	del, err := l.TrimToMaxBytes(context.Background(), 30, 10, 0)
	if err != nil {
		t.Fatalf("trim bytes: %v", err)
	}
	if del < 1 {
		t.Fatalf("expected at least 1 deletion")
	}
	items, _ := l.Read(ReadOptions{})
	if len(items)+del != 3 {
		t.Fatalf("item accounting off: %d surviving, %d deleted", len(items), del)
	}
	// oldest entries go first
	if len(items) > 0 && items[0].Seq == 1 {
		t.Fatalf("expected oldest entry deleted first")
	}
}

func TestTrimHookEmittedOnTrim(t *testing.T) {
	l := newTestLog(t)
	hook := &captureTrimHook{}
	l.SetTrimHook(hook)

	now := time.Now().UnixMilli()
	if _, err := l.Append(context.Background(), []AppendRecord{
		{Header: EncodeHeader(now-10_000, 0)},
		{Header: EncodeHeader(now, 0)},
	}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if _, _, err := l.TrimOlderThan(context.Background(), now-1, 10, 0); err != nil {
		t.Fatalf("trim: %v", err)
	}
	if !hook.called || hook.run != l.Run() || hook.min != 1 || hook.max != 1 {
		t.Fatalf("hook range: called=%v run=%q min=%d max=%d", hook.called, hook.run, hook.min, hook.max)
	}
}

func TestTrimHookEmittedOnBytesTrim(t *testing.T) {
	l := newTestLog(t)
	hook := &captureTrimHook{}
	l.SetTrimHook(hook)

	for i := 0; i < 3; i++ {
		if _, err := l.Append(context.Background(), []AppendRecord{{Header: EncodeHeader(int64(i+1), 0), Payload: []byte("0123456789")}}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	if _, err := l.TrimToMaxBytes(context.Background(), 20, 10, 0); err != nil {
		t.Fatalf("trim bytes: %v", err)
	}
	if !hook.called || hook.min != 1 {
		t.Fatalf("expected hook starting at seq 1, got called=%v min=%d", hook.called, hook.min)
	}
}
