package replay

import (
	"context"
	"testing"
	"time"

	"github.com/Vivek2302/msbuild/internal/eventlog"
	pebblestore "github.com/Vivek2302/msbuild/internal/storage/pebble"
	"github.com/Vivek2302/msbuild/pkg/taskevent"
)

type testPair struct {
	rec *Recorder
	rep *Replayer
	log *eventlog.Log
	db  *pebblestore.DB
}

func newTestPair(t *testing.T) testPair {
	t.Helper()
	dir := t.TempDir()
	db, err := pebblestore.Open(pebblestore.Options{DataDir: dir, Fsync: pebblestore.FsyncModeAlways})
	if err != nil {
		t.Fatalf("open pebble: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	l, err := eventlog.OpenLog(db, "run-1")
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	codec := taskevent.NewCodec()
	return testPair{rec: NewRecorder(l, codec, nil), rep: NewReplayer(l, codec, nil), log: l, db: db}
}

func namedEvent(kind taskevent.Kind, name string, specs ...string) *taskevent.Event {
	items := make([]taskevent.Item, len(specs))
	for i, s := range specs {
		items[i] = taskevent.NamedItem{Spec: s}
	}
	return taskevent.New(kind, items, taskevent.WithItemName(name))
}

func TestRecordThenReplay(t *testing.T) {
	p := newTestPair(t)
	rec, rep := p.rec, p.rep
	ctx := context.Background()

	events := []*taskevent.Event{
		namedEvent(taskevent.AddItem, "Compile", "a.cs", "b.cs"),
		namedEvent(taskevent.TaskOutput, "OutputPath", "bin/"),
	}
	seqs, err := rec.Record(ctx, events...)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if len(seqs) != 2 {
		t.Fatalf("want 2 seqs, got %d", len(seqs))
	}

	var got []*taskevent.Event
	n, err := rep.Replay(ctx, Options{}, func(seq uint64, e *taskevent.Event) error {
		got = append(got, e)
		return nil
	})
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if n != 2 || len(got) != 2 {
		t.Fatalf("want 2 visited, got %d", n)
	}
	if got[0].Kind() != taskevent.AddItem || got[1].Kind() != taskevent.TaskOutput {
		t.Fatalf("kinds out of order: %v, %v", got[0].Kind(), got[1].Kind())
	}
	if name, ok := got[0].ItemName(); !ok || name != "Compile" {
		t.Fatalf("item name: %q ok=%v", name, ok)
	}
}

func TestReplayFilterByKind(t *testing.T) {
	p := newTestPair(t)
	rec, rep := p.rec, p.rep
	ctx := context.Background()
	_, err := rec.Record(ctx,
		namedEvent(taskevent.TaskInput, "Sources", "a.cs"),
		namedEvent(taskevent.AddItem, "Compile", "b.cs"),
		namedEvent(taskevent.TaskInput, "Refs", "c.dll"),
	)
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	n, err := rep.Replay(ctx, Options{Filter: `kind == "TaskInput"`}, func(seq uint64, e *taskevent.Event) error {
		if e.Kind() != taskevent.TaskInput {
			t.Fatalf("filter let through %v", e.Kind())
		}
		return nil
	})
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if n != 2 {
		t.Fatalf("want 2 matches, got %d", n)
	}
}

func TestReplayFilterBySpecs(t *testing.T) {
	p := newTestPair(t)
	rec, rep := p.rec, p.rep
	ctx := context.Background()
	_, err := rec.Record(ctx,
		namedEvent(taskevent.AddItem, "Compile", "main.cs"),
		namedEvent(taskevent.AddItem, "Compile", "util.cs"),
	)
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	n, err := rep.Replay(ctx, Options{Filter: `"main.cs" in specs`}, func(uint64, *taskevent.Event) error { return nil })
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if n != 1 {
		t.Fatalf("want 1 match, got %d", n)
	}
}

func TestReplayBadFilterExpression(t *testing.T) {
	p := newTestPair(t)
	if _, err := p.rep.Replay(context.Background(), Options{Filter: "kind =="}, func(uint64, *taskevent.Event) error { return nil }); err == nil {
		t.Fatalf("expected filter compile error")
	}
}

func TestReplayLimitAndReverse(t *testing.T) {
	p := newTestPair(t)
	rec, rep := p.rec, p.rep
	ctx := context.Background()
	_, err := rec.Record(ctx,
		namedEvent(taskevent.AddItem, "A", "1"),
		namedEvent(taskevent.AddItem, "B", "2"),
		namedEvent(taskevent.AddItem, "C", "3"),
	)
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	var names []string
	n, err := rep.Replay(ctx, Options{Reverse: true, Limit: 2}, func(seq uint64, e *taskevent.Event) error {
		name, _ := e.ItemName()
		names = append(names, name)
		return nil
	})
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if n != 2 || len(names) != 2 || names[0] != "C" || names[1] != "B" {
		t.Fatalf("reverse limited replay: n=%d names=%v", n, names)
	}
}

func TestReplayCursorResumeAndCommit(t *testing.T) {
	p := newTestPair(t)
	rec, rep := p.rec, p.rep
	ctx := context.Background()
	_, err := rec.Record(ctx,
		namedEvent(taskevent.AddItem, "A", "1"),
		namedEvent(taskevent.AddItem, "B", "2"),
	)
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	n, err := rep.Replay(ctx, Options{Consumer: "console"}, func(uint64, *taskevent.Event) error { return nil })
	if err != nil || n != 2 {
		t.Fatalf("first pass: n=%d err=%v", n, err)
	}
	tok, ok := p.log.GetCursor("console")
	if !ok || tok.Seq() != 2 {
		t.Fatalf("cursor after first pass: ok=%v seq=%d", ok, tok.Seq())
	}

	// nothing new: second pass visits zero events
	n, err = rep.Replay(ctx, Options{Consumer: "console"}, func(uint64, *taskevent.Event) error { return nil })
	if err != nil || n != 0 {
		t.Fatalf("second pass: n=%d err=%v", n, err)
	}

	// new event: only it is visited
	if _, err := rec.Record(ctx, namedEvent(taskevent.AddItem, "C", "3")); err != nil {
		t.Fatalf("record: %v", err)
	}
	var last string
	n, err = rep.Replay(ctx, Options{Consumer: "console"}, func(seq uint64, e *taskevent.Event) error {
		last, _ = e.ItemName()
		return nil
	})
	if err != nil || n != 1 || last != "C" {
		t.Fatalf("third pass: n=%d last=%q err=%v", n, last, err)
	}
}

func TestReplayBadPayloadPolicies(t *testing.T) {
	p := newTestPair(t)
	rec, rep := p.rec, p.rep
	ctx := context.Background()
	seqs, err := rec.Record(ctx,
		namedEvent(taskevent.AddItem, "A", "1"),
		namedEvent(taskevent.AddItem, "B", "2"),
	)
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	// rewrite the first entry with an unknown format version
	bad := eventlog.EncodeRecord(eventlog.EncodeHeader(time.Now().UnixMilli(), 0), []byte{0x7f, 0x01})
	if err := p.db.Set(eventlog.KeyRunEntry("run-1", seqs[0]), bad); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	n, err := rep.Replay(ctx, Options{}, func(uint64, *taskevent.Event) error { return nil })
	if err != nil {
		t.Fatalf("skip policy errored: %v", err)
	}
	if n != 1 {
		t.Fatalf("skip policy: want 1 visited, got %d", n)
	}

	if _, err := rep.Replay(ctx, Options{OnBad: AbortOnBad}, func(uint64, *taskevent.Event) error { return nil }); err == nil {
		t.Fatalf("abort policy: expected error")
	}
}
