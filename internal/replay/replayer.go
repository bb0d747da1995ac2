package replay

import (
	"context"
	"fmt"

	"github.com/Vivek2302/msbuild/internal/eventlog"
	"github.com/Vivek2302/msbuild/pkg/log"
	"github.com/Vivek2302/msbuild/pkg/taskevent"
)

// readPageSize bounds how many stored records one Read call pulls.
const readPageSize = 256

// BadRecordPolicy decides what happens when a stored payload fails to decode.
type BadRecordPolicy int

const (
	// SkipBad logs undecodable payloads and continues.
	SkipBad BadRecordPolicy = iota
	// AbortOnBad stops the replay with an error.
	AbortOnBad
)

// Visit receives each decoded event in sequence order. Returning an error
// stops the replay.
type Visit func(seq uint64, e *taskevent.Event) error

// Options configures one replay pass.
type Options struct {
	// Filter is a CEL expression over decoded events. Empty matches all.
	Filter string
	// Limit caps the number of visited events. Zero means no cap.
	Limit int
	// Reverse replays newest-first.
	Reverse bool
	// Consumer names a durable cursor. When set, the replay resumes after
	// the committed position and commits the highest visited sequence when
	// the pass finishes.
	Consumer string
	// OnBad selects the policy for undecodable payloads.
	OnBad BadRecordPolicy
}

// Replayer streams decoded events from a run's log.
type Replayer struct {
	log    *eventlog.Log
	codec  *taskevent.Codec
	logger log.Logger
}

// NewReplayer wires a codec to a run's log. logger may be nil.
func NewReplayer(l *eventlog.Log, codec *taskevent.Codec, logger log.Logger) *Replayer {
	if logger == nil {
		logger = log.NewLogger(log.WithLevel(log.InfoLevel))
	}
	return &Replayer{log: l, codec: codec, logger: logger.WithComponent("replayer")}
}

// Replay streams matching events to visit and returns how many were visited.
func (r *Replayer) Replay(ctx context.Context, opts Options, visit Visit) (int, error) {
	filter, err := newCELFilter(opts.Filter)
	if err != nil {
		return 0, fmt.Errorf("replay: bad filter: %w", err)
	}

	var start eventlog.Token
	if opts.Consumer != "" && !opts.Reverse {
		if tok, ok := r.log.GetCursor(opts.Consumer); ok {
			start = eventlog.TokenFromSeq(tok.Seq() + 1)
		}
	}

	visited := 0
	var maxSeq uint64
	for {
		if err := ctx.Err(); err != nil {
			return visited, err
		}
		items, next := r.log.Read(eventlog.ReadOptions{Start: start, Limit: readPageSize, Reverse: opts.Reverse})
		for _, it := range items {
			if opts.Limit > 0 && visited >= opts.Limit {
				return r.finish(opts, visited, maxSeq, nil)
			}
			e, decErr := r.decode(it)
			if decErr != nil {
				if opts.OnBad == AbortOnBad {
					return r.finish(opts, visited, maxSeq, fmt.Errorf("replay: seq %d: %w", it.Seq, decErr))
				}
				r.logger.Warn("skipping undecodable payload",
					log.Str("run", r.log.Run()),
					log.Uint64("seq", it.Seq),
					log.Err(decErr))
				continue
			}
			tsMs, _, _ := eventlog.DecodeHeader(it.Header)
			if !filter.Eval(it.Seq, tsMs, e) {
				continue
			}
			if err := visit(it.Seq, e); err != nil {
				return r.finish(opts, visited, maxSeq, err)
			}
			visited++
			if it.Seq > maxSeq {
				maxSeq = it.Seq
			}
		}
		if len(items) == 0 || next.Seq() == 0 {
			break
		}
		if opts.Reverse {
			// reverse reads treat Start as exclusive
			start = eventlog.TokenFromSeq(next.Seq() + 1)
		} else {
			start = next
		}
	}
	return r.finish(opts, visited, maxSeq, nil)
}

func (r *Replayer) decode(it eventlog.Item) (*taskevent.Event, error) {
	if len(it.Payload) < 1 {
		return nil, fmt.Errorf("replay: empty payload")
	}
	return r.codec.Decode(it.Payload[1:], int(it.Payload[0]))
}

func (r *Replayer) finish(opts Options, visited int, maxSeq uint64, err error) (int, error) {
	if opts.Consumer != "" && maxSeq > 0 {
		if cErr := r.log.CommitCursor(opts.Consumer, eventlog.TokenFromSeq(maxSeq)); cErr != nil && err == nil {
			err = cErr
		}
	}
	return visited, err
}
