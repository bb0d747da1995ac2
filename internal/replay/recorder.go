package replay

import (
	"context"

	"github.com/Vivek2302/msbuild/internal/eventlog"
	"github.com/Vivek2302/msbuild/pkg/log"
	"github.com/Vivek2302/msbuild/pkg/taskevent"
)

// Recorder encodes events and appends them to one run's log.
type Recorder struct {
	log    *eventlog.Log
	codec  *taskevent.Codec
	logger log.Logger
}

// NewRecorder wires a codec to a run's log. logger may be nil.
func NewRecorder(l *eventlog.Log, codec *taskevent.Codec, logger log.Logger) *Recorder {
	if logger == nil {
		logger = log.NewLogger(log.WithLevel(log.InfoLevel))
	}
	return &Recorder{log: l, codec: codec, logger: logger.WithComponent("recorder")}
}

// Record encodes and appends the events as one atomic batch, returning the
// assigned sequence numbers.
func (r *Recorder) Record(ctx context.Context, events ...*taskevent.Event) ([]uint64, error) {
	if len(events) == 0 {
		return nil, nil
	}
	recs := make([]eventlog.AppendRecord, 0, len(events))
	for _, e := range events {
		payload, err := r.codec.Encode(e)
		if err != nil {
			return nil, err
		}
		versioned := make([]byte, 0, 1+len(payload))
		versioned = append(versioned, byte(taskevent.CurrentVersion))
		versioned = append(versioned, payload...)
		recs = append(recs, eventlog.AppendRecord{
			Header:  eventlog.EncodeHeader(e.Timestamp().UnixMilli(), byte(e.Kind())),
			Payload: versioned,
		})
	}
	seqs, err := r.log.Append(ctx, recs)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("recorded events",
		log.Str("run", r.log.Run()),
		log.Int("count", len(seqs)))
	return seqs, nil
}
