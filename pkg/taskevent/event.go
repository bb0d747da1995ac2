package taskevent

import (
	"sync"
	"time"
)

// Kind categorizes the parameter activity being logged.
type Kind uint8

const (
	TaskInput Kind = iota
	TaskOutput
	AddItem
	RemoveItem
)

func (k Kind) String() string {
	switch k {
	case TaskInput:
		return "TaskInput"
	case TaskOutput:
		return "TaskOutput"
	case AddItem:
		return "AddItem"
	case RemoveItem:
		return "RemoveItem"
	default:
		return "Unknown"
	}
}

func (k Kind) valid() bool { return k <= RemoveItem }

// Event is one parameter-logging occurrence. It is immutable after
// construction except for the lazily memoized message.
type Event struct {
	kind            Kind
	itemName        string
	hasItemName     bool
	items           []Item
	logItemMetadata bool
	timestamp       time.Time
	context         *BuildContext
	formatter       Formatter

	msgOnce sync.Once
	msg     string
}

// Option configures an Event at construction.
type Option func(*Event)

// WithItemName sets the display name of the item collection (a task
// parameter or item-type name). Absent by default.
func WithItemName(name string) Option {
	return func(e *Event) { e.itemName = name; e.hasItemName = true }
}

// WithTimestamp overrides the construction-time timestamp.
func WithTimestamp(t time.Time) Option {
	return func(e *Event) { e.timestamp = t }
}

// WithContext attaches build coordinates to the event.
func WithContext(c BuildContext) Option {
	return func(e *Event) { e.context = &c }
}

// WithItemMetadata controls whether item metadata is serialized for this
// event. Defaults to true; low-verbosity logging passes false and the wire
// carries a zero metadata count for every item.
func WithItemMetadata(on bool) Option {
	return func(e *Event) { e.logItemMetadata = on }
}

// WithFormatter injects the message formatter for this event. Decoded events
// inherit the codec's formatter instead.
func WithFormatter(f Formatter) Option {
	return func(e *Event) { e.formatter = f }
}

// New constructs an event. items may be nil; order is significant and is
// preserved through encode/decode.
func New(kind Kind, items []Item, opts ...Option) *Event {
	e := &Event{
		kind:            kind,
		items:           items,
		logItemMetadata: true,
		timestamp:       time.Now(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Kind returns the event kind.
func (e *Event) Kind() Kind { return e.kind }

// ItemName returns the item collection name and whether one was set.
func (e *Event) ItemName() (string, bool) { return e.itemName, e.hasItemName }

// Items returns the ordered item list. Callers must not mutate it.
func (e *Event) Items() []Item { return e.items }

// LogItemMetadata reports whether metadata is serialized for this event.
func (e *Event) LogItemMetadata() bool { return e.logItemMetadata }

// Timestamp returns when the event occurred.
func (e *Event) Timestamp() time.Time { return e.timestamp }

// Context returns the build coordinates, or nil when absent.
func (e *Event) Context() *BuildContext { return e.context }

// Message returns the human-readable rendering of the event. The formatter
// runs at most once per event; concurrent callers all observe the value of
// that single computation. Message is never serialized.
func (e *Event) Message() string {
	e.msgOnce.Do(func() {
		f := e.formatter
		if f == nil {
			f = formatEvent
		}
		e.msg = f(e)
	})
	return e.msg
}
