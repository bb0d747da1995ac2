package taskevent

import (
	"errors"
	"fmt"
)

// CurrentVersion is the wire layout described in this package. Decode takes
// the version per call so future layouts can be added without changing the
// call sites.
const CurrentVersion = 1

// ErrUnsupportedVersion is returned when Decode is handed a format version
// this codec does not understand. Guessing field layout is never attempted.
var ErrUnsupportedVersion = errors.New("taskevent: unsupported format version")

// DegradedHook observes per-entry metadata extraction failures that were
// substituted rather than aborting the event write.
type DegradedHook func(itemSpec, key string, err error)

// Codec encodes and decodes events. The zero value is usable; NewCodec adds
// a formatter for decoded events and an optional degraded-write hook.
type Codec struct {
	formatter  Formatter
	onDegraded DegradedHook
}

// CodecOption configures a Codec.
type CodecOption func(*Codec)

// WithMessageFormatter sets the formatter attached to decoded events.
func WithMessageFormatter(f Formatter) CodecOption {
	return func(c *Codec) { c.formatter = f }
}

// WithDegradedHook registers a diagnostics callback for degraded metadata
// writes.
func WithDegradedHook(h DegradedHook) CodecOption {
	return func(c *Codec) { c.onDegraded = h }
}

// NewCodec returns a codec with the given options applied.
func NewCodec(opts ...CodecOption) *Codec {
	c := &Codec{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Encode serializes the event to its binary form.
func (c *Codec) Encode(e *Event) ([]byte, error) {
	if !e.kind.valid() {
		return nil, fmt.Errorf("taskevent: invalid kind %d", e.kind)
	}
	w := &wireWriter{buf: make([]byte, 0, 64)}
	w.writeTimestamp(e.timestamp)
	w.writeContext(e.context)
	w.writeUvarint(uint64(e.kind))
	w.writeOptionalString(e.itemName, e.hasItemName)
	w.writeUvarint(uint64(len(e.items)))
	for _, it := range e.items {
		c.encodeItem(w, it, e.logItemMetadata)
	}
	return w.buf, nil
}

func (c *Codec) encodeItem(w *wireWriter, it Item, logMetadata bool) {
	switch v := it.(type) {
	case NamedItem:
		w.writeString(v.Spec)
		if !logMetadata || v.Metadata == nil {
			w.writeUvarint(0)
			return
		}
		w.writeUvarint(uint64(v.Metadata.Len()))
		v.Metadata.Range(func(k, val string) bool {
			w.writeString(k)
			w.writeString(val)
			return true
		})
	case ScalarItem:
		// Scalars never carry metadata; absent text renders as empty.
		w.writeString(v.Text)
		w.writeUvarint(0)
	case SourcedItem:
		c.encodeSourced(w, v.Source, logMetadata)
	default:
		w.writeString("")
		w.writeUvarint(0)
	}
}

// encodeSourced extracts spec and metadata from a live item. A failed value
// extraction degrades that single entry: the error text is written as the
// value and the write continues. Diagnostics builds hard-fail instead.
func (c *Codec) encodeSourced(w *wireWriter, src ItemSource, logMetadata bool) {
	w.writeString(src.ItemSpec())
	if !logMetadata {
		w.writeUvarint(0)
		return
	}
	keys := src.MetadataKeys()
	// The wire requires unique keys; a source reporting duplicates would
	// otherwise poison decode.
	uniq := keys[:0:0]
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		uniq = append(uniq, k)
	}
	w.writeUvarint(uint64(len(uniq)))
	for _, k := range uniq {
		val, err := src.MetadataValue(k)
		if err != nil {
			if debugAssertions {
				panic(fmt.Sprintf("taskevent: metadata %q of %q: %v", k, src.ItemSpec(), err))
			}
			if c.onDegraded != nil {
				c.onDegraded(src.ItemSpec(), k, err)
			}
			val = fmt.Sprintf("error retrieving metadata value: %v", err)
		}
		w.writeString(k)
		w.writeString(val)
	}
}

// Decode reconstructs an event from its binary form. Truncated or corrupt
// input aborts the whole event; no partial event is ever returned. Every
// decoded item has the named shape: the scalar/named distinction does not
// survive the wire.
func (c *Codec) Decode(data []byte, version int) (*Event, error) {
	if version != CurrentVersion {
		return nil, fmt.Errorf("%w: %d (current %d)", ErrUnsupportedVersion, version, CurrentVersion)
	}
	r := &wireReader{buf: data}

	ts, err := r.readTimestamp()
	if err != nil {
		return nil, err
	}
	ctx, err := r.readContext()
	if err != nil {
		return nil, err
	}
	kindOrd, err := r.readUvarint()
	if err != nil {
		return nil, err
	}
	if kindOrd > uint64(RemoveItem) {
		return nil, fmt.Errorf("%w: unknown event kind %d", ErrCorrupt, kindOrd)
	}
	kind := Kind(kindOrd)
	name, hasName, err := r.readOptionalString()
	if err != nil {
		return nil, err
	}
	itemCount, err := r.readUvarint()
	if err != nil {
		return nil, err
	}
	if itemCount > uint64(r.remaining()) {
		return nil, fmt.Errorf("%w: item count %d exceeds remaining %d bytes", ErrCorrupt, itemCount, r.remaining())
	}
	items := make([]Item, 0, itemCount)
	for i := uint64(0); i < itemCount; i++ {
		it, err := c.decodeItem(r)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}

	return &Event{
		kind:        kind,
		itemName:    name,
		hasItemName: hasName,
		items:       items,
		// Metadata presence is already decided by the structure just read;
		// re-encoding a decoded event preserves whatever pairs it carries.
		logItemMetadata: true,
		timestamp:       ts,
		context:         ctx,
		formatter:       c.formatter,
	}, nil
}

func (c *Codec) decodeItem(r *wireReader) (Item, error) {
	spec, err := r.readString()
	if err != nil {
		return nil, err
	}
	mdCount, err := r.readUvarint()
	if err != nil {
		return nil, err
	}
	if mdCount == 0 {
		return NamedItem{Spec: spec}, nil
	}
	// Each pair needs at least two length bytes.
	if mdCount*2 > uint64(r.remaining()) {
		return nil, fmt.Errorf("%w: metadata count %d exceeds remaining %d bytes", ErrCorrupt, mdCount, r.remaining())
	}
	md := NewMetadata(int(mdCount))
	for i := uint64(0); i < mdCount; i++ {
		k, err := r.readString()
		if err != nil {
			return nil, err
		}
		v, err := r.readString()
		if err != nil {
			return nil, err
		}
		if err := md.Add(k, v); err != nil {
			return nil, fmt.Errorf("%w: metadata: %v", ErrCorrupt, err)
		}
	}
	return NamedItem{Spec: spec, Metadata: md}, nil
}
