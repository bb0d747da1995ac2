package taskevent

import "github.com/Vivek2302/msbuild/pkg/smallmap"

// Metadata holds an item's auxiliary key/value pairs in insertion order.
type Metadata = smallmap.Map[string, string]

// NewMetadata returns an empty metadata map with the given capacity.
func NewMetadata(capacity int) Metadata {
	return smallmap.New[string, string](capacity)
}

// Item is the tagged representation of one logged value. Exactly three
// variants exist: NamedItem, ScalarItem, and SourcedItem.
type Item interface {
	itemTag()
}

// NamedItem is a structured build item: a spec string (typically a file
// path) plus optional metadata. A nil metadata map and an empty one encode
// identically.
type NamedItem struct {
	Spec     string
	Metadata Metadata
}

func (NamedItem) itemTag() {}

// ScalarItem is any other logged value rendered to its textual form.
type ScalarItem struct {
	Text string
}

func (ScalarItem) itemTag() {}

// ItemSource is the capability a live build item exposes so its metadata can
// be extracted lazily at encode time. MetadataValue may fail per key; the
// encoder degrades that one entry instead of aborting the event.
type ItemSource interface {
	ItemSpec() string
	MetadataKeys() []string
	MetadataValue(key string) (string, error)
}

// SourcedItem defers spec and metadata extraction to an ItemSource.
type SourcedItem struct {
	Source ItemSource
}

func (SourcedItem) itemTag() {}
