package taskevent

import "strings"

// Formatter renders an event for display. The host supplies one per codec
// (or per event); formatEvent is the fallback.
type Formatter func(*Event) string

func kindHeading(k Kind) string {
	switch k {
	case TaskInput:
		return "Task input parameter"
	case TaskOutput:
		return "Task output"
	case AddItem:
		return "Added item(s)"
	case RemoveItem:
		return "Removed item(s)"
	default:
		return "Task parameter"
	}
}

// formatEvent is the default message rendering:
//
//	Added item(s):
//	    Compile=
//	        foo.cs
//	                Link=foo.cs
func formatEvent(e *Event) string {
	var b strings.Builder
	b.WriteString(kindHeading(e.kind))
	b.WriteString(":")
	if name, ok := e.ItemName(); ok {
		b.WriteString("\n    ")
		b.WriteString(name)
		b.WriteString("=")
	}
	for _, it := range e.items {
		b.WriteString("\n        ")
		switch v := it.(type) {
		case NamedItem:
			b.WriteString(v.Spec)
			if v.Metadata != nil {
				v.Metadata.Range(func(k, val string) bool {
					b.WriteString("\n                ")
					b.WriteString(k)
					b.WriteString("=")
					b.WriteString(val)
					return true
				})
			}
		case ScalarItem:
			b.WriteString(v.Text)
		case SourcedItem:
			b.WriteString(v.Source.ItemSpec())
		}
	}
	return b.String()
}
