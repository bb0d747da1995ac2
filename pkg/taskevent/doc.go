// Package taskevent implements the compact logging payload a build engine
// uses to record task parameter activity: task inputs, task outputs, and
// item-group adds/removes.
//
// # Overview
//
// An Event carries a kind, an optional item collection name, and an ordered
// list of items, each of which may carry string metadata held in a
// smallmap.Map. Codec serializes events to a versioned binary layout and
// back:
//
//	timestamp | optional context | kind varint | optional item name |
//	item count varint | per item: spec string, metadata count varint, pairs
//
// Var-ints are 7 bits per byte, low bits first, continuation in the high bit.
// Strings are length-prefixed UTF-8. The timestamp is fixed-width and round
// trips exactly.
//
// The wire format is intentionally lossy in one spot: a scalar item and a
// metadata-free named item encode identically, so decode always materializes
// the named shape.
//
// Quick start
//
//	ev := taskevent.New(taskevent.AddItem,
//	    []taskevent.Item{taskevent.NamedItem{Spec: "foo.cs", Metadata: md}},
//	    taskevent.WithItemName("Compile"))
//	c := taskevent.NewCodec()
//	data, _ := c.Encode(ev)
//	back, _ := c.Decode(data, taskevent.CurrentVersion)
//	fmt.Println(back.Message())
package taskevent
