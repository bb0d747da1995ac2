// Package smallmap provides a fixed-capacity, insertion-ordered key/value
// container for small property sets such as build item metadata.
//
// # Overview
//
// Below a small capacity threshold the map is a flat entry slice scanned
// linearly: no hashing, cheap to construct, cheap to iterate. Above the
// threshold New transparently switches to a hash-backed form that keeps the
// same insertion-order iteration and the same contract. Callers only ever see
// the Map interface.
//
// The container is append-oriented: entries are added until the declared
// capacity is reached and read afterward. Removal and clearing are not
// supported and fail loudly rather than silently doing nothing.
//
// Quick start
//
//	m := smallmap.New[string, string](4)
//	_ = m.Add("Link", "foo.cs")
//	v, ok := m.Get("Link")
//	m.Range(func(k, v string) bool { ... ; return true })
package smallmap
