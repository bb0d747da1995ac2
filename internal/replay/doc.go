// Package replay connects the event codec to the event log.
//
// A Recorder encodes task-parameter events and appends them to a run's log.
// Stored payloads carry a one-byte format version ahead of the codec output
// so old runs stay readable after the layout evolves.
//
// A Replayer streams decoded events back out in sequence order, optionally
// filtered by a CEL expression, and can resume from (and commit to) a durable
// consumer cursor.
package replay
