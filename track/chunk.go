// Package track implements the track-chunk codec (§4.3): the stateful
// decoder/encoder for a track's event stream, owning running-status state
// and the write-time compression policies. It generalizes the teacher's
// Chunk.Events()/WriteTo pair (seen in the wider gomidi-derived corpus)
// into the two-pass, policy-driven traversal the specification requires.
package track

import "github.com/wsharkey/smf/event"

// Entry is one (delta_time, event) record as it lives in a decoded track's
// in-memory event list. EndOfTrack is never stored here: Chunk.Events is
// always implicitly terminated, and the codec appends/expects exactly one
// EndOfTrack on the wire.
type Entry struct {
	DeltaTime uint32
	Event     event.Event
}

// Chunk is an in-memory MTrk body: an ordered sequence of events.
type Chunk struct {
	Events []Entry
}
