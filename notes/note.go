// Package notes implements the note pairing engine (§4.5): reconstructing
// Note-On/Note-Off pairs from an interleaved timed-event stream, and the
// note-level process/remove helpers built on top of it (§4.6).
package notes

import (
	"fmt"

	"github.com/wsharkey/smf/event"
)

// noteID identifies a Note-On/Note-Off match candidate (§"Identity").
type noteID struct {
	channel uint8
	note    uint8
}

func noteOnID(ev event.Event) (noteID, bool) {
	on, ok := ev.(event.NoteOn)
	if !ok {
		return noteID{}, false
	}
	return noteID{on.Channel, on.Note}, true
}

func noteOffID(ev event.Event) (noteID, bool) {
	off, ok := ev.(event.NoteOff)
	if !ok {
		return noteID{}, false
	}
	return noteID{off.Channel, off.Note}, true
}

// Note is a reconstructed onset/release pair. It is a view: On and Off
// point at the timed events it was built from, so mutating a Note's time
// or length writes straight through to those events (§3's "Notes are a
// view; the underlying events remain the source of truth").
//
// OnTrack/OffTrack carry the originating track index for the indexed
// variant (§4.5); both are 0 for the single-track Pair entry point.
type Note struct {
	On       *event.Timed
	Off      *event.Timed
	OnTrack  int
	OffTrack int
}

// Time is the note's onset, i.e. the underlying Note-On's absolute time.
func (n *Note) Time() int64 { return n.On.Time }

// SetTime moves the note's onset, keeping its length constant by shifting
// the paired Note-Off by the same amount.
func (n *Note) SetTime(t int64) {
	length := n.Length()
	n.On.Time = t
	n.Off.Time = t + length
}

// Length is the time between the paired Note-On and Note-Off. Invariant
// (§3): Length >= 0.
func (n *Note) Length() int64 { return n.Off.Time - n.On.Time }

// SetLength changes the note's length by moving its Note-Off, leaving the
// onset fixed.
func (n *Note) SetLength(length int64) { n.Off.Time = n.On.Time + length }

func (n *Note) onEvent() event.NoteOn { return n.On.Event.(event.NoteOn) }

// Channel is the MIDI channel shared by the Note-On and Note-Off.
func (n *Note) Channel() uint8 { return n.onEvent().Channel }

// NoteNumber is the MIDI note number shared by the Note-On and Note-Off.
func (n *Note) NoteNumber() uint8 { return n.onEvent().Note }

// Velocity is the Note-On's velocity.
func (n *Note) Velocity() uint8 { return n.onEvent().Velocity }

// OffVelocity is the Note-Off's velocity (0 for a normalized silent
// Note-On standing in for a Note-Off).
func (n *Note) OffVelocity() uint8 {
	switch e := n.Off.Event.(type) {
	case event.NoteOff:
		return e.Velocity
	case event.NoteOn:
		return e.Velocity
	default:
		return 0
	}
}

func (n *Note) String() string {
	return fmt.Sprintf("Note(channel=%d note=%d time=%d length=%d vel=%d offvel=%d)",
		n.Channel(), n.NoteNumber(), n.Time(), n.Length(), n.Velocity(), n.OffVelocity())
}

// Residual is a non-note timed event emitted by the pairing engine:
// anything that reached the stream but was never consumed into a Note
// (orphan Note-Off, meta/sysex/control event, or an incomplete Note-On
// still open at end of stream).
type Residual struct {
	Event *event.Timed
	Track int
}

// Item is one output of the pairing engine: exactly one of Note or
// Residual is non-nil.
type Item struct {
	Note     *Note
	Residual *Residual
}

// IsNote reports whether this item is a paired Note.
func (it Item) IsNote() bool { return it.Note != nil }
