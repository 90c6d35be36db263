package notes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wsharkey/smf/event"
	"github.com/wsharkey/smf/notes"
	"github.com/wsharkey/smf/track"
)

func noteChunk() *track.Chunk {
	return &track.Chunk{Events: []track.Entry{
		{DeltaTime: 0, Event: event.NoteOn{Channel: 0, Note: 60, Velocity: 100}},
		{DeltaTime: 10, Event: event.NoteOff{Channel: 0, Note: 60, Velocity: 0}},
		{DeltaTime: 5, Event: event.NoteOn{Channel: 0, Note: 62, Velocity: 100}},
		{DeltaTime: 10, Event: event.NoteOff{Channel: 0, Note: 62, Velocity: 0}},
	}}
}

// A no-op action leaves the chunk's event order and delta times untouched.
func TestProcess_NoopLeavesChunkUnchanged(t *testing.T) {
	chunk := noteChunk()
	before := append([]track.Entry(nil), chunk.Events...)

	notes.Process(chunk, func(n *notes.Note) {})

	assert.Equal(t, before, chunk.Events)
}

// Moving the first note past the second note's onset forces a reorder; the
// rewritten chunk lists the note events in their new absolute-time order.
func TestProcess_ReorderOnTimeShift(t *testing.T) {
	chunk := noteChunk()

	notes.Process(chunk, func(n *notes.Note) {
		if n.NoteNumber() == 60 {
			n.SetTime(20) // now starts after note 62's onset (time 15)
		}
	})

	// note 62's on/off should now sort before note 60's on/off.
	var order []uint8
	for _, e := range chunk.Events {
		switch ev := e.Event.(type) {
		case event.NoteOn:
			order = append(order, ev.Note)
		case event.NoteOff:
			order = append(order, ev.Note)
		}
	}
	assert.Equal(t, []uint8{62, 60, 62, 60}, order)
}

// Process across several tracks pairs a Note-On in one with a Note-Off in
// another, and only rewrites tracks where a note actually moved.
func TestProcessIndexed_CrossTrackPairingAndSelectiveRewrite(t *testing.T) {
	track0 := &track.Chunk{Events: []track.Entry{
		{DeltaTime: 0, Event: event.NoteOn{Channel: 0, Note: 60, Velocity: 100}},
	}}
	track1 := &track.Chunk{Events: []track.Entry{
		{DeltaTime: 10, Event: event.NoteOff{Channel: 0, Note: 60, Velocity: 0}},
	}}
	untouched := &track.Chunk{Events: []track.Entry{
		{DeltaTime: 0, Event: event.NoteOn{Channel: 1, Note: 1, Velocity: 1}},
		{DeltaTime: 1, Event: event.NoteOff{Channel: 1, Note: 1, Velocity: 0}},
	}}
	untouchedBefore := append([]track.Entry(nil), untouched.Events...)

	notes.ProcessIndexed([]*track.Chunk{track0, track1, untouched}, func(n *notes.Note) {
		if n.NoteNumber() == 60 {
			n.SetLength(n.Length() + 5)
		}
	})

	assert.Equal(t, untouchedBefore, untouched.Events)
	assert.Equal(t, uint32(15), track1.Events[0].DeltaTime)
}

func TestRemoveTimedEvents_FiltersByPredicate(t *testing.T) {
	chunk := noteChunk()
	removed := notes.RemoveTimedEvents(chunk, func(te *event.Timed) bool {
		_, isOff := te.Event.(event.NoteOff)
		return isOff
	})

	assert.Equal(t, 2, removed)
	for _, e := range chunk.Events {
		_, isOff := e.Event.(event.NoteOff)
		assert.False(t, isOff)
	}
}

// Remove deletes both the Note-On and Note-Off of every selected note,
// leaving the rest of the track intact and in original relative order.
func TestRemove_DeletesBothEventsOfSelectedNote(t *testing.T) {
	chunk := noteChunk()

	removed := notes.Remove(chunk, func(n *notes.Note) bool { return n.NoteNumber() == 60 })

	assert.Equal(t, 1, removed)
	require := func(cond bool) {
		if !cond {
			t.Fatal("expected note 62 events to survive, note 60 events to be gone")
		}
	}
	var notesLeft []uint8
	for _, e := range chunk.Events {
		switch ev := e.Event.(type) {
		case event.NoteOn:
			notesLeft = append(notesLeft, ev.Note)
		case event.NoteOff:
			notesLeft = append(notesLeft, ev.Note)
		}
	}
	require(len(notesLeft) == 2 && notesLeft[0] == 62 && notesLeft[1] == 62)
}

func TestRemoveIndexed_DeletesAcrossTracks(t *testing.T) {
	track0 := &track.Chunk{Events: []track.Entry{
		{DeltaTime: 0, Event: event.NoteOn{Channel: 0, Note: 60, Velocity: 100}},
	}}
	track1 := &track.Chunk{Events: []track.Entry{
		{DeltaTime: 10, Event: event.NoteOff{Channel: 0, Note: 60, Velocity: 0}},
	}}

	removed := notes.RemoveIndexed([]*track.Chunk{track0, track1}, func(n *notes.Note) bool { return true })

	assert.Equal(t, 1, removed)
	assert.Empty(t, track0.Events)
	assert.Empty(t, track1.Events)
}
