package timedevent_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wsharkey/smf/event"
	"github.com/wsharkey/smf/timedevent"
	"github.com/wsharkey/smf/track"
)

func TestToAbsoluteAndBack(t *testing.T) {
	entries := []track.Entry{
		{DeltaTime: 0, Event: event.NoteOn{Channel: 0, Note: 60, Velocity: 100}},
		{DeltaTime: 10, Event: event.NoteOff{Channel: 0, Note: 60, Velocity: 0}},
		{DeltaTime: 5, Event: event.NoteOn{Channel: 0, Note: 62, Velocity: 100}},
	}

	timed := timedevent.ToAbsolute(entries)
	assert.Equal(t, []int64{0, 10, 15}, times(timed))

	back := timedevent.ToDelta(timed)
	assert.Equal(t, entries, back)
}

// Canonicalize takes an absolute-time sequence that may have gone out of
// monotonic order — e.g. after a note's Time was edited earlier than its
// neighbors by notes.Process — and restores a valid delta-time entry list.
func TestCanonicalize_StableSortsByAbsoluteTime(t *testing.T) {
	a := event.NoteOn{Channel: 0, Note: 1, Velocity: 1}
	b := event.NoteOn{Channel: 0, Note: 2, Velocity: 1}

	timed := []event.Timed{
		{Event: a, Time: 10},
		{Event: b, Time: 5}, // moved earlier than a, now out of order
	}

	reordered := timedevent.Canonicalize(timed)

	assert.Equal(t, b, reordered[0].Event)
	assert.Equal(t, a, reordered[1].Event)
	assert.Equal(t, uint32(5), reordered[0].DeltaTime)
	assert.Equal(t, uint32(5), reordered[1].DeltaTime)
}

// Canonicalize is stable: events left at the same absolute time keep their
// relative order instead of being shuffled by the sort.
func TestCanonicalize_StableAtEqualTimes(t *testing.T) {
	a := event.NoteOn{Channel: 0, Note: 1, Velocity: 1}
	b := event.NoteOn{Channel: 0, Note: 2, Velocity: 1}
	c := event.NoteOn{Channel: 0, Note: 3, Velocity: 1}

	timed := []event.Timed{
		{Event: a, Time: 5},
		{Event: b, Time: 5},
		{Event: c, Time: 5},
	}

	reordered := timedevent.Canonicalize(timed)

	assert.Equal(t, []event.Event{a, b, c}, []event.Event{reordered[0].Event, reordered[1].Event, reordered[2].Event})
}

func times(timed []event.Timed) []int64 {
	out := make([]int64, len(timed))
	for i, te := range timed {
		out[i] = te.Time
	}
	return out
}
