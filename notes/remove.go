package notes

import (
	"github.com/wsharkey/smf/event"
	"github.com/wsharkey/smf/timedevent"
	"github.com/wsharkey/smf/track"
)

// TimedPredicate decides whether a timed event should be removed.
type TimedPredicate func(te *event.Timed) bool

// RemoveTimedEvents is the lower-level primitive Remove is built on
// (§4.6): it deletes every event in chunk for which predicate returns
// true, evaluating predicate exactly once per event, and recomputes delta
// times afterward. Returns the number of events removed.
func RemoveTimedEvents(chunk *track.Chunk, predicate TimedPredicate) int {
	timed := timedevent.ToAbsolute(chunk.Events)
	kept := make([]event.Timed, 0, len(timed))
	removed := 0
	for i := range timed {
		if predicate(&timed[i]) {
			removed++
			continue
		}
		kept = append(kept, timed[i])
	}
	chunk.Events = timedevent.ToDelta(kept)
	return removed
}

// Selector chooses which reconstructed notes Remove deletes.
type Selector func(n *Note) bool

// Remove runs the pairing engine over chunk, marks the Note-On and
// Note-Off of every Note selector accepts, and deletes them via
// RemoveTimedEvents. Pointer identity into the pairing engine's own
// absolute-time buffer stands in for the unique sentinel tag this
// generalizes: two structurally identical events are still distinct
// entries in that buffer, so marking by pointer can't conflate them, and
// unlike comparing event.Event values directly it never trips over a
// sysex event's non-comparable payload.
func Remove(chunk *track.Chunk, selector Selector) int {
	timed := timedevent.ToAbsolute(chunk.Events)
	items := Pair(timed)

	marked := markSelected(items, selector)
	kept := make([]event.Timed, 0, len(timed))
	for i := range timed {
		if _, ok := marked[&timed[i]]; ok {
			continue
		}
		kept = append(kept, timed[i])
	}
	chunk.Events = timedevent.ToDelta(kept)
	return len(marked) / 2
}

// markSelected marks the On/Off pair of every Note selector accepts and
// returns how many notes matched via the number of map entries (always
// even: one entry per event of the pair).
func markSelected(items []Item, selector Selector) map[*event.Timed]struct{} {
	marked := make(map[*event.Timed]struct{})
	for _, it := range items {
		if it.IsNote() && selector(it.Note) {
			marked[it.Note.On] = struct{}{}
			marked[it.Note.Off] = struct{}{}
		}
	}
	return marked
}

// RemoveIndexed is Remove's indexed-variant counterpart (§4.5): it pairs
// notes across every chunk in chunks, so a Note-On in one track can match
// a Note-Off in another, and deletes the matched notes from whichever
// chunk each half originated in. Returns the total number of notes
// removed across all chunks.
func RemoveIndexed(chunks []*track.Chunk, selector Selector) int {
	perTrack := absoluteByChunk(chunks)
	items := feedIndexed(perTrack)

	marked := markSelected(items, selector)
	for i, chunk := range chunks {
		timed := perTrack[i]
		kept := make([]event.Timed, 0, len(timed))
		for j := range timed {
			if _, ok := marked[&timed[j]]; ok {
				continue
			}
			kept = append(kept, timed[j])
		}
		chunk.Events = timedevent.ToDelta(kept)
	}

	return len(marked) / 2
}
