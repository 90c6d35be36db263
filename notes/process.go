package notes

import (
	"sort"

	"github.com/wsharkey/smf/event"
	"github.com/wsharkey/smf/timedevent"
	"github.com/wsharkey/smf/track"
)

// Action is invoked once per reconstructed Note during Process; it may
// move or resize the note via Note.SetTime/Note.SetLength.
type Action func(n *Note)

// Process runs the pairing engine over chunk, invokes action on every
// reconstructed Note, and rewrites chunk's events in canonical order
// (stable-sorted by absolute time, delta times recomputed) if and only if
// action changed any note's time or length (§4.6). A pass where action
// never mutates a note leaves chunk exactly as it was decoded, including
// event ordering.
func Process(chunk *track.Chunk, action Action) {
	timed := timedevent.ToAbsolute(chunk.Events)
	items := Pair(timed)

	changed := false
	for _, it := range items {
		if !it.IsNote() {
			continue
		}
		n := it.Note
		beforeTime, beforeLength := n.Time(), n.Length()
		action(n)
		if n.Time() != beforeTime || n.Length() != beforeLength {
			changed = true
		}
	}

	if !changed {
		return
	}
	chunk.Events = timedevent.Canonicalize(timed)
}

// refIndexed locates one event within its originating chunk's
// absolute-time buffer, so a multi-track merge can still hand the pairing
// engine a real, addressable *event.Timed instead of a detached copy.
type refIndexed struct {
	track int
	idx   int
	time  int64
}

// absoluteByChunk projects every chunk to its own absolute-time buffer.
// Buffers are returned, not discarded, because callers mutate or filter
// them in place and write the result back with timedevent.ToDelta.
func absoluteByChunk(chunks []*track.Chunk) [][]event.Timed {
	out := make([][]event.Timed, len(chunks))
	for i, c := range chunks {
		out[i] = timedevent.ToAbsolute(c.Events)
	}
	return out
}

// feedIndexed stable-sorts references to every chunk's buffered events by
// absolute time and runs them through one Pairer, so a Note-On in one
// track can pair with a Note-Off in another while Note.On/Note.Off still
// point straight into the owning chunk's buffer.
func feedIndexed(perTrack [][]event.Timed) []Item {
	var refs []refIndexed
	for ti, evs := range perTrack {
		for i, te := range evs {
			refs = append(refs, refIndexed{ti, i, te.Time})
		}
	}
	sort.SliceStable(refs, func(a, b int) bool { return refs[a].time < refs[b].time })

	p := NewPairer()
	items := make([]Item, 0, len(refs))
	for _, r := range refs {
		items = append(items, p.Feed(&perTrack[r.track][r.idx], r.track)...)
	}
	items = append(items, p.Flush()...)
	return items
}

// ProcessIndexed runs Process across several chunks at once, so that a
// Note-On in one track may pair with a Note-Off in another (§4.5's
// indexed variant of the pairing engine). Only the chunks that actually
// had a note move or resize are rewritten; the others are left untouched.
func ProcessIndexed(chunks []*track.Chunk, action Action) {
	perTrack := absoluteByChunk(chunks)
	items := feedIndexed(perTrack)

	changedTrack := make(map[int]bool)
	for _, it := range items {
		if !it.IsNote() {
			continue
		}
		n := it.Note
		beforeTime, beforeLength := n.Time(), n.Length()
		action(n)
		if n.Time() != beforeTime || n.Length() != beforeLength {
			changedTrack[n.OnTrack] = true
			changedTrack[n.OffTrack] = true
		}
	}

	for i, chunk := range chunks {
		if !changedTrack[i] {
			continue
		}
		chunk.Events = timedevent.Canonicalize(perTrack[i])
	}
}
