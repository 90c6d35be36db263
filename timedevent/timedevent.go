// Package timedevent materializes a track's (delta-time stream) as an
// (absolute-time stream) and back (§4.4), the projection the note pairing
// engine and note-level edits operate over.
package timedevent

import (
	"sort"

	"github.com/wsharkey/smf/event"
	"github.com/wsharkey/smf/track"
)

// ToAbsolute runs a cumulative sum of delta times, turning a track's entry
// list into the ordered absolute-time sequence the pairing engine expects.
// Invariant (§3): for the result, Time[i+1] >= Time[i] whenever the input
// delta times are all non-negative, which the codec guarantees.
func ToAbsolute(entries []track.Entry) []event.Timed {
	out := make([]event.Timed, len(entries))
	var t int64
	for i, e := range entries {
		t += int64(e.DeltaTime)
		out[i] = event.Timed{Event: e.Event, Time: t}
	}
	return out
}

// ToDelta recomputes delta times from an absolute-time sequence:
// delta[i] = time[i] - time[i-1], with time[-1] = 0. The caller is
// responsible for having sorted timed by Time first if it may be out of
// order (see Canonicalize); ToDelta itself does not sort, so it can also be
// used to rebuild a chunk whose absolute-time order is already known good.
func ToDelta(timed []event.Timed) []track.Entry {
	out := make([]track.Entry, len(timed))
	var prev int64
	for i, te := range timed {
		out[i] = track.Entry{DeltaTime: uint32(te.Time - prev), Event: te.Event}
		prev = te.Time
	}
	return out
}

// Canonicalize is the canonicalization step required after any bulk
// time-mutating operation (§4.4, §9): stable-sort an absolute-time
// sequence — typically one whose Time fields were just edited in place,
// e.g. by notes.Process, and so may no longer be monotonic — then
// recompute delta times. Stability preserves the relative order of events
// left at the same absolute time. timed is sorted in place.
func Canonicalize(timed []event.Timed) []track.Entry {
	sort.SliceStable(timed, func(i, j int) bool { return timed[i].Time < timed[j].Time })
	return ToDelta(timed)
}
