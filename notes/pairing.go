package notes

import "github.com/wsharkey/smf/event"

// descKind distinguishes the two things a pending node can hold: a Note-On
// waiting for its Note-Off, or a residual event waiting only for its turn
// at the head of the queue.
type descKind uint8

const (
	descNote descKind = iota
	descEvent
)

// descriptor is a node of the pending list: an intrusive doubly-linked
// list (§9's design note), so that drain and Flush unlink nodes in O(1)
// and a handle held on a per-id stack stays valid wherever its node sits.
type descriptor struct {
	kind descKind

	on      *event.Timed
	onTrack int
	off     *event.Timed
	offTrack int

	ev      *event.Timed
	evTrack int

	prev, next *descriptor
	removed    bool
}

// Pairer is the streaming note pairing engine (§4.5). Feed events to it one
// at a time, in stream order; it returns the Items that became ready to
// emit as a side effect of that event (zero or more, since closing the
// queue's head can cascade through several already-complete nodes). Call
// Flush once the stream ends to emit everything still pending.
//
// Pairer is not safe for concurrent use; the engine is inherently
// sequential (§5).
type Pairer struct {
	head, tail *descriptor
	stacks     map[noteID][]*descriptor
}

// NewPairer returns a Pairer ready to accept events.
func NewPairer() *Pairer {
	return &Pairer{stacks: make(map[noteID][]*descriptor)}
}

func (p *Pairer) append(d *descriptor) {
	d.prev = p.tail
	if p.tail != nil {
		p.tail.next = d
	} else {
		p.head = d
	}
	p.tail = d
}

func (p *Pairer) unlink(d *descriptor) {
	if d.prev != nil {
		d.prev.next = d.next
	} else {
		p.head = d.next
	}
	if d.next != nil {
		d.next.prev = d.prev
	} else {
		p.tail = d.prev
	}
	d.prev, d.next = nil, nil
	d.removed = true
}

// popLive pops handles off the per-id stack until it finds one that is
// still in the pending list, discarding any that were already matched and
// drained out from under it (§9: "the algorithm tolerates this by checking
// whether the handle is still live"). Returns nil if the stack runs dry.
func (p *Pairer) popLive(id noteID) *descriptor {
	stack := p.stacks[id]
	for len(stack) > 0 {
		d := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !d.removed {
			p.stacks[id] = stack
			return d
		}
	}
	p.stacks[id] = stack
	return nil
}

// drain walks forward from the head, unlinking and emitting every node
// that is ready (a completed note, or any residual event), stopping at the
// first Note-On still waiting on its Note-Off. That node, and everything
// behind it, stays pending: an output invariant (§3 invariant 5) is that
// notes and residual events surface in the order their Note-On/leading
// event occupies the stream, which head-draining enforces for free.
func (p *Pairer) drain() []Item {
	var items []Item
	for p.head != nil {
		d := p.head
		switch d.kind {
		case descNote:
			if d.off == nil {
				return items
			}
			p.unlink(d)
			items = append(items, Item{Note: &Note{On: d.on, Off: d.off, OnTrack: d.onTrack, OffTrack: d.offTrack}})
		case descEvent:
			p.unlink(d)
			items = append(items, Item{Residual: &Residual{Event: d.ev, Track: d.evTrack}})
		}
	}
	return items
}

// Feed ingests one timed event from track index track (0 for single-track
// callers) and returns the Items the queue can now release.
func (p *Pairer) Feed(te *event.Timed, track int) []Item {
	if id, ok := noteOnID(te.Event); ok {
		d := &descriptor{kind: descNote, on: te, onTrack: track}
		p.append(d)
		p.stacks[id] = append(p.stacks[id], d)
		return nil
	}

	if id, ok := noteOffID(te.Event); ok {
		match := p.popLive(id)
		if match == nil {
			return p.feedResidual(te, track)
		}
		match.off = te
		match.offTrack = track
		if p.head == match {
			return p.drain()
		}
		return nil
	}

	return p.feedResidual(te, track)
}

// feedResidual handles any event that is not itself entering the queue as
// a Note-On: an orphan Note-Off, or any other event kind. An empty queue
// emits it immediately (§4.5: "a residual event with nothing ahead of it
// passes straight through"); otherwise it queues behind whatever is
// already pending and waits its turn.
func (p *Pairer) feedResidual(te *event.Timed, track int) []Item {
	if p.head == nil {
		return []Item{{Residual: &Residual{Event: te, Track: track}}}
	}
	d := &descriptor{kind: descEvent, ev: te, evTrack: track}
	p.append(d)
	return nil
}

// Flush emits everything still pending at end of stream, in queue order.
// An unmatched Note-On surfaces as a Residual carrying its bare timed
// event (§4.5's orphan-Note-On tolerance), not as a Note.
func (p *Pairer) Flush() []Item {
	var items []Item
	for d := p.head; d != nil; {
		next := d.next
		switch d.kind {
		case descNote:
			if d.off != nil {
				items = append(items, Item{Note: &Note{On: d.on, Off: d.off, OnTrack: d.onTrack, OffTrack: d.offTrack}})
			} else {
				items = append(items, Item{Residual: &Residual{Event: d.on, Track: d.onTrack}})
			}
		case descEvent:
			items = append(items, Item{Residual: &Residual{Event: d.ev, Track: d.evTrack}})
		}
		p.unlink(d)
		d = next
	}
	return items
}

// Pair runs the pairing engine over a single track's absolute-time
// sequence, feeding it in order and flushing at the end. The returned
// Items' Note/Residual pointers alias timed, so later index-free edits
// through Note.SetTime/SetLength mutate timed in place.
func Pair(timed []event.Timed) []Item {
	p := NewPairer()
	items := make([]Item, 0, len(timed))
	for i := range timed {
		items = append(items, p.Feed(&timed[i], 0)...)
	}
	items = append(items, p.Flush()...)
	return items
}

// IndexedTimed is one event of a multi-track merged stream, carrying the
// index of the track it came from (§4.5's "Indexed variant").
type IndexedTimed struct {
	Event event.Event
	Time  int64
	Track int
}

// PairIndexed runs the pairing engine over a pre-merged multi-track
// stream. Callers are responsible for the merge/ordering of input across
// tracks; PairIndexed only tracks, per event, which track it came from, so
// a Note's On and Off can originate from different tracks.
func PairIndexed(input []IndexedTimed) []Item {
	storage := make([]event.Timed, len(input))
	for i, it := range input {
		storage[i] = event.Timed{Event: it.Event, Time: it.Time}
	}

	p := NewPairer()
	items := make([]Item, 0, len(input))
	for i := range storage {
		items = append(items, p.Feed(&storage[i], input[i].Track)...)
	}
	items = append(items, p.Flush()...)
	return items
}
