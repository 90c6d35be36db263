package track

import (
	"io"

	"github.com/wsharkey/smf/event"
	"github.com/wsharkey/smf/policy"
)

// sink receives one emitted (delta_time, event, write_status_byte) triple
// during traverse; Encode writes bytes with it, Size accumulates lengths.
type sink func(deltaTime uint32, ev event.Event, writeStatusByte bool) error

// traverse drives the shared encode/size pass described in §4.3: it walks
// chunk.Events plus a synthetic trailing EndOfTrack, applies the
// compression policy's filters and default-suppression latches, tracks
// running status, and calls emit once per surviving event with the
// write_status_byte decision already made.
func traverse(events []Entry, opts WriteOptions, emit sink) error {
	var running event.RunningStatus
	skipSetTempo := true
	skipKeySignature := true
	skipTimeSignature := true

	send := func(deltaTime uint32, ev event.Event) error {
		writeStatusByte := true
		if ch, ok := ev.(event.Channel); ok {
			status := ch.StatusByte()
			if opts.Compression.Has(policy.UseRunningStatus) && running.Set && running.Byte == status {
				writeStatusByte = false
			}
			running.Set = true
			running.Byte = status
		} else {
			running.Clear()
		}
		return emit(deltaTime, ev, writeStatusByte)
	}

	for _, entry := range events {
		ev := entry.Event

		if opts.Compression.Has(policy.DeleteUnknownMetaEvents) {
			if _, ok := ev.(event.UnknownMeta); ok {
				continue
			}
		}

		if opts.Compression.Has(policy.NoteOffAsSilentNoteOn) {
			if off, ok := ev.(event.NoteOff); ok {
				ev = event.NoteOn{Channel: off.Channel, Note: off.Note, Velocity: 0}
			}
		}

		if opts.Compression.Has(policy.DeleteDefaultSetTempo) && skipSetTempo {
			if st, ok := ev.(event.SetTempo); ok {
				if st.IsDefault() {
					continue
				}
				skipSetTempo = false
			}
		}

		if opts.Compression.Has(policy.DeleteDefaultKeySignature) && skipKeySignature {
			if ks, ok := ev.(event.KeySignature); ok {
				if ks.IsDefault() {
					continue
				}
				skipKeySignature = false
			}
		}

		if opts.Compression.Has(policy.DeleteDefaultTimeSignature) && skipTimeSignature {
			if ts, ok := ev.(event.TimeSignature); ok {
				if ts.IsDefault() {
					continue
				}
				skipTimeSignature = false
			}
		}

		if err := send(entry.DeltaTime, ev); err != nil {
			return err
		}
	}

	return send(0, event.EndOfTrack)
}

// Encode writes chunk's body (events plus the synthetic trailing
// EndOfTrack) to w under opts, the "emit bytes" handler of §4.3.
func Encode(w io.Writer, chunk *Chunk, opts WriteOptions) error {
	return traverse(chunk.Events, opts, func(deltaTime uint32, ev event.Event, writeStatusByte bool) error {
		return event.EncodeEvent(w, deltaTime, ev, writeStatusByte)
	})
}

// Size reports the byte length Encode would produce for chunk under opts,
// the "accumulate size" handler of §4.3 and §8 property 3. It performs the
// identical traversal (same filtering, same latches, same running-status
// bookkeeping) without writing anything.
func Size(chunk *Chunk, opts WriteOptions) (int, error) {
	total := 0
	err := traverse(chunk.Events, opts, func(deltaTime uint32, ev event.Event, writeStatusByte bool) error {
		total += event.SizeEvent(deltaTime, ev, writeStatusByte)
		return nil
	})
	return total, err
}
