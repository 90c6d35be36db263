// Package event implements the per-event codec: the polymorphic MIDI event
// types (channel, meta, system-exclusive) and the running-status-aware
// read/write of a single event. It generalizes the teacher's
// messages/channel and messages/meta packages into one family sharing a
// registry instead of two disjoint package-level dispatch tables.
package event

import "fmt"

// Kind identifies the concrete variant of an Event.
type Kind uint8

const (
	KindNoteOff Kind = iota
	KindNoteOn
	KindPolyphonicKeyPressure
	KindControlChange
	KindProgramChange
	KindChannelPressure
	KindPitchBend

	KindSequenceNumber
	KindText
	KindCopyright
	KindTrackName
	KindInstrumentName
	KindLyric
	KindMarker
	KindCuePoint
	KindChannelPrefix
	KindPortPrefix
	KindEndOfTrack
	KindSetTempo
	KindSmpteOffset
	KindTimeSignature
	KindKeySignature
	KindSequencerSpecific
	KindUnknownMeta

	KindNormalSysEx
	KindEscapeSysEx
)

func (k Kind) String() string {
	switch k {
	case KindNoteOff:
		return "NoteOff"
	case KindNoteOn:
		return "NoteOn"
	case KindPolyphonicKeyPressure:
		return "PolyphonicKeyPressure"
	case KindControlChange:
		return "ControlChange"
	case KindProgramChange:
		return "ProgramChange"
	case KindChannelPressure:
		return "ChannelPressure"
	case KindPitchBend:
		return "PitchBend"
	case KindSequenceNumber:
		return "SequenceNumber"
	case KindText:
		return "Text"
	case KindCopyright:
		return "Copyright"
	case KindTrackName:
		return "TrackName"
	case KindInstrumentName:
		return "InstrumentName"
	case KindLyric:
		return "Lyric"
	case KindMarker:
		return "Marker"
	case KindCuePoint:
		return "CuePoint"
	case KindChannelPrefix:
		return "ChannelPrefix"
	case KindPortPrefix:
		return "PortPrefix"
	case KindEndOfTrack:
		return "EndOfTrack"
	case KindSetTempo:
		return "SetTempo"
	case KindSmpteOffset:
		return "SmpteOffset"
	case KindTimeSignature:
		return "TimeSignature"
	case KindKeySignature:
		return "KeySignature"
	case KindSequencerSpecific:
		return "SequencerSpecific"
	case KindUnknownMeta:
		return "UnknownMeta"
	case KindNormalSysEx:
		return "NormalSysEx"
	case KindEscapeSysEx:
		return "EscapeSysEx"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Event is the abstract MIDI event. Delta-time is not part of Event itself:
// it is owned by whatever sequence the event lives in (track.Entry while
// decoding/encoding a track chunk, Timed once projected to absolute time),
// matching a track chunk's on-disk layout of (delta_time, event) pairs.
type Event interface {
	// Kind reports the concrete variant.
	Kind() Kind
	// Bytes returns the canonical wire encoding of the event's status byte
	// (if any) plus its payload, ignoring running-status compression. This
	// is what Encode falls back to when no running status applies.
	Bytes() []byte
	String() string
}

// Channel is implemented by the seven channel-voice event kinds.
type Channel interface {
	Event
	Chan() uint8
	// StatusByte returns (kind_nibble<<4)|channel, the byte that running
	// status may suppress on repeat.
	StatusByte() byte
	channel()
}

// Meta is implemented by every meta-event kind, including UnknownMeta.
type Meta interface {
	Event
	// MetaType returns the type byte following the 0xFF status byte.
	MetaType() byte
	meta()
}

// SysEx is implemented by NormalSysEx and EscapeSysEx.
type SysEx interface {
	Event
	Data() []byte
	sysex()
}

// Timed pairs an Event with its absolute time, the unit the timed-event
// projection and note pairing engine operate on.
type Timed struct {
	Event Event
	Time  int64
}
