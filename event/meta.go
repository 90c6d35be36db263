package event

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/wsharkey/smf/internal/ioutil"
	"github.com/wsharkey/smf/smferr"
)

// Meta event type bytes (follow the 0xFF status byte).
const (
	metaSequenceNumber    = 0x00
	metaText              = 0x01
	metaCopyright         = 0x02
	metaTrackName         = 0x03
	metaInstrumentName    = 0x04
	metaLyric             = 0x05
	metaMarker            = 0x06
	metaCuePoint          = 0x07
	metaChannelPrefix     = 0x20
	metaPortPrefix        = 0x21
	metaEndOfTrack        = 0x2F
	metaSetTempo          = 0x51
	metaSmpteOffset       = 0x54
	metaTimeSignature     = 0x58
	metaKeySignature      = 0x59
	metaSequencerSpecific = 0x7F
)

// DefaultTempoMicros is the shipped default for SetTempo (120 BPM).
const DefaultTempoMicros = 500000

// rawMeta serializes a meta event's canonical wire form: FF, type, VLQ
// length, payload.
func rawMeta(typ byte, data []byte) []byte {
	b := make([]byte, 0, 3+len(data))
	b = append(b, 0xFF, typ)
	b = append(b, ioutil.EncodeVlq(uint32(len(data)))...)
	b = append(b, data...)
	return b
}

func wrongLength(name string, want, got int) error {
	return errors.Wrapf(smferr.ErrMalformedEvent, "%s expected length %d, got %d", name, want, got)
}

// SequenceNumber is the FF 00 meta event. A zero-length payload is accepted
// (observed in the wild) and decodes to 0.
type SequenceNumber uint16

func (m SequenceNumber) Kind() Kind     { return KindSequenceNumber }
func (m SequenceNumber) MetaType() byte { return metaSequenceNumber }
func (m SequenceNumber) meta()          {}
func (m SequenceNumber) Bytes() []byte {
	return rawMeta(metaSequenceNumber, []byte{byte(m >> 8), byte(m)})
}
func (m SequenceNumber) String() string { return fmt.Sprintf("SequenceNumber(%d)", uint16(m)) }

func decodeSequenceNumber(data []byte) (Meta, error) {
	if len(data) == 0 {
		return SequenceNumber(0), nil
	}
	if len(data) != 2 {
		return nil, wrongLength("SequenceNumber", 2, len(data))
	}
	return SequenceNumber(uint16(data[0])<<8 | uint16(data[1])), nil
}

// textMeta is the shared representation of the seven single-string meta
// event kinds (Text, Copyright, TrackName, InstrumentName, Lyric, Marker,
// CuePoint), each distinguished only by its type byte.
type textMeta struct {
	typ  byte
	kind Kind
	text string
}

func (m textMeta) Kind() Kind     { return m.kind }
func (m textMeta) MetaType() byte { return m.typ }
func (m textMeta) meta()          {}
func (m textMeta) Bytes() []byte  { return rawMeta(m.typ, []byte(m.text)) }
func (m textMeta) String() string { return fmt.Sprintf("%s(%q)", m.kind, m.text) }
func (m textMeta) Text() string   { return m.text }

func newTextDecoder(typ byte, kind Kind) func([]byte) (Meta, error) {
	return func(data []byte) (Meta, error) {
		return textMeta{typ: typ, kind: kind, text: string(data)}, nil
	}
}

// newText returns a text-family Meta with the given kind and type byte. It
// does not check that kind is one of the seven text-family kinds; it is
// only called by the constructors below with constant arguments.
func newText(kind Kind, typ byte, text string) Meta { return textMeta{typ: typ, kind: kind, text: text} }

// NewText, NewCopyright, ... construct the corresponding text-family meta
// events. Exported so callers building a track by hand don't need to know
// the internal textMeta representation.
func NewText(s string) Meta           { return newText(KindText, metaText, s) }
func NewCopyright(s string) Meta       { return newText(KindCopyright, metaCopyright, s) }
func NewTrackName(s string) Meta       { return newText(KindTrackName, metaTrackName, s) }
func NewInstrumentName(s string) Meta  { return newText(KindInstrumentName, metaInstrumentName, s) }
func NewLyric(s string) Meta           { return newText(KindLyric, metaLyric, s) }
func NewMarker(s string) Meta          { return newText(KindMarker, metaMarker, s) }
func NewCuePoint(s string) Meta        { return newText(KindCuePoint, metaCuePoint, s) }

// ChannelPrefix (FF 20 01 cc) associates subsequent events with a channel,
// for multi-port files predating the Port Prefix convention.
type ChannelPrefix uint8

func (m ChannelPrefix) Kind() Kind     { return KindChannelPrefix }
func (m ChannelPrefix) MetaType() byte { return metaChannelPrefix }
func (m ChannelPrefix) meta()          {}
func (m ChannelPrefix) Bytes() []byte  { return rawMeta(metaChannelPrefix, []byte{byte(m)}) }
func (m ChannelPrefix) String() string { return fmt.Sprintf("ChannelPrefix(%d)", uint8(m)) }

func decodeChannelPrefix(data []byte) (Meta, error) {
	if len(data) != 1 {
		return nil, wrongLength("ChannelPrefix", 1, len(data))
	}
	return ChannelPrefix(data[0]), nil
}

// PortPrefix (FF 21 01 pp) routes subsequent events to a MIDI port.
type PortPrefix uint8

func (m PortPrefix) Kind() Kind     { return KindPortPrefix }
func (m PortPrefix) MetaType() byte { return metaPortPrefix }
func (m PortPrefix) meta()          {}
func (m PortPrefix) Bytes() []byte  { return rawMeta(metaPortPrefix, []byte{byte(m)}) }
func (m PortPrefix) String() string { return fmt.Sprintf("PortPrefix(%d)", uint8(m)) }

func decodePortPrefix(data []byte) (Meta, error) {
	if len(data) != 1 {
		return nil, wrongLength("PortPrefix", 1, len(data))
	}
	return PortPrefix(data[0]), nil
}

// EndOfTrack is the mandatory FF 2F 00 terminator. It is never stored in a
// track chunk's in-memory event list (the track codec appends/strips it
// implicitly); it is exposed here only so the event codec can decode and
// recognize it uniformly with every other meta event.
type endOfTrack struct{}

// EndOfTrack is the single EndOfTrack value.
var EndOfTrack Meta = endOfTrack{}

func (endOfTrack) Kind() Kind     { return KindEndOfTrack }
func (endOfTrack) MetaType() byte { return metaEndOfTrack }
func (endOfTrack) meta()          {}
func (endOfTrack) Bytes() []byte  { return rawMeta(metaEndOfTrack, nil) }
func (endOfTrack) String() string { return "EndOfTrack" }

func decodeEndOfTrack(data []byte) (Meta, error) {
	if len(data) != 0 {
		return nil, wrongLength("EndOfTrack", 0, len(data))
	}
	return EndOfTrack, nil
}

// SetTempo (FF 51 03) carries microseconds per quarter note.
type SetTempo uint32

func (m SetTempo) Kind() Kind     { return KindSetTempo }
func (m SetTempo) MetaType() byte { return metaSetTempo }
func (m SetTempo) meta()          {}
func (m SetTempo) Bytes() []byte {
	v := uint32(m)
	return rawMeta(metaSetTempo, []byte{byte(v >> 16), byte(v >> 8), byte(v)})
}
func (m SetTempo) String() string { return fmt.Sprintf("SetTempo(%d us/quarter)", uint32(m)) }

// IsDefault reports whether this tempo equals the shipped default
// (500,000 microseconds per quarter note, 120 BPM).
func (m SetTempo) IsDefault() bool { return uint32(m) == DefaultTempoMicros }

func decodeSetTempo(data []byte) (Meta, error) {
	if len(data) != 3 {
		return nil, wrongLength("SetTempo", 3, len(data))
	}
	return SetTempo(uint32(data[0])<<16 | uint32(data[1])<<8 | uint32(data[2])), nil
}

// SmpteOffset (FF 54 05) specifies the SMPTE time a track should start at.
type SmpteOffset struct {
	FrameRate       uint8 // 0=24fps 1=25fps 2=30fps-drop 3=30fps
	Hour            uint8
	Minute          uint8
	Second          uint8
	Frame           uint8
	FractionalFrame uint8
}

func (m SmpteOffset) Kind() Kind     { return KindSmpteOffset }
func (m SmpteOffset) MetaType() byte { return metaSmpteOffset }
func (m SmpteOffset) meta()          {}
func (m SmpteOffset) Bytes() []byte {
	hr := (m.FrameRate&0x3)<<5 | (m.Hour & 0x1F)
	return rawMeta(metaSmpteOffset, []byte{hr, m.Minute, m.Second, m.Frame, m.FractionalFrame})
}
func (m SmpteOffset) String() string {
	return fmt.Sprintf("SmpteOffset(%02d:%02d:%02d.%02d+%d/100, rate=%d)",
		m.Hour, m.Minute, m.Second, m.Frame, m.FractionalFrame, m.FrameRate)
}

func decodeSmpteOffset(data []byte) (Meta, error) {
	if len(data) != 5 {
		return nil, wrongLength("SmpteOffset", 5, len(data))
	}
	return SmpteOffset{
		FrameRate:       (data[0] >> 5) & 0x3,
		Hour:            data[0] & 0x1F,
		Minute:          data[1],
		Second:          data[2],
		Frame:           data[3],
		FractionalFrame: data[4],
	}, nil
}

// DefaultTimeSignature is 4/4, 24 clocks per click, 8 32nd-notes per beat.
var DefaultTimeSignature = TimeSignature{Numerator: 4, DenominatorPower: 2, ClocksPerClick: 24, ThirtySecondNotesPerBeat: 8}

// TimeSignature (FF 58 04). DenominatorPower is the wire value: the
// denominator is 2^DenominatorPower (2 => quarter note, 3 => eighth note).
type TimeSignature struct {
	Numerator                uint8
	DenominatorPower         uint8
	ClocksPerClick           uint8
	ThirtySecondNotesPerBeat uint8
}

func (m TimeSignature) Kind() Kind     { return KindTimeSignature }
func (m TimeSignature) MetaType() byte { return metaTimeSignature }
func (m TimeSignature) meta()          {}
func (m TimeSignature) Bytes() []byte {
	return rawMeta(metaTimeSignature, []byte{m.Numerator, m.DenominatorPower, m.ClocksPerClick, m.ThirtySecondNotesPerBeat})
}
func (m TimeSignature) String() string {
	return fmt.Sprintf("TimeSignature(%d/%d, %d clocks/click, %d 32nds/beat)",
		m.Numerator, uint16(1)<<m.DenominatorPower, m.ClocksPerClick, m.ThirtySecondNotesPerBeat)
}

// IsDefault reports equality with DefaultTimeSignature.
func (m TimeSignature) IsDefault() bool { return m == DefaultTimeSignature }

func decodeTimeSignature(data []byte) (Meta, error) {
	if len(data) != 4 {
		return nil, wrongLength("TimeSignature", 4, len(data))
	}
	return TimeSignature{
		Numerator:                data[0],
		DenominatorPower:         data[1],
		ClocksPerClick:           data[2],
		ThirtySecondNotesPerBeat: data[3],
	}, nil
}

// DefaultKeySignature is C major.
var DefaultKeySignature = KeySignature{Key: 0, Minor: false}

// KeySignature (FF 59 02). Key is the signed count of sharps (positive) or
// flats (negative) in [-7, 7].
type KeySignature struct {
	Key   int8
	Minor bool
}

func (m KeySignature) Kind() Kind     { return KindKeySignature }
func (m KeySignature) MetaType() byte { return metaKeySignature }
func (m KeySignature) meta()          {}
func (m KeySignature) Bytes() []byte {
	mi := byte(0)
	if m.Minor {
		mi = 1
	}
	return rawMeta(metaKeySignature, []byte{byte(m.Key), mi})
}
func (m KeySignature) String() string {
	mode := "major"
	if m.Minor {
		mode = "minor"
	}
	return fmt.Sprintf("KeySignature(%d, %s)", m.Key, mode)
}

// IsDefault reports equality with DefaultKeySignature.
func (m KeySignature) IsDefault() bool { return m == DefaultKeySignature }

func decodeKeySignature(data []byte) (Meta, error) {
	if len(data) != 2 {
		return nil, wrongLength("KeySignature", 2, len(data))
	}
	if data[1] != 0 && data[1] != 1 {
		return nil, errors.Wrapf(smferr.ErrMalformedEvent, "KeySignature scale byte must be 0 or 1, got %d", data[1])
	}
	return KeySignature{Key: int8(data[0]), Minor: data[1] == 1}, nil
}

// SequencerSpecific (FF 7F) carries vendor-specific data, normally prefixed
// with a manufacturer id in the same format as SysEx.
type SequencerSpecific struct {
	Payload []byte
}

func (m SequencerSpecific) Kind() Kind     { return KindSequencerSpecific }
func (m SequencerSpecific) MetaType() byte { return metaSequencerSpecific }
func (m SequencerSpecific) meta()          {}
func (m SequencerSpecific) Bytes() []byte  { return rawMeta(metaSequencerSpecific, m.Payload) }
func (m SequencerSpecific) String() string {
	return fmt.Sprintf("SequencerSpecific(%d bytes)", len(m.Payload))
}

func decodeSequencerSpecific(data []byte) (Meta, error) {
	return SequencerSpecific{Payload: append([]byte(nil), data...)}, nil
}

// UnknownMeta preserves any meta event type the registry has no decoder
// for, keyed by its raw type byte.
type UnknownMeta struct {
	Type byte
	Data []byte
}

func (m UnknownMeta) Kind() Kind     { return KindUnknownMeta }
func (m UnknownMeta) MetaType() byte { return m.Type }
func (m UnknownMeta) meta()          {}
func (m UnknownMeta) Bytes() []byte  { return rawMeta(m.Type, m.Data) }
func (m UnknownMeta) String() string {
	return fmt.Sprintf("UnknownMeta(type=%#x, %d bytes)", m.Type, len(m.Data))
}

var (
	_ Meta = SequenceNumber(0)
	_ Meta = textMeta{}
	_ Meta = ChannelPrefix(0)
	_ Meta = PortPrefix(0)
	_ Meta = endOfTrack{}
	_ Meta = SetTempo(0)
	_ Meta = SmpteOffset{}
	_ Meta = TimeSignature{}
	_ Meta = KeySignature{}
	_ Meta = SequencerSpecific{}
	_ Meta = UnknownMeta{}
)

// builtinMetaDecoders is the factory-populated table consumed by a fresh
// Registry; NewRegistry copies it so per-instance RegisterMetaType calls
// never mutate package state.
var builtinMetaDecoders = map[byte]func([]byte) (Meta, error){
	metaSequenceNumber:    decodeSequenceNumber,
	metaText:              newTextDecoder(metaText, KindText),
	metaCopyright:         newTextDecoder(metaCopyright, KindCopyright),
	metaTrackName:         newTextDecoder(metaTrackName, KindTrackName),
	metaInstrumentName:    newTextDecoder(metaInstrumentName, KindInstrumentName),
	metaLyric:             newTextDecoder(metaLyric, KindLyric),
	metaMarker:            newTextDecoder(metaMarker, KindMarker),
	metaCuePoint:          newTextDecoder(metaCuePoint, KindCuePoint),
	metaChannelPrefix:     decodeChannelPrefix,
	metaPortPrefix:        decodePortPrefix,
	metaEndOfTrack:        decodeEndOfTrack,
	metaSetTempo:          decodeSetTempo,
	metaSmpteOffset:       decodeSmpteOffset,
	metaTimeSignature:     decodeTimeSignature,
	metaKeySignature:      decodeKeySignature,
	metaSequencerSpecific: decodeSequencerSpecific,
}
