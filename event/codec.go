package event

import (
	"io"

	"github.com/pkg/errors"
	"github.com/wsharkey/smf/internal/ioutil"
	"github.com/wsharkey/smf/smferr"
)

// Reader is what DecodeEvent needs from its input: sequential reads plus
// one-byte pushback, so it can peek a prospective status byte and put it
// back when it turns out to be running-status data. bytes.Reader and
// bufio.Reader both satisfy it.
type Reader interface {
	io.Reader
	io.ByteScanner
}

// RunningStatus is the single piece of state the track-chunk codec owns
// across a sequence of DecodeEvent/EncodeEvent calls (§4.3's
// current_status_byte / running_status).
type RunningStatus struct {
	Byte byte
	Set  bool
}

// Clear drops any established running status. SysEx and meta events do
// this on both read and write; so does a track boundary.
func (rs *RunningStatus) Clear() { *rs = RunningStatus{} }

// SilentNoteOnPolicy controls whether a decoded NoteOn with velocity 0 is
// normalized to an explicit NoteOff.
type SilentNoteOnPolicy uint8

const (
	// SilentNoteOnAsNoteOn keeps a velocity-0 NoteOn as-is.
	SilentNoteOnAsNoteOn SilentNoteOnPolicy = iota
	// SilentNoteOnAsNoteOff rewrites a velocity-0 NoteOn into a NoteOff
	// with the same channel/note and an off-velocity of 0. This is the
	// shipped default reading policy.
	SilentNoteOnAsNoteOff
)

// DecodeOptions configures a single DecodeEvent call.
type DecodeOptions struct {
	SilentNoteOn SilentNoteOnPolicy
}

// DecodeEvent reads one (delta_time, event) pair per §4.2: a VLQ delta
// time, then a status byte that is either explicit or (for channel events)
// reused from running status, then the event's own payload. running is
// read and updated in place; reg may be nil to use DefaultRegistry.
func DecodeEvent(r Reader, reg *Registry, running *RunningStatus, opts DecodeOptions) (deltaTime uint32, ev Event, err error) {
	reg = registryOrDefault(reg)

	deltaTime, err = ioutil.ReadVlq(r)
	if err != nil {
		return 0, nil, err
	}

	b, err := ioutil.PeekByte(r)
	if err != nil {
		return 0, nil, err
	}

	var status byte
	if b < 0x80 {
		if !running.Set {
			return 0, nil, errors.Wrapf(smferr.ErrUnexpectedRunningStatus, "data byte %#x", b)
		}
		status = running.Byte
		// b stays unread: it is the first data byte of this event.
	} else {
		if _, err = r.ReadByte(); err != nil {
			return 0, nil, errors.Wrap(smferr.ErrIO, err.Error())
		}
		status = b
	}

	nibble, channel := ioutil.ParseStatus(status)

	switch {
	case status >= 0x80 && status <= 0xEF:
		n := channelDataLen(nibble)
		data, rerr := ioutil.ReadBytes(r, uint32(n))
		if rerr != nil {
			return 0, nil, rerr
		}
		ch := decodeChannel(nibble, channel, data)
		running.Set = true
		running.Byte = status
		ev = normalizeSilentNoteOn(ch, opts.SilentNoteOn)

	case status == statusNormalSysEx:
		running.Clear()
		data, rerr := ioutil.ReadVarLengthData(r)
		if rerr != nil {
			return 0, nil, rerr
		}
		ev = NormalSysEx{Payload: data}

	case status == statusEscapeSysEx:
		running.Clear()
		data, rerr := ioutil.ReadVarLengthData(r)
		if rerr != nil {
			return 0, nil, rerr
		}
		ev = EscapeSysEx{Payload: data}

	case status == 0xFF:
		running.Clear()
		typ, rerr := ioutil.ReadByte(r)
		if rerr != nil {
			return 0, nil, rerr
		}
		data, rerr := ioutil.ReadVarLengthData(r)
		if rerr != nil {
			return 0, nil, rerr
		}
		decode, ok := reg.metaDecoder(typ)
		if !ok {
			ev = UnknownMeta{Type: typ, Data: data}
			break
		}
		m, derr := decode(data)
		if derr != nil {
			return 0, nil, derr
		}
		ev = m

	default:
		return 0, nil, errors.Wrapf(smferr.ErrMalformedEvent, "status byte %#x is not valid in a track chunk", status)
	}

	return deltaTime, ev, nil
}

func normalizeSilentNoteOn(ch Channel, policy SilentNoteOnPolicy) Event {
	if policy != SilentNoteOnAsNoteOff {
		return ch
	}
	on, isNoteOn := ch.(NoteOn)
	if !isNoteOn || on.Velocity != 0 {
		return ch
	}
	return NoteOff{Channel: on.Channel, Note: on.Note, Velocity: 0}
}

// EncodeEvent writes a single (delta_time, event) pair: the VLQ delta time,
// then — only if writeStatusByte is true — the status byte for channel
// events (non-channel events always carry their status byte; the
// writeStatusByte flag is meaningless for them), then the event payload.
// The track-chunk codec decides writeStatusByte by consulting its own
// running-status/compression-policy state before calling this.
func EncodeEvent(w io.Writer, deltaTime uint32, ev Event, writeStatusByte bool) error {
	if _, err := w.Write(ioutil.EncodeVlq(deltaTime)); err != nil {
		return errors.Wrap(smferr.ErrIO, err.Error())
	}
	data := eventWireBytes(ev, writeStatusByte)
	if _, err := w.Write(data); err != nil {
		return errors.Wrap(smferr.ErrIO, err.Error())
	}
	return nil
}

// SizeEvent reports the byte length EncodeEvent would write, without
// writing, for the content-size pass (§4.3, §8 property 3).
func SizeEvent(deltaTime uint32, ev Event, writeStatusByte bool) int {
	return ioutil.VlqLen(deltaTime) + len(eventWireBytes(ev, writeStatusByte))
}

// eventWireBytes returns an event's payload bytes, including its status
// byte unless it is a channel event being suppressed by running status.
func eventWireBytes(ev Event, writeStatusByte bool) []byte {
	full := ev.Bytes()
	if ch, ok := ev.(Channel); ok && !writeStatusByte {
		_ = ch
		return full[1:]
	}
	return full
}
