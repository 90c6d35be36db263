package track_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wsharkey/smf/event"
	"github.com/wsharkey/smf/policy"
	"github.com/wsharkey/smf/track"
)

// S3: two consecutive NoteOn(ch=0, ...) events with UseRunningStatus on: the
// second omits the 0x90 status byte.
func TestEncode_S3RunningStatusWrite(t *testing.T) {
	chunk := &track.Chunk{Events: []track.Entry{
		{DeltaTime: 0, Event: event.NoteOn{Channel: 0, Note: 60, Velocity: 100}},
		{DeltaTime: 10, Event: event.NoteOn{Channel: 0, Note: 64, Velocity: 100}},
	}}

	var buf bytes.Buffer
	opts := track.NewWriteOptions(track.WithCompression(policy.UseRunningStatus))
	require.NoError(t, track.Encode(&buf, chunk, opts))

	want := []byte{
		0x00, 0x90, 60, 100, // first NoteOn, explicit status
		10, 64, 100, // second NoteOn, running status: no 0x90
		0x00, 0xFF, 0x2F, 0x00, // synthetic EndOfTrack
	}
	assert.Equal(t, want, buf.Bytes())
}

// S4: a track whose first event is SetTempo(500000) followed by
// SetTempo(400000), encoded with DeleteDefaultSetTempo: the first is
// dropped, the second retained. A third SetTempo(500000) after that is also
// retained (the latch never re-arms).
func TestEncode_S4DefaultTempoSuppressionLatch(t *testing.T) {
	chunk := &track.Chunk{Events: []track.Entry{
		{DeltaTime: 0, Event: event.SetTempo(event.DefaultTempoMicros)},
		{DeltaTime: 10, Event: event.SetTempo(400000)},
		{DeltaTime: 10, Event: event.SetTempo(event.DefaultTempoMicros)},
	}}

	opts := track.NewWriteOptions(track.WithCompression(policy.DeleteDefaultSetTempo))
	var buf bytes.Buffer
	require.NoError(t, track.Encode(&buf, chunk, opts))

	decoded, err := track.Decode(&buf, uint32(buf.Len()), track.NewReadOptions())
	require.NoError(t, err)

	require.Len(t, decoded.Events, 2)
	assert.Equal(t, event.SetTempo(400000), decoded.Events[0].Event)
	assert.Equal(t, event.SetTempo(event.DefaultTempoMicros), decoded.Events[1].Event)
}

func TestSize_AgreesWithEncodeLength(t *testing.T) {
	chunk := &track.Chunk{Events: []track.Entry{
		{DeltaTime: 0, Event: event.NoteOn{Channel: 1, Note: 60, Velocity: 90}},
		{DeltaTime: 5, Event: event.NoteOff{Channel: 1, Note: 60, Velocity: 0}},
		{DeltaTime: 0, Event: event.NewTrackName("lead")},
	}}
	opts := track.NewWriteOptions(track.WithCompression(policy.UseRunningStatus))

	size, err := track.Size(chunk, opts)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, track.Encode(&buf, chunk, opts))
	assert.Equal(t, buf.Len(), size)
}

// Invariant 1: decoding a well-formed track and re-encoding with
// CompressionPolicy={} reproduces the original bytes, modulo a missing
// trailing EndOfTrack which the encoder always supplies.
func TestRoundTrip_NoCompression(t *testing.T) {
	original := []byte{
		0x00, 0x90, 60, 100,
		0x10, 0x80, 60, 0,
		0x00, 0xFF, 0x03, 0x04, 'l', 'e', 'a', 'd',
		0x00, 0xFF, 0x2F, 0x00,
	}

	chunk, err := track.Decode(bytes.NewReader(original), uint32(len(original)), track.NewReadOptions())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, track.Encode(&buf, chunk, track.NewWriteOptions()))
	assert.Equal(t, original, buf.Bytes())
}

// Invariant 4: encoding with UseRunningStatus then decoding yields the
// original event sequence.
func TestRunningStatusIdempotence(t *testing.T) {
	chunk := &track.Chunk{Events: []track.Entry{
		{DeltaTime: 0, Event: event.NoteOn{Channel: 2, Note: 10, Velocity: 1}},
		{DeltaTime: 1, Event: event.NoteOn{Channel: 2, Note: 11, Velocity: 2}},
		{DeltaTime: 1, Event: event.NoteOff{Channel: 2, Note: 10, Velocity: 0}},
		{DeltaTime: 1, Event: event.ControlChange{Channel: 2, Controller: 7, Value: 100}},
	}}
	opts := track.NewWriteOptions(track.WithCompression(policy.UseRunningStatus))

	var buf bytes.Buffer
	require.NoError(t, track.Encode(&buf, chunk, opts))

	decoded, err := track.Decode(&buf, uint32(buf.Len()), track.NewReadOptions(
		track.WithSilentNoteOnPolicy(event.SilentNoteOnAsNoteOn)))
	require.NoError(t, err)

	require.Len(t, decoded.Events, len(chunk.Events))
	for i, want := range chunk.Events {
		assert.Equal(t, want.Event, decoded.Events[i].Event)
		assert.Equal(t, want.DeltaTime, decoded.Events[i].DeltaTime)
	}
}
