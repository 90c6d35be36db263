package event_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wsharkey/smf/event"
)

func TestSetTempo_IsDefault(t *testing.T) {
	assert.True(t, event.SetTempo(event.DefaultTempoMicros).IsDefault())
	assert.False(t, event.SetTempo(400000).IsDefault())
}

func TestTimeSignature_IsDefault(t *testing.T) {
	assert.True(t, event.DefaultTimeSignature.IsDefault())
	other := event.DefaultTimeSignature
	other.Numerator = 3
	assert.False(t, other.IsDefault())
}

func TestKeySignature_IsDefault(t *testing.T) {
	assert.True(t, event.DefaultKeySignature.IsDefault())
	assert.False(t, event.KeySignature{Key: 2, Minor: false}.IsDefault())
}

func TestNewTrackName_RoundTripsAsTextMeta(t *testing.T) {
	m := event.NewTrackName("lead")
	assert.Equal(t, event.KindTrackName, m.Kind())
	assert.Equal(t, []byte{0xFF, 0x03, 0x04, 'l', 'e', 'a', 'd'}, m.Bytes())
}

func TestEndOfTrack_Bytes(t *testing.T) {
	assert.Equal(t, []byte{0xFF, 0x2F, 0x00}, event.EndOfTrack.Bytes())
}

// A registered meta decoder for a type byte the built-in table has no entry
// for is used instead of falling back to UnknownMeta.
func TestRegistry_RegisterMetaTypeOverridesUnknown(t *testing.T) {
	reg := event.NewRegistry()
	reg.RegisterMetaType(0x08, func(data []byte) (event.Meta, error) {
		return event.NewInstrumentName(string(data)), nil
	})

	data := []byte{0x00, 0xFF, 0x08, 0x03, 'o', 'b', 'o'}
	var running event.RunningStatus
	_, ev, err := event.DecodeEvent(bytes.NewReader(data), reg, &running, event.DecodeOptions{})
	require.NoError(t, err)
	assert.Equal(t, event.KindInstrumentName, ev.Kind())
}

// RegisterChunkType is silently ignored for a malformed id, matching
// RegisterMetaType's tolerance of a nil decoder.
func TestRegistry_RegisterChunkTypeIgnoresMalformedID(t *testing.T) {
	reg := event.NewRegistry()
	reg.RegisterChunkType("bad", func(id string, data []byte) (interface{}, error) { return nil, nil })

	_, ok := reg.ChunkDecoderFor("bad")
	assert.False(t, ok)
}
