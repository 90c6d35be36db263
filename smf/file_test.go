package smf_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wsharkey/smf/event"
	"github.com/wsharkey/smf/policy"
	"github.com/wsharkey/smf/smf"
	"github.com/wsharkey/smf/smferr"
	"github.com/wsharkey/smf/track"
)

func oneTrackFile() *smf.File {
	return &smf.File{
		Header: smf.Header{Format: 1, NumTracks: 1, Division: 480},
		Tracks: []*track.Chunk{
			{Events: []track.Entry{
				{DeltaTime: 0, Event: event.NoteOn{Channel: 0, Note: 60, Velocity: 100}},
				{DeltaTime: 10, Event: event.NoteOff{Channel: 0, Note: 60, Velocity: 0}},
			}},
		},
	}
}

func TestWriteFile_ThenReadFile_RoundTrips(t *testing.T) {
	f := oneTrackFile()

	var buf bytes.Buffer
	require.NoError(t, smf.WriteFile(&buf, f, smf.NewWriteOptions()))

	got, err := smf.ReadFile(&buf, smf.NewReadOptions())
	require.NoError(t, err)

	assert.Equal(t, f.Header, got.Header)
	require.Len(t, got.Tracks, 1)
	assert.Equal(t, f.Tracks[0].Events, got.Tracks[0].Events)
}

func TestWriteFile_RecomputesNumTracksFromSlice(t *testing.T) {
	f := oneTrackFile()
	f.Header.NumTracks = 99 // stale; WriteFile must not trust it

	var buf bytes.Buffer
	require.NoError(t, smf.WriteFile(&buf, f, smf.NewWriteOptions()))

	got, err := smf.ReadFile(&buf, smf.NewReadOptions())
	require.NoError(t, err)
	assert.Equal(t, uint16(1), got.Header.NumTracks)
}

func TestReadFile_RejectsNonMThdFirstChunk(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, smf.WriteChunkHeader(&buf, "MTrk", 4))
	buf.Write([]byte{0x00, 0xFF, 0x2F, 0x00})

	_, err := smf.ReadFile(&buf, smf.NewReadOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, smferr.ErrUnknownFileFormat)
}

func TestReadFile_ExtraTrackChunkPolicySkip(t *testing.T) {
	var buf bytes.Buffer
	writeHeader(t, &buf, 1, 1, 480)
	writeEmptyTrack(t, &buf)
	writeEmptyTrack(t, &buf) // one more than declared

	got, err := smf.ReadFile(&buf, smf.NewReadOptions(
		smf.WithExtraTrackChunkPolicy(policy.ExtraTrackChunkSkip)))
	require.NoError(t, err)
	assert.Len(t, got.Tracks, 1)
}

func TestReadFile_ExtraTrackChunkPolicyReadKeepsExtra(t *testing.T) {
	var buf bytes.Buffer
	writeHeader(t, &buf, 1, 1, 480)
	writeEmptyTrack(t, &buf)
	writeEmptyTrack(t, &buf)

	got, err := smf.ReadFile(&buf, smf.NewReadOptions(
		smf.WithExtraTrackChunkPolicy(policy.ExtraTrackChunkRead)))
	require.NoError(t, err)
	assert.Len(t, got.Tracks, 2)
}

func TestReadFile_UnexpectedTrackChunksCountAbort(t *testing.T) {
	var buf bytes.Buffer
	writeHeader(t, &buf, 1, 2, 480) // declares 2, only writes 1
	writeEmptyTrack(t, &buf)

	_, err := smf.ReadFile(&buf, smf.NewReadOptions(
		smf.WithUnexpectedTrackChunksCountPolicy(policy.UnexpectedTrackChunksCountAbort)))
	require.Error(t, err)
	assert.ErrorIs(t, err, smferr.ErrUnexpectedTrackChunksCount)
}

func TestReadFile_UnknownChunkIDPolicyReadAsUnknown(t *testing.T) {
	var buf bytes.Buffer
	writeHeader(t, &buf, 1, 0, 480)
	require.NoError(t, smf.WriteChunkHeader(&buf, "XTRA", 3))
	buf.Write([]byte{1, 2, 3})

	got, err := smf.ReadFile(&buf, smf.NewReadOptions(
		smf.WithUnknownChunkIDPolicy(policy.UnknownChunkIDReadAsUnknown)))
	require.NoError(t, err)
	require.Len(t, got.Unknown, 1)
	assert.Equal(t, "XTRA", got.Unknown[0].ID)
	assert.Equal(t, []byte{1, 2, 3}, got.Unknown[0].Data)
}

func TestReadFile_UnknownChunkIDPolicyAbort(t *testing.T) {
	var buf bytes.Buffer
	writeHeader(t, &buf, 1, 0, 480)
	require.NoError(t, smf.WriteChunkHeader(&buf, "XTRA", 3))
	buf.Write([]byte{1, 2, 3})

	_, err := smf.ReadFile(&buf, smf.NewReadOptions(
		smf.WithUnknownChunkIDPolicy(policy.UnknownChunkIDAbort)))
	require.Error(t, err)
	assert.ErrorIs(t, err, smferr.ErrUnknownChunkID)
}

func TestReadFile_UnknownFileFormatPolicyIgnoreAcceptsFormat3(t *testing.T) {
	var buf bytes.Buffer
	writeHeader(t, &buf, 3, 0, 480)

	got, err := smf.ReadFile(&buf, smf.NewReadOptions(
		smf.WithUnknownFileFormatPolicy(policy.UnknownFileFormatIgnore)))
	require.NoError(t, err)
	assert.Equal(t, uint16(3), got.Header.Format)
}

// A registered custom chunk decoder intercepts a non-MThd/MTrk chunk
// before it ever reaches UnknownChunkIDPolicy.
func TestReadFile_CustomChunkDecoderTakesPriority(t *testing.T) {
	reg := event.NewRegistry()
	reg.RegisterChunkType("CUST", func(id string, data []byte) (interface{}, error) {
		return string(data), nil
	})

	var buf bytes.Buffer
	writeHeader(t, &buf, 1, 0, 480)
	require.NoError(t, smf.WriteChunkHeader(&buf, "CUST", 5))
	buf.Write([]byte("hello"))

	got, err := smf.ReadFile(&buf, smf.NewReadOptions(
		smf.WithFileRegistry(reg),
		smf.WithUnknownChunkIDPolicy(policy.UnknownChunkIDAbort)))
	require.NoError(t, err)
	require.Len(t, got.Custom, 1)
	assert.Equal(t, "CUST", got.Custom[0].ID)
	assert.Equal(t, "hello", got.Custom[0].Value)
	assert.Empty(t, got.Unknown)
}

func TestHeader_IsSMPTE(t *testing.T) {
	assert.True(t, smf.Header{Division: 0x8000 | 0x1E28}.IsSMPTE())
	assert.False(t, smf.Header{Division: 480}.IsSMPTE())
}

func writeHeader(t *testing.T, buf *bytes.Buffer, format, numTracks, division uint16) {
	t.Helper()
	require.NoError(t, smf.WriteChunkHeader(buf, "MThd", 6))
	body := make([]byte, 6)
	binary.BigEndian.PutUint16(body[0:2], format)
	binary.BigEndian.PutUint16(body[2:4], numTracks)
	binary.BigEndian.PutUint16(body[4:6], division)
	buf.Write(body)
}

func writeEmptyTrack(t *testing.T, buf *bytes.Buffer) {
	t.Helper()
	chunk := &track.Chunk{}
	var body bytes.Buffer
	require.NoError(t, track.Encode(&body, chunk, track.NewWriteOptions()))
	require.NoError(t, smf.WriteChunkHeader(buf, "MTrk", uint32(body.Len())))
	buf.Write(body.Bytes())
}
