package track

import (
	"github.com/wsharkey/smf/event"
	"github.com/wsharkey/smf/policy"
)

// ReadOptions configures Decode. Construct with NewReadOptions, which
// applies the shipped defaults before running the supplied ReadOption
// values, following the teacher's ReaderOption func(*reader) pattern in
// messages/channel/reader.go generalized from a single flag to the full
// reading configuration of §6.
type ReadOptions struct {
	MissedEndOfTrack policy.MissedEndOfTrack
	InvalidChunkSize policy.InvalidChunkSize
	SilentNoteOn     event.SilentNoteOnPolicy
	Registry         *event.Registry
}

// ReadOption mutates a ReadOptions being built by NewReadOptions.
type ReadOption func(*ReadOptions)

// WithMissedEndOfTrackPolicy sets the policy applied when a track's
// declared byte budget is exhausted without an EndOfTrack.
func WithMissedEndOfTrackPolicy(p policy.MissedEndOfTrack) ReadOption {
	return func(o *ReadOptions) { o.MissedEndOfTrack = p }
}

// WithInvalidChunkSizePolicy sets the policy applied when a chunk's
// declared length disagrees with bytes consumed parsing it.
func WithInvalidChunkSizePolicy(p policy.InvalidChunkSize) ReadOption {
	return func(o *ReadOptions) { o.InvalidChunkSize = p }
}

// WithSilentNoteOnPolicy sets whether a decoded velocity-0 NoteOn is
// normalized to a NoteOff.
func WithSilentNoteOnPolicy(p event.SilentNoteOnPolicy) ReadOption {
	return func(o *ReadOptions) { o.SilentNoteOn = p }
}

// WithRegistry supplies a *event.Registry carrying custom meta-event
// decoders (§6's CustomMetaEventTypes). A nil value falls back to
// event.DefaultRegistry.
func WithRegistry(r *event.Registry) ReadOption {
	return func(o *ReadOptions) { o.Registry = r }
}

// NewReadOptions builds a ReadOptions starting from the shipped defaults
// (MissedEndOfTrack=Abort, InvalidChunkSize=Abort,
// SilentNoteOn=SilentNoteOnAsNoteOff, as exercised by S2) and applying opts
// in order.
func NewReadOptions(opts ...ReadOption) ReadOptions {
	ro := ReadOptions{
		MissedEndOfTrack: policy.MissedEndOfTrackAbort,
		InvalidChunkSize: policy.InvalidChunkSizeAbort,
		SilentNoteOn:     event.SilentNoteOnAsNoteOff,
	}
	for _, opt := range opts {
		opt(&ro)
	}
	return ro
}

// WriteOptions configures Encode/Size.
type WriteOptions struct {
	Compression policy.Compression
}

// WriteOption mutates a WriteOptions being built by NewWriteOptions.
type WriteOption func(*WriteOptions)

// WithCompression sets the full compression flag set, replacing any flags
// set by earlier options.
func WithCompression(c policy.Compression) WriteOption {
	return func(o *WriteOptions) { o.Compression = c }
}

// NewWriteOptions builds a WriteOptions starting from no compression
// (needed by the round-trip property, §8 invariant 1) and applying opts in
// order.
func NewWriteOptions(opts ...WriteOption) WriteOptions {
	wo := WriteOptions{}
	for _, opt := range opts {
		opt(&wo)
	}
	return wo
}
