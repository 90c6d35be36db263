// Package smferr defines the error taxonomy shared by the codec packages.
//
// Every failure the codec can produce wraps one of the sentinels below with
// github.com/pkg/errors, so callers can classify with errors.Is/As while
// still getting a readable cause chain from errors.Cause.
package smferr

import "github.com/pkg/errors"

var (
	// ErrMalformedVlq is returned when a variable-length quantity overruns
	// its 4-byte maximum or truncates at EOF.
	ErrMalformedVlq = errors.New("smf: malformed variable-length quantity")

	// ErrMalformedEvent is returned when a status byte falls in a forbidden
	// range or an event's payload is shorter than its kind requires.
	ErrMalformedEvent = errors.New("smf: malformed event")

	// ErrMissedEndOfTrack is returned when a track's declared byte budget is
	// exhausted without an EndOfTrack meta event and the policy is Abort.
	ErrMissedEndOfTrack = errors.New("smf: track chunk missing end of track")

	// ErrInvalidChunkSize is returned when a chunk's declared length
	// disagrees with the bytes actually consumed parsing its content.
	ErrInvalidChunkSize = errors.New("smf: chunk size does not match declared length")

	// ErrUnexpectedTrackChunksCount is returned when the header's declared
	// track count disagrees with the number of track chunks encountered.
	ErrUnexpectedTrackChunksCount = errors.New("smf: unexpected number of track chunks")

	// ErrUnknownChunkID is returned for a chunk identifier that is neither
	// MThd/MTrk nor a registered custom chunk type, under policy Abort.
	ErrUnknownChunkID = errors.New("smf: unknown chunk id")

	// ErrUnknownFileFormat is returned for a header format field outside
	// {0, 1, 2} under policy Abort.
	ErrUnknownFileFormat = errors.New("smf: unknown file format")

	// ErrUnexpectedRunningStatus is returned when the first event of a
	// stream begins with a data byte and no running status has ever been
	// established.
	ErrUnexpectedRunningStatus = errors.New("smf: data byte encountered before any status byte was read")

	// ErrIO wraps an underlying reader/writer failure.
	ErrIO = errors.New("smf: i/o failure")
)
