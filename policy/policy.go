// Package policy defines the enumerated reading/writing configuration
// types shared by the track-chunk codec and the file-level chunk
// container (§6). Keeping them in one leaf package lets both layers speak
// the same vocabulary without an import cycle.
package policy

// MissedEndOfTrack governs what happens when a track chunk's declared byte
// budget is exhausted without an EndOfTrack event.
type MissedEndOfTrack int

const (
	MissedEndOfTrackIgnore MissedEndOfTrack = iota
	MissedEndOfTrackAbort
)

func (p MissedEndOfTrack) String() string {
	if p == MissedEndOfTrackAbort {
		return "Abort"
	}
	return "Ignore"
}

// InvalidChunkSize governs what happens when a chunk's declared length
// disagrees with the bytes actually consumed parsing its content.
type InvalidChunkSize int

const (
	InvalidChunkSizeIgnore InvalidChunkSize = iota
	InvalidChunkSizeAbort
)

func (p InvalidChunkSize) String() string {
	if p == InvalidChunkSizeAbort {
		return "Abort"
	}
	return "Ignore"
}

// UnexpectedTrackChunksCount governs what happens when the header's
// declared track count disagrees with the number of track chunks found.
type UnexpectedTrackChunksCount int

const (
	UnexpectedTrackChunksCountIgnore UnexpectedTrackChunksCount = iota
	UnexpectedTrackChunksCountAbort
)

func (p UnexpectedTrackChunksCount) String() string {
	if p == UnexpectedTrackChunksCountAbort {
		return "Abort"
	}
	return "Ignore"
}

// ExtraTrackChunk governs tracks found beyond the header's declared count.
type ExtraTrackChunk int

const (
	ExtraTrackChunkRead ExtraTrackChunk = iota
	ExtraTrackChunkSkip
)

func (p ExtraTrackChunk) String() string {
	if p == ExtraTrackChunkSkip {
		return "Skip"
	}
	return "Read"
}

// UnknownChunkID governs chunks whose identifier is neither MThd/MTrk nor a
// registered custom chunk type.
type UnknownChunkID int

const (
	UnknownChunkIDReadAsUnknown UnknownChunkID = iota
	UnknownChunkIDSkip
	UnknownChunkIDAbort
)

func (p UnknownChunkID) String() string {
	switch p {
	case UnknownChunkIDSkip:
		return "Skip"
	case UnknownChunkIDAbort:
		return "Abort"
	default:
		return "ReadAsUnknownChunk"
	}
}

// UnknownFileFormat governs a header format field outside {0, 1, 2}.
type UnknownFileFormat int

const (
	UnknownFileFormatIgnore UnknownFileFormat = iota
	UnknownFileFormatAbort
)

func (p UnknownFileFormat) String() string {
	if p == UnknownFileFormatAbort {
		return "Abort"
	}
	return "Ignore"
}

// Compression is the write-time flag set of §4.3/§6. Each bit is
// independent; a zero value compresses nothing (used by the round-trip
// property, §8 invariant 1).
type Compression uint8

const (
	UseRunningStatus Compression = 1 << iota
	NoteOffAsSilentNoteOn
	DeleteUnknownMetaEvents
	DeleteDefaultSetTempo
	DeleteDefaultKeySignature
	DeleteDefaultTimeSignature
)

// Has reports whether every bit in flag is set.
func (c Compression) Has(flag Compression) bool { return c&flag == flag }
