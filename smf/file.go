package smf

import (
	"bytes"
	"io"

	"github.com/pkg/errors"
	"github.com/wsharkey/smf/event"
	"github.com/wsharkey/smf/policy"
	"github.com/wsharkey/smf/smferr"
	"github.com/wsharkey/smf/track"
)

// UnknownChunk is a chunk whose identifier was neither MThd, MTrk, nor a
// registered custom chunk type, kept verbatim under
// UnknownChunkIDPolicy=ReadAsUnknownChunk.
type UnknownChunk struct {
	ID   string
	Data []byte
}

// CustomChunk is a chunk decoded through a registry-supplied ChunkDecoder
// (§6's CustomChunkTypes hook).
type CustomChunk struct {
	ID    string
	Value interface{}
}

// File is the in-memory model of a whole Standard MIDI File: one header
// plus every track chunk, in header then track order. Chunks this package
// doesn't understand are kept separately in Unknown and Custom rather than
// dropped at read time. WriteFile writes only the header and the track
// chunks; Unknown and Custom chunks are not written back.
type File struct {
	Header  Header
	Tracks  []*track.Chunk
	Unknown []UnknownChunk
	Custom  []CustomChunk
}

// ReadOptions configures ReadFile, combining the file-level policies of
// §6 with the per-track ReadOptions each MTrk chunk is decoded with.
type ReadOptions struct {
	UnexpectedTrackChunksCount policy.UnexpectedTrackChunksCount
	ExtraTrackChunk            policy.ExtraTrackChunk
	UnknownChunkID             policy.UnknownChunkID
	UnknownFileFormat          policy.UnknownFileFormat
	Track                      track.ReadOptions
	Registry                   *event.Registry
}

// ReadOption mutates a ReadOptions being built by NewReadOptions.
type ReadOption func(*ReadOptions)

func WithUnexpectedTrackChunksCountPolicy(p policy.UnexpectedTrackChunksCount) ReadOption {
	return func(o *ReadOptions) { o.UnexpectedTrackChunksCount = p }
}

func WithExtraTrackChunkPolicy(p policy.ExtraTrackChunk) ReadOption {
	return func(o *ReadOptions) { o.ExtraTrackChunk = p }
}

func WithUnknownChunkIDPolicy(p policy.UnknownChunkID) ReadOption {
	return func(o *ReadOptions) { o.UnknownChunkID = p }
}

func WithUnknownFileFormatPolicy(p policy.UnknownFileFormat) ReadOption {
	return func(o *ReadOptions) { o.UnknownFileFormat = p }
}

// WithTrackReadOptions supplies the ReadOptions each MTrk chunk is decoded
// with.
func WithTrackReadOptions(t track.ReadOptions) ReadOption {
	return func(o *ReadOptions) { o.Track = t }
}

// WithFileRegistry supplies a *event.Registry carrying custom chunk and
// meta-event decoders, used both for the file's own unknown chunks and,
// by NewReadOptions, copied into o.Track.Registry unless the track options
// already carry a registry.
func WithFileRegistry(r *event.Registry) ReadOption {
	return func(o *ReadOptions) { o.Registry = r }
}

// NewReadOptions builds a ReadOptions from the shipped defaults
// (every policy Abort except ExtraTrackChunk=Read and
// UnknownChunkID=ReadAsUnknownChunk; the nested Track field comes from
// track.NewReadOptions) and applies opts in order.
func NewReadOptions(opts ...ReadOption) ReadOptions {
	ro := ReadOptions{
		UnexpectedTrackChunksCount: policy.UnexpectedTrackChunksCountAbort,
		ExtraTrackChunk:            policy.ExtraTrackChunkRead,
		UnknownChunkID:             policy.UnknownChunkIDReadAsUnknown,
		UnknownFileFormat:          policy.UnknownFileFormatAbort,
		Track:                      track.NewReadOptions(),
	}
	for _, opt := range opts {
		opt(&ro)
	}
	if ro.Registry != nil && ro.Track.Registry == nil {
		ro.Track.Registry = ro.Registry
	}
	return ro
}

// WriteOptions configures WriteFile.
type WriteOptions struct {
	Track track.WriteOptions
}

// WriteOption mutates a WriteOptions being built by NewWriteOptions.
type WriteOption func(*WriteOptions)

// WithTrackWriteOptions supplies the WriteOptions every MTrk chunk is
// encoded with.
func WithTrackWriteOptions(t track.WriteOptions) WriteOption {
	return func(o *WriteOptions) { o.Track = t }
}

// NewWriteOptions builds a WriteOptions from the shipped defaults (no
// compression, matching track.NewWriteOptions) and applies opts in order.
func NewWriteOptions(opts ...WriteOption) WriteOptions {
	wo := WriteOptions{Track: track.NewWriteOptions()}
	for _, opt := range opts {
		opt(&wo)
	}
	return wo
}

func registry(opts ReadOptions) *event.Registry {
	if opts.Registry != nil {
		return opts.Registry
	}
	return event.DefaultRegistry
}

// readChunkOrEOF reads one generic chunk header, reporting atEOF when the
// stream ends cleanly between chunks (as opposed to mid-header, which is
// an I/O failure).
func readChunkOrEOF(r io.Reader) (id string, length uint32, atEOF bool, err error) {
	var probe [1]byte
	n, perr := io.ReadFull(r, probe[:])
	if perr == io.EOF && n == 0 {
		return "", 0, true, nil
	}
	if perr != nil {
		return "", 0, false, errors.Wrap(smferr.ErrIO, perr.Error())
	}
	rest, err := readChunkHeaderTail(r, probe[0])
	return rest.id, rest.length, false, err
}

type chunkHeaderTail struct {
	id     string
	length uint32
}

func readChunkHeaderTail(r io.Reader, first byte) (chunkHeaderTail, error) {
	var idRest [3]byte
	if _, err := io.ReadFull(r, idRest[:]); err != nil {
		return chunkHeaderTail{}, errors.Wrap(smferr.ErrIO, err.Error())
	}
	id := string([]byte{first, idRest[0], idRest[1], idRest[2]})
	var lenBytes [4]byte
	if _, err := io.ReadFull(r, lenBytes[:]); err != nil {
		return chunkHeaderTail{}, errors.Wrap(smferr.ErrIO, err.Error())
	}
	return chunkHeaderTail{id: id, length: beUint32(lenBytes)}, nil
}

func beUint32(b [4]byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

// ReadFile reads a complete Standard MIDI File: the MThd header, then
// every chunk that follows until EOF. Chunks beyond the header's declared
// track count are governed by ExtraTrackChunkPolicy; chunks whose id isn't
// MThd/MTrk are resolved, in order, against a registered custom chunk
// decoder, then UnknownChunkIDPolicy.
func ReadFile(r io.Reader, opts ReadOptions) (*File, error) {
	id, length, _, err := readChunkOrEOF(r)
	if err != nil {
		return nil, err
	}
	if id != headerID {
		return nil, errors.Wrapf(smferr.ErrUnknownFileFormat, "first chunk is %q, want %q", id, headerID)
	}
	body, err := readExact(r, length)
	if err != nil {
		return nil, err
	}
	header, err := readHeaderBody(body)
	if err != nil {
		return nil, err
	}
	if header.Format > 2 && opts.UnknownFileFormat == policy.UnknownFileFormatAbort {
		return nil, errors.Wrapf(smferr.ErrUnknownFileFormat, "format %d", header.Format)
	}

	f := &File{Header: header}
	reg := registry(opts)
	mainTracks := 0

	for {
		id, length, atEOF, err := readChunkOrEOF(r)
		if err != nil {
			return nil, err
		}
		if atEOF {
			break
		}

		switch {
		case id == trackID:
			isExtra := mainTracks >= int(header.NumTracks)
			if isExtra && opts.ExtraTrackChunk == policy.ExtraTrackChunkSkip {
				if _, err := io.CopyN(io.Discard, r, int64(length)); err != nil {
					return nil, errors.Wrap(smferr.ErrIO, err.Error())
				}
				continue
			}
			chunk, err := track.Decode(r, length, opts.Track)
			if err != nil {
				return nil, err
			}
			f.Tracks = append(f.Tracks, chunk)
			if !isExtra {
				mainTracks++
			}

		default:
			if dec, ok := reg.ChunkDecoderFor(id); ok {
				data, err := readExact(r, length)
				if err != nil {
					return nil, err
				}
				value, err := dec(id, data)
				if err != nil {
					return nil, err
				}
				f.Custom = append(f.Custom, CustomChunk{ID: id, Value: value})
				continue
			}

			switch opts.UnknownChunkID {
			case policy.UnknownChunkIDAbort:
				return nil, errors.Wrapf(smferr.ErrUnknownChunkID, "id %q", id)
			case policy.UnknownChunkIDSkip:
				if _, err := io.CopyN(io.Discard, r, int64(length)); err != nil {
					return nil, errors.Wrap(smferr.ErrIO, err.Error())
				}
			default:
				data, err := readExact(r, length)
				if err != nil {
					return nil, err
				}
				f.Unknown = append(f.Unknown, UnknownChunk{ID: id, Data: data})
			}
		}
	}

	if mainTracks != int(header.NumTracks) && opts.UnexpectedTrackChunksCount == policy.UnexpectedTrackChunksCountAbort {
		return nil, errors.Wrapf(smferr.ErrUnexpectedTrackChunksCount, "found %d, header declares %d", mainTracks, header.NumTracks)
	}

	return f, nil
}

func readExact(r io.Reader, n uint32) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, errors.Wrap(smferr.ErrIO, err.Error())
	}
	return buf, nil
}

// WriteFile writes f's header followed by every track chunk, each sized
// with track.Size before being written with track.Encode (so the declared
// chunk length is always exact, per §8 property 3).
func WriteFile(w io.Writer, f *File, opts WriteOptions) error {
	header := f.Header
	header.NumTracks = uint16(len(f.Tracks))
	if err := WriteChunkHeader(w, headerID, 6); err != nil {
		return err
	}
	if _, err := w.Write(header.bytes()); err != nil {
		return errors.Wrap(smferr.ErrIO, err.Error())
	}

	for _, chunk := range f.Tracks {
		size, err := track.Size(chunk, opts.Track)
		if err != nil {
			return err
		}
		if err := WriteChunkHeader(w, trackID, uint32(size)); err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := track.Encode(&buf, chunk, opts.Track); err != nil {
			return err
		}
		if _, err := w.Write(buf.Bytes()); err != nil {
			return errors.Wrap(smferr.ErrIO, err.Error())
		}
	}
	return nil
}
