// Package smf implements the minimal file-level chunk container (§4.6's
// expansion): the generic 4-byte-id + 4-byte-length chunk header shared by
// MThd/MTrk, and a thin File assembler built on top of the track-chunk
// codec. Grounded on the corpus's gomidi-derived Chunk/File pair
// (other_examples' almerlucke-gomidi ReadFrom/WriteTo), generalized to the
// policy-gated reading configuration of §6 and reusing package track for
// the actual MTrk body codec instead of duplicating it.
package smf

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
	"github.com/wsharkey/smf/smferr"
)

const (
	headerID = "MThd"
	trackID  = "MTrk"
)

// Division's top bit distinguishes ticks-per-quarter-note framing from
// SMPTE framing; the codec treats Division as an opaque uint16 otherwise.
const divisionSmpteFlag = 0x8000

// Header is the parsed MThd payload: file format, track count, and time
// division.
type Header struct {
	Format    uint16
	NumTracks uint16
	Division  uint16
}

// IsSMPTE reports whether Division encodes SMPTE framing rather than
// ticks-per-quarter-note.
func (h Header) IsSMPTE() bool { return h.Division&divisionSmpteFlag != 0 }

// ReadChunkHeader reads the generic 4-byte ASCII identifier plus 4-byte
// big-endian length that prefixes every chunk (MThd, MTrk, or a custom
// chunk type).
func ReadChunkHeader(r io.Reader) (id string, length uint32, err error) {
	var idBytes [4]byte
	if _, err = io.ReadFull(r, idBytes[:]); err != nil {
		return "", 0, errors.Wrap(smferr.ErrIO, err.Error())
	}
	var lenBytes [4]byte
	if _, err = io.ReadFull(r, lenBytes[:]); err != nil {
		return "", 0, errors.Wrap(smferr.ErrIO, err.Error())
	}
	return string(idBytes[:]), binary.BigEndian.Uint32(lenBytes[:]), nil
}

// WriteChunkHeader writes id (must be exactly 4 bytes) and length as the
// generic chunk header.
func WriteChunkHeader(w io.Writer, id string, length uint32) error {
	if len(id) != 4 {
		return errors.Errorf("smf: chunk id %q is not 4 bytes", id)
	}
	if _, err := w.Write([]byte(id)); err != nil {
		return errors.Wrap(smferr.ErrIO, err.Error())
	}
	var lenBytes [4]byte
	binary.BigEndian.PutUint32(lenBytes[:], length)
	if _, err := w.Write(lenBytes[:]); err != nil {
		return errors.Wrap(smferr.ErrIO, err.Error())
	}
	return nil
}

// readHeaderBody parses the 6-byte MThd payload (format, track count,
// division) out of body.
func readHeaderBody(body []byte) (Header, error) {
	if len(body) < 6 {
		return Header{}, errors.Wrapf(smferr.ErrMalformedEvent, "MThd body is %d bytes, want at least 6", len(body))
	}
	return Header{
		Format:    binary.BigEndian.Uint16(body[0:2]),
		NumTracks: binary.BigEndian.Uint16(body[2:4]),
		Division:  binary.BigEndian.Uint16(body[4:6]),
	}, nil
}

func (h Header) bytes() []byte {
	b := make([]byte, 6)
	binary.BigEndian.PutUint16(b[0:2], h.Format)
	binary.BigEndian.PutUint16(b[2:4], h.NumTracks)
	binary.BigEndian.PutUint16(b[4:6], h.Division)
	return b
}
