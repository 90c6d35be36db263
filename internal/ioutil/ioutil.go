// Package ioutil holds the low-level byte-stream primitives the codec
// packages build on: fixed-width big-endian integers, the variable-length
// quantity (VLQ) used for delta-times and meta/sysex lengths, and raw byte
// reads. Generalized from the teacher's internal/lib helpers
// (ReadByte/ReadUint16/ReadUint24/ReadVarLength/VlqEncode).
package ioutil

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
	"github.com/wsharkey/smf/smferr"
)

// MaxVlq is the largest value a 4-byte VLQ can represent.
const MaxVlq = 0x0FFFFFFF

// ReadByte reads a single byte, wrapping EOF/short-read errors as ErrIO.
func ReadByte(r io.Reader) (byte, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, errors.Wrap(smferr.ErrIO, err.Error())
	}
	return b[0], nil
}

// ReadBytes reads exactly n bytes.
func ReadBytes(r io.Reader, n uint32) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, errors.Wrap(smferr.ErrIO, err.Error())
	}
	return buf, nil
}

// ReadUint16 reads a big-endian uint16.
func ReadUint16(r io.Reader) (uint16, error) {
	var b [2]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, errors.Wrap(smferr.ErrIO, err.Error())
	}
	return binary.BigEndian.Uint16(b[:]), nil
}

// ReadUint24 reads a big-endian 3-byte unsigned integer.
func ReadUint24(r io.Reader) (uint32, error) {
	var b [3]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, errors.Wrap(smferr.ErrIO, err.Error())
	}
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2]), nil
}

// ReadUint32 reads a big-endian uint32.
func ReadUint32(r io.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, errors.Wrap(smferr.ErrIO, err.Error())
	}
	return binary.BigEndian.Uint32(b[:]), nil
}

// WriteUint16 writes v big-endian.
func WriteUint16(w io.Writer, v uint16) error {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	_, err := w.Write(b[:])
	return errWrap(err)
}

// WriteUint24 writes the low 24 bits of v big-endian.
func WriteUint24(w io.Writer, v uint32) error {
	b := [3]byte{byte(v >> 16), byte(v >> 8), byte(v)}
	_, err := w.Write(b[:])
	return errWrap(err)
}

// WriteUint32 writes v big-endian.
func WriteUint32(w io.Writer, v uint32) error {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	_, err := w.Write(b[:])
	return errWrap(err)
}

func errWrap(err error) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(smferr.ErrIO, err.Error())
}

// ReadVlq reads a canonical big-endian variable-length quantity: 7 data
// bits per byte, MSB as continuation flag, at most 4 bytes. It fails with
// ErrMalformedVlq if the 5th byte still sets the continuation bit, or on
// EOF mid-sequence.
func ReadVlq(r io.Reader) (uint32, error) {
	var result uint32
	for i := 0; i < 4; i++ {
		b, err := ReadByte(r)
		if err != nil {
			if i > 0 {
				return 0, errors.Wrap(smferr.ErrMalformedVlq, "truncated before terminator byte")
			}
			return 0, err
		}
		result = result<<7 | uint32(b&0x7F)
		if b&0x80 == 0 {
			return result, nil
		}
	}
	// a 5th byte would still have the continuation bit set
	if _, err := ReadByte(r); err == nil {
		return 0, errors.Wrap(smferr.ErrMalformedVlq, "exceeds 4 bytes")
	}
	return 0, errors.Wrap(smferr.ErrMalformedVlq, "truncated before terminator byte")
}

// PeekByte reads one byte and reports it without consuming it: the byte is
// pushed back with r.UnreadByte, so r's position is unchanged on success.
func PeekByte(r io.ByteScanner) (byte, error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, errWrap(err)
	}
	if err := r.UnreadByte(); err != nil {
		return 0, errWrap(err)
	}
	return b, nil
}

// EncodeVlq returns the minimum-length big-endian VLQ encoding of v.
// v must be <= MaxVlq; callers are responsible for range-checking upstream
// (delta-times and lengths are always non-negative 28-bit quantities here).
func EncodeVlq(v uint32) []byte {
	if v == 0 {
		return []byte{0}
	}
	var tmp [5]byte
	n := 0
	for v > 0 {
		tmp[n] = byte(v & 0x7F)
		v >>= 7
		n++
	}
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		b := tmp[n-1-i]
		if i != n-1 {
			b |= 0x80
		}
		out[i] = b
	}
	return out
}

// VlqLen returns the number of bytes EncodeVlq(v) would produce, without
// allocating.
func VlqLen(v uint32) int {
	n := 1
	for v >>= 7; v > 0; v >>= 7 {
		n++
	}
	return n
}

// ReadText reads a VLQ-length-prefixed byte sequence and returns it as a
// string.
func ReadText(r io.Reader) (string, error) {
	data, err := ReadVarLengthData(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ReadVarLengthData reads a VLQ length prefix followed by that many bytes.
func ReadVarLengthData(r io.Reader) ([]byte, error) {
	n, err := ReadVlq(r)
	if err != nil {
		return nil, err
	}
	return ReadBytes(r, n)
}

// ParseStatus splits a status byte into its kind nibble and channel nibble.
func ParseStatus(status byte) (kind uint8, channel uint8) {
	return status >> 4, status & 0x0F
}
