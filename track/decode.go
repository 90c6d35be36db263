package track

import (
	"bytes"
	"io"

	"github.com/pkg/errors"
	"github.com/wsharkey/smf/event"
	"github.com/wsharkey/smf/internal/ioutil"
	"github.com/wsharkey/smf/policy"
	"github.com/wsharkey/smf/smferr"
)

// Decode reads a track chunk's body: exactly declaredSize bytes of
// concatenated (VLQ delta_time, event) records from r, per §4.3. It stops
// at the first EndOfTrack (not stored in the returned Chunk) or once the
// byte budget is exhausted, whichever comes first, applying
// opts.MissedEndOfTrack / opts.InvalidChunkSize to the two ways those can
// disagree.
//
// current_status_byte is local to this call: every call starts with no
// running status established and discards it on return, so tracks decoded
// back-to-back from the same file never leak state into each other.
func Decode(r io.Reader, declaredSize uint32, opts ReadOptions) (*Chunk, error) {
	body, err := ioutil.ReadBytes(r, declaredSize)
	if err != nil {
		return nil, err
	}

	br := bytes.NewReader(body)
	chunk := &Chunk{}
	var running event.RunningStatus
	eotSeen := false

	for br.Len() > 0 {
		deltaTime, ev, err := event.DecodeEvent(br, opts.Registry, &running, event.DecodeOptions{
			SilentNoteOn: opts.SilentNoteOn,
		})
		if err != nil {
			return nil, err
		}
		if m, ok := ev.(event.Meta); ok && m.Kind() == event.KindEndOfTrack {
			eotSeen = true
			break
		}
		chunk.Events = append(chunk.Events, Entry{DeltaTime: deltaTime, Event: ev})
	}

	consumed := len(body) - br.Len()

	if !eotSeen {
		if opts.MissedEndOfTrack == policy.MissedEndOfTrackAbort {
			return nil, errors.Wrapf(smferr.ErrMissedEndOfTrack, "consumed %d of %d declared bytes", consumed, len(body))
		}
		return chunk, nil
	}

	if consumed != len(body) && opts.InvalidChunkSize == policy.InvalidChunkSizeAbort {
		return nil, errors.Wrapf(smferr.ErrInvalidChunkSize, "end of track at byte %d, declared length %d", consumed, len(body))
	}

	return chunk, nil
}
