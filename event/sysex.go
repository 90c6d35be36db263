package event

import (
	"fmt"

	"github.com/wsharkey/smf/internal/ioutil"
)

const (
	statusNormalSysEx = 0xF0
	statusEscapeSysEx = 0xF7
)

// NormalSysEx (0xF0) carries a manufacturer system-exclusive payload,
// normally terminated on the wire by 0xF7 as the last payload byte.
type NormalSysEx struct {
	Payload []byte
}

func (e NormalSysEx) Kind() Kind { return KindNormalSysEx }
func (e NormalSysEx) Data() []byte { return e.Payload }
func (e NormalSysEx) sysex()       {}
func (e NormalSysEx) Bytes() []byte {
	b := make([]byte, 0, 2+len(e.Payload))
	b = append(b, statusNormalSysEx)
	b = append(b, ioutil.EncodeVlq(uint32(len(e.Payload)))...)
	b = append(b, e.Payload...)
	return b
}
func (e NormalSysEx) String() string { return fmt.Sprintf("NormalSysEx(%d bytes)", len(e.Payload)) }

// EscapeSysEx (0xF7) carries an escaped/continuation sysex payload or raw
// bytes a caller wants to inject verbatim onto the wire.
type EscapeSysEx struct {
	Payload []byte
}

func (e EscapeSysEx) Kind() Kind   { return KindEscapeSysEx }
func (e EscapeSysEx) Data() []byte { return e.Payload }
func (e EscapeSysEx) sysex()       {}
func (e EscapeSysEx) Bytes() []byte {
	b := make([]byte, 0, 2+len(e.Payload))
	b = append(b, statusEscapeSysEx)
	b = append(b, ioutil.EncodeVlq(uint32(len(e.Payload)))...)
	b = append(b, e.Payload...)
	return b
}
func (e EscapeSysEx) String() string { return fmt.Sprintf("EscapeSysEx(%d bytes)", len(e.Payload)) }

var (
	_ SysEx = NormalSysEx{}
	_ SysEx = EscapeSysEx{}
)
