package ioutil

import (
	"bytes"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// S1: encode(0) = [0x00]; encode(0x7F) = [0x7F]; encode(0x80) = [0x81, 0x00];
// encode(0x0FFFFFFF) = [0xFF, 0xFF, 0xFF, 0x7F].
func TestEncodeVlq_Scenarios(t *testing.T) {
	cases := []struct {
		name string
		in   uint32
		want []byte
	}{
		{"zero", 0, []byte{0x00}},
		{"max one byte", 0x7F, []byte{0x7F}},
		{"min two bytes", 0x80, []byte{0x81, 0x00}},
		{"max value", MaxVlq, []byte{0xFF, 0xFF, 0xFF, 0x7F}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, EncodeVlq(tc.in))
		})
	}
}

func TestReadVlq_MatchesEncodeVlq(t *testing.T) {
	for _, n := range []uint32{0, 1, 0x7F, 0x80, 0x3FFF, 0x4000, 0x1FFFFF, 0x200000, MaxVlq} {
		got, err := ReadVlq(bytes.NewReader(EncodeVlq(n)))
		require.NoError(t, err)
		assert.Equal(t, n, got)
	}
}

func TestReadVlq_Overrun(t *testing.T) {
	_, err := ReadVlq(bytes.NewReader([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0x7F}))
	require.Error(t, err)
}

// Invariant 2: for all n in [0, 0x0FFFFFFF], decode(encode(n)) == n and
// encode(n) is of minimum length.
func TestPropertyVlqRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("round-trips and is minimum length", prop.ForAll(
		func(n uint32) bool {
			n %= MaxVlq + 1
			encoded := EncodeVlq(n)
			if len(encoded) != VlqLen(n) {
				return false
			}
			decoded, err := ReadVlq(bytes.NewReader(encoded))
			if err != nil {
				return false
			}
			return decoded == n
		},
		gen.UInt32(),
	))

	properties.TestingRun(t)
}
