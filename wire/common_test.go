package wire

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVarIntRoundTrip(t *testing.T) {
	cases := []uint64{0, 1, 0xfc, 0xfd, 0xfe, 0xffff, 0x10000, 0xffffffff, 0x100000000, ^uint64(0)}

	for _, v := range cases {
		var buf bytes.Buffer
		require.NoError(t, WriteVarInt(&buf, v))
		assert.Equal(t, VarIntSerializeSize(v), buf.Len())

		got, err := ReadVarInt(&buf)
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestVarStringRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteVarString(&buf, "/go-p2psync:0.1.0/"))

	got, err := ReadVarString(&buf)
	require.NoError(t, err)
	assert.Equal(t, "/go-p2psync:0.1.0/", got)
}

func TestDoubleSha256Deterministic(t *testing.T) {
	a := DoubleSha256([]byte("block header bytes"))
	b := DoubleSha256([]byte("block header bytes"))
	assert.Equal(t, a, b)
	assert.Len(t, a, 32)
}
