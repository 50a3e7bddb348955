package wire

import (
	"bytes"
	"testing"

	"github.com/bsv-blockchain/go-p2psync/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadMessageRoundTrip(t *testing.T) {
	ping := &MsgPing{Nonce: 0xdeadbeefcafef00d}

	var buf bytes.Buffer
	require.NoError(t, WriteMessage(&buf, ping, MainNet))

	got, err := ReadMessage(&buf, MainNet)
	require.NoError(t, err)

	gotPing, ok := got.(*MsgPing)
	require.True(t, ok)
	assert.Equal(t, ping.Nonce, gotPing.Nonce)
}

func TestReadMessageWrongMagic(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMessage(&buf, &MsgVerAck{}, TestNet))

	_, err := ReadMessage(&buf, MainNet)
	require.Error(t, err)
	assert.Equal(t, errs.KindWrongMagic, errs.KindOf(err))
}

func TestReadMessageBadChecksum(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMessage(&buf, &MsgPing{Nonce: 1}, MainNet))

	raw := buf.Bytes()
	// Corrupt a payload byte without touching the header's checksum field.
	raw[len(raw)-1] ^= 0xff

	_, err := ReadMessage(bytes.NewReader(raw), MainNet)
	require.Error(t, err)
	assert.Equal(t, errs.KindBadChecksum, errs.KindOf(err))
}

func TestReadMessageUnknownCommand(t *testing.T) {
	var headerBuf bytes.Buffer
	var command [commandSize]byte
	copy(command[:], "bogus")
	require.NoError(t, writeElements(&headerBuf, uint32(MainNet), command, uint32(0), [4]byte{0x5d, 0xf6, 0xe0, 0xe2}))

	_, err := ReadMessage(&headerBuf, MainNet)
	require.Error(t, err)
	assert.Equal(t, errs.KindUnknownCommand, errs.KindOf(err))
}

func TestMsgHeadersRejectsOversizeBatch(t *testing.T) {
	m := &MsgHeaders{Headers: make([]*BlockHeader, MaxHeadersPerMsg+1)}
	for i := range m.Headers {
		m.Headers[i] = &BlockHeader{}
	}

	var buf bytes.Buffer
	err := m.Encode(&buf)
	require.Error(t, err)
	assert.Equal(t, errs.KindDecodeError, errs.KindOf(err))
}
