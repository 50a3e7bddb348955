package socket

import (
	"net"
	"testing"
	"time"

	"github.com/bsv-blockchain/go-p2psync/errs"
	"github.com/bsv-blockchain/go-p2psync/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cfgFor(nonce uint64) *HandshakeConfig {
	na := wire.NewNetAddressTimestamp(time.Now(), wire.SFNodeNetwork, net.IPv4zero, 0)
	return &HandshakeConfig{
		ProtocolVersion: int32(wire.ProtocolVersion),
		Services:        wire.SFNodeNetwork,
		UserAgent:       "/p2psync-test:0.1/",
		Relay:           true,
		Nonce:           nonce,
		StartHeight:     0,
		LocalAddr:       na,
		RemoteAddr:      na,
	}
}

func TestHandshakeSucceeds(t *testing.T) {
	// Both sides send their version before reading, so the transport must
	// buffer writes: a loopback TCP pair rather than an unbuffered net.Pipe.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	clientConn, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	serverConn, err := ln.Accept()
	require.NoError(t, err)
	defer clientConn.Close()
	defer serverConn.Close()

	client := New(clientConn, wire.MainNet)
	server := New(serverConn, wire.MainNet)

	type result struct {
		ver *wire.MsgVersion
		err error
	}
	clientDone := make(chan result, 1)
	serverDone := make(chan result, 1)

	go func() {
		ver, err := Handshake(client, cfgFor(1))
		clientDone <- result{ver, err}
	}()
	go func() {
		ver, err := Handshake(server, cfgFor(2))
		serverDone <- result{ver, err}
	}()

	cr := <-clientDone
	sr := <-serverDone

	require.NoError(t, cr.err)
	require.NoError(t, sr.err)
	assert.Equal(t, uint64(2), cr.ver.Nonce)
	assert.Equal(t, uint64(1), sr.ver.Nonce)
}

func TestHandshakeFailsOnUnexpectedMessage(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	client := New(clientConn, wire.MainNet)
	server := New(serverConn, wire.MainNet)

	go func() {
		// Consume the client's version, then misbehave by replying with a
		// ping instead of a version message.
		_, _ = server.Receive()
		_ = server.Send(&wire.MsgPing{Nonce: 1})
	}()

	_, err := Handshake(client, cfgFor(1))
	require.Error(t, err)
	assert.Equal(t, errs.KindHandshakeFailed, errs.KindOf(err))
}
