package peer

import (
	"net"
	"testing"
	"time"

	"github.com/bsv-blockchain/go-p2psync/errs"
	"github.com/bsv-blockchain/go-p2psync/socket"
	"github.com/bsv-blockchain/go-p2psync/wire"
	"github.com/libsv/go-bt/v2/chainhash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestPair returns a Connection wrapping one end of an in-memory pipe,
// and a raw Socket over the other end standing in for the remote peer.
func newTestPair(t *testing.T, cfg Config) (*Connection, *socket.Socket) {
	t.Helper()
	local, remote := net.Pipe()
	t.Cleanup(func() { local.Close(); remote.Close() })

	conn := New(socket.New(local, wire.MainNet), cfg)
	remoteSock := socket.New(remote, wire.MainNet)
	return conn, remoteSock
}

func TestConnectionRejectsUnsolicitedHeadersAndBans(t *testing.T) {
	bans := NewBanList(time.Minute)
	defer bans.Stop()

	conn, remote := newTestPair(t, Config{Network: wire.MainNet, Bans: bans})

	err := remote.Send(&wire.MsgHeaders{})
	require.NoError(t, err)

	select {
	case <-conn.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("expected connection to terminate on unsolicited headers")
	}

	gotErr := conn.Err()
	require.Error(t, gotErr)
	assert.Equal(t, errs.KindMisbehavingPeer, errs.KindOf(gotErr))
	assert.True(t, bans.IsBanned(conn.RemoteAddr().String()))
}

func TestConnectionRoutesUnsolicitedHeadersWhenAcceptDirectHeadersSet(t *testing.T) {
	directCh := make(chan *wire.MsgHeaders, 1)
	conn, remote := newTestPair(t, Config{Network: wire.MainNet, AcceptDirectHeaders: true})
	conn.Send(SubscribeDirectHeaders{Subscriber: directCh})

	hdr := &wire.MsgHeaders{Headers: []*wire.BlockHeader{{Timestamp: time.Unix(0, 0), Bits: 1}}}
	require.NoError(t, remote.Send(hdr))

	select {
	case got := <-directCh:
		assert.Equal(t, hdr, got)
	case <-time.After(2 * time.Second):
		t.Fatal("expected direct headers to be routed to subscriber")
	case <-conn.Done():
		t.Fatal("connection terminated instead of routing direct headers")
	}
}

func TestConnectionRejectsBlockNotInPendingSet(t *testing.T) {
	conn, remote := newTestPair(t, Config{Network: wire.MainNet})

	wanted := chainhash.Hash{1}
	replyTo := make(chan *wire.MsgBlock, 1)
	conn.Send(GetBlocks{Hashes: []chainhash.Hash{wanted}, ReplyTo: replyTo})

	// Let the getdata request land before replying with an unrelated block.
	_, err := remote.Receive()
	require.NoError(t, err)

	unexpected := wire.MsgBlock{Header: wire.BlockHeader{Bits: 99}}
	require.NoError(t, remote.Send(&unexpected))

	select {
	case <-conn.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("expected connection to terminate on mismatched block delivery")
	}

	gotErr := conn.Err()
	require.Error(t, gotErr)
	assert.Equal(t, errs.KindMisbehavingPeer, errs.KindOf(gotErr))
}

func TestConnectionDeliversRequestedBlock(t *testing.T) {
	conn, remote := newTestPair(t, Config{Network: wire.MainNet})

	var hdr wire.BlockHeader
	hdr.Bits = 0x1d00ffff
	want := hdr.BlockHash()

	replyTo := make(chan *wire.MsgBlock, 1)
	conn.Send(GetBlocks{Hashes: []chainhash.Hash{want}, ReplyTo: replyTo})

	_, err := remote.Receive()
	require.NoError(t, err)

	block := &wire.MsgBlock{Header: hdr}
	require.NoError(t, remote.Send(block))

	select {
	case got, ok := <-replyTo:
		require.True(t, ok)
		assert.Equal(t, want, got.BlockHash())
	case <-time.After(2 * time.Second):
		t.Fatal("expected requested block to be delivered")
	}
}
