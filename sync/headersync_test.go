package sync

import (
	"net"
	"testing"
	"time"

	"github.com/bsv-blockchain/go-p2psync/chain"
	"github.com/bsv-blockchain/go-p2psync/errs"
	"github.com/bsv-blockchain/go-p2psync/peer"
	"github.com/bsv-blockchain/go-p2psync/socket"
	"github.com/bsv-blockchain/go-p2psync/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func genesisData() chain.BlockData {
	h := &wire.BlockHeader{Timestamp: time.Unix(0, 0)}
	return chain.BlockData{Header: *h, Hash: h.BlockHash(), Height: 0}
}

// newSyncTestPair wires a peer.Connection over one end of an in-memory
// pipe, with the other end exposed as a raw Socket standing in for the
// remote peer's responses.
func newSyncTestPair(t *testing.T) (*peer.Connection, *socket.Socket) {
	t.Helper()
	local, remote := net.Pipe()
	t.Cleanup(func() { local.Close(); remote.Close() })

	conn := peer.New(socket.New(local, wire.MainNet), peer.Config{Network: wire.MainNet})
	return conn, socket.New(remote, wire.MainNet)
}

// TestHeaderSyncCatchesUpToPeerTip drives one short round of getheaders
// against a fake remote that replies with two linear headers, a reply short
// of wire.MaxHeadersPerMsg, mirroring a peer whose tip has been reached.
func TestHeaderSyncCatchesUpToPeerTip(t *testing.T) {
	root := genesisData()
	store := chain.NewStore(root, chain.DefaultStabilizationDepth)

	conn, remote := newSyncTestPair(t)
	hs := NewHeaderSync(conn, store, nil)

	h1 := &wire.BlockHeader{PrevBlock: root.Hash, Nonce: 1}
	h2 := &wire.BlockHeader{PrevBlock: h1.BlockHash(), Nonce: 2}

	done := make(chan error, 1)
	go func() { done <- hs.Run() }()

	// First getheaders round: reply with both headers, short of
	// wire.MaxHeadersPerMsg so the driver treats the peer as caught up.
	_, err := remote.Receive()
	require.NoError(t, err)
	require.NoError(t, remote.Send(&wire.MsgHeaders{Headers: []*wire.BlockHeader{h1, h2}}))

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("header sync did not complete")
	}

	assert.Equal(t, 3, store.Len())
	assert.Equal(t, h2.BlockHash(), store.Latest().Hash)
}

// TestHeaderSyncTreatsUnknownParentAsMisbehavior exercises the block-sync
// hash-mismatch scenario one level up: a header whose parent the store has
// never seen disconnects instead of corrupting the active chain.
func TestHeaderSyncTreatsUnknownParentAsMisbehavior(t *testing.T) {
	root := genesisData()
	store := chain.NewStore(root, chain.DefaultStabilizationDepth)

	conn, remote := newSyncTestPair(t)
	hs := NewHeaderSync(conn, store, nil)

	orphan := &wire.BlockHeader{Nonce: 7}

	done := make(chan error, 1)
	go func() { done <- hs.Run() }()

	_, err := remote.Receive()
	require.NoError(t, err)
	require.NoError(t, remote.Send(&wire.MsgHeaders{Headers: []*wire.BlockHeader{orphan}}))

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Equal(t, errs.KindMisbehavingPeer, errs.KindOf(err))
	case <-time.After(2 * time.Second):
		t.Fatal("header sync did not complete")
	}

	assert.Equal(t, 1, store.Len(), "store must not have accepted the orphan header")
}
