package sync

import (
	"testing"
	"time"

	"github.com/bsv-blockchain/go-p2psync/chain"
	"github.com/bsv-blockchain/go-p2psync/errs"
	"github.com/bsv-blockchain/go-p2psync/wire"
	"github.com/libsv/go-bt/v2/chainhash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBlockDownloaderRejectsMismatchedBlock exercises the hash-mismatch
// misbehavior path: requesting two blocks, the peer delivers the first
// correctly and then an unrelated block instead of the second. The first
// must still be delivered to the store before the mismatch terminates the
// connection.
func TestBlockDownloaderRejectsMismatchedBlock(t *testing.T) {
	root := genesisData()
	store := chain.NewStore(root, chain.DefaultStabilizationDepth)

	h1 := &wire.BlockHeader{PrevBlock: root.Hash, Nonce: 1}
	h2 := &wire.BlockHeader{PrevBlock: h1.BlockHash(), Nonce: 2}
	require.NoError(t, store.TryAdd(h1))
	require.NoError(t, store.TryAdd(h2))

	conn, remote := newSyncTestPair(t)
	downloader := NewBlockDownloader(store, nil, conn)

	done := make(chan error, 1)
	go func() { done <- downloader.Run([]chainhash.Hash{h1.BlockHash(), h2.BlockHash()}) }()

	_, err := remote.Receive()
	require.NoError(t, err)

	require.NoError(t, remote.Send(&wire.MsgBlock{Header: *h1}))
	unrelated := &wire.MsgBlock{Header: wire.BlockHeader{PrevBlock: root.Hash, Nonce: 99}}
	require.NoError(t, remote.Send(unrelated))

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Equal(t, errs.KindMisbehavingPeer, errs.KindOf(err))
	case <-time.After(2 * time.Second):
		t.Fatal("expected block downloader to report the mismatched block")
	}

	block, ok := store.Get(h1.BlockHash())
	require.True(t, ok)
	assert.True(t, block.IsFull(), "the correctly-matched block must still be delivered before the mismatch aborts the batch")
}

// TestBlockDownloaderDeliversRequestedBody exercises the matching-hash
// path, upgrading a header-only block to full once its body arrives.
func TestBlockDownloaderDeliversRequestedBody(t *testing.T) {
	root := genesisData()
	store := chain.NewStore(root, chain.DefaultStabilizationDepth)

	wanted := &wire.BlockHeader{PrevBlock: root.Hash, Nonce: 1}
	require.NoError(t, store.TryAdd(wanted))
	hash := wanted.BlockHash()

	conn, remote := newSyncTestPair(t)
	downloader := NewBlockDownloader(store, nil, conn)

	done := make(chan error, 1)
	go func() { done <- downloader.Run([]chainhash.Hash{hash}) }()

	_, err := remote.Receive()
	require.NoError(t, err)
	require.NoError(t, remote.Send(&wire.MsgBlock{Header: *wanted}))

	require.NoError(t, <-done)

	block, ok := store.Get(hash)
	require.True(t, ok)
	assert.NotNil(t, block.Body)
}
