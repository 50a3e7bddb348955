package chain

import (
	"testing"
	"time"

	"github.com/bsv-blockchain/go-p2psync/errs"
	"github.com/bsv-blockchain/go-p2psync/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreMigratesStableBlocksPastDepth(t *testing.T) {
	root := genesisData()
	store := NewStore(root, 3)

	prev := root.Hash
	for i := uint32(1); i <= 5; i++ {
		h := &wire.BlockHeader{PrevBlock: prev, Timestamp: time.Unix(int64(i), 0), Nonce: i}
		require.NoError(t, store.TryAdd(h))
		prev = h.BlockHash()
	}

	// 6 blocks total (root + 5), stabilization depth 3: 3 should have
	// migrated to the stable chain, leaving 3 unstable.
	assert.Len(t, store.Stable(), 3)
	assert.Len(t, store.Unstable(), 3)
	assert.Equal(t, 6, store.Len())
}

func TestStoreDefaultsStabilizationDepth(t *testing.T) {
	store := NewStore(genesisData(), 0)
	assert.Equal(t, uint32(DefaultStabilizationDepth), store.k)
}

func TestStoreSetBodyUpgradesHeaderOnlyBlock(t *testing.T) {
	root := genesisData()
	store := NewStore(root, 100)

	h := &wire.BlockHeader{PrevBlock: root.Hash, Nonce: 1}
	require.NoError(t, store.TryAdd(h))

	body := &wire.MsgBlock{Header: *h}
	require.NoError(t, store.SetBody(h.BlockHash(), body))

	got, ok := store.Get(h.BlockHash())
	require.True(t, ok)
	assert.True(t, got.IsFull())
}

func TestStoreSetBodyRejectsUnknownHash(t *testing.T) {
	store := NewStore(genesisData(), 100)

	var unknown [32]byte
	unknown[0] = 0xff
	err := store.SetBody(unknown, &wire.MsgBlock{})

	require.Error(t, err)
	assert.Equal(t, errs.KindMisbehavingPeer, errs.KindOf(err))
}

func TestStoreGetByHeightSpansStableAndUnstable(t *testing.T) {
	root := genesisData()
	store := NewStore(root, 2)

	prev := root.Hash
	for i := uint32(1); i <= 4; i++ {
		h := &wire.BlockHeader{PrevBlock: prev, Timestamp: time.Unix(int64(i), 0), Nonce: i}
		require.NoError(t, store.TryAdd(h))
		prev = h.BlockHash()
	}

	stableBlock, ok := store.GetByHeight(0)
	require.True(t, ok)
	assert.Equal(t, int32(0), stableBlock.Height)

	tip, ok := store.GetByHeight(4)
	require.True(t, ok)
	assert.Equal(t, store.Latest().Hash, tip.Hash)

	_, ok = store.GetByHeight(99)
	assert.False(t, ok)
}
