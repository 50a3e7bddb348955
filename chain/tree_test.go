package chain

import (
	"testing"
	"time"

	"github.com/bsv-blockchain/go-p2psync/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func genesisData() BlockData {
	h := &wire.BlockHeader{Timestamp: time.Unix(0, 0)}
	return BlockData{Header: *h, Hash: h.BlockHash(), Height: 0}
}

func TestBlockTreeLinearExtendReorgsActiveTip(t *testing.T) {
	root := genesisData()
	tree := NewBlockTree(root)

	h1 := &wire.BlockHeader{PrevBlock: root.Hash, Nonce: 1}
	require.NoError(t, tree.TryAdd(h1))

	assert.Equal(t, 2, tree.ActiveChain().Len())
	assert.Equal(t, h1.BlockHash(), tree.ActiveChain().Latest().Hash)
}

func TestBlockTreeRejectsOrphan(t *testing.T) {
	tree := NewBlockTree(genesisData())

	orphan := &wire.BlockHeader{Nonce: 99}
	err := tree.TryAdd(orphan)
	require.Error(t, err)
}

func TestBlockTreeDuplicateIsNoOp(t *testing.T) {
	root := genesisData()
	tree := NewBlockTree(root)

	h1 := &wire.BlockHeader{PrevBlock: root.Hash, Nonce: 1}
	require.NoError(t, tree.TryAdd(h1))
	require.NoError(t, tree.TryAdd(h1))

	assert.Equal(t, 2, tree.ActiveChain().Len())
}

func TestBlockTreeReorgToLongerFork(t *testing.T) {
	root := genesisData()
	tree := NewBlockTree(root)

	a1 := &wire.BlockHeader{PrevBlock: root.Hash, Nonce: 1}
	require.NoError(t, tree.TryAdd(a1))
	a2 := &wire.BlockHeader{PrevBlock: a1.BlockHash(), Nonce: 2}
	require.NoError(t, tree.TryAdd(a2))

	// Competing fork off the root, one block behind so far.
	b1 := &wire.BlockHeader{PrevBlock: root.Hash, Nonce: 101}
	require.NoError(t, tree.TryAdd(b1))
	assert.Equal(t, a2.BlockHash(), tree.ActiveChain().Latest().Hash, "shorter fork must not become active")

	// Extend b past a's tip: the active chain should reorg onto it.
	b2 := &wire.BlockHeader{PrevBlock: b1.BlockHash(), Nonce: 102}
	require.NoError(t, tree.TryAdd(b2))
	b3 := &wire.BlockHeader{PrevBlock: b2.BlockHash(), Nonce: 103}
	require.NoError(t, tree.TryAdd(b3))

	assert.Equal(t, b3.BlockHash(), tree.ActiveChain().Latest().Hash)
	assert.Equal(t, int32(3), tree.ActiveChain().Latest().Height)

	iter := tree.ActiveChain().Iter()
	require.Len(t, iter, 4)
	assert.Equal(t, root.Hash, iter[0].Hash)
	assert.Equal(t, b1.BlockHash(), iter[1].Hash)
	assert.Equal(t, b2.BlockHash(), iter[2].Hash)
	assert.Equal(t, b3.BlockHash(), iter[3].Hash)
}

func TestBlockTreePopHeadPrunesOtherSubtrees(t *testing.T) {
	root := genesisData()
	tree := NewBlockTree(root)

	a1 := &wire.BlockHeader{PrevBlock: root.Hash, Nonce: 1}
	require.NoError(t, tree.TryAdd(a1))
	b1 := &wire.BlockHeader{PrevBlock: root.Hash, Nonce: 2}
	require.NoError(t, tree.TryAdd(b1))

	popped := tree.PopHead()
	assert.Equal(t, root.Hash, popped.Hash)
	assert.False(t, tree.ActiveChain().Contains(b1.BlockHash()))
	assert.True(t, tree.ActiveChain().Contains(a1.BlockHash()))
}

func TestLocatorHashesEndsAtRoot(t *testing.T) {
	root := genesisData()
	tree := NewBlockTree(root)

	prev := root.Hash
	for i := uint32(1); i <= 15; i++ {
		h := &wire.BlockHeader{PrevBlock: prev, Nonce: i}
		require.NoError(t, tree.TryAdd(h))
		prev = h.BlockHash()
	}

	locator := tree.ActiveChain().LocatorHashes()
	require.NotEmpty(t, locator)
	assert.Equal(t, tree.ActiveChain().Latest().Hash, locator[0])
	assert.Equal(t, root.Hash, locator[len(locator)-1])
}
