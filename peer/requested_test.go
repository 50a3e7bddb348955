package peer

import (
	"testing"
	"time"

	"github.com/libsv/go-bt/v2/chainhash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestedBlocksAddRemove(t *testing.T) {
	r := NewRequestedBlocks(time.Minute)

	var hash chainhash.Hash
	hash[0] = 1

	assert.False(t, r.Pending(hash))
	r.Add(hash, time.Now())
	assert.True(t, r.Pending(hash))

	r.Remove(hash)
	assert.False(t, r.Pending(hash))
}

func TestRequestedBlocksEmitsOnExpiry(t *testing.T) {
	r := NewRequestedBlocks(20 * time.Millisecond)

	var hash chainhash.Hash
	hash[0] = 7
	r.Add(hash, time.Now())

	select {
	case got := <-r.Expired():
		assert.Equal(t, hash, got)
	case <-time.After(2 * time.Second):
		t.Fatal("expected hash to be reported expired")
	}

	assert.False(t, r.Pending(hash))
}

func TestNewRequestedBlocksDefaultsZeroDuration(t *testing.T) {
	r := NewRequestedBlocks(0)
	require.NotNil(t, r)
}
