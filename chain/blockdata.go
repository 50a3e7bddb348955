// Package chain implements a fork-aware chain tree and confirmation-depth
// stabilization: an arena-indexed BlockTree holding every known unstable
// branch, and a Store composing it with an append-only stable chain.
package chain

import (
	"github.com/bsv-blockchain/go-p2psync/wire"
	"github.com/libsv/go-bt/v2/chainhash"
)

// BlockData is one node's payload in the chain tree: its header, cached
// identity hash, integer height from the tree root, and an optional
// materialized body. A nil Body means header-only.
type BlockData struct {
	Header wire.BlockHeader
	Hash   chainhash.Hash
	Height int32
	Body   *wire.MsgBlock
}

// IsFull reports whether this block's body has been downloaded.
func (b *BlockData) IsFull() bool { return b.Body != nil }

func newBlockData(header *wire.BlockHeader, height int32) BlockData {
	return BlockData{
		Header: *header,
		Hash:   header.BlockHash(),
		Height: height,
	}
}
