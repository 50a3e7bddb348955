package chain

import (
	"math/big"

	"github.com/bsv-blockchain/go-p2psync/errs"
	"github.com/bsv-blockchain/go-p2psync/wire"
	"github.com/libsv/go-bt/v2/chainhash"
)

const noParent int32 = -1

// node is one arena slot: its payload, an upward parent index, and
// downward child indices. Arena indices avoid a raw pointer graph:
// dropping a subtree is tombstoning slots, not walking a pointer chain,
// and there is no cycle-collection concern since parent edges only ever
// point toward lower heights.
type node struct {
	data     BlockData
	parent   int32
	children []int32
}

// TreeConfig gates the optional validation BlockTree performs when linking
// a new header. The zero value skips proof-of-work verification entirely.
type TreeConfig struct {
	// VerifyProofOfWork rejects a header whose hash fails
	// BlockHeader.CheckProofOfWorkLimit against PowLimit. Off by default:
	// full target-bits retargeting is out of scope for this core, so this
	// checks only against a fixed network floor, not the retargeted
	// per-height difficulty a consensus-complete node would enforce.
	VerifyProofOfWork bool
	PowLimit          *big.Int
}

// BlockTree is the in-memory DAG of every known branch rooted at the
// implicitly-stable oldest retained block. It is not safe for concurrent
// use on its own: callers needing concurrency guard it with a mutex, as
// Store does.
type BlockTree struct {
	nodes   []node
	byHash  map[chainhash.Hash]int32
	active  []int32 // root-to-tip indices, kept in lockstep with every mutation
	rootIdx int32
	cfg     TreeConfig
}

// NewBlockTree creates a tree containing only root. cfg is optional; the
// zero value (no proof-of-work verification) is used if omitted.
func NewBlockTree(root BlockData, cfg ...TreeConfig) *BlockTree {
	t := &BlockTree{
		nodes:  []node{{data: root, parent: noParent}},
		byHash: map[chainhash.Hash]int32{root.Hash: 0},
		active: []int32{0},
	}
	if len(cfg) > 0 {
		t.cfg = cfg[0]
	}
	return t
}

// TryAdd locates header's parent by previous-hash and links a new child
// node, reorging the active chain if the new node's height strictly
// exceeds the current tip's. A header already present is a no-op. If
// t.cfg.VerifyProofOfWork is set, a header that fails the proof-of-work
// check is rejected rather than silently skipped.
func (t *BlockTree) TryAdd(header *wire.BlockHeader) error {
	hash := header.BlockHash()
	if _, ok := t.byHash[hash]; ok {
		return nil
	}

	parentIdx, ok := t.byHash[header.PrevBlock]
	if !ok {
		return errs.New(errs.KindNoParent, "no parent in tree for block %s", hash)
	}

	if t.cfg.VerifyProofOfWork && !header.CheckProofOfWorkLimit(t.cfg.PowLimit) {
		return errs.New(errs.KindInvalidProofOfWork, "block %s fails proof-of-work check", hash)
	}

	height := t.nodes[parentIdx].data.Height + 1
	newIdx := int32(len(t.nodes))
	t.nodes = append(t.nodes, node{
		data:   newBlockData(header, height),
		parent: parentIdx,
	})
	t.nodes[parentIdx].children = append(t.nodes[parentIdx].children, newIdx)
	t.byHash[hash] = newIdx

	tipIdx := t.active[len(t.active)-1]
	if height > t.nodes[tipIdx].data.Height {
		t.reorgTo(newIdx)
	}

	return nil
}

// reorgTo makes newIdx the active tip: walk up to the fork point on the
// current active chain, truncate there, then splice the path from the
// fork point down to newIdx onto it.
func (t *BlockTree) reorgTo(newIdx int32) {
	onActive := make(map[int32]int, len(t.active))
	for pos, idx := range t.active {
		onActive[idx] = pos
	}

	// Walk upward from newIdx, recording the path, until hitting a node
	// already on the active chain (the fork point).
	path := []int32{newIdx}
	cur := newIdx
	for {
		if _, ok := onActive[cur]; ok {
			break
		}
		cur = t.nodes[cur].parent
		path = append(path, cur)
	}
	forkIdx := cur
	forkPos := onActive[forkIdx]

	// path is [newIdx, ..., forkIdx]; reverse everything but forkIdx to get
	// the new segment in root-to-tip order.
	newSegment := make([]int32, 0, len(path)-1)
	for i := len(path) - 2; i >= 0; i-- {
		newSegment = append(newSegment, path[i])
	}

	t.active = append(t.active[:forkPos+1:forkPos+1], newSegment...)
}

// PopHead removes the current root, promoting its child on the active
// chain to the new root and dropping every other subtree hanging off the
// old root. Panics if the tree holds only one node — callers must check
// ActiveChain().Len() first.
func (t *BlockTree) PopHead() BlockData {
	if len(t.active) <= 1 {
		panic("chain: PopHead called on a single-node tree")
	}

	oldRootIdx := t.active[0]
	newRootIdx := t.active[1]
	popped := t.nodes[oldRootIdx].data

	for _, childIdx := range t.nodes[oldRootIdx].children {
		if childIdx != newRootIdx {
			t.pruneSubtree(childIdx)
		}
	}

	delete(t.byHash, popped.Hash)
	t.nodes[newRootIdx].parent = noParent
	t.active = t.active[1:]
	t.rootIdx = newRootIdx
	t.nodes[oldRootIdx] = node{}

	return popped
}

func (t *BlockTree) pruneSubtree(idx int32) {
	n := t.nodes[idx]
	delete(t.byHash, n.data.Hash)
	for _, child := range n.children {
		t.pruneSubtree(child)
	}
	t.nodes[idx] = node{}
}

// ActiveChain returns a view over the current root-to-tip path.
func (t *BlockTree) ActiveChain() *ActiveChainView {
	return &ActiveChainView{tree: t}
}

// ActiveChainView exposes read-only operations over a BlockTree's current
// active chain.
type ActiveChainView struct {
	tree *BlockTree
}

// Len returns the number of blocks on the active chain, including the
// tree's root.
func (v *ActiveChainView) Len() int { return len(v.tree.active) }

// Latest returns the active tip.
func (v *ActiveChainView) Latest() *BlockData {
	idx := v.tree.active[len(v.tree.active)-1]
	return &v.tree.nodes[idx].data
}

// GetByHeight returns the active-chain block at absolute height h, if any.
func (v *ActiveChainView) GetByHeight(h int32) (*BlockData, bool) {
	rootHeight := v.tree.nodes[v.tree.active[0]].data.Height
	offset := h - rootHeight
	if offset < 0 || int(offset) >= len(v.tree.active) {
		return nil, false
	}
	idx := v.tree.active[offset]
	return &v.tree.nodes[idx].data, true
}

// Contains reports whether hash names a block on the active chain.
func (v *ActiveChainView) Contains(hash chainhash.Hash) bool {
	idx, ok := v.tree.byHash[hash]
	if !ok {
		return false
	}
	for _, activeIdx := range v.tree.active {
		if activeIdx == idx {
			return true
		}
	}
	return false
}

// Iter returns the active chain root-to-tip.
func (v *ActiveChainView) Iter() []*BlockData {
	out := make([]*BlockData, len(v.tree.active))
	for i, idx := range v.tree.active {
		out[i] = &v.tree.nodes[idx].data
	}
	return out
}

// LocatorHashes implements Bitcoin's canonical exponential-backoff locator:
// the ten most recent blocks (the tip and the nine below it) at step 1, then
// doubling the step each time, always ending with the root hash.
func (v *ActiveChainView) LocatorHashes() []chainhash.Hash {
	n := len(v.tree.active)
	hashes := make([]chainhash.Hash, 0, 32)

	step := 1
	i := n - 1
	for i >= 0 {
		idx := v.tree.active[i]
		hashes = append(hashes, v.tree.nodes[idx].data.Hash)
		if len(hashes) >= 10 {
			step *= 2
		}
		i -= step
	}

	rootHash := v.tree.nodes[v.tree.active[0]].data.Hash
	if hashes[len(hashes)-1] != rootHash {
		hashes = append(hashes, rootHash)
	}

	return hashes
}
