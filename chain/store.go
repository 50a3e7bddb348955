package chain

import (
	"sync"

	"github.com/bsv-blockchain/go-p2psync/errs"
	"github.com/bsv-blockchain/go-p2psync/metrics"
	"github.com/bsv-blockchain/go-p2psync/wire"
	"github.com/libsv/go-bt/v2/chainhash"
)

// DefaultStabilizationDepth is used when a caller does not configure one
// explicitly: 100 confirmations, the confirmation horizon a legacy Bitcoin
// full-node sync manager treats as its stable threshold.
const DefaultStabilizationDepth = 100

// Store is the composition of an append-only StableChain and a BlockTree,
// confirmation-depth driven. It is the only piece of shared mutable state
// a sync driver touches across goroutines; every mutating method takes
// the lock, and chain mutations never block on I/O.
type Store struct {
	mu     sync.Mutex
	stable []BlockData
	tree   *BlockTree
	k      uint32
}

// NewStore creates a store rooted at root, either network genesis or an
// externally supplied checkpoint. treeCfg is optional and is forwarded to
// the underlying BlockTree (see TreeConfig.VerifyProofOfWork).
func NewStore(root BlockData, stabilizationDepth uint32, treeCfg ...TreeConfig) *Store {
	metrics.Init()
	if stabilizationDepth == 0 {
		stabilizationDepth = DefaultStabilizationDepth
	}
	return &Store{
		tree: NewBlockTree(root, treeCfg...),
		k:    stabilizationDepth,
	}
}

// TryAdd links header into the tree, then migrates any newly-stable
// prefix into the stable chain.
func (s *Store) TryAdd(header *wire.BlockHeader) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var prevTip chainhash.Hash
	if tip := s.tree.ActiveChain().Latest(); tip != nil {
		prevTip = tip.Hash
	}

	if err := s.tree.TryAdd(header); err != nil {
		metrics.HeadersRejected.Inc()
		return err
	}
	metrics.HeadersReceived.Inc()

	if newTip := s.tree.ActiveChain().Latest(); newTip != nil && newTip.Hash != prevTip && newTip.Header.PrevBlock != prevTip {
		metrics.ReorgsTotal.Inc()
	}

	for uint32(s.tree.ActiveChain().Len()) > s.k {
		popped := s.tree.PopHead()
		s.stable = append(s.stable, popped)
	}

	if tip := s.tree.ActiveChain().Latest(); tip != nil {
		metrics.ActiveHeight.Set(float64(tip.Height))
	}
	metrics.ActiveChainLen.Set(float64(s.tree.ActiveChain().Len()))
	if len(s.stable) > 0 {
		metrics.StableHeight.Set(float64(s.stable[len(s.stable)-1].Height))
	}

	return nil
}

// SetBody attaches a downloaded body to the block identified by hash,
// upgrading it from header-only to full. Returns a MisbehavingPeer-flavored
// errs.Error if hash names no known block — a peer delivering a block it
// was never asked for.
func (s *Store) SetBody(hash chainhash.Hash, body *wire.MsgBlock) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx, ok := s.tree.byHash[hash]; ok {
		s.tree.nodes[idx].data.Body = body
		metrics.BlocksReceived.Inc()
		return nil
	}

	for i := range s.stable {
		if s.stable[i].Hash == hash {
			s.stable[i].Body = body
			metrics.BlocksReceived.Inc()
			return nil
		}
	}

	return errs.New(errs.KindMisbehavingPeer, "block %s not pending in store", hash)
}

// Get returns the block identified by hash, searching the stable chain
// then the tree.
func (s *Store) Get(hash chainhash.Hash) (*BlockData, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx, ok := s.tree.byHash[hash]; ok {
		data := s.tree.nodes[idx].data
		return &data, true
	}
	for i := range s.stable {
		if s.stable[i].Hash == hash {
			data := s.stable[i]
			return &data, true
		}
	}
	return nil, false
}

// GetByHeight returns the block at absolute height h on the active chain,
// searching the stable chain then the tree's active chain.
func (s *Store) GetByHeight(h int32) (*BlockData, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.stable) > 0 {
		rootHeight := s.stable[0].Height
		if offset := h - rootHeight; offset >= 0 && int(offset) < len(s.stable) {
			data := s.stable[offset]
			return &data, true
		}
	}
	return s.tree.ActiveChain().GetByHeight(h)
}

// Latest returns the active tip.
func (s *Store) Latest() *BlockData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree.ActiveChain().Latest()
}

// LocatorHashes returns the active chain's sparse locator hash list.
func (s *Store) LocatorHashes() []chainhash.Hash {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree.ActiveChain().LocatorHashes()
}

// Len returns the combined stable-plus-unstable chain length.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.stable) + s.tree.ActiveChain().Len()
}

// Stable returns a snapshot copy of the stable chain.
func (s *Store) Stable() []BlockData {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]BlockData, len(s.stable))
	copy(out, s.stable)
	return out
}

// Unstable returns a snapshot copy of the tree's current active chain.
func (s *Store) Unstable() []BlockData {
	s.mu.Lock()
	defer s.mu.Unlock()
	view := s.tree.ActiveChain().Iter()
	out := make([]BlockData, len(view))
	for i, d := range view {
		out[i] = *d
	}
	return out
}

// Contains reports whether hash names a block anywhere in the store.
func (s *Store) Contains(hash chainhash.Hash) bool {
	_, ok := s.Get(hash)
	return ok
}
