package peer

import (
	"time"

	"github.com/libsv/go-bt/v2/chainhash"
	"github.com/ordishs/go-utils/expiringmap"
)

// DefaultRequestEvictionDuration bounds how long a requested-but-undelivered
// block hash is remembered before being forgotten.
const DefaultRequestEvictionDuration = 2 * time.Second

// RequestedBlocks tracks block hashes requested via GetBlocks that have not
// yet been delivered, so a driver can tell a silently-dropped request
// apart from one still in flight.
type RequestedBlocks struct {
	m       *expiringmap.ExpiringMap[chainhash.Hash, time.Time]
	expired chan chainhash.Hash
}

// NewRequestedBlocks creates a tracker whose entries expire after duration.
// A hash that expires before Remove is called is pushed onto Expired, an
// evict-and-report pattern built on the expiringmap eviction callback.
func NewRequestedBlocks(duration time.Duration) *RequestedBlocks {
	if duration <= 0 {
		duration = DefaultRequestEvictionDuration
	}
	r := &RequestedBlocks{
		m:       expiringmap.New[chainhash.Hash, time.Time](duration),
		expired: make(chan chainhash.Hash, 64),
	}
	r.m.WithEvictionFunction(func(hash chainhash.Hash, _ time.Time) bool {
		select {
		case r.expired <- hash:
		default:
		}
		return true
	})
	return r
}

// Expired emits a hash once its request has gone unanswered for longer
// than the tracker's eviction duration.
func (r *RequestedBlocks) Expired() <-chan chainhash.Hash {
	return r.expired
}

// Add records hash as requested at requestedAt.
func (r *RequestedBlocks) Add(hash chainhash.Hash, requestedAt time.Time) {
	r.m.Set(hash, requestedAt)
}

// Remove forgets hash, typically once its block has been delivered.
func (r *RequestedBlocks) Remove(hash chainhash.Hash) {
	r.m.Delete(hash)
}

// Pending reports whether hash is still outstanding.
func (r *RequestedBlocks) Pending(hash chainhash.Hash) bool {
	_, ok := r.m.Get(hash)
	return ok
}
