package peer

import (
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/bsv-blockchain/go-p2psync/metrics"
)

// DefaultBanDuration is how long a misbehaving peer's address is kept out
// of rotation before it is eligible for reconnection again.
const DefaultBanDuration = 24 * time.Hour

// BanList tracks misbehaving peer addresses with automatic expiry, so a
// dial loop can skip recently-banned hosts without growing an unbounded
// set.
type BanList struct {
	cache *ttlcache.Cache[string, struct{}]
}

// NewBanList creates a ban list whose entries expire after duration.
func NewBanList(duration time.Duration) *BanList {
	metrics.Init()
	if duration <= 0 {
		duration = DefaultBanDuration
	}
	cache := ttlcache.New[string, struct{}](
		ttlcache.WithTTL[string, struct{}](duration),
	)
	go cache.Start()
	return &BanList{cache: cache}
}

// Ban records addr as banned for this list's configured duration.
func (b *BanList) Ban(addr string) {
	b.cache.Set(addr, struct{}{}, ttlcache.DefaultTTL)
	metrics.PeersBanned.Inc()
}

// IsBanned reports whether addr is currently banned.
func (b *BanList) IsBanned(addr string) bool {
	return b.cache.Get(addr) != nil
}

// Stop shuts down the ban list's background eviction loop.
func (b *BanList) Stop() {
	b.cache.Stop()
}
