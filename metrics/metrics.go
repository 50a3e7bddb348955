// Package metrics exposes the prometheus counters and gauges collectors in
// this module report against: package-level collector vars, a
// sync.Once-guarded init routine, promauto registration against the
// default registerer.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HeadersReceived prometheus.Counter
	HeadersRejected prometheus.Counter
	BlocksReceived  prometheus.Counter
	ReorgsTotal     prometheus.Counter
	StableHeight    prometheus.Gauge
	ActiveHeight    prometheus.Gauge
	ActiveChainLen  prometheus.Gauge
	PeersConnected  prometheus.Gauge
	PeersBanned     prometheus.Counter
	BlockDownloadMs prometheus.Histogram
)

var once sync.Once

// Init registers every collector against the default registerer. Safe to
// call more than once; only the first call takes effect.
func Init() {
	once.Do(_init)
}

func _init() {
	HeadersReceived = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "p2psync",
		Subsystem: "chain",
		Name:      "headers_received_total",
		Help:      "Number of block headers accepted into the chain tree",
	})

	HeadersRejected = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "p2psync",
		Subsystem: "chain",
		Name:      "headers_rejected_total",
		Help:      "Number of block headers rejected by the chain tree (no known parent, or failed proof-of-work check)",
	})

	BlocksReceived = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "p2psync",
		Subsystem: "sync",
		Name:      "blocks_received_total",
		Help:      "Number of full blocks materialized via getdata",
	})

	ReorgsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "p2psync",
		Subsystem: "chain",
		Name:      "reorgs_total",
		Help:      "Number of times the active chain was spliced onto a different branch",
	})

	StableHeight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "p2psync",
		Subsystem: "chain",
		Name:      "stable_height",
		Help:      "Height of the most recent block past the stabilization depth",
	})

	ActiveHeight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "p2psync",
		Subsystem: "chain",
		Name:      "active_height",
		Help:      "Height of the active chain's tip",
	})

	ActiveChainLen = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "p2psync",
		Subsystem: "chain",
		Name:      "active_chain_len",
		Help:      "Number of blocks on the tree's active chain, not yet stabilized",
	})

	PeersConnected = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "p2psync",
		Subsystem: "peer",
		Name:      "connected",
		Help:      "Number of peer connections currently in the ready state",
	})

	PeersBanned = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "p2psync",
		Subsystem: "peer",
		Name:      "banned_total",
		Help:      "Number of peer addresses placed on the ban list",
	})

	BlockDownloadMs = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "p2psync",
		Subsystem: "sync",
		Name:      "block_download_seconds",
		Help:      "Time to download one getdata batch of blocks",
		Buckets:   prometheus.DefBuckets,
	})
}
