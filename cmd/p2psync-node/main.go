// Command p2psync-node dials a single peer, runs the initial header and
// block sync, then switches to live inv-driven updates: a flag-parsed
// entrypoint that wires together this module's library packages.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ordishs/gocore"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bsv-blockchain/go-p2psync/chain"
	"github.com/bsv-blockchain/go-p2psync/chaincfg"
	"github.com/bsv-blockchain/go-p2psync/config"
	"github.com/bsv-blockchain/go-p2psync/metrics"
	"github.com/bsv-blockchain/go-p2psync/peer"
	"github.com/bsv-blockchain/go-p2psync/retry"
	"github.com/bsv-blockchain/go-p2psync/socket"
	"github.com/bsv-blockchain/go-p2psync/sync"
	"github.com/bsv-blockchain/go-p2psync/ulogger"
	"github.com/bsv-blockchain/go-p2psync/wire"
	"github.com/libsv/go-bt/v2/chainhash"
)

func main() {
	peerAddr := flag.String("peer", "", "address (host:port) of the peer to sync from")
	network := flag.String("network", "", "network name: mainnet, testnet, or regtest (overrides config)")
	httpAddr := flag.String("http", "", "address to serve /metrics and /health on (overrides config)")
	flag.Parse()

	if *peerAddr == "" {
		log.Fatal("p2psync-node: -peer is required")
	}

	cfg := config.Load()
	if *network != "" {
		cfg.Network = *network
	}

	logger := ulogger.New("p2psync-node", envLevel())

	params, err := cfg.ChainParams()
	if err != nil {
		logger.Errorf("unknown network %q: %v", cfg.Network, err)
		os.Exit(1)
	}

	serveMetrics(logger, *httpAddr)

	root := chain.BlockData{
		Header: *params.GenesisHeader,
		Hash:   params.GenesisHash,
		Height: 0,
	}
	if cfg.StartBlock != nil {
		root = *cfg.StartBlock
	}
	store := chain.NewStore(root, cfg.StabilizationDepth, chain.TreeConfig{
		VerifyProofOfWork: cfg.VerifyProofOfWork,
		PowLimit:          params.PowLimit,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	bans := peer.NewBanList(0)
	defer bans.Stop()

	if bans.IsBanned(*peerAddr) {
		logger.Errorf("refusing to dial %s: address is banned", *peerAddr)
		os.Exit(1)
	}

	conn, err := connect(ctx, *peerAddr, params.Net, cfg, bans, logger)
	if err != nil {
		logger.Errorf("failed to connect to %s: %v", *peerAddr, err)
		os.Exit(1)
	}

	if err := runInitialSync(conn, store, logger); err != nil {
		logger.Errorf("initial sync failed: %v", err)
		os.Exit(1)
	}

	logger.Infof("caught up at height %d, switching to live listener", store.Latest().Height)

	downloader := sync.NewBlockDownloader(store, logger, conn)
	listener := sync.NewLiveListener(conn, store, downloader, sync.LiveListenerConfig{
		AcceptDirectHeaders: cfg.AcceptDirectHeaders,
	}, logger)

	stop := make(chan struct{})
	go func() {
		<-ctx.Done()
		close(stop)
	}()

	if err := listener.Run(stop); err != nil {
		logger.Errorf("live listener stopped: %v", err)
		os.Exit(1)
	}
}

// connect dials addr, performs the version/verack handshake, and wraps the
// result in a Connection that reports misbehavior to bans. Both steps run
// under retry.Do with exponential backoff, since a single peer over an
// unreliable link is expected to fail the occasional attempt.
func connect(ctx context.Context, addr string, network wire.BitcoinNet, cfg *config.Config, bans *peer.BanList, logger ulogger.Logger) (*peer.Connection, error) {
	var sock *socket.Socket

	err := retry.Do(ctx, logger, func() error {
		s, dialErr := socket.Dial(ctx, addr, network)
		if dialErr != nil {
			return dialErr
		}

		host, portStr, splitErr := net.SplitHostPort(addr)
		if splitErr != nil {
			s.Close()
			return splitErr
		}
		port, _ := parsePort(portStr)
		remoteNA := wire.NewNetAddressTimestamp(time.Now(), 0, net.ParseIP(host), port)
		localNA := wire.NewNetAddressTimestamp(time.Now(), cfg.Services, net.IPv4zero, 0)

		if _, hsErr := socket.Handshake(s, &socket.HandshakeConfig{
			ProtocolVersion: int32(wire.ProtocolVersion),
			Services:        cfg.Services,
			UserAgent:       cfg.UserAgent,
			Relay:           cfg.Relay,
			Nonce:           rand.Uint64(),
			StartHeight:     0,
			LocalAddr:       localNA,
			RemoteAddr:      remoteNA,
		}); hsErr != nil {
			s.Close()
			return hsErr
		}

		sock = s
		return nil
	},
		retry.WithMessage(fmt.Sprintf("dial %s: ", addr)),
		retry.WithRetryCount(3),
		retry.WithExponentialBackoff(),
	)
	if err != nil {
		return nil, err
	}

	return peer.New(sock, peer.Config{
		Network:             network,
		Logger:              logger,
		Bans:                bans,
		AcceptDirectHeaders: cfg.AcceptDirectHeaders,
	}), nil
}

// runInitialSync drives header sync to the peer's tip, then downloads
// bodies for every header-only block the sync left behind.
func runInitialSync(conn *peer.Connection, store *chain.Store, logger ulogger.Logger) error {
	hs := sync.NewHeaderSync(conn, store, logger)
	if err := hs.Run(); err != nil {
		return err
	}

	var hashes []chainhash.Hash
	for _, b := range append(store.Stable(), store.Unstable()...) {
		if !b.IsFull() {
			hashes = append(hashes, b.Hash)
		}
	}
	if len(hashes) == 0 {
		return nil
	}

	downloader := sync.NewBlockDownloader(store, logger, conn)
	return downloader.Run(hashes)
}

func serveMetrics(logger ulogger.Logger, override string) {
	metrics.Init()

	addr := override
	if addr == "" {
		addr, _ = gocore.Config().Get("p2psync_httpAddr", "localhost:8000")
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	go func() {
		logger.Infof("metrics available at http://%s/metrics", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Warnf("metrics server stopped: %v", err)
		}
	}()
}

func envLevel() string {
	level, _ := gocore.Config().Get("logLevel", "info")
	return level
}

func parsePort(s string) (uint16, error) {
	var port uint16
	_, err := fmt.Sscanf(s, "%d", &port)
	return port, err
}
