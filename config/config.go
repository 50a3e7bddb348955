// Package config loads this module's tunables via ordishs/gocore's config
// store, the same key/default lookup pattern used throughout for every
// tunable.
package config

import (
	"github.com/ordishs/gocore"

	"github.com/bsv-blockchain/go-p2psync/chain"
	"github.com/bsv-blockchain/go-p2psync/chaincfg"
	"github.com/bsv-blockchain/go-p2psync/wire"
)

// Config carries every recognized option for running a node.
type Config struct {
	Network             string
	StabilizationDepth  uint32
	StartBlock          *chain.BlockData
	Services            wire.ServiceFlag
	Relay               bool
	UserAgent           string
	AcceptDirectHeaders bool
	VerifyProofOfWork   bool
}

// Option mutates a Config under construction.
type Option func(*Config)

// WithNetwork selects mainnet, testnet, or regtest.
func WithNetwork(network string) Option {
	return func(c *Config) { c.Network = network }
}

// WithStabilizationDepth overrides the confirmation depth K.
func WithStabilizationDepth(k uint32) Option {
	return func(c *Config) { c.StabilizationDepth = k }
}

// WithStartBlock roots the chain tree at an externally supplied checkpoint
// instead of network genesis.
func WithStartBlock(block *chain.BlockData) Option {
	return func(c *Config) { c.StartBlock = block }
}

// WithServices sets the service bitfield advertised in version messages.
func WithServices(services wire.ServiceFlag) Option {
	return func(c *Config) { c.Services = services }
}

// WithRelay sets the relay flag advertised in version messages.
func WithRelay(relay bool) Option {
	return func(c *Config) { c.Relay = relay }
}

// WithUserAgent overrides the advertised user agent string.
func WithUserAgent(userAgent string) Option {
	return func(c *Config) { c.UserAgent = userAgent }
}

// WithAcceptDirectHeaders opts into treating an unsolicited headers
// message as a BIP130 direct announcement rather than misbehavior.
func WithAcceptDirectHeaders(accept bool) Option {
	return func(c *Config) { c.AcceptDirectHeaders = accept }
}

// WithVerifyProofOfWork opts into rejecting headers that fail the
// network's proof-of-work floor instead of accepting them unchecked.
func WithVerifyProofOfWork(verify bool) Option {
	return func(c *Config) { c.VerifyProofOfWork = verify }
}

// Default returns a Config with this module's documented defaults.
func Default() *Config {
	return &Config{
		Network:             "mainnet",
		StabilizationDepth:  chain.DefaultStabilizationDepth,
		Services:            wire.SFNodeNetwork,
		Relay:               true,
		UserAgent:           "/go-p2psync:0.1.0/",
		AcceptDirectHeaders: false,
		VerifyProofOfWork:   false,
	}
}

// Load builds a Config from ordishs/gocore's process-wide configuration
// store, layering any explicit opts on top of values found there. Every
// lookup supplies the current Default as its fallback, matching the
// teacher's key, defaultValue -> (value, found) call pattern (e.g.
// stores/utxo/sql/sql.go's dbTimeoutMillis lookup).
func Load(opts ...Option) *Config {
	cfg := Default()

	if network, _ := gocore.Config().Get("network", cfg.Network); network != "" {
		cfg.Network = network
	}
	if k, _ := gocore.Config().GetInt("stabilization_depth", int(cfg.StabilizationDepth)); k >= 0 {
		cfg.StabilizationDepth = uint32(k)
	}
	if services, _ := gocore.Config().GetInt("services", int(cfg.Services)); services >= 0 {
		cfg.Services = wire.ServiceFlag(services)
	}
	cfg.Relay = gocore.Config().GetBool("relay", cfg.Relay)
	if userAgent, _ := gocore.Config().Get("user_agent", cfg.UserAgent); userAgent != "" {
		cfg.UserAgent = userAgent
	}
	cfg.AcceptDirectHeaders = gocore.Config().GetBool("accept_direct_headers", cfg.AcceptDirectHeaders)
	cfg.VerifyProofOfWork = gocore.Config().GetBool("verify_proof_of_work", cfg.VerifyProofOfWork)

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// ChainParams resolves this Config's network name to its chaincfg.Params.
func (c *Config) ChainParams() (*chaincfg.Params, error) {
	return chaincfg.ParamsForNetwork(c.Network)
}
