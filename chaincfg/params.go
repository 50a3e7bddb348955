// Package chaincfg carries the per-network parameters (magic bytes, genesis
// header, seed hosts, proof-of-work limit) that the chain and peer packages
// need to talk to a given Bitcoin network, scoped to what a header/block
// sync core actually consults — no address encoding, HD keys, or BIP9
// deployment voting fields.
package chaincfg

import (
	"math/big"
	"time"

	"github.com/bsv-blockchain/go-p2psync/wire"
	"github.com/libsv/go-bt/v2/chainhash"
)

var bigOne = big.NewInt(1)

var (
	mainPowLimit       = new(big.Int).Sub(new(big.Int).Lsh(bigOne, 224), bigOne)
	regressionPowLimit = new(big.Int).Sub(new(big.Int).Lsh(bigOne, 255), bigOne)
	testNetPowLimit    = new(big.Int).Sub(new(big.Int).Lsh(bigOne, 224), bigOne)
)

// Checkpoint pins a known-good (height, hash) pair a header chain can be
// sanity-checked against.
type Checkpoint struct {
	Height int32
	Hash   *chainhash.Hash
}

// DNSSeed identifies a DNS seed host used for initial peer discovery; see
// the bnet package.
type DNSSeed struct {
	Host         string
	HasFiltering bool
}

func (d DNSSeed) String() string { return d.Host }

// Params carries everything the wire, chain, peer, and sync packages need
// to know about the network they are speaking to.
type Params struct {
	Name        string
	Net         wire.BitcoinNet
	DefaultPort string
	DNSSeeds    []DNSSeed

	GenesisHeader *wire.BlockHeader
	GenesisHash   chainhash.Hash

	PowLimit     *big.Int
	PowLimitBits uint32

	TargetTimePerBlock time.Duration

	Checkpoints []Checkpoint
}

var genesisHeader = wire.BlockHeader{
	Version:    1,
	PrevBlock:  chainhash.Hash{},
	MerkleRoot: mustHash("4a5e1e4baab89f3a32518a88c31bc87f618f76673e2cc77ab2127b7afdeda33b"),
	Timestamp:  time.Unix(1231006505, 0),
	Bits:       0x1d00ffff,
	Nonce:      2083236893,
}

// genesisHash is derived from the header rather than quoted separately, so
// the two can never drift apart the way two independent literals could.
var genesisHash = genesisHeader.BlockHash()

// MainNetParams are the production Bitcoin network parameters.
var MainNetParams = Params{
	Name:        "mainnet",
	Net:         wire.MainNet,
	DefaultPort: wire.MainNetPort,
	DNSSeeds: []DNSSeed{
		{Host: "seed.bitcoinsv.io", HasFiltering: true},
	},
	GenesisHeader:      &genesisHeader,
	GenesisHash:        genesisHash,
	PowLimit:           mainPowLimit,
	PowLimitBits:       0x1d00ffff,
	TargetTimePerBlock: time.Minute * 10,
	Checkpoints: []Checkpoint{
		{Height: 11111, Hash: mustHashPtr("0000000069e244f73d78e8fd29ba2fd2ed618bd6fa2ee92559f542fdb26e7c1d")},
		{Height: 250000, Hash: mustHashPtr("000000000000003887df1f29024b06fc2200b55f8af8f35453d7be294df2d214")},
	},
}

// TestNetParams are the public test network (testnet3) parameters.
var TestNetParams = Params{
	Name:        "testnet",
	Net:         wire.TestNet,
	DefaultPort: wire.TestNetPort,
	DNSSeeds: []DNSSeed{
		{Host: "testnet-seed.bitcoinsv.io", HasFiltering: true},
	},
	GenesisHeader:      &genesisHeader,
	GenesisHash:        genesisHash,
	PowLimit:           testNetPowLimit,
	PowLimitBits:       0x1d00ffff,
	TargetTimePerBlock: time.Minute * 10,
}

// RegressionNetParams are the local regression-test network parameters,
// used by integration tests that need fast, deterministic blocks.
var RegressionNetParams = Params{
	Name:               "regtest",
	Net:                wire.RegressionNet,
	DefaultPort:        "18444",
	DNSSeeds:           nil,
	GenesisHeader:      &genesisHeader,
	GenesisHash:        genesisHash,
	PowLimit:           regressionPowLimit,
	PowLimitBits:       0x207fffff,
	TargetTimePerBlock: time.Minute * 10,
}

func mustHash(hexStr string) chainhash.Hash {
	h, err := chainhash.NewHashFromStr(hexStr)
	if err != nil {
		panic(err)
	}
	return *h
}

func mustHashPtr(hexStr string) *chainhash.Hash {
	h := mustHash(hexStr)
	return &h
}

// ParamsForNetwork returns the registered Params for a network name, as
// configured by the config package's "network" setting.
func ParamsForNetwork(network string) (*Params, error) {
	switch network {
	case "mainnet":
		return &MainNetParams, nil
	case "testnet":
		return &TestNetParams, nil
	case "regtest":
		return &RegressionNetParams, nil
	default:
		return nil, &unknownNetworkError{network: network}
	}
}

type unknownNetworkError struct{ network string }

func (e *unknownNetworkError) Error() string {
	return "unknown network: " + e.network
}
