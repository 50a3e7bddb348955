// Package wire implements the Bitcoin P2P wire codec: message framing,
// checksums, and the handful of messages this core speaks (version, verack,
// ping, pong, addr, inv, getdata, getheaders, headers, block, getaddr).
//
// The framing and per-message encode/decode follow the familiar btcd-style
// shape: readElement/writeElement helpers, a four-method Message interface,
// ReadMessage/WriteMessage free functions.
package wire

// BitcoinNet represents which Bitcoin network a message belongs to, encoded
// as the 4-byte magic value at the start of every message.
type BitcoinNet uint32

// Magic values for the three networks this core recognizes.
const (
	MainNet      BitcoinNet = 0xD9B4BEF9
	TestNet      BitcoinNet = 0x0709110B
	RegressionNet BitcoinNet = 0xDAB5BFFA
)

func (n BitcoinNet) String() string {
	switch n {
	case MainNet:
		return "mainnet"
	case TestNet:
		return "testnet"
	case RegressionNet:
		return "regtest"
	default:
		return "unknown"
	}
}

// ServiceFlag identifies the services supported by a peer, advertised in the
// version message's services field.
type ServiceFlag uint64

const (
	SFNodeNetwork ServiceFlag = 1 << iota
	SFNodeGetUTXO
	SFNodeBloom
	SFNodeWitness
)

// ProtocolVersion is the version of the Bitcoin P2P protocol this core
// speaks in its own version message.
const ProtocolVersion uint32 = 70015

// Default ports per network.
const (
	MainNetPort = "8333"
	TestNetPort = "18333"
)

// Protocol batch limits.
const (
	// MaxHeadersPerMsg is the maximum number of headers the protocol allows
	// in a single headers message.
	MaxHeadersPerMsg = 2000

	// MaxInvPerMsg is the maximum number of inventory vectors the protocol
	// allows in a single inv or getdata message.
	MaxInvPerMsg = 50000

	// MaxBlocksPerGetDataBatch is the per-request getdata batch size this
	// core uses when requesting block bodies.
	MaxBlocksPerGetDataBatch = 500
)

// MaxMessagePayload is the hard ceiling on any single message's payload,
// independent of the per-message-type ceiling — a guard against a forged
// length field causing unbounded allocation.
const MaxMessagePayload = 32 * 1024 * 1024
