package wire

import (
	"math/big"
	"testing"

	"github.com/libsv/go-bt/v2/chainhash"
	"github.com/stretchr/testify/assert"
)

func TestCompactToBigBigToCompactRoundTrip(t *testing.T) {
	cases := []uint32{
		0x1d00ffff, // mainnet genesis bits
		0x1b0404cb,
		0x207fffff, // regtest powLimit
		0x03000001,
		0x04000001,
	}

	for _, compact := range cases {
		n := CompactToBig(compact)
		got := BigToCompact(n)
		assert.Equal(t, compact, got, "round trip of 0x%08x", compact)
	}
}

func TestBigToCompactZero(t *testing.T) {
	assert.Equal(t, uint32(0), BigToCompact(big.NewInt(0)))
}

func TestBigToCompactNegative(t *testing.T) {
	n := big.NewInt(-0x1234)
	compact := BigToCompact(n)
	assert.NotZero(t, compact&0x00800000, "sign bit should be set for a negative target")

	back := CompactToBig(compact)
	assert.Equal(t, 0, back.Cmp(n))
}

func TestHashToBigGenesis(t *testing.T) {
	hash := genesisHeaderForDifficultyTest().BlockHash()
	n := HashToBig(&hash)
	assert.Equal(t, 1, n.Sign(), "a non-zero hash interpreted as big-endian must be positive")
}

func genesisHeaderForDifficultyTest() *BlockHeader {
	var prev, merkle chainhash.Hash
	merkle[0] = 1
	return NewBlockHeader(1, prev, merkle, 0x1d00ffff, 2083236893)
}
