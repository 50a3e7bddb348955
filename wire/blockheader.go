package wire

import (
	"bytes"
	"io"
	"math/big"
	"time"

	"github.com/libsv/go-bt/v2/chainhash"
)

// BlockHeaderSize is the fixed 80-byte wire size of a BlockHeader: 4-byte
// version + 32-byte prev hash + 32-byte merkle root + 4-byte time + 4-byte
// bits + 4-byte nonce.
const BlockHeaderSize = 4 + chainhash.HashSize*2 + 4 + 4 + 4

// BlockHeader is the 80-byte fixed header carried by both the headers and
// block messages. Its identity is BlockHash(), the double-SHA-256 of its
// wire encoding.
type BlockHeader struct {
	Version    int32
	PrevBlock  chainhash.Hash
	MerkleRoot chainhash.Hash
	Timestamp  time.Time
	Bits       uint32
	Nonce      uint32
}

// BlockHash computes the block identifier hash for h: the double-SHA-256 of
// its 80-byte wire encoding, following the familiar btcd-lineage BlockHash
// pattern.
func (h *BlockHeader) BlockHash() chainhash.Hash {
	buf := bytes.NewBuffer(make([]byte, 0, BlockHeaderSize))
	_ = writeBlockHeader(buf, h)
	return chainhash.DoubleHashH(buf.Bytes())
}

// Encode writes h's 80-byte wire encoding to w.
func (h *BlockHeader) Encode(w io.Writer) error {
	return writeBlockHeader(w, h)
}

// Decode reads an 80-byte wire encoding from r into h.
func (h *BlockHeader) Decode(r io.Reader) error {
	return readBlockHeader(r, h)
}

func readBlockHeader(r io.Reader, h *BlockHeader) error {
	if err := readElements(r, &h.Version, &h.PrevBlock, &h.MerkleRoot); err != nil {
		return err
	}
	if err := readUint32Time(r, &h.Timestamp); err != nil {
		return err
	}
	return readElements(r, &h.Bits, &h.Nonce)
}

func writeBlockHeader(w io.Writer, h *BlockHeader) error {
	if err := writeElements(w, h.Version, h.PrevBlock, h.MerkleRoot); err != nil {
		return err
	}
	if err := writeUint32Time(w, h.Timestamp); err != nil {
		return err
	}
	return writeElements(w, h.Bits, h.Nonce)
}

// NewBlockHeader builds a BlockHeader with the current time, mirroring the
// convenience constructor found throughout btcd-lineage wire packages.
func NewBlockHeader(version int32, prevBlock, merkleRoot chainhash.Hash, bits, nonce uint32) *BlockHeader {
	return &BlockHeader{
		Version:    version,
		PrevBlock:  prevBlock,
		MerkleRoot: merkleRoot,
		Timestamp:  time.Unix(time.Now().Unix(), 0),
		Bits:       bits,
		Nonce:      nonce,
	}
}

// CheckProofOfWorkLimit reports whether h's hash satisfies the difficulty
// target encoded in Bits, compared against powLimit. This check is opt-in
// (chain.TreeConfig.VerifyProofOfWork) since full target-bits decoding and
// retargeting are out of scope for this core.
func (h *BlockHeader) CheckProofOfWorkLimit(powLimit *big.Int) bool {
	target := CompactToBig(h.Bits)
	if target.Sign() <= 0 || target.Cmp(powLimit) > 0 {
		return false
	}

	hash := h.BlockHash()
	hashNum := HashToBig(&hash)

	return hashNum.Cmp(target) <= 0
}
