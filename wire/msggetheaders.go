package wire

import (
	"io"

	"github.com/bsv-blockchain/go-p2psync/errs"
	"github.com/libsv/go-bt/v2/chainhash"
)

// MaxBlockLocatorsPerMsg bounds the locator hash list sent in a getheaders
// or getblocks request.
const MaxBlockLocatorsPerMsg = 500

// MsgGetHeaders requests up to MaxHeadersPerMsg headers following the first
// locator hash the peer recognizes, stopping at HashStop if reached. An
// all-zero HashStop means "as many as allowed".
type MsgGetHeaders struct {
	ProtocolVersion    uint32
	BlockLocatorHashes []*chainhash.Hash
	HashStop           chainhash.Hash
}

func (m *MsgGetHeaders) Command() string { return CmdGetHeaders }

func (m *MsgGetHeaders) MaxPayloadLength() uint64 {
	return 4 + uint64(VarIntSerializeSize(MaxBlockLocatorsPerMsg)) + MaxBlockLocatorsPerMsg*uint64(chainhash.HashSize) + uint64(chainhash.HashSize)
}

func (m *MsgGetHeaders) Encode(w io.Writer) error {
	if err := writeElement(w, m.ProtocolVersion); err != nil {
		return err
	}
	if len(m.BlockLocatorHashes) > MaxBlockLocatorsPerMsg {
		return errs.New(errs.KindDecodeError, "too many locator hashes: %d > %d", len(m.BlockLocatorHashes), MaxBlockLocatorsPerMsg)
	}
	if err := WriteVarInt(w, uint64(len(m.BlockLocatorHashes))); err != nil {
		return err
	}
	for _, h := range m.BlockLocatorHashes {
		if err := writeElement(w, *h); err != nil {
			return err
		}
	}
	return writeElement(w, m.HashStop)
}

func (m *MsgGetHeaders) Decode(r io.Reader) error {
	if err := readElement(r, &m.ProtocolVersion); err != nil {
		return err
	}

	count, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	if count > MaxBlockLocatorsPerMsg {
		return errs.New(errs.KindDecodeError, "too many locator hashes: %d > %d", count, MaxBlockLocatorsPerMsg)
	}

	hashes := make([]*chainhash.Hash, count)
	for i := range hashes {
		var h chainhash.Hash
		if err := readElement(r, &h); err != nil {
			return err
		}
		hashes[i] = &h
	}
	m.BlockLocatorHashes = hashes

	return readElement(r, &m.HashStop)
}

// AddBlockLocatorHash appends a locator hash to m.
func (m *MsgGetHeaders) AddBlockLocatorHash(hash *chainhash.Hash) error {
	if len(m.BlockLocatorHashes)+1 > MaxBlockLocatorsPerMsg {
		return errs.New(errs.KindDecodeError, "too many locator hashes: max %d", MaxBlockLocatorsPerMsg)
	}
	m.BlockLocatorHashes = append(m.BlockLocatorHashes, hash)
	return nil
}

// NewMsgGetHeaders returns an empty MsgGetHeaders ready to have locator
// hashes appended.
func NewMsgGetHeaders() *MsgGetHeaders {
	return &MsgGetHeaders{
		ProtocolVersion:    uint32(ProtocolVersion),
		BlockLocatorHashes: make([]*chainhash.Hash, 0, MaxBlockLocatorsPerMsg),
	}
}
