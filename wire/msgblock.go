package wire

import (
	"io"

	"github.com/bsv-blockchain/go-p2psync/errs"
	"github.com/libsv/go-bt/v2/chainhash"
)

// MaxTxPerBlock is a generous upper bound on transactions per block used
// only to reject obviously-hostile length prefixes before allocating;
// consensus-level transaction validation is out of scope for this core.
const MaxTxPerBlock = 4_000_000

// MsgBlock is a full block: header plus transactions. The block
// downloader verifies only that BlockHash() matches the requested
// identifier — transaction contents are opaque payloads it never
// interprets.
type MsgBlock struct {
	Header       BlockHeader
	Transactions []*Tx
}

func (m *MsgBlock) Command() string { return CmdBlock }

func (m *MsgBlock) MaxPayloadLength() uint64 {
	return MaxMessagePayload
}

func (m *MsgBlock) Encode(w io.Writer) error {
	if err := writeBlockHeader(w, &m.Header); err != nil {
		return err
	}
	if len(m.Transactions) > MaxTxPerBlock {
		return errs.New(errs.KindDecodeError, "too many transactions: %d > %d", len(m.Transactions), MaxTxPerBlock)
	}
	if err := WriteVarInt(w, uint64(len(m.Transactions))); err != nil {
		return err
	}
	for _, tx := range m.Transactions {
		if err := encodeTx(w, tx); err != nil {
			return err
		}
	}
	return nil
}

func (m *MsgBlock) Decode(r io.Reader) error {
	if err := readBlockHeader(r, &m.Header); err != nil {
		return err
	}

	count, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	if count > MaxTxPerBlock {
		return errs.New(errs.KindDecodeError, "too many transactions: %d > %d", count, MaxTxPerBlock)
	}

	txs := make([]*Tx, count)
	for i := range txs {
		tx, err := decodeTx(r)
		if err != nil {
			return err
		}
		txs[i] = tx
	}
	m.Transactions = txs
	return nil
}

// BlockHash returns the identifier hash of the block's header.
func (m *MsgBlock) BlockHash() chainhash.Hash {
	return m.Header.BlockHash()
}
