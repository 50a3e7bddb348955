package wire

import (
	"io"

	"github.com/bsv-blockchain/go-p2psync/errs"
)

// MsgHeaders answers a getheaders request with up to MaxHeadersPerMsg
// block headers. Fewer than MaxHeadersPerMsg headers in a reply signals
// the peer has nothing further to offer right now.
type MsgHeaders struct {
	Headers []*BlockHeader
}

func (m *MsgHeaders) Command() string { return CmdHeaders }

func (m *MsgHeaders) MaxPayloadLength() uint64 {
	// Each entry is an 80-byte header plus a trailing tx-count varint,
	// which is always zero for a headers-only reply.
	return uint64(VarIntSerializeSize(MaxHeadersPerMsg)) + MaxHeadersPerMsg*(uint64(BlockHeaderSize)+1)
}

func (m *MsgHeaders) Encode(w io.Writer) error {
	if len(m.Headers) > MaxHeadersPerMsg {
		return errs.New(errs.KindDecodeError, "too many headers: %d > %d", len(m.Headers), MaxHeadersPerMsg)
	}
	if err := WriteVarInt(w, uint64(len(m.Headers))); err != nil {
		return err
	}
	for _, h := range m.Headers {
		if err := writeBlockHeader(w, h); err != nil {
			return err
		}
		// Trailing transaction count, always zero for a headers-only message.
		if err := WriteVarInt(w, 0); err != nil {
			return err
		}
	}
	return nil
}

func (m *MsgHeaders) Decode(r io.Reader) error {
	count, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	if count > MaxHeadersPerMsg {
		return errs.New(errs.KindDecodeError, "too many headers: %d > %d", count, MaxHeadersPerMsg)
	}

	headers := make([]*BlockHeader, count)
	for i := range headers {
		h := &BlockHeader{}
		if err := readBlockHeader(r, h); err != nil {
			return err
		}
		txCount, err := ReadVarInt(r)
		if err != nil {
			return err
		}
		if txCount != 0 {
			return errs.New(errs.KindDecodeError, "headers message entry carries %d transactions, expected 0", txCount)
		}
		headers[i] = h
	}
	m.Headers = headers
	return nil
}

// AddBlockHeader appends a header to m.
func (m *MsgHeaders) AddBlockHeader(h *BlockHeader) error {
	if len(m.Headers)+1 > MaxHeadersPerMsg {
		return errs.New(errs.KindDecodeError, "too many headers: max %d", MaxHeadersPerMsg)
	}
	m.Headers = append(m.Headers, h)
	return nil
}

// NewMsgHeaders returns an empty MsgHeaders ready to have entries appended.
func NewMsgHeaders() *MsgHeaders {
	return &MsgHeaders{Headers: make([]*BlockHeader, 0, MaxHeadersPerMsg)}
}
