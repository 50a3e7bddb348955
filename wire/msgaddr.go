package wire

import (
	"io"

	"github.com/bsv-blockchain/go-p2psync/errs"
)

// MaxAddrPerMsg bounds how many addresses a single addr message may carry.
const MaxAddrPerMsg = 1000

// MsgAddr carries a batch of known peer addresses, answering a MsgGetAddr.
type MsgAddr struct {
	AddrList []*NetAddress
}

func (m *MsgAddr) Command() string { return CmdAddr }

func (m *MsgAddr) MaxPayloadLength() uint64 {
	return uint64(VarIntSerializeSize(MaxAddrPerMsg) + MaxAddrPerMsg*(4+NetAddressSize))
}

func (m *MsgAddr) Encode(w io.Writer) error {
	if len(m.AddrList) > MaxAddrPerMsg {
		return errs.New(errs.KindDecodeError, "too many addresses: %d > %d", len(m.AddrList), MaxAddrPerMsg)
	}
	if err := WriteVarInt(w, uint64(len(m.AddrList))); err != nil {
		return err
	}
	for _, na := range m.AddrList {
		if err := encodeNetAddress(w, na, true); err != nil {
			return err
		}
	}
	return nil
}

func (m *MsgAddr) Decode(r io.Reader) error {
	count, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	if count > MaxAddrPerMsg {
		return errs.New(errs.KindDecodeError, "too many addresses: %d > %d", count, MaxAddrPerMsg)
	}

	addrs := make([]*NetAddress, count)
	for i := range addrs {
		na := &NetAddress{}
		if err := decodeNetAddress(r, na, true); err != nil {
			return err
		}
		addrs[i] = na
	}
	m.AddrList = addrs
	return nil
}
