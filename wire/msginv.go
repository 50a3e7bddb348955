package wire

import "io"

// MsgInv announces new objects (blocks or transactions) the sending peer
// has available, triggering the live-sync getdata follow-up.
type MsgInv struct {
	InvList []*InvVect
}

func (m *MsgInv) Command() string { return CmdInv }

func (m *MsgInv) MaxPayloadLength() uint64 {
	return uint64(VarIntSerializeSize(MaxInvPerMsg)) + MaxInvPerMsg*36
}

func (m *MsgInv) Encode(w io.Writer) error {
	return writeInvVectList(w, m.InvList, MaxInvPerMsg)
}

func (m *MsgInv) Decode(r io.Reader) error {
	invs, err := readInvVectList(r, MaxInvPerMsg)
	if err != nil {
		return err
	}
	m.InvList = invs
	return nil
}

// AddInvVect appends an inventory vector to m.
func (m *MsgInv) AddInvVect(iv *InvVect) {
	m.InvList = append(m.InvList, iv)
}

// NewMsgInv returns an empty MsgInv ready to have entries appended.
func NewMsgInv() *MsgInv {
	return &MsgInv{InvList: make([]*InvVect, 0, 1)}
}
