package wire

import "io"

// MsgGetData requests the full objects named by InvList, used by the block
// downloader in batches of at most MaxBlocksPerGetDataBatch.
type MsgGetData struct {
	InvList []*InvVect
}

func (m *MsgGetData) Command() string { return CmdGetData }

func (m *MsgGetData) MaxPayloadLength() uint64 {
	return uint64(VarIntSerializeSize(MaxInvPerMsg)) + MaxInvPerMsg*36
}

func (m *MsgGetData) Encode(w io.Writer) error {
	return writeInvVectList(w, m.InvList, MaxInvPerMsg)
}

func (m *MsgGetData) Decode(r io.Reader) error {
	invs, err := readInvVectList(r, MaxInvPerMsg)
	if err != nil {
		return err
	}
	m.InvList = invs
	return nil
}

// NewMsgGetData returns an empty MsgGetData ready to have entries appended.
func NewMsgGetData() *MsgGetData {
	return &MsgGetData{InvList: make([]*InvVect, 0, 1)}
}

// AddInvVect appends an inventory vector to m.
func (m *MsgGetData) AddInvVect(iv *InvVect) {
	m.InvList = append(m.InvList, iv)
}
