package wire

import "io"

// MsgVerAck acknowledges a version message, completing the handshake once
// both sides have sent one.
type MsgVerAck struct{}

func (m *MsgVerAck) Command() string          { return CmdVerAck }
func (m *MsgVerAck) MaxPayloadLength() uint64 { return 0 }
func (m *MsgVerAck) Encode(w io.Writer) error { return nil }
func (m *MsgVerAck) Decode(r io.Reader) error { return nil }

// MsgGetAddr requests the peer's known address list.
type MsgGetAddr struct{}

func (m *MsgGetAddr) Command() string          { return CmdGetAddr }
func (m *MsgGetAddr) MaxPayloadLength() uint64 { return 0 }
func (m *MsgGetAddr) Encode(w io.Writer) error { return nil }
func (m *MsgGetAddr) Decode(r io.Reader) error { return nil }
