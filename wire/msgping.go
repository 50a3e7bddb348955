package wire

import "io"

// MsgPing is a liveness probe the peer must answer with a MsgPong carrying
// the same nonce. The connection actor answers it automatically.
type MsgPing struct {
	Nonce uint64
}

func (m *MsgPing) Command() string          { return CmdPing }
func (m *MsgPing) MaxPayloadLength() uint64 { return 8 }
func (m *MsgPing) Encode(w io.Writer) error { return writeElement(w, m.Nonce) }
func (m *MsgPing) Decode(r io.Reader) error { return readElement(r, &m.Nonce) }

// MsgPong answers a MsgPing, echoing its nonce.
type MsgPong struct {
	Nonce uint64
}

func (m *MsgPong) Command() string          { return CmdPong }
func (m *MsgPong) MaxPayloadLength() uint64 { return 8 }
func (m *MsgPong) Encode(w io.Writer) error { return writeElement(w, m.Nonce) }
func (m *MsgPong) Decode(r io.Reader) error { return readElement(r, &m.Nonce) }
