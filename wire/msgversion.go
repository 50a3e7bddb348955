package wire

import (
	"io"
	"time"

	"github.com/bsv-blockchain/go-p2psync/errs"
)

// MaxUserAgentLen is the maximum length accepted for a version message's
// user agent string.
const MaxUserAgentLen = 256

// MsgVersion is the handshake's first message, exchanged by both sides
// before either may send anything else.
type MsgVersion struct {
	ProtocolVersion int32
	Services        ServiceFlag
	Timestamp       time.Time
	AddrRecv        NetAddress
	AddrFrom        NetAddress
	Nonce           uint64
	UserAgent       string
	LastBlock       int32
	Relay           bool
}

// NewMsgVersion builds a version message announcing height lastBlock to the
// peer at addrRecv, identifying ourselves as addrFrom.
func NewMsgVersion(addrRecv, addrFrom *NetAddress, nonce uint64, lastBlock int32) *MsgVersion {
	return &MsgVersion{
		ProtocolVersion: int32(ProtocolVersion),
		Services:        SFNodeNetwork,
		Timestamp:       time.Now(),
		AddrRecv:        *addrRecv,
		AddrFrom:        *addrFrom,
		Nonce:           nonce,
		UserAgent:       "/go-p2psync:0.1.0/",
		LastBlock:       lastBlock,
		Relay:           true,
	}
}

func (m *MsgVersion) Command() string { return CmdVersion }

func (m *MsgVersion) MaxPayloadLength() uint64 {
	return uint64(4 + 8 + 8 + NetAddressSize*2 + 8 + VarIntSerializeSize(MaxUserAgentLen) + MaxUserAgentLen + 4 + 1)
}

func (m *MsgVersion) Encode(w io.Writer) error {
	if err := writeElements(w, m.ProtocolVersion, uint64(m.Services)); err != nil {
		return err
	}
	if err := writeInt64Time(w, m.Timestamp); err != nil {
		return err
	}
	if err := encodeNetAddress(w, &m.AddrRecv, false); err != nil {
		return err
	}
	if err := encodeNetAddress(w, &m.AddrFrom, false); err != nil {
		return err
	}
	if err := writeElement(w, m.Nonce); err != nil {
		return err
	}
	if err := WriteVarString(w, m.UserAgent); err != nil {
		return err
	}
	if err := writeElement(w, m.LastBlock); err != nil {
		return err
	}
	return writeElement(w, m.Relay)
}

func (m *MsgVersion) Decode(r io.Reader) error {
	var services uint64
	if err := readElements(r, &m.ProtocolVersion, &services); err != nil {
		return err
	}
	m.Services = ServiceFlag(services)

	if err := readInt64Time(r, &m.Timestamp); err != nil {
		return err
	}
	if err := decodeNetAddress(r, &m.AddrRecv, false); err != nil {
		return err
	}
	if err := decodeNetAddress(r, &m.AddrFrom, false); err != nil {
		return err
	}
	if err := readElement(r, &m.Nonce); err != nil {
		return err
	}

	userAgent, err := ReadVarString(r)
	if err != nil {
		return err
	}
	if len(userAgent) > MaxUserAgentLen {
		return errs.New(errs.KindDecodeError, "user agent too long: %d bytes", len(userAgent))
	}
	m.UserAgent = userAgent

	if err := readElement(r, &m.LastBlock); err != nil {
		return err
	}

	// Relay is a BIP37-era trailing field; older peers may omit it.
	if err := readElement(r, &m.Relay); err != nil {
		if err == io.EOF {
			m.Relay = true
			return nil
		}
		return err
	}
	return nil
}
