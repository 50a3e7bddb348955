package socket

import (
	"github.com/bsv-blockchain/go-p2psync/errs"
	"github.com/bsv-blockchain/go-p2psync/wire"
)

// HandshakeConfig carries the fields the local version message announces.
type HandshakeConfig struct {
	ProtocolVersion int32
	Services        wire.ServiceFlag
	UserAgent       string
	Relay           bool
	Nonce           uint64
	StartHeight     int32
	LocalAddr       *wire.NetAddress
	RemoteAddr      *wire.NetAddress
}

// Handshake performs the version/verack exchange over sock: send version,
// await version, send verack, await verack. Any message other than the
// expected one at each step fails with HandshakeFailed. On success it
// returns the peer's version message for diagnostics.
func Handshake(sock *Socket, cfg *HandshakeConfig) (*wire.MsgVersion, error) {
	local := wire.NewMsgVersion(cfg.RemoteAddr, cfg.LocalAddr, cfg.Nonce, cfg.StartHeight)
	local.ProtocolVersion = cfg.ProtocolVersion
	local.Services = cfg.Services
	local.UserAgent = cfg.UserAgent
	local.Relay = cfg.Relay

	if err := sock.Send(local); err != nil {
		return nil, err
	}

	msg, err := sock.Receive()
	if err != nil {
		return nil, err
	}
	peerVersion, ok := msg.(*wire.MsgVersion)
	if !ok {
		return nil, errs.New(errs.KindHandshakeFailed, "expected version, got %s", msg.Command())
	}

	if err := sock.Send(&wire.MsgVerAck{}); err != nil {
		return nil, err
	}

	ack, err := sock.Receive()
	if err != nil {
		return nil, err
	}
	if _, ok := ack.(*wire.MsgVerAck); !ok {
		return nil, errs.New(errs.KindHandshakeFailed, "expected verack, got %s", ack.Command())
	}

	return peerVersion, nil
}
