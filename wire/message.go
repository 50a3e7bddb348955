package wire

import (
	"bytes"
	"io"

	"github.com/bsv-blockchain/go-p2psync/errs"
)

// messageHeaderSize is the 24-byte fixed header every message starts with:
// 4-byte magic + 12-byte command + 4-byte payload length + 4-byte checksum.
const messageHeaderSize = 24

const commandSize = 12

// Command strings for the messages this core speaks.
const (
	CmdVersion    = "version"
	CmdVerAck     = "verack"
	CmdPing       = "ping"
	CmdPong       = "pong"
	CmdAddr       = "addr"
	CmdInv        = "inv"
	CmdGetData    = "getdata"
	CmdGetHeaders = "getheaders"
	CmdHeaders    = "headers"
	CmdBlock      = "block"
	CmdGetAddr    = "getaddr"
)

// Message is implemented by every message type this core can encode or
// decode, following the four-method shape used throughout the example
// pack's btcd-lineage wire packages.
type Message interface {
	Command() string
	Encode(w io.Writer) error
	Decode(r io.Reader) error
	MaxPayloadLength() uint64
}

type messageHeader struct {
	magic    BitcoinNet
	command  string
	length   uint32
	checksum [4]byte
}

func readMessageHeader(r io.Reader) (*messageHeader, error) {
	raw := make([]byte, messageHeaderSize)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, errs.New(errs.KindIo, "read message header", err)
	}

	buf := bytes.NewReader(raw)

	var magic uint32
	var command [commandSize]byte
	var length uint32
	var checksum [4]byte

	if err := readElements(buf, &magic, &command, &length, &checksum); err != nil {
		return nil, errs.New(errs.KindDecodeError, "decode message header", err)
	}

	return &messageHeader{
		magic:    BitcoinNet(magic),
		command:  string(bytes.TrimRight(command[:], "\x00")),
		length:   length,
		checksum: checksum,
	}, nil
}

func makeEmptyMessage(command string) (Message, error) {
	switch command {
	case CmdVersion:
		return &MsgVersion{}, nil
	case CmdVerAck:
		return &MsgVerAck{}, nil
	case CmdPing:
		return &MsgPing{}, nil
	case CmdPong:
		return &MsgPong{}, nil
	case CmdAddr:
		return &MsgAddr{}, nil
	case CmdInv:
		return &MsgInv{}, nil
	case CmdGetData:
		return &MsgGetData{}, nil
	case CmdGetHeaders:
		return &MsgGetHeaders{}, nil
	case CmdHeaders:
		return &MsgHeaders{}, nil
	case CmdBlock:
		return &MsgBlock{}, nil
	case CmdGetAddr:
		return &MsgGetAddr{}, nil
	default:
		return nil, errs.New(errs.KindUnknownCommand, "unhandled command %q", command)
	}
}

// WriteMessage encodes msg's 24-byte header and payload to w for network,
// computing the checksum over the encoded payload.
func WriteMessage(w io.Writer, msg Message, network BitcoinNet) error {
	var payloadBuf bytes.Buffer
	if err := msg.Encode(&payloadBuf); err != nil {
		return errs.New(errs.KindDecodeError, "encode %s payload", msg.Command(), err)
	}
	payload := payloadBuf.Bytes()

	if uint64(len(payload)) > MaxMessagePayload {
		return errs.New(errs.KindDecodeError, "%s payload too large: %d bytes", msg.Command(), len(payload))
	}
	if uint64(len(payload)) > msg.MaxPayloadLength() {
		return errs.New(errs.KindDecodeError, "%s payload exceeds type limit: %d > %d", msg.Command(), len(payload), msg.MaxPayloadLength())
	}

	var command [commandSize]byte
	cmd := msg.Command()
	if len(cmd) > commandSize {
		return errs.New(errs.KindDecodeError, "command %q too long", cmd)
	}
	copy(command[:], cmd)

	var checksum [4]byte
	copy(checksum[:], DoubleSha256(payload)[:4])

	var headerBuf bytes.Buffer
	if err := writeElements(&headerBuf, uint32(network), command, uint32(len(payload)), checksum); err != nil {
		return errs.New(errs.KindIo, "encode message header", err)
	}

	if _, err := w.Write(headerBuf.Bytes()); err != nil {
		return errs.New(errs.KindIo, "write message header", err)
	}
	if _, err := w.Write(payload); err != nil {
		return errs.New(errs.KindIo, "write message payload", err)
	}

	return nil
}

// ReadMessage reads, validates, and decodes the next message from r for the
// given network: a magic mismatch fails WrongMagic, a checksum mismatch
// fails BadChecksum, an unrecognized command fails UnknownCommand
// (the frame is already consumed, so the caller can discard it and keep
// reading), a failed read fails Io, anything else fails DecodeError.
func ReadMessage(r io.Reader, network BitcoinNet) (Message, error) {
	hdr, err := readMessageHeader(r)
	if err != nil {
		return nil, err
	}

	if uint64(hdr.length) > MaxMessagePayload {
		discardInput(r, hdr.length)
		return nil, errs.New(errs.KindDecodeError, "payload too large: %d bytes", hdr.length)
	}

	if hdr.magic != network {
		discardInput(r, hdr.length)
		return nil, errs.New(errs.KindWrongMagic, "message from network %s, expected %s", hdr.magic, network)
	}

	payload := make([]byte, hdr.length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, errs.New(errs.KindIo, "read message payload", err)
	}

	checksum := DoubleSha256(payload)
	if !bytes.Equal(checksum[:4], hdr.checksum[:]) {
		return nil, errs.New(errs.KindBadChecksum, "checksum mismatch for %s", hdr.command)
	}

	msg, err := makeEmptyMessage(hdr.command)
	if err != nil {
		return nil, err
	}

	if uint64(hdr.length) > msg.MaxPayloadLength() {
		return nil, errs.New(errs.KindDecodeError, "%s payload exceeds type limit: %d > %d", hdr.command, hdr.length, msg.MaxPayloadLength())
	}

	if err := msg.Decode(bytes.NewReader(payload)); err != nil {
		return nil, errs.New(errs.KindDecodeError, "decode %s payload", hdr.command, err)
	}

	return msg, nil
}

// discardInput reads and discards n bytes from r in bounded chunks, used to
// skip a frame's payload when a header-level error makes decoding pointless.
// Stops a rogue peer's forged length field from being used against a later
// read.
func discardInput(r io.Reader, n uint32) {
	const chunk = 16 * 1024
	buf := make([]byte, chunk)
	for n > 0 {
		want := uint32(chunk)
		if n < want {
			want = n
		}
		read, err := io.ReadFull(r, buf[:want])
		n -= uint32(read)
		if err != nil {
			return
		}
	}
}
