// Package socket wraps a raw TCP connection with message-level framing,
// turning a net.Conn into a send/receive/split capability. Partial reads
// and writes are looped internally by wire.ReadMessage/WriteMessage; a
// clean EOF mid-frame surfaces as an Io error, never as a truncated
// message.
package socket

import (
	"context"
	"net"

	"github.com/bsv-blockchain/go-p2psync/wire"
)

// Socket owns one TCP connection and speaks framed Bitcoin messages over
// it for a fixed network.
type Socket struct {
	conn    net.Conn
	network wire.BitcoinNet
}

// New wraps an already-connected net.Conn.
func New(conn net.Conn, network wire.BitcoinNet) *Socket {
	return &Socket{conn: conn, network: network}
}

// Dial connects to addr and wraps the resulting connection.
func Dial(ctx context.Context, addr string, network wire.BitcoinNet) (*Socket, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	return New(conn, network), nil
}

// Send writes one full framed message.
func (s *Socket) Send(msg wire.Message) error {
	return wire.WriteMessage(s.conn, msg, s.network)
}

// Receive reads and decodes the next framed message, blocking until a full
// frame is available.
func (s *Socket) Receive() (wire.Message, error) {
	return wire.ReadMessage(s.conn, s.network)
}

// Close shuts down the underlying connection.
func (s *Socket) Close() error {
	return s.conn.Close()
}

// RemoteAddr returns the address of the remote end of the connection.
func (s *Socket) RemoteAddr() net.Addr {
	return s.conn.RemoteAddr()
}

// Reader is the read half of a split Socket.
type Reader struct {
	conn    net.Conn
	network wire.BitcoinNet
}

// Receive reads and decodes the next framed message.
func (r *Reader) Receive() (wire.Message, error) {
	return wire.ReadMessage(r.conn, r.network)
}

// Writer is the write half of a split Socket.
type Writer struct {
	conn    net.Conn
	network wire.BitcoinNet
}

// Send writes one full framed message.
func (w *Writer) Send(msg wire.Message) error {
	return wire.WriteMessage(w.conn, msg, w.network)
}

// Close closes the underlying connection from the write side.
func (w *Writer) Close() error {
	return w.conn.Close()
}

// Split returns independent read and write halves so one goroutine can
// block on Receive while another concurrently calls Send.
func (s *Socket) Split() (*Reader, *Writer) {
	return &Reader{conn: s.conn, network: s.network}, &Writer{conn: s.conn, network: s.network}
}
