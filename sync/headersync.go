// Package sync implements the three drivers that bring a chain.Store up
// to a remote peer's tip and keep it there: header sync, block download,
// and the live listener, built around a looping getheaders/getdata
// request cycle over a peer connection.
package sync

import (
	"github.com/bsv-blockchain/go-p2psync/chain"
	"github.com/bsv-blockchain/go-p2psync/errs"
	"github.com/bsv-blockchain/go-p2psync/peer"
	"github.com/bsv-blockchain/go-p2psync/ulogger"
	"github.com/bsv-blockchain/go-p2psync/wire"
)

// HeaderSync drives a connection's getheaders loop until the chain store
// has caught up with the peer.
type HeaderSync struct {
	conn   *peer.Connection
	store  *chain.Store
	logger ulogger.Logger
}

// NewHeaderSync creates a header sync driver over conn, mutating store.
func NewHeaderSync(conn *peer.Connection, store *chain.Store, logger ulogger.Logger) *HeaderSync {
	if logger == nil {
		logger = &ulogger.Nop{}
	}
	return &HeaderSync{conn: conn, store: store, logger: logger}
}

// Run executes the header sync algorithm to completion: compute locator,
// request headers, feed them into the store, and repeat while replies
// come back full (a reply shorter than wire.MaxHeadersPerMsg means the
// peer has no more headers to offer). A NoParent while feeding headers is
// treated as peer misbehavior: the connection is dropped, a MisbehavingPeer
// error is returned, and the headers already added stay in the store.
func (h *HeaderSync) Run() error {
	for {
		locator := h.store.LocatorHashes()

		reply := make(chan *wire.MsgHeaders, 1)
		h.conn.Send(peer.GetHeaders{LocatorHashes: locator, ReplyTo: reply})

		headers, ok := <-reply
		if !ok {
			if err := h.conn.Err(); err != nil {
				return err
			}
			return errs.New(errs.KindDisconnected, "connection closed while awaiting headers")
		}

		for _, hdr := range headers.Headers {
			if err := h.store.TryAdd(hdr); err != nil {
				if errs.KindOf(err) == errs.KindNoParent {
					h.conn.Send(peer.Disconnect{})
					return errs.New(errs.KindMisbehavingPeer, "header with unknown parent during sync", err)
				}
				return err
			}
		}

		h.logger.Infof("header sync: received %d headers, active chain len %d", len(headers.Headers), h.store.Len())

		if len(headers.Headers) < wire.MaxHeadersPerMsg {
			return nil
		}
	}
}
