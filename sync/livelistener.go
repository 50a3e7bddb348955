package sync

import (
	"github.com/bsv-blockchain/go-p2psync/chain"
	"github.com/bsv-blockchain/go-p2psync/errs"
	"github.com/bsv-blockchain/go-p2psync/peer"
	"github.com/bsv-blockchain/go-p2psync/ulogger"
	"github.com/bsv-blockchain/go-p2psync/wire"
	"github.com/libsv/go-bt/v2/chainhash"
)

// LiveListenerConfig controls the BIP130 direct-announcement behavior:
// by default an unsolicited headers message is misbehavior; setting
// AcceptDirectHeaders opts into treating it as if it had answered a
// locator query instead.
type LiveListenerConfig struct {
	AcceptDirectHeaders bool
}

// LiveListener replaces the initial-sync driver once the chain store has
// caught up: it subscribes to inv and extends the store as new blocks are
// announced.
type LiveListener struct {
	conn       *peer.Connection
	store      *chain.Store
	downloader *BlockDownloader
	cfg        LiveListenerConfig
	logger     ulogger.Logger

	invCh    chan *wire.MsgInv
	directCh chan *wire.MsgHeaders
}

// NewLiveListener creates a listener reacting to inv announcements on
// conn, extending store and fetching bodies via downloader.
func NewLiveListener(conn *peer.Connection, store *chain.Store, downloader *BlockDownloader, cfg LiveListenerConfig, logger ulogger.Logger) *LiveListener {
	if logger == nil {
		logger = &ulogger.Nop{}
	}
	return &LiveListener{
		conn:       conn,
		store:      store,
		downloader: downloader,
		cfg:        cfg,
		logger:     logger,
		invCh:      make(chan *wire.MsgInv, 8),
		directCh:   make(chan *wire.MsgHeaders, 8),
	}
}

// Run subscribes to inv (and, if configured, direct header announcements)
// and processes them until the connection terminates or stop is closed.
func (l *LiveListener) Run(stop <-chan struct{}) error {
	l.conn.Send(peer.SubscribeInv{Subscriber: l.invCh})
	if l.cfg.AcceptDirectHeaders {
		l.conn.Send(peer.SubscribeDirectHeaders{Subscriber: l.directCh})
	}

	for {
		select {
		case inv, ok := <-l.invCh:
			if !ok {
				if err := l.conn.Err(); err != nil {
					return err
				}
				return errs.New(errs.KindDisconnected, "connection closed while listening for inv")
			}
			if err := l.handleInv(inv); err != nil {
				return err
			}

		case headers := <-l.directCh:
			if err := l.HandleDirectHeaders(headers); err != nil {
				return err
			}

		case <-l.conn.Done():
			if err := l.conn.Err(); err != nil {
				return err
			}
			return errs.New(errs.KindDisconnected, "connection closed")

		case <-stop:
			return nil
		}
	}
}

// handleInv re-issues getheaders against the current locator, feeds any
// new headers into the store, then fetches their bodies.
func (l *LiveListener) handleInv(inv *wire.MsgInv) error {
	l.logger.Debugf("inv: %d entries", len(inv.InvList))

	hs := NewHeaderSync(l.conn, l.store, l.logger)
	before := l.store.Len()
	if err := hs.Run(); err != nil {
		return err
	}

	return l.downloadNewlyAdded(before)
}

// HandleDirectHeaders processes a headers message that arrived without a
// prior inv (BIP130): the connection only routes it here when
// Config.AcceptDirectHeaders was set on the Connection, so by the time it
// reaches the listener the opt-in has already been honored; any remaining
// call with the listener's own AcceptDirectHeaders off is treated as
// misbehavior rather than silently accepted.
func (l *LiveListener) HandleDirectHeaders(headers *wire.MsgHeaders) error {
	if !l.cfg.AcceptDirectHeaders {
		return errs.New(errs.KindMisbehavingPeer, "unsolicited headers message (BIP130 direct announce disabled)")
	}

	before := l.store.Len()
	for _, hdr := range headers.Headers {
		if err := l.store.TryAdd(hdr); err != nil {
			return err
		}
	}

	return l.downloadNewlyAdded(before)
}

// downloadNewlyAdded fetches bodies for any header-only block added to the
// store's unstable tail since before.
func (l *LiveListener) downloadNewlyAdded(before int) error {
	added := l.store.Len() - before
	if added <= 0 {
		return nil
	}

	var toDownload []chainhash.Hash
	unstable := l.store.Unstable()
	start := len(unstable) - added
	if start < 0 {
		start = 0
	}
	for _, b := range unstable[start:] {
		if !b.IsFull() {
			toDownload = append(toDownload, b.Hash)
		}
	}

	if len(toDownload) == 0 {
		return nil
	}

	return l.downloader.Run(toDownload)
}
