// Package peer implements the multiplexed request/response façade over a
// handshaked socket: one actor goroutine owns the write half and a
// per-RPC-kind pending-request slot, fed by requests on one channel and
// incoming messages on another, a single message-loop-over-a-channel
// shape.
package peer

import (
	"net"
	"sync"

	"github.com/bsv-blockchain/go-p2psync/errs"
	"github.com/bsv-blockchain/go-p2psync/socket"
	"github.com/bsv-blockchain/go-p2psync/ulogger"
	"github.com/bsv-blockchain/go-p2psync/wire"
	"github.com/libsv/go-bt/v2/chainhash"
)

// GetHeaders requests a headers reply for the given locator hashes.
type GetHeaders struct {
	LocatorHashes []chainhash.Hash
	HashStop      chainhash.Hash
	ReplyTo       chan<- *wire.MsgHeaders
}

// GetBlocks requests the full blocks named by Hashes, delivered one at a
// time on ReplyTo as they arrive; ReplyTo is closed when every hash has
// been delivered.
type GetBlocks struct {
	Hashes  []chainhash.Hash
	ReplyTo chan<- *wire.MsgBlock
}

// GetAddrs requests the peer's known address list.
type GetAddrs struct {
	ReplyTo chan<- *wire.MsgAddr
}

// SubscribeInv installs a subscriber receiving every incoming inv until
// replaced or the connection is dropped.
type SubscribeInv struct {
	Subscriber chan<- *wire.MsgInv
}

// SubscribeDirectHeaders installs a subscriber receiving unsolicited
// headers messages (BIP130 direct announcements) instead of having them
// treated as misbehavior. Only takes effect when Config.AcceptDirectHeaders
// is set; otherwise an unsolicited headers message still terminates the
// connection.
type SubscribeDirectHeaders struct {
	Subscriber chan<- *wire.MsgHeaders
}

// Disconnect shuts the connection down.
type Disconnect struct{}

// Config carries the behavioral knobs a Connection needs beyond the
// handshake.
type Config struct {
	Network wire.BitcoinNet
	Logger  ulogger.Logger

	// Bans, if set, is notified when this connection terminates on
	// misbehavior so the remote address is kept out of rotation.
	Bans *BanList

	// AcceptDirectHeaders opts into routing an unsolicited headers message
	// to a SubscribeDirectHeaders subscriber (BIP130) instead of treating
	// it as MisbehavingPeer.
	AcceptDirectHeaders bool
}

type pendingBlocks struct {
	remaining map[chainhash.Hash]struct{}
	replyTo   chan<- *wire.MsgBlock
}

// Connection is the actor-like façade over one handshaked socket.
type Connection struct {
	sock                *socket.Socket
	network             wire.BitcoinNet
	logger              ulogger.Logger
	fsm                 *stateMachine
	bans                *BanList
	acceptDirectHeaders bool

	requests chan interface{}
	incoming chan wire.Message
	readErr  chan error
	quit     chan struct{}
	done     chan struct{}

	wg sync.WaitGroup

	// Owned exclusively by run(); never touched from another goroutine.
	pendingHeaders chan<- *wire.MsgHeaders
	pendingAddrs   chan<- *wire.MsgAddr
	pendingBlk     *pendingBlocks
	invSubscriber  chan<- *wire.MsgInv
	directHeaders  chan<- *wire.MsgHeaders

	lastErr error
	mu      sync.Mutex
}

// New wraps an already-handshaked socket and starts its actor goroutines.
func New(sock *socket.Socket, cfg Config) *Connection {
	logger := cfg.Logger
	if logger == nil {
		logger = &ulogger.Nop{}
	}

	c := &Connection{
		sock:                sock,
		network:             cfg.Network,
		logger:              logger,
		fsm:                 newStateMachine(logger),
		bans:                cfg.Bans,
		acceptDirectHeaders: cfg.AcceptDirectHeaders,
		requests:            make(chan interface{}),
		incoming: make(chan wire.Message, 32),
		readErr:  make(chan error, 1),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}

	_ = c.fsm.fire(eventReady)

	c.wg.Add(2)
	go c.readLoop()
	go c.run()

	return c
}

// Send issues a request to the connection's actor. It never blocks
// indefinitely on a dead connection: if the actor has already terminated,
// the request is not delivered and its reply channel (GetHeaders,
// GetBlocks, GetAddrs) is closed, so an awaiting caller sees the closed
// channel and can read the terminating error from Err.
func (c *Connection) Send(req interface{}) {
	select {
	case c.requests <- req:
	case <-c.done:
		switch r := req.(type) {
		case GetHeaders:
			close(r.ReplyTo)
		case GetBlocks:
			close(r.ReplyTo)
		case GetAddrs:
			close(r.ReplyTo)
		}
	}
}

// Err returns the error that terminated the connection, or nil if it is
// still running.
func (c *Connection) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Done is closed once the connection's actor has terminated.
func (c *Connection) Done() <-chan struct{} { return c.done }

// RemoteAddr returns the underlying socket's remote address.
func (c *Connection) RemoteAddr() net.Addr { return c.sock.RemoteAddr() }

func (c *Connection) readLoop() {
	defer c.wg.Done()
	for {
		msg, err := c.sock.Receive()
		if err != nil {
			// ReadMessage has consumed the whole frame, so an unknown
			// command leaves the stream in sync: discard it and go on.
			if errs.KindOf(err) == errs.KindUnknownCommand {
				c.logger.Debugf("discarding frame: %v", err)
				continue
			}
			select {
			case c.readErr <- err:
			case <-c.done:
			}
			return
		}
		select {
		case c.incoming <- msg:
		case <-c.done:
			return
		}
	}
}

func (c *Connection) run() {
	defer c.wg.Done()
	defer close(c.done)

	for {
		select {
		case req := <-c.requests:
			c.handleRequest(req)

		case msg := <-c.incoming:
			if err := c.handleIncoming(msg); err != nil {
				c.terminate(err)
				return
			}

		case err := <-c.readErr:
			c.terminate(err)
			return

		case <-c.quit:
			c.terminate(errs.New(errs.KindDisconnected, "connection disconnected"))
			return
		}
	}
}

func (c *Connection) handleRequest(req interface{}) {
	switch r := req.(type) {
	case GetHeaders:
		if c.pendingHeaders != nil {
			c.logger.Warnf("getheaders already pending, dropping new request")
			return
		}
		msg := wire.NewMsgGetHeaders()
		for i := range r.LocatorHashes {
			_ = msg.AddBlockLocatorHash(&r.LocatorHashes[i])
		}
		msg.HashStop = r.HashStop
		if err := c.sock.Send(msg); err != nil {
			c.terminate(err)
			return
		}
		c.pendingHeaders = r.ReplyTo

	case GetBlocks:
		if c.pendingBlk != nil {
			c.logger.Warnf("getdata already pending, dropping new request")
			return
		}
		getData := wire.NewMsgGetData()
		remaining := make(map[chainhash.Hash]struct{}, len(r.Hashes))
		for i := range r.Hashes {
			getData.AddInvVect(&wire.InvVect{Type: wire.InvTypeBlock, Hash: r.Hashes[i]})
			remaining[r.Hashes[i]] = struct{}{}
		}
		if err := c.sock.Send(getData); err != nil {
			c.terminate(err)
			return
		}
		c.pendingBlk = &pendingBlocks{remaining: remaining, replyTo: r.ReplyTo}

	case GetAddrs:
		if c.pendingAddrs != nil {
			c.logger.Warnf("getaddr already pending, dropping new request")
			return
		}
		if err := c.sock.Send(&wire.MsgGetAddr{}); err != nil {
			c.terminate(err)
			return
		}
		c.pendingAddrs = r.ReplyTo

	case SubscribeInv:
		c.invSubscriber = r.Subscriber

	case SubscribeDirectHeaders:
		c.directHeaders = r.Subscriber

	case Disconnect:
		close(c.quit)
	}
}

// handleIncoming dispatches one incoming message by type. A returned
// error terminates the connection.
func (c *Connection) handleIncoming(msg wire.Message) error {
	switch m := msg.(type) {
	case *wire.MsgPing:
		return c.sock.Send(&wire.MsgPong{Nonce: m.Nonce})

	case *wire.MsgAddr:
		if c.pendingAddrs == nil {
			c.logger.Debugf("discarding unsolicited addr")
			return nil
		}
		select {
		case c.pendingAddrs <- m:
		default:
		}
		c.pendingAddrs = nil
		return nil

	case *wire.MsgInv:
		if c.invSubscriber == nil {
			c.logger.Debugf("discarding inv with no subscriber")
			return nil
		}
		select {
		case c.invSubscriber <- m:
		default:
		}
		return nil

	case *wire.MsgHeaders:
		if c.pendingHeaders == nil {
			if c.acceptDirectHeaders && c.directHeaders != nil {
				select {
				case c.directHeaders <- m:
				default:
				}
				return nil
			}
			return errs.New(errs.KindMisbehavingPeer, "unsolicited headers message")
		}
		replyTo := c.pendingHeaders
		c.pendingHeaders = nil
		select {
		case replyTo <- m:
		default:
		}
		return nil

	case *wire.MsgBlock:
		if c.pendingBlk == nil {
			return errs.New(errs.KindMisbehavingPeer, "unsolicited block message")
		}
		hash := m.BlockHash()
		if _, ok := c.pendingBlk.remaining[hash]; !ok {
			return errs.New(errs.KindMisbehavingPeer, "block %s not in pending getdata set", hash)
		}
		delete(c.pendingBlk.remaining, hash)
		select {
		case c.pendingBlk.replyTo <- m:
		default:
		}
		if len(c.pendingBlk.remaining) == 0 {
			close(c.pendingBlk.replyTo)
			c.pendingBlk = nil
		}
		return nil

	default:
		c.logger.Debugf("discarding unhandled command %s", m.Command())
		return nil
	}
}

func (c *Connection) terminate(err error) {
	c.mu.Lock()
	c.lastErr = err
	c.mu.Unlock()

	if errs.KindOf(err) == errs.KindMisbehavingPeer {
		_ = c.fsm.fire(eventMisbehave)
		if c.bans != nil {
			addr := c.sock.RemoteAddr().String()
			c.logger.Warnf("banning misbehaving peer %s: %v", addr, err)
			c.bans.Ban(addr)
		}
	} else {
		_ = c.fsm.fire(eventDisconnect)
	}

	_ = c.sock.Close()

	if c.pendingHeaders != nil {
		close(c.pendingHeaders)
		c.pendingHeaders = nil
	}
	if c.pendingAddrs != nil {
		close(c.pendingAddrs)
		c.pendingAddrs = nil
	}
	if c.pendingBlk != nil {
		close(c.pendingBlk.replyTo)
		c.pendingBlk = nil
	}
}

// State returns the connection's current lifecycle state for diagnostics.
func (c *Connection) State() string {
	return c.fsm.current()
}
