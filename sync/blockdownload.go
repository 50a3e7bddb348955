package sync

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bsv-blockchain/go-p2psync/chain"
	"github.com/bsv-blockchain/go-p2psync/errs"
	"github.com/bsv-blockchain/go-p2psync/metrics"
	"github.com/bsv-blockchain/go-p2psync/peer"
	"github.com/bsv-blockchain/go-p2psync/ulogger"
	"github.com/bsv-blockchain/go-p2psync/wire"
	"github.com/libsv/go-bt/v2/chainhash"
)

// BlockDownloader drives getdata request cycles to materialize full
// blocks for headers already known to the store. Batches may be fanned
// out across more than one connection; with a single connection they are
// simply processed one after another.
type BlockDownloader struct {
	conns  []*peer.Connection
	store  *chain.Store
	logger ulogger.Logger
}

// NewBlockDownloader creates a downloader writing into store over one or
// more connections.
func NewBlockDownloader(store *chain.Store, logger ulogger.Logger, conns ...*peer.Connection) *BlockDownloader {
	metrics.Init()
	if logger == nil {
		logger = &ulogger.Nop{}
	}
	return &BlockDownloader{conns: conns, store: store, logger: logger}
}

// Run downloads the bodies for hashes, batching requests at
// wire.MaxBlocksPerGetDataBatch and fanning them out across the
// downloader's connections.
func (d *BlockDownloader) Run(hashes []chainhash.Hash) error {
	if len(d.conns) == 0 {
		return errs.New(errs.KindIo, "block downloader has no connections")
	}

	batches := batchHashes(hashes, wire.MaxBlocksPerGetDataBatch)
	batchCh := make(chan []chainhash.Hash)

	g, _ := errgroup.WithContext(context.Background())

	g.Go(func() error {
		defer close(batchCh)
		for _, batch := range batches {
			batchCh <- batch
		}
		return nil
	})

	for _, conn := range d.conns {
		conn := conn
		g.Go(func() error {
			for batch := range batchCh {
				if err := d.downloadBatch(conn, batch); err != nil {
					return err
				}
			}
			return nil
		})
	}

	return g.Wait()
}

// downloadBatch issues one GetBlocks request and upgrades each delivered
// block's BlockData from header-only to full, relying on the
// connection's own pending-set enforcement: a hash mismatch surfaces as
// the connection terminating with MisbehavingPeer, which this method
// then propagates.
func (d *BlockDownloader) downloadBatch(conn *peer.Connection, hashes []chainhash.Hash) error {
	start := time.Now()
	defer func() { metrics.BlockDownloadMs.Observe(time.Since(start).Seconds()) }()

	reply := make(chan *wire.MsgBlock, len(hashes))
	expected := make(map[chainhash.Hash]struct{}, len(hashes))

	requested := peer.NewRequestedBlocks(peer.DefaultRequestEvictionDuration)
	now := time.Now()
	for _, h := range hashes {
		expected[h] = struct{}{}
		requested.Add(h, now)
	}

	conn.Send(peer.GetBlocks{Hashes: hashes, ReplyTo: reply})

	for len(expected) > 0 {
		select {
		case block, ok := <-reply:
			if !ok {
				if err := conn.Err(); err != nil {
					return err
				}
				return errs.New(errs.KindDisconnected, "connection closed with %d blocks still pending", len(expected))
			}
			hash := block.BlockHash()
			delete(expected, hash)
			requested.Remove(hash)
			if err := d.store.SetBody(hash, block); err != nil {
				return err
			}
			d.logger.Debugf("downloaded block %s", hash)

		case hash := <-requested.Expired():
			if _, stillWanted := expected[hash]; stillWanted {
				return errs.New(errs.KindDisconnected, "timed out waiting for block %s", hash)
			}
		}
	}

	return nil
}

func batchHashes(hashes []chainhash.Hash, batchSize int) [][]chainhash.Hash {
	if len(hashes) == 0 {
		return nil
	}
	batches := make([][]chainhash.Hash, 0, (len(hashes)+batchSize-1)/batchSize)
	for i := 0; i < len(hashes); i += batchSize {
		end := i + batchSize
		if end > len(hashes) {
			end = len(hashes)
		}
		batches = append(batches, hashes[i:end])
	}
	return batches
}
