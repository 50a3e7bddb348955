package wire

import (
	"io"

	"github.com/bsv-blockchain/go-p2psync/errs"
	"github.com/libsv/go-bt/v2"
)

// Tx is the opaque transaction payload carried inside a block. This core
// only needs to frame transactions on the wire, never interpret them —
// full parsing is delegated to github.com/libsv/go-bt/v2.
type Tx = bt.Tx

// decodeTx reads one transaction from r using go-bt's own wire decoder.
func decodeTx(r io.Reader) (*Tx, error) {
	tx := &bt.Tx{}
	if _, err := tx.ReadFrom(r); err != nil {
		return nil, errs.New(errs.KindDecodeError, "decode tx", err)
	}
	return tx, nil
}

// encodeTx writes one transaction to w using go-bt's own wire encoder.
func encodeTx(w io.Writer, tx *Tx) error {
	_, err := w.Write(tx.Bytes())
	return err
}
