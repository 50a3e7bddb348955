package wire

import (
	"io"

	"github.com/bsv-blockchain/go-p2psync/errs"
	"github.com/libsv/go-bt/v2/chainhash"
)

// InvType identifies what kind of object an InvVect describes.
type InvType uint32

const (
	InvTypeError InvType = iota
	InvTypeTx
	InvTypeBlock
	InvTypeFilteredBlock
)

// InvVect is a single (type, hash) inventory tuple.
type InvVect struct {
	Type InvType
	Hash chainhash.Hash
}

func (iv *InvVect) encode(w io.Writer) error {
	return writeElements(w, uint32(iv.Type), iv.Hash)
}

func (iv *InvVect) decode(r io.Reader) error {
	var t uint32
	if err := readElements(r, &t, &iv.Hash); err != nil {
		return err
	}
	iv.Type = InvType(t)
	return nil
}

func writeInvVectList(w io.Writer, invs []*InvVect, max int) error {
	if len(invs) > max {
		return errs.New(errs.KindDecodeError, "too many inventory vectors: %d > %d", len(invs), max)
	}

	if err := WriteVarInt(w, uint64(len(invs))); err != nil {
		return err
	}

	for _, iv := range invs {
		if err := iv.encode(w); err != nil {
			return err
		}
	}

	return nil
}

func readInvVectList(r io.Reader, max int) ([]*InvVect, error) {
	count, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}

	if count > uint64(max) {
		return nil, errs.New(errs.KindDecodeError, "too many inventory vectors: %d > %d", count, max)
	}

	invs := make([]*InvVect, count)
	for i := range invs {
		iv := &InvVect{}
		if err := iv.decode(r); err != nil {
			return nil, err
		}
		invs[i] = iv
	}

	return invs, nil
}
