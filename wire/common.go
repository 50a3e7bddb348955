package wire

import (
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"github.com/bsv-blockchain/go-p2psync/errs"
	"github.com/libsv/go-bt/v2/chainhash"
)

// readElement reads a single fixed-size field from r into element, following
// the familiar btcd-lineage readElement dispatch-by-type pattern.
func readElement(r io.Reader, element interface{}) error {
	switch e := element.(type) {
	case *int32:
		return binary.Read(r, binary.LittleEndian, e)
	case *uint32:
		return binary.Read(r, binary.LittleEndian, e)
	case *int64:
		return binary.Read(r, binary.LittleEndian, e)
	case *uint64:
		return binary.Read(r, binary.LittleEndian, e)
	case *uint16:
		return binary.Read(r, binary.LittleEndian, e)
	case *bool:
		var b [1]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return err
		}
		*e = b[0] != 0
		return nil
	case *chainhash.Hash:
		_, err := io.ReadFull(r, e[:])
		return err
	case *[4]byte:
		_, err := io.ReadFull(r, e[:])
		return err
	case *[12]byte:
		_, err := io.ReadFull(r, e[:])
		return err
	case *[16]byte:
		_, err := io.ReadFull(r, e[:])
		return err
	default:
		return fmt.Errorf("readElement: unsupported type %T", e)
	}
}

func readElements(r io.Reader, elements ...interface{}) error {
	for _, e := range elements {
		if err := readElement(r, e); err != nil {
			return err
		}
	}
	return nil
}

func writeElement(w io.Writer, element interface{}) error {
	switch e := element.(type) {
	case int32:
		return binary.Write(w, binary.LittleEndian, e)
	case uint32:
		return binary.Write(w, binary.LittleEndian, e)
	case int64:
		return binary.Write(w, binary.LittleEndian, e)
	case uint64:
		return binary.Write(w, binary.LittleEndian, e)
	case uint16:
		return binary.Write(w, binary.LittleEndian, e)
	case bool:
		var b [1]byte
		if e {
			b[0] = 1
		}
		_, err := w.Write(b[:])
		return err
	case chainhash.Hash:
		_, err := w.Write(e[:])
		return err
	case [4]byte:
		_, err := w.Write(e[:])
		return err
	case [12]byte:
		_, err := w.Write(e[:])
		return err
	case [16]byte:
		_, err := w.Write(e[:])
		return err
	default:
		return fmt.Errorf("writeElement: unsupported type %T", e)
	}
}

func writeElements(w io.Writer, elements ...interface{}) error {
	for _, e := range elements {
		if err := writeElement(w, e); err != nil {
			return err
		}
	}
	return nil
}

// uint32Time is a time.Time encoded on the wire as seconds-since-epoch in a
// uint32, used for BlockHeader.Timestamp.
type uint32Time time.Time

func readUint32Time(r io.Reader, t *time.Time) error {
	var sec uint32
	if err := readElement(r, &sec); err != nil {
		return err
	}
	*t = time.Unix(int64(sec), 0)
	return nil
}

func writeUint32Time(w io.Writer, t time.Time) error {
	return writeElement(w, uint32(t.Unix()))
}

// readInt64Time and writeInt64Time encode a time.Time on the wire as
// seconds-since-epoch in an int64, used for MsgVersion.Timestamp.
func readInt64Time(r io.Reader, t *time.Time) error {
	var sec int64
	if err := readElement(r, &sec); err != nil {
		return err
	}
	*t = time.Unix(sec, 0)
	return nil
}

func writeInt64Time(w io.Writer, t time.Time) error {
	return writeElement(w, int64(t.Unix()))
}

// ReadVarInt reads a CompactSize-encoded integer: a single byte if < 0xfd, a
// 0xfd prefix + uint16 if it fits in two bytes, 0xfe + uint32, or 0xff +
// uint64.
func ReadVarInt(r io.Reader) (uint64, error) {
	var prefix [1]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return 0, errs.New(errs.KindDecodeError, "read varint prefix", err)
	}

	switch prefix[0] {
	case 0xff:
		var v uint64
		if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
			return 0, errs.New(errs.KindDecodeError, "read varint uint64", err)
		}
		return v, nil
	case 0xfe:
		var v uint32
		if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
			return 0, errs.New(errs.KindDecodeError, "read varint uint32", err)
		}
		return uint64(v), nil
	case 0xfd:
		var v uint16
		if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
			return 0, errs.New(errs.KindDecodeError, "read varint uint16", err)
		}
		return uint64(v), nil
	default:
		return uint64(prefix[0]), nil
	}
}

// WriteVarInt writes v using the smallest CompactSize form that fits.
func WriteVarInt(w io.Writer, v uint64) error {
	switch {
	case v < 0xfd:
		_, err := w.Write([]byte{byte(v)})
		return err
	case v <= 0xffff:
		if _, err := w.Write([]byte{0xfd}); err != nil {
			return err
		}
		return binary.Write(w, binary.LittleEndian, uint16(v))
	case v <= 0xffffffff:
		if _, err := w.Write([]byte{0xfe}); err != nil {
			return err
		}
		return binary.Write(w, binary.LittleEndian, uint32(v))
	default:
		if _, err := w.Write([]byte{0xff}); err != nil {
			return err
		}
		return binary.Write(w, binary.LittleEndian, v)
	}
}

// VarIntSerializeSize returns the number of bytes WriteVarInt would write
// for v.
func VarIntSerializeSize(v uint64) int {
	switch {
	case v < 0xfd:
		return 1
	case v <= 0xffff:
		return 3
	case v <= 0xffffffff:
		return 5
	default:
		return 9
	}
}

// ReadVarString reads a CompactSize length prefix followed by that many
// bytes of UTF-8 text, used for the version message's user_agent field.
func ReadVarString(r io.Reader) (string, error) {
	n, err := ReadVarInt(r)
	if err != nil {
		return "", err
	}

	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", errs.New(errs.KindDecodeError, "read varstring body", err)
	}

	return string(buf), nil
}

// WriteVarString writes s as a CompactSize length prefix followed by its
// bytes.
func WriteVarString(w io.Writer, s string) error {
	if err := WriteVarInt(w, uint64(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

// DoubleSha256 returns the double-SHA-256 digest of b, used for message
// checksums (block identity hashes go through chainhash.DoubleHashH).
func DoubleSha256(b []byte) []byte {
	h := chainhash.DoubleHashB(b)
	return h
}
