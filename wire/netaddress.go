package wire

import (
	"io"
	"net"
	"time"
)

// NetAddress represents the fixed 26-byte network address encoding used for
// addr_recv/addr_from in the version message: services (8 bytes) + 16-byte
// IPv6/IPv4-mapped address + big-endian 2-byte port.
type NetAddress struct {
	Timestamp time.Time // only present in addr messages, not version
	Services  ServiceFlag
	IP        net.IP
	Port      uint16
}

// NetAddressSize is the fixed wire size of a NetAddress without the
// timestamp prefix used inside the version message.
const NetAddressSize = 8 + 16 + 2

// NewNetAddressTimestamp builds a NetAddress carrying a discovery timestamp,
// as produced by DNS seeding.
func NewNetAddressTimestamp(timestamp time.Time, services ServiceFlag, ip net.IP, port uint16) *NetAddress {
	return &NetAddress{Timestamp: timestamp, Services: services, IP: ip, Port: port}
}

func ipToWire(ip net.IP) [16]byte {
	var out [16]byte
	if v4 := ip.To4(); v4 != nil {
		// IPv4-mapped IPv6 prefix: ::ffff:a.b.c.d
		copy(out[:], []byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0xff, 0xff})
		copy(out[12:], v4)
		return out
	}
	copy(out[:], ip.To16())
	return out
}

func encodeNetAddress(w io.Writer, na *NetAddress, withTimestamp bool) error {
	if withTimestamp {
		if err := writeUint32Time(w, na.Timestamp); err != nil {
			return err
		}
	}

	if err := writeElement(w, uint64(na.Services)); err != nil {
		return err
	}

	ipBytes := ipToWire(na.IP)
	if err := writeElement(w, ipBytes); err != nil {
		return err
	}

	// Port is encoded big-endian on the wire, unlike every other field.
	return writeElement(w, bigEndianUint16(na.Port))
}

func decodeNetAddress(r io.Reader, na *NetAddress, withTimestamp bool) error {
	if withTimestamp {
		if err := readUint32Time(r, &na.Timestamp); err != nil {
			return err
		}
	}

	var services uint64
	if err := readElement(r, &services); err != nil {
		return err
	}
	na.Services = ServiceFlag(services)

	var ipBytes [16]byte
	if err := readElement(r, &ipBytes); err != nil {
		return err
	}
	na.IP = net.IP(ipBytes[:])

	var port uint16
	if err := readElement(r, &port); err != nil {
		return err
	}
	na.Port = bigEndianUint16(port)

	return nil
}

// bigEndianUint16 byte-swaps a little-endian-read/written uint16 to/from
// big-endian, since the port field is the one field in the protocol encoded
// in network (big-endian) byte order.
func bigEndianUint16(v uint16) uint16 {
	return v<<8 | v>>8
}
