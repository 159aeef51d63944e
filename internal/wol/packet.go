package wol

import (
	"fmt"
	"net"

	gowol "github.com/sabhiram/go-wol/wol"
)

const (
	macLen = 6

	// PacketLen is the size of a magic packet without SecureOn password
	PacketLen = 6 + 16*macLen
)

// MagicPacket is a Wake-on-LAN payload: six 0xFF bytes followed by the
// target hardware address repeated sixteen times
type MagicPacket [PacketLen]byte

// NewMagicPacket builds the packet for an EUI-48 address
func NewMagicPacket(mac net.HardwareAddr) (MagicPacket, error) {
	var packet MagicPacket
	if len(mac) != macLen {
		return packet, fmt.Errorf("wake-on-lan needs a 6 byte hardware address, got %d bytes", len(mac))
	}

	mp, err := gowol.New(mac.String())
	if err != nil {
		return packet, fmt.Errorf("failed to build magic packet for %s: %w", mac, err)
	}

	payload, err := mp.Marshal()
	if err != nil {
		return packet, fmt.Errorf("failed to encode magic packet for %s: %w", mac, err)
	}
	if len(payload) != PacketLen {
		return packet, fmt.Errorf("magic packet for %s has %d bytes, want %d", mac, len(payload), PacketLen)
	}

	copy(packet[:], payload)
	return packet, nil
}

// Bytes returns the packet payload
func (p MagicPacket) Bytes() []byte {
	return p[:]
}
