package wol

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"metzctl/internal/logger"
)

const (
	DefaultBroadcast = "255.255.255.255"
	DefaultPort      = 9
)

// Sender broadcasts magic packets over UDP
type Sender struct {
	broadcast string
	port      int
	timeout   time.Duration
	dial      func(network, address string, timeout time.Duration) (net.Conn, error)
	logger    zerolog.Logger
}

// NewSender creates a sender for the given broadcast address. Empty values use the defaults.
func NewSender(broadcast string, port int) *Sender {
	if broadcast == "" {
		broadcast = DefaultBroadcast
	}
	if port <= 0 {
		port = DefaultPort
	}

	return &Sender{
		broadcast: broadcast,
		port:      port,
		timeout:   2 * time.Second,
		dial:      net.DialTimeout,
		logger:    logger.With("wol"),
	}
}

// Address returns the UDP destination of the packets
func (s *Sender) Address() string {
	return net.JoinHostPort(s.broadcast, strconv.Itoa(s.port))
}

// Wake sends a single magic packet for mac
func (s *Sender) Wake(mac net.HardwareAddr) error {
	packet, err := NewMagicPacket(mac)
	if err != nil {
		return err
	}

	conn, err := s.dial("udp", s.Address(), s.timeout)
	if err != nil {
		return fmt.Errorf("failed to open udp socket to %s: %w", s.Address(), err)
	}
	defer conn.Close()

	n, err := conn.Write(packet.Bytes())
	if err != nil {
		return fmt.Errorf("failed to write magic packet: %w", err)
	}
	if n != PacketLen {
		return fmt.Errorf("short write of magic packet: %d of %d bytes", n, PacketLen)
	}

	s.logger.Debug().
		Str("mac", mac.String()).
		Str("address", s.Address()).
		Msg("Magic packet sent")

	return nil
}
