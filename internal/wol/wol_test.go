package wol

import (
	"bytes"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMagicPacket(t *testing.T) {
	mac, err := net.ParseMAC("00:09:82:1a:2b:3c")
	require.NoError(t, err)

	packet, err := NewMagicPacket(mac)
	require.NoError(t, err)

	payload := packet.Bytes()
	require.Len(t, payload, 102)
	assert.Equal(t, bytes.Repeat([]byte{0xFF}, 6), payload[:6])
	for i := 0; i < 16; i++ {
		offset := 6 + i*6
		assert.Equal(t, []byte(mac), payload[offset:offset+6], "repetition %d", i)
	}
}

func TestNewMagicPacketRejectsLongAddresses(t *testing.T) {
	mac, err := net.ParseMAC("00:00:00:00:fe:80:00:00:00:00:00:00:02:00:5e:10:00:00:00:01")
	require.NoError(t, err)

	_, err = NewMagicPacket(mac)
	assert.Error(t, err)

	_, err = NewMagicPacket(nil)
	assert.Error(t, err)
}

func TestSenderDefaults(t *testing.T) {
	assert.Equal(t, "255.255.255.255:9", NewSender("", 0).Address())
	assert.Equal(t, "192.168.1.255:7", NewSender("192.168.1.255", 7).Address())
}

func TestSenderWake(t *testing.T) {
	listener, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	addr := listener.LocalAddr().(*net.UDPAddr)
	sender := NewSender("127.0.0.1", addr.Port)

	mac, err := net.ParseMAC("00:09:82:1a:2b:3c")
	require.NoError(t, err)
	require.NoError(t, sender.Wake(mac))

	require.NoError(t, listener.SetReadDeadline(time.Now().Add(2*time.Second)))
	buf := make([]byte, 256)
	n, _, err := listener.ReadFrom(buf)
	require.NoError(t, err)

	expected, err := NewMagicPacket(mac)
	require.NoError(t, err)
	assert.Equal(t, expected.Bytes(), buf[:n])
}

func TestSenderWakeDialFailure(t *testing.T) {
	sender := NewSender("", 0)
	sender.dial = func(string, string, time.Duration) (net.Conn, error) {
		return nil, &net.OpError{Op: "dial", Net: "udp", Err: assert.AnError}
	}

	mac, _ := net.ParseMAC("00:09:82:1a:2b:3c")
	err := sender.Wake(mac)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "255.255.255.255:9")
}
