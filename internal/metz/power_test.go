package metz_test

import (
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"metzctl/internal/metz"
)

func TestPowerOn(t *testing.T) {
	mac, err := net.ParseMAC("00:09:82:1a:2b:3c")
	require.NoError(t, err)

	t.Run("wakes the resolved address once", func(t *testing.T) {
		var resolved string
		var woken []net.HardwareAddr

		rt := &recordingTransport{}
		client := newTestClient(t, "192.168.1.46", rt,
			metz.WithMACResolver(metz.MACResolverFunc(func(ip string) (net.HardwareAddr, error) {
				resolved = ip
				return mac, nil
			})),
			metz.WithWaker(metz.WakerFunc(func(addr net.HardwareAddr) error {
				woken = append(woken, addr)
				return nil
			})),
		)

		require.NoError(t, client.PowerOn())
		assert.Equal(t, "192.168.1.46", resolved)
		require.Len(t, woken, 1)
		assert.Equal(t, mac, woken[0])
		assert.Empty(t, rt.requests, "power on must not use the control service")
	})

	t.Run("lookup miss is a mac resolution failure and sends nothing", func(t *testing.T) {
		woken := 0
		client := newTestClient(t, "192.168.1.46", &recordingTransport{},
			metz.WithMACResolver(metz.MACResolverFunc(func(string) (net.HardwareAddr, error) {
				return nil, nil
			})),
			metz.WithWaker(metz.WakerFunc(func(net.HardwareAddr) error {
				woken++
				return nil
			})),
		)

		err := client.PowerOn()
		assert.ErrorIs(t, err, metz.ErrMacResolution)
		assert.NotErrorIs(t, err, metz.ErrRemoteCommand)
		assert.Equal(t, 0, woken)
	})

	t.Run("resolver error is a mac resolution failure", func(t *testing.T) {
		lookupErr := errors.New("no arp entry")
		client := newTestClient(t, "192.168.1.46", &recordingTransport{},
			metz.WithMACResolver(metz.MACResolverFunc(func(string) (net.HardwareAddr, error) {
				return nil, lookupErr
			})),
			metz.WithWaker(metz.WakerFunc(func(net.HardwareAddr) error { return nil })),
		)

		err := client.PowerOn()
		assert.ErrorIs(t, err, metz.ErrMacResolution)
		assert.ErrorIs(t, err, lookupErr)
		assert.Equal(t, 3, metz.ExitCode(err))
	})

	t.Run("broadcast failure is surfaced", func(t *testing.T) {
		client := newTestClient(t, "192.168.1.46", &recordingTransport{},
			metz.WithMACResolver(metz.MACResolverFunc(func(string) (net.HardwareAddr, error) {
				return mac, nil
			})),
			metz.WithWaker(metz.WakerFunc(func(net.HardwareAddr) error {
				return errors.New("network is unreachable")
			})),
		)

		err := client.PowerOn()
		require.Error(t, err)
		assert.NotErrorIs(t, err, metz.ErrMacResolution)
		assert.Contains(t, err.Error(), "network is unreachable")
	})

	t.Run("missing collaborators", func(t *testing.T) {
		client := newTestClient(t, "192.168.1.46", &recordingTransport{})
		assert.Error(t, client.PowerOn())
	})
}
