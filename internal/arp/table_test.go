package arp

import (
	"errors"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kernelTable(entries map[string]string) func() map[string]string {
	return func() map[string]string { return entries }
}

func TestNewProcResolverUsesKernelTable(t *testing.T) {
	assert.NotNil(t, NewProcResolver("").table)
	assert.NotNil(t, NewProcResolver(DefaultTablePath).table)
	assert.Nil(t, NewProcResolver("/tmp/arp").table, "a custom table path is read as a file")
}

func TestProcResolverKernelTable(t *testing.T) {
	r := NewProcResolver("")
	r.table = kernelTable(map[string]string{
		"192.168.1.1":  "a4:91:b1:00:11:22",
		"192.168.1.46": "00:09:82:1a:2b:3c",
		"192.168.1.50": "00:00:00:00:00:00",
		"192.168.1.52": "garbage",
	})

	mac, err := r.Resolve("192.168.1.46")
	require.NoError(t, err)
	assert.Equal(t, "00:09:82:1a:2b:3c", mac.String())

	for _, ip := range []string{"192.168.1.50", "192.168.1.52", "10.0.0.1"} {
		_, err := r.Resolve(ip)
		assert.ErrorIs(t, err, ErrNotFound, ip)
	}
}

func TestProcResolverResolvesHostNames(t *testing.T) {
	lookup := func(host string) ([]net.IP, error) {
		switch host {
		case "tv.local":
			return []net.IP{net.ParseIP("fe80::209:82ff:fe1a:2b3c"), net.ParseIP("192.168.1.46")}, nil
		case "v6only.local":
			return []net.IP{net.ParseIP("fe80::1")}, nil
		default:
			return nil, errors.New("no such host")
		}
	}

	t.Run("kernel table", func(t *testing.T) {
		r := NewProcResolver("")
		r.lookup = lookup
		r.table = kernelTable(map[string]string{"192.168.1.46": "00:09:82:1a:2b:3c"})

		mac, err := r.Resolve("tv.local")
		require.NoError(t, err)
		assert.Equal(t, "00:09:82:1a:2b:3c", mac.String())
	})

	t.Run("table file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "arp")
		require.NoError(t, os.WriteFile(path, []byte(
			"IP address       HW type     Flags       HW address            Mask     Device\n"+
				"192.168.1.46     0x1         0x2         00:09:82:1a:2b:3c     *        eth0\n"), 0600))

		r := NewProcResolver(path)
		r.lookup = lookup

		mac, err := r.Resolve("tv.local")
		require.NoError(t, err)
		assert.Equal(t, "00:09:82:1a:2b:3c", mac.String())
	})

	t.Run("failures", func(t *testing.T) {
		r := NewProcResolver("")
		r.lookup = lookup
		r.table = kernelTable(map[string]string{})

		_, err := r.Resolve("v6only.local")
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = r.Resolve("missing.local")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing.local")
	})
}
