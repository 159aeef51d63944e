package arp

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	kernelarp "github.com/mostlygeek/arp"
)

// DefaultTablePath is the kernel ARP table on Linux
const DefaultTablePath = "/proc/net/arp"

// ErrNotFound is returned when the table has no complete entry for an address
var ErrNotFound = errors.New("no arp entry")

// Resolver maps IPv4 addresses to hardware addresses
type Resolver interface {
	Resolve(ip string) (net.HardwareAddr, error)
}

// ProcResolver reads the kernel ARP table. It only finds sets that talked on the
// local segment recently; a set in deep standby may have aged out of the table.
// Host names are resolved to an IPv4 address first.
type ProcResolver struct {
	path   string
	table  func() map[string]string
	lookup func(host string) ([]net.IP, error)
}

// NewProcResolver creates a resolver over the ARP table at path. An empty path or
// DefaultTablePath reads the kernel table through github.com/mostlygeek/arp.
func NewProcResolver(path string) *ProcResolver {
	r := &ProcResolver{
		path:   path,
		lookup: net.LookupIP,
	}
	if path == "" || path == DefaultTablePath {
		r.path = DefaultTablePath
		r.table = func() map[string]string { return kernelarp.Table() }
	}
	return r
}

// Resolve looks up host in the table
func (r *ProcResolver) Resolve(host string) (net.HardwareAddr, error) {
	ip, err := r.hostIP(host)
	if err != nil {
		return nil, err
	}

	if r.table != nil {
		return fromTable(r.table(), ip)
	}

	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open arp table: %w", err)
	}
	defer f.Close()

	return Lookup(f, ip.String())
}

func (r *ProcResolver) hostIP(host string) (net.IP, error) {
	if ip := net.ParseIP(host); ip != nil {
		return ip, nil
	}

	addrs, err := r.lookup(host)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", host, err)
	}
	for _, addr := range addrs {
		if v4 := addr.To4(); v4 != nil {
			return v4, nil
		}
	}
	return nil, fmt.Errorf("%w: %s has no IPv4 address", ErrNotFound, host)
}

// fromTable picks ip out of an IP to MAC map as returned by kernelarp.Table
func fromTable(table map[string]string, ip net.IP) (net.HardwareAddr, error) {
	for entry, hw := range table {
		if !ip.Equal(net.ParseIP(entry)) {
			continue
		}

		mac, err := net.ParseMAC(hw)
		if err != nil || isZero(mac) {
			break
		}
		return mac, nil
	}

	return nil, fmt.Errorf("%w for %s", ErrNotFound, ip)
}

// Lookup scans an ARP table in /proc/net/arp format for ip. Unlike the kernel
// table reader it sees the flags column, so incomplete entries are skipped by flag too.
func Lookup(table io.Reader, ip string) (net.HardwareAddr, error) {
	target := net.ParseIP(ip)
	if target == nil {
		return nil, fmt.Errorf("invalid ip address %q", ip)
	}

	scanner := bufio.NewScanner(table)
	// Header: IP address  HW type  Flags  HW address  Mask  Device
	scanner.Scan()

	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 4 {
			continue
		}

		if !target.Equal(net.ParseIP(fields[0])) {
			continue
		}

		// Flags 0x0 marks an incomplete entry
		if fields[2] == "0x0" {
			continue
		}

		mac, err := net.ParseMAC(fields[3])
		if err != nil || isZero(mac) {
			continue
		}
		return mac, nil
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read arp table: %w", err)
	}

	return nil, fmt.Errorf("%w for %s", ErrNotFound, ip)
}

func isZero(mac net.HardwareAddr) bool {
	for _, b := range mac {
		if b != 0 {
			return false
		}
	}
	return true
}

// StaticResolver returns a fixed hardware address, for sets whose MAC is configured
type StaticResolver struct {
	mac net.HardwareAddr
}

// NewStaticResolver parses mac
func NewStaticResolver(mac string) (*StaticResolver, error) {
	addr, err := net.ParseMAC(mac)
	if err != nil {
		return nil, fmt.Errorf("invalid mac address %q: %w", mac, err)
	}
	return &StaticResolver{mac: addr}, nil
}

// Resolve ignores ip and returns the configured address
func (r *StaticResolver) Resolve(string) (net.HardwareAddr, error) {
	return r.mac, nil
}

// CachingResolver remembers successful lookups of another resolver.
// Misses are not cached so a set that comes back into the table is found.
type CachingResolver struct {
	next  Resolver
	cache *lru.Cache[string, net.HardwareAddr]
}

// NewCachingResolver wraps next with an LRU cache of size entries
func NewCachingResolver(next Resolver, size int) (*CachingResolver, error) {
	if size <= 0 {
		size = 64
	}

	cache, err := lru.New[string, net.HardwareAddr](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create mac cache: %w", err)
	}

	return &CachingResolver{next: next, cache: cache}, nil
}

// Resolve returns a cached address or asks the wrapped resolver
func (r *CachingResolver) Resolve(ip string) (net.HardwareAddr, error) {
	if mac, ok := r.cache.Get(ip); ok {
		return mac, nil
	}

	mac, err := r.next.Resolve(ip)
	if err != nil {
		return nil, err
	}
	if len(mac) > 0 {
		r.cache.Add(ip, mac)
	}
	return mac, nil
}

// Purge drops all cached addresses
func (r *CachingResolver) Purge() {
	r.cache.Purge()
}
