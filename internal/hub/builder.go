package hub

import (
	"fmt"
	"time"

	"metzctl/internal/arp"
	"metzctl/internal/config"
	"metzctl/internal/metz"
	"metzctl/internal/wol"
)

// ClientOptions controls how clients are assembled from device configuration
type ClientOptions struct {
	Debug    bool
	Timeout  time.Duration
	ARPTable string // path of the kernel ARP table, default /proc/net/arp
	MACCache int    // cache size for resolved MACs; 0 disables the cache
}

// NewClient builds a client with the MAC resolver and Wake-on-LAN sender the device needs
func NewClient(dev config.DeviceConfig, opts ClientOptions) (*metz.Client, error) {
	var resolver arp.Resolver
	if dev.MAC != "" {
		static, err := arp.NewStaticResolver(dev.MAC)
		if err != nil {
			return nil, err
		}
		resolver = static
	} else {
		resolver = arp.NewProcResolver(opts.ARPTable)
		if opts.MACCache > 0 {
			cached, err := arp.NewCachingResolver(resolver, opts.MACCache)
			if err != nil {
				return nil, err
			}
			resolver = cached
		}
	}

	clientOpts := []metz.ClientOption{
		metz.WithDebug(opts.Debug),
		metz.WithMACResolver(resolver),
		metz.WithWaker(wol.NewSender(dev.Broadcast, dev.WOLPort)),
	}
	if opts.Timeout > 0 {
		clientOpts = append(clientOpts, metz.WithTimeout(opts.Timeout))
	}

	client, err := metz.NewClient(dev.Address, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("device %s: %w", dev.ID, err)
	}
	return client, nil
}
