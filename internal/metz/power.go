package metz

import (
	"errors"
	"fmt"
)

// PowerOn wakes a set in standby with a Wake-on-LAN packet. Unlike Power it does not
// need the control service to be listening. Delivery is not confirmed.
func (c *Client) PowerOn() error {
	if c.resolver == nil || c.waker == nil {
		return errors.New("power on requires a mac resolver and a waker")
	}

	mac, err := c.resolver.Resolve(c.host)
	if err != nil || len(mac) == 0 {
		c.logger.Debug().
			Err(err).
			Str("host", c.host).
			Msg("Hardware address lookup failed")
		return &CommandError{Kind: ErrMacResolution, Host: c.host, Err: err}
	}

	c.logger.Debug().
		Str("host", c.host).
		Str("mac", mac.String()).
		Msg("Sending Wake-on-LAN packet")

	if err := c.waker.Wake(mac); err != nil {
		return fmt.Errorf("failed to send wake-on-lan packet to %s: %w", mac, err)
	}

	return nil
}
