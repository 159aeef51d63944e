package metz

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"regexp"
	"time"

	"github.com/rs/zerolog"
	"metzctl/internal/logger"
)

// DefaultTimeout bounds a single SendKeyCode round trip
const DefaultTimeout = 5 * time.Second

var hostnamePattern = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9\-]{0,61}[a-zA-Z0-9])?(\.[a-zA-Z0-9]([a-zA-Z0-9\-]{0,61}[a-zA-Z0-9])?)*$`)

// Client sends key codes to a Metz television
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
	host       string
	debug      bool
	resolver   MACResolver
	waker      Waker
	logger     zerolog.Logger
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithHTTPClient replaces the HTTP client used for SendKeyCode requests
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the request timeout. An injected HTTP client is copied, not modified.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithDebug enables request level debug logging
func WithDebug(debug bool) ClientOption {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithMACResolver sets the collaborator used by PowerOn to find the hardware address
func WithMACResolver(resolver MACResolver) ClientOption {
	return func(c *Client) {
		c.resolver = resolver
	}
}

// WithWaker sets the collaborator used by PowerOn to send the magic packet
func WithWaker(waker Waker) ClientOption {
	return func(c *Client) {
		c.waker = waker
	}
}

// NewClient creates a client for the set at host, which must be an IP address or host name
func NewClient(host string, opts ...ClientOption) (*Client, error) {
	if host == "" {
		return nil, errors.New("target address is required")
	}
	if net.ParseIP(host) == nil && !hostnamePattern.MatchString(host) {
		return nil, fmt.Errorf("invalid target address %q", host)
	}

	client := &Client{
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		host:   host,
		logger: logger.With("metz"),
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.timeout > 0 && client.timeout != client.httpClient.Timeout {
		httpClient := *client.httpClient
		httpClient.Timeout = client.timeout
		client.httpClient = &httpClient
	}

	return client, nil
}

// Host returns the target address
func (c *Client) Host() string {
	return c.host
}

// SendKey posts one SendKeyCode request. It does not retry: most keys are toggles.
func (c *Client) SendKey(code KeyCode) error {
	body := NewSendKeyRequest(code).Envelope()
	url := ControlURL(c.host)

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBufferString(body))
	if err != nil {
		return c.commandError(code, fmt.Errorf("failed to create SendKeyCode request: %w", err))
	}

	req.Header.Set("SOAPAction", SOAPAction)
	req.Header.Set("Content-Type", ContentType)

	if c.debug {
		c.logger.Debug().
			Str("url", url).
			Int("code", int(code)).
			Msg("Sending SendKeyCode request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.commandError(code, fmt.Errorf("failed to send SendKeyCode request: %w", err))
	}
	defer resp.Body.Close()

	// The response body carries nothing of interest; drain it so the connection can be reused
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if c.debug {
			c.logger.Error().
				Int("status", resp.StatusCode).
				Int("code", int(code)).
				Msg("SendKeyCode request rejected")
		}
		return c.commandError(code, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	if c.debug {
		c.logger.Debug().
			Int("status", resp.StatusCode).
			Int("code", int(code)).
			Msg("SendKeyCode request successful")
	}

	return nil
}

// SendKeys sends the codes in order and stops at the first failure
func (c *Client) SendKeys(codes ...KeyCode) error {
	for _, code := range codes {
		if err := c.SendKey(code); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) VolumeUp() error    { return c.SendKey(KeyVolumeUp) }
func (c *Client) VolumeDown() error  { return c.SendKey(KeyVolumeDown) }
func (c *Client) Mute() error        { return c.SendKey(KeyMute) }
func (c *Client) Unmute() error      { return c.SendKey(KeyMute) }
func (c *Client) ChannelUp() error   { return c.SendKey(KeyChannelUp) }
func (c *Client) ChannelDown() error { return c.SendKey(KeyChannelDown) }
func (c *Client) Power() error       { return c.SendKey(KeyPower) }
func (c *Client) OK() error          { return c.SendKey(KeyOK) }

// Channel sends a channel number as a raw key code
func (c *Client) Channel(number int) error {
	return c.SendKey(KeyCode(number))
}

func (c *Client) commandError(code KeyCode, err error) error {
	c.logger.Debug().
		Err(err).
		Str("host", c.host).
		Int("code", int(code)).
		Msg("Remote command failed")

	return &CommandError{
		Kind: ErrRemoteCommand,
		Host: c.host,
		Code: code,
		Err:  err,
	}
}
