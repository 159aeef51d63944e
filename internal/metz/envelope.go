package metz

import (
	"fmt"
	"net"
	"strconv"
)

// NewSendKeyRequest builds the request for a key code
func NewSendKeyRequest(code KeyCode) SendKeyRequest {
	return SendKeyRequest{KeyCode: code}
}

// Envelope renders the SOAP body for the request
func (r SendKeyRequest) Envelope() string {
	return fmt.Sprintf(sendKeyTemplate, int(r.KeyCode), r.DestinationDevice, r.ButtonHold)
}

// ControlURL returns the RCRService control endpoint for a host
func ControlURL(host string) string {
	return fmt.Sprintf("http://%s%s", net.JoinHostPort(host, strconv.Itoa(ServicePort)), ServicePath)
}
