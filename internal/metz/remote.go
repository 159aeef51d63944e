package metz

import (
	"errors"
	"fmt"

	"metzctl/internal/device"
)

// Remote implements device.Device for a Metz television
type Remote struct {
	client *Client
	info   device.DeviceInfo
}

// NewRemote wraps a client so it can be driven by JSON action requests
func NewRemote(id string, client *Client) *Remote {
	return &Remote{
		client: client,
		info: device.DeviceInfo{
			ID:      id,
			Type:    "metz_tv",
			Model:   "Metz",
			Address: client.Host(),
			Capabilities: []string{
				"remote_control",
				"wake_on_lan",
			},
		},
	}
}

// GetDeviceInfo returns information about this set
func (r *Remote) GetDeviceInfo() device.DeviceInfo {
	return r.info
}

// Client returns the underlying key code client
func (r *Remote) Client() *Client {
	return r.client
}

// Process handles JSON action requests and routes them to the client.
// Failures are reported in the response; the error return is reserved for internal faults.
func (r *Remote) Process(actionJSON []byte) (*device.ActionResponse, error) {
	request, err := device.ParseActionRequest(actionJSON)
	if err != nil {
		return failure(fmt.Errorf("%w: %v", ErrUnknownCommand, err)), nil
	}

	if err := r.Execute(request); err != nil {
		return failure(err), nil
	}

	return &device.ActionResponse{
		Success: true,
		Data:    fmt.Sprintf("Action '%s' executed successfully", request.Action),
	}, nil
}

// Execute runs a parsed action request
func (r *Remote) Execute(request *device.ActionRequest) error {
	switch request.Type {
	case device.ActionTypeRemote:
		return r.executeRemote(request)
	case device.ActionTypePower:
		if device.PowerAction(request.Action) != device.PowerActionOn {
			return fmt.Errorf("%w: power action %s", ErrUnknownCommand, request.Action)
		}
		return r.client.PowerOn()
	default:
		return fmt.Errorf("%w: action type %s", ErrUnknownCommand, request.Type)
	}
}

func (r *Remote) executeRemote(request *device.ActionRequest) error {
	switch device.RemoteAction(request.Action) {
	case device.RemoteActionChannel:
		number, err := request.IntParameter("number")
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUnknownCommand, err)
		}
		return r.client.Channel(number)

	case device.RemoteActionKey:
		code, err := request.IntParameter("code")
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUnknownCommand, err)
		}
		return r.client.SendKey(KeyCode(code))
	}

	code, exists := LookupKey(request.Action)
	if !exists {
		return fmt.Errorf("%w: remote action %s", ErrUnknownCommand, request.Action)
	}
	return r.client.SendKey(code)
}

// KindOf names the failure kind of err for logs and API responses
func KindOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrRemoteCommand):
		return "remote_command"
	case errors.Is(err, ErrMacResolution):
		return "mac_resolution"
	case errors.Is(err, ErrUnknownCommand):
		return "unknown_command"
	default:
		return "internal"
	}
}

func failure(err error) *device.ActionResponse {
	return &device.ActionResponse{
		Success: false,
		Error:   err.Error(),
		Kind:    KindOf(err),
	}
}
