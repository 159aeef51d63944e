package device

import (
	"encoding/json"
	"fmt"
)

// Device represents a generic device that can process commands
type Device interface {
	// Process handles a JSON-encoded action and executes the corresponding operation
	Process(actionJSON []byte) (*ActionResponse, error)

	// GetDeviceInfo returns basic information about the device
	GetDeviceInfo() DeviceInfo
}

// DeviceInfo contains basic information about a device
type DeviceInfo struct {
	ID           string   `json:"id,omitempty"`
	Type         string   `json:"type"`
	Model        string   `json:"model"`
	Address      string   `json:"address"`
	Capabilities []string `json:"capabilities"`
}

// ActionType represents the type of action to perform
type ActionType string

const (
	ActionTypeRemote ActionType = "remote"
	ActionTypePower  ActionType = "power"
)

// ActionRequest represents a JSON action request
type ActionRequest struct {
	Type       ActionType             `json:"type"`       // "remote" or "power"
	Action     string                 `json:"action"`     // specific action name
	Parameters map[string]interface{} `json:"parameters"` // optional parameters
}

// ActionResponse represents the response from processing an action
type ActionResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Kind    string      `json:"kind,omitempty"`
}

// RemoteAction represents available remote control actions
type RemoteAction string

const (
	RemoteActionPower       RemoteAction = "power"
	RemoteActionVolumeUp    RemoteAction = "volume_up"
	RemoteActionVolumeDown  RemoteAction = "volume_down"
	RemoteActionMute        RemoteAction = "mute"
	RemoteActionUnmute      RemoteAction = "unmute"
	RemoteActionChannelUp   RemoteAction = "channel_up"
	RemoteActionChannelDown RemoteAction = "channel_down"
	RemoteActionOK          RemoteAction = "ok"
	RemoteActionChannel     RemoteAction = "channel"
	RemoteActionKey         RemoteAction = "key"
)

// PowerAction represents actions that do not go through the control service
type PowerAction string

const (
	PowerActionOn PowerAction = "power_on"
)

// ParseActionRequest parses JSON input into ActionRequest
func ParseActionRequest(actionJSON []byte) (*ActionRequest, error) {
	var request ActionRequest
	if err := json.Unmarshal(actionJSON, &request); err != nil {
		return nil, fmt.Errorf("failed to parse action request: %w", err)
	}

	// Validate required fields
	if request.Type == "" {
		return nil, fmt.Errorf("action type is required")
	}

	if request.Action == "" {
		return nil, fmt.Errorf("action is required")
	}

	return &request, nil
}

// IntParameter reads an integer parameter. JSON numbers arrive as float64 and must be whole.
func (r *ActionRequest) IntParameter(name string) (int, error) {
	value, exists := r.Parameters[name]
	if !exists {
		return 0, fmt.Errorf("%s parameter is required for %s action", name, r.Action)
	}

	switch v := value.(type) {
	case int:
		return v, nil
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("%s parameter must be a whole number", name)
		}
		return int(v), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("invalid %s parameter: %w", name, err)
		}
		return int(n), nil
	default:
		return 0, fmt.Errorf("invalid %s parameter type", name)
	}
}

// NewActionJSON encodes an action request
func NewActionJSON(actionType ActionType, action string, parameters map[string]interface{}) ([]byte, error) {
	return json.Marshal(ActionRequest{
		Type:       actionType,
		Action:     action,
		Parameters: parameters,
	})
}
