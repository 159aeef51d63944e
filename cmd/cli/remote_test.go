package cli

import (
	"encoding/json"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"metzctl/internal/config"
	"metzctl/internal/device"
)

type recordingDevice struct {
	requests []device.ActionRequest
	fail     bool
}

func (d *recordingDevice) Process(actionJSON []byte) (*device.ActionResponse, error) {
	var request device.ActionRequest
	if err := json.Unmarshal(actionJSON, &request); err != nil {
		return nil, err
	}
	d.requests = append(d.requests, request)
	if d.fail {
		return &device.ActionResponse{Success: false, Error: "remote command failed", Kind: "remote_command"}, nil
	}
	return &device.ActionResponse{Success: true}, nil
}

func (d *recordingDevice) GetDeviceInfo() device.DeviceInfo {
	return device.DeviceInfo{ID: "living_room", Type: "metz_tv", Address: "192.168.1.46"}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m RemoteModel, keys ...tea.KeyMsg) RemoteModel {
	for _, k := range keys {
		m, _ = m.Update(k)
	}
	return m
}

func TestRemoteModelButtons(t *testing.T) {
	tests := []struct {
		key    tea.KeyMsg
		typ    device.ActionType
		action string
	}{
		{runes("p"), device.ActionTypeRemote, "power"},
		{runes("w"), device.ActionTypePower, "power_on"},
		{runes("+"), device.ActionTypeRemote, "volume_up"},
		{tea.KeyMsg{Type: tea.KeyLeft}, device.ActionTypeRemote, "volume_down"},
		{runes("m"), device.ActionTypeRemote, "mute"},
		{runes("u"), device.ActionTypeRemote, "unmute"},
		{tea.KeyMsg{Type: tea.KeyUp}, device.ActionTypeRemote, "channel_up"},
		{tea.KeyMsg{Type: tea.KeyDown}, device.ActionTypeRemote, "channel_down"},
		{tea.KeyMsg{Type: tea.KeyEnter}, device.ActionTypeRemote, "ok"},
	}

	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			dev := &recordingDevice{}
			m := press(NewRemoteModel(dev, dev.GetDeviceInfo(), false), tt.key)

			require.Len(t, dev.requests, 1)
			assert.Equal(t, tt.typ, dev.requests[0].Type)
			assert.Equal(t, tt.action, dev.requests[0].Action)
			require.NotNil(t, m.lastResponse)
			assert.True(t, m.lastResponse.Success)
		})
	}
}

func TestRemoteModelChannelEntry(t *testing.T) {
	dev := &recordingDevice{}
	m := NewRemoteModel(dev, dev.GetDeviceInfo(), false)

	m = press(m, runes("1"), runes("0"), runes("7"), tea.KeyMsg{Type: tea.KeyBackspace}, runes("5"))
	assert.Equal(t, "105", m.channelBuffer)
	assert.Empty(t, dev.requests, "digits are buffered until enter")

	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Len(t, dev.requests, 1)
	assert.Equal(t, "channel", dev.requests[0].Action)
	assert.Equal(t, float64(105), dev.requests[0].Parameters["number"])
	assert.Empty(t, m.channelBuffer)
}

func TestRemoteModelChannelEntryLimits(t *testing.T) {
	dev := &recordingDevice{}
	m := NewRemoteModel(dev, dev.GetDeviceInfo(), false)

	m = press(m, runes("1"), runes("2"), runes("3"), runes("4"), runes("5"))
	assert.Equal(t, "1234", m.channelBuffer)

	m = press(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Empty(t, m.channelBuffer)
	assert.Empty(t, dev.requests)
}

func TestRemoteModelFailureIsShown(t *testing.T) {
	dev := &recordingDevice{fail: true}
	m := press(NewRemoteModel(dev, dev.GetDeviceInfo(), true), runes("m"))

	require.NotNil(t, m.lastResponse)
	assert.False(t, m.lastResponse.Success)
	require.Len(t, m.logBuffer, 1)
	assert.Equal(t, "ERR", m.logBuffer[0].Level)
	assert.Contains(t, m.View(), "remote command failed")
}

func TestSetupModelConnectsSelectedDevice(t *testing.T) {
	devices := []config.DeviceConfig{
		{ID: "living_room", Name: "Living Room", Address: "192.168.1.46"},
		{ID: "bedroom", Name: "Bedroom", Address: "192.168.1.47"},
	}

	var connected config.DeviceConfig
	connect := func(dev config.DeviceConfig) (device.Device, error) {
		connected = dev
		return &recordingDevice{}, nil
	}

	m := NewSetupModel(devices, connect)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.True(t, m.IsConnected())
	assert.Equal(t, "bedroom", connected.ID)
}

func TestSetupModelManualAddress(t *testing.T) {
	var connected config.DeviceConfig
	connect := func(dev config.DeviceConfig) (device.Device, error) {
		connected = dev
		if dev.Address == "bad" {
			return nil, errors.New("invalid address")
		}
		return &recordingDevice{}, nil
	}

	m := NewSetupModel(nil, connect)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.IsConnected())
	assert.Equal(t, "Host address is required", m.connectionError)

	m, _ = m.Update(runes("bad"))
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.IsConnected())
	assert.Equal(t, "invalid address", m.connectionError)

	for i := 0; i < 3; i++ {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	}
	m, _ = m.Update(runes("10.0.0.5"))
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, m.IsConnected())
	assert.Equal(t, "10.0.0.5", connected.Address)
}

func TestModelRoutesBetweenScreens(t *testing.T) {
	dev := &recordingDevice{}
	initial := config.DeviceConfig{ID: "living_room", Address: "192.168.1.46"}
	opts := Options{
		Devices: []config.DeviceConfig{initial},
		Connect: func(config.DeviceConfig) (device.Device, error) { return dev, nil },
		Initial: &initial,
	}

	var m tea.Model = newModel(opts)
	assert.Equal(t, screenRemoteControl, m.(model).currentScreen)

	m, _ = m.Update(runes("p"))
	assert.Len(t, dev.requests, 1)

	m, _ = m.Update(runes("q"))
	assert.Equal(t, screenDeviceSetup, m.(model).currentScreen)

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, m.(model).quitting)
	assert.NotNil(t, cmd)
}
