package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"metzctl/internal/config"
	"metzctl/internal/device"
	"metzctl/internal/logger"
)

// Setup screen input fields
type setupField int

const (
	setupFieldDeviceList setupField = iota
	setupFieldHostAddress
)

// SetupModel lets the user pick a configured television or type an address
type SetupModel struct {
	focusedField setupField

	devices        []config.DeviceConfig
	selectedDevice int

	hostAddress       string
	hostAddressCursor int

	connectionError string
	connect         Connector

	// Connected device (when setup complete)
	device     device.Device
	deviceInfo device.DeviceInfo
}

// NewSetupModel creates the setup screen for the given televisions
func NewSetupModel(devices []config.DeviceConfig, connect Connector) SetupModel {
	m := SetupModel{
		devices: devices,
		connect: connect,
	}
	if len(devices) == 0 {
		m.focusedField = setupFieldHostAddress
	}
	return m
}

// Update handles setup screen messages
func (m SetupModel) Update(msg tea.Msg) (SetupModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "tab", "shift+tab":
		if len(m.devices) > 0 {
			if m.focusedField == setupFieldDeviceList {
				m.focusedField = setupFieldHostAddress
			} else {
				m.focusedField = setupFieldDeviceList
			}
		}
		return m, nil

	case "enter":
		return m.handleConnect(), nil

	case "up":
		if m.focusedField == setupFieldDeviceList && m.selectedDevice > 0 {
			m.selectedDevice--
		}
		return m, nil

	case "down":
		if m.focusedField == setupFieldDeviceList && m.selectedDevice < len(m.devices)-1 {
			m.selectedDevice++
		}
		return m, nil
	}

	if m.focusedField == setupFieldHostAddress {
		return m.handleTextInput(key), nil
	}
	return m, nil
}

func (m SetupModel) handleTextInput(key tea.KeyMsg) SetupModel {
	switch key.Type {
	case tea.KeyLeft:
		if m.hostAddressCursor > 0 {
			m.hostAddressCursor--
		}
	case tea.KeyRight:
		if m.hostAddressCursor < len(m.hostAddress) {
			m.hostAddressCursor++
		}
	case tea.KeyBackspace:
		if m.hostAddressCursor > 0 {
			m.hostAddress = deleteCharAt(m.hostAddress, m.hostAddressCursor-1)
			m.hostAddressCursor--
		}
	case tea.KeyDelete:
		m.hostAddress = deleteCharAt(m.hostAddress, m.hostAddressCursor)
	case tea.KeyRunes:
		text := string(key.Runes)
		m.hostAddress = insertText(m.hostAddress, m.hostAddressCursor, text)
		m.hostAddressCursor += len(text)
	}
	m.connectionError = ""
	return m
}

func (m SetupModel) handleConnect() SetupModel {
	var dev config.DeviceConfig
	if m.focusedField == setupFieldDeviceList && len(m.devices) > 0 {
		dev = m.devices[m.selectedDevice]
	} else {
		address := strings.TrimSpace(m.hostAddress)
		if address == "" {
			m.connectionError = "Host address is required"
			return m
		}
		dev = config.DeviceConfig{ID: address, Name: address, Address: address}
	}

	connected, err := m.connect(dev)
	if err != nil {
		m.connectionError = err.Error()
		return m
	}

	m.device = connected
	m.deviceInfo = connected.GetDeviceInfo()
	m.connectionError = ""

	log := logger.New()
	log.Info().
		Str("device_id", m.deviceInfo.ID).
		Str("address", m.deviceInfo.Address).
		Msg("Television selected")

	return m
}

// View renders the setup screen
func (m SetupModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("metzctl - Select Television"))
	b.WriteString("\n\n")

	if len(m.devices) > 0 {
		b.WriteString(subtitleStyle.Render("Configured:"))
		b.WriteString("\n")
		for i, dev := range m.devices {
			cursor := "  "
			style := lipgloss.NewStyle()
			if i == m.selectedDevice {
				cursor = "> "
				if m.focusedField == setupFieldDeviceList {
					style = style.Foreground(lipgloss.Color("#FF79C6"))
				}
			}
			b.WriteString(style.Render(fmt.Sprintf("%s%s (%s)", cursor, dev.Name, dev.Address)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(subtitleStyle.Render("Address:"))
	b.WriteString("\n")
	focused := m.focusedField == setupFieldHostAddress
	style := inputStyle
	if focused {
		style = inputFocusedStyle
	}
	b.WriteString(style.Render(renderTextWithCursor(m.hostAddress, m.hostAddressCursor, focused)))
	b.WriteString("\n")

	if m.connectionError != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("✗ " + m.connectionError))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("Tab: Switch field • ↑/↓: Select • Enter: Connect • Ctrl+C: Quit"))
	return b.String()
}

// IsConnected reports whether a television was selected
func (m SetupModel) IsConnected() bool {
	return m.device != nil
}

// GetDevice returns the selected device
func (m SetupModel) GetDevice() device.Device {
	return m.device
}

// GetDeviceInfo returns information about the selected device
func (m SetupModel) GetDeviceInfo() device.DeviceInfo {
	return m.deviceInfo
}
