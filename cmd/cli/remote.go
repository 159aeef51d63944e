// Copyright 2025 Arion Yau
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"metzctl/internal/device"
	"metzctl/internal/logger"
)

// maxChannelDigits bounds direct channel entry
const maxChannelDigits = 4

// LogEntry represents a log entry for display
type LogEntry struct {
	Timestamp time.Time
	Level     string // INF, ERR
	Message   string
}

// RemoteModel handles the remote control screen
type RemoteModel struct {
	device     device.Device
	deviceInfo device.DeviceInfo

	selectedButton  remoteButton
	lastButtonPress time.Time

	// Digits typed for direct channel entry
	channelBuffer string

	lastResponse *device.ActionResponse

	debugMode bool
	width     int

	logBuffer   []LogEntry
	maxLogLines int
}

// NewRemoteModel creates a new remote control screen model
func NewRemoteModel(dev device.Device, info device.DeviceInfo, debug bool) RemoteModel {
	return RemoteModel{
		device:      dev,
		deviceInfo:  info,
		debugMode:   debug,
		maxLogLines: 3,
	}
}

// Update handles remote control screen messages
func (m RemoteModel) Update(msg tea.Msg) (RemoteModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "p":
			return m.handleRemoteButton(buttonPower)
		case "w":
			return m.handleRemoteButton(buttonPowerOn)
		case "+", "=", "right":
			return m.handleRemoteButton(buttonVolumeUp)
		case "-", "left":
			return m.handleRemoteButton(buttonVolumeDown)
		case "m":
			return m.handleRemoteButton(buttonMute)
		case "u":
			return m.handleRemoteButton(buttonUnmute)
		case "up", "pgup":
			return m.handleRemoteButton(buttonChannelUp)
		case "down", "pgdown":
			return m.handleRemoteButton(buttonChannelDown)
		case "enter":
			if m.channelBuffer != "" {
				return m.handleRemoteButton(buttonChannel)
			}
			return m.handleRemoteButton(buttonOK)
		case "backspace":
			if n := len(m.channelBuffer); n > 0 {
				m.channelBuffer = m.channelBuffer[:n-1]
			}
			return m, nil
		case "esc":
			m.channelBuffer = ""
			return m, nil
		case "0", "1", "2", "3", "4", "5", "6", "7", "8", "9":
			if len(m.channelBuffer) < maxChannelDigits {
				m.channelBuffer += msg.String()
			}
			return m, nil
		}
	}

	return m, nil
}

// View renders the remote control screen
func (m RemoteModel) View() string {
	var sections []string

	sections = append(sections, titleStyle.Render("metzctl - TV Remote Control"))
	sections = append(sections, successStyle.Render(fmt.Sprintf("📺 %s (%s)", m.deviceInfo.ID, m.deviceInfo.Address)))
	sections = append(sections, m.renderLayout())

	if m.lastResponse != nil {
		sections = append(sections, m.renderStatusBar())
	}

	if m.debugMode {
		if logDisplay := m.renderLogDisplay(); logDisplay != "" {
			sections = append(sections, logDisplay)
		}
	}

	sections = append(sections, m.renderHelpText())

	return strings.Join(sections, "\n\n")
}

func (m RemoteModel) renderLayout() string {
	getButtonStyle := func(btn remoteButton) lipgloss.Style {
		if m.selectedButton == btn && time.Since(m.lastButtonPress) < 200*time.Millisecond {
			return remoteButtonActiveStyle
		}
		return remoteButtonStyle
	}

	powerColumn := lipgloss.JoinVertical(lipgloss.Center,
		lipgloss.NewStyle().Foreground(colorOK).Render("Power:"),
		getButtonStyle(buttonPower).Render(" PWR  "),
		getButtonStyle(buttonPowerOn).Render(" WAKE "),
		getButtonStyle(buttonOK).Render("  OK  "),
	)

	volumeColumn := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Foreground(lipgloss.Color("#8BE9FD")).Render("Volume & Channel:"),
		lipgloss.JoinHorizontal(lipgloss.Left,
			getButtonStyle(buttonVolumeUp).Render("VOL + "),
			"  ",
			getButtonStyle(buttonChannelUp).Render("CH +  ")),
		lipgloss.JoinHorizontal(lipgloss.Left,
			getButtonStyle(buttonVolumeDown).Render("VOL - "),
			"  ",
			getButtonStyle(buttonChannelDown).Render("CH -  ")),
		lipgloss.JoinHorizontal(lipgloss.Left,
			getButtonStyle(buttonMute).Render("MUTE  "),
			"  ",
			getButtonStyle(buttonUnmute).Render("UNMUTE")),
	)

	entry := m.channelBuffer
	if entry == "" {
		entry = "-"
	}
	channelColumn := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Foreground(lipgloss.Color("#BD93F9")).Render("Channel:"),
		getButtonStyle(buttonChannel).Render(fmt.Sprintf("%-6s", entry)),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		powerColumn,
		strings.Repeat(" ", 6),
		volumeColumn,
		strings.Repeat(" ", 6),
		channelColumn,
	)
}

// renderStatusBar creates the status bar with last action result
func (m RemoteModel) renderStatusBar() string {
	if m.lastResponse.Success {
		return successStyle.Render("✓ Action successful")
	}
	return errorStyle.Render("✗ " + m.lastResponse.Error)
}

func (m RemoteModel) renderLogDisplay() string {
	if len(m.logBuffer) == 0 {
		return ""
	}

	start := 0
	if len(m.logBuffer) > m.maxLogLines {
		start = len(m.logBuffer) - m.maxLogLines
	}

	lines := []string{lipgloss.NewStyle().Foreground(colorMuted).Render("─── LOGS ───")}
	for _, entry := range m.logBuffer[start:] {
		levelStyle := lipgloss.NewStyle().Foreground(colorOK)
		if entry.Level == "ERR" {
			levelStyle = lipgloss.NewStyle().Foreground(colorFailed)
		}

		line := fmt.Sprintf("%s [%s] %s", entry.Timestamp.Format("15:04:05"), levelStyle.Render(entry.Level), entry.Message)
		if len(line) > 70 {
			line = line[:67] + "..."
		}
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}

func (m *RemoteModel) addLogEntry(level, message string) {
	m.logBuffer = append(m.logBuffer, LogEntry{
		Timestamp: time.Now(),
		Level:     level,
		Message:   message,
	})
	if len(m.logBuffer) > 20 {
		m.logBuffer = m.logBuffer[1:]
	}
}

func (m RemoteModel) renderHelpText() string {
	help := "P: Power • W: Wake • +/-: Volume • ↑/↓: Channel • M/U: Mute/Unmute • 0-9 Enter: Channel"
	if m.width > 100 {
		help += " • Enter: OK • Esc: Clear • q: Back"
	} else {
		help += " • q: Back"
	}
	return "\n" + helpStyle.Render(help)
}

// actionRequest maps a button to the JSON action the device understands
func (m RemoteModel) actionRequest(button remoteButton) (device.ActionRequest, bool) {
	remote := func(action device.RemoteAction) device.ActionRequest {
		return device.ActionRequest{Type: device.ActionTypeRemote, Action: string(action)}
	}

	switch button {
	case buttonPower:
		return remote(device.RemoteActionPower), true
	case buttonPowerOn:
		return device.ActionRequest{Type: device.ActionTypePower, Action: string(device.PowerActionOn)}, true
	case buttonVolumeUp:
		return remote(device.RemoteActionVolumeUp), true
	case buttonVolumeDown:
		return remote(device.RemoteActionVolumeDown), true
	case buttonMute:
		return remote(device.RemoteActionMute), true
	case buttonUnmute:
		return remote(device.RemoteActionUnmute), true
	case buttonChannelUp:
		return remote(device.RemoteActionChannelUp), true
	case buttonChannelDown:
		return remote(device.RemoteActionChannelDown), true
	case buttonOK:
		return remote(device.RemoteActionOK), true
	case buttonChannel:
		number, err := strconv.Atoi(m.channelBuffer)
		if err != nil {
			return device.ActionRequest{}, false
		}
		request := remote(device.RemoteActionChannel)
		request.Parameters = map[string]interface{}{"number": number}
		return request, true
	}
	return device.ActionRequest{}, false
}

// handleRemoteButton executes a remote control action
func (m RemoteModel) handleRemoteButton(button remoteButton) (RemoteModel, tea.Cmd) {
	if m.device == nil {
		return m, nil
	}

	request, ok := m.actionRequest(button)
	if !ok {
		return m, nil
	}
	m.channelBuffer = ""

	actionJSON, err := json.Marshal(request)
	if err != nil {
		m.lastResponse = &device.ActionResponse{Success: false, Error: err.Error()}
		return m, nil
	}

	response, err := m.device.Process(actionJSON)
	if err != nil {
		response = &device.ActionResponse{Success: false, Error: err.Error()}
	}

	m.lastResponse = response
	m.selectedButton = button
	m.lastButtonPress = time.Now()

	if m.debugMode {
		if response.Success {
			m.addLogEntry("INF", fmt.Sprintf("%s sent", request.Action))
		} else {
			m.addLogEntry("ERR", fmt.Sprintf("%s failed: %s", request.Action, response.Error))
		}
	}

	log := logger.New()
	log.Info().
		Str("action", string(actionJSON)).
		Bool("success", response.Success).
		Msg("Remote button pressed")

	return m, nil
}
