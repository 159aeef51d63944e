package cli

import (
	"github.com/charmbracelet/lipgloss"
	"metzctl/internal/config"
	"metzctl/internal/device"
)

// Screen types
type screen int

const (
	screenDeviceSetup screen = iota
	screenRemoteControl
)

// Connector turns a configured television into a device the remote screen can drive
type Connector func(dev config.DeviceConfig) (device.Device, error)

const (
	colorText    = lipgloss.Color("#FAFAFA")
	colorAccent  = lipgloss.Color("#7D56F4")
	colorPressed = lipgloss.Color("#FF79C6")
	colorKey     = lipgloss.Color("#44475A")
	colorOK      = lipgloss.Color("#50FA7B")
	colorFailed  = lipgloss.Color("#FF5555")
	colorMuted   = lipgloss.Color("#6272A4")
)

var (
	titleStyle    = lipgloss.NewStyle().Foreground(colorText).Background(colorAccent).Padding(0, 1).Bold(true)
	subtitleStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)

	inputStyle        = fieldStyle(colorAccent)
	inputFocusedStyle = fieldStyle(colorPressed)

	remoteButtonStyle       = keyStyle(colorKey)
	remoteButtonActiveStyle = keyStyle(colorPressed)

	errorStyle   = lipgloss.NewStyle().Foreground(colorFailed).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(colorOK).Bold(true)
	helpStyle    = lipgloss.NewStyle().Foreground(colorMuted)
)

func fieldStyle(border lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(border).Padding(0, 1).Width(30)
}

func keyStyle(background lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).Margin(0, 1).Background(background).Foreground(colorText)
}

// Remote button types
type remoteButton int

const (
	buttonNone remoteButton = iota
	buttonPower
	buttonPowerOn
	buttonVolumeUp
	buttonVolumeDown
	buttonMute
	buttonUnmute
	buttonChannelUp
	buttonChannelDown
	buttonOK
	buttonChannel
)

// insertText inserts text at the specified position in a string
func insertText(text string, pos int, insert string) string {
	if pos < 0 {
		pos = 0
	}
	if pos > len(text) {
		pos = len(text)
	}
	return text[:pos] + insert + text[pos:]
}

// deleteCharAt deletes the character at the specified position
func deleteCharAt(text string, pos int) string {
	if pos < 0 || pos >= len(text) {
		return text
	}
	return text[:pos] + text[pos+1:]
}

// renderTextWithCursor renders text with a cursor indicator at the specified position
func renderTextWithCursor(text string, cursorPos int, showCursor bool) string {
	if !showCursor || cursorPos < 0 {
		return text
	}
	if cursorPos >= len(text) {
		return text + "│"
	}

	highlighted := lipgloss.NewStyle().
		Background(colorPressed).
		Foreground(colorText).
		Render(string(text[cursorPos]))

	return text[:cursorPos] + highlighted + text[cursorPos+1:]
}
