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
	tea "github.com/charmbracelet/bubbletea"
	"metzctl/internal/config"
)

// Options configures the interactive remote
type Options struct {
	Devices []config.DeviceConfig
	Connect Connector
	Debug   bool

	// Initial skips the setup screen when set
	Initial *config.DeviceConfig
}

// Main TUI model that routes between screens
type model struct {
	currentScreen screen
	quitting      bool
	debug         bool

	setupModel  SetupModel
	remoteModel RemoteModel
}

func newModel(opts Options) model {
	m := model{
		currentScreen: screenDeviceSetup,
		debug:         opts.Debug,
		setupModel:    NewSetupModel(opts.Devices, opts.Connect),
	}

	if opts.Initial != nil {
		dev, err := opts.Connect(*opts.Initial)
		if err != nil {
			m.setupModel.connectionError = err.Error()
			return m
		}
		m.remoteModel = NewRemoteModel(dev, dev.GetDeviceInfo(), opts.Debug)
		m.currentScreen = screenRemoteControl
	}
	return m
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.remoteModel, _ = m.remoteModel.Update(msg)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "q":
			if m.currentScreen == screenRemoteControl {
				m.currentScreen = screenDeviceSetup
				m.setupModel = NewSetupModel(m.setupModel.devices, m.setupModel.connect)
				return m, nil
			}

		case "esc":
			if m.currentScreen == screenDeviceSetup {
				m.quitting = true
				return m, tea.Quit
			}
		}

		switch m.currentScreen {
		case screenDeviceSetup:
			var cmd tea.Cmd
			m.setupModel, cmd = m.setupModel.Update(msg)
			if m.setupModel.IsConnected() {
				m.remoteModel = NewRemoteModel(m.setupModel.GetDevice(), m.setupModel.GetDeviceInfo(), m.debug)
				m.currentScreen = screenRemoteControl
			}
			return m, cmd

		case screenRemoteControl:
			var cmd tea.Cmd
			m.remoteModel, cmd = m.remoteModel.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m model) View() string {
	if m.quitting {
		return successStyle.Render("Thanks for using metzctl!") + "\n"
	}

	switch m.currentScreen {
	case screenRemoteControl:
		return m.remoteModel.View()
	default:
		return m.setupModel.View()
	}
}

// StartTUI runs the interactive remote until the user quits
func StartTUI(opts Options) error {
	p := tea.NewProgram(
		newModel(opts),
		tea.WithAltScreen(),
	)

	defer func() {
		if r := recover(); r != nil {
			p.Kill()
		}
	}()

	_, err := p.Run()
	return err
}
