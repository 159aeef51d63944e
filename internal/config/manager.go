package config

import (
	"fmt"
	"os"
)

// Manager handles configuration file operations
type Manager struct {
	path string
}

// NewManager creates a manager for the file at path
func NewManager(path string) *Manager {
	return &Manager{path: path}
}

// Path returns the configuration file path
func (m *Manager) Path() string {
	return m.path
}

// Load loads the configuration. A missing file yields an empty configuration; unlike
// Init it does not write anything.
func (m *Manager) Load() (*Config, error) {
	if _, err := os.Stat(m.path); os.IsNotExist(err) {
		config := &Config{}
		config.applyDefaults()
		return config, nil
	}

	config, err := LoadConfig(m.path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return config, nil
}

// Init writes the default template unless a file already exists
func (m *Manager) Init(force bool) (*Config, error) {
	if _, err := os.Stat(m.path); err == nil && !force {
		return nil, fmt.Errorf("config file already exists: %s", m.path)
	}

	config := NewDefaultConfig()
	if err := m.Save(config); err != nil {
		return nil, err
	}
	return config, nil
}

// Save writes the configuration
func (m *Manager) Save(config *Config) error {
	if err := config.Validate(); err != nil {
		return fmt.Errorf("refusing to save invalid config: %w", err)
	}
	if err := SaveConfig(config, m.path); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// AddDevice adds a new device, generating an ID when none is given
func (m *Manager) AddDevice(device DeviceConfig) (*DeviceConfig, error) {
	config, err := m.Load()
	if err != nil {
		return nil, err
	}

	if device.ID == "" {
		device.ID = NewDeviceID()
	}

	for _, existing := range config.Devices {
		if existing.ID == device.ID {
			return nil, fmt.Errorf("device with ID '%s' already exists", device.ID)
		}
	}

	config.Devices = append(config.Devices, device)
	if err := m.Save(config); err != nil {
		return nil, err
	}

	return &device, nil
}

// RemoveDevice removes a device from the configuration
func (m *Manager) RemoveDevice(deviceID string) error {
	config, err := m.Load()
	if err != nil {
		return err
	}

	for i, device := range config.Devices {
		if device.ID == deviceID {
			config.Devices = append(config.Devices[:i], config.Devices[i+1:]...)
			return m.Save(config)
		}
	}

	return fmt.Errorf("device with ID '%s' not found", deviceID)
}

// GetDevice gets a specific device from the configuration
func (m *Manager) GetDevice(deviceID string) (*DeviceConfig, error) {
	config, err := m.Load()
	if err != nil {
		return nil, err
	}
	return config.GetDevice(deviceID)
}

// ListDevices returns all devices from the configuration
func (m *Manager) ListDevices() ([]DeviceConfig, error) {
	config, err := m.Load()
	if err != nil {
		return nil, err
	}
	return config.Devices, nil
}
