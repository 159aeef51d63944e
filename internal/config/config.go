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

package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Config represents the metzctl configuration file
type Config struct {
	Devices []DeviceConfig `yaml:"devices"`
	HTTP    HTTPConfig     `yaml:"http"`
	MQTT    MQTTConfig     `yaml:"mqtt"`
}

// DeviceConfig describes one television
type DeviceConfig struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name,omitempty"`
	Address   string `yaml:"address"`
	MAC       string `yaml:"mac,omitempty"`       // skips the ARP lookup for power on
	Broadcast string `yaml:"broadcast,omitempty"` // Wake-on-LAN destination, defaults to 255.255.255.255
	WOLPort   int    `yaml:"wol_port,omitempty"`
}

// HTTPConfig contains settings of the HTTP bridge
type HTTPConfig struct {
	Listen string `yaml:"listen"`
}

// MQTTConfig contains settings of the MQTT bridge
type MQTTConfig struct {
	Broker      string `yaml:"broker"`
	Port        int    `yaml:"port"`
	Username    string `yaml:"username,omitempty"`
	Password    string `yaml:"password,omitempty"`
	ClientID    string `yaml:"client_id"`
	TopicPrefix string `yaml:"topic_prefix"`
}

// DefaultPath returns ~/.config/metzctl/config.yaml
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "metzctl.yaml"
	}
	return filepath.Join(dir, "metzctl", "config.yaml")
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.HTTP.Listen == "" {
		c.HTTP.Listen = ":8080"
	}
	if c.MQTT.Port == 0 {
		c.MQTT.Port = 1883
	}
	if c.MQTT.ClientID == "" {
		c.MQTT.ClientID = "metzctl"
	}
	if c.MQTT.TopicPrefix == "" {
		c.MQTT.TopicPrefix = "metzctl"
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	deviceIDs := make(map[string]bool)
	for i, device := range c.Devices {
		if device.ID == "" {
			return fmt.Errorf("devices[%d].id is required", i)
		}
		if deviceIDs[device.ID] {
			return fmt.Errorf("duplicate device ID: %s", device.ID)
		}
		deviceIDs[device.ID] = true

		if device.Address == "" {
			return fmt.Errorf("devices[%d].address is required", i)
		}
		if device.MAC != "" {
			if _, err := net.ParseMAC(device.MAC); err != nil {
				return fmt.Errorf("devices[%d].mac is invalid: %w", i, err)
			}
		}
		if device.Broadcast != "" && net.ParseIP(device.Broadcast) == nil {
			return fmt.Errorf("devices[%d].broadcast must be an ip address", i)
		}
		if device.WOLPort < 0 || device.WOLPort > 65535 {
			return fmt.Errorf("devices[%d].wol_port is out of range", i)
		}
	}

	return nil
}

// GetDevice returns a device configuration by ID
func (c *Config) GetDevice(id string) (*DeviceConfig, error) {
	for i := range c.Devices {
		if c.Devices[i].ID == id {
			return &c.Devices[i], nil
		}
	}
	return nil, fmt.Errorf("device not found: %s", id)
}

// SaveConfig saves configuration to a YAML file, creating its directory
func SaveConfig(config *Config, path string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// NewDefaultConfig creates a configuration template
func NewDefaultConfig() *Config {
	config := &Config{
		Devices: []DeviceConfig{
			{
				ID:      "living_room_tv",
				Name:    "Living room",
				Address: "192.168.1.46",
			},
		},
	}
	config.applyDefaults()
	return config
}

// NewDeviceID generates an ID for a device added without one
func NewDeviceID() string {
	return "tv-" + uuid.New().String()[:8]
}
