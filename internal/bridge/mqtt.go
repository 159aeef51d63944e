package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"
	"metzctl/internal/config"
	"metzctl/internal/device"
	"metzctl/internal/hub"
	"metzctl/internal/logger"
)

// Result is published after every command message
type Result struct {
	DeviceID string                 `json:"device_id"`
	Nonce    string                 `json:"nonce,omitempty"`
	Response *device.ActionResponse `json:"response"`
}

// MQTTBridge executes action requests received on {prefix}/command/{device_id}
// and publishes the outcome on {prefix}/result/{device_id}
type MQTTBridge struct {
	client  mqtt.Client
	devices *hub.DeviceManager
	config  config.MQTTConfig
	logger  zerolog.Logger
}

// NewMQTTBridge creates the bridge; Start connects it
func NewMQTTBridge(cfg config.MQTTConfig, devices *hub.DeviceManager) *MQTTBridge {
	b := &MQTTBridge{
		devices: devices,
		config:  cfg,
		logger:  logger.With("mqtt"),
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.Broker, cfg.Port))
	opts.SetClientID(cfg.ClientID)
	opts.SetUsername(cfg.Username)
	opts.SetPassword(cfg.Password)
	opts.SetKeepAlive(30 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(10 * time.Second)

	opts.SetConnectionLostHandler(func(client mqtt.Client, err error) {
		b.logger.Warn().Err(err).Msg("MQTT connection lost")
	})

	// Subscribing on every connect restores the subscription after a reconnect
	opts.SetOnConnectHandler(func(client mqtt.Client) {
		b.logger.Info().Str("broker", cfg.Broker).Msg("MQTT connected")
		if err := b.subscribe(client); err != nil {
			b.logger.Error().Err(err).Msg("Failed to subscribe to command topic")
		}
	})

	b.client = mqtt.NewClient(opts)
	return b
}

// CommandTopic is the subscription filter
func (b *MQTTBridge) CommandTopic() string {
	return b.config.TopicPrefix + "/command/+"
}

// ResultTopic is where outcomes for a device are published
func (b *MQTTBridge) ResultTopic(deviceID string) string {
	return b.config.TopicPrefix + "/result/" + deviceID
}

// Start connects and processes commands until ctx is done
func (b *MQTTBridge) Start(ctx context.Context) error {
	if token := b.client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	<-ctx.Done()
	b.client.Disconnect(250)
	b.logger.Info().Msg("MQTT bridge stopped")
	return nil
}

func (b *MQTTBridge) subscribe(client mqtt.Client) error {
	token := client.Subscribe(b.CommandTopic(), 1, func(client mqtt.Client, msg mqtt.Message) {
		result, err := b.HandleMessage(msg.Topic(), msg.Payload())
		if err != nil {
			b.logger.Warn().Err(err).Str("topic", msg.Topic()).Msg("Dropping command message")
			return
		}
		b.publish(client, result)
	})

	if token.Wait() && token.Error() != nil {
		return token.Error()
	}

	b.logger.Info().Str("topic", b.CommandTopic()).Msg("Subscribed to command topic")
	return nil
}

// HandleMessage executes one command message and returns the result to publish
func (b *MQTTBridge) HandleMessage(topic string, payload []byte) (*Result, error) {
	deviceID, err := b.deviceFromTopic(topic)
	if err != nil {
		return nil, err
	}

	nonce := nonceOf(payload)
	response, err := b.devices.ProcessDeviceAction(deviceID, nonce, payload)
	if err != nil {
		return nil, err
	}

	return &Result{DeviceID: deviceID, Nonce: nonce, Response: response}, nil
}

func (b *MQTTBridge) deviceFromTopic(topic string) (string, error) {
	prefix := b.config.TopicPrefix + "/command/"
	if !strings.HasPrefix(topic, prefix) {
		return "", fmt.Errorf("unexpected topic %s", topic)
	}

	deviceID := strings.TrimPrefix(topic, prefix)
	if deviceID == "" || strings.Contains(deviceID, "/") {
		return "", fmt.Errorf("invalid command topic format: %s", topic)
	}
	return deviceID, nil
}

func (b *MQTTBridge) publish(client mqtt.Client, result *Result) {
	payload, err := json.Marshal(result)
	if err != nil {
		b.logger.Error().Err(err).Msg("Failed to marshal result")
		return
	}

	token := client.Publish(b.ResultTopic(result.DeviceID), 1, false, payload)
	if token.Wait() && token.Error() != nil {
		b.logger.Error().Err(token.Error()).Str("device_id", result.DeviceID).Msg("Failed to publish result")
	}
}
