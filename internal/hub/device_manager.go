package hub

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"metzctl/internal/config"
	"metzctl/internal/device"
	"metzctl/internal/logger"
	"metzctl/internal/metz"
)

// ErrDeviceNotFound is returned for IDs that are not configured
var ErrDeviceNotFound = errors.New("device not found")

// Recorder receives the outcome of every processed action
type Recorder interface {
	RecordCommand(deviceID, action, kind string, duration time.Duration)
}

type managedDevice struct {
	device device.Device
	// serializes commands per set so toggles arrive in request order
	mu sync.Mutex
}

// DeviceManager owns the configured sets and routes actions to them
type DeviceManager struct {
	devices    map[string]*managedDevice
	mutex      sync.RWMutex
	logger     zerolog.Logger
	nonceCache *NonceCache
	recorder   Recorder
}

// NewDeviceManager creates an empty device manager
func NewDeviceManager(nonceCache *NonceCache, recorder Recorder) *DeviceManager {
	return &DeviceManager{
		devices:    make(map[string]*managedDevice),
		logger:     logger.With("hub"),
		nonceCache: nonceCache,
		recorder:   recorder,
	}
}

// Initialize creates a client for every configured device
func (dm *DeviceManager) Initialize(cfg *config.Config, opts ClientOptions) error {
	dm.logger.Info().
		Int("device_count", len(cfg.Devices)).
		Msg("Initializing devices")

	for _, deviceConfig := range cfg.Devices {
		client, err := NewClient(deviceConfig, opts)
		if err != nil {
			dm.logger.Error().
				Str("device_id", deviceConfig.ID).
				Err(err).
				Msg("Failed to create device")
			return fmt.Errorf("failed to create device %s: %w", deviceConfig.ID, err)
		}

		dm.Add(deviceConfig.ID, metz.NewRemote(deviceConfig.ID, client))
		dm.logger.Info().
			Str("device_id", deviceConfig.ID).
			Str("device_address", deviceConfig.Address).
			Msg("Device initialized successfully")
	}

	return nil
}

// Add registers a device under id, replacing any previous one
func (dm *DeviceManager) Add(id string, dev device.Device) {
	dm.mutex.Lock()
	defer dm.mutex.Unlock()
	dm.devices[id] = &managedDevice{device: dev}
}

// GetDevice returns a device by ID
func (dm *DeviceManager) GetDevice(id string) (device.Device, error) {
	managed, err := dm.get(id)
	if err != nil {
		return nil, err
	}
	return managed.device, nil
}

func (dm *DeviceManager) get(id string) (*managedDevice, error) {
	dm.mutex.RLock()
	defer dm.mutex.RUnlock()

	managed, exists := dm.devices[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrDeviceNotFound, id)
	}
	return managed, nil
}

// GetAllDeviceInfo returns information for all devices ordered by ID
func (dm *DeviceManager) GetAllDeviceInfo() []device.DeviceInfo {
	dm.mutex.RLock()
	defer dm.mutex.RUnlock()

	infos := make([]device.DeviceInfo, 0, len(dm.devices))
	for _, managed := range dm.devices {
		infos = append(infos, managed.device.GetDeviceInfo())
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}

// GetDeviceCount returns the number of managed devices
func (dm *DeviceManager) GetDeviceCount() int {
	dm.mutex.RLock()
	defer dm.mutex.RUnlock()
	return len(dm.devices)
}

// ProcessDeviceAction runs an action on a device, one at a time per device. A repeated
// non-empty nonce returns the stored response instead of sending the key again.
func (dm *DeviceManager) ProcessDeviceAction(deviceID, nonce string, actionJSON []byte) (*device.ActionResponse, error) {
	managed, err := dm.get(deviceID)
	if err != nil {
		return nil, err
	}

	managed.mu.Lock()
	defer managed.mu.Unlock()

	if dm.nonceCache != nil {
		if cached, found := dm.nonceCache.CheckNonce(deviceID, nonce); found {
			dm.logger.Info().
				Str("device_id", deviceID).
				Str("nonce", nonce).
				Msg("Returning cached response for duplicate nonce")
			return cached, nil
		}
	}

	dm.logger.Debug().
		Str("device_id", deviceID).
		Bytes("action", actionJSON).
		Msg("Processing device action")

	start := time.Now()
	response, err := managed.device.Process(actionJSON)
	elapsed := time.Since(start)

	if err != nil {
		dm.logger.Error().
			Str("device_id", deviceID).
			Err(err).
			Msg("Device action processing failed")
		return nil, fmt.Errorf("action processing failed: %w", err)
	}

	if dm.recorder != nil {
		dm.recorder.RecordCommand(deviceID, actionName(actionJSON), response.Kind, elapsed)
	}

	event := dm.logger.Info()
	if !response.Success {
		event = dm.logger.Warn().Str("error", response.Error)
	}
	event.
		Str("device_id", deviceID).
		Bool("success", response.Success).
		Dur("duration", elapsed).
		Msg("Device action processed")

	if dm.nonceCache != nil {
		dm.nonceCache.StoreResponse(deviceID, nonce, response)
	}

	return response, nil
}

// actionName returns a bounded label for metrics; free-form input collapses to "other"
func actionName(actionJSON []byte) string {
	request, err := device.ParseActionRequest(actionJSON)
	if err != nil {
		return "invalid"
	}

	if _, known := metz.LookupKey(request.Action); known {
		return request.Action
	}

	switch request.Action {
	case string(device.RemoteActionChannel), string(device.RemoteActionKey), string(device.PowerActionOn):
		return request.Action
	default:
		return "other"
	}
}
