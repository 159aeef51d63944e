package hub

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"metzctl/internal/device"
)

// NonceResponse represents a cached response for a specific nonce
type NonceResponse struct {
	Nonce     string
	Response  *device.ActionResponse
	Timestamp time.Time
}

// NonceCache remembers responses per device so a redelivered request does not press
// a toggle key twice
type NonceCache struct {
	deviceCaches map[string]*lru.Cache[string, *NonceResponse]
	mutex        sync.Mutex
	maxSize      int
	expiration   time.Duration
	now          func() time.Time
}

// NewNonceCache creates a new nonce cache
func NewNonceCache(maxSize int, expiration time.Duration) *NonceCache {
	if maxSize <= 0 {
		maxSize = 50
	}
	if expiration <= 0 {
		expiration = 10 * time.Minute
	}

	return &NonceCache{
		deviceCaches: make(map[string]*lru.Cache[string, *NonceResponse]),
		maxSize:      maxSize,
		expiration:   expiration,
		now:          time.Now,
	}
}

func (nc *NonceCache) getDeviceCache(deviceID string) *lru.Cache[string, *NonceResponse] {
	nc.mutex.Lock()
	defer nc.mutex.Unlock()

	cache, exists := nc.deviceCaches[deviceID]
	if !exists {
		cache, _ = lru.New[string, *NonceResponse](nc.maxSize)
		nc.deviceCaches[deviceID] = cache
	}
	return cache
}

// CheckNonce returns the stored response for a nonce that has been seen and not expired
func (nc *NonceCache) CheckNonce(deviceID, nonce string) (*device.ActionResponse, bool) {
	if nonce == "" {
		return nil, false
	}

	cache := nc.getDeviceCache(deviceID)
	cached, found := cache.Get(nonce)
	if !found {
		return nil, false
	}

	if nc.now().Sub(cached.Timestamp) > nc.expiration {
		cache.Remove(nonce)
		return nil, false
	}
	return cached.Response, true
}

// StoreResponse stores a response for a specific nonce and device
func (nc *NonceCache) StoreResponse(deviceID, nonce string, response *device.ActionResponse) {
	if nonce == "" {
		return
	}

	nc.getDeviceCache(deviceID).Add(nonce, &NonceResponse{
		Nonce:     nonce,
		Response:  response,
		Timestamp: nc.now(),
	})
}

// Len returns the number of cached nonces for a device
func (nc *NonceCache) Len(deviceID string) int {
	nc.mutex.Lock()
	cache, exists := nc.deviceCaches[deviceID]
	nc.mutex.Unlock()

	if !exists {
		return 0
	}
	return cache.Len()
}
