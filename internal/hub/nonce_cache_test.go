package hub

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"metzctl/internal/device"
)

func TestNonceCacheExpiration(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	nc := NewNonceCache(10, time.Minute)
	nc.now = func() time.Time { return now }

	nc.StoreResponse("tv", "n1", &device.ActionResponse{Success: true})

	now = now.Add(30 * time.Second)
	_, found := nc.CheckNonce("tv", "n1")
	assert.True(t, found)

	now = now.Add(time.Minute)
	_, found = nc.CheckNonce("tv", "n1")
	assert.False(t, found)
	assert.Equal(t, 0, nc.Len("tv"))
}

func TestNonceCacheDefaults(t *testing.T) {
	nc := NewNonceCache(0, 0)
	assert.Equal(t, 50, nc.maxSize)
	assert.Equal(t, 10*time.Minute, nc.expiration)
}
