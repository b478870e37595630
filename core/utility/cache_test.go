package utility

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCacheSetGet(t *testing.T) {
	cache := NewCache(time.Minute, time.Minute)
	defer cache.Stop()

	cache.Set("key", "value")
	got, ok := cache.Get("key")
	assert.True(t, ok)
	assert.Equal(t, "value", got)

	_, ok = cache.Get("không tồn tại")
	assert.False(t, ok)
}

func TestCacheExpiry(t *testing.T) {
	cache := NewCache(10*time.Millisecond, time.Minute)
	defer cache.Stop()

	cache.Set("key", "value")
	time.Sleep(20 * time.Millisecond)

	_, ok := cache.Get("key")
	assert.False(t, ok, "entry hết hạn không được trả về")
}

func TestCacheDelete(t *testing.T) {
	cache := NewCache(time.Minute, time.Minute)
	defer cache.Stop()

	cache.Set("key", 1)
	cache.Delete("key")

	_, ok := cache.Get("key")
	assert.False(t, ok)
}
