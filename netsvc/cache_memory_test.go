package netsvc

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stringCodec() (func(string) ([]byte, error), func([]byte) (string, error)) {
	encode := func(v string) ([]byte, error) { return []byte(v), nil }
	decode := func(b []byte) (string, error) { return string(b), nil }
	return encode, decode
}

func TestMemoryCacheStoreThenGetHitsInMemory(t *testing.T) {
	encode, decode := stringCodec()
	cache := NewMemoryCache[string](nil, encode, decode)

	require.NoError(t, cache.Store("key", "value", http.Header{}, "", "", 0))
	assert.True(t, cache.Contains("key"))

	entry, err := cache.Get("key", http.Header{}, "")
	require.NoError(t, err)
	assert.Equal(t, Loaded, entry.State)
	assert.Equal(t, "value", entry.Value)
}

func TestMemoryCacheMissIsPendingNotError(t *testing.T) {
	encode, decode := stringCodec()
	cache := NewMemoryCache[string](nil, encode, decode)

	entry, err := cache.Get("missing", http.Header{}, "")
	require.NoError(t, err)
	assert.Equal(t, Pending, entry.State)
}

func TestMemoryCacheRejectsDoubleStore(t *testing.T) {
	encode, decode := stringCodec()
	cache := NewMemoryCache[string](nil, encode, decode)
	require.NoError(t, cache.Store("key", "first", http.Header{}, "", "", 0))

	err := cache.Store("key", "second", http.Header{}, "", "", 0)
	assert.Error(t, err)
}

func TestMemoryCacheNoStoreDirectivePreventsDiskWrite(t *testing.T) {
	encode, decode := stringCodec()
	disk := newTestDiskCache(t)
	cache := NewMemoryCache[string](disk, encode, decode)

	err := cache.Store("https://example.com/x", "value", http.Header{}, "", "no-store", 0)
	assert.Error(t, err)
	assert.False(t, cache.Contains("https://example.com/x"))
}

func TestMemoryCacheFallsThroughToDisk(t *testing.T) {
	encode, decode := stringCodec()
	disk := newTestDiskCache(t)

	writer := NewMemoryCache[string](disk, encode, decode)
	require.NoError(t, writer.Store("https://example.com/x", "disk value", http.Header{}, "", "", 0))

	reader := NewMemoryCache[string](disk, encode, decode)
	assert.False(t, reader.Contains("https://example.com/x"))

	entry, err := reader.Get("https://example.com/x", http.Header{}, "")
	require.NoError(t, err)
	assert.Equal(t, Loaded, entry.State)
	assert.Equal(t, "disk value", entry.Value)
}

func TestMemoryCacheMarkPendingThenMarkFailed(t *testing.T) {
	encode, decode := stringCodec()
	cache := NewMemoryCache[string](nil, encode, decode)

	assert.True(t, cache.MarkPending("key"))
	assert.False(t, cache.MarkPending("key"))

	cache.MarkFailed("key")
	entry, err := cache.Get("key", http.Header{}, "")
	require.NoError(t, err)
	assert.Equal(t, Failed, entry.State)
}

func TestMemoryCacheEvictRemovesFromBothLayers(t *testing.T) {
	encode, decode := stringCodec()
	disk := newTestDiskCache(t)
	cache := NewMemoryCache[string](disk, encode, decode)
	require.NoError(t, cache.Store("https://example.com/x", "value", http.Header{}, "", "", 0))

	removed, err := cache.Evict("https://example.com/x", http.Header{}, "")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.False(t, cache.Contains("https://example.com/x"))

	fresh := NewMemoryCache[string](disk, encode, decode)
	entry, err := fresh.Get("https://example.com/x", http.Header{}, "")
	require.NoError(t, err)
	assert.Equal(t, Pending, entry.State)
}
