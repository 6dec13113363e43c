package netsvc

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDiskCache(t *testing.T) *DiskCache {
	t.Helper()
	c, err := NewDiskCache(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestDiskCacheRoundTrip(t *testing.T) {
	// A Put followed by a Get for the same key returns the stored bytes
	// unchanged.
	c := newTestDiskCache(t)
	hash := HashURL("https://example.com/a.css", "")

	require.NoError(t, c.Put(hash, []byte("body { color: red }"), "", "", "", 0))

	data, header, err := c.Get(hash)
	require.NoError(t, err)
	require.NotNil(t, header)
	assert.Equal(t, "body { color: red }", string(data))
}

func TestDiskCacheMissReturnsNilWithoutError(t *testing.T) {
	c := newTestDiskCache(t)
	hash := HashURL("https://example.com/missing.css", "")

	data, header, err := c.Get(hash)
	require.NoError(t, err)
	assert.Nil(t, data)
	assert.Nil(t, header)
}

func TestDiskCacheVarySeparatesEntries(t *testing.T) {
	// Two responses for the same URL differing by Vary-selected request
	// headers occupy distinct cache entries.
	c := newTestDiskCache(t)

	enHash := HashURL("https://example.com/page", "accept-language:en")
	frHash := HashURL("https://example.com/page", "accept-language:fr")

	require.NoError(t, c.Put(enHash, []byte("hello"), "accept-language:en", "", "", 0))
	require.NoError(t, c.Put(frHash, []byte("bonjour"), "accept-language:fr", "", "", 0))

	enData, _, err := c.Get(enHash)
	require.NoError(t, err)
	frData, _, err := c.Get(frHash)
	require.NoError(t, err)

	assert.Equal(t, "hello", string(enData))
	assert.Equal(t, "bonjour", string(frData))
}

func TestResolveVaryStarPreventsCaching(t *testing.T) {
	_, err := ResolveVary("*", http.Header{})
	assert.Error(t, err)
}

func TestResolveVaryBuildsSortedHeaderKey(t *testing.T) {
	headers := http.Header{}
	headers.Set("Accept-Language", "en")
	headers.Set("Accept-Encoding", "gzip")

	key, err := ResolveVary("Accept-Language, Accept-Encoding", headers)
	require.NoError(t, err)
	assert.Equal(t, "accept-encoding:gzip,accept-language:en", key)
}

func TestDiskCacheRemoveDeletesEntry(t *testing.T) {
	c := newTestDiskCache(t)
	hash := HashURL("https://example.com/x", "")
	require.NoError(t, c.Put(hash, []byte("data"), "", "", "", 0))

	removed, err := c.Remove(hash)
	require.NoError(t, err)
	assert.True(t, removed)

	data, header, err := c.Get(hash)
	require.NoError(t, err)
	assert.Nil(t, data)
	assert.Nil(t, header)
}

func TestDiskCacheCompactPreservesLiveEntries(t *testing.T) {
	// Compaction never loses a live entry: it is still readable, with the
	// same bytes, after its block file is rewritten. Content sizes are chosen
	// so the single block file crosses both the fullness and dead-weight
	// compaction thresholds (cache_block.go's 80%-full / 50%-dead gates),
	// so this actually exercises BlockFile.Compact's rewrite path rather
	// than a no-op.
	c := newTestDiskCache(t)

	live := HashURL("https://example.com/live", "")
	padding := make([]byte, 150)
	for i := range padding {
		padding[i] = 'x'
	}
	require.NoError(t, c.Put(live, append([]byte("keep me: "), padding...), "", "", "", 0))

	for i := 0; i < 3; i++ {
		hash := HashURL(fmt.Sprintf("https://example.com/dead-%d", i), "")
		require.NoError(t, c.Put(hash, append([]byte("remove me: "), padding...), "", "", "", 0))
		removed, err := c.Remove(hash)
		require.NoError(t, err)
		require.True(t, removed)
	}

	require.NoError(t, c.Compact())

	data, header, err := c.Get(live)
	require.NoError(t, err)
	require.NotNil(t, header)
	assert.Equal(t, "keep me: "+string(padding), string(data))
}
