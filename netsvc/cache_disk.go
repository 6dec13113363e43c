package netsvc

import (
	"crypto/sha256"
	"fmt"
	"net/http"
	"path/filepath"
	"sort"
	"strings"
)

// DiskCache ties BlockFile storage to the IndexDatabase key-value index:
// a directory of "blocks/N.bin" files plus a separate embedded
// key-value index.
type DiskCache struct {
	blocks BlockFile
	index  *IndexDatabase
}

// NewDiskCache opens (or creates) a disk cache rooted at dir, with block
// files under dir/resources/blocks and the index under dir/resources/index.
func NewDiskCache(dir string) (*DiskCache, error) {
	index, err := OpenIndexDatabase(filepath.Join(dir, "resources", "index"))
	if err != nil {
		return nil, err
	}
	return &DiskCache{
		blocks: BlockFile{Dir: filepath.Join(dir, "resources", "blocks")},
		index:  index,
	}, nil
}

// Close releases the cache's index database.
func (c *DiskCache) Close() error { return c.index.Close() }

// HashURL computes the SHA-256 cache key for url under the given Vary
// string.
func HashURL(url, vary string) [32]byte {
	h := sha256.New()
	h.Write([]byte(url))
	h.Write([]byte(vary))
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// ResolveVary builds the sorted "name:value" Vary string for headers
// against the response's Vary header. "Vary: *" disables caching
// entirely.
func ResolveVary(responseVary string, requestHeaders http.Header) (string, error) {
	if strings.EqualFold(strings.TrimSpace(responseVary), "*") {
		return "", fmt.Errorf("netsvc: Vary: * prevents caching")
	}
	if responseVary == "" {
		return "", nil
	}

	var parts []string
	for _, name := range strings.Split(responseVary, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		value := requestHeaders.Get(name)
		parts = append(parts, strings.ToLower(name)+":"+value)
	}
	sort.Strings(parts)
	return strings.Join(parts, ","), nil
}

// Get reads the cached entry for urlHash, returning (nil, nil) on a miss.
func (c *DiskCache) Get(urlHash [32]byte) ([]byte, *CacheHeader, error) {
	loc, ok, err := c.index.Get(urlHash)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, nil
	}

	header, data, err := c.blocks.Read(loc.FileID, loc.Offset, loc.HeaderSize, loc.ContentSize)
	if err != nil {
		return nil, nil, err
	}
	if header.Dead {
		return nil, nil, nil
	}
	return data, header, nil
}

// Put stores value keyed by urlHash, with cacheControl/responseHeaders/
// freshness recorded for later staleness checks. "no-store" responses
// must be rejected by the caller before calling Put — Put itself
// performs the write unconditionally.
func (c *DiskCache) Put(urlHash [32]byte, value []byte, varyKey, responseHeaders, cacheControl string, freshness int64) error {
	header := &CacheHeader{
		Magic:           blockMagic,
		Version:         blockVersion,
		URLHash:         urlHash,
		VaryKey:         varyKey,
		ResponseHeaders: responseHeaders,
		CacheControl:    cacheControl,
		Freshness:       freshness,
	}

	fileID, offset, headerSize, contentSize, err := c.blocks.Write(value, header)
	if err != nil {
		return err
	}

	return c.index.Put(urlHash, IndexLocation{
		FileID:      fileID,
		Offset:      offset,
		HeaderSize:  headerSize,
		ContentSize: contentSize,
	})
}

// Remove deletes the entry for urlHash from both the block store (dead
// flag) and the index.
func (c *DiskCache) Remove(urlHash [32]byte) (bool, error) {
	loc, ok, err := c.index.Get(urlHash)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	if err := c.blocks.Delete(loc.FileID, loc.Offset, loc.HeaderSize); err != nil {
		return false, err
	}
	if err := c.index.Delete(urlHash); err != nil {
		return false, err
	}
	return true, nil
}

// Compact rewrites block files that have crossed the fullness/dead-weight
// thresholds, updates the index for any entries that moved, and removes
// index rows for entries dropped as dead.
func (c *DiskCache) Compact() error {
	updates, deleted, err := c.blocks.Compact()
	if err != nil {
		return err
	}
	if len(updates) > 0 {
		if err := c.index.ApplyCompaction(updates); err != nil {
			return err
		}
	}
	for _, hash := range deleted {
		if err := c.index.Delete(hash); err != nil {
			return err
		}
	}
	return nil
}
