package netsvc

import (
	"encoding/binary"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// IndexLocation is a single index row: where an entry keyed by URL hash
// lives inside the block-file store (file id, offset, and the sizes of
// its header and content).
type IndexLocation struct {
	FileID      uint32
	Offset      uint32
	HeaderSize  uint32
	ContentSize uint32
}

// IndexDatabase is the cache's embedded key-value index, backed by
// Badger. See DESIGN.md for why Badger was chosen for this role.
type IndexDatabase struct {
	db *badger.DB
}

// OpenIndexDatabase opens (creating if absent) the index at dir.
func OpenIndexDatabase(dir string) (*IndexDatabase, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("netsvc: open index database: %w", err)
	}
	return &IndexDatabase{db: db}, nil
}

// Close releases the index database's file handles.
func (d *IndexDatabase) Close() error { return d.db.Close() }

// Put inserts or overwrites the index row for urlHash.
func (d *IndexDatabase) Put(urlHash [32]byte, loc IndexLocation) error {
	return d.db.Update(func(txn *badger.Txn) error {
		return txn.Set(urlHash[:], encodeIndexLocation(loc))
	})
}

// Get looks up the index row for urlHash. ok is false if absent.
func (d *IndexDatabase) Get(urlHash [32]byte) (loc IndexLocation, ok bool, err error) {
	err = d.db.View(func(txn *badger.Txn) error {
		item, getErr := txn.Get(urlHash[:])
		if getErr == badger.ErrKeyNotFound {
			return nil
		}
		if getErr != nil {
			return getErr
		}
		ok = true
		return item.Value(func(val []byte) error {
			loc = decodeIndexLocation(val)
			return nil
		})
	})
	return loc, ok, err
}

// Delete removes the index row for urlHash.
func (d *IndexDatabase) Delete(urlHash [32]byte) error {
	return d.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(urlHash[:])
	})
}

// ApplyCompaction rewrites the index rows BlockFile.Compact reports as
// moved, keeping each row's content size. Rows of entries dropped as dead
// are not touched here; DiskCache.Compact deletes those separately.
func (d *IndexDatabase) ApplyCompaction(updates []IndexUpdate) error {
	return d.db.Update(func(txn *badger.Txn) error {
		for _, u := range updates {
			existing, err := txn.Get(u.URLHash[:])
			var contentSize uint32
			if err == nil {
				if valErr := existing.Value(func(val []byte) error {
					contentSize = decodeIndexLocation(val).ContentSize
					return nil
				}); valErr != nil {
					return valErr
				}
			}
			loc := IndexLocation{FileID: u.FileID, Offset: u.Offset, HeaderSize: u.HeaderSize, ContentSize: contentSize}
			if err := txn.Set(u.URLHash[:], encodeIndexLocation(loc)); err != nil {
				return err
			}
		}
		return nil
	})
}

func encodeIndexLocation(loc IndexLocation) []byte {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint32(buf[0:4], loc.FileID)
	binary.LittleEndian.PutUint32(buf[4:8], loc.Offset)
	binary.LittleEndian.PutUint32(buf[8:12], loc.HeaderSize)
	binary.LittleEndian.PutUint32(buf[12:16], loc.ContentSize)
	return buf
}

func decodeIndexLocation(buf []byte) IndexLocation {
	if len(buf) < 16 {
		return IndexLocation{}
	}
	return IndexLocation{
		FileID:      binary.LittleEndian.Uint32(buf[0:4]),
		Offset:      binary.LittleEndian.Uint32(buf[4:8]),
		HeaderSize:  binary.LittleEndian.Uint32(buf[8:12]),
		ContentSize: binary.LittleEndian.Uint32(buf[12:16]),
	}
}
