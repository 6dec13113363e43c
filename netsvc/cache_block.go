package netsvc

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// blockMagic and blockVersion identify the block-file format.
var blockMagic = [4]byte{'B', 'L', 'K', 'C'}

const blockVersion uint16 = 1

// maxBlockSize is the per-file size threshold a block file is allowed to
// grow past before writes move on to the next file.
const maxBlockSize = 1000

// compactionFullnessThreshold and compactionDeadThreshold gate when a
// block file is worth rewriting: it must be both nearly full and mostly
// dead weight.
const (
	compactionFullnessThreshold = 0.80
	compactionDeadThreshold     = 0.50
)

// CacheHeader precedes every cached entry's bytes inside a block file.
// Fixed-width fields only, so the stable binary layout below never shifts:
// no ecosystem stable-serialization library (postcard/bincode-equivalent)
// was found anywhere in the retrieved example pack, so this is a direct
// encoding/binary translation of the original's postcard-serialized
// struct rather than a ported library call — see DESIGN.md.
type CacheHeader struct {
	Magic           [4]byte
	Version         uint16
	URLHash         [32]byte
	VaryKey         string
	ContentSize     uint32
	ResponseHeaders string
	CacheControl    string
	Freshness       int64 // unix seconds the entry is considered fresh until; 0 = no expiry recorded
	Dead            bool
}

// encodeCacheHeader serializes h into the block file's on-disk layout:
// fixed fields, then three length-prefixed strings, matching the original
// Rust struct's field order (magic, version, url_hash, vary_key,
// content_size, response_headers, cache_control, freshness, dead).
func encodeCacheHeader(h *CacheHeader) []byte {
	var buf bytes.Buffer
	buf.Write(h.Magic[:])
	binary.Write(&buf, binary.LittleEndian, h.Version)
	buf.Write(h.URLHash[:])
	writeLenPrefixedString(&buf, h.VaryKey)
	binary.Write(&buf, binary.LittleEndian, h.ContentSize)
	writeLenPrefixedString(&buf, h.ResponseHeaders)
	writeLenPrefixedString(&buf, h.CacheControl)
	binary.Write(&buf, binary.LittleEndian, h.Freshness)
	deadByte := byte(0)
	if h.Dead {
		deadByte = 1
	}
	buf.WriteByte(deadByte)
	return buf.Bytes()
}

func writeLenPrefixedString(buf *bytes.Buffer, s string) {
	binary.Write(buf, binary.LittleEndian, uint32(len(s)))
	buf.WriteString(s)
}

// decodeCacheHeader is encodeCacheHeader's inverse; it reports the number
// of bytes consumed so a sequential scan (used by compact) can advance.
func decodeCacheHeader(data []byte) (*CacheHeader, int, error) {
	r := bytes.NewReader(data)
	h := &CacheHeader{}

	if _, err := r.Read(h.Magic[:]); err != nil {
		return nil, 0, fmt.Errorf("netsvc: truncated cache header magic: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &h.Version); err != nil {
		return nil, 0, err
	}
	if _, err := r.Read(h.URLHash[:]); err != nil {
		return nil, 0, err
	}
	var err error
	if h.VaryKey, err = readLenPrefixedString(r); err != nil {
		return nil, 0, err
	}
	if err := binary.Read(r, binary.LittleEndian, &h.ContentSize); err != nil {
		return nil, 0, err
	}
	if h.ResponseHeaders, err = readLenPrefixedString(r); err != nil {
		return nil, 0, err
	}
	if h.CacheControl, err = readLenPrefixedString(r); err != nil {
		return nil, 0, err
	}
	if err := binary.Read(r, binary.LittleEndian, &h.Freshness); err != nil {
		return nil, 0, err
	}
	deadByte, err := r.ReadByte()
	if err != nil {
		return nil, 0, err
	}
	h.Dead = deadByte != 0

	consumed := len(data) - r.Len()
	return h, consumed, nil
}

func readLenPrefixedString(r *bytes.Reader) (string, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := r.Read(buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// BlockFile is a stateless namespace over the engine's block-file cache
// storage.
type BlockFile struct {
	// Dir is the blocks directory (e.g. "<cache root>/resources/blocks").
	Dir string
}

// blockFileHeaderBytes is the serialized {magic, version} prefix written
// once at the start of every block file.
func blockFileHeaderBytes() []byte {
	var buf bytes.Buffer
	buf.Write(blockMagic[:])
	binary.Write(&buf, binary.LittleEndian, blockVersion)
	return buf.Bytes()
}

// Write appends value (with header) to the first block file with room, or
// starts a new one, and returns (fileID, offset, headerSize, contentSize)
// for the index row. fileID is fileNumber+1, so Read can recover the
// filename via fileID-1 (see block.rs's find_writable_file doc comment).
func (b BlockFile) Write(value []byte, header *CacheHeader) (fileID, offset, headerSize, contentSize uint32, err error) {
	if err := os.MkdirAll(b.Dir, 0o755); err != nil {
		return 0, 0, 0, 0, fmt.Errorf("netsvc: create block dir: %w", err)
	}

	var path string
	var fileNumber uint32
	if len(value) < maxBlockSize {
		path, fileNumber, err = b.findWritableFile()
	} else {
		// Oversized entries get a standalone file instead of bloating a
		// shared block.
		path, fileNumber, err = b.nextFreshFile()
	}
	if err != nil {
		return 0, 0, 0, 0, err
	}

	blockHeaderBytes := blockFileHeaderBytes()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("netsvc: open block file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, 0, 0, 0, err
	}

	var startOffset int64
	if info.Size() == 0 {
		if _, err := f.Write(blockHeaderBytes); err != nil {
			return 0, 0, 0, 0, err
		}
		startOffset = int64(len(blockHeaderBytes))
	} else if info.Size() < int64(len(blockHeaderBytes)) {
		return 0, 0, 0, 0, fmt.Errorf("netsvc: corrupted block file %s", path)
	} else {
		startOffset = info.Size()
	}

	header.ContentSize = uint32(len(value))
	headerBytes := encodeCacheHeader(header)

	if _, err := f.Write(headerBytes); err != nil {
		return 0, 0, 0, 0, err
	}
	if _, err := f.Write(value); err != nil {
		return 0, 0, 0, 0, err
	}
	if err := f.Sync(); err != nil {
		return 0, 0, 0, 0, err
	}

	return fileNumber + 1, uint32(startOffset), uint32(len(headerBytes)), uint32(len(value)), nil
}

// Read loads the entry at (fileID, offset, headerSize, contentSize).
// fileID is persisted as fileNumber+1 (0 sentinels "not stored"), so the
// filename is recovered with a saturating decrement.
func (b BlockFile) Read(fileID, offset, headerSize, contentSize uint32) (*CacheHeader, []byte, error) {
	path := b.blockPath(saturatingDec(fileID))

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("netsvc: open block file: %w", err)
	}
	defer f.Close()

	blockHeaderBytes := blockFileHeaderBytes()
	buf := make([]byte, len(blockHeaderBytes))
	if _, err := readFull(f, buf); err != nil {
		return nil, nil, err
	}
	if !bytes.Equal(buf[:4], blockMagic[:]) {
		return nil, nil, fmt.Errorf("netsvc: corrupted block file %s: bad magic", path)
	}

	if _, err := f.Seek(int64(offset), 0); err != nil {
		return nil, nil, err
	}
	headerBuf := make([]byte, headerSize)
	if _, err := readFull(f, headerBuf); err != nil {
		return nil, nil, fmt.Errorf("netsvc: corrupted cache header in %s: %w", path, err)
	}
	header, _, err := decodeCacheHeader(headerBuf)
	if err != nil {
		return nil, nil, err
	}

	content := make([]byte, contentSize)
	if _, err := readFull(f, content); err != nil {
		return nil, nil, fmt.Errorf("netsvc: truncated cache entry in %s: %w", path, err)
	}

	return header, content, nil
}

// Delete marks the entry at (fileID, offset, headerSize) dead in place.
// The header is rewritten at the same offset, so headerSize must match
// exactly what was originally serialized.
func (b BlockFile) Delete(fileID, offset, headerSize uint32) error {
	path := b.blockPath(saturatingDec(fileID))

	f, err := os.OpenFile(path, os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("netsvc: open block file: %w", err)
	}
	defer f.Close()

	if _, err := f.Seek(int64(offset), 0); err != nil {
		return err
	}
	headerBuf := make([]byte, headerSize)
	if _, err := readFull(f, headerBuf); err != nil {
		return err
	}
	header, _, err := decodeCacheHeader(headerBuf)
	if err != nil {
		return err
	}
	header.Dead = true

	newHeaderBytes := encodeCacheHeader(header)
	if uint32(len(newHeaderBytes)) != headerSize {
		return fmt.Errorf("netsvc: serialized header size mismatch for %s", path)
	}

	if _, err := f.Seek(int64(offset), 0); err != nil {
		return err
	}
	_, err = f.Write(newHeaderBytes)
	return err
}

// compactedEntry is one scanned-and-kept-or-dropped record from a block
// file being compacted.
type compactedEntry struct {
	urlHash     [32]byte
	headerBytes []byte
	content     []byte
	dead        bool
}

// Compact rewrites every block file that is both nearly full and mostly
// dead weight, keeping only live entries, and reports the surviving
// entries' new (urlHash, fileID, offset, headerSize) plus the url hashes
// of entries dropped as dead, so the caller can update its index — this
// engine has no direct handle on the index table the way block.rs's
// Self::compact does (it calls IndexTable directly), so the index update
// is the DiskCache's responsibility, not BlockFile's.
func (b BlockFile) Compact() (updates []IndexUpdate, deleted [][32]byte, err error) {
	entries, err := os.ReadDir(b.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil
		}
		return nil, nil, err
	}

	type numberedFile struct {
		path   string
		number int
	}
	var files []numberedFile
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".bin" {
			continue
		}
		stem := strings.TrimSuffix(entry.Name(), ".bin")
		num, err := strconv.Atoi(stem)
		if err != nil {
			continue
		}
		files = append(files, numberedFile{filepath.Join(b.Dir, entry.Name()), num})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].number < files[j].number })

	for _, nf := range files {
		info, err := os.Stat(nf.path)
		if err != nil {
			return updates, deleted, err
		}
		if float64(info.Size()) < float64(maxBlockSize)*compactionFullnessThreshold {
			continue
		}

		data, err := os.ReadFile(nf.path)
		if err != nil {
			return updates, deleted, err
		}

		blockHeaderBytes := blockFileHeaderBytes()
		if len(data) < len(blockHeaderBytes) || !bytes.Equal(data[:4], blockMagic[:]) {
			continue
		}

		cursor := data[len(blockHeaderBytes):]
		var scanned []compactedEntry
		var totalBytes, deadBytes int64

		for len(cursor) > 0 {
			header, consumed, err := decodeCacheHeader(cursor)
			if err != nil {
				break
			}
			contentSize := int(header.ContentSize)
			if len(cursor[consumed:]) < contentSize {
				break
			}

			entrySize := int64(consumed + contentSize)
			totalBytes += entrySize
			if header.Dead {
				deadBytes += entrySize
			}

			scanned = append(scanned, compactedEntry{
				urlHash:     header.URLHash,
				headerBytes: append([]byte(nil), cursor[:consumed]...),
				content:     append([]byte(nil), cursor[consumed:consumed+contentSize]...),
				dead:        header.Dead,
			})

			cursor = cursor[consumed+contentSize:]
		}

		if totalBytes == 0 || float64(deadBytes)/float64(totalBytes) < compactionDeadThreshold {
			continue
		}

		tmpPath := nf.path + ".tmp"
		newFile, err := os.Create(tmpPath)
		if err != nil {
			return updates, deleted, err
		}

		newFile.Write(data[:len(blockHeaderBytes)])
		newOffset := uint32(len(blockHeaderBytes))
		fileID := uint32(nf.number) + 1

		for _, entry := range scanned {
			if entry.dead {
				deleted = append(deleted, entry.urlHash)
				continue
			}
			newFile.Write(entry.headerBytes)
			newFile.Write(entry.content)
			updates = append(updates, IndexUpdate{
				URLHash:    entry.urlHash,
				FileID:     fileID,
				Offset:     newOffset,
				HeaderSize: uint32(len(entry.headerBytes)),
			})
			newOffset += uint32(len(entry.headerBytes) + len(entry.content))
		}

		newFile.Close()
		if err := os.Rename(tmpPath, nf.path); err != nil {
			return updates, deleted, err
		}
	}

	return updates, deleted, nil
}

// IndexUpdate reports a surviving entry's new location after compaction.
type IndexUpdate struct {
	URLHash    [32]byte
	FileID     uint32
	Offset     uint32
	HeaderSize uint32
}

func (b BlockFile) findWritableFile() (path string, fileNumber uint32, err error) {
	entries, err := os.ReadDir(b.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return filepath.Join(b.Dir, "0.bin"), 0, nil
		}
		return "", 0, err
	}

	type numberedFile struct {
		path   string
		number uint32
	}
	var files []numberedFile
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".bin" {
			continue
		}
		stem := strings.TrimSuffix(entry.Name(), ".bin")
		num, err := strconv.ParseUint(stem, 10, 32)
		if err != nil {
			continue
		}
		files = append(files, numberedFile{filepath.Join(b.Dir, entry.Name()), uint32(num)})
	}
	if len(files) == 0 {
		return filepath.Join(b.Dir, "0.bin"), 0, nil
	}
	sort.Slice(files, func(i, j int) bool { return files[i].number < files[j].number })

	for _, nf := range files {
		info, err := os.Stat(nf.path)
		if err != nil {
			return "", 0, err
		}
		if info.Size() < maxBlockSize {
			return nf.path, nf.number, nil
		}
	}

	next := files[len(files)-1].number + 1
	return filepath.Join(b.Dir, fmt.Sprintf("%d.bin", next)), next, nil
}

// nextFreshFile returns a path for a new, empty block file numbered after
// the highest existing one.
func (b BlockFile) nextFreshFile() (string, uint32, error) {
	entries, err := os.ReadDir(b.Dir)
	if err != nil && !os.IsNotExist(err) {
		return "", 0, err
	}
	var next uint32
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".bin" {
			continue
		}
		stem := strings.TrimSuffix(entry.Name(), ".bin")
		num, err := strconv.ParseUint(stem, 10, 32)
		if err != nil {
			continue
		}
		if uint32(num) >= next {
			next = uint32(num) + 1
		}
	}
	return filepath.Join(b.Dir, fmt.Sprintf("%d.bin", next)), next, nil
}

func (b BlockFile) blockPath(fileNumber uint32) string {
	return filepath.Join(b.Dir, fmt.Sprintf("%d.bin", fileNumber))
}

func saturatingDec(v uint32) uint32 {
	if v == 0 {
		return 0
	}
	return v - 1
}

func readFull(f fs.File, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := f.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, fmt.Errorf("netsvc: unexpected EOF")
		}
	}
	return total, nil
}
