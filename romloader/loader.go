// Package romloader reads ROM images from files or memory, unpacking the
// common archive formats (ZIP, 7z, gzip, tar.gz, RAR) on the way.
//
// The ROM bytes themselves are opaque: anything that is not a recognised
// archive is returned as-is.
package romloader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Magic bytes for format detection
var (
	magicZIP    = []byte{0x50, 0x4B, 0x03, 0x04}
	magicZIPEnd = []byte{0x50, 0x4B, 0x05, 0x06} // empty zip
	magic7z     = []byte{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C}
	magicGzip   = []byte{0x1F, 0x8B}
	magicRAR    = []byte{0x52, 0x61, 0x72, 0x21} // "Rar!"
)

// Maximum size of a source file and of any extracted ROM
const maxROMSize = 32 * 1024 * 1024

// ErrNoROMFile is returned when no ROM file is found in an archive
var ErrNoROMFile = errors.New("no ROM file found in archive")

// ErrFileTooLarge is returned when a source or extracted content exceeds
// the size limit
var ErrFileTooLarge = errors.New("file exceeds maximum size limit")

type formatType int

const (
	formatRaw formatType = iota
	formatZIP
	format7z
	formatGzip
	formatRAR
)

// Load reads a ROM from a file path on the host filesystem.
// See LoadSource.
func Load(path string, extensions []string) ([]byte, string, error) {
	return LoadSource(File(path), extensions)
}

// LoadSource reads src once, fully, and returns the ROM bytes plus the
// name of the file they came from (basename only, useful for display).
//
// Archives are detected via magic bytes, falling back to the source
// name's extension, and the first entry matching one of extensions is
// returned. Everything else is returned unchanged.
func LoadSource(src Source, extensions []string) ([]byte, string, error) {
	rc, err := src.Open()
	if err != nil {
		return nil, "", fmt.Errorf("failed to open file: %w", err)
	}
	defer rc.Close()

	data, err := limitedRead(rc)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", src.Name(), err)
	}

	name := src.Name()
	switch detectFormat(data, name) {
	case formatZIP:
		return extractFromZIP(data, extensions)
	case format7z:
		return extractFrom7z(data, extensions)
	case formatGzip:
		return extractFromGzip(data, name, extensions)
	case formatRAR:
		return extractFromRAR(data, extensions)
	default:
		return data, filepath.Base(name), nil
	}
}

// detectFormat determines the container format from magic bytes and
// the file name.
func detectFormat(header []byte, name string) formatType {
	switch {
	case bytes.HasPrefix(header, magicZIP), bytes.HasPrefix(header, magicZIPEnd):
		return formatZIP
	case bytes.HasPrefix(header, magicRAR):
		return formatRAR
	case bytes.HasPrefix(header, magic7z):
		return format7z
	case bytes.HasPrefix(header, magicGzip):
		return formatGzip
	}

	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".zip"):
		return formatZIP
	case strings.HasSuffix(lower, ".7z"):
		return format7z
	case strings.HasSuffix(lower, ".gz"), strings.HasSuffix(lower, ".tgz"):
		return formatGzip
	case strings.HasSuffix(lower, ".rar"):
		return formatRAR
	}

	return formatRaw
}

// isROMFile checks if a filename has one of the given ROM extensions (case-insensitive)
func isROMFile(name string, extensions []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range extensions {
		if strings.HasSuffix(lower, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}

// limitedRead reads from r up to maxROMSize bytes, returning an error if exceeded
func limitedRead(r io.Reader) ([]byte, error) {
	lr := io.LimitReader(r, maxROMSize+1)
	data, err := io.ReadAll(lr)
	if err != nil {
		return nil, err
	}
	if len(data) > maxROMSize {
		return nil, ErrFileTooLarge
	}
	return data, nil
}
