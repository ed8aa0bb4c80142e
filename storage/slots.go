package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

var (
	// ErrSlotNotFound is returned when a slot has never been written.
	ErrSlotNotFound = errors.New("save slot not found")
	// ErrInvalidSlotKey is returned for keys that are not a plain file name.
	ErrInvalidSlotKey = errors.New("invalid save slot key")
)

// SlotStore keeps opaque save blobs, one file per slot key, in a single
// directory. Writes are atomic; a slot is only ever replaced, never
// removed by the store.
type SlotStore struct {
	fs  afero.Fs
	dir string
}

// NewSlotStore creates a store rooted at dir on fs.
func NewSlotStore(fs afero.Fs, dir string) *SlotStore {
	return &SlotStore{fs: fs, dir: dir}
}

// OpenSlotStore returns the store for the application saves directory.
func OpenSlotStore() (*SlotStore, error) {
	dir, err := GetSavesDir()
	if err != nil {
		return nil, err
	}
	return NewSlotStore(Fs(), dir), nil
}

// Dir returns the directory holding the slots.
func (s *SlotStore) Dir() string {
	return s.dir
}

// ValidateSlotKey reports whether key can name a slot file.
func ValidateSlotKey(key string) error {
	switch {
	case key == "", key == ".", key == "..":
	case strings.HasPrefix(key, "."):
	case strings.ContainsAny(key, "/\\\x00"):
	default:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidSlotKey, key)
}

// Path returns the file path backing key.
func (s *SlotStore) Path(key string) (string, error) {
	if err := ValidateSlotKey(key); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, key), nil
}

// Write replaces the slot content with data.
func (s *SlotStore) Write(key string, data []byte) error {
	path, err := s.Path(key)
	if err != nil {
		return err
	}
	return AtomicWrite(s.fs, path, data)
}

// Read returns the slot content, or ErrSlotNotFound.
func (s *SlotStore) Read(key string) ([]byte, error) {
	path, err := s.Path(key)
	if err != nil {
		return nil, err
	}
	data, err := afero.ReadFile(s.fs, path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrSlotNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read slot %s: %w", key, err)
	}
	return data, nil
}

// Exists reports whether the slot has been written.
func (s *SlotStore) Exists(key string) bool {
	path, err := s.Path(key)
	if err != nil {
		return false
	}
	info, err := s.fs.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// List returns the keys of all written slots, sorted.
func (s *SlotStore) List() ([]string, error) {
	entries, err := afero.ReadDir(s.fs, s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var keys []string
	for _, e := range entries {
		if !e.Mode().IsRegular() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		keys = append(keys, e.Name())
	}
	sort.Strings(keys)
	return keys, nil
}
