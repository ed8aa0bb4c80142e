package romloader

import (
	"bytes"
	"io"
	"path/filepath"

	"github.com/spf13/afero"
)

// Source is something a ROM can be read from exactly once.
type Source interface {
	// Name is the display name of the source, usually a file name.
	Name() string
	Open() (io.ReadCloser, error)
}

// FileSource reads a file from an afero filesystem.
type FileSource struct {
	Fs   afero.Fs
	Path string
}

// File returns a source for path on the host filesystem.
func File(path string) FileSource {
	return FileSource{Fs: afero.NewOsFs(), Path: path}
}

// Name returns the file's base name.
func (s FileSource) Name() string {
	return filepath.Base(s.Path)
}

// Open opens the file for reading.
func (s FileSource) Open() (io.ReadCloser, error) {
	fs := s.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return fs.Open(s.Path)
}

type memorySource struct {
	name string
	data []byte
}

// Memory returns a source over an in-memory image.
func Memory(name string, data []byte) Source {
	return memorySource{name: name, data: data}
}

func (s memorySource) Name() string {
	return s.name
}

func (s memorySource) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(s.data)), nil
}
