package romloader

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"

	"github.com/nwaples/rardecode/v2"
)

// extractFromRAR extracts the first ROM file from a RAR archive
func extractFromRAR(data []byte, extensions []string) (rom []byte, name string, err error) {
	// rardecode can panic on badly corrupted headers
	defer func() {
		if r := recover(); r != nil {
			rom, name, err = nil, "", fmt.Errorf("failed to read rar: %v", r)
		}
	}()

	r, err := rardecode.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to open rar: %w", err)
	}

	for {
		header, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, "", fmt.Errorf("failed to read rar entry: %w", err)
		}

		if header.IsDir || !isROMFile(header.Name, extensions) {
			continue
		}

		rom, err := limitedRead(r)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read %s: %w", header.Name, err)
		}
		return rom, filepath.Base(header.Name), nil
	}

	return nil, "", ErrNoROMFile
}
