// Package library finds launchable ROM files in a folder.
package library

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// maxParallel bounds concurrent directory reads.
const maxParallel = 4

// Entry is one file offered by the ROM browser.
type Entry struct {
	Name string // base name, also the game's display name
	Path string
	Size int64
}

type scanner struct {
	fs   afero.Fs
	exts map[string]bool

	mu      sync.Mutex
	entries []Entry
}

// Scan lists files under root whose extension is in exts (any case).
// Hidden files and symlinks are skipped. With recursive set,
// subdirectories are read concurrently; an unreadable subdirectory is
// logged and skipped, while an unreadable root is an error. Results are
// sorted by name.
func Scan(ctx context.Context, fs afero.Fs, root string, exts []string, recursive bool) ([]Entry, error) {
	s := &scanner{fs: fs, exts: make(map[string]bool, len(exts))}
	for _, e := range exts {
		s.exts[strings.ToLower(e)] = true
	}

	if _, err := afero.ReadDir(fs, root); err != nil {
		return nil, fmt.Errorf("error scanning %s: %w", root, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)
	g.Go(func() error {
		return s.walk(gctx, g, root, recursive)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(s.entries, func(i, j int) bool {
		a, b := strings.ToLower(s.entries[i].Name), strings.ToLower(s.entries[j].Name)
		if a != b {
			return a < b
		}
		return s.entries[i].Path < s.entries[j].Path
	})
	return s.entries, nil
}

func (s *scanner) walk(ctx context.Context, g *errgroup.Group, dir string, recursive bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	infos, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		log.Printf("Warning: skipping %s: %v", dir, err)
		return nil
	}

	for _, info := range infos {
		if err := ctx.Err(); err != nil {
			return err
		}

		name := info.Name()
		if strings.HasPrefix(name, ".") || info.Mode()&os.ModeSymlink != 0 {
			continue
		}
		path := filepath.Join(dir, name)

		if info.IsDir() {
			if !recursive {
				continue
			}
			task := func() error { return s.walk(ctx, g, path, true) }
			// Walk inline when every slot is busy so a full group cannot deadlock
			if !g.TryGo(task) {
				if err := task(); err != nil {
					return err
				}
			}
			continue
		}

		if !info.Mode().IsRegular() || !s.exts[strings.ToLower(filepath.Ext(name))] {
			continue
		}
		s.mu.Lock()
		s.entries = append(s.entries, Entry{Name: name, Path: path, Size: info.Size()})
		s.mu.Unlock()
	}
	return nil
}
