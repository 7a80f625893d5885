package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterbourgon/diskv/v3"
	"go.uber.org/zap"
)

const tempDir = ".tmp"

// NewDiskv returns a Persistence that keeps one file per key under basePath.
// habit-2025-02 is stored at <basePath>/habit/2025/02.
func NewDiskv(basePath string, opts ...Option) (Persistence, error) {
	if basePath == "" {
		return nil, errors.New("store: base path required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}
	return &persistence{b: &diskvBackend{
		basePath: basePath,
		log:      newSettings(opts).log,
		d: diskv.New(diskv.Options{
			BasePath:          basePath,
			TempDir:           filepath.Join(basePath, tempDir),
			AdvancedTransform: keyToPathTransform,
			InverseTransform:  pathToKeyTransform,
			// No read cache: another process may write while a UI is open.
			CacheSizeMax: 0,
		}),
	}}, nil
}

type diskvBackend struct {
	d        *diskv.Diskv
	basePath string
	log      *zap.Logger
}

func (b *diskvBackend) read(_ context.Context, key string) ([]byte, bool, error) {
	val, err := b.d.Read(key)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return val, true, nil
}

func (b *diskvBackend) write(_ context.Context, key string, val []byte) error {
	return b.d.Write(key, val)
}

func (b *diskvBackend) erase(_ context.Context, key string) error {
	if err := b.d.Erase(key); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (b *diskvBackend) keys(ctx context.Context, prefix string) ([]string, error) {
	var out []string
	for key := range b.d.KeysPrefix(prefix, ctx.Done()) {
		out = append(out, key)
	}
	return out, ctx.Err()
}

func (b *diskvBackend) watch(ctx context.Context) (<-chan Event, error) {
	return watchTree(ctx, b.basePath, b.log, b.eventForPath)
}

func (b *diskvBackend) close() error { return nil }

// eventForPath maps a file below basePath back to the change it represents.
func (b *diskvBackend) eventForPath(path string) (Event, bool) {
	rel, err := filepath.Rel(b.basePath, path)
	if err != nil || rel == "." {
		return Event{}, false
	}
	parts := strings.Split(rel, string(os.PathSeparator))
	if parts[0] == tempDir {
		return Event{}, false
	}
	if len(parts) < 2 {
		return Event{Type: EventCatalogInvalidated}, true
	}
	key := pathToKeyTransform(&diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	})
	if k, ok := MonthForKey(key); ok {
		return Event{Type: EventMonthChanged, Month: k}, true
	}
	return Event{Type: EventCatalogInvalidated}, true
}

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "-")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	if len(pathKey.Path) == 0 {
		return pathKey.FileName
	}
	return fmt.Sprintf("%s-%s", strings.Join(pathKey.Path, "-"), pathKey.FileName)
}
