package store

import (
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWatchDirLogsFailure(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	defer watcher.Close()

	missing := filepath.Join(t.TempDir(), "gone")
	if watchDir(watcher, missing, zap.New(core)) {
		t.Fatalf("expected watching a missing directory to fail")
	}
	entries := logs.FilterField(zap.String("dir", missing)).All()
	if len(entries) != 1 || entries[0].Level != zapcore.WarnLevel {
		t.Fatalf("expected one warning for %s, got %+v", missing, logs.All())
	}

	if !watchDir(watcher, t.TempDir(), zap.New(core)) {
		t.Fatalf("expected existing directory to be watched")
	}
	if logs.Len() != 1 {
		t.Fatalf("expected no new warnings, got %d", logs.Len())
	}
}

func TestWithLogger(t *testing.T) {
	core, _ := observer.New(zapcore.DebugLevel)
	log := zap.New(core)

	if s := newSettings(nil); s.log == nil {
		t.Fatalf("expected a no-op default logger")
	}
	if s := newSettings([]Option{WithLogger(nil)}); s.log == nil {
		t.Fatalf("nil logger must keep the default")
	}
	if s := newSettings([]Option{WithLogger(log)}); s.log != log {
		t.Fatalf("expected logger to be set")
	}

	p, err := NewDiskv(t.TempDir(), WithLogger(log))
	if err != nil {
		t.Fatalf("open diskv: %v", err)
	}
	if b := p.(*persistence).b.(*diskvBackend); b.log != log {
		t.Fatalf("expected diskv backend to carry the logger")
	}
}
