package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"tableflip.dev/habits/pkg/month"
	"tableflip.dev/habits/pkg/record"
)

type backendCase struct {
	name string
	open func(t *testing.T) Persistence
	// raw writes a value straight into the backend, bypassing the codec.
	raw func(t *testing.T, p Persistence, key string, val []byte)
}

func rawWrite(t *testing.T, p Persistence, key string, val []byte) {
	t.Helper()
	if err := p.(*persistence).b.write(context.Background(), key, val); err != nil {
		t.Fatalf("raw write %s: %v", key, err)
	}
}

func backends() []backendCase {
	return []backendCase{
		{
			name: "diskv",
			open: func(t *testing.T) Persistence {
				p, err := NewDiskv(t.TempDir())
				if err != nil {
					t.Fatalf("open diskv: %v", err)
				}
				return p
			},
			raw: rawWrite,
		},
		{
			name: "sqlite",
			open: func(t *testing.T) Persistence {
				p, err := OpenSQLite(filepath.Join(t.TempDir(), SQLiteFile))
				if err != nil {
					t.Fatalf("open sqlite: %v", err)
				}
				t.Cleanup(func() { _ = p.Close() })
				return p
			},
			raw: rawWrite,
		},
		{
			name: "memory",
			open: func(t *testing.T) Persistence { return NewMemory() },
			raw:  rawWrite,
		},
	}
}

func TestPersistenceContract(t *testing.T) {
	for _, bc := range backends() {
		t.Run(bc.name, func(t *testing.T) {
			ctx := context.Background()
			p := bc.open(t)
			feb := month.MustParse("2025-02")

			if _, err := p.Get(ctx, feb); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}

			rec := record.New([]string{"Run", "Read"})
			rec.Toggle(0, 15)
			if err := p.Put(ctx, feb, rec); err != nil {
				t.Fatalf("put: %v", err)
			}
			got, err := p.Get(ctx, feb)
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if diff := cmp.Diff(rec, got); diff != "" {
				t.Fatalf("record mismatch (-want +got):\n%s", diff)
			}

			rec.Toggle(1, 1)
			if err := p.Put(ctx, feb, rec); err != nil {
				t.Fatalf("overwrite: %v", err)
			}
			got, _ = p.Get(ctx, feb)
			if !got.Has(1, 1) {
				t.Fatalf("overwrite not persisted: %+v", got)
			}

			if err := p.Remove(ctx, feb); err != nil {
				t.Fatalf("remove: %v", err)
			}
			if _, err := p.Get(ctx, feb); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound after remove, got %v", err)
			}
			if err := p.Remove(ctx, feb); err != nil {
				t.Fatalf("remove of absent key should be a no-op, got %v", err)
			}
		})
	}
}

func TestPersistenceMonthKeys(t *testing.T) {
	for _, bc := range backends() {
		t.Run(bc.name, func(t *testing.T) {
			ctx := context.Background()
			p := bc.open(t)

			keys, err := p.MonthKeys(ctx)
			if err != nil {
				t.Fatalf("month keys: %v", err)
			}
			if len(keys) != 0 {
				t.Fatalf("expected no months, got %v", keys)
			}

			for _, raw := range []string{"2025-02", "2024-12", "2025-10"} {
				if err := p.Put(ctx, month.MustParse(raw), record.New([]string{"x"})); err != nil {
					t.Fatalf("put %s: %v", raw, err)
				}
			}
			if err := p.SetActiveMonth(ctx, month.MustParse("2025-02")); err != nil {
				t.Fatalf("set active: %v", err)
			}
			bc.raw(t, p, "other-key", []byte("ignored"))

			keys, err = p.MonthKeys(ctx)
			if err != nil {
				t.Fatalf("month keys: %v", err)
			}
			want := []month.Key{"2024-12", "2025-02", "2025-10"}
			if diff := cmp.Diff(want, keys); diff != "" {
				t.Fatalf("keys mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPersistenceActiveMonth(t *testing.T) {
	for _, bc := range backends() {
		t.Run(bc.name, func(t *testing.T) {
			ctx := context.Background()
			p := bc.open(t)

			if _, ok, err := p.ActiveMonth(ctx); err != nil || ok {
				t.Fatalf("expected no active month, got ok=%v err=%v", ok, err)
			}
			if err := p.SetActiveMonth(ctx, month.MustParse("2024-12")); err != nil {
				t.Fatalf("set active: %v", err)
			}
			k, ok, err := p.ActiveMonth(ctx)
			if err != nil || !ok || k != "2024-12" {
				t.Fatalf("expected 2024-12, got %q ok=%v err=%v", k, ok, err)
			}
			if err := p.ClearActiveMonth(ctx); err != nil {
				t.Fatalf("clear active: %v", err)
			}
			if _, ok, _ := p.ActiveMonth(ctx); ok {
				t.Fatalf("expected active month cleared")
			}
			if err := p.ClearActiveMonth(ctx); err != nil {
				t.Fatalf("clear of absent pointer should be a no-op, got %v", err)
			}

			bc.raw(t, p, ActiveMonthKey, []byte("garbage"))
			if _, ok, err := p.ActiveMonth(ctx); err != nil || ok {
				t.Fatalf("malformed pointer should read as absent, got ok=%v err=%v", ok, err)
			}
		})
	}
}

func TestPersistenceCorruptData(t *testing.T) {
	for _, bc := range backends() {
		t.Run(bc.name, func(t *testing.T) {
			ctx := context.Background()
			p := bc.open(t)
			bc.raw(t, p, "habit-2025-03", []byte("{not json"))

			_, err := p.Get(ctx, month.MustParse("2025-03"))
			if !errors.Is(err, ErrCorruptData) {
				t.Fatalf("expected ErrCorruptData, got %v", err)
			}
			var cde *CorruptDataError
			if !errors.As(err, &cde) || cde.Key != "2025-03" {
				t.Fatalf("expected CorruptDataError for 2025-03, got %#v", err)
			}

			keys, err := p.MonthKeys(ctx)
			if err != nil {
				t.Fatalf("month keys: %v", err)
			}
			if diff := cmp.Diff([]month.Key{"2025-03"}, keys); diff != "" {
				t.Fatalf("corrupt month should still be listed (-want +got):\n%s", diff)
			}
			if err := p.Remove(ctx, "2025-03"); err != nil {
				t.Fatalf("remove corrupt month: %v", err)
			}
		})
	}
}

func TestPersistenceRejectsMalformedKeys(t *testing.T) {
	p := NewMemory()
	ctx := context.Background()
	if err := p.Put(ctx, month.Key("2025-13"), record.New(nil)); !errors.Is(err, month.ErrInvalidFormat) {
		t.Fatalf("expected ErrInvalidFormat, got %v", err)
	}
	if _, err := p.Get(ctx, month.Key("nope")); !errors.Is(err, month.ErrInvalidFormat) {
		t.Fatalf("expected ErrInvalidFormat, got %v", err)
	}
	if err := p.SetActiveMonth(ctx, month.Key("")); !errors.Is(err, month.ErrInvalidFormat) {
		t.Fatalf("expected ErrInvalidFormat, got %v", err)
	}
}

func TestDiskvLayout(t *testing.T) {
	base := t.TempDir()
	p, err := NewDiskv(base)
	if err != nil {
		t.Fatalf("open diskv: %v", err)
	}
	ctx := context.Background()
	if err := p.Put(ctx, month.MustParse("2025-02"), record.New([]string{"Run"})); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := p.SetActiveMonth(ctx, month.MustParse("2025-02")); err != nil {
		t.Fatalf("set active: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(base, "habit", "2025", "02"))
	if err != nil {
		t.Fatalf("read record file: %v", err)
	}
	if want := `{"habits":["Run"],"data":[[]]}`; string(data) != want {
		t.Fatalf("expected %s, got %s", want, data)
	}
	data, err = os.ReadFile(filepath.Join(base, "habit", "lastMonth"))
	if err != nil {
		t.Fatalf("read pointer file: %v", err)
	}
	if string(data) != "2025-02" {
		t.Fatalf("expected pointer 2025-02, got %s", data)
	}
}

func TestMemoryWatchEmitsMonthChanges(t *testing.T) {
	p := NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := p.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	if err := p.Put(ctx, month.MustParse("2025-02"), record.New([]string{"Run"})); err != nil {
		t.Fatalf("put: %v", err)
	}
	select {
	case ev := <-ch:
		if ev.Type != EventMonthChanged || ev.Month != "2025-02" {
			t.Fatalf("unexpected event %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}

	cancel()
	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("watch channel not closed after cancel")
		}
	}
}

func TestDiskvWatchEmitsMonthChanges(t *testing.T) {
	base := t.TempDir()
	p, err := NewDiskv(base)
	if err != nil {
		t.Fatalf("open diskv: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := p.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	// Allow watcher goroutine to subscribe to directories before storing.
	time.Sleep(50 * time.Millisecond)

	if err := p.Put(ctx, month.MustParse("2025-02"), record.New([]string{"Run"})); err != nil {
		t.Fatalf("put: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-ch:
			if ev.Type == EventCatalogInvalidated {
				return
			}
			if ev.Type == EventMonthChanged {
				if ev.Month != "2025-02" {
					t.Fatalf("expected month 2025-02, got %q", ev.Month)
				}
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for change event")
		}
	}
}

func TestMonthForKey(t *testing.T) {
	tests := map[string]month.Key{
		"habit-2025-02": "2025-02",
		"habit-1999-12": "1999-12",
	}
	for key, want := range tests {
		got, ok := MonthForKey(key)
		if !ok || got != want {
			t.Fatalf("MonthForKey(%q) = %q, %v", key, got, ok)
		}
	}
	for _, key := range []string{ActiveMonthKey, "habit-2025-13", "other-2025-02", "habit-"} {
		if _, ok := MonthForKey(key); ok {
			t.Fatalf("MonthForKey(%q) should not match", key)
		}
	}
}
