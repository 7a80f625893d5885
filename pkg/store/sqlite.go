package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	_ "modernc.org/sqlite" // pure go sqlite driver
)

// SQLiteFile is the database file name used inside the configured base path.
const SQLiteFile = "habits.db"

// OpenSQLite returns a Persistence backed by a single kv table in the SQLite
// database at path.
func OpenSQLite(path string, opts ...Option) (Persistence, error) {
	if path == "" {
		return nil, errors.New("store: sqlite path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("store: create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: create kv table: %w", err)
	}
	return &persistence{b: &sqliteBackend{db: db, path: path, log: newSettings(opts).log}}, nil
}

type sqliteBackend struct {
	db   *sql.DB
	path string
	log  *zap.Logger
}

func (b *sqliteBackend) read(ctx context.Context, key string) ([]byte, bool, error) {
	var val string
	err := b.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&val)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("store: select %s: %w", key, err)
	}
	return []byte(val), true, nil
}

func (b *sqliteBackend) write(ctx context.Context, key string, val []byte) error {
	_, err := b.db.ExecContext(ctx,
		`INSERT INTO kv(key, value) VALUES(?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, string(val))
	if err != nil {
		return fmt.Errorf("store: upsert %s: %w", key, err)
	}
	return nil
}

func (b *sqliteBackend) erase(ctx context.Context, key string) error {
	if _, err := b.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("store: delete %s: %w", key, err)
	}
	return nil
}

func (b *sqliteBackend) keys(ctx context.Context, prefix string) ([]string, error) {
	rows, err := b.db.QueryContext(ctx, `SELECT key FROM kv WHERE key LIKE ? ESCAPE '\' ORDER BY key`, likePrefix(prefix))
	if err != nil {
		return nil, fmt.Errorf("store: select keys: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		out = append(out, key)
	}
	return out, rows.Err()
}

// watch reports any change to the database file as a catalog refresh, since
// the file alone does not say which key was written.
func (b *sqliteBackend) watch(ctx context.Context) (<-chan Event, error) {
	dir := filepath.Dir(b.path)
	base := filepath.Base(b.path)
	return watchTree(ctx, dir, b.log, func(path string) (Event, bool) {
		if filepath.Dir(path) != dir || !strings.HasPrefix(filepath.Base(path), base) {
			return Event{}, false
		}
		return Event{Type: EventCatalogInvalidated}, true
	})
}

func (b *sqliteBackend) close() error {
	return b.db.Close()
}

func likePrefix(prefix string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(prefix) + "%"
}
