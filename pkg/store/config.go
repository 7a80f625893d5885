package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Backend names a Persistence implementation.
type Backend string

const (
	// BackendDiskv stores one file per key. This is the default.
	BackendDiskv Backend = "diskv"
	// BackendSQLite stores keys in a single SQLite database file.
	BackendSQLite Backend = "sqlite"
	// BackendMemory keeps data for the lifetime of the process only.
	BackendMemory Backend = "memory"
)

// DefaultPath is where data lives when nothing is configured.
const DefaultPath = "~/.habits"

// ParseBackend converts a string to a Backend or returns an error for unknown
// values. An empty string selects BackendDiskv.
func ParseBackend(raw string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(raw))); b {
	case "":
		return BackendDiskv, nil
	case BackendDiskv, BackendSQLite, BackendMemory:
		return b, nil
	default:
		return "", fmt.Errorf("store: unknown backend %q", raw)
	}
}

// Config selects where and how records are persisted.
type Config interface {
	BasePath() string
	Backend() Backend
}

// LoadConfig reads .habits.yaml from $HABITS_CONFIG_PATH or the working
// directory, with HABITS_* environment overrides. A missing file is fine.
func LoadConfig() (Config, error) {
	v := viper.New()
	v.SetDefault("path", DefaultPath)
	v.SetDefault("backend", string(BackendDiskv))
	v.SetConfigName(".habits") // .yaml is implicit
	v.SetEnvPrefix("HABITS")
	v.AutomaticEnv()

	if override := os.Getenv("HABITS_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("store: read config: %w", err)
		}
	}

	backend, err := ParseBackend(v.GetString("backend"))
	if err != nil {
		return nil, err
	}
	path, err := homedir.Expand(v.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("store: expand path: %w", err)
	}
	return &fileConfig{Path: path, Kind: backend}, nil
}

// NewConfig returns a Config for the given path and backend.
func NewConfig(path string, backend Backend) Config {
	return &fileConfig{Path: path, Kind: backend}
}

type fileConfig struct {
	Path string  `json:"path"`
	Kind Backend `json:"backend"`
}

func (f *fileConfig) BasePath() string {
	return f.Path
}

func (f *fileConfig) Backend() Backend {
	return f.Kind
}

// Load opens the Persistence described by cfg. A nil cfg loads the
// configuration from disk and environment.
func Load(cfg Config, opts ...Option) (Persistence, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}

	switch cfg.Backend() {
	case BackendDiskv, "":
		return NewDiskv(cfg.BasePath(), opts...)
	case BackendSQLite:
		return OpenSQLite(filepath.Join(cfg.BasePath(), SQLiteFile), opts...)
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("store: unknown backend %q", cfg.Backend())
	}
}
