// Package options defines shared flag helpers for CLI commands.
package options

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tableflip.dev/habits/pkg/app"
	"tableflip.dev/habits/pkg/store"
)

// StoreOptions are the global flags that pick the store and logging level.
type StoreOptions struct {
	Verbose   bool
	Ephemeral bool
	Backend   string
	Path      string
	LogFile   string

	Log *zap.Logger

	// Open replaces store.Load, used by tests.
	Open func(store.Config, ...store.Option) (store.Persistence, error)

	persistence store.Persistence
}

func AddStoreArgs(cmd *cobra.Command, o *StoreOptions) {
	cmd.PersistentFlags().BoolVarP(&o.Verbose, "verbose", "v", false,
		`Log debug output to stderr.`)
	cmd.PersistentFlags().BoolVar(&o.Ephemeral, "ephemeral", false,
		`Keep data in memory for this invocation only.`)
	cmd.PersistentFlags().StringVar(&o.Backend, "backend", "",
		`Override the configured store: diskv, sqlite or memory.`)
	cmd.PersistentFlags().StringVar(&o.Path, "path", "",
		`Override the configured data directory.`)
	cmd.PersistentFlags().StringVar(&o.LogFile, "log-file", "",
		`Write logs to this file instead of stderr.`)
}

// Setup builds the logger. Call it once per invocation.
func (o *StoreOptions) Setup() error {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.DisableStacktrace = true
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if o.Verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	if o.LogFile != "" {
		cfg.OutputPaths = []string{o.LogFile}
		cfg.ErrorOutputPaths = []string{o.LogFile}
	}
	log, err := cfg.Build()
	if err != nil {
		return err
	}
	o.Log = log
	return nil
}

// Quiet drops terminal logging for full screen commands. A --log-file logger
// is kept. Call it before Service or Persistence.
func (o *StoreOptions) Quiet() {
	if o.LogFile == "" {
		o.Log = zap.NewNop()
	}
}

// Config resolves the store configuration with flag overrides applied.
func (o *StoreOptions) Config() (store.Config, error) {
	if o.Ephemeral {
		return store.NewConfig("", store.BackendMemory), nil
	}
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}
	if o.Backend == "" && o.Path == "" {
		return cfg, nil
	}
	backend := cfg.Backend()
	if o.Backend != "" {
		if backend, err = store.ParseBackend(o.Backend); err != nil {
			return nil, err
		}
	}
	path := cfg.BasePath()
	if p := strings.TrimSpace(o.Path); p != "" {
		path = p
	}
	return store.NewConfig(path, backend), nil
}

// Persistence opens the configured store, once per invocation.
func (o *StoreOptions) Persistence() (store.Persistence, error) {
	if o.persistence != nil {
		return o.persistence, nil
	}
	cfg, err := o.Config()
	if err != nil {
		return nil, err
	}
	open := o.Open
	if open == nil {
		open = store.Load
	}
	p, err := open(cfg, store.WithLogger(o.logger()))
	if err != nil {
		return nil, err
	}
	o.persistence = p
	return p, nil
}

// Service wires the configured store and logger into an app.Service.
func (o *StoreOptions) Service() (*app.Service, error) {
	p, err := o.Persistence()
	if err != nil {
		return nil, err
	}
	return &app.Service{Persistence: p, Log: o.logger()}, nil
}

func (o *StoreOptions) logger() *zap.Logger {
	if o.Log == nil {
		return zap.NewNop()
	}
	return o.Log
}

// Close releases the store and flushes the logger.
func (o *StoreOptions) Close() error {
	var errs []error
	if o.persistence != nil {
		errs = append(errs, o.persistence.Close())
		o.persistence = nil
	}
	if o.Log != nil {
		// Sync on a terminal stderr reports EINVAL on some platforms.
		_ = o.Log.Sync()
	}
	return errors.Join(errs...)
}
