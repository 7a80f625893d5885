package store

import "go.uber.org/zap"

// Option configures a Persistence.
type Option func(*settings)

type settings struct {
	log *zap.Logger
}

// WithLogger sets the logger used for watch failures.
func WithLogger(log *zap.Logger) Option {
	return func(s *settings) {
		if log != nil {
			s.log = log
		}
	}
}

func newSettings(opts []Option) settings {
	s := settings{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}
