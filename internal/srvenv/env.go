package srvenv

import (
	"context"
	"net/http"

	"github.com/go-sod/kdset/internal/index"
	"github.com/go-sod/kdset/internal/logging"
)

type Option func(*SrvEnv) *SrvEnv

func New(opts ...Option) *SrvEnv {
	env := &SrvEnv{}
	for _, f := range opts {
		env = f(env)
	}

	return env
}

// SrvEnv holds the shared components the handlers are built from.
type SrvEnv struct {
	index   index.Manager
	metrics http.Handler
}

func (s *SrvEnv) Index() index.Manager {
	return s.index
}

// MetricsHandler returns the scrape handler, nil when metrics are not set up.
func (s *SrvEnv) MetricsHandler() http.Handler {
	return s.metrics
}

func WithIndex(idx index.Manager) Option {
	return func(s *SrvEnv) *SrvEnv {
		s.index = idx
		return s
	}
}

func WithMetrics(h http.Handler) Option {
	return func(s *SrvEnv) *SrvEnv {
		s.metrics = h
		return s
	}
}

// Close releases the environment. The index lives in memory, so only the
// final size is reported.
func (s *SrvEnv) Close(ctx context.Context) error {
	if s == nil {
		return nil
	}

	if s.index != nil {
		logging.FromContext(ctx).Infof("closing index with %d points", s.index.Len())
	}
	return nil
}
