package setup

import (
	"context"
	"fmt"
	"os"

	"github.com/go-sod/kdset/internal/config"
	"github.com/go-sod/kdset/internal/index"
	"github.com/go-sod/kdset/internal/logging"
	"github.com/go-sod/kdset/internal/metrics"
	"github.com/go-sod/kdset/internal/pointfile"
	"github.com/go-sod/kdset/internal/srvenv"
	"github.com/go-sod/kdset/pkg/geom"
)

type IndexConfigProvider interface {
	IndexConfig() *index.Config
}

type MetricsConfigProvider interface {
	MetricsNamespace() string
}

// Setup loads config from the environment and the file named by
// KDSET_CONFIG_FILE, then builds the components config provides for.
func Setup(ctx context.Context, cfg interface{}) (*srvenv.SrvEnv, error) {
	logger := logging.FromContext(ctx)
	var serverEnvOpts []srvenv.Option
	if err := config.Load(ctx, os.Getenv(config.FileEnv), cfg); err != nil {
		return nil, fmt.Errorf("unable to load config: %w", err)
	}

	if metricsConfigProvider, ok := cfg.(MetricsConfigProvider); ok {
		logger.Info("Configuring metrics")
		h, err := metrics.Register(metricsConfigProvider.MetricsNamespace())
		if err != nil {
			return nil, fmt.Errorf("unable to register metrics: %w", err)
		}
		serverEnvOpts = append(serverEnvOpts, srvenv.WithMetrics(h))
	}

	if indexConfigProvider, ok := cfg.(IndexConfigProvider); ok {
		logger.Info("Configuring index")
		provideFn, err := ProvideIndexFor(ctx, indexConfigProvider)
		if err != nil {
			return nil, fmt.Errorf("unable create index provide function: %w", err)
		}
		idx, err := provideFn()
		if err != nil {
			return nil, fmt.Errorf("unable create index: %w", err)
		}
		serverEnvOpts = append(serverEnvOpts, srvenv.WithIndex(idx))
	}

	return srvenv.New(serverEnvOpts...), nil
}

func ProvideIndexFor(ctx context.Context, provider IndexConfigProvider) (index.ProvideFn, error) {
	cfg := provider.IndexConfig()
	domain, err := cfg.Domain()
	if err != nil {
		return nil, fmt.Errorf("invalid index domain: %w", err)
	}
	return func() (index.Manager, error) {
		var seed []geom.Point
		if cfg.SeedFile != "" {
			points, err := pointfile.ReadFile(cfg.SeedFile)
			if err != nil {
				return nil, fmt.Errorf("unable load seed file: %w", err)
			}
			seed = points
		}
		idx, err := index.New(ctx, index.WithDomain(domain), index.WithSeed(seed))
		if err != nil {
			return nil, err
		}
		return idx, nil
	}, nil
}
