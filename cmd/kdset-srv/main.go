package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/go-sod/kdset/internal/buildinfo"
	"github.com/go-sod/kdset/internal/config"
	"github.com/go-sod/kdset/internal/httputil"
	"github.com/go-sod/kdset/internal/index"
	"github.com/go-sod/kdset/internal/insert"
	"github.com/go-sod/kdset/internal/logging"
	"github.com/go-sod/kdset/internal/query"
	"github.com/go-sod/kdset/internal/server"
	"github.com/go-sod/kdset/internal/setup"
	"github.com/go-sod/kdset/internal/shutdown"
	"golang.org/x/sync/errgroup"
)

func main() {
	_, _ = fmt.Fprint(os.Stdout, buildinfo.Graffiti)
	_, _ = fmt.Fprintln(os.Stdout, buildinfo.Info.String())

	ctx, done := shutdown.New()
	logger := logging.FromContext(ctx)
	err := run(ctx)
	done()
	if err != nil {
		logger.Fatal(err)
	}
}

func run(ctx context.Context) error {
	cfg := config.Config{}
	env, err := setup.Setup(ctx, &cfg)
	if err != nil {
		return fmt.Errorf("setup.Setup: %w", err)
	}

	logger := logging.NewLogger(cfg.LogLevel, cfg.LogDevelopment).With("build", buildinfo.Info.Short())
	defer func() { _ = logger.Sync() }()
	ctx = logging.WithLogger(ctx, logger)
	defer func() {
		if err := env.Close(ctx); err != nil {
			logger.Errorf("env.Close: %v", err)
		}
	}()

	mux, err := routes(ctx, &cfg, env.Index(), env.MetricsHandler())
	if err != nil {
		return err
	}

	srv, err := server.New(cfg.SrvAddr, cfg.MaxConns)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}
	logger.Infof("serving http on %s", srv.Addr())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.ServeHTTPHandler(gctx, httputil.WithRequestID(gctx, mux))
	})

	if cfg.GRPCAddr != "" {
		grpcSrv, err := server.New(cfg.GRPCAddr, cfg.MaxConns)
		if err != nil {
			return fmt.Errorf("server.New grpc: %w", err)
		}
		logger.Infof("serving grpc health on %s", grpcSrv.Addr())
		rpcSrv, healthSrv := server.NewHealthGRPC()
		g.Go(func() error {
			return grpcSrv.ServeGRPC(gctx, rpcSrv, healthSrv)
		})
	}

	return g.Wait()
}

func routes(ctx context.Context, cfg *config.Config, idx index.Manager, metricsHandler http.Handler) (*http.ServeMux, error) {
	mux := http.NewServeMux()

	insertHandler, err := insert.NewHandler(cfg.InsertConfig(), idx)
	if err != nil {
		return nil, fmt.Errorf("insert.NewHandler: %w", err)
	}
	containsHandler, err := query.NewContainsHandler(cfg.QueryConfig(), idx)
	if err != nil {
		return nil, fmt.Errorf("query.NewContainsHandler: %w", err)
	}
	rangeHandler, err := query.NewRangeHandler(cfg.QueryConfig(), idx)
	if err != nil {
		return nil, fmt.Errorf("query.NewRangeHandler: %w", err)
	}
	nearestHandler, err := query.NewNearestHandler(cfg.QueryConfig(), idx)
	if err != nil {
		return nil, fmt.Errorf("query.NewNearestHandler: %w", err)
	}
	sizeHandler, err := query.NewSizeHandler(idx)
	if err != nil {
		return nil, fmt.Errorf("query.NewSizeHandler: %w", err)
	}

	mux.Handle("/insert", insertHandler)
	mux.Handle("/contains", containsHandler)
	mux.Handle("/range", rangeHandler)
	mux.Handle("/nearest", nearestHandler)
	mux.Handle("/size", sizeHandler)
	mux.Handle("/health", server.HandleHealth(ctx))
	if metricsHandler != nil {
		mux.Handle("/metrics", metricsHandler)
	}
	return mux, nil
}
