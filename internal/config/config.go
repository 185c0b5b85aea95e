// Package config holds the service configuration and loads it from the
// environment and an optional TOML file.
package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-sod/kdset/internal/index"
	"github.com/go-sod/kdset/internal/insert"
	"github.com/go-sod/kdset/internal/logging"
	"github.com/go-sod/kdset/internal/query"
	"github.com/kelseyhightower/envconfig"
)

// FileEnv names the variable holding the optional TOML config path.
const FileEnv = "KDSET_CONFIG_FILE"

type Config struct {
	LogLevel       string `envconfig:"KDSET_LOG_LEVEL" default:"info" toml:"log_level"`
	LogDevelopment bool   `envconfig:"KDSET_LOG_DEVELOPMENT" default:"false" toml:"log_development"`
	SrvAddr        string `envconfig:"KDSET_ADDR" default:":8787" toml:"addr"`
	// gRPC health listener, disabled when empty
	GRPCAddr string        `envconfig:"KDSET_GRPC_ADDR" toml:"grpc_addr"`
	MaxConns int           `envconfig:"KDSET_MAX_CONNS" default:"256" toml:"max_conns"`
	Metrics  string        `envconfig:"KDSET_METRICS_NAMESPACE" default:"kdset" toml:"metrics_namespace"`
	Index    index.Config  `toml:"index"`
	Insert   insert.Config `toml:"insert"`
	Query    query.Config  `toml:"query"`
}

func (c *Config) IndexConfig() *index.Config {
	return &c.Index
}

func (c *Config) InsertConfig() *insert.Config {
	return &c.Insert
}

func (c *Config) QueryConfig() *query.Config {
	return &c.Query
}

func (c *Config) MetricsNamespace() string {
	return c.Metrics
}

// Load fills cfg from the environment, defaults included, and then applies
// the TOML file at path when path is not empty. Keys in the file take
// precedence; keys it does not know are an error.
func Load(ctx context.Context, path string, cfg interface{}) error {
	if err := envconfig.Process("", cfg); err != nil {
		return fmt.Errorf("error loading environment variables: %w", err)
	}
	if path == "" {
		return nil
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("error loading config file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys in config file %s: %s", path, strings.Join(keys, ", "))
	}
	logging.FromContext(ctx).Infof("config file %s loaded", path)
	return nil
}
