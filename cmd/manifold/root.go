package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/Sternrassler/manifold-client/internal/config"
	"github.com/Sternrassler/manifold-client/internal/service"
	"github.com/Sternrassler/manifold-client/pkg/client"
	"github.com/Sternrassler/manifold-client/pkg/logging"
	"github.com/Sternrassler/manifold-client/pkg/store"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app carries the state shared by all commands of one invocation.
type app struct {
	v      *viper.Viper
	cfg    *config.Config
	logger zerolog.Logger

	// transport overrides the HTTP transport (tests)
	transport client.Transport

	// runs overrides the Redis run store (tests)
	runs service.RunStore

	svc     *service.Service
	closers []func() error
}

func newRootCmd(a *app) *cobra.Command {
	a.v = config.NewViper()

	rootCmd := &cobra.Command{
		Use:           "manifold",
		Short:         "Manifold chemistry API client",
		Long:          "manifold searches supplier catalogs and scores synthetic accessibility through the Manifold API.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Config file (default: manifold.{yaml,toml,json} in ., $HOME/.config/manifold, /etc/manifold)")
	flags.String("env-file", ".env", "Environment file loaded before configuration")
	flags.String("api-key", "", "Manifold API key")
	flags.String("base-url", client.DefaultBaseURL, "Manifold API base URL")
	flags.Duration("timeout", 30*time.Second, "Per-request timeout")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	flags.Bool("pretty", false, "Human-readable log output")
	flags.String("redis-addr", "", "Redis address for recording runs (empty disables recording)")

	_ = a.v.BindPFlag("api_key", flags.Lookup("api-key"))
	_ = a.v.BindPFlag("base_url", flags.Lookup("base-url"))
	_ = a.v.BindPFlag("timeout", flags.Lookup("timeout"))
	_ = a.v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("log.pretty", flags.Lookup("pretty"))
	_ = a.v.BindPFlag("redis.addr", flags.Lookup("redis-addr"))

	rootCmd.AddCommand(
		newSearchCmd(a),
		newSearchBatchCmd(a),
		newScoreCmd(a),
		newScoreBatchCmd(a),
		newRunsCmd(a),
		newServeCmd(a),
	)

	return rootCmd
}

// setup loads configuration and sets up logging.
func (a *app) setup(cmd *cobra.Command) error {
	envFile, _ := cmd.Flags().GetString("env-file")
	if err := config.LoadDotEnv(envFile); err != nil {
		return err
	}

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		a.v.SetConfigFile(path)
	}

	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logCfg := cfg.LoggingConfig()
	logCfg.Output = cmd.ErrOrStderr()
	logging.Setup(logCfg)
	a.logger = logging.NewLogger("manifold-cli")

	a.logger.Debug().
		Str("base_url", cfg.BaseURL).
		Bool("store", cfg.StoreEnabled()).
		Msg("Configuration loaded")
	return nil
}

func (a *app) close() error {
	var first error
	for _, fn := range a.closers {
		if err := fn(); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}

// service builds the lookup service on first use.
func (a *app) service(ctx context.Context) (*service.Service, error) {
	if a.svc != nil {
		return a.svc, nil
	}
	if err := a.cfg.RequireAPIKey(); err != nil {
		return nil, err
	}

	clientCfg := a.cfg.ClientConfig()
	clientCfg.Transport = a.transport
	c, err := client.New(clientCfg)
	if err != nil {
		return nil, err
	}

	runs, err := a.runStore(ctx)
	if err != nil {
		return nil, err
	}

	a.svc = service.New(c, runs)
	return a.svc, nil
}

// runStore connects the run store, or returns nil when recording is
// disabled.
func (a *app) runStore(ctx context.Context) (service.RunStore, error) {
	if a.runs != nil {
		return a.runs, nil
	}
	if !a.cfg.StoreEnabled() {
		return nil, nil
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     a.cfg.Redis.Addr,
		Password: a.cfg.Redis.Password,
		DB:       a.cfg.Redis.DB,
	})
	a.closers = append(a.closers, redisClient.Close)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis at %s: %w", a.cfg.Redis.Addr, err)
	}
	a.logger.Debug().Str("addr", a.cfg.Redis.Addr).Msg("Connected to Redis")

	a.runs = store.New(redisClient, a.cfg.Redis.Retention)
	return a.runs, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
