// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jeranaias/chatterm/internal/api"
	"github.com/jeranaias/chatterm/internal/chat"
	"github.com/jeranaias/chatterm/internal/config"
	"github.com/jeranaias/chatterm/internal/logging"
	"github.com/jeranaias/chatterm/internal/storage"
	"github.com/jeranaias/chatterm/internal/ui/styles"
)

// annotationLogToFile marks commands that own the terminal, so logs go to
// the log file instead of stderr.
const annotationLogToFile = "chatterm/log-to-file"

// rootOptions holds the global flags.
type rootOptions struct {
	configPath string
	apiURL     string
	storage    string
	logLevel   string
	ephemeral  bool
	showIntent bool
}

// appEnv is the state shared by every command after bootstrap.
type appEnv struct {
	flags rootOptions

	cfg     *config.Config
	cfgPath string
	logs    io.Closer
}

// =============================================================================
// ENTRY POINT
// =============================================================================

// Execute runs the command line and returns the process exit code.
func Execute(version string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return run(ctx, version, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}

func run(ctx context.Context, version string, args []string, in io.Reader, out, errOut io.Writer) int {
	env := &appEnv{}
	cmd := newRootCommand(env, version)
	cmd.SetArgs(args)
	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	err := cmd.ExecuteContext(ctx)
	env.close()
	if err != nil {
		fmt.Fprintln(errOut, styles.RenderError(err.Error()))
		return 1
	}
	return 0
}

func newRootCommand(env *appEnv, version string) *cobra.Command {
	root := &cobra.Command{
		Use:     "chatterm",
		Short:   "Terminal chat client",
		Long:    "chatterm talks to a chat backend over HTTP and keeps the conversation in the terminal.",
		Version: version,
		Args:    cobra.NoArgs,
		Annotations: map[string]string{
			annotationLogToFile: "true",
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return env.bootstrap(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return env.runTUI(cmd.Context())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&env.flags.configPath, "config", "", "config file (default ~/.chatterm/config.toml)")
	pf.StringVar(&env.flags.apiURL, "api-url", "", "backend base URL")
	pf.StringVar(&env.flags.storage, "storage", "", "session storage driver: memory, file, sqlite, redis")
	pf.StringVar(&env.flags.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	pf.BoolVar(&env.flags.ephemeral, "ephemeral", false, "keep the session id in memory only")
	root.Flags().BoolVar(&env.flags.showIntent, "show-intent", false, "tag replies with the backend intent")

	root.AddCommand(
		newTUICommand(env),
		newAskCommand(env),
		newREPLCommand(env),
		newSessionCommand(env),
		newConfigCommand(env),
		newServeCommand(env),
	)
	return root
}

// =============================================================================
// BOOTSTRAP
// =============================================================================

// bootstrap loads configuration and installs the logger.
// Precedence: defaults, config file, .env and environment, then flags.
func (e *appEnv) bootstrap(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	var (
		cfg *config.Config
		err error
	)
	if e.flags.configPath != "" {
		e.cfgPath = e.flags.configPath
		cfg, err = config.LoadFromPath(e.cfgPath)
	} else {
		if e.cfgPath, err = config.ActivePath(); err != nil {
			return err
		}
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	e.applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	e.cfg = cfg

	opts := logging.Options{
		Level:  cfg.Log.Level,
		Mode:   logging.ModeConsole,
		Stderr: cmd.ErrOrStderr(),
	}
	if cmd.Annotations[annotationLogToFile] == "true" {
		file, err := cfg.Log.ResolvedFile()
		if err != nil {
			return err
		}
		opts.Mode = logging.ModeFile
		opts.File = file
	}
	closer, err := logging.Setup(opts)
	if err != nil {
		return err
	}
	e.logs = closer

	log.Debug().
		Str("command", cmd.CommandPath()).
		Str("config", e.cfgPath).
		Str("storage", cfg.Storage.Driver).
		Msg("bootstrap complete")
	return nil
}

func (e *appEnv) applyFlags(cfg *config.Config) {
	if e.flags.apiURL != "" {
		cfg.API.BaseURL = e.flags.apiURL
	}
	if e.flags.storage != "" {
		cfg.Storage.Driver = e.flags.storage
	}
	if e.flags.logLevel != "" {
		cfg.Log.Level = e.flags.logLevel
	}
	if e.flags.ephemeral {
		cfg.Storage.Driver = string(storage.DriverMemory)
	}
}

func (e *appEnv) close() {
	if e.logs != nil {
		e.logs.Close()
		e.logs = nil
	}
}

// =============================================================================
// WIRING
// =============================================================================

// openStore opens the configured session store.
func (e *appEnv) openStore() (storage.Store, error) {
	driver, err := storage.ParseDriver(e.cfg.Storage.Driver)
	if err != nil {
		return nil, err
	}

	var opts []storage.Option
	switch driver {
	case storage.DriverFile, storage.DriverSQLite:
		path, err := e.cfg.Storage.ResolvedPath()
		if err != nil {
			return nil, err
		}
		opts = append(opts, storage.WithPath(path))
	case storage.DriverRedis:
		opts = append(opts,
			storage.WithRedisURL(e.cfg.Storage.RedisURL),
			storage.WithRedisTTL(time.Duration(e.cfg.Storage.RedisTTLHours)*time.Hour),
		)
	}
	return storage.NewStore(driver, opts...)
}

// newClient builds the HTTP client for the configured backend.
func (e *appEnv) newClient() *api.Client {
	return api.New(e.cfg.API.BaseURL).
		WithTimeout(e.cfg.API.Timeout()).
		WithMaxRetries(e.cfg.API.MaxRetries).
		WithRateLimit(e.cfg.API.RateLimitPerSec)
}

// newController wires client and store into a controller and resumes the
// saved session. The caller closes the returned store.
func (e *appEnv) newController(ctx context.Context) (*chat.Controller, storage.Store, error) {
	store, err := e.openStore()
	if err != nil {
		return nil, nil, fmt.Errorf("open %s storage: %w", e.cfg.Storage.Driver, err)
	}

	var opts []chat.Option
	if e.cfg.UI.Greeting != "" {
		opts = append(opts, chat.WithGreeting(e.cfg.UI.Greeting))
	}
	ctrl := chat.New(e.newClient(), store, opts...)
	if err := ctrl.LoadPersistedSession(ctx); err != nil {
		log.Warn().Err(err).Msg("could not load saved session")
	}
	return ctrl, store, nil
}
