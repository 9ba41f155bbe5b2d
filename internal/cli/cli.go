// Package cli implements the dashgrid command-line interface.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dashgrid/pkg/buildinfo"
	"github.com/matzehuels/dashgrid/pkg/config"
	"github.com/matzehuels/dashgrid/pkg/dashboard"
	"github.com/matzehuels/dashgrid/pkg/errors"
	"github.com/matzehuels/dashgrid/pkg/grid"
	"github.com/matzehuels/dashgrid/pkg/observability"
	"github.com/matzehuels/dashgrid/pkg/storage"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "dashgrid"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Global flags.
	configPath  string
	dashboardID string
	breakpoint  string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Dashgrid arranges dashboard widgets on a responsive grid",
		Long: `Dashgrid is a layout engine for dashboard widgets. It places, moves and
resizes widgets on a column grid without overlaps, keeps layouts valid
across viewport breakpoints and persists them between sessions.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.Logger.GetLevel() <= log.DebugLevel {
				hooks := logHooks{logger: c.Logger}
				observability.SetStoreHooks(hooks)
				observability.SetStorageHooks(hooks)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/dashgrid/config.toml)")
	flags.StringVarP(&c.dashboardID, "dashboard", "d", "", "dashboard id (default: from config)")
	flags.StringVarP(&c.breakpoint, "breakpoint", "b", "", "viewport breakpoint: lg, md, sm (default: last used, else from config)")

	// Layout inspection
	root.AddCommand(c.showCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.kindsCommand())

	// Layout mutations
	root.AddCommand(c.addCommand())
	root.AddCommand(c.removeCommand())
	root.AddCommand(c.moveCommand())
	root.AddCommand(c.resizeCommand())
	root.AddCommand(c.resizeToCommand())
	root.AddCommand(c.cycleCommand())
	root.AddCommand(c.compactCommand())
	root.AddCommand(c.breakpointCommand())
	root.AddCommand(c.resetCommand())

	// Surfaces
	root.AddCommand(c.tuiCommand())
	root.AddCommand(c.serveCommand())

	root.AddCommand(c.storageCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config & Store Factory
// =============================================================================

// loadConfig reads the config file and applies the global flag overrides.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if c.dashboardID != "" {
		cfg.Dashboard = c.dashboardID
	}
	if c.breakpoint != "" {
		bp, err := grid.ParseBreakpoint(c.breakpoint)
		if err != nil {
			return config.Config{}, err
		}
		cfg.Breakpoint = bp
	}
	return cfg, nil
}

// session is an opened, loaded layout store plus the backend behind it.
type session struct {
	cfg     config.Config
	backend storage.Backend
	store   *dashboard.Store
}

func (s *session) Close() error {
	return s.backend.Close()
}

// openSession loads the config, opens the storage backend and loads the
// selected dashboard's layout.
func (c *CLI) openSession(ctx context.Context) (*session, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	if err := errors.ValidateDashboardID(cfg.Dashboard); err != nil {
		return nil, err
	}

	opts, err := cfg.StoreOptions()
	if err != nil {
		return nil, err
	}

	backend, err := openBackend(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}

	persistence := storage.Bind(backend, storage.LayoutKey(cfg.Storage.KeyPrefix, cfg.Dashboard))
	if c.breakpoint == "" {
		if bp, ok := storedBreakpoint(ctx, persistence); ok {
			opts.Breakpoint = bp
			cfg.Breakpoint = bp
		}
	}
	opts.Persistence = persistence
	opts.Logger = c.Logger
	store, err := dashboard.New(opts)
	if err != nil {
		backend.Close()
		return nil, err
	}

	c.Logger.Debug("loading layout", "dashboard", cfg.Dashboard, "backend", backend.Name(), "breakpoint", cfg.Breakpoint)
	store.Load(ctx)

	return &session{cfg: cfg, backend: backend, store: store}, nil
}

// storedBreakpoint returns the breakpoint of the persisted snapshot, so
// that commands run without --breakpoint keep the last one used.
func storedBreakpoint(ctx context.Context, p storage.Persistence) (grid.Breakpoint, bool) {
	data, ok, err := p.Read(ctx)
	if err != nil || !ok {
		return "", false
	}
	snap, err := dashboard.DecodeSnapshot(data)
	if err != nil {
		return "", false
	}
	bp, err := grid.ParseBreakpoint(string(snap.Breakpoint))
	if err != nil {
		return "", false
	}
	return bp, true
}

// openBackend opens the configured storage backend, showing a spinner
// while network backends connect.
func openBackend(ctx context.Context, cfg storage.Config) (storage.Backend, error) {
	switch cfg.Backend {
	case storage.BackendRedis, storage.BackendMongo:
		sp := newSpinner(ctx, os.Stderr, "Connecting to "+cfg.Backend+"...")
		sp.Start()
		defer sp.Stop()
	}
	return storage.Open(ctx, cfg)
}

// withSession runs fn against an opened session and closes it afterwards.
func (c *CLI) withSession(ctx context.Context, fn func(*session) error) error {
	s, err := c.openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}
