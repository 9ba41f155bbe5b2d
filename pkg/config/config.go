// Package config loads dashgrid settings from a TOML file.
//
// Every setting has a default, so a missing file is not an error. A
// minimal file might look like:
//
//	dashboard = "ops"
//	breakpoint = "md"
//
//	[storage]
//	backend = "redis"
//	key_prefix = "dg:"
//	  [storage.redis]
//	  addr = "localhost:6379"
//
//	[grid.lg]
//	cols = 12
//	row_height = 96
//	gap = 16
//
//	[sizes.sm]
//	L = { w = 4, h = 3 }
//
//	[[widgets]]
//	name = "csat"
//	title = "Customer satisfaction"
//	min = { w = 2, h = 1 }
//	default = { w = 3, h = 2 }
package config

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/dashgrid/pkg/dashboard"
	"github.com/matzehuels/dashgrid/pkg/errors"
	"github.com/matzehuels/dashgrid/pkg/grid"
	"github.com/matzehuels/dashgrid/pkg/storage"
	"github.com/matzehuels/dashgrid/pkg/widget"
)

// Defaults.
const (
	DefaultAddr         = ":8080"
	DefaultReadTimeout  = 10 * time.Second
	DefaultWriteTimeout = 30 * time.Second
)

// Config is the full settings file.
type Config struct {
	Dashboard  string          `toml:"dashboard"`
	Breakpoint grid.Breakpoint `toml:"breakpoint"`

	Storage storage.Config `toml:"storage"`
	Server  Server         `toml:"server"`

	// Grid and Sizes override individual breakpoints and labels of the
	// built-in tables.
	Grid  map[string]GridSpec            `toml:"grid"`
	Sizes map[string]map[string]SizeSpec `toml:"sizes"`

	// Widgets adds kinds to (or replaces kinds in) the built-in catalog.
	Widgets []Widget `toml:"widgets"`
}

// Server configures `dashgrid serve`.
type Server struct {
	Addr         string        `toml:"addr"`
	ReadTimeout  time.Duration `toml:"read_timeout"`
	WriteTimeout time.Duration `toml:"write_timeout"`
}

// GridSpec overrides the fields of one breakpoint's grid spec that are
// set.
type GridSpec struct {
	Cols      *int     `toml:"cols"`
	RowHeight *float64 `toml:"row_height"`
	Gap       *float64 `toml:"gap"`
}

func (g GridSpec) apply(spec grid.Spec) grid.Spec {
	if g.Cols != nil {
		spec.Cols = *g.Cols
	}
	if g.RowHeight != nil {
		spec.RowHeightPx = *g.RowHeight
	}
	if g.Gap != nil {
		spec.GapPx = *g.Gap
	}
	return spec
}

// SizeSpec is a cell span in TOML form.
type SizeSpec struct {
	W int `toml:"w"`
	H int `toml:"h"`
}

func (s SizeSpec) size() grid.Size { return grid.Size{W: s.W, H: s.H} }

// Widget declares an extra widget kind.
type Widget struct {
	Name    string   `toml:"name"`
	Title   string   `toml:"title"`
	Min     SizeSpec `toml:"min"`
	Default SizeSpec `toml:"default"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Dashboard:  dashboard.DefaultDashboard,
		Breakpoint: grid.Large,
		Storage: storage.Config{
			Backend: storage.BackendFile,
			Timeout: storage.DefaultTimeout,
		},
		Server: Server{
			Addr:         DefaultAddr,
			ReadTimeout:  DefaultReadTimeout,
			WriteTimeout: DefaultWriteTimeout,
		},
	}
}

// DefaultPath returns the config file location using the XDG standard
// (~/.config/dashgrid/config.toml).
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "dashgrid", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "dashgrid", "config.toml"), nil
}

// Load reads path on top of the defaults and validates the result. An
// empty path means DefaultPath, which may be absent; an explicit path
// must exist.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !explicit {
		return Default(), nil
	}
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config")
	}

	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML on top of the defaults and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the whole configuration, including the size table and
// widget catalog it produces.
func (c Config) Validate() error {
	if err := errors.ValidateDashboardID(c.Dashboard); err != nil {
		return err
	}
	if _, err := grid.ParseBreakpoint(string(c.Breakpoint)); err != nil {
		return err
	}
	if err := c.Storage.Validate(); err != nil {
		return err
	}
	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "server.addr must not be empty")
	}

	specs, err := c.Specs()
	if err != nil {
		return err
	}
	if err := specs.Validate(); err != nil {
		return err
	}
	sizes, err := c.SizeTable()
	if err != nil {
		return err
	}
	if err := sizes.Validate(specs); err != nil {
		return err
	}
	return c.Catalog().Validate(sizes)
}

// Specs returns the built-in grid specs with the [grid.*] overrides
// applied.
func (c Config) Specs() (grid.Specs, error) {
	specs := grid.DefaultSpecs()
	for _, name := range slices.Sorted(maps.Keys(c.Grid)) {
		bp, err := grid.ParseBreakpoint(name)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "[grid.%s]", name)
		}
		specs[bp] = c.Grid[name].apply(specs[bp])
	}
	return specs, nil
}

// SizeTable returns the built-in size table with the [sizes.*]
// overrides applied.
func (c Config) SizeTable() (grid.SizeTable, error) {
	table := grid.DefaultSizes()
	for _, name := range slices.Sorted(maps.Keys(c.Sizes)) {
		bp, err := grid.ParseBreakpoint(name)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "[sizes.%s]", name)
		}
		for labelName, s := range c.Sizes[name] {
			label, err := grid.ParseSizeLabel(labelName)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "[sizes.%s]", name)
			}
			table[bp][label] = s.size()
		}
	}
	return table, nil
}

// Catalog returns the built-in widget kinds plus [[widgets]].
func (c Config) Catalog() *widget.Catalog {
	kinds := make([]widget.Kind, 0, len(c.Widgets))
	for _, w := range c.Widgets {
		title := w.Title
		if title == "" {
			title = w.Name
		}
		kinds = append(kinds, widget.Kind{
			Name:        w.Name,
			Title:       title,
			MinSize:     w.Min.size(),
			DefaultSize: w.Default.size(),
		})
	}
	return widget.DefaultCatalog().With(kinds...)
}

// StoreOptions returns dashboard options for the configured grid. The
// caller supplies persistence and logging.
func (c Config) StoreOptions() (dashboard.Options, error) {
	specs, err := c.Specs()
	if err != nil {
		return dashboard.Options{}, err
	}
	sizes, err := c.SizeTable()
	if err != nil {
		return dashboard.Options{}, err
	}
	return dashboard.Options{
		Registry:   c.Catalog(),
		Breakpoint: c.Breakpoint,
		Specs:      specs,
		Sizes:      sizes,
	}, nil
}
