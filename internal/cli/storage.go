package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dashgrid/pkg/config"
	"github.com/matzehuels/dashgrid/pkg/storage"
)

// storageCommand creates the storage management command.
func (c *CLI) storageCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "storage",
		Short: "Manage persisted layouts",
	}

	cmd.AddCommand(c.storageClearCommand())
	cmd.AddCommand(c.storagePathCommand())

	return cmd
}

// storageClearCommand creates the "storage clear" subcommand.
func (c *CLI) storageClearCommand() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the persisted layout of the selected dashboard",
		Long: `Delete the persisted layout of the selected dashboard.

The next command that opens the dashboard starts from the default layout.
With --all, every file in the local data directory is removed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			if all {
				dir, err := dataDir(cfg)
				if err != nil {
					return err
				}
				return clearDir(dir)
			}

			backend, err := openBackend(cmd.Context(), cfg.Storage)
			if err != nil {
				return err
			}
			defer backend.Close()

			key := storage.LayoutKey(cfg.Storage.KeyPrefix, cfg.Dashboard)
			if err := backend.Delete(cmd.Context(), key); err != nil {
				return fmt.Errorf("delete %s: %w", key, err)
			}
			printSuccess("Cleared layout of %s", cfg.Dashboard)
			printDetail("Key: %s (%s)", key, backend.Name())
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "remove every layout in the data directory (file and sqlite backends)")

	return cmd
}

// storagePathCommand creates the "storage path" subcommand.
func (c *CLI) storagePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the directory holding local layouts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			dir, err := dataDir(cfg)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}

// dataDir returns the directory holding cfg's local layouts.
func dataDir(cfg config.Config) (string, error) {
	switch cfg.Storage.Backend {
	case "", storage.BackendFile:
	case storage.BackendSQLite:
		if cfg.Storage.SQLite.Path != "" {
			return filepath.Dir(cfg.Storage.SQLite.Path), nil
		}
	default:
		return "", fmt.Errorf("storage backend %q has no data directory", cfg.Storage.Backend)
	}
	if cfg.Storage.Dir != "" {
		return cfg.Storage.Dir, nil
	}
	dir, err := storage.DefaultDir()
	if err != nil {
		return "", fmt.Errorf("get data dir: %w", err)
	}
	return dir, nil
}

// clearDir removes every file below dir.
func clearDir(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		printInfo("Storage is empty")
		return nil
	}

	count := 0
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip errors, continue walking
		}
		if !info.IsDir() {
			if err := os.Remove(path); err == nil {
				count++
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	printSuccess("Cleared %d stored layouts", count)
	printDetail("Directory: %s", dir)
	return nil
}
