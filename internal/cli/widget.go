package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dashgrid/pkg/dashboard"
	"github.com/matzehuels/dashgrid/pkg/errors"
	"github.com/matzehuels/dashgrid/pkg/grid"
)

// addCommand creates the "add" command.
func (c *CLI) addCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <kind>",
		Short: "Add a widget at its default size in the first free slot",
		Args:  cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return c.kindNames(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), func(s *session) error {
				inst, err := s.store.Add(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				printSuccess("Added %s", describe(inst))
				printNextStep("Resize it", fmt.Sprintf("dashgrid cycle %s", inst.ID))
				return nil
			})
		},
	}
}

// removeCommand creates the "remove" command.
func (c *CLI) removeCommand() *cobra.Command {
	var noCompact bool

	cmd := &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a widget and compact the layout",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []dashboard.RemoveOption
			if noCompact {
				opts = append(opts, dashboard.WithoutCompaction())
			}
			return c.withSession(cmd.Context(), func(s *session) error {
				if !s.store.Remove(cmd.Context(), args[0], opts...) {
					printWarning("No widget %q", args[0])
					return nil
				}
				printSuccess("Removed %s", args[0])
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&noCompact, "no-compact", false, "leave the remaining widgets in place")

	return cmd
}

// moveCommand creates the "move" command.
func (c *CLI) moveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <x> <y>",
		Short: "Move a widget to the nearest free cell",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, y, err := parsePair(args[1], args[2])
			if err != nil {
				return err
			}
			return c.mutate(cmd.Context(), args[0], "Moved", func(s *dashboard.Store) (dashboard.Instance, bool) {
				return s.Move(cmd.Context(), args[0], grid.Position{X: x, Y: y})
			})
		},
	}
}

// resizeCommand creates the "resize" command.
func (c *CLI) resizeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resize <id> <w> <h>",
		Short: "Resize a widget to the size label nearest to w x h",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, h, err := parsePair(args[1], args[2])
			if err != nil {
				return err
			}
			return c.mutate(cmd.Context(), args[0], "Resized", func(s *dashboard.Store) (dashboard.Instance, bool) {
				return s.Resize(cmd.Context(), args[0], grid.Size{W: w, H: h})
			})
		},
	}
}

// resizeToCommand creates the "resize-to" command.
func (c *CLI) resizeToCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "resize-to <id> <S|M|L|XL>",
		Short:     "Resize a widget to a size label",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"S", "M", "L", "XL"},
		RunE: func(cmd *cobra.Command, args []string) error {
			label, err := grid.ParseSizeLabel(args[1])
			if err != nil {
				return err
			}
			return c.mutate(cmd.Context(), args[0], "Resized", func(s *dashboard.Store) (dashboard.Instance, bool) {
				return s.ResizeTo(cmd.Context(), args[0], label)
			})
		},
	}
}

// cycleCommand creates the "cycle" command.
func (c *CLI) cycleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cycle <id>",
		Short: "Grow a widget to the next size label",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.mutate(cmd.Context(), args[0], "Resized", func(s *dashboard.Store) (dashboard.Instance, bool) {
				return s.CycleSize(cmd.Context(), args[0])
			})
		},
	}
}

// kindsCommand creates the "kinds" command.
func (c *CLI) kindsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List the widget kinds that can be added",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, k := range cfg.Catalog().Kinds() {
				fmt.Fprintf(out, "%-16s %-24s min %-5s default %s\n", k.Name, k.Title, k.MinSize, k.DefaultSize)
			}
			return nil
		},
	}
}

// kindNames lists the configured kinds for shell completion.
func (c *CLI) kindNames() []string {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil
	}
	var names []string
	for _, k := range cfg.Catalog().Kinds() {
		names = append(names, k.Name)
	}
	return names
}

// mutate opens a session, applies fn and reports the result. Unknown ids
// are reported but are not an error.
func (c *CLI) mutate(ctx context.Context, id, verb string, fn func(*dashboard.Store) (dashboard.Instance, bool)) error {
	return c.withSession(ctx, func(s *session) error {
		inst, ok := fn(s.store)
		if !ok {
			printWarning("No widget %q", id)
			return nil
		}
		printSuccess("%s %s", verb, describe(inst))
		return nil
	})
}

// describe formats an instance as "w3 (stat M 3x2 at (0,0))".
func describe(inst dashboard.Instance) string {
	return fmt.Sprintf("%s %s", inst.ID, StyleDim.Render(fmt.Sprintf("(%s %s %s at %s)", inst.Kind, inst.Size, inst.Dims(), inst.Position())))
}

func parsePair(a, b string) (int, int, error) {
	x, err := strconv.Atoi(a)
	if err != nil {
		return 0, 0, errors.New(errors.ErrCodeInvalidInput, "not an integer: %q", a)
	}
	y, err := strconv.Atoi(b)
	if err != nil {
		return 0, 0, errors.New(errors.ErrCodeInvalidInput, "not an integer: %q", b)
	}
	return x, y, nil
}
