package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dashgrid/pkg/dashboard"
	"github.com/matzehuels/dashgrid/pkg/grid"
	"github.com/matzehuels/dashgrid/pkg/render"
)

// showCommand creates the "show" command.
func (c *CLI) showCommand() *cobra.Command {
	var (
		plain    bool
		selected string
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the layout as a cell map",
		Long: `Print the layout as a cell map.

Each grid cell is drawn two characters wide. Every widget gets a marker
letter, listed in the legend below the map with its kind, size label,
span, position and id.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), func(s *session) error {
				opts := render.ASCIIOptions{Color: !plain, Selected: selected}
				instances := s.store.Instances()
				spec := s.store.Spec()

				out := cmd.OutOrStdout()
				fmt.Fprintln(out, StyleTitle.Render(fmt.Sprintf("%s · %s · %d columns", s.cfg.Dashboard, s.store.Breakpoint(), spec.Cols)))
				fmt.Fprint(out, render.ASCII(instances, spec, opts))
				fmt.Fprintln(out)
				fmt.Fprint(out, render.Legend(instances, opts))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "disable colors")
	cmd.Flags().StringVar(&selected, "select", "", "highlight the widget with this id")

	return cmd
}

// compactCommand creates the "compact" command.
func (c *CLI) compactCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "compact",
		Short: "Pull every widget up and left as far as it goes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), func(s *session) error {
				before := grid.Bottom(dashboard.Rects(s.store.Instances()))
				s.store.Compact(cmd.Context())
				after := grid.Bottom(dashboard.Rects(s.store.Instances()))
				printSuccess("Compacted layout")
				printDetail("Rows: %d %s %d", before, iconArrow, after)
				return nil
			})
		},
	}
}

// breakpointCommand creates the "breakpoint" command.
func (c *CLI) breakpointCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "breakpoint <lg|md|sm>",
		Short:     "Re-fit the stored layout to another breakpoint",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"lg", "md", "sm"},
		RunE: func(cmd *cobra.Command, args []string) error {
			bp, err := grid.ParseBreakpoint(args[0])
			if err != nil {
				return err
			}
			return c.withSession(cmd.Context(), func(s *session) error {
				from := s.store.Breakpoint()
				if err := s.store.SetBreakpoint(cmd.Context(), bp); err != nil {
					return err
				}
				printSuccess("Breakpoint %s %s %s", from, iconArrow, bp)
				return nil
			})
		},
	}
}

// resetCommand creates the "reset" command.
func (c *CLI) resetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Replace the layout with the default dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), func(s *session) error {
				s.store.ResetToDefaults(cmd.Context())
				printSuccess("Reset layout to %d default widgets", len(s.store.Instances()))
				printNextStep("View it", "dashgrid show")
				return nil
			})
		},
	}
}
