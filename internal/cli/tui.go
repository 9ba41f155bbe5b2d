package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dashgrid/pkg/dashboard"
	"github.com/matzehuels/dashgrid/pkg/grid"
	"github.com/matzehuels/dashgrid/pkg/render"
	"github.com/matzehuels/dashgrid/pkg/widget"
)

// Grid surface styles
var (
	surfaceStatusStyle = lipgloss.NewStyle().Foreground(colorMuted)
	surfaceDragStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorWarn)
)

// tuiCommand creates the "tui" command.
func (c *CLI) tuiCommand() *cobra.Command {
	var width float64

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Arrange the layout interactively",
		Long: `Arrange the layout interactively.

  ←/→ ↑/↓   select a widget (while dragging: move the preview one cell)
  space     start dragging the selected widget
  enter     drop
  esc       cancel the drag
  + / -     grow / shrink to the next size label
  a         add a widget (cycles through the kinds)
  d         remove the selected widget
  c         compact
  1 2 3     switch to lg, md, sm
  r         reset to the default layout
  q         quit

Every change is persisted immediately.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), func(s *session) error {
				m := NewGridModel(cmd.Context(), s.store, s.cfg.Catalog().Kinds(), width)
				_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
				return err
			})
		},
	}

	cmd.Flags().Float64Var(&width, "width", render.DefaultWidth, "container width in pixels used for dragging")

	return cmd
}

// =============================================================================
// Key Bindings
// =============================================================================

// gridKeyMap holds the grid surface key bindings. The arrows select while
// idle and move the preview while dragging.
type gridKeyMap struct {
	Left    key.Binding
	Right   key.Binding
	Up      key.Binding
	Down    key.Binding
	Drag    key.Binding
	Drop    key.Binding
	Cancel  key.Binding
	Grow    key.Binding
	Shrink  key.Binding
	Add     key.Binding
	Remove  key.Binding
	Compact key.Binding
	Large   key.Binding
	Medium  key.Binding
	Small   key.Binding
	Reset   key.Binding
	Quit    key.Binding
}

var gridKeys = gridKeyMap{
	Left:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/→", "select")),
	Right:   key.NewBinding(key.WithKeys("right", "l")),
	Up:      key.NewBinding(key.WithKeys("up", "k")),
	Down:    key.NewBinding(key.WithKeys("down", "j")),
	Drag:    key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "drag")),
	Drop:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("⏎", "drop")),
	Cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	Grow:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "size")),
	Shrink:  key.NewBinding(key.WithKeys("-")),
	Add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
	Remove:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "remove")),
	Compact: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "compact")),
	Large:   key.NewBinding(key.WithKeys("1"), key.WithHelp("1/2/3", "lg/md/sm")),
	Medium:  key.NewBinding(key.WithKeys("2")),
	Small:   key.NewBinding(key.WithKeys("3")),
	Reset:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// ShortHelp implements help.KeyMap for the idle surface.
func (k gridKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Drag, k.Grow, k.Add, k.Remove, k.Compact, k.Large, k.Reset, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k gridKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp(), k.dragHelp()}
}

func (k gridKeyMap) dragHelp() []key.Binding {
	move := key.NewBinding(key.WithKeys("left", "right", "up", "down"), key.WithHelp("arrows", "move"))
	return []key.Binding{move, k.Drop, k.Cancel}
}

// =============================================================================
// GridModel - Interactive grid surface
// =============================================================================

// GridModel is the bubbletea model for the interactive grid surface.
type GridModel struct {
	ctx   context.Context
	store *dashboard.Store
	kinds []widget.Kind
	width float64

	Selected string
	nextKind int

	drag   *dashboard.Drag
	dx, dy float64

	status string
	help   help.Model
}

// NewGridModel creates a grid surface over store. width is the container
// width in pixels that drag offsets are measured against.
func NewGridModel(ctx context.Context, store *dashboard.Store, kinds []widget.Kind, width float64) GridModel {
	if width <= 0 {
		width = render.DefaultWidth
	}
	m := GridModel{ctx: ctx, store: store, kinds: kinds, width: width, help: help.New()}
	if list := store.Instances(); len(list) > 0 {
		m.Selected = list[0].ID
	}
	return m
}

func (m GridModel) Init() tea.Cmd {
	return nil
}

func (m GridModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if keyMsg.Type == tea.KeyCtrlC {
		m.cancelDrag()
		return m, tea.Quit
	}
	if m.drag != nil {
		return m.updateDrag(keyMsg)
	}

	switch {
	case matches(keyMsg, gridKeys.Quit):
		return m, tea.Quit
	case matches(keyMsg, gridKeys.Left, gridKeys.Up):
		m.selectBy(-1)
	case matches(keyMsg, gridKeys.Right, gridKeys.Down):
		m.selectBy(1)
	case matches(keyMsg, gridKeys.Drag):
		m.beginDrag()
	case matches(keyMsg, gridKeys.Grow):
		m.resizeBy(1)
	case matches(keyMsg, gridKeys.Shrink):
		m.resizeBy(-1)
	case matches(keyMsg, gridKeys.Add):
		m.add()
	case matches(keyMsg, gridKeys.Remove):
		m.remove()
	case matches(keyMsg, gridKeys.Compact):
		m.store.Compact(m.ctx)
		m.status = "compacted"
	case matches(keyMsg, gridKeys.Large):
		m.setBreakpoint(grid.Large)
	case matches(keyMsg, gridKeys.Medium):
		m.setBreakpoint(grid.Medium)
	case matches(keyMsg, gridKeys.Small):
		m.setBreakpoint(grid.Small)
	case matches(keyMsg, gridKeys.Reset):
		m.store.ResetToDefaults(m.ctx)
		m.Selected = ""
		m.selectBy(0)
		m.status = "reset to defaults"
	}
	return m, nil
}

func (m GridModel) updateDrag(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	spec := m.store.Spec()
	pitchX := grid.ColumnWidth(m.width, spec) + spec.GapPx
	pitchY := spec.RowHeightPx + spec.GapPx

	switch {
	case matches(msg, gridKeys.Left):
		m.dragBy(-pitchX, 0)
	case matches(msg, gridKeys.Right):
		m.dragBy(pitchX, 0)
	case matches(msg, gridKeys.Up):
		m.dragBy(0, -pitchY)
	case matches(msg, gridKeys.Down):
		m.dragBy(0, pitchY)
	case matches(msg, gridKeys.Drop):
		if inst, ok := m.drag.Drop(m.ctx); ok {
			m.status = fmt.Sprintf("moved %s to %s", inst.ID, inst.Position())
		}
		m.drag = nil
	case matches(msg, gridKeys.Cancel):
		m.cancelDrag()
		m.status = "drag cancelled"
	}
	return m, nil
}

func matches(msg tea.KeyMsg, bindings ...key.Binding) bool {
	return key.Matches(msg, bindings...)
}

func (m *GridModel) dragBy(dx, dy float64) {
	m.dx += dx
	m.dy += dy
	m.drag.Update(m.dx, m.dy)
}

func (m *GridModel) beginDrag() {
	drag, ok := m.store.BeginDrag(m.Selected, m.width)
	if !ok {
		return
	}
	m.drag, m.dx, m.dy = drag, 0, 0
	m.status = ""
}

func (m *GridModel) cancelDrag() {
	if m.drag != nil {
		m.drag.Cancel()
		m.drag = nil
	}
}

// selectBy moves the selection delta places through the layout, wrapping
// at both ends. A selection that no longer exists falls back to the
// first widget.
func (m *GridModel) selectBy(delta int) {
	list := m.store.Instances()
	if len(list) == 0 {
		m.Selected = ""
		return
	}
	i := 0
	for j, inst := range list {
		if inst.ID == m.Selected {
			i = (j + delta + len(list)) % len(list)
			break
		}
	}
	m.Selected = list[i].ID
}

func (m *GridModel) resizeBy(step int) {
	inst, ok := m.store.Get(m.Selected)
	if !ok {
		return
	}
	label := inst.Size
	if !label.Valid() {
		label = grid.NearestSize(m.store.Sizes(), m.store.Breakpoint(), inst.Dims())
	}
	if step > 0 {
		label = label.Next()
	} else {
		label = label.Prev()
	}
	if inst, ok = m.store.ResizeTo(m.ctx, inst.ID, label); ok {
		m.status = fmt.Sprintf("%s is %s (%s)", inst.ID, inst.Size, inst.Dims())
	}
}

func (m *GridModel) add() {
	if len(m.kinds) == 0 {
		return
	}
	kind := m.kinds[m.nextKind%len(m.kinds)]
	m.nextKind++
	inst, err := m.store.Add(m.ctx, kind.Name)
	if err != nil {
		m.status = err.Error()
		return
	}
	m.Selected = inst.ID
	m.status = fmt.Sprintf("added %s at %s", inst.Kind, inst.Position())
}

func (m *GridModel) remove() {
	id := m.Selected
	if !m.store.Remove(m.ctx, id) {
		return
	}
	m.selectBy(0)
	m.status = "removed " + id
}

func (m *GridModel) setBreakpoint(bp grid.Breakpoint) {
	if err := m.store.SetBreakpoint(m.ctx, bp); err != nil {
		m.status = err.Error()
		return
	}
	m.status = fmt.Sprintf("breakpoint %s", bp)
}

func (m GridModel) View() string {
	var b strings.Builder

	spec := m.store.Spec()
	instances := m.store.Instances()
	opts := render.ASCIIOptions{Color: true, Selected: m.Selected}
	if m.drag != nil {
		if inst, ok := m.store.Get(m.drag.ID()); ok {
			ghost := inst.Rect().At(m.drag.Preview())
			opts.Preview = &ghost
		}
	}

	b.WriteString(StyleTitle.Render(fmt.Sprintf("Dashboard · %s · %d columns", m.store.Breakpoint(), spec.Cols)))
	b.WriteString("\n\n")
	b.WriteString(render.ASCII(instances, spec, opts))
	b.WriteString("\n")
	b.WriteString(render.Legend(instances, opts))
	b.WriteString("\n")

	if m.drag != nil {
		px := m.drag.PreviewPx()
		b.WriteString(surfaceDragStyle.Render(fmt.Sprintf("dragging %s → %s  (%.0fpx, %.0fpx)", m.drag.ID(), m.drag.Preview(), px.Left, px.Top)))
		b.WriteString("\n")
		b.WriteString(m.help.ShortHelpView(gridKeys.dragHelp()))
	} else {
		b.WriteString(m.help.ShortHelpView(gridKeys.ShortHelp()))
	}
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(surfaceStatusStyle.Render(m.status))
		b.WriteString("\n")
	}
	return b.String()
}
