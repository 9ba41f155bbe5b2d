package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/dashgrid/pkg/dashboard"
	"github.com/matzehuels/dashgrid/pkg/errors"
	"github.com/matzehuels/dashgrid/pkg/grid"
	"github.com/matzehuels/dashgrid/pkg/observability"
	"github.com/matzehuels/dashgrid/pkg/widget"
)

// testEnv is a config file pointing at a fresh file backend.
type testEnv struct {
	t       *testing.T
	config  string
	dataDir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	env := &testEnv{t: t, config: filepath.Join(dir, "config.toml"), dataDir: filepath.Join(dir, "data")}
	cfg := fmt.Sprintf("[storage]\nbackend = \"file\"\ndir = %q\n", env.dataDir)
	if err := os.WriteFile(env.config, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	return env
}

// run executes one dashgrid invocation and returns what it wrote to the
// command's output.
func (e *testEnv) run(args ...string) (string, error) {
	e.t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{"--config", e.config}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (e *testEnv) mustRun(args ...string) string {
	e.t.Helper()
	out, err := e.run(args...)
	if err != nil {
		e.t.Fatalf("dashgrid %s: %v", strings.Join(args, " "), err)
	}
	return out
}

// snapshot exports the stored layout as JSON.
func (e *testEnv) snapshot(args ...string) dashboard.Snapshot {
	e.t.Helper()
	out := e.mustRun(append(args, "export", "-f", "json")...)
	snap, err := dashboard.DecodeSnapshot([]byte(out))
	if err != nil {
		e.t.Fatalf("decode export: %v\n%s", err, out)
	}
	return snap
}

func findKind(snap dashboard.Snapshot, kind string) (dashboard.Instance, bool) {
	for _, inst := range snap.Instances {
		if inst.Kind == kind {
			return inst, true
		}
	}
	return dashboard.Instance{}, false
}

func findID(snap dashboard.Snapshot, id string) (dashboard.Instance, bool) {
	for _, inst := range snap.Instances {
		if inst.ID == id {
			return inst, true
		}
	}
	return dashboard.Instance{}, false
}

func TestShowSeedsDefaultLayout(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun("show", "--plain")
	for _, want := range []string{"default · lg · 12 columns", widget.KindTicketChart, widget.KindRecentActivity, widget.KindTeamWorkload} {
		if !strings.Contains(out, want) {
			t.Errorf("show output missing %q:\n%s", want, out)
		}
	}

	snap := env.snapshot()
	if len(snap.Instances) != 7 || snap.Breakpoint != grid.Large {
		t.Errorf("persisted %d instances at %q, want 7 at lg", len(snap.Instances), snap.Breakpoint)
	}
}

func TestWidgetCommands(t *testing.T) {
	env := newTestEnv(t)

	env.mustRun("add", widget.KindOpenIssues)
	snap := env.snapshot()
	issues, ok := findKind(snap, widget.KindOpenIssues)
	if !ok {
		t.Fatalf("openIssues not persisted: %+v", snap.Instances)
	}
	if issues.Position() != (grid.Position{X: 3, Y: 4}) || issues.Size != grid.SizeM {
		t.Errorf("added at %s size %s, want (3,4) M", issues.Position(), issues.Size)
	}

	env.mustRun("move", issues.ID, "9", "0")
	moved, _ := findID(env.snapshot(), issues.ID)
	if moved.Y == issues.Y && moved.X == issues.X {
		t.Errorf("move did not change position: %+v", moved)
	}

	env.mustRun("resize-to", issues.ID, "s")
	clamped, _ := findID(env.snapshot(), issues.ID)
	if clamped.Size != grid.SizeM {
		t.Errorf("resize-to S below the 2x2 minimum gave %s, want M", clamped.Size)
	}

	env.mustRun("cycle", issues.ID)
	cycled, _ := findID(env.snapshot(), issues.ID)
	if cycled.Size != grid.SizeL || cycled.Dims() != (grid.Size{W: 6, H: 3}) {
		t.Errorf("cycle from M gave %s %s, want L 6x3", cycled.Size, cycled.Dims())
	}

	env.mustRun("resize", issues.ID, "11", "5")
	near, _ := findID(env.snapshot(), issues.ID)
	if near.Size != grid.SizeXL {
		t.Errorf("resize 11x5 gave %s, want XL", near.Size)
	}

	env.mustRun("remove", issues.ID)
	if _, ok := findID(env.snapshot(), issues.ID); ok {
		t.Error("remove kept the instance")
	}
}

func TestUnknownWidgetIsNotAnError(t *testing.T) {
	env := newTestEnv(t)
	for _, args := range [][]string{
		{"move", "nope", "1", "1"},
		{"resize-to", "nope", "L"},
		{"cycle", "nope"},
		{"remove", "nope"},
	} {
		if _, err := env.run(args...); err != nil {
			t.Errorf("dashgrid %s: %v", strings.Join(args, " "), err)
		}
	}
	if n := len(env.snapshot().Instances); n != 7 {
		t.Errorf("layout has %d instances, want 7", n)
	}
}

func TestCommandErrors(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"unknown kind", []string{"add", "weather"}, errors.ErrCodeUnknownKind},
		{"bad coordinate", []string{"move", "w1", "left", "0"}, errors.ErrCodeInvalidInput},
		{"bad size label", []string{"resize-to", "w1", "XXL"}, errors.ErrCodeInvalidSize},
		{"bad breakpoint argument", []string{"breakpoint", "xl"}, errors.ErrCodeInvalidBreakpoint},
		{"bad breakpoint flag", []string{"--breakpoint", "xl", "show"}, errors.ErrCodeInvalidBreakpoint},
		{"bad dashboard id", []string{"--dashboard", "../etc", "show"}, errors.ErrCodeInvalidInput},
		{"bad export format", []string{"export", "-f", "gif"}, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.run(tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestBreakpointCommand(t *testing.T) {
	env := newTestEnv(t)

	env.mustRun("breakpoint", "sm")
	// Without --breakpoint the stored breakpoint is kept.
	snap := env.snapshot()
	if snap.Breakpoint != grid.Small {
		t.Fatalf("breakpoint = %q, want sm", snap.Breakpoint)
	}
	for _, inst := range snap.Instances {
		if inst.X+inst.W > 4 {
			t.Errorf("%s overflows 4 columns: %+v", inst.ID, inst)
		}
	}
	chart, _ := findKind(snap, widget.KindTicketChart)
	if chart.Size != grid.SizeL || chart.Dims() != (grid.Size{W: 4, H: 2}) {
		t.Errorf("ticketChart on sm = %s %s, want L 4x2", chart.Size, chart.Dims())
	}
}

func TestBreakpointFlagRemapsOnLoad(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("show")

	snap := env.snapshot("-b", "md")
	if snap.Breakpoint != grid.Medium {
		t.Fatalf("breakpoint = %q, want md", snap.Breakpoint)
	}
	for _, inst := range snap.Instances {
		if inst.X+inst.W > 8 {
			t.Errorf("%s overflows 8 columns: %+v", inst.ID, inst)
		}
	}
}

func TestDashboardsAreIndependent(t *testing.T) {
	env := newTestEnv(t)

	env.mustRun("-d", "ops", "add", widget.KindSLABreaches)
	if n := len(env.snapshot("-d", "ops").Instances); n != 8 {
		t.Errorf("ops has %d instances, want 8", n)
	}
	if n := len(env.snapshot().Instances); n != 7 {
		t.Errorf("default has %d instances, want 7", n)
	}
}

func TestCompactAndReset(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("show")

	workload, _ := findKind(env.snapshot(), widget.KindTeamWorkload)
	env.mustRun("move", workload.ID, "0", "20")
	env.mustRun("compact")
	after, _ := findID(env.snapshot(), workload.ID)
	if after.Y > 4 {
		t.Errorf("compacted teamWorkload at y=%d, want at most 4", after.Y)
	}

	env.mustRun("reset")
	snap := env.snapshot()
	if len(snap.Instances) != 7 {
		t.Fatalf("reset gave %d instances", len(snap.Instances))
	}
	if _, ok := findID(snap, workload.ID); ok {
		t.Error("reset kept an old instance id")
	}
}

func TestExportFormats(t *testing.T) {
	env := newTestEnv(t)

	dot := env.mustRun("export", "-f", "dot", "--width", "600")
	if !strings.Contains(dot, "layout=neato") || !strings.Contains(dot, "Ticket") {
		t.Errorf("dot export:\n%s", dot)
	}

	path := filepath.Join(t.TempDir(), "layout.json")
	env.mustRun("export", "-o", path)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := dashboard.DecodeSnapshot(data); err != nil {
		t.Errorf("exported file is not a snapshot: %v", err)
	}
}

func TestKindsCommand(t *testing.T) {
	env := newTestEnv(t)
	out := env.mustRun("kinds")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != len(widget.DefaultCatalog().Kinds()) {
		t.Errorf("got %d kinds:\n%s", len(lines), out)
	}
	if !strings.Contains(out, widget.KindSLABreaches) {
		t.Errorf("kinds output missing slaBreaches:\n%s", out)
	}
}

func TestStorageCommands(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("show")

	if got := strings.TrimSpace(env.mustRun("storage", "path")); got != env.dataDir {
		t.Errorf("storage path = %q, want %q", got, env.dataDir)
	}

	before := env.snapshot()
	env.mustRun("storage", "clear")
	after := env.snapshot()
	if before.Instances[0].ID == after.Instances[0].ID {
		t.Error("clear did not drop the stored layout")
	}

	env.mustRun("storage", "clear", "--all")
	if n := countFiles(t, env.dataDir); n != 0 {
		t.Errorf("%d files left after clear --all", n)
	}
}

func countFiles(t *testing.T, dir string) int {
	t.Helper()
	n := 0
	filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			n++
		}
		return nil
	})
	return n
}

func TestVerboseInstallsLogHooks(t *testing.T) {
	t.Cleanup(observability.Reset)
	env := newTestEnv(t)

	var logs bytes.Buffer
	c := New(&logs, LogDebug)
	root := c.RootCommand()
	root.SetOut(io.Discard)
	root.SetArgs([]string{"--config", env.config, "show"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{"storage read", "layout reseeded", "storage write"} {
		if !strings.Contains(logs.String(), want) {
			t.Errorf("debug log missing %q:\n%s", want, logs.String())
		}
	}
}

func TestCompletion(t *testing.T) {
	env := newTestEnv(t)
	out := env.mustRun("completion", "bash")
	if !strings.Contains(out, "dashgrid") {
		t.Error("bash completion does not mention dashgrid")
	}

	kinds := env.mustRun("__complete", "add", "")
	if !strings.Contains(kinds, widget.KindTicketChart) || !strings.Contains(kinds, widget.KindSLABreaches) {
		t.Errorf("add does not complete widget kinds:\n%s", kinds)
	}
}

func TestSQLiteBackend(t *testing.T) {
	dir := t.TempDir()
	config := filepath.Join(dir, "config.toml")
	dbPath := filepath.Join(dir, "db", "layouts.db")
	cfg := fmt.Sprintf("[storage]\nbackend = \"sqlite\"\n  [storage.sqlite]\n  path = %q\n", dbPath)
	if err := os.WriteFile(config, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	env := &testEnv{t: t, config: config, dataDir: filepath.Dir(dbPath)}

	env.mustRun("add", widget.KindSLABreaches)
	if n := len(env.snapshot().Instances); n != 8 {
		t.Errorf("sqlite layout has %d instances, want 8", n)
	}
	if got := strings.TrimSpace(env.mustRun("storage", "path")); got != env.dataDir {
		t.Errorf("storage path = %q, want %q", got, env.dataDir)
	}
}
