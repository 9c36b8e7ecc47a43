package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/forcegraph/pkg/config"
	fgio "github.com/matzehuels/forcegraph/pkg/io"
)

const triangle = `{
  "nodes": [{"id": "a", "name": "Alpha"}, {"id": "b"}, {"id": "c"}],
  "edges": [{"from": "a", "to": "b"}, {"from": "b", "to": "c"}, {"from": "c", "to": "a"}]
}`

// setup isolates config and cache directories and writes a graph file.
func setup(t *testing.T) (dir, graphPath string) {
	t.Helper()
	dir = t.TempDir()
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	graphPath = filepath.Join(dir, "triangle.json")
	if err := os.WriteFile(graphPath, []byte(triangle), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir, graphPath
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	for _, want := range []string{"layout", "render", "animate", "watch", "serve", "cache", "completion"} {
		if !slices.Contains(names, want) {
			t.Errorf("missing subcommand %q in %v", want, names)
		}
	}
	for _, flag := range []string{"verbose", "config"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("missing persistent flag --%s", flag)
		}
	}
}

func TestLayoutCommand(t *testing.T) {
	dir, graphPath := setup(t)
	out := filepath.Join(dir, "out.json")

	if err := execute(t, "layout", graphPath, "-o", out, "--seed", "7"); err != nil {
		t.Fatalf("layout: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	layout, err := fgio.ReadLayout(f)
	if err != nil {
		t.Fatalf("ReadLayout: %v", err)
	}
	if len(layout.Nodes) != 3 {
		t.Errorf("layout has %d nodes, want 3", len(layout.Nodes))
	}
	if layout.Iterations == 0 {
		t.Error("layout reports zero iterations")
	}
}

func TestLayoutCommandMissingFile(t *testing.T) {
	dir, _ := setup(t)
	err := execute(t, "layout", filepath.Join(dir, "missing.json"))
	if err == nil || !strings.Contains(err.Error(), "missing.json") {
		t.Errorf("error = %v, want mention of the missing file", err)
	}
}

func TestRenderCommand(t *testing.T) {
	dir, graphPath := setup(t)
	base := filepath.Join(dir, "out", "frame")
	if err := os.MkdirAll(filepath.Dir(base), 0o755); err != nil {
		t.Fatal(err)
	}

	if err := execute(t, "render", graphPath, "-f", "svg,dot,json,txt", "-o", base, "--no-cache"); err != nil {
		t.Fatalf("render: %v", err)
	}

	checks := map[string]string{
		".svg":  "<svg",
		".dot":  "graph G",
		".json": `"nodes"`,
		".txt":  "\n",
	}
	for ext, want := range checks {
		data, err := os.ReadFile(base + ext)
		if err != nil {
			t.Errorf("%s: %v", ext, err)
			continue
		}
		if !bytes.Contains(data, []byte(want)) {
			t.Errorf("%s does not contain %q", ext, want)
		}
	}
}

func TestRenderCommandInvalidFormat(t *testing.T) {
	_, graphPath := setup(t)
	if err := execute(t, "render", graphPath, "-f", "gif"); err == nil {
		t.Error("expected error for unsupported format")
	}
	if err := execute(t, "render", graphPath, "--graphviz", "pdf"); err == nil {
		t.Error("expected error for unsupported graphviz output")
	}
}

func TestAnimateCommand(t *testing.T) {
	dir, graphPath := setup(t)
	frames := filepath.Join(dir, "frames")

	err := execute(t, "animate", graphPath, "-d", frames, "-f", "svg", "-n", "4", "--scatter", "random", "--no-cache")
	if err != nil {
		t.Fatalf("animate: %v", err)
	}

	entries, err := os.ReadDir(frames)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 4 {
		t.Errorf("wrote %d frames, want 4", len(entries))
	}
	if entries[0].Name() != "frame_0000.svg" {
		t.Errorf("first frame = %q", entries[0].Name())
	}
}

func TestConfigFlag(t *testing.T) {
	dir, graphPath := setup(t)

	cfg := config.Default()
	cfg.Width = 0
	bad := filepath.Join(dir, "bad.toml")
	if err := config.Save(bad, cfg); err != nil {
		t.Fatal(err)
	}
	if err := execute(t, "--config", bad, "layout", graphPath); err == nil {
		t.Error("expected invalid config to fail")
	}

	if err := execute(t, "--config", filepath.Join(dir, "absent.toml"), "layout", graphPath); err == nil {
		t.Error("expected missing config to fail")
	}
}

func TestLayoutFlagsApply(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		fileSeed uint64
		wantSeed uint64
		wantW    int
		labels   bool
	}{
		{"defaults fill unset seed", nil, 0, defaultSeed, config.DefaultWidth, true},
		{"config seed kept", nil, 99, 99, config.DefaultWidth, true},
		{"flag overrides config", []string{"--seed", "5"}, 99, 5, config.DefaultWidth, true},
		{"size and labels", []string{"--width", "320", "--no-labels"}, 0, defaultSeed, 320, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var flags layoutFlags
			cmd := &cobra.Command{Use: "test"}
			flags.bind(cmd)
			if err := cmd.Flags().Parse(tt.args); err != nil {
				t.Fatal(err)
			}

			cfg := config.Default()
			cfg.Physics.Seed = tt.fileSeed
			flags.apply(cmd, cfg)

			if cfg.Physics.Seed != tt.wantSeed {
				t.Errorf("seed = %d, want %d", cfg.Physics.Seed, tt.wantSeed)
			}
			if cfg.Width != tt.wantW {
				t.Errorf("width = %d, want %d", cfg.Width, tt.wantW)
			}
			if cfg.WithLabels != tt.labels {
				t.Errorf("labels = %t, want %t", cfg.WithLabels, tt.labels)
			}
		})
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"svg"}},
		{"png", []string{"png"}},
		{"svg, dot ,json", []string{"svg", "dot", "json"}},
	}
	for _, tt := range tests {
		if got := parseFormats(tt.in); !slices.Equal(got, tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			var buf bytes.Buffer
			root := New(io.Discard, LogInfo).RootCommand()
			root.SetOut(&buf)
			root.SetArgs([]string{"completion", shell})
			if err := root.Execute(); err != nil {
				t.Fatalf("completion %s: %v", shell, err)
			}
			if !strings.Contains(buf.String(), appName) {
				t.Errorf("completion script does not mention %s", appName)
			}
		})
	}
}

func TestVerboseSetsDebugLevel(t *testing.T) {
	_, graphPath := setup(t)
	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	root := c.RootCommand()
	root.SetArgs([]string{"-v", "layout", graphPath, "--no-cache", "-o", filepath.Join(t.TempDir(), "l.json")})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatal(err)
	}
	if c.Logger.GetLevel() != log.DebugLevel {
		t.Errorf("level = %v, want debug", c.Logger.GetLevel())
	}
}
