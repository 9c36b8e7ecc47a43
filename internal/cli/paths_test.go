package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/forcegraph/pkg/config"
)

func TestCacheDir(t *testing.T) {
	t.Run("xdg", func(t *testing.T) {
		t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")
		dir, err := cacheDir()
		if err != nil {
			t.Fatalf("cacheDir() error: %v", err)
		}
		if want := filepath.Join("/tmp/xdg-cache", appName); dir != want {
			t.Errorf("cacheDir() = %q, want %q", dir, want)
		}
	})

	t.Run("home", func(t *testing.T) {
		t.Setenv("XDG_CACHE_HOME", "")
		dir, err := cacheDir()
		if err != nil {
			t.Fatalf("cacheDir() error: %v", err)
		}
		home, _ := os.UserHomeDir()
		if want := filepath.Join(home, ".cache", appName); dir != want {
			t.Errorf("cacheDir() = %q, want %q", dir, want)
		}
	})
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		input, output, suffix string
		want                  string
	}{
		{"graph.json", "", ".layout.json", "graph.layout.json"},
		{"dir/g.json", "", ".svg", "dir/g.svg"},
		{"g.json", "out.svg", ".svg", "out.svg"},
		{"noext", "", "_frames", "noext_frames"},
	}

	for _, tt := range tests {
		t.Run(tt.input+tt.suffix, func(t *testing.T) {
			if got := outputPath(tt.input, tt.output, tt.suffix); got != tt.want {
				t.Errorf("outputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCacheLocation(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")
	tests := []struct {
		name  string
		cache config.CacheConfig
		want  string
	}{
		{"default file", config.CacheConfig{}, filepath.Join("/tmp/xdg-cache", appName)},
		{"badger dir", config.CacheConfig{Backend: config.CacheBadger, Dir: "/data/fg"}, "/data/fg"},
		{"redis", config.CacheConfig{Backend: config.CacheRedis, URL: "redis://localhost:6379/0"}, "redis://localhost:6379/0"},
		{"null", config.CacheConfig{Backend: config.CacheNull}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Cache = tt.cache
			if got := cacheLocation(cfg); got != tt.want {
				t.Errorf("cacheLocation() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCachePathCommand(t *testing.T) {
	dir, _ := setup(t)
	root := New(io.Discard, LogInfo).RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"cache", "path"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if got := strings.TrimSpace(out.String()); !strings.HasPrefix(got, dir) {
		t.Errorf("cache path = %q, want under %q", got, dir)
	}
}
