package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/forcegraph/pkg/cache"
	"github.com/matzehuels/forcegraph/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout and artifact cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached layout and artifact",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			store, err := c.newCache(cmd.Context(), cfg, false)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer store.Close()

			if err := cache.Clear(cmd.Context(), store); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			printSuccess("Cache cleared")
			printDetail("Backend: %s", backendName(cfg))
			if loc := cacheLocation(cfg); loc != "" {
				printDetail("Location: %s", loc)
			}
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory or server URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			loc := cacheLocation(cfg)
			if loc == "" {
				return fmt.Errorf("cache backend %q has no location", backendName(cfg))
			}
			fmt.Fprintln(cmd.OutOrStdout(), loc)
			return nil
		},
	}
}

func backendName(cfg *config.Config) string {
	if cfg.Cache.Backend == "" {
		return config.CacheFile
	}
	return cfg.Cache.Backend
}

// cacheLocation is the directory for local backends and the URL for
// remote ones.
func cacheLocation(cfg *config.Config) string {
	switch backendName(cfg) {
	case config.CacheFile, config.CacheBadger:
		if cfg.Cache.Dir != "" {
			return cfg.Cache.Dir
		}
		dir, err := cacheDir()
		if err != nil {
			return ""
		}
		return dir
	case config.CacheRedis, config.CacheMongo:
		return cfg.Cache.URL
	}
	return ""
}
