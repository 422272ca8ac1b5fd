package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Norgate-AV/sassbuild/internal/cache"
	"github.com/Norgate-AV/sassbuild/internal/config"
	"github.com/Norgate-AV/sassbuild/internal/logger"
)

var cacheCmd = &cobra.Command{
	Use:          "cache",
	Short:        "Manage the build cache",
	SilenceUsage: true,
}

var cacheStatsCmd = &cobra.Command{
	Use:          "stats",
	Short:        "Show cache statistics",
	Args:         cobra.NoArgs,
	RunE:         runCacheStats,
	SilenceUsage: true,
}

var cacheClearCmd = &cobra.Command{
	Use:          "clear",
	Short:        "Remove all cached builds",
	Args:         cobra.NoArgs,
	RunE:         runCacheClear,
	SilenceUsage: true,
}

func init() {
	cacheCmd.PersistentFlags().String("cache-dir", "", "Cache directory (default <package>/"+config.DefaultCacheDir+")")
	cacheCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

func openCache(cmd *cobra.Command) (*cache.Cache, *logger.Logger, error) {
	workDir, err := os.Getwd()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	cfg, err := config.NewLoader().LoadForBuild(cmd, workDir)
	if err != nil {
		return nil, nil, err
	}

	log := logger.New(cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg.Verbose)
	log.Debug("Cache: %s", cfg.CacheDir)

	c, err := cache.New(cfg.CacheDir)
	if err != nil {
		return nil, nil, err
	}

	return c, log, nil
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	c, log, err := openCache(cmd)
	if err != nil {
		return err
	}
	defer c.Close()

	count, size, err := c.Stats()
	if err != nil {
		return fmt.Errorf("failed to read cache stats: %w", err)
	}

	log.Info("Cache: %s", c.Dir())
	log.Info("Entries: %d", count)
	log.Info("Size: %s", formatBytes(size))

	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	c, log, err := openCache(cmd)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.Clear(); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	log.Success("Cache cleared")

	return nil
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}

	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
