package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Norgate-AV/sassbuild/internal/cache"
	"github.com/Norgate-AV/sassbuild/internal/compiler"
	"github.com/Norgate-AV/sassbuild/internal/config"
	"github.com/Norgate-AV/sassbuild/internal/fetcher"
	"github.com/Norgate-AV/sassbuild/internal/installer"
	"github.com/Norgate-AV/sassbuild/internal/locator"
	"github.com/Norgate-AV/sassbuild/internal/logger"
	"github.com/Norgate-AV/sassbuild/internal/noderuntime"
	"github.com/Norgate-AV/sassbuild/internal/options"
	"github.com/Norgate-AV/sassbuild/internal/orchestrator"
	"github.com/Norgate-AV/sassbuild/internal/platform"
)

func runBuild(cmd *cobra.Command, args []string) error {
	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	cfg, err := config.NewLoader().LoadForBuild(cmd, workDir)
	if err != nil {
		return err
	}

	log := logger.New(cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg.Verbose)
	opts := options.Parse(args, platform.Platform(), platform.Arch(), cfg.ForceBuild)

	log.Debug("Package: %s", cfg.PackageDir)
	log.Debug("Target: %s-%s (%s)", opts.Platform, opts.Arch, opts.Configuration())

	o, cleanup := newOrchestrator(cfg, opts, log)
	defer cleanup()

	_, err = o.Run(ctxOf(cmd), opts)

	var buildErr *compiler.BuildError
	if errors.As(err, &buildErr) {
		log.Debug("%s", buildErr.Detail())
	}

	return err
}

// newOrchestrator wires the components of a run. The returned cleanup
// releases the cache when one was opened.
func newOrchestrator(cfg *config.Config, opts options.BuildOptions, log *logger.Logger) (*orchestrator.Orchestrator, func()) {
	runtime := noderuntime.New(cfg)
	loc := locator.New(cfg, opts, runtime)

	components := orchestrator.Components{
		Locator:   loc,
		Prober:    runtime,
		Fetcher:   fetcher.New(cfg, log.Out()),
		Builder:   compiler.NewRunner(cfg, log),
		Installer: installer.New(cfg, loc, log),
	}

	cleanup := func() {}

	if cfg.CacheEnabled {
		c, err := cache.New(cfg.CacheDir)
		if err != nil {
			log.Warn("Build cache unavailable: %v", err)
		} else {
			components.Cache = c
			cleanup = func() { c.Close() }
		}
	}

	return orchestrator.New(cfg, components, log), cleanup
}

func ctxOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}

	return context.Background()
}
