// Package orchestrator decides whether the installed binding can be
// trusted and otherwise runs the fetch, build and install pipeline.
//
// Exactly one action is taken per run:
//
//  1. forced: build without looking at any existing binary
//  2. a binary resolves and passes the probe: done
//  3. anything else: fetch, build, install
//
// The build step runs at most once and nothing is retried.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/Norgate-AV/sassbuild/internal/cache"
	"github.com/Norgate-AV/sassbuild/internal/config"
	"github.com/Norgate-AV/sassbuild/internal/installer"
	"github.com/Norgate-AV/sassbuild/internal/logger"
	"github.com/Norgate-AV/sassbuild/internal/options"
)

// Locator finds an existing binding and the runtime ABI
type Locator interface {
	Resolve(ctx context.Context, strict bool) (string, error)
	ABI(ctx context.Context) (string, error)
}

// Prober smoke-tests a binding
type Prober interface {
	Probe(ctx context.Context, path string) error
}

// Fetcher makes the native sources available
type Fetcher interface {
	Ensure(ctx context.Context) error
	Revision() string
}

// Builder runs the native toolchain
type Builder interface {
	Build(ctx context.Context, opts options.BuildOptions) error
}

// Installer moves the build output into place
type Installer interface {
	Install(ctx context.Context, opts options.BuildOptions) (string, error)
}

// ArtifactCache stores built bindings between runs
type ArtifactCache interface {
	Get(in cache.Inputs) (*cache.Entry, error)
	Store(in cache.Inputs, artifactPath string) (*cache.Entry, error)
	Restore(entry *cache.Entry, dest string) error
}

// Components are the collaborators of a run. Cache may be nil.
type Components struct {
	Locator   Locator
	Prober    Prober
	Fetcher   Fetcher
	Builder   Builder
	Installer Installer
	Cache     ArtifactCache
}

// Outcome describes how a successful run ended
type Outcome struct {
	// BinaryValid is set when the existing binary passed the probe
	BinaryValid bool

	// Installed is set when a binding was moved into place
	Installed bool

	// Restored is set when the binding came from the cache
	Restored bool

	// Path is the binding path that was validated or installed
	Path string
}

type Orchestrator struct {
	Components

	packageDir string
	knobs      map[string]string
	log        *logger.Logger
}

func New(cfg *config.Config, c Components, log *logger.Logger) *Orchestrator {
	knobs := make(map[string]string, len(config.Knobs))
	for _, name := range config.Knobs {
		knobs[name] = cfg.Knob(name)
	}

	return &Orchestrator{
		Components: c,
		packageDir: cfg.PackageDir,
		knobs:      knobs,
		log:        log,
	}
}

// Run takes one of the three actions for opts
func (o *Orchestrator) Run(ctx context.Context, opts options.BuildOptions) (Outcome, error) {
	if opts.Force {
		o.log.Debug("Forced build, skipping binary check")
		return o.build(ctx, opts)
	}

	path, err := o.Locator.Resolve(ctx, true)
	if err != nil {
		o.log.Debug("No usable binary: %v", err)
		return o.build(ctx, opts)
	}

	o.log.Info("` %s ` exists. testing binary.", path)

	if err := o.probe(ctx, path); err != nil {
		o.log.Debug("Probe failed: %v", err)
		o.log.Info("Problem with the binary.\nManual build incoming.")

		return o.build(ctx, opts)
	}

	o.log.Success("Binary is fine; exiting.")

	return Outcome{BinaryValid: true, Path: path}, nil
}

// probe never lets a panicking prober take down the run
func (o *Orchestrator) probe(ctx context.Context, path string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("probe panicked: %v", r)
		}
	}()

	return o.Prober.Probe(ctx, path)
}

func (o *Orchestrator) build(ctx context.Context, opts options.BuildOptions) (Outcome, error) {
	if err := o.Fetcher.Ensure(ctx); err != nil {
		return Outcome{}, err
	}

	output := installer.OutputPath(o.packageDir, opts)
	inputs, cacheable := o.cacheInputs(ctx, opts)

	restored := cacheable && o.restore(inputs, output)
	if !restored {
		if err := o.Builder.Build(ctx, opts); err != nil {
			return Outcome{}, err
		}

		if cacheable {
			o.store(inputs, output)
		}
	}

	path, err := o.Installer.Install(ctx, opts)
	if err != nil {
		return Outcome{}, err
	}

	return Outcome{Installed: true, Restored: restored, Path: path}, nil
}

func (o *Orchestrator) cacheInputs(ctx context.Context, opts options.BuildOptions) (cache.Inputs, bool) {
	if o.Cache == nil {
		return cache.Inputs{}, false
	}

	abi, err := o.Locator.ABI(ctx)
	if err != nil {
		o.log.Debug("Cache disabled for this run: %v", err)
		return cache.Inputs{}, false
	}

	in := cache.Inputs{
		Revision: o.Fetcher.Revision(),
		Platform: opts.Platform,
		Arch:     opts.Arch,
		ABI:      abi,
		Debug:    opts.Debug,
		Knobs:    o.knobs,
		Args:     opts.Args,
	}

	if !in.Cacheable() {
		o.log.Debug("Cache disabled for this run: source revision unknown")
		return in, false
	}

	return in, true
}

// restore reports whether the build output was restored from the cache.
// Cache failures only cost a rebuild.
func (o *Orchestrator) restore(in cache.Inputs, output string) bool {
	entry, err := o.Cache.Get(in)
	if err != nil {
		o.log.Warn("Failed to read cache: %v", err)
		return false
	}

	if entry == nil {
		o.log.Debug("Cache miss for %s", in.Key())
		return false
	}

	if err := o.Cache.Restore(entry, output); err != nil {
		o.log.Warn("%v", err)
		return false
	}

	key := entry.Key
	if len(key) > 12 {
		key = key[:12]
	}

	o.log.Info("Restored binding from cache (%s)", key)

	return true
}

func (o *Orchestrator) store(in cache.Inputs, output string) {
	if _, err := os.Stat(output); errors.Is(err, fs.ErrNotExist) {
		return
	}

	if _, err := o.Cache.Store(in, output); err != nil {
		o.log.Warn("Failed to cache build output: %v", err)
		return
	}

	o.log.Debug("Cached build output as %s", in.Key())
}
