// Package locator computes where the native binding for an environment
// lives. The name is derived from platform, architecture and runtime
// module ABI, so equal inputs always give the same path.
package locator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Norgate-AV/sassbuild/internal/config"
	"github.com/Norgate-AV/sassbuild/internal/options"
	"github.com/Norgate-AV/sassbuild/internal/platform"
)

// BindingFile is the file name of the compiled binding
const BindingFile = "binding.node"

var (
	ErrUnsupportedEnvironment = errors.New("unsupported environment")
	ErrUnknownABI             = errors.New("runtime module version unknown")
)

// NotFoundError is returned by a strict Resolve when no binary exists
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("binary not found at %s", e.Path)
}

// ABIDetector reports the module ABI version of the runtime
type ABIDetector interface {
	ModulesVersion(ctx context.Context) (string, error)
}

// Locator resolves binding paths for one environment
type Locator struct {
	packageDir string
	platform   string
	arch       string
	binaryName string
	binaryPath string

	abi       string
	detector  ABIDetector
	detected  bool
	detectErr error
}

// New creates a locator for the target of opts. When cfg has no runtime
// ABI, it is asked of detector on first use.
func New(cfg *config.Config, opts options.BuildOptions, detector ABIDetector) *Locator {
	return &Locator{
		packageDir: cfg.PackageDir,
		platform:   opts.Platform,
		arch:       opts.Arch,
		binaryName: cfg.BinaryName,
		binaryPath: cfg.BinaryPath,
		abi:        cfg.RuntimeABI,
		detector:   detector,
	}
}

// ABI returns the runtime module ABI, detecting it at most once
func (l *Locator) ABI(ctx context.Context) (string, error) {
	if l.abi != "" {
		return l.abi, nil
	}

	if !l.detected {
		l.detected = true

		if l.detector == nil {
			l.detectErr = ErrUnknownABI
		} else if abi, err := l.detector.ModulesVersion(ctx); err != nil {
			l.detectErr = fmt.Errorf("%w: %w", ErrUnknownABI, err)
		} else if abi == "" {
			l.detectErr = ErrUnknownABI
		} else {
			l.abi = abi
		}
	}

	return l.abi, l.detectErr
}

// BinaryName returns <platform>-<arch>-<abi> unless overridden
func (l *Locator) BinaryName(ctx context.Context) (string, error) {
	if l.binaryName != "" {
		return l.binaryName, nil
	}

	abi, err := l.ABI(ctx)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s-%s-%s", l.platform, l.arch, abi), nil
}

// CurrentPath returns the canonical install path of the binding
func (l *Locator) CurrentPath(ctx context.Context) (string, error) {
	if l.binaryPath != "" {
		return l.binaryPath, nil
	}

	name, err := l.BinaryName(ctx)
	if err != nil {
		return "", err
	}

	return filepath.Join(l.packageDir, "vendor", name, BindingFile), nil
}

// Resolve returns the binding path. With strict set it fails unless a
// file is present there, rather than returning a guess.
func (l *Locator) Resolve(ctx context.Context, strict bool) (string, error) {
	if l.binaryPath == "" && !platform.IsSupported(l.platform, l.arch) {
		return "", fmt.Errorf("%w: %s-%s", ErrUnsupportedEnvironment, l.platform, l.arch)
	}

	path, err := l.CurrentPath(ctx)
	if err != nil {
		return "", err
	}

	if !strict {
		return path, nil
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", &NotFoundError{Path: path}
	}

	return path, nil
}
