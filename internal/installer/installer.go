// Package installer moves a freshly built binding into the vendor
// directory where the locator expects it.
package installer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Norgate-AV/sassbuild/internal/config"
	"github.com/Norgate-AV/sassbuild/internal/locator"
	"github.com/Norgate-AV/sassbuild/internal/logger"
	"github.com/Norgate-AV/sassbuild/internal/options"
	"github.com/Norgate-AV/sassbuild/internal/utils"
)

// ErrArtifactMissing is returned when the toolchain exited cleanly but
// left no binding behind
var ErrArtifactMissing = errors.New("Build succeeded but target not found")

// InstallDirError is returned when the install directory cannot be created
type InstallDirError struct {
	Dir string
	Err error
}

func (e *InstallDirError) Error() string {
	return e.Err.Error()
}

func (e *InstallDirError) Unwrap() error {
	return e.Err
}

// InstallMoveError is returned when the artifact cannot be moved into place
type InstallMoveError struct {
	From, To string
	Err      error
}

func (e *InstallMoveError) Error() string {
	return e.Err.Error()
}

func (e *InstallMoveError) Unwrap() error {
	return e.Err
}

// PathSource yields the canonical install path
type PathSource interface {
	CurrentPath(ctx context.Context) (string, error)
}

// Installer places build output at the install path
type Installer struct {
	packageDir string
	paths      PathSource
	log        *logger.Logger
}

func New(cfg *config.Config, paths PathSource, log *logger.Logger) *Installer {
	return &Installer{
		packageDir: cfg.PackageDir,
		paths:      paths,
		log:        log,
	}
}

// OutputPath is where the toolchain leaves the binding for opts
func OutputPath(packageDir string, opts options.BuildOptions) string {
	return filepath.Join(packageDir, "build", opts.Configuration(), locator.BindingFile)
}

// Install moves the build output to the install path and returns it
func (i *Installer) Install(ctx context.Context, opts options.BuildOptions) (string, error) {
	target, err := i.paths.CurrentPath(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to compute install path: %w", err)
	}

	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &InstallDirError{Dir: dir, Err: err}
	}

	output := OutputPath(i.packageDir, opts)
	if info, err := os.Stat(output); err != nil || info.IsDir() {
		return "", ErrArtifactMissing
	}

	i.log.Debug("Moving %s to %s", output, target)

	if err := utils.MoveFile(output, target); err != nil {
		return "", &InstallMoveError{From: output, To: target, Err: err}
	}

	i.log.Success("Installed in ` %s `", target)

	return target, nil
}
