// Package noderuntime drives the JavaScript runtime that loads the
// binding: it reports the runtime's module ABI and smoke-tests a binding
// by rendering a trivial stylesheet through it.
package noderuntime

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/Norgate-AV/sassbuild/internal/config"
)

// ProbeInput is rendered through the binding by Probe
const ProbeInput = "s { a: ss }"

// Loads the package in argv[1], which picks up SASS_BINARY_PATH
var probeScript = fmt.Sprintf("require(process.argv[1]).renderSync({ data: %q });", ProbeInput)

// ProbeError reports a binding that failed to load or render
type ProbeError struct {
	Path   string
	Stderr string
	Err    error
}

func (e *ProbeError) Error() string {
	msg := fmt.Sprintf("probe of %s failed: %v", e.Path, e.Err)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}

	return msg
}

func (e *ProbeError) Unwrap() error {
	return e.Err
}

// Runtime runs the JavaScript runtime as a subprocess
type Runtime struct {
	path        string
	packageDir  string
	execCommand func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// New creates a runtime for the configured executable and package
func New(cfg *config.Config) *Runtime {
	return &Runtime{
		path:        cfg.RuntimePath,
		packageDir:  cfg.PackageDir,
		execCommand: exec.CommandContext,
	}
}

// Path is the runtime executable
func (r *Runtime) Path() string {
	return r.path
}

// ModulesVersion returns process.versions.modules of the runtime
func (r *Runtime) ModulesVersion(ctx context.Context) (string, error) {
	var stdout, stderr bytes.Buffer

	cmd := r.execCommand(ctx, r.path, "-p", "process.versions.modules")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%s: %w: %s", r.path, err, msg)
		}

		return "", fmt.Errorf("%s: %w", r.path, err)
	}

	version := strings.TrimSpace(stdout.String())
	if version == "" || version == "undefined" {
		return "", fmt.Errorf("%s did not report a module version", r.path)
	}

	return version, nil
}

// Probe loads the binding at path and renders ProbeInput through it.
// Any failure is returned as a *ProbeError.
func (r *Runtime) Probe(ctx context.Context, path string) error {
	var stderr bytes.Buffer

	cmd := r.execCommand(ctx, r.path, "-e", probeScript, r.packageDir)
	cmd.Dir = r.packageDir
	cmd.Stderr = &stderr

	if cmd.Env == nil {
		cmd.Env = os.Environ()
	}

	cmd.Env = append(cmd.Env, "SASS_BINARY_PATH="+path)

	if err := cmd.Run(); err != nil {
		return &ProbeError{
			Path:   path,
			Stderr: strings.TrimSpace(stderr.String()),
			Err:    err,
		}
	}

	return nil
}
