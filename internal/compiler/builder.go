package compiler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"strings"

	"github.com/Norgate-AV/sassbuild/internal/codes"
	"github.com/Norgate-AV/sassbuild/internal/config"
	"github.com/Norgate-AV/sassbuild/internal/logger"
	"github.com/Norgate-AV/sassbuild/internal/options"
)

// Commander interface for testing
type Commander interface {
	Run() error
}

// exitCoder is satisfied by *exec.ExitError
type exitCoder interface {
	ExitCode() int
}

// CommandBuilder handles building and running toolchain commands
type CommandBuilder struct {
	execCommand func(ctx context.Context, name string, args ...string) Commander
	stdin       io.Reader
	stdout      io.Writer
	stderr      io.Writer
}

// NewCommandBuilder creates a command builder whose children share the
// process stdio, so toolchain output streams live
func NewCommandBuilder() *CommandBuilder {
	return &CommandBuilder{
		execCommand: func(ctx context.Context, name string, args ...string) Commander {
			return exec.CommandContext(ctx, name, args...)
		},
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

// BuildCommandArgs builds the command arguments for the toolchain
func (cb *CommandBuilder) BuildCommandArgs(cfg *config.Config, opts options.BuildOptions) []string {
	return BuildArgs(cfg, opts)
}

// ExecuteCommand runs the toolchain once and maps its exit status
func (cb *CommandBuilder) ExecuteCommand(ctx context.Context, runtimePath string, cmdArgs []string) error {
	c := cb.execCommand(ctx, runtimePath, cmdArgs...)
	if cmd, ok := c.(*exec.Cmd); ok {
		cmd.Stdin = cb.stdin
		cmd.Stdout = cb.stdout
		cmd.Stderr = cb.stderr
	}

	err := c.Run()
	if err == nil {
		return nil
	}

	var exitErr exitCoder
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if codes.IsSuccess(code) {
			return nil
		}

		if code == codes.ToolchainNotFound {
			return ErrToolchainMissing
		}

		return &BuildError{ExitCode: code, Err: err}
	}

	// The runtime could not be started at all, as a shell would report 127
	var pathErr *fs.PathError
	if errors.Is(err, exec.ErrNotFound) || errors.As(err, &pathErr) {
		return ErrToolchainMissing
	}

	return fmt.Errorf("failed to run toolchain: %w", err)
}

// PrintBuildInfo prints the command about to run
func (cb *CommandBuilder) PrintBuildInfo(log *logger.Logger, runtimePath string, cmdArgs []string) {
	log.Info("Building: %s", strings.Join(append([]string{runtimePath}, cmdArgs...), " "))
}

// Runner is the build step of the pipeline
type Runner struct {
	cfg     *config.Config
	builder *CommandBuilder
	log     *logger.Logger
}

// NewRunner creates a build runner for cfg
func NewRunner(cfg *config.Config, log *logger.Logger) *Runner {
	return &Runner{
		cfg:     cfg,
		builder: NewCommandBuilder(),
		log:     log,
	}
}

// Build runs the toolchain for opts. It never retries.
func (r *Runner) Build(ctx context.Context, opts options.BuildOptions) error {
	cmd := GetBuildCommand(r.cfg, opts)

	r.builder.PrintBuildInfo(r.log, cmd.Path, cmd.Args)

	return r.builder.ExecuteCommand(ctx, cmd.Path, cmd.Args)
}
