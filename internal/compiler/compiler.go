package compiler

import (
	"fmt"

	"github.com/Norgate-AV/sassbuild/internal/config"
	"github.com/Norgate-AV/sassbuild/internal/options"
)

// RebuildDirective is the toolchain subcommand for a clean build
const RebuildDirective = "rebuild"

type ShellCommand struct {
	Path string
	Args []string
}

// GetBuildCommand returns the full toolchain invocation for opts
func GetBuildCommand(cfg *config.Config, opts options.BuildOptions) *ShellCommand {
	return &ShellCommand{
		Path: cfg.RuntimePath,
		Args: BuildArgs(cfg, opts),
	}
}

// BuildArgs returns <gyp-script> rebuild --<knob>=<value>... <passthrough>...
func BuildArgs(cfg *config.Config, opts options.BuildOptions) []string {
	cmdArgs := make([]string, 0, 2+len(config.Knobs)+len(opts.Args))
	cmdArgs = append(cmdArgs, cfg.GypScript, RebuildDirective)

	for _, knob := range config.Knobs {
		cmdArgs = append(cmdArgs, fmt.Sprintf("--%s=%s", knob, cfg.Knob(knob)))
	}

	return append(cmdArgs, opts.Args...)
}
