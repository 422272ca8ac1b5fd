package compiler

import (
	"errors"
	"fmt"

	"github.com/Norgate-AV/sassbuild/internal/codes"
)

// ErrToolchainMissing is returned when the toolchain cannot be run
var ErrToolchainMissing = errors.New(codes.GetErrorMessage(codes.ToolchainNotFound))

// BuildError is returned for any other failing toolchain exit
type BuildError struct {
	ExitCode int
	Err      error
}

func (e *BuildError) Error() string {
	return codes.BuildFailed
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// Detail describes the failure including the exit code
func (e *BuildError) Detail() string {
	return fmt.Sprintf("%s (exit code %d)", codes.BuildFailed, e.ExitCode)
}
