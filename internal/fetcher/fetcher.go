// Package fetcher makes sure the libsass source tree is on disk, cloning
// it when it is missing.
package fetcher

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"os/exec"

	"github.com/go-git/go-git/v5"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"github.com/Norgate-AV/sassbuild/internal/config"
)

// CheckoutFailed ends the message of every FetchError
const CheckoutFailed = "Unable to checkout the libSass submodule"

// FetchError is returned when the clone exits nonzero
type FetchError struct {
	// Everything git wrote to stderr
	Stderr string
	Err    error
}

func (e *FetchError) Error() string {
	return e.Stderr + CheckoutFailed
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Fetcher clones the native source tree on demand
type Fetcher struct {
	sourceDir string
	remote    string
	git       string

	// progress receives a spinner while cloning when it is a terminal
	progress io.Writer

	execCommand func(ctx context.Context, name string, args ...string) *exec.Cmd
	access      func(path string) error
}

// New creates a fetcher for the configured source checkout
func New(cfg *config.Config, progress io.Writer) *Fetcher {
	return &Fetcher{
		sourceDir:   cfg.SourceDir,
		remote:      cfg.SourceRepo,
		git:         cfg.GitPath,
		progress:    progress,
		execCommand: exec.CommandContext,
		access:      access,
	}
}

// SourceDir is where the checkout lives
func (f *Fetcher) SourceDir() string {
	return f.sourceDir
}

// Present reports whether the source tree exists. Only a missing
// directory counts as absent; other access errors are left for the
// toolchain to report.
func (f *Fetcher) Present() bool {
	err := f.access(f.sourceDir)
	return err == nil || !errors.Is(err, fs.ErrNotExist)
}

// Ensure clones the source tree unless it is already present
func (f *Fetcher) Ensure(ctx context.Context) error {
	if f.Present() {
		return nil
	}

	return f.clone(ctx)
}

func (f *Fetcher) clone(ctx context.Context) error {
	var stderr bytes.Buffer

	cmd := f.execCommand(ctx, f.git, "clone", f.remote, f.sourceDir)

	bar := newSpinner(f.progress)
	if bar != nil {
		cmd.Stderr = io.MultiWriter(&stderr, bar)
	} else {
		cmd.Stderr = &stderr
	}

	err := cmd.Run()

	if bar != nil {
		_ = bar.Finish()
	}

	if err != nil {
		return &FetchError{Stderr: stderr.String(), Err: err}
	}

	return nil
}

// Revision returns the commit checked out in the source tree, or an
// empty string when it cannot be read
func (f *Fetcher) Revision() string {
	repo, err := git.PlainOpen(f.sourceDir)
	if err != nil {
		return ""
	}

	head, err := repo.Head()
	if err != nil {
		return ""
	}

	return head.Hash().String()
}

func newSpinner(w io.Writer) *progressbar.ProgressBar {
	file, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(file.Fd())) {
		return nil
	}

	return progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Cloning libsass"),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
}
