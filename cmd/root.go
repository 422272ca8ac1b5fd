package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Norgate-AV/sassbuild/internal/codes"
	"github.com/Norgate-AV/sassbuild/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "sassbuild [flags] [toolchain args...]",
	Short: "Build the libsass binding",
	Long: `Check that the prebuilt libsass binding loads, and rebuild it from source when it does not.

Recognised arguments:
  -f, --force           rebuild even when a working binary exists
  -d, --debug           build the Debug configuration (forwarded)
  --target_arch=<arch>  build for another architecture (forwarded)

Every other argument is forwarded to node-gyp unchanged, except that
the first non-flag argument is taken as a sassbuild command when it is
one of cache, version, help or completion. Put another argument before
it to forward such a word to node-gyp.`,
	RunE:               runBuild,
	Args:               cobra.ArbitraryArgs,
	DisableFlagParsing: true,
	SilenceUsage:       true,
	SilenceErrors:      true,
}

// Execute runs the command line and exits non-zero on failure. Ctrl-C
// cancels the context so running subprocesses are killed with us.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		logger.Default(false).Error("%v", err)
		os.Exit(codes.ExitFailure)
	}
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)
}
