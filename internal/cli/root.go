package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/kpackage-labs/kpackage/internal/branding"
	"github.com/kpackage-labs/kpackage/internal/config"
	"github.com/kpackage-labs/kpackage/internal/loader"
	"github.com/kpackage-labs/kpackage/internal/logging"
)

// Exit codes, stable across releases for scripting.
const (
	ExitOK              = 0
	ExitError           = 1 // unspecified error
	ExitNotInstalled    = 2
	ExitInvalidPackage  = 3
	ExitInstallFailed   = 4
	ExitNoInstaller     = 5 // no suitable installer for the package format
	ExitUninstallFailed = 8
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

// exitError carries a specific exit code out of a command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// exitWith wraps err with an exit code for Execute to report.
func exitWith(code int, err error) error {
	return &exitError{code: code, err: err}
}

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` locates, lists, and installs packages of registered
package formats. Format-specific structure plugins are discovered on the
library search path and loaded on demand.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Load()
		// Install the CLI's loader before any command touches the
		// singleton; later SetLoader calls are no-ops.
		loader.SetLoader(loader.New(loader.WithLogger(logging.NewDefault())))
	},
}

// Execute runs the root command with build info injected via ldflags and
// returns the process exit code.
func Execute(version, commit, date string) int {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	err := rootCmd.Execute()
	if err == nil {
		return ExitOK
	}

	rootCmd.PrintErrln("Error:", err)

	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return ExitError
}
