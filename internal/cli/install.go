package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kpackage-labs/kpackage/internal/installer"
	"github.com/kpackage-labs/kpackage/internal/loader"
	"github.com/kpackage-labs/kpackage/internal/structure"
)

var (
	installFormat string
	installRoot   string
	installGlobal bool
)

var installCmd = &cobra.Command{
	Use:   "install <path>",
	Short: "Install the package at <path>",
	Args:  cobra.ExactArgs(1),
	RunE:  runInstall,
}

var upgradeCmd = &cobra.Command{
	Use:   "upgrade <path>",
	Short: "Upgrade the package at <path>, replacing an existing installation",
	Args:  cobra.ExactArgs(1),
	RunE:  runInstall,
}

func init() {
	for _, cmd := range []*cobra.Command{installCmd, upgradeCmd} {
		cmd.Flags().StringVarP(&installFormat, "type", "t", structure.GenericFormat, "Package format, e.g. KPackage/Generic")
		cmd.Flags().StringVarP(&installRoot, "packageroot", "p", "", "Absolute path to the package root")
		cmd.Flags().BoolVarP(&installGlobal, "global", "g", false, "Operate on packages installed for all users")
		rootCmd.AddCommand(cmd)
	}
}

func runInstall(cmd *cobra.Command, args []string) error {
	src := args[0]
	root := resolvePackageRoot(installFormat, installRoot, installGlobal)

	// Refuse formats nothing can interpret: installing content for an
	// unresolvable non-generic format leaves it unreachable.
	if installFormat != structure.GenericFormat {
		if h := loader.Self().LoadPackageStructure(installFormat); h == nil {
			return exitWith(ExitNoInstaller, fmt.Errorf("no suitable installer found for package of type %s", installFormat))
		}
	}

	var (
		id  string
		err error
	)
	if cmd.Name() == "upgrade" {
		id, err = installer.Upgrade(src, root)
	} else {
		id, err = installer.Install(src, root)
	}
	if err != nil {
		switch {
		case errors.Is(err, installer.ErrInvalidPackage):
			return exitWith(ExitInvalidPackage, err)
		default:
			return exitWith(ExitInstallFailed, err)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Installed %s into %s\n", id, root)
	return nil
}
