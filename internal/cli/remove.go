package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kpackage-labs/kpackage/internal/installer"
	"github.com/kpackage-labs/kpackage/internal/structure"
)

var (
	removeFormat string
	removeRoot   string
	removeGlobal bool
)

var removeCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove the package named <id>",
	Args:  cobra.ExactArgs(1),
	RunE:  runRemove,
}

func init() {
	removeCmd.Flags().StringVarP(&removeFormat, "type", "t", structure.GenericFormat, "Package format, e.g. KPackage/Generic")
	removeCmd.Flags().StringVarP(&removeRoot, "packageroot", "p", "", "Absolute path to the package root")
	removeCmd.Flags().BoolVarP(&removeGlobal, "global", "g", false, "Operate on packages installed for all users")
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	id := args[0]
	root := resolvePackageRoot(removeFormat, removeRoot, removeGlobal)

	if err := installer.Remove(id, root); err != nil {
		if errors.Is(err, installer.ErrNotInstalled) {
			return exitWith(ExitNotInstalled, err)
		}
		return exitWith(ExitUninstallFailed, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from %s\n", id, root)
	return nil
}
