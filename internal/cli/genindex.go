package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kpackage-labs/kpackage/internal/discover"
	"github.com/kpackage-labs/kpackage/internal/structure"
)

var (
	genIndexFormat string
	genIndexRoot   string
	genIndexGlobal bool
)

var genIndexCmd = &cobra.Command{
	Use:   "generate-index [dir]",
	Short: "Recreate the plugin metadata index",
	Long: `Scan a package directory for descriptor files and write a fresh binary
metadata index at its root. Without an explicit directory, the package root
is derived from --type and --global as for install.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerateIndex,
}

func init() {
	genIndexCmd.Flags().StringVarP(&genIndexFormat, "type", "t", structure.GenericFormat, "Package format whose root is indexed")
	genIndexCmd.Flags().StringVarP(&genIndexRoot, "packageroot", "p", "", "Absolute path to the package root")
	genIndexCmd.Flags().BoolVarP(&genIndexGlobal, "global", "g", false, "Operate on packages installed for all users")
	rootCmd.AddCommand(genIndexCmd)
}

func runGenerateIndex(cmd *cobra.Command, args []string) error {
	var dir string
	if len(args) == 1 {
		dir = args[0]
	} else {
		dir = resolvePackageRoot(genIndexFormat, genIndexRoot, genIndexGlobal)
	}

	n, err := discover.WriteIndex(dir)
	if err != nil {
		return fmt.Errorf("generating index: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d package(s) in %s\n", n, dir)
	return nil
}
