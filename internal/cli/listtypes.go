package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kpackage-labs/kpackage/internal/config"
	"github.com/kpackage-labs/kpackage/internal/discover"
	"github.com/kpackage-labs/kpackage/internal/formats"
	"github.com/kpackage-labs/kpackage/internal/loader"
	"github.com/kpackage-labs/kpackage/internal/structure"
)

var listTypesCmd = &cobra.Command{
	Use:   "list-types",
	Short: "List known package types that can be installed",
	Long: `List the built-in generic format, every structure plugin discovered on the
library search path, and the recognized category labels.`,
	RunE: runListTypes,
}

func init() {
	rootCmd.AddCommand(listTypesCmd)
}

func runListTypes(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Built-in:")
	fmt.Fprintf(out, "  %s\n", structure.GenericFormat)

	fmt.Fprintln(out, "Structure plugins:")
	seen := make(map[string]bool)
	for _, dir := range config.PluginDirs() {
		for _, r := range discover.List(filepath.Join(dir, loader.PluginSubDir)) {
			if seen[r.PluginID] {
				continue
			}
			seen[r.PluginID] = true
			fmt.Fprintf(out, "  %s\n", recordSummary(r))
		}
	}
	if len(seen) == 0 {
		fmt.Fprintln(out, "  (none installed)")
	}

	fmt.Fprintln(out, "Categories:")
	for _, c := range formats.KnownCategories() {
		fmt.Fprintf(out, "  %s\n", c)
	}
	return nil
}
