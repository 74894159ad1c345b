package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kpackage-labs/kpackage/internal/branding"
	"github.com/kpackage-labs/kpackage/internal/config"
	"github.com/kpackage-labs/kpackage/internal/loader"
	"github.com/kpackage-labs/kpackage/internal/metadata"
	"github.com/kpackage-labs/kpackage/internal/structure"
)

var (
	listFormat     string
	listRoot       string
	listMinVersion string
	listParentApp  string
	listConstraint bool
	listJSON       bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed packages",
	Long:  `List every discoverable package of the given format across the data-location search path.`,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVarP(&listFormat, "type", "t", structure.GenericFormat, "Package format, e.g. KPackage/Generic")
	listCmd.Flags().StringVarP(&listRoot, "packageroot", "p", "", "Package root relative to each data location (default: derived from the format)")
	listCmd.Flags().StringVar(&listMinVersion, "min-version", "", "Only list packages declaring at least this version")
	listCmd.Flags().StringVar(&listParentApp, "parent-app", "", "Only list packages constrained to this parent application (default: the parent_app config key)")
	listCmd.Flags().BoolVar(&listConstraint, "print-constraint", false, "Print the parent-app trader constraint instead of listing")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(listCmd)
}

// listEntry represents one discovered package for display.
type listEntry struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Version     string `json:"version,omitempty"`
	Description string `json:"description,omitempty"`
}

func runList(cmd *cobra.Command, args []string) error {
	parentApp := listParentApp
	if parentApp == "" {
		parentApp = config.ParentApp()
	}

	if listConstraint {
		fmt.Fprintln(cmd.OutOrStdout(), metadata.ParentAppConstraint(parentApp, branding.CLIName()))
		return nil
	}

	records := loader.Self().ListPackages(listFormat, listRoot)

	var entries []listEntry
	for _, r := range records {
		if listMinVersion != "" && !r.VersionAtLeast(listMinVersion) {
			continue
		}
		if parentApp != "" && !metadata.MatchesParentApp(r, parentApp, branding.CLIName()) {
			continue
		}
		entries = append(entries, listEntry{
			ID:          r.PluginID,
			Name:        r.Name,
			Version:     r.Version,
			Description: r.Description,
		})
	}

	if len(entries) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No packages found for type %s\n", listFormat)
		return nil
	}

	if listJSON {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tVERSION")
	for _, e := range entries {
		version := e.Version
		if version == "" {
			version = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.ID, e.Name, version)
	}
	return w.Flush()
}

// recordSummary renders a one-line summary used by list-types.
func recordSummary(r metadata.Record) string {
	parts := []string{r.PluginID}
	if r.Name != "" && r.Name != r.PluginID {
		parts = append(parts, "("+r.Name+")")
	}
	return strings.Join(parts, " ")
}
