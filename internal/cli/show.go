package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kpackage-labs/kpackage/internal/formats"
	"github.com/kpackage-labs/kpackage/internal/loader"
	"github.com/kpackage-labs/kpackage/internal/metadata"
	"github.com/kpackage-labs/kpackage/internal/structure"
)

var (
	showFormat   string
	showRoot     string
	showValidate bool
	showJSON     bool
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show information of an installed package",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().StringVarP(&showFormat, "type", "t", structure.GenericFormat, "Package format, e.g. KPackage/Generic")
	showCmd.Flags().StringVarP(&showRoot, "packageroot", "p", "", "Package root relative to each data location")
	showCmd.Flags().BoolVar(&showValidate, "validate", false, "Validate the package metadata against the record schema")
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	id := args[0]

	var found *metadata.Record
	for _, r := range loader.Self().ListPackages(showFormat, showRoot) {
		if r.PluginID == id {
			found = &r
			break
		}
	}
	if found == nil {
		return exitWith(ExitNotInstalled, fmt.Errorf("package %q is not installed", id))
	}

	if showJSON {
		data, err := json.MarshalIndent(found.Raw, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	} else {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "ID:\t%s\n", found.PluginID)
		fmt.Fprintf(w, "Name:\t%s\n", found.Name)
		fmt.Fprintf(w, "Description:\t%s\n", found.Description)
		fmt.Fprintf(w, "Version:\t%s\n", found.Version)
		category := found.Category
		if category != "" && !formats.Known(category) {
			category += " (unrecognized category)"
		}
		fmt.Fprintf(w, "Category:\t%s\n", category)
		fmt.Fprintf(w, "Service types:\t%s\n", strings.Join(found.ServiceTypes, ";"))
		fmt.Fprintf(w, "Location:\t%s\n", found.FileName)
		w.Flush()
	}

	if !showValidate {
		return nil
	}

	result, err := found.Validate()
	if err != nil {
		return fmt.Errorf("validating metadata: %w", err)
	}
	if result.Valid {
		fmt.Fprintln(cmd.OutOrStdout(), "Metadata is valid.")
		return nil
	}

	sort.Slice(result.Issues, func(i, j int) bool {
		return result.Issues[i].Path < result.Issues[j].Path
	})
	for _, issue := range result.Issues {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s: %s\n", issue.Path, issue.Message)
	}
	return exitWith(ExitInvalidPackage, fmt.Errorf("metadata for %q failed validation", id))
}
