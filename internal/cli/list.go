package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/edlx-labs/edlx/edl"
	"github.com/edlx-labs/edlx/internal/resolve"
	"github.com/spf13/cobra"
)

var (
	listJSON bool
	listData bool
)

var listCmd = &cobra.Command{
	Use:   "list [dir]",
	Short: "List the aggregated EDL descriptors",
	Long: `List every descriptor the package in dir contributes, in the order its EDL()
function returns them: dependencies first, then the package's own files.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().BoolVar(&listData, "data", false, "Include file contents in JSON output")
	rootCmd.AddCommand(listCmd)
}

// listEntry is one descriptor for display.
type listEntry struct {
	Namespace string `json:"namespace"`
	Name      string `json:"name"`
	Bytes     int    `json:"bytes"`
	Data      string `json:"data,omitempty"`
}

func runList(cmd *cobra.Command, args []string) error {
	root, err := loadGraph(args)
	if err != nil {
		return err
	}
	edls, err := resolve.Collect(root)
	if err != nil {
		return err
	}
	warnDuplicates(edls)

	entries := make([]listEntry, 0, len(edls))
	for _, e := range edls {
		entry := listEntry{Namespace: e.Namespace, Name: e.Name, Bytes: len(e.Data)}
		if listData {
			entry.Data = e.Data
		}
		entries = append(entries, entry)
	}

	if listJSON {
		return printListJSON(cmd, entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No EDL files declared.")
		return nil
	}
	return printListTable(cmd, entries)
}

func printListTable(cmd *cobra.Command, entries []listEntry) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "NAMESPACE\tNAME\tBYTES")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%d\n", e.Namespace, e.Name, e.Bytes)
	}
	return w.Flush()
}

func printListJSON(cmd *cobra.Command, entries []listEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}

// warnDuplicates logs keys that occur more than once. Duplicates are kept in
// the sequence; consumers decide what to do with them.
func warnDuplicates(edls []edl.EDL) {
	for _, d := range edl.Duplicates(edls) {
		if d.SameData {
			logger.Debug("duplicate EDL", "key", d.Key, "count", len(d.Indexes))
			continue
		}
		logger.Warn("EDL declared more than once with different contents", "key", d.Key, "count", len(d.Indexes))
	}
}
