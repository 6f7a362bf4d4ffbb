package cli

import (
	"fmt"

	"github.com/edlx-labs/edlx/edl/bundle"
	"github.com/edlx-labs/edlx/internal/config"
	"github.com/edlx-labs/edlx/internal/resolve"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	bundleOut          string
	bundleConcat       bool
	bundleIncludePaths bool
)

var bundleCmd = &cobra.Command{
	Use:   "bundle [dir]",
	Short: "Write the aggregated EDL files for an EDL compiler",
	Long: `Collect every EDL file the package in dir contributes and write them to the
output directory as <namespace>/<name>, ready to be passed to an EDL compiler
as search paths.

With --concat, the files are instead written to stdout as a single text, each
preceded by a "// <namespace>/<name>" line.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBundle,
}

func init() {
	bundleCmd.Flags().StringVarP(&bundleOut, "out", "o", "", "Output directory (default: config bundle_dir)")
	bundleCmd.Flags().BoolVar(&bundleConcat, "concat", false, "Write a single concatenated text to stdout")
	bundleCmd.Flags().BoolVar(&bundleIncludePaths, "include-paths", false, "Print the per-namespace search paths after writing")
	rootCmd.AddCommand(bundleCmd)
}

func runBundle(cmd *cobra.Command, args []string) error {
	root, err := loadGraph(args)
	if err != nil {
		return err
	}
	edls, err := resolve.Collect(root)
	if err != nil {
		return err
	}
	warnDuplicates(edls)

	if bundleConcat {
		return bundle.Concat(cmd.OutOrStdout(), edls)
	}

	out := bundleOut
	if out == "" {
		out = config.Get(config.KeyBundleDir)
	}
	res, err := bundle.WriteTree(afero.NewOsFs(), out, edls)
	if err != nil {
		return err
	}
	for _, w := range res.Warnings {
		logger.Warn(w)
	}
	logger.Info("bundle written", "dir", res.Dir, "files", len(res.Files))

	if bundleIncludePaths {
		for _, p := range bundle.IncludePaths(out, edls) {
			fmt.Fprintln(cmd.OutOrStdout(), p)
		}
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d EDL file(s) to %s\n", len(res.Files), res.Dir)
	return nil
}
