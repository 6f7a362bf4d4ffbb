package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/edlx-labs/edlx/edl"
	"github.com/edlx-labs/edlx/internal/declare"
	"github.com/edlx-labs/edlx/internal/resolve"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [dir]",
	Short: "Validate every declaration in the graph",
	Long: `Validate edl.yaml in dir and in every package it uses: schema conformance,
version requirements, and that each declared EDL file exists and is text.
Schema violations stop the check at the first invalid declaration.
Keys declared more than once are reported as warnings; they are not errors.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	root, err := loadGraph(args)
	if err != nil {
		var invalid *declare.InvalidError
		if errors.As(err, &invalid) {
			for _, issue := range invalid.Issues {
				fmt.Fprintf(out, "%s: %s\n", relPath(invalid.Path), issue)
			}
		}
		return err
	}

	problems := 0
	report := func(n *resolve.Node, msg string) {
		problems++
		fmt.Fprintf(out, "%s: %s\n", relPath(n.DeclPath), msg)
	}

	err = resolve.Walk(root, func(n *resolve.Node) error {
		if err := n.Decl.CheckRequires(buildVersion); err != nil {
			report(n, err.Error())
		}
		if _, err := resolve.Locals(n); err != nil {
			report(n, err.Error())
		}
		logger.Debug("checked", "package", n.Name())
		return nil
	})
	if err != nil {
		return err
	}

	if problems > 0 {
		return fmt.Errorf("%d problem(s) found", problems)
	}

	edls, err := resolve.Collect(root)
	if err != nil {
		return err
	}
	dups := edl.Duplicates(edls)
	for _, d := range dups {
		kind := "identical"
		if !d.SameData {
			kind = "different"
		}
		fmt.Fprintf(out, "warning: %s appears %d times (%s contents)\n", d.Key, len(d.Indexes), kind)
	}

	fmt.Fprintf(out, "OK: %d descriptor(s)", len(edls))
	if len(dups) > 0 {
		fmt.Fprintf(out, ", %d duplicate key(s)", len(dups))
	}
	fmt.Fprintln(out)
	return nil
}

// relPath shortens path relative to the working directory when possible.
func relPath(path string) string {
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	if r, err := filepath.Rel(wd, path); err == nil {
		return r
	}
	return path
}
