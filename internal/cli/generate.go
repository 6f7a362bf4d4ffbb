package cli

import (
	"errors"
	"fmt"

	"github.com/edlx-labs/edlx/internal/gen"
	"github.com/edlx-labs/edlx/internal/resolve"
	"github.com/spf13/cobra"
)

var (
	generateCheck bool
	generateAll   bool
)

var generateCmd = &cobra.Command{
	Use:   "generate [dir]",
	Short: "Write edl_gen.go for a declaring package",
	Long: `Read edl.yaml in dir (default: the current directory), freeze every declared
EDL file into string constants and write edl_gen.go with the package's EDL()
function.

Add the following line to a Go file of the package to run it via 'go generate':

	//go:generate edlx generate

A declared file that is missing, unreadable or not UTF-8 text fails the
command with an error naming the file; nothing is written in that case.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().BoolVar(&generateCheck, "check", false, "Fail if edl_gen.go is missing or out of date instead of writing it")
	generateCmd.Flags().BoolVar(&generateAll, "all", false, "Also process every package the declaration uses, transitively")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	root, err := loadGraph(args)
	if err != nil {
		return err
	}

	targets := []*resolve.Node{root}
	if generateAll {
		targets = nil
		err := resolve.Walk(root, func(n *resolve.Node) error {
			targets = append(targets, n)
			return nil
		})
		if err != nil {
			return err
		}
	}

	if generateCheck {
		var stale []error
		for _, n := range targets {
			err := gen.Check(n, buildVersion)
			switch {
			case errors.Is(err, gen.ErrStale):
				stale = append(stale, err)
			case err != nil:
				return err
			default:
				logger.Debug("up to date", "file", gen.Path(n))
			}
		}
		if len(stale) > 0 {
			return fmt.Errorf("%d generated file(s) need 'edlx generate': %w", len(stale), errors.Join(stale...))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d generated file(s) up to date\n", len(targets))
		return nil
	}

	for _, n := range targets {
		path, changed, err := gen.Write(n, buildVersion)
		if err != nil {
			return err
		}
		if changed {
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		} else {
			logger.Debug("unchanged", "file", path)
		}
	}
	return nil
}
