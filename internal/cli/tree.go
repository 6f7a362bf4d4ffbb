package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/edlx-labs/edlx/internal/resolve"
	"github.com/spf13/cobra"
)

var (
	namespaceStyle = lipgloss.NewStyle().Bold(true)
	detailStyle    = lipgloss.NewStyle().Faint(true)
)

var treeCmd = &cobra.Command{
	Use:   "tree [dir]",
	Short: "Show the declaration dependency tree",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := loadGraph(args)
		if err != nil {
			return err
		}
		resolve.PrintTree(cmd.OutOrStdout(), root, treeLabel)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(treeCmd)
}

func treeLabel(n *resolve.Node) string {
	detail := fmt.Sprintf("%s, %d local", n.Name(), len(n.Decl.EDL))
	return namespaceStyle.Render(n.Namespace) + " " + detailStyle.Render("("+detail+")")
}
