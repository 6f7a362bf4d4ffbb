package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/edlx-labs/edlx/internal/declare"
	"github.com/spf13/cobra"
)

var errExists = errors.New("already exists")

var (
	initNamespace string
	initUse       []string
	initEDL       []string
)

func init() {
	initCmd.Flags().StringVar(&initNamespace, "namespace", "", "Namespace for local EDL files (default: Go package name)")
	initCmd.Flags().StringSliceVar(&initUse, "use", nil, "Directory of a declaring package to re-export (repeatable)")
	initCmd.Flags().StringSliceVar(&initEDL, "edl", nil, "Local EDL file path (repeatable)")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Create an edl.yaml declaration",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) > 0 {
			dir = args[0]
		}
		path := filepath.Join(dir, declare.FileName)
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s %w", path, errExists)
		}

		decl := &declare.Declaration{
			Namespace: initNamespace,
			Use:       initUse,
			EDL:       initEDL,
		}
		data, err := declare.Encode(decl)
		if err != nil {
			return err
		}
		result, err := declare.Validate(data)
		if err != nil {
			return err
		}
		if !result.Valid {
			return fmt.Errorf("invalid declaration: %s", result.Issues[0])
		}

		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
		fmt.Fprintln(cmd.OutOrStdout(), "Add '//go:generate edlx generate' to a Go file in the package, then run 'go generate'.")
		return nil
	},
}
