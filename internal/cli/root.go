package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/edlx-labs/edlx/internal/config"
	"github.com/edlx-labs/edlx/internal/resolve"
	"github.com/spf13/cobra"
)

var (
	buildVersion = "dev"
	buildCommit  = "unknown"
	buildDate    = "unknown"

	verbose bool
	logger  = log.New(io.Discard)
)

var rootCmd = &cobra.Command{
	Use:   config.AppName,
	Short: "Aggregate EDL files across Go packages",
	Long: config.AppName + ` collects Enclave Definition Language files declared by Go packages.

Each package lists its own EDL files and the packages it re-exports in an
edl.yaml file. 'edlx generate' freezes those files into edl_gen.go, which
defines the package's EDL() function: the descriptors of every dependency,
in order, followed by the package's own.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Load()
		logger = newLogger(cmd.ErrOrStderr())
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	err := rootCmd.Execute()
	if err != nil {
		newLogger(os.Stderr).Error(err.Error())
	}
	return err
}

func newLogger(w io.Writer) *log.Logger {
	l := log.NewWithOptions(w, log.Options{Prefix: config.AppName})
	level, err := log.ParseLevel(config.Get(config.KeyLogLevel))
	if err != nil {
		level = log.WarnLevel
	}
	if verbose {
		level = log.DebugLevel
	}
	l.SetLevel(level)
	return l
}

// loadGraph resolves the declaration graph rooted at args[0], or the
// current directory when no argument is given.
func loadGraph(args []string) (*resolve.Node, error) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	n, err := resolve.Load(dir)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded declaration graph", "root", n.Name(), "deps", len(n.Deps))
	return n, nil
}
