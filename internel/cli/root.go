package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"LSLViewPoint/internel/logging"
	"LSLViewPoint/pkg/config"
)

var (
	version = "dev"
	commit  = "unknown"
)

type globalFlags struct {
	verbose    bool
	configPath string
}

type streamFlags struct {
	simulate       bool
	splitEyes      bool
	dryRun         bool
	metricsAddr    string
	iface          string
	noDiscovery    bool
	statusInterval time.Duration
	stopOnEnter    bool
}

func newRootCmd() *cobra.Command {
	var (
		g globalFlags
		s streamFlags
	)

	root := &cobra.Command{
		Use:   "lsl-viewpoint",
		Short: "Stream a ViewPoint EyeTracker to the network",
		Long: `lsl-viewpoint registers a callback in the ViewPoint EyeTracker interop library
and pushes every fresh gaze sample to a network outlet, stamped in the local clock.

The driver location and the sampling rate are read from the configuration file,
written by "lsl-viewpoint config set".`,
		Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load(".env")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStream(cmd, g, s)
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true

	pf := root.PersistentFlags()
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "enable debug logging")
	pf.StringVarP(&g.configPath, "config", "c", "", "config file path (default is $HOME/.lsl-viewpoint, or $"+config.EnvPath+")")

	f := root.Flags()
	f.BoolVar(&s.simulate, "simulate", false, "stream random-walk data instead of loading the driver")
	f.BoolVar(&s.splitEyes, "split-eyes", false, "open one outlet per eye (ViewPoint-A and ViewPoint-B)")
	f.BoolVar(&s.dryRun, "dry-run", false, "keep samples in memory instead of serving them")
	f.StringVar(&s.metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address, e.g. :9100")
	f.StringVar(&s.iface, "iface", "", "network interface used for stream discovery")
	f.BoolVar(&s.noDiscovery, "no-discovery", false, "do not answer multicast discovery queries")
	f.DurationVar(&s.statusInterval, "status-interval", 10*time.Second, "interval between status logs, 0 disables them")
	f.BoolVar(&s.stopOnEnter, "stop-on-enter", false, "stop streaming when Enter is pressed")

	root.AddCommand(newConfigCmd(&g), newInfoCmd(&g))
	return root
}

// Execute runs the command line and exits on error.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func (g globalFlags) logger() (*zap.Logger, error) {
	return logging.New(g.verbose)
}

func (g globalFlags) store(logger *zap.Logger) (*config.Store, error) {
	path := g.configPath
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return nil, err
		}
	}
	return config.NewStore(path, logger), nil
}
