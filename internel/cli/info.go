package cli

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
	"strconv"

	"github.com/spf13/cobra"

	"LSLViewPoint/pkg/bridge"
	"LSLViewPoint/pkg/config"
	"LSLViewPoint/pkg/stream"
)

func newInfoCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print system, dependency and configuration information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := g.store(nil)
			if err != nil {
				return err
			}
			printInfo(cmd.OutOrStdout(), store)
			return nil
		},
	}
}

func printInfo(w io.Writer, store *config.Store) {
	fmt.Fprintf(w, "Platform:      %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(w, "Go:            %s\n", runtime.Version())
	fmt.Fprintf(w, "Version:       %s (commit: %s)\n", version, commit)

	fmt.Fprintln(w, "\nStream:")
	fmt.Fprintf(w, "  name:        %s\n", bridge.StreamName)
	fmt.Fprintf(w, "  type:        %s\n", bridge.StreamType)
	fmt.Fprintf(w, "  channels:    %d\n", len(bridge.CombinedChannels()))
	fmt.Fprintf(w, "  discovery:   %s:%d\n", stream.MulticastGroup, stream.MulticastPort)

	if bi, ok := debug.ReadBuildInfo(); ok {
		fmt.Fprintln(w, "\nDependencies:")
		for _, dep := range bi.Deps {
			v := dep.Version
			if dep.Replace != nil {
				v += " => " + dep.Replace.Path + " " + dep.Replace.Version
			}
			fmt.Fprintf(w, "  %-40s %s\n", dep.Path, v)
		}
	}

	fmt.Fprintln(w, "\nConfiguration:")
	fmt.Fprintf(w, "  file:        %s\n", store.Path())
	cfg, err := store.Load()
	if err != nil {
		fmt.Fprintf(w, "  error:       %v\n", err)
		return
	}
	fmt.Fprintf(w, "  driver_path: %s\n", cfg.DriverPath)
	fmt.Fprintf(w, "  sampling:    %s Hz\n", strconv.FormatFloat(cfg.SamplingRate, 'f', -1, 64))
}
