package cli

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"LSLViewPoint/pkg/config"
)

func newConfigCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the driver path and the sampling rate",
	}
	cmd.AddCommand(newConfigSetCmd(g), newConfigShowCmd(g))
	return cmd
}

func newConfigSetCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "set <driver-path> <sampling-rate>",
		Short: "Store the path to VPX_InterApp_64.dll and the sampling rate in Hz",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rate, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return errors.Wrapf(config.ErrInvalidRate, "%q", args[1])
			}

			logger, err := g.logger()
			if err != nil {
				return err
			}
			defer logger.Sync()

			store, err := g.store(logger)
			if err != nil {
				return err
			}
			if err := store.Set(args[0], rate); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "configuration written to %s\n", store.Path())
			return nil
		},
	}
}

func newConfigShowCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the stored configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := g.store(nil)
			if err != nil {
				return err
			}
			cfg, err := store.Load()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "file:          %s\n", store.Path())
			fmt.Fprintf(out, "driver_path:   %s\n", cfg.DriverPath)
			fmt.Fprintf(out, "sampling_rate: %s\n", strconv.FormatFloat(cfg.SamplingRate, 'f', -1, 64))
			return nil
		},
	}
}
