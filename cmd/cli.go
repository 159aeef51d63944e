package cmd

import (
	"github.com/spf13/cobra"
	"metzctl/cmd/cli"
	"metzctl/internal/config"
	"metzctl/internal/device"
	"metzctl/internal/hub"
	"metzctl/internal/logger"
	"metzctl/internal/metz"
)

var cliCmd = &cobra.Command{
	Use:   "cli",
	Short: "Start the interactive remote",
	Long: `Launch a keypad for a configured television or an address typed on the setup screen.
With --tv or --ip the setup screen is skipped.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// The TUI owns the terminal
		logger.SetSilentMode(true)

		cfg, err := config.NewManager(configPath).Load()
		if err != nil {
			return err
		}

		opts := cli.Options{
			Devices: cfg.Devices,
			Debug:   debug,
			Connect: func(dev config.DeviceConfig) (device.Device, error) {
				client, err := hub.NewClient(dev, hub.ClientOptions{
					Debug:    debug,
					Timeout:  timeout,
					ARPTable: arpTable,
				})
				if err != nil {
					return nil, err
				}
				return metz.NewRemote(dev.ID, client), nil
			},
		}

		if targetTV != "" || targetIP != "" {
			dev, err := targetDevice()
			if err != nil {
				return err
			}
			opts.Initial = &dev
		}

		return cli.StartTUI(opts)
	},
}
