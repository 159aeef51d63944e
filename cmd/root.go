package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"metzctl/internal/config"
	"metzctl/internal/hub"
	"metzctl/internal/logger"
	"metzctl/internal/metz"
)

var (
	targetIP   string
	targetTV   string
	targetMAC  string
	configPath string
	arpTable   string
	timeout    time.Duration
	debug      bool
	flags      actionFlags
	log        = logger.New()
)

var rootCmd = &cobra.Command{
	Use:   "metzctl",
	Short: "Remote control for Metz televisions",
	Long: `metzctl sends remote control key codes to Metz televisions over the
RCRService SOAP interface and wakes sets in standby with Wake-on-LAN.`,
	Example: `  metzctl --ip 192.168.1.46 --vup
  metzctl --ip 192.168.1.46 --channel 105
  metzctl --tv living_room --power-on`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Configure(debug)
		log = logger.New()
	},
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags.channelSet = cmd.Flags().Changed("channel")

		action, ok := flags.selectAction()
		if !ok {
			log.Warn().Msg("Unsupported option: no action flag given")
			return nil
		}

		client, err := newClient()
		if err != nil {
			return err
		}

		return runAction(client, action)
	},
}

// Execute runs the command line and prints errors that were not already logged
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, metz.ErrRemoteCommand) && !errors.Is(err, metz.ErrMacResolution) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&targetIP, "ip", "", "TV IP address")
	pf.StringVar(&targetTV, "tv", "", "TV id from the config file")
	pf.StringVar(&configPath, "config", config.DefaultPath(), "config file")
	pf.BoolVarP(&debug, "debug", "d", false, "verbose logging")
	pf.DurationVar(&timeout, "timeout", metz.DefaultTimeout, "request timeout")

	f := rootCmd.Flags()
	f.IntSliceVar(&flags.keys, "key", nil, "key code to be sent (repeatable, sent in order)")
	f.BoolVar(&flags.volumeUp, "vup", false, "volume up")
	f.BoolVar(&flags.volumeDown, "vdown", false, "volume down")
	f.BoolVar(&flags.channelUp, "chup", false, "channel up")
	f.BoolVar(&flags.channelDown, "chdown", false, "channel down")
	f.BoolVar(&flags.mute, "mute", false, "mute")
	f.BoolVar(&flags.unmute, "unmute", false, "unmute")
	f.BoolVar(&flags.ok, "ok", false, "ok")
	f.BoolVar(&flags.power, "power", false, "toggle power through the control service")
	f.BoolVar(&flags.powerOn, "power-on", false, "wake the set with Wake-on-LAN")
	f.IntVar(&flags.channel, "channel", 0, "channel number")
	f.StringVar(&targetMAC, "mac", "", "hardware address for --power-on, skips the ARP lookup")
	f.StringVar(&arpTable, "arp-table", "", "ARP table to read (default /proc/net/arp)")

	rootCmd.MarkFlagsMutuallyExclusive(actionFlagNames...)

	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mqttCmd)
	rootCmd.AddCommand(cliCmd)
}

// targetDevice resolves --tv and --ip into a device configuration. --ip and --mac
// override the values from the config file.
func targetDevice() (config.DeviceConfig, error) {
	var dev config.DeviceConfig

	if targetTV != "" {
		cfg, err := config.NewManager(configPath).Load()
		if err != nil {
			return dev, err
		}
		found, err := cfg.GetDevice(targetTV)
		if err != nil {
			return dev, err
		}
		dev = *found
	}

	if targetIP != "" {
		dev.Address = targetIP
	}
	if targetMAC != "" {
		dev.MAC = targetMAC
	}
	if dev.ID == "" {
		dev.ID = dev.Address
	}

	if dev.Address == "" {
		return dev, errors.New("a target is required: use --ip or --tv")
	}
	return dev, nil
}

func newClient() (*metz.Client, error) {
	dev, err := targetDevice()
	if err != nil {
		return nil, err
	}

	return hub.NewClient(dev, hub.ClientOptions{
		Debug:    debug,
		Timeout:  timeout,
		ARPTable: arpTable,
	})
}
