package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"metzctl/internal/config"
)

var (
	configForce     bool
	deviceName      string
	deviceID        string
	deviceMAC       string
	deviceBroadcast string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configured televisions",
	Long:  `Create the configuration file and add, list or remove televisions.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		manager := config.NewManager(configPath)
		if _, err := manager.Init(configForce); err != nil {
			return err
		}

		cmd.Printf("Default configuration saved to: %s\n", manager.Path())
		cmd.Println("Please edit the file with the addresses of your televisions.")
		return nil
	},
}

var configAddCmd = &cobra.Command{
	Use:   "add <address>",
	Short: "Add a television",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager := config.NewManager(configPath)
		added, err := manager.AddDevice(config.DeviceConfig{
			ID:        deviceID,
			Name:      deviceName,
			Address:   args[0],
			MAC:       deviceMAC,
			Broadcast: deviceBroadcast,
		})
		if err != nil {
			return fmt.Errorf("failed to add television: %w", err)
		}

		log.Info().
			Str("device_id", added.ID).
			Str("address", added.Address).
			Msg("Television added")
		cmd.Printf("Added %s (%s)\n", added.ID, added.Address)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured televisions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		devices, err := config.NewManager(configPath).ListDevices()
		if err != nil {
			return err
		}

		if len(devices) == 0 {
			cmd.Println("No televisions configured.")
			return nil
		}

		for _, dev := range devices {
			mac := dev.MAC
			if mac == "" {
				mac = "arp"
			}
			cmd.Printf("  - %s (%s) at %s, mac %s\n", dev.ID, dev.Name, dev.Address, mac)
		}
		return nil
	},
}

var configRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a television",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.NewManager(configPath).RemoveDevice(args[0]); err != nil {
			return err
		}
		cmd.Printf("Removed %s\n", args[0])
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite an existing file")

	configAddCmd.Flags().StringVar(&deviceID, "id", "", "device id (generated when empty)")
	configAddCmd.Flags().StringVar(&deviceName, "name", "", "display name")
	configAddCmd.Flags().StringVar(&deviceMAC, "mac", "", "hardware address for Wake-on-LAN")
	configAddCmd.Flags().StringVar(&deviceBroadcast, "broadcast", "", "Wake-on-LAN broadcast address")

	configCmd.AddCommand(configInitCmd, configAddCmd, configListCmd, configRemoveCmd)
}
