package cmd

import (
	"sort"

	"github.com/spf13/cobra"
	"metzctl/internal/metz"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List known key codes",
	Long: `List the named key codes understood by the RCRService.
Any other integer, including a channel number, can be sent with --key or --channel.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		names := make([]string, 0, len(metz.KeyNames))
		for name := range metz.KeyNames {
			names = append(names, name)
		}
		sort.Slice(names, func(i, j int) bool {
			a, b := metz.KeyNames[names[i]], metz.KeyNames[names[j]]
			if a != b {
				return a < b
			}
			return names[i] < names[j]
		})

		for _, name := range names {
			cmd.Printf("%-14s %d\n", name, metz.KeyNames[name])
		}
		cmd.Println()
		cmd.Println("channel_up and channel_down share code 47 on the sets tested so far.")
	},
}
