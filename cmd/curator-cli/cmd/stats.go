package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate registry counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := GetEngine().Stats()
		if err != nil {
			return err
		}

		fmt.Printf("total:       %d\n", stats.Total)
		fmt.Printf("pending:     %d\n", stats.Pending)
		fmt.Printf("accepted:    %d\n", stats.Accepted)
		fmt.Printf("rejected:    %d\n", stats.Rejected)
		fmt.Printf("modified:    %d\n", stats.Modified)
		fmt.Printf("in cooldown: %d\n", stats.InCooldown)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
