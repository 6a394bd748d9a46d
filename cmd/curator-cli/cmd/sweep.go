package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Evict registry entries older than the retention period",
	RunE: func(cmd *cobra.Command, args []string) error {
		evicted, err := GetEngine().Sweep()
		if err != nil {
			return err
		}
		fmt.Printf("Evicted %d entries\n", evicted)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sweepCmd)
}
