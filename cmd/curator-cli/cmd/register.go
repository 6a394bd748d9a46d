package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

var registerCmd = &cobra.Command{
	Use:   "register <path>",
	Short: "Register a file for processing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}

		fp, err := GetEngine().RegisterForProcessing(path)
		if err != nil {
			return err
		}
		fmt.Printf("Registered %s (fingerprint %.8s)\n", filepath.Base(path), fp)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)
}
