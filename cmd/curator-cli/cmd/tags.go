package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

var tagsCmd = &cobra.Command{
	Use:   "tags <path>",
	Short: "Derive descriptive tags for a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}

		tags := GetEngine().GenerateTags(path)
		if len(tags) == 0 {
			fmt.Println("No tags")
			return nil
		}
		for _, t := range tags {
			fmt.Printf("%s  %.1f  %s\n", t.Tag, t.Confidence, t.Source)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tagsCmd)
}
