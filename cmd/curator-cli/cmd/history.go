package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history <path>",
	Short: "Show what the registry knows about a path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}

		entry := GetEngine().History(path)
		if entry == nil {
			fmt.Println("Not in registry")
			return nil
		}

		fmt.Printf("fingerprint:   %s\n", entry.Fingerprint)
		fmt.Printf("original path: %s\n", entry.OriginalPath)
		fmt.Printf("current path:  %s\n", entry.CurrentPath)
		fmt.Printf("processed at:  %s\n", entry.ProcessedAt.Format("2006-01-02 15:04:05"))
		fmt.Printf("user action:   %s\n", entry.UserAction)
		fmt.Printf("attempts:      %d\n", entry.ProcessingCount)
		if !entry.IgnoredUntil.IsZero() {
			fmt.Printf("cooldown until: %s\n", entry.IgnoredUntil.Format("2006-01-02 15:04:05"))
		}
		if entry.FileCategory != "" {
			fmt.Printf("category:      %s\n", entry.FileCategory)
		}
		if len(entry.ContentTags) > 0 {
			fmt.Printf("tags:          %s\n", strings.Join(entry.ContentTags, ", "))
		}
		if entry.SuggestedFolder != "" {
			fmt.Printf("suggested:     %s\n", entry.SuggestedFolder)
		}
		if entry.ContentSummary != "" {
			fmt.Printf("summary:       %s\n", entry.ContentSummary)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
}
