package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <path>",
	Short: "Run the full analysis for a file",
	Long: `Check a file for duplicates, derive its tags, and recommend a
destination folder. Safe to run for files that were never registered.

Examples:
  curator-cli analyze ~/Downloads/invoice.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}

		full := GetEngine().FullAnalysisFor(path)

		dup := full.Duplicates
		fmt.Printf("duplicate: %t (confidence %.1f, action %s)\n", dup.IsDuplicate, dup.Confidence, dup.Action)
		fmt.Printf("  %s\n", dup.Reason)
		for _, p := range dup.DuplicateFiles {
			fmt.Printf("  exact: %s\n", p)
		}
		for _, p := range dup.SimilarFiles {
			fmt.Printf("  similar: %s\n", p)
		}
		if dup.BetterVersion != nil {
			fmt.Printf("  better version: %s (%s)\n", dup.BetterVersion.FilePath, dup.BetterVersion.Reason)
		}

		fmt.Println("tags:")
		for _, t := range full.Tags {
			fmt.Printf("  %s  %.1f  %s\n", t.Tag, t.Confidence, t.Source)
		}

		fmt.Printf("folder: %s (confidence %.1f, %s)\n", full.Folder.SuggestedPath, full.Folder.Confidence, full.Folder.BasedOn)
		for _, alt := range full.Folder.Alternatives {
			fmt.Printf("  alternative: %s\n", alt)
		}

		if full.Entry != nil {
			fmt.Printf("registry: %s, processed %d time(s)\n", full.Entry.UserAction, full.Entry.ProcessingCount)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}
