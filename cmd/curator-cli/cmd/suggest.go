package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
)

var suggestCopy bool

var suggestCmd = &cobra.Command{
	Use:   "suggest <path>",
	Short: "Recommend a destination folder for a file",
	Long: `Recommend where a file should live, based on its content category
and where similar files already live.

Examples:
  curator-cli suggest ~/Downloads/invoice.pdf
  curator-cli suggest --copy ~/Downloads/invoice.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}

		s := GetEngine().SuggestFolder(path)
		fmt.Printf("%s (confidence %.1f, %s)\n", s.SuggestedPath, s.Confidence, s.BasedOn)
		fmt.Printf("  %s\n", s.Reasoning)
		for _, alt := range s.Alternatives {
			fmt.Printf("  alternative: %s\n", alt)
		}

		if suggestCopy {
			if err := clipboard.WriteAll(s.SuggestedPath); err != nil {
				return fmt.Errorf("failed to copy to clipboard: %w", err)
			}
			fmt.Println("Copied to clipboard")
		}
		return nil
	},
}

func init() {
	suggestCmd.Flags().BoolVarP(&suggestCopy, "copy", "c", false, "copy the suggested path to the clipboard")
	rootCmd.AddCommand(suggestCmd)
}
