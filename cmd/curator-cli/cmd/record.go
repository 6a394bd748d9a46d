package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"curator/internal/domain"
)

var (
	recordNewPath       string
	recordResetCooldown bool
)

var recordCmd = &cobra.Command{
	Use:   "record <path> [accepted|rejected|modified]",
	Short: "Record the user's decision about a suggestion",
	Long: `Record what the user did with a suggestion for a file. Starts the
cooldown window so the decision is not immediately re-litigated.

Examples:
  curator-cli record ~/Downloads/invoice.pdf accepted
  curator-cli record ~/Downloads/invoice.pdf accepted --new-path ~/Finance/Invoices/invoice.pdf
  curator-cli record ~/Downloads/invoice.pdf --reset-cooldown`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}

		if recordResetCooldown {
			found, err := GetEngine().ResetCooldown(path)
			if err != nil {
				return err
			}
			if !found {
				fmt.Println("Not in registry")
				return nil
			}
			fmt.Println("Cooldown cleared")
			return nil
		}

		if len(args) < 2 {
			return fmt.Errorf("an action is required (accepted, rejected, or modified)")
		}

		found, err := GetEngine().RecordUserAction(path, domain.ParseUserAction(args[1]), recordNewPath)
		if err != nil {
			return err
		}
		if !found {
			fmt.Println("Not in registry")
			return nil
		}
		fmt.Printf("Recorded %s for %s\n", args[1], filepath.Base(path))
		return nil
	},
}

func init() {
	recordCmd.Flags().StringVar(&recordNewPath, "new-path", "", "where the file ended up, when it was relocated")
	recordCmd.Flags().BoolVar(&recordResetCooldown, "reset-cooldown", false, "clear the cooldown instead of recording an action")
	rootCmd.AddCommand(recordCmd)
}
