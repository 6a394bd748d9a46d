package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"curator/internal/adapters/fingerprint"
	"curator/internal/adapters/sqlite"
	"curator/internal/application"
	"curator/internal/config"
)

var (
	dbPath string
	engine *application.Engine
	store  *sqlite.Store
)

var rootCmd = &cobra.Command{
	Use:   "curator-cli",
	Short: "CLI for the file identity and duplicate-resolution engine",
	Long: `curator-cli tracks the files dropped into a monitored folder by
content fingerprint: it decides whether an event is new content or a
re-observation, finds exact and near duplicates, derives tags, and
recommends destination folders.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		var err error
		store, err = sqlite.Open(dbPath)
		if err != nil {
			return err
		}
		engine = application.NewEngine(store, fingerprint.NewHasher(), application.DefaultOptions())
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if store != nil {
			return store.Close()
		}
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", config.DatabasePath(), "path to the registry database")
}

// GetEngine returns the initialized engine
func GetEngine() *application.Engine {
	return engine
}
