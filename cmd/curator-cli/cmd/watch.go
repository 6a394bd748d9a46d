package cmd

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"curator/internal/adapters/claudecli"
	"curator/internal/adapters/watcher"
	"curator/internal/config"
	"curator/internal/domain"
	"curator/internal/ports"
)

const previewLimit = 4096

var (
	watchAnalyze bool
	watchModel   string
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Watch a folder and register new content as it lands",
	Long: `Watch a folder for filesystem events. Each settled event is run
through the processing decision; admitted files are registered and,
with --analyze, classified via the claude CLI and enriched with tags
and a folder suggestion. Runs until interrupted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := config.WatchPath()
		if len(args) == 1 {
			dir = args[0]
		}
		dir, err := expandHome(dir)
		if err != nil {
			return err
		}

		var analyzer ports.ContentAnalyzer
		if watchAnalyze {
			analyzer = claudecli.NewAnalyzer(claudecli.WithModel(watchModel))
		}

		engine := GetEngine()
		w, err := watcher.New(dir, 500*time.Millisecond, func(path string, kind domain.EventKind) {
			decision := engine.ShouldProcess(path, kind)
			if !decision.Allow {
				log.Printf("skip %s: %s", filepath.Base(path), decision.Reason)
				return
			}

			if _, err := engine.RegisterForProcessing(path); err != nil {
				log.Printf("register %s: %v", filepath.Base(path), err)
				return
			}
			log.Printf("registered %s (%s)", filepath.Base(path), decision.Reason)

			if analyzer == nil {
				return
			}
			analysis, err := analyzer.Analyze(path, readPreview(path))
			if err != nil {
				log.Printf("analyze %s: %v", filepath.Base(path), err)
				return
			}
			if _, err := engine.UpdateWithAnalysis(path, analysis); err != nil {
				log.Printf("enrich %s: %v", filepath.Base(path), err)
				return
			}
			log.Printf("classified %s as %s", filepath.Base(path), analysis.Category)
		})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go engine.RunCleanup(ctx)

		fmt.Printf("Watching %s\n", dir)
		return w.Run(ctx)
	},
}

// readPreview returns the start of the file when it looks like text,
// empty otherwise.
func readPreview(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	buf := make([]byte, previewLimit)
	n, _ := f.Read(buf)
	buf = buf[:n]
	if !utf8.Valid(buf) || strings.ContainsRune(string(buf), 0) {
		return ""
	}
	return string(buf)
}

func expandHome(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}

func init() {
	watchCmd.Flags().BoolVar(&watchAnalyze, "analyze", false, "classify admitted files via the claude CLI")
	watchCmd.Flags().StringVar(&watchModel, "model", "haiku", "claude model for classification")
	rootCmd.AddCommand(watchCmd)
}
