package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"curator/internal/adapters/fingerprint"
	"curator/internal/adapters/sqlite"
	"curator/internal/adapters/tui"
	"curator/internal/application"
	"curator/internal/config"
)

func main() {
	store, err := sqlite.Open(config.DatabasePath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	engine := application.NewEngine(store, fingerprint.NewHasher(), application.DefaultOptions())

	app := tui.NewApp(engine)

	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
