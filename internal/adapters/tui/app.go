// Package tui is the review interface over the engine: triage pending
// files, record decisions, and copy suggested destinations.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"curator/internal/adapters/tui/views"
	"curator/internal/application"
)

// App is the main TUI application model
type App struct {
	engine *application.Engine
	review *views.ReviewModel

	width  int
	height int
}

// NewApp creates a new TUI application
func NewApp(engine *application.Engine) *App {
	return &App{
		engine: engine,
		review: views.NewReviewModel(engine),
	}
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return a.review.Init()
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		a.width = size.Width
		a.height = size.Height
		a.review.SetSize(size.Width, size.Height)
		return a, nil
	}

	var cmd tea.Cmd
	a.review, cmd = a.review.Update(msg)
	return a, cmd
}

// View renders the application
func (a *App) View() string {
	return a.review.View()
}
