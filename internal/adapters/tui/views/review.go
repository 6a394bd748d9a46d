package views

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"curator/internal/adapters/tui/styles"
	"curator/internal/application"
	"curator/internal/domain"
)

// ReviewState represents the state of the review view
type ReviewState int

const (
	ReviewLoading ReviewState = iota
	ReviewShowList
	ReviewError
)

// ReviewKeyMap defines key bindings for the review view
type ReviewKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Accept  key.Binding
	Reject  key.Binding
	Modify  key.Binding
	Copy    key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

var ReviewKeys = ReviewKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j", "down"),
	),
	Accept: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "accept"),
	),
	Reject: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reject"),
	),
	Modify: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "mark modified"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy destination"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("R"),
		key.WithHelp("R", "refresh"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

type entriesLoadedMsg struct{ entries []*domain.RegistryEntry }

type actionDoneMsg struct {
	action domain.UserAction
	name   string
}

type reviewErrMsg struct{ err error }

// ReviewModel lists pending registry entries for triage.
type ReviewModel struct {
	ViewState
	engine  *application.Engine
	entries []*domain.RegistryEntry
	cursor  int
	state   ReviewState
	err     error
	spinner spinner.Model
}

// NewReviewModel creates a new review view model
func NewReviewModel(engine *application.Engine) *ReviewModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Spinner

	return &ReviewModel{
		engine:  engine,
		spinner: s,
		state:   ReviewLoading,
	}
}

// Init initializes the review view
func (m *ReviewModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadEntries())
}

func (m *ReviewModel) loadEntries() tea.Cmd {
	return func() tea.Msg {
		entries, err := m.engine.Pending()
		if err != nil {
			return reviewErrMsg{err: err}
		}
		return entriesLoadedMsg{entries: entries}
	}
}

func (m *ReviewModel) recordAction(entry *domain.RegistryEntry, action domain.UserAction) tea.Cmd {
	return func() tea.Msg {
		if _, err := m.engine.RecordUserAction(entry.CurrentPath, action, ""); err != nil {
			return reviewErrMsg{err: err}
		}
		return actionDoneMsg{action: action, name: filepath.Base(entry.CurrentPath)}
	}
}

// Update handles messages for the review view
func (m *ReviewModel) Update(msg tea.Msg) (*ReviewModel, tea.Cmd) {
	switch msg := msg.(type) {
	case entriesLoadedMsg:
		m.entries = msg.entries
		m.state = ReviewShowList
		if m.cursor >= len(m.entries) {
			m.cursor = max(0, len(m.entries)-1)
		}
		return m, nil

	case actionDoneMsg:
		m.SetMessage(fmt.Sprintf("%s: %s", msg.action, msg.name), false)
		return m, m.loadEntries()

	case reviewErrMsg:
		m.err = msg.err
		m.state = ReviewError
		return m, nil

	case spinner.TickMsg:
		if m.state == ReviewLoading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *ReviewModel) handleKey(msg tea.KeyMsg) (*ReviewModel, tea.Cmd) {
	switch {
	case key.Matches(msg, ReviewKeys.Quit):
		return m, tea.Quit

	case key.Matches(msg, ReviewKeys.Refresh):
		m.ClearMessage()
		m.state = ReviewLoading
		return m, tea.Batch(m.spinner.Tick, m.loadEntries())

	case key.Matches(msg, ReviewKeys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, ReviewKeys.Down):
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, ReviewKeys.Accept):
		if e := m.selected(); e != nil {
			return m, m.recordAction(e, domain.ActionAccepted)
		}
		return m, nil

	case key.Matches(msg, ReviewKeys.Reject):
		if e := m.selected(); e != nil {
			return m, m.recordAction(e, domain.ActionRejected)
		}
		return m, nil

	case key.Matches(msg, ReviewKeys.Modify):
		if e := m.selected(); e != nil {
			return m, m.recordAction(e, domain.ActionModified)
		}
		return m, nil

	case key.Matches(msg, ReviewKeys.Copy):
		if e := m.selected(); e != nil && e.SuggestedFolder != "" {
			dest := filepath.Join(e.SuggestedFolder, filepath.Base(e.CurrentPath))
			if err := clipboard.WriteAll(dest); err != nil {
				m.SetMessage("clipboard unavailable", true)
			} else {
				m.SetMessage("copied "+dest, false)
			}
		}
		return m, nil
	}

	return m, nil
}

func (m *ReviewModel) selected() *domain.RegistryEntry {
	if m.cursor < 0 || m.cursor >= len(m.entries) {
		return nil
	}
	return m.entries[m.cursor]
}

// View renders the review view
func (m *ReviewModel) View() string {
	var sb strings.Builder

	sb.WriteString(styles.Title.Render("Review queue"))
	sb.WriteString("\n")

	switch m.state {
	case ReviewLoading:
		sb.WriteString(m.spinner.View())
		sb.WriteString(" loading registry...\n")

	case ReviewError:
		sb.WriteString(styles.ErrorMsg.Render(m.err.Error()))
		sb.WriteString("\n")

	case ReviewShowList:
		if len(m.entries) == 0 {
			sb.WriteString(styles.Subtitle.Render("Nothing pending."))
			sb.WriteString("\n")
			break
		}
		for i, entry := range m.entries {
			sb.WriteString(m.renderEntry(i, entry))
		}
	}

	if m.Message != "" {
		sb.WriteString("\n")
		if m.MessageErr {
			sb.WriteString(styles.ErrorMsg.Render(m.Message))
		} else {
			sb.WriteString(styles.Success.Render(m.Message))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(renderHelp())
	return styles.App.Render(sb.String())
}

func (m *ReviewModel) renderEntry(i int, entry *domain.RegistryEntry) string {
	line := filepath.Base(entry.CurrentPath)
	if entry.FileCategory != "" {
		line += "  " + styles.TagBadge.Render("["+entry.FileCategory+"]")
	}
	if entry.SuggestedFolder != "" {
		line += "  " + styles.FolderHint.Render("→ "+entry.SuggestedFolder)
	}

	if i == m.cursor {
		return styles.RowSelected.Render("> "+line) + "\n"
	}
	return "  " + line + "\n"
}

func renderHelp() string {
	bindings := []key.Binding{
		ReviewKeys.Up, ReviewKeys.Down, ReviewKeys.Accept, ReviewKeys.Reject,
		ReviewKeys.Modify, ReviewKeys.Copy, ReviewKeys.Refresh, ReviewKeys.Quit,
	}

	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, styles.HelpKey.Render(h.Key)+" "+styles.HelpDesc.Render(h.Desc))
	}
	return strings.Join(parts, styles.HelpSeparator.String())
}
