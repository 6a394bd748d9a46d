package views

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"curator/internal/adapters/fingerprint"
	"curator/internal/adapters/memory"
	"curator/internal/application"
	"curator/internal/domain"
)

func newTestModel() *ReviewModel {
	engine := application.NewEngine(memory.NewStore(), fingerprint.NewHasher(), application.DefaultOptions())
	return NewReviewModel(engine)
}

func keyMsg(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func testEntries() []*domain.RegistryEntry {
	return []*domain.RegistryEntry{
		{
			Fingerprint:     "fp1",
			CurrentPath:     "/in/report.pdf",
			ProcessedAt:     time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
			UserAction:      domain.ActionPending,
			FileCategory:    "report",
			SuggestedFolder: "/docs/Reports",
		},
		{
			Fingerprint: "fp2",
			CurrentPath: "/in/scan.png",
			ProcessedAt: time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC),
			UserAction:  domain.ActionPending,
		},
	}
}

func TestReviewModel_LoadedEntriesShowList(t *testing.T) {
	m := newTestModel()

	m, _ = m.Update(entriesLoadedMsg{entries: testEntries()})

	if m.state != ReviewShowList {
		t.Errorf("expected list state, got %d", m.state)
	}

	view := m.View()
	if !strings.Contains(view, "report.pdf") || !strings.Contains(view, "scan.png") {
		t.Errorf("entries missing from view:\n%s", view)
	}
	if !strings.Contains(view, "/docs/Reports") {
		t.Errorf("suggested folder missing from view:\n%s", view)
	}
}

func TestReviewModel_CursorNavigation(t *testing.T) {
	m := newTestModel()
	m, _ = m.Update(entriesLoadedMsg{entries: testEntries()})

	m, _ = m.Update(keyMsg('j'))
	if m.cursor != 1 {
		t.Errorf("cursor should move down, got %d", m.cursor)
	}

	// Already at the bottom.
	m, _ = m.Update(keyMsg('j'))
	if m.cursor != 1 {
		t.Errorf("cursor should stop at the last entry, got %d", m.cursor)
	}

	m, _ = m.Update(keyMsg('k'))
	if m.cursor != 0 {
		t.Errorf("cursor should move up, got %d", m.cursor)
	}

	m, _ = m.Update(keyMsg('k'))
	if m.cursor != 0 {
		t.Errorf("cursor should stop at the first entry, got %d", m.cursor)
	}
}

func TestReviewModel_CursorClampedOnReload(t *testing.T) {
	m := newTestModel()
	m, _ = m.Update(entriesLoadedMsg{entries: testEntries()})
	m, _ = m.Update(keyMsg('j'))

	m, _ = m.Update(entriesLoadedMsg{entries: testEntries()[:1]})
	if m.cursor != 0 {
		t.Errorf("cursor should clamp to the shrunken list, got %d", m.cursor)
	}
}

func TestReviewModel_EmptyList(t *testing.T) {
	m := newTestModel()
	m, _ = m.Update(entriesLoadedMsg{entries: nil})

	if !strings.Contains(m.View(), "Nothing pending") {
		t.Errorf("empty queue not surfaced:\n%s", m.View())
	}
}

func TestReviewModel_ErrorState(t *testing.T) {
	m := newTestModel()
	m, _ = m.Update(reviewErrMsg{err: errors.New("registry unavailable")})

	if m.state != ReviewError {
		t.Errorf("expected error state, got %d", m.state)
	}
	if !strings.Contains(m.View(), "registry unavailable") {
		t.Errorf("error missing from view:\n%s", m.View())
	}
}

func TestReviewModel_QuitKey(t *testing.T) {
	m := newTestModel()
	m, _ = m.Update(entriesLoadedMsg{entries: testEntries()})

	_, cmd := m.Update(keyMsg('q'))
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestReviewModel_ActionDoneTriggersReload(t *testing.T) {
	m := newTestModel()
	m, _ = m.Update(entriesLoadedMsg{entries: testEntries()})

	m, cmd := m.Update(actionDoneMsg{action: domain.ActionAccepted, name: "report.pdf"})
	if cmd == nil {
		t.Error("expected a reload command after an action")
	}
	if !strings.Contains(m.Message, "report.pdf") {
		t.Errorf("status message missing: %q", m.Message)
	}
}
