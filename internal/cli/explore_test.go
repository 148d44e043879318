package cli

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/jsongraph/pkg/layout"
	"github.com/matzehuels/jsongraph/pkg/session"
)

func newTestExplorer(t *testing.T, file string) *exploreModel {
	t.Helper()
	sess := session.New(session.Options{Engine: layout.NewLayered()})
	m := newExploreModel(context.Background(), sess, file, "")
	m.toastTTL = 0
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 6})
	return m
}

func keys(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// send delivers msg and feeds the message produced by any returned command
// back into the model, skipping toast timers.
func send(m *exploreModel, msg tea.Msg) {
	_, cmd := m.Update(msg)
	if cmd == nil {
		return
	}
	switch next := cmd().(type) {
	case generatedMsg, searchedMsg:
		send(m, next)
	}
}

func TestExploreLoadSample(t *testing.T) {
	m := newTestExplorer(t, "")
	if !strings.Contains(m.View(), "No graph") {
		t.Errorf("idle view should show the placeholder:\n%s", m.View())
	}

	send(m, keys("s"))

	if m.busy {
		t.Error("busy after generation finished")
	}
	if m.stats.Nodes != 14 {
		t.Errorf("stats.Nodes = %d, want 14", m.stats.Nodes)
	}
	if len(m.lines) == 0 {
		t.Fatal("no tree lines after loading the sample")
	}
	if m.toast == nil || m.toast.level != session.LevelInfo {
		t.Errorf("toast = %+v, want info", m.toast)
	}
	if !strings.Contains(m.View(), "14 nodes") {
		t.Errorf("view should show the node count:\n%s", m.View())
	}
}

func TestExploreSearch(t *testing.T) {
	m := newTestExplorer(t, "")
	send(m, keys("s"))

	send(m, keys("/"))
	if !m.searching {
		t.Fatal("/ should enter search mode")
	}
	send(m, keys("address.cx"))
	send(m, tea.KeyMsg{Type: tea.KeyBackspace})
	send(m, keys("ity"))
	if got := string(m.query); got != "address.city" {
		t.Fatalf("query = %q, want address.city", got)
	}
	send(m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.searching {
		t.Error("enter should leave search mode")
	}
	if m.sess.State() != session.StateHighlighted {
		t.Errorf("state = %v, want highlighted", m.sess.State())
	}
	if m.toast == nil || !strings.Contains(m.toast.text, "Bengaluru") {
		t.Errorf("toast = %+v, want the found path", m.toast)
	}
	if m.lastQuery != "address.city" {
		t.Errorf("lastQuery = %q", m.lastQuery)
	}
}

func TestExploreSearchMiss(t *testing.T) {
	m := newTestExplorer(t, "")
	send(m, keys("s"))
	send(m, keys("/"))
	send(m, keys("nothing"))
	send(m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.toast == nil || m.toast.level != session.LevelWarning {
		t.Fatalf("toast = %+v, want warning", m.toast)
	}
	if !strings.Contains(m.toast.text, "nothing") {
		t.Errorf("toast %q should name the query", m.toast.text)
	}
}

func TestExploreSearchEscape(t *testing.T) {
	m := newTestExplorer(t, "")
	send(m, keys("/"))
	send(m, keys("name"))
	send(m, tea.KeyMsg{Type: tea.KeyEsc})

	if m.searching || m.lastQuery != "" {
		t.Errorf("esc should cancel the search (searching=%v lastQuery=%q)", m.searching, m.lastQuery)
	}
}

func TestExploreClear(t *testing.T) {
	m := newTestExplorer(t, "")
	send(m, keys("s"))
	send(m, keys("c"))

	if len(m.lines) != 0 || m.stats.Nodes != 0 {
		t.Errorf("clear left %d lines, %d nodes", len(m.lines), m.stats.Nodes)
	}
	if m.sess.State() != session.StateIdle {
		t.Errorf("state = %v, want idle", m.sess.State())
	}
}

func TestExploreReloadWithoutFile(t *testing.T) {
	m := newTestExplorer(t, "")
	send(m, keys("r"))
	if m.toast == nil || m.toast.level != session.LevelWarning {
		t.Errorf("toast = %+v, want warning", m.toast)
	}
}

func TestExploreReloadFile(t *testing.T) {
	path := writeTemp(t, "doc.json", `{"a": {"b": 1}}`)
	m := newTestExplorer(t, path)
	send(m, keys("r"))

	if m.stats.Nodes == 0 {
		t.Fatal("reload did not build a graph")
	}
	if !strings.Contains(m.View(), "doc.json") {
		t.Errorf("title should show the file name:\n%s", m.View())
	}
}

func TestExploreInvalidJSON(t *testing.T) {
	m := newTestExplorer(t, "")
	send(m, keys("s"))
	send(m, m.generateCmd(`{"a":`)())

	if m.toast == nil || m.toast.level != session.LevelError {
		t.Fatalf("toast = %+v, want error", m.toast)
	}
	if len(m.lines) != 0 {
		t.Error("invalid JSON should clear the tree")
	}
}

func TestExploreToastExpiry(t *testing.T) {
	m := newTestExplorer(t, "")
	send(m, keys("r"))
	stale := m.toastID
	send(m, keys("n"))

	send(m, toastExpiredMsg{id: stale})
	if m.toast == nil {
		t.Fatal("an expired older toast should not hide the newer one")
	}
	send(m, toastExpiredMsg{id: m.toastID})
	if m.toast != nil {
		t.Error("toast should expire")
	}
}

func TestExploreScroll(t *testing.T) {
	m := newTestExplorer(t, "")
	send(m, keys("s"))

	send(m, keys("G"))
	want := len(m.lines) - m.bodyHeight()
	if want <= 0 {
		t.Fatalf("sample fits the window (%d lines, body %d)", len(m.lines), m.bodyHeight())
	}
	if m.offset != want {
		t.Errorf("offset after G = %d, want %d", m.offset, want)
	}
	send(m, keys("g"))
	if m.offset != 0 {
		t.Errorf("offset after g = %d, want 0", m.offset)
	}
	send(m, keys("k"))
	if m.offset != 0 {
		t.Errorf("offset should not go negative, got %d", m.offset)
	}
}

func TestExploreQuit(t *testing.T) {
	m := newTestExplorer(t, "")
	_, cmd := m.Update(keys("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}
