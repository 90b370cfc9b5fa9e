package main

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dd0wney/flowattack/pkg/config"
	"github.com/dd0wney/flowattack/pkg/graph"
	"github.com/dd0wney/flowattack/pkg/highlight"
	"github.com/dd0wney/flowattack/pkg/session"
)

const scenarioGraph = `0: (1,10,1.0,1) (2,10,1.0,1)
1: (2,5,1.0,1)
`

func newModel(t *testing.T) model {
	t.Helper()
	g, err := graph.LoadString(scenarioGraph)
	if err != nil {
		t.Fatalf("LoadString failed: %v", err)
	}
	sess, err := session.New(g, session.Options{Source: 0, Target: 2})
	if err != nil {
		t.Fatalf("session.New failed: %v", err)
	}
	return initialModel(context.Background(), sess, config.Default().Attack)
}

func press(m model, msg tea.KeyMsg) (model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(model), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestInitialSnapshot(t *testing.T) {
	m := newModel(t)

	if m.snap.nodes != 3 || m.snap.edges != 3 {
		t.Errorf("snapshot = %d nodes, %d edges, want 3 and 3", m.snap.nodes, m.snap.edges)
	}
	if m.snap.maxFlow != 15 || m.snap.flowErr != nil {
		t.Errorf("max flow = %d (%v), want 15", m.snap.maxFlow, m.snap.flowErr)
	}
	if m.snap.last != nil {
		t.Error("fresh session should have no last attack")
	}
	if got := len(m.edgeTable.Rows()); got != 3 {
		t.Errorf("edge table has %d rows, want 3", got)
	}
}

func TestViewNavigation(t *testing.T) {
	m := newModel(t)

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.currentView != edgesView {
		t.Errorf("tab moved to %d, want edges", m.currentView)
	}
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.currentView != reportView {
		t.Errorf("shift+tab wrapped to %d, want report", m.currentView)
	}
	m, _ = press(m, runes("3"))
	if m.currentView != consoleView || !m.input.Focused() {
		t.Errorf("'3' should open the focused console, got view %d", m.currentView)
	}
}

func TestQuitKey(t *testing.T) {
	m := newModel(t)

	if _, cmd := press(m, runes("q")); !isQuit(cmd) {
		t.Error("q on the dashboard should quit")
	}

	m.setView(consoleView)
	m, _ = press(m, runes("q"))
	if m.input.Value() != "q" {
		t.Errorf("q in the console should be typed, input = %q", m.input.Value())
	}
}

func TestConsoleAttackAndRestore(t *testing.T) {
	m := newModel(t)

	if m.runCommand("budgeted 15 N1:N2 N1:N3") {
		t.Fatal("attack should not exit")
	}
	if m.messageErr {
		t.Fatalf("attack failed: %s", m.message)
	}
	if m.snap.depth != 1 || m.snap.last == nil {
		t.Fatalf("after attack depth = %d, last = %v", m.snap.depth, m.snap.last)
	}
	if m.snap.maxFlow != 5 {
		t.Errorf("max flow after attack = %d, want 5", m.snap.maxFlow)
	}
	if m.snap.counts[highlight.Attacked] != 2 {
		t.Errorf("attacked edges = %d, want 2", m.snap.counts[highlight.Attacked])
	}
	if len(m.snap.report.Edges) != 2 {
		t.Errorf("report lists %d edges, want 2", len(m.snap.report.Edges))
	}
	if len(m.lines) == 0 || m.lines[0] != "flowattack> budgeted 15 N1:N2 N1:N3" {
		t.Errorf("console scrollback = %v", m.lines)
	}

	m, _ = press(m, runes("u"))
	if m.snap.depth != 0 || m.snap.maxFlow != 15 {
		t.Errorf("after restore depth = %d, max flow = %d", m.snap.depth, m.snap.maxFlow)
	}

	m, _ = press(m, runes("u"))
	if !m.messageErr {
		t.Error("restoring an empty history should report an error")
	}
}

func TestConsoleErrorsAndExit(t *testing.T) {
	m := newModel(t)

	m.runCommand("teleport")
	if !m.messageErr {
		t.Error("unknown command should set an error message")
	}
	if last := m.lines[len(m.lines)-1]; !strings.HasPrefix(last, "error:") {
		t.Errorf("last console line = %q", last)
	}

	if m.runCommand("   ") {
		t.Error("blank line should not exit")
	}
	if !m.runCommand("exit") {
		t.Error("exit should end the program")
	}
}

func TestInspectSelectedEdge(t *testing.T) {
	m := newModel(t)
	m.setView(edgesView)

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.messageErr || !strings.HasPrefix(m.message, "N1→N2 capacity 10") {
		t.Errorf("inspect message = %q", m.message)
	}
}

func TestViewRendersEveryTab(t *testing.T) {
	m := newModel(t)
	if got := m.View(); got != "Initializing..." {
		t.Errorf("View before sizing = %q", got)
	}

	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(model)
	m.runCommand("budgeted 5 N2:N3")

	wants := map[view]string{
		dashboardView: "Max flow:",
		edgesView:     "Category",
		consoleView:   "flowattack> budgeted 5 N2:N3",
		reportView:    "Total capacity 25 → 20",
	}
	for v, want := range wants {
		m.setView(v)
		if out := m.View(); !strings.Contains(out, want) {
			t.Errorf("%s view missing %q", viewNames[v], want)
		}
	}
}
