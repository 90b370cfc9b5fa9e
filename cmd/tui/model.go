package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/flowattack/pkg/attack"
	"github.com/dd0wney/flowattack/pkg/config"
	"github.com/dd0wney/flowattack/pkg/graph"
	"github.com/dd0wney/flowattack/pkg/highlight"
	"github.com/dd0wney/flowattack/pkg/history"
	"github.com/dd0wney/flowattack/pkg/repl"
	"github.com/dd0wney/flowattack/pkg/session"
	"github.com/dd0wney/flowattack/pkg/visualization"
)

type view int

const (
	dashboardView view = iota
	edgesView
	consoleView
	reportView
	viewCount
)

var viewNames = []string{"Dashboard", "Edges", "Console", "Report"}

// maxConsoleLines bounds the console scrollback.
const maxConsoleLines = 500

type keyMap struct {
	Tab      key.Binding
	ShiftTab key.Binding
	Enter    key.Binding
	Undo     key.Binding
	Refresh  key.Binding
	Quit     key.Binding
	Up       key.Binding
	Down     key.Binding
}

var keys = keyMap{
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next view"),
	),
	ShiftTab: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "prev view"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "run / inspect"),
	),
	Undo: key.NewBinding(
		key.WithKeys("u"),
		key.WithHelp("u", "restore"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Enter, k.Undo, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ShiftTab, k.Enter},
		{k.Up, k.Down, k.Undo, k.Refresh},
		{k.Quit},
	}
}

// snapshot is the session state the views render, refreshed after every
// action and on each tick.
type snapshot struct {
	nodes    int
	edges    int
	capacity int64
	depth    int
	focus    history.Focus
	maxFlow  int64
	flowErr  error
	last     *attack.Result
	counts   map[highlight.Category]int
	links    []visualization.Link
	report   visualization.CapacityReport
	affected []visualization.AffectedPath
}

type model struct {
	ctx         context.Context
	sess        *session.Session
	console     *repl.REPL
	consoleOut  *bytes.Buffer
	lines       []string
	currentView view
	input       textinput.Model
	edgeTable   table.Model
	help        help.Model
	keys        keyMap
	width       int
	height      int
	message     string
	messageErr  bool
	startTime   time.Time
	snap        snapshot
}

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(2*time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func initialModel(ctx context.Context, sess *session.Session, defaults config.AttackConfig) model {
	ti := textinput.New()
	ti.Placeholder = "budgeted 10 flow"
	ti.Prompt = "flowattack> "
	ti.CharLimit = 200
	ti.Width = 60

	columns := []table.Column{
		{Title: "From", Width: 8},
		{Title: "To", Width: 8},
		{Title: "Capacity", Width: 10},
		{Title: "Flag", Width: 6},
		{Title: "Category", Width: 18},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#00FFFF")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#FF00FF")).
		Bold(false)
	t.SetStyles(s)

	out := new(bytes.Buffer)
	m := model{
		ctx:         ctx,
		sess:        sess,
		console:     repl.New(sess, defaults, out),
		consoleOut:  out,
		currentView: dashboardView,
		input:       ti,
		edgeTable:   t,
		help:        help.New(),
		keys:        keys,
		startTime:   time.Now(),
	}
	m.refresh()
	return m
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		tickCmd(),
	)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tickMsg:
		m.refresh()
		return m, tickCmd()

	case tea.KeyMsg:
		typing := m.currentView == consoleView
		switch {
		case msg.String() == "ctrl+c":
			return m, tea.Quit

		case key.Matches(msg, m.keys.Quit) && !typing:
			return m, tea.Quit

		case key.Matches(msg, m.keys.Tab):
			m.setView((m.currentView + 1) % viewCount)
			return m, nil

		case key.Matches(msg, m.keys.ShiftTab):
			m.setView((m.currentView + viewCount - 1) % viewCount)
			return m, nil

		case key.Matches(msg, m.keys.Enter):
			switch m.currentView {
			case consoleView:
				if m.runCommand(m.input.Value()) {
					return m, tea.Quit
				}
				m.input.Reset()
				return m, nil
			case edgesView:
				m.inspectSelected()
				return m, nil
			}

		case key.Matches(msg, m.keys.Undo) && !typing:
			m.restore()
			return m, nil

		case key.Matches(msg, m.keys.Refresh) && !typing:
			m.refresh()
			m.setMessage("Refreshed", nil)
			return m, nil

		case !typing && len(msg.Runes) == 1 && msg.Runes[0] >= '1' && msg.Runes[0] < '1'+rune(viewCount):
			m.setView(view(msg.Runes[0] - '1'))
			return m, nil
		}
	}

	switch m.currentView {
	case consoleView:
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	case edgesView:
		m.edgeTable, cmd = m.edgeTable.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *model) setView(v view) {
	m.currentView = v
	if v == consoleView {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

func (m *model) setMessage(text string, err error) {
	if err != nil {
		m.message = err.Error()
		m.messageErr = true
		return
	}
	m.message = text
	m.messageErr = false
}

// runCommand executes a console line through the shared REPL command set and
// reports whether the user asked to exit.
func (m *model) runCommand(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	m.consoleOut.Reset()
	err := m.console.Execute(m.ctx, line)
	if errors.Is(err, repl.ErrExit) {
		return true
	}

	m.appendLines("flowattack> " + line)
	m.appendLines(strings.Split(strings.TrimRight(m.consoleOut.String(), "\n"), "\n")...)
	if err != nil {
		m.appendLines("error: " + err.Error())
	}
	m.setMessage("Executed: "+line, err)
	m.refresh()
	return false
}

func (m *model) appendLines(lines ...string) {
	for _, l := range lines {
		if l != "" {
			m.lines = append(m.lines, l)
		}
	}
	if n := len(m.lines) - maxConsoleLines; n > 0 {
		m.lines = m.lines[n:]
	}
}

func (m *model) restore() {
	err := m.sess.Restore(m.ctx)
	m.refresh()
	m.setMessage(fmt.Sprintf("Restored, %d snapshot(s) left", m.snap.depth), err)
}

func (m *model) inspectSelected() {
	i := m.edgeTable.Cursor()
	if i < 0 || i >= len(m.snap.links) {
		return
	}
	l := m.snap.links[i]
	info, ok := m.sess.EdgeInfo(graph.EdgeKey{From: l.Source, To: l.Target})
	if !ok {
		m.setMessage("", fmt.Errorf("edge %s→%s no longer exists", graph.Label(l.Source), graph.Label(l.Target)))
		return
	}

	text := fmt.Sprintf("%s→%s capacity %d", info.FromLabel, info.ToLabel, info.Capacity)
	if info.Previous != nil {
		text += fmt.Sprintf(" (was %d)", *info.Previous)
	}
	text += fmt.Sprintf(", weight %g, flag %d, %s", info.Weight, info.Flag, info.Category)
	m.setMessage(text, nil)
}

func (m *model) refresh() {
	var snap snapshot
	m.sess.Read(func(st session.State) {
		snap.nodes = st.Graph.NodeCount()
		snap.edges = st.Graph.EdgeCount()
		snap.capacity = st.Graph.TotalCapacity()
		snap.depth = st.HistoryDepth
		snap.focus = st.Focus
		snap.last = st.LastAttack
	})

	res, err := m.sess.MaxFlow()
	snap.maxFlow, snap.flowErr = res.Value, err

	snap.links = m.sess.GraphData().Links
	snap.counts = make(map[highlight.Category]int)
	rows := make([]table.Row, 0, len(snap.links))
	for _, l := range snap.links {
		snap.counts[l.Category]++
		rows = append(rows, table.Row{
			graph.Label(l.Source),
			graph.Label(l.Target),
			strconv.FormatInt(l.Capacity, 10),
			strconv.Itoa(l.Flag),
			l.Category.String(),
		})
	}
	m.edgeTable.SetRows(rows)

	snap.report = m.sess.Report()
	snap.affected = m.sess.AffectedPaths()
	m.snap = snap
}
