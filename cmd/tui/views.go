package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/flowattack/pkg/graph"
	"github.com/dd0wney/flowattack/pkg/highlight"
)

// consoleHeight is the number of scrollback lines shown in the console.
const consoleHeight = 14

func (m model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var s strings.Builder

	s.WriteString(titleStyle.Render("flowattack - capacity attack simulator"))
	s.WriteString("\n\n")

	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	switch m.currentView {
	case dashboardView:
		s.WriteString(m.renderDashboard())
	case edgesView:
		s.WriteString(m.renderEdges())
	case consoleView:
		s.WriteString(m.renderConsole())
	case reportView:
		s.WriteString(m.renderReport())
	}

	if m.message != "" {
		s.WriteString("\n\n")
		if m.messageErr {
			s.WriteString(errorStyle.Render("✗ " + m.message))
		} else {
			s.WriteString(successStyle.Render("✓ " + m.message))
		}
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))

	return s.String()
}

func (m model) renderTabs() string {
	var renderedTabs []string
	for i, tab := range viewNames {
		if view(i) == m.currentView {
			renderedTabs = append(renderedTabs, activeTabStyle.Render(tab))
		} else {
			renderedTabs = append(renderedTabs, inactiveTabStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, renderedTabs...)
}

func (m model) renderDashboard() string {
	snap := m.snap
	uptime := time.Since(m.startTime).Round(time.Second)

	flow := fmt.Sprintf("%d", snap.maxFlow)
	if snap.flowErr != nil {
		flow = "n/a"
	}

	statsContent := fmt.Sprintf(`Graph
───────────────
Nodes:     %d
Edges:     %d
Capacity:  %d
Max flow:  %s
History:   %d
Uptime:    %s

Focus
───────────────
Source:    %s
Target:    %s
Center:    %s`,
		snap.nodes,
		snap.edges,
		snap.capacity,
		flow,
		snap.depth,
		uptime,
		graph.Label(snap.focus.Source),
		graph.Label(snap.focus.Target),
		graph.Label(snap.focus.Center),
	)

	boxes := []string{statsBoxStyle.Render(statsContent), statsBoxStyle.Render(m.lastAttackSummary())}
	return contentStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top, boxes...))
}

func (m model) lastAttackSummary() string {
	var s strings.Builder
	s.WriteString("Last attack\n───────────────\n")

	last := m.snap.last
	if last == nil {
		s.WriteString("none\n\nUse the Console tab:\n  budgeted 10 flow\n  multistep 2 capacity")
		return s.String()
	}

	fmt.Fprintf(&s, "Kind:      %s\n", last.Kind)
	fmt.Fprintf(&s, "Targets:   %d\n", len(last.Targets))
	fmt.Fprintf(&s, "Capacity:  %d → %d\n", last.CapacityBefore, last.CapacityAfter)
	fmt.Fprintf(&s, "Removed:   %.1f%%\n", last.ReductionPercent())
	if last.Impact != nil {
		fmt.Fprintf(&s, "Flow:      %d → %d\n", last.Impact.FlowBefore, last.Impact.FlowAfter)
		fmt.Fprintf(&s, "Severity:  %s\n", last.Impact.Severity)
	}

	s.WriteString("\nHighlights\n───────────────\n")
	for _, c := range []highlight.Category{highlight.Attacked, highlight.ContextForward, highlight.ContextBackward} {
		label := fmt.Sprintf("%-17s %d", c.String()+":", m.snap.counts[c])
		s.WriteString(categoryStyles[c].Render(label))
		s.WriteString("\n")
	}
	return strings.TrimRight(s.String(), "\n")
}

func (m model) renderEdges() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("Edges"))
	s.WriteString("\n\n")
	s.WriteString(m.edgeTable.View())
	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render("Navigate with ↑/↓ • enter inspects the selected edge • u restores"))

	return contentStyle.Render(s.String())
}

func (m model) renderConsole() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("Console"))
	s.WriteString("\n\n")

	lines := m.lines
	if len(lines) > consoleHeight {
		lines = lines[len(lines)-consoleHeight:]
	}
	body := strings.Join(lines, "\n")
	if body == "" {
		body = "Type 'help' for the command list."
	}
	s.WriteString(consoleBoxStyle.Render(body))
	s.WriteString("\n\n")
	s.WriteString(m.input.View())

	return contentStyle.Render(s.String())
}

func (m model) renderReport() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("Capacity Report"))
	s.WriteString("\n\n")

	rep := m.snap.report
	if len(rep.Edges) == 0 {
		s.WriteString(helpStyle.Render("No attack to report. Run one from the Console tab."))
		return contentStyle.Render(s.String())
	}

	fmt.Fprintf(&s, "Total capacity %d → %d (-%d, %.1f%%)\n\n", rep.TotalBefore, rep.TotalAfter, rep.Reduction, rep.Percent)
	for _, c := range rep.Edges {
		fmt.Fprintf(&s, "  %-14s %6d → %-6d -%d\n", c.Label, c.Before, c.After, c.Reduction)
	}

	s.WriteString("\n")
	s.WriteString(headerStyle.Render("Affected Paths"))
	s.WriteString("\n\n")
	if len(m.snap.affected) == 0 {
		s.WriteString("No affected paths")
	}
	for _, ap := range m.snap.affected {
		labels := make([]string, len(ap.Nodes))
		for i, n := range ap.Nodes {
			labels[i] = graph.Label(n)
		}
		attacked := categoryStyles[highlight.Attacked].Render(ap.Attacked.Labelled())
		fmt.Fprintf(&s, "  %s: %s\n", attacked, strings.Join(labels, " → "))
	}

	return contentStyle.Render(s.String())
}
