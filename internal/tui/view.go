package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	cursorStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	tabStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("246")).Padding(0, 1)
	activeTabStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")).Padding(0, 1)
)

// maxListRows caps the visible rows of the job list so the log pane keeps
// most of the screen.
const maxListRows = 8

// View renders the current screen.
func (a *App) View() string {
	if !a.ready {
		return "starting..."
	}

	var b strings.Builder
	b.WriteString(a.titleLine())
	b.WriteString("\n\n")

	switch a.screen {
	case screenWorkflows:
		a.renderWorkflows(&b)
	case screenRuns:
		a.renderRuns(&b)
	case screenJobs:
		a.renderJobs(&b)
	}

	b.WriteString("\n")
	b.WriteString(a.statusLine())
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(a.helpLine()))
	return b.String()
}

func (a *App) titleLine() string {
	title := "actionlog · " + a.client.Repo()
	if a.workflow != "" {
		title += " · " + a.workflow
	}
	if a.screen == screenJobs && a.runID != "" {
		title += " · run " + a.runID
	}
	return titleStyle.Render(ansi.Truncate(title, a.contentWidth(), "…"))
}

func (a *App) renderWorkflows(b *strings.Builder) {
	if len(a.workflows) == 0 {
		b.WriteString(dimStyle.Render("(no workflows)"))
		b.WriteString("\n")
		return
	}
	for i, name := range a.workflows {
		a.writeRow(b, i == a.wfCursor, name)
	}
}

func (a *App) renderRuns(b *strings.Builder) {
	if len(a.runs) == 0 {
		b.WriteString(dimStyle.Render("(no successful runs)"))
		b.WriteString("\n")
		return
	}
	for i, run := range a.runs {
		row := fmt.Sprintf("#%-4d %s  %s@%s  %s",
			run.Number, run.DisplayTitle, run.HeadBranch, run.ShortSHA(), run.FormattedDate())
		a.writeRow(b, i == a.runCursor, row)
	}
}

func (a *App) renderJobs(b *strings.Builder) {
	if len(a.jobs) == 0 {
		b.WriteString(dimStyle.Render("(no jobs)"))
		b.WriteString("\n")
		return
	}

	start := 0
	if a.jobCursor >= maxListRows {
		start = a.jobCursor - maxListRows + 1
	}
	end := start + maxListRows
	if end > len(a.jobs) {
		end = len(a.jobs)
	}
	for i := start; i < end; i++ {
		job := a.jobs[i]
		row := fmt.Sprintf("%-8s %s", job.DurationString(), job.Name)
		a.writeRow(b, i == a.jobCursor && !a.focusLog, row)
	}

	if a.snap == nil {
		return
	}

	b.WriteString("\n")
	b.WriteString(a.tabBar())
	b.WriteString("\n")
	b.WriteString(a.vp.View())
	b.WriteString("\n")
}

func (a *App) tabBar() string {
	names := a.tabNames()
	tabs := make([]string, 0, len(names))
	for i, name := range names {
		style := tabStyle
		if i == a.tab {
			style = activeTabStyle
		}
		tabs = append(tabs, style.Render(a.tabTitle(name)))
	}
	bar := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	if a.snap.ParserName != "" {
		bar += dimStyle.Render("  parser: " + a.snap.ParserName)
	}
	return ansi.Truncate(bar, a.contentWidth(), "…")
}

func (a *App) writeRow(b *strings.Builder, selected bool, row string) {
	row = ansi.Truncate(row, a.contentWidth()-2, "…")
	if selected {
		b.WriteString(cursorStyle.Render("> " + row))
	} else {
		b.WriteString("  " + row)
	}
	b.WriteString("\n")
}

func (a *App) statusLine() string {
	if a.loading {
		return a.spin.View() + " loading..."
	}
	if a.status != "" {
		return errorStyle.Render(ansi.Truncate(a.status, a.contentWidth(), "…"))
	}
	return ""
}

func (a *App) helpLine() string {
	switch {
	case a.screen == screenJobs && a.focusLog:
		return "tab: section · j/k: scroll · g/G: top/bottom · c: copy · r: refetch · esc: jobs · q: quit"
	case a.screen == screenJobs:
		return "j/k: move · enter: open log · esc: back · q: quit"
	default:
		return "j/k: move · enter: select · esc: back · q: quit"
	}
}

func (a *App) contentWidth() int {
	if a.width <= 0 {
		return 80
	}
	return a.width
}

// resizeViewport gives the log pane the space left under the job list and
// the surrounding chrome.
func (a *App) resizeViewport() {
	listRows := len(a.jobs)
	if listRows > maxListRows {
		listRows = maxListRows
	}
	// title + blank + list + blank + tab bar + blank + status + help.
	chrome := listRows + 7
	height := a.height - chrome
	if height < 3 {
		height = 3
	}
	a.vp.Width = a.contentWidth()
	a.vp.Height = height
}
