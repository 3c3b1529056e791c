package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"tally/internal/planner"
)

// tasksModel renders the planner reports from the configured schedule
// file. The p key toggles between the basic and procrastination views.
type tasksModel struct {
	styles    Styles
	path      string
	view      viewport.Model
	procrast  bool
	loadError string
	wantBack  bool
}

func newTasksModel(styles Styles, path string) tasksModel {
	return tasksModel{
		styles: styles,
		path:   path,
		view:   viewport.New(80, 20),
	}
}

func (m *tasksModel) setSize(w, h int) {
	m.view.Width = w - 2
	if h > 6 {
		m.view.Height = h - 5
	}
}

// reload re-reads the schedule file and regenerates the current report.
func (m *tasksModel) reload() {
	schedule, err := planner.LoadSchedule(m.path)
	if err != nil {
		m.loadError = err.Error()
		m.view.SetContent("")
		return
	}
	m.loadError = ""
	today := planner.Today()
	if m.procrast {
		m.view.SetContent(planner.Procrastination(schedule, today, 0))
	} else {
		m.view.SetContent(planner.BasicReport(schedule, today, 0))
	}
}

func (m tasksModel) Update(msg tea.Msg) (tasksModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "p":
			m.procrast = !m.procrast
			m.reload()
			return m, nil
		case "r":
			m.reload()
			return m, nil
		case "esc", "q":
			m.wantBack = true
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.view, cmd = m.view.Update(msg)
	return m, cmd
}

func (m tasksModel) View() string {
	title := "Buffer report"
	if m.procrast {
		title = "Procrastination report"
	}

	var b strings.Builder
	b.WriteString(m.styles.Header.Render("tally — tasks: " + title))
	b.WriteString("\n")
	if m.loadError != "" {
		b.WriteString(m.styles.Error.Render(m.loadError))
		b.WriteString("\n")
		b.WriteString(m.styles.Muted.Render("Expected schedule at " + m.path))
	} else {
		b.WriteString(m.view.View())
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Footer.Render("p: toggle report · r: reload · esc: back"))
	return b.String()
}
