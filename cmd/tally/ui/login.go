package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// loginModel asks for an account name. Unknown accounts are created on
// submit; the heavy lifting happens in App once accountChosenMsg fires.
type loginModel struct {
	styles Styles
	input  textinput.Model
	status string
}

func newLoginModel(styles Styles, lastAccount string) loginModel {
	ti := textinput.New()
	ti.Placeholder = "e.g. 'personal' or 'work'"
	ti.Prompt = "> "
	ti.PromptStyle = styles.Prompt
	ti.CharLimit = 64
	ti.Width = 40
	ti.SetValue(lastAccount)
	ti.Focus()
	return loginModel{styles: styles, input: ti}
}

func (m loginModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEnter {
		name := strings.TrimSpace(m.input.Value())
		if name == "" {
			m.status = m.styles.Error.Render("Account name cannot be empty.")
			return m, nil
		}
		return m, func() tea.Msg { return accountChosenMsg{name: name} }
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m loginModel) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Header.Render("tally — login"))
	b.WriteString("\n\n")
	b.WriteString(m.styles.Title.Render("Enter account name"))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(m.status)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Footer.Render("enter: login/create · ctrl+c: quit"))
	return b.String()
}
