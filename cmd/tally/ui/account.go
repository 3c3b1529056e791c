package ui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"tally/internal/ledger"
	"tally/internal/reward"
)

const (
	fieldAddReason = iota
	fieldAddAmount
	fieldRedeemName
	fieldRedeemValue
	fieldCount
)

// accountModel is the points screen: balance, add/redeem forms, and the
// session log. All mutations go through the session's shadow files; the
// commit and rollback keys close the session and hand control back to App.
type accountModel struct {
	styles Styles
	sess   *ledger.Session

	inputs [fieldCount]textinput.Model
	focus  int
	logView viewport.Model
	status string

	wantTasks bool
	width     int
	height    int
}

func newAccountModel(styles Styles, sess *ledger.Session) accountModel {
	m := accountModel{
		styles: styles,
		sess:   sess,
		logView: viewport.New(80, 8),
	}

	placeholders := [fieldCount]string{
		"Reason (e.g. 'Worked out')",
		"Number of points",
		"Reward (e.g. 'Coffee')",
		"Cost (e.g. '$5', '1h 30m')",
	}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.Prompt = "> "
		ti.PromptStyle = styles.Prompt
		ti.CharLimit = 64
		ti.Width = 32
		m.inputs[i] = ti
	}
	m.inputs[fieldAddReason].Focus()
	m.status = styles.Info.Render("Session started. Changes are temporary until committed.")
	m.refreshLog()
	return m
}

func (m accountModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *accountModel) setSize(w, h int) {
	m.width = w
	m.height = h
	m.logView.Width = w - 4
	if h > 18 {
		m.logView.Height = h - 16
	}
}

func (m *accountModel) refreshLog() {
	m.logView.SetContent(m.sess.Log())
	m.logView.GotoBottom()
}

func (m *accountModel) setFocus(i int) {
	m.focus = (i + fieldCount) % fieldCount
	for j := range m.inputs {
		if j == m.focus {
			m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
}

func (m accountModel) Update(msg tea.Msg) (accountModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down":
			m.setFocus(m.focus + 1)
			return m, nil
		case "shift+tab", "up":
			m.setFocus(m.focus - 1)
			return m, nil
		case "ctrl+s":
			if err := m.sess.Commit(); err != nil {
				m.status = m.styles.Error.Render(err.Error())
				return m, nil
			}
			return m, func() tea.Msg { return sessionClosedMsg{committed: true} }
		case "ctrl+r":
			if err := m.sess.Rollback(); err != nil {
				m.status = m.styles.Error.Render(err.Error())
				return m, nil
			}
			return m, func() tea.Msg { return sessionClosedMsg{committed: false} }
		case "ctrl+t":
			m.wantTasks = true
			return m, nil
		case "enter":
			switch m.focus {
			case fieldAddReason:
				m.setFocus(fieldAddAmount)
			case fieldAddAmount:
				m.submitAdd()
			case fieldRedeemName:
				m.setFocus(fieldRedeemValue)
			case fieldRedeemValue:
				m.submitRedeem()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *accountModel) submitAdd() {
	reason := strings.TrimSpace(m.inputs[fieldAddReason].Value())
	if reason == "" {
		m.status = m.styles.Error.Render("Reason cannot be empty.")
		return
	}
	amount, err := strconv.ParseInt(strings.TrimSpace(m.inputs[fieldAddAmount].Value()), 10, 32)
	if err != nil || amount <= 0 {
		m.status = m.styles.Error.Render("Please enter a positive whole number of points.")
		return
	}
	if err := m.sess.AddPoints(int32(amount), reason); err != nil {
		m.status = m.styles.Error.Render(err.Error())
		return
	}
	m.status = m.styles.Success.Render(fmt.Sprintf("Added %d points for '%s'.", amount, reason))
	m.inputs[fieldAddReason].SetValue("")
	m.inputs[fieldAddAmount].SetValue("")
	m.setFocus(fieldAddReason)
	m.refreshLog()
}

func (m *accountModel) submitRedeem() {
	name := strings.TrimSpace(m.inputs[fieldRedeemName].Value())
	if name == "" {
		m.status = m.styles.Error.Render("Reward name cannot be empty.")
		return
	}
	cost, err := reward.ParseValue(m.inputs[fieldRedeemValue].Value())
	if err != nil {
		m.status = m.styles.Error.Render(err.Error())
		return
	}
	if err := m.sess.Redeem(name, cost); err != nil {
		var insufficient *ledger.InsufficientPointsError
		if errors.As(err, &insufficient) {
			m.status = m.styles.Warning.Render(fmt.Sprintf(
				"Sorry, you don't have enough points. You need %d more.", insufficient.Shortfall))
		} else {
			m.status = m.styles.Error.Render(err.Error())
		}
		return
	}
	m.status = m.styles.Success.Render(fmt.Sprintf("Redeemed '%s' for %d points.", name, cost))
	m.inputs[fieldRedeemName].SetValue("")
	m.inputs[fieldRedeemValue].SetValue("")
	m.setFocus(fieldRedeemName)
	m.refreshLog()
}

func (m accountModel) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Header.Render(fmt.Sprintf("tally — account: %s", m.sess.Account)))
	b.WriteString("\n")
	b.WriteString(m.styles.Title.Render(fmt.Sprintf("Session points: %d", m.sess.Balance())))
	b.WriteString("\n")
	b.WriteString(m.status)
	b.WriteString("\n\n")

	addForm := m.styles.Panel.Render(
		m.styles.Title.Render("Add points") + "\n" +
			m.inputs[fieldAddReason].View() + "\n" +
			m.inputs[fieldAddAmount].View())
	redeemForm := m.styles.Panel.Render(
		m.styles.Title.Render("Redeem reward") + "\n" +
			m.inputs[fieldRedeemName].View() + "\n" +
			m.inputs[fieldRedeemValue].View())
	b.WriteString(addForm)
	b.WriteString("\n")
	b.WriteString(redeemForm)
	b.WriteString("\n\n")

	b.WriteString(m.styles.Title.Render("Session log"))
	b.WriteString("\n")
	b.WriteString(m.logView.View())
	b.WriteString("\n")
	b.WriteString(m.styles.Footer.Render(
		"tab: next field · enter: submit · ctrl+s: commit & logout · ctrl+r: rollback & logout · ctrl+t: tasks"))
	return b.String()
}
