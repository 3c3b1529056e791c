package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"tally/internal/ledger"
)

// recoveryModel is the modal shown when shadow files from a dead run are
// found. The three choices mirror the store's recovery actions.
type recoveryModel struct {
	styles  Styles
	account string
	cursor  int
}

var recoveryChoices = []struct {
	label  string
	action ledger.RecoveryAction
}{
	{"Save found data (commit and start fresh)", ledger.RecoverCommit},
	{"Load found data (continue the session)", ledger.RecoverContinue},
	{"Discard found data (delete and start fresh)", ledger.RecoverDiscard},
}

func newRecoveryModel(styles Styles, account string) recoveryModel {
	return recoveryModel{styles: styles, account: account}
}

func (m recoveryModel) Update(msg tea.Msg) (recoveryModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(recoveryChoices)-1 {
			m.cursor++
		}
	case "1", "2", "3":
		m.cursor = int(key.String()[0] - '1')
		fallthrough
	case "enter":
		action := recoveryChoices[m.cursor].action
		return m, func() tea.Msg { return recoveryChosenMsg{action: action} }
	}
	return m, nil
}

func (m recoveryModel) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Header.Render("Unsaved session found"))
	b.WriteString("\n\n")
	b.WriteString(m.styles.Body.Render(fmt.Sprintf(
		"An unsaved session was found for account '%s' from a previous run.", m.account)))
	b.WriteString("\n\n")
	for i, choice := range recoveryChoices {
		cursor := "  "
		line := fmt.Sprintf("%d. %s", i+1, choice.label)
		if i == m.cursor {
			cursor = "> "
			line = m.styles.Title.Render(line)
		}
		b.WriteString(cursor + line + "\n")
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Footer.Render("up/down: select · enter: confirm"))
	return b.String()
}
