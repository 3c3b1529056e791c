package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tally/internal/ledger"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func testSession(t *testing.T) *ledger.Session {
	t.Helper()
	store, err := ledger.Open(t.TempDir(), nil)
	require.NoError(t, err)
	sess, err := store.StartSession("alice")
	require.NoError(t, err)
	t.Cleanup(func() { _ = sess.Rollback() })
	return sess
}

func TestLoginRejectsEmptyName(t *testing.T) {
	m := newLoginModel(StylesFor("dark"), "")

	m, cmd := m.Update(keyMsg("enter"))
	assert.Nil(t, cmd)
	assert.NotEmpty(t, m.status)
}

func TestLoginEmitsAccountChosen(t *testing.T) {
	m := newLoginModel(StylesFor("dark"), "alice")

	_, cmd := m.Update(keyMsg("enter"))
	require.NotNil(t, cmd)
	msg, ok := cmd().(accountChosenMsg)
	require.True(t, ok)
	assert.Equal(t, "alice", msg.name)
}

func TestRecoveryChoiceByNumber(t *testing.T) {
	m := newRecoveryModel(StylesFor("dark"), "alice")

	_, cmd := m.Update(keyMsg("3"))
	require.NotNil(t, cmd)
	msg, ok := cmd().(recoveryChosenMsg)
	require.True(t, ok)
	assert.Equal(t, ledger.RecoverDiscard, msg.action)
}

func TestRecoveryChoiceByCursor(t *testing.T) {
	m := newRecoveryModel(StylesFor("dark"), "alice")

	m, _ = m.Update(keyMsg("j"))
	_, cmd := m.Update(keyMsg("enter"))
	require.NotNil(t, cmd)
	msg, ok := cmd().(recoveryChosenMsg)
	require.True(t, ok)
	assert.Equal(t, ledger.RecoverContinue, msg.action)
}

func TestAccountAddPoints(t *testing.T) {
	sess := testSession(t)
	m := newAccountModel(StylesFor("dark"), sess)

	m.inputs[fieldAddReason].SetValue("chores")
	m.inputs[fieldAddAmount].SetValue("25")
	m.submitAdd()

	assert.Equal(t, int32(25), sess.Balance())
	assert.Contains(t, sess.Log(), "ADDED: +25 points (chores)")
	assert.Empty(t, m.inputs[fieldAddAmount].Value(), "form clears after submit")
}

func TestAccountAddRejectsBadAmount(t *testing.T) {
	sess := testSession(t)
	m := newAccountModel(StylesFor("dark"), sess)

	m.inputs[fieldAddReason].SetValue("chores")
	m.inputs[fieldAddAmount].SetValue("-5")
	m.submitAdd()

	assert.Equal(t, int32(0), sess.Balance())
	assert.Equal(t, ledger.EmptyLogMessage, sess.Log())
}

func TestAccountRedeemInsufficient(t *testing.T) {
	sess := testSession(t)
	require.NoError(t, sess.AddPoints(10, "seed"))
	m := newAccountModel(StylesFor("dark"), sess)

	m.inputs[fieldRedeemName].SetValue("bike")
	m.inputs[fieldRedeemValue].SetValue("$5")
	m.submitRedeem()

	assert.Equal(t, int32(10), sess.Balance(), "failed redeem leaves balance alone")
	assert.Contains(t, m.status, "490 more")
}

func TestAccountCommitEmitsSessionClosed(t *testing.T) {
	sess := testSession(t)
	m := newAccountModel(StylesFor("dark"), sess)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	msg, ok := cmd().(sessionClosedMsg)
	require.True(t, ok)
	assert.True(t, msg.committed)
}

func TestTasksReloadReportsMissingFile(t *testing.T) {
	m := newTasksModel(StylesFor("dark"), "/nonexistent/tasks.yaml")
	m.reload()
	assert.NotEmpty(t, m.loadError)
}

func TestStylesForFallsBackToDark(t *testing.T) {
	assert.True(t, StylesFor("").Theme.IsDark)
	assert.True(t, StylesFor("weird").Theme.IsDark)
	assert.False(t, StylesFor("light").Theme.IsDark)
}
