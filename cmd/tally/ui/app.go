package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"tally/internal/config"
	"tally/internal/ledger"
)

type page int

const (
	pageLogin page = iota
	pageRecovery
	pageAccount
	pageTasks
)

// accountChosenMsg is emitted by the login page when an account name has
// been submitted.
type accountChosenMsg struct {
	name string
}

// recoveryChosenMsg is emitted by the recovery page once the user picked
// how to resolve a crashed session.
type recoveryChosenMsg struct {
	action ledger.RecoveryAction
}

// sessionClosedMsg is emitted by the account page after commit or rollback.
type sessionClosedMsg struct {
	committed bool
}

// App is the top-level bubbletea model. It owns the store and the active
// session and routes between pages; the pages themselves only render and
// collect input.
type App struct {
	styles Styles
	state  *config.State
	store  *ledger.Store
	logger *zap.Logger

	page    page
	width   int
	height  int
	account string
	sess    *ledger.Session

	login    loginModel
	recovery recoveryModel
	acct     accountModel
	tasks    tasksModel
}

// NewApp builds the TUI over an opened store and loaded state.
func NewApp(state *config.State, store *ledger.Store, logger *zap.Logger) App {
	if logger == nil {
		logger = zap.NewNop()
	}
	styles := StylesFor(state.Config.Theme)
	return App{
		styles: styles,
		state:  state,
		store:  store,
		logger: logger,
		page:   pageLogin,
		login:  newLoginModel(styles, state.LastAccount()),
		tasks:  newTasksModel(styles, state.TasksPath()),
	}
}

// Run starts the TUI and blocks until it exits. Any open session is rolled
// back on the way out, so a controlled exit never leaves shadow files.
func Run(state *config.State, store *ledger.Store, logger *zap.Logger) error {
	app := NewApp(state, store, logger)
	_, err := tea.NewProgram(app, tea.WithAltScreen()).Run()
	return err
}

func (a App) Init() tea.Cmd {
	return a.login.Init()
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.acct.setSize(msg.Width, msg.Height)
		a.tasks.setSize(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			// Abandoning the app mid-session is a rollback, not a crash.
			if a.sess != nil {
				if err := a.sess.Rollback(); err != nil {
					a.logger.Warn("rollback on exit failed", zap.Error(err))
				}
				a.sess = nil
			}
			return a, tea.Quit
		}

	case accountChosenMsg:
		return a.onAccountChosen(msg.name)

	case recoveryChosenMsg:
		if err := a.store.Recover(a.account, msg.action); err != nil {
			a.login.status = a.styles.Error.Render(err.Error())
			a.page = pageLogin
			return a, nil
		}
		return a.openSession()

	case sessionClosedMsg:
		a.sess = nil
		a.page = pageLogin
		if msg.committed {
			a.login.status = a.styles.Success.Render("Changes saved successfully.")
		} else {
			a.login.status = a.styles.Muted.Render("Session changes have been discarded.")
		}
		return a, a.login.Init()
	}

	var cmd tea.Cmd
	switch a.page {
	case pageLogin:
		a.login, cmd = a.login.Update(msg)
	case pageRecovery:
		a.recovery, cmd = a.recovery.Update(msg)
	case pageAccount:
		a.acct, cmd = a.acct.Update(msg)
		if a.acct.wantTasks {
			a.acct.wantTasks = false
			a.page = pageTasks
			a.tasks.reload()
		}
	case pageTasks:
		a.tasks, cmd = a.tasks.Update(msg)
		if a.tasks.wantBack {
			a.tasks.wantBack = false
			if a.sess != nil {
				a.page = pageAccount
			} else {
				a.page = pageLogin
			}
		}
	}
	return a, cmd
}

func (a App) onAccountChosen(name string) (tea.Model, tea.Cmd) {
	a.account = name
	if !a.store.AccountExists(name) {
		if _, err := a.store.CreateAccount(name); err != nil {
			a.login.status = a.styles.Error.Render(err.Error())
			return a, nil
		}
	}
	if err := a.state.SetLastAccount(name); err != nil {
		a.logger.Warn("recording last account failed", zap.Error(err))
	}
	if a.store.HasCrashed(name) {
		a.recovery = newRecoveryModel(a.styles, name)
		a.page = pageRecovery
		return a, nil
	}
	return a.openSession()
}

func (a App) openSession() (tea.Model, tea.Cmd) {
	sess, err := a.store.StartSession(a.account)
	if err != nil {
		a.login.status = a.styles.Error.Render(err.Error())
		a.page = pageLogin
		return a, nil
	}
	a.sess = sess
	a.acct = newAccountModel(a.styles, sess)
	a.acct.setSize(a.width, a.height)
	a.page = pageAccount
	return a, a.acct.Init()
}

func (a App) View() string {
	switch a.page {
	case pageLogin:
		return a.login.View()
	case pageRecovery:
		return a.recovery.View()
	case pageAccount:
		return a.acct.View()
	case pageTasks:
		return a.tasks.View()
	}
	return fmt.Sprintf("unknown page %d", a.page)
}
