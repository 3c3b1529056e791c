package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tally/internal/config"
	"tally/internal/ledger"
	"tally/internal/reward"
)

// pointsCmd runs the line-oriented terminal session, the plain alternative
// to the full-screen interface.
var pointsCmd = &cobra.Command{
	Use:   "points",
	Short: "Run an interactive points session in the terminal",
	Long: `Starts a menu-driven session on the last used account (or prompts to
create one). All changes stay in the session until you choose to record
them on exit; a previous interrupted session is detected first and can be
saved, resumed, or discarded.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		state, store, err := openApp()
		if err != nil {
			return err
		}
		cli := &pointsCLI{
			state: state,
			store: store,
			in:    bufio.NewReader(cmd.InOrStdin()),
			out:   cmd.OutOrStdout(),
		}
		return cli.run()
	},
}

// pointsCLI drives one terminal session. It owns the caller side of the
// session contract: crash recovery before start, exactly one commit or
// rollback per session, and all input parsing.
type pointsCLI struct {
	state *config.State
	store *ledger.Store
	in    *bufio.Reader
	out   io.Writer
	eof   bool
}

func (c *pointsCLI) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format, args...)
}

// readLine prompts and returns one trimmed input line, flagging EOF so the
// menu loops can bail out instead of spinning on exhausted input.
func (c *pointsCLI) readLine(prompt string) string {
	c.printf("%s", prompt)
	line, err := c.in.ReadString('\n')
	if err != nil {
		c.eof = true
	}
	return strings.TrimSpace(line)
}

func (c *pointsCLI) run() error {
	account := c.state.LastAccount()
	if account == "" {
		c.printf("No accounts found. Let's create one.\n")
		account = c.switchAccount()
		if account == "" {
			c.printf("Cannot proceed without an account. Exiting.\n")
			return nil
		}
	}

	c.printf("--- Welcome to Your Rewards Manager ---\n")
	c.printf("Loading last used account: %s\n", account)

	if err := c.handleCrashRecovery(account); err != nil {
		return err
	}
	sess, err := c.store.StartSession(account)
	if err != nil {
		return err
	}

	for {
		c.printf("\n==================================\n")
		c.printf("Account: %s | Session Points: %d\n", account, sess.Balance())
		c.printf("==================================\n")
		c.printf("Choose an option:\n")
		c.printf("  1. Add Points\n")
		c.printf("  2. Redeem a Reward\n")
		c.printf("  3. Switch/Create Account\n")
		c.printf("  4. View Session Log\n")
		c.printf("  5. Exit\n")

		choice := c.readLine("> ")
		if c.eof && choice == "" {
			// Input gone: treat like a rollback exit rather than spinning.
			return sess.Rollback()
		}
		switch choice {
		case "1":
			c.addPoints(sess)
		case "2":
			c.redeemReward(sess)
		case "3":
			// Switching accounts discards the outgoing session.
			if err := sess.Rollback(); err != nil {
				return err
			}
			c.printf("Session changes have been discarded.\n")
			next := c.switchAccount()
			if next != "" {
				account = next
			}
			if err := c.handleCrashRecovery(account); err != nil {
				return err
			}
			sess, err = c.store.StartSession(account)
			if err != nil {
				return err
			}
		case "4":
			c.printf("\n--- Transaction Log for this Session ---\n")
			c.printf("%s\n", sess.Log())
			c.printf("----------------------------------------\n")
		case "5":
			return c.endSession(sess)
		default:
			c.printf("\nInvalid choice. Please enter a number from 1 to 5.\n")
		}
	}
}

// handleCrashRecovery resolves leftover shadow files before a session
// starts. It loops until a valid choice is made.
func (c *pointsCLI) handleCrashRecovery(account string) error {
	if !c.store.HasCrashed(account) {
		return nil
	}
	for {
		c.printf("\n--- Unsaved Session Found ---\n")
		c.printf("An unsaved session was found from a previous run.\n")
		c.printf("What would you like to do?\n")
		c.printf("1. Save found data (Commit and start fresh)\n")
		c.printf("2. Load found data (Continue the session)\n")
		c.printf("3. Discard found data (Delete and start fresh)\n")

		choice := c.readLine("> ")
		if c.eof && choice == "" {
			return c.store.Recover(account, ledger.RecoverContinue)
		}
		switch choice {
		case "1":
			if err := c.store.Recover(account, ledger.RecoverCommit); err != nil {
				return err
			}
			c.printf("Changes saved successfully.\n")
			return nil
		case "2":
			c.printf("Loading previous session...\n")
			return c.store.Recover(account, ledger.RecoverContinue)
		case "3":
			if err := c.store.Recover(account, ledger.RecoverDiscard); err != nil {
				return err
			}
			c.printf("Session changes have been discarded.\n")
			return nil
		default:
			c.printf("Invalid choice. Please select 1, 2, or 3.\n")
		}
	}
}

func (c *pointsCLI) addPoints(sess *ledger.Session) {
	reason := c.readLine("Enter a name/reason for these points: ")
	value := c.readLine("Enter the number of points to add: ")

	amount, err := strconv.ParseInt(value, 10, 32)
	if err != nil {
		c.printf("Invalid input. Please enter a whole number for points.\n")
		return
	}
	if amount <= 0 {
		c.printf("Please enter a positive number.\n")
		return
	}

	c.printf("\nYou are about to add %d points for '%s'.\n", amount, reason)
	if !strings.EqualFold(c.readLine("Is this correct? (y/n): "), "y") {
		c.printf("Action cancelled.\n")
		return
	}
	if err := sess.AddPoints(int32(amount), reason); err != nil {
		c.printf("Error: %v\n", err)
		return
	}
	c.printf("Points added to current session.\n")
}

func (c *pointsCLI) redeemReward(sess *ledger.Session) {
	name := c.readLine("Enter the name of the reward: ")
	value := c.readLine("Enter the value of the reward (e.g., $20, 1h 30m): ")

	cost, err := reward.ParseValue(value)
	if err != nil {
		c.printf("Error: %v\n", err)
		return
	}

	balance := sess.Balance()
	c.printf("\nThe reward '%s' costs %d points.\n", name, cost)
	c.printf("You currently have %d points in this session.\n", balance)

	if balance < cost {
		c.printf("Sorry, you don't have enough points. You need %d more.\n", cost-balance)
		return
	}
	if !strings.EqualFold(c.readLine("Do you want to redeem this reward? (y/n): "), "y") {
		c.printf("Action cancelled.\n")
		return
	}
	if err := sess.Redeem(name, cost); err != nil {
		var insufficient *ledger.InsufficientPointsError
		if errors.As(err, &insufficient) {
			c.printf("Sorry, you don't have enough points. You need %d more.\n", insufficient.Shortfall)
		} else {
			c.printf("Error: %v\n", err)
		}
		return
	}
	c.printf("Reward redeemed in current session.\n")
}

// switchAccount prompts for an account name, creating it on consent.
// Returns "" if the switch was abandoned.
func (c *pointsCLI) switchAccount() string {
	name := c.readLine("Enter account name to switch to or create: ")
	if name == "" {
		c.printf("Account name cannot be empty.\n")
		return ""
	}
	if !c.store.AccountExists(name) {
		prompt := fmt.Sprintf("Account '%s' not found. Create it? (y/n): ", name)
		if !strings.EqualFold(c.readLine(prompt), "y") {
			c.printf("Account switch cancelled.\n")
			return ""
		}
		created, err := c.store.CreateAccount(name)
		if err != nil {
			c.printf("Error: %v\n", err)
			return ""
		}
		if created {
			c.printf("Account '%s' created.\n", name)
		}
	}
	if err := c.state.SetLastAccount(name); err != nil {
		c.printf("Error: %v\n", err)
	}
	c.printf("Switched to account: %s\n", name)
	return name
}

// endSession shows what was logged during this session and asks whether to
// record it.
func (c *pointsCLI) endSession(sess *ledger.Session) error {
	c.printf("\n--- End of Session ---\n")

	if actions := c.sessionActions(sess); actions != "" {
		c.printf("Logged actions this session:\n%s\n", actions)
	} else {
		c.printf("No new actions were logged this session.\n")
	}

	if strings.EqualFold(c.readLine("Record actions? (y/n): "), "y") {
		if err := sess.Commit(); err != nil {
			return err
		}
		c.printf("Changes saved successfully.\n")
	} else {
		if err := sess.Rollback(); err != nil {
			return err
		}
		c.printf("Session changes have been discarded.\n")
	}
	c.printf("\nGoodbye!\n")
	return nil
}

// sessionActions returns only the log lines appended during this session:
// the shadow log past the committed log's length.
func (c *pointsCLI) sessionActions(sess *ledger.Session) string {
	data, err := os.ReadFile(sess.Files().ShadowLogPath)
	if err != nil {
		return ""
	}
	offset := sess.CommittedLogSize()
	if offset > int64(len(data)) {
		offset = 0
	}
	return strings.TrimSpace(string(data[offset:]))
}
