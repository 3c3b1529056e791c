package ledger

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EmptyLogMessage is returned by Log when the session has no entries yet.
const EmptyLogMessage = "No transactions in this session yet."

const logTimeLayout = "2006-01-02 15:04:05"

// Session is a transient view over one account's shadow files. All reads
// and writes during the session touch only the shadow pair; the committed
// files change only on Commit. A session ends with exactly one of Commit or
// Rollback.
type Session struct {
	// ID identifies the session in logs. Nothing else hangs off it.
	ID      string
	Account string

	store *Store
	files AccountFiles
}

func newSession(store *Store, account string, files AccountFiles) *Session {
	return &Session{
		ID:      uuid.NewString(),
		Account: account,
		store:   store,
		files:   files,
	}
}

// Files exposes the session's path set, mainly so front ends can show where
// data lives.
func (sess *Session) Files() AccountFiles {
	return sess.files
}

// Balance returns the current shadow balance. A missing or unreadable
// shadow ledger reads as 0.
func (sess *Session) Balance() int32 {
	return readBalance(sess.files.ShadowLedgerPath)
}

// AddPoints adds amount to the session balance and appends a log entry.
// Amounts must be positive; the front ends validate too, but the store
// guards as well so a buggy caller cannot drain an account through
// negative "adds".
func (sess *Session) AddPoints(amount int32, reason string) error {
	if amount <= 0 {
		return &InvalidAmountError{Amount: amount}
	}
	balance := sess.Balance()
	if err := writeBalance(sess.files.ShadowLedgerPath, balance+amount); err != nil {
		return err
	}
	entry := fmt.Sprintf("ADDED: +%d points (%s)", amount, reason)
	if err := appendLog(sess.files.ShadowLogPath, entry); err != nil {
		return err
	}
	sess.store.logger.Debug("points added",
		zap.String("session_id", sess.ID),
		zap.Int32("amount", amount),
		zap.Int32("balance", balance+amount))
	return nil
}

// Redeem spends cost points on the named reward. It is all-or-nothing: if
// the balance does not cover the cost, nothing is written and the returned
// InsufficientPointsError carries the shortfall.
func (sess *Session) Redeem(name string, cost int32) error {
	if cost < 0 {
		return &InvalidAmountError{Amount: cost}
	}
	balance := sess.Balance()
	if balance < cost {
		return &InsufficientPointsError{
			Cost:      cost,
			Balance:   balance,
			Shortfall: cost - balance,
		}
	}
	if err := writeBalance(sess.files.ShadowLedgerPath, balance-cost); err != nil {
		return err
	}
	entry := fmt.Sprintf("REDEEMED: '%s' for %d points", name, cost)
	if err := appendLog(sess.files.ShadowLogPath, entry); err != nil {
		return err
	}
	sess.store.logger.Debug("reward redeemed",
		zap.String("session_id", sess.ID),
		zap.String("reward", name),
		zap.Int32("cost", cost),
		zap.Int32("balance", balance-cost))
	return nil
}

// Log returns the full shadow log text, or EmptyLogMessage if the log is
// absent or empty.
func (sess *Session) Log() string {
	data, err := os.ReadFile(sess.files.ShadowLogPath)
	if err != nil || len(data) == 0 {
		return EmptyLogMessage
	}
	return string(data)
}

// CommittedLogSize returns the byte length of the committed log, 0 if it
// does not exist. Front ends use it to show only the lines appended during
// this session.
func (sess *Session) CommittedLogSize() int64 {
	info, err := os.Stat(sess.files.LogPath)
	if err != nil {
		return 0
	}
	return info.Size()
}

// Commit promotes the shadow pair to committed state and ends the session.
// The shadow files no longer exist afterwards.
func (sess *Session) Commit() error {
	if err := commitFiles(sess.files); err != nil {
		return err
	}
	sess.store.logger.Info("session committed",
		zap.String("account", sess.Account),
		zap.String("session_id", sess.ID))
	return nil
}

// Rollback discards the shadow pair and ends the session. It is idempotent:
// missing shadow files are not an error.
func (sess *Session) Rollback() error {
	if err := removeShadow(sess.files); err != nil {
		return err
	}
	sess.store.logger.Info("session rolled back",
		zap.String("account", sess.Account),
		zap.String("session_id", sess.ID))
	return nil
}

// appendLog appends a timestamped entry to the shadow log.
func appendLog(path, entry string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close()
	line := fmt.Sprintf("[%s] %s\n", time.Now().Format(logTimeLayout), entry)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("appending log entry: %w", err)
	}
	return nil
}
