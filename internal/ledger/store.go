// Package ledger implements the crash-safe session store behind the points
// system. Each account owns a committed balance/log pair on disk; a session
// works on a shadow copy of that pair and becomes visible only when
// committed (rename over the committed files) or vanishes on rollback.
// Shadow files left behind by a dead process are the crash signal: callers
// check HasCrashed before StartSession and resolve via Recover.
package ledger

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
)

// RecoveryAction selects how a crashed session's shadow files are resolved.
type RecoveryAction int

const (
	// RecoverCommit promotes the crashed session's shadow files to
	// committed state as-is.
	RecoverCommit RecoveryAction = iota
	// RecoverContinue leaves the shadow files in place; the next
	// StartSession attaches to them and resumes where the crash occurred.
	RecoverContinue
	// RecoverDiscard deletes the shadow files; the next session starts
	// from the last committed snapshot.
	RecoverDiscard
)

// Store manages the per-account ledger and log files inside a single data
// directory. It is safe for a single process only: concurrent access to one
// account from multiple processes is undefined (the shadow pair is the
// informal lock).
type Store struct {
	dataDir string
	logger  *zap.Logger
}

// Open prepares a store rooted at dataDir, creating the directory if
// needed.
func Open(dataDir string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir %s: %w", dataDir, err)
	}
	return &Store{dataDir: dataDir, logger: logger}, nil
}

// DataDir returns the directory the store operates in.
func (s *Store) DataDir() string {
	return s.dataDir
}

// Files returns the on-disk path set for an account.
func (s *Store) Files(account string) AccountFiles {
	return filesFor(s.dataDir, account)
}

// AccountExists reports whether the committed ledger file exists for the
// account.
func (s *Store) AccountExists(account string) bool {
	_, err := os.Stat(s.Files(account).LedgerPath)
	return err == nil
}

// CreateAccount creates the committed balance (0) and empty committed log
// for an account. It is idempotent: created reports whether the account was
// newly created or already existed.
func (s *Store) CreateAccount(account string) (created bool, err error) {
	files := s.Files(account)
	if _, err := os.Stat(files.LedgerPath); err == nil {
		return false, nil
	}
	if err := writeBalance(files.LedgerPath, 0); err != nil {
		return false, err
	}
	if err := os.WriteFile(files.LogPath, nil, 0o644); err != nil {
		return false, fmt.Errorf("creating log for %s: %w", account, err)
	}
	s.logger.Info("account created", zap.String("account", account))
	return true, nil
}

// HasCrashed reports whether either shadow file exists for the account.
// Shadow files with no live session mean a prior run died without
// committing or rolling back.
func (s *Store) HasCrashed(account string) bool {
	files := s.Files(account)
	if _, err := os.Stat(files.ShadowLedgerPath); err == nil {
		return true
	}
	if _, err := os.Stat(files.ShadowLogPath); err == nil {
		return true
	}
	return false
}

// Recover resolves a crashed session according to action. Calling it when
// no shadow files exist is harmless.
func (s *Store) Recover(account string, action RecoveryAction) error {
	files := s.Files(account)
	switch action {
	case RecoverCommit:
		s.logger.Info("recovering crashed session: commit", zap.String("account", account))
		return commitFiles(files)
	case RecoverContinue:
		s.logger.Info("recovering crashed session: continue", zap.String("account", account))
		return nil
	case RecoverDiscard:
		s.logger.Info("recovering crashed session: discard", zap.String("account", account))
		return removeShadow(files)
	default:
		return fmt.Errorf("unknown recovery action %d", action)
	}
}

// StartSession opens a session on the account. If a shadow pair already
// exists (a resumed crashed session, resolved by the caller via Recover) it
// is attached as-is; otherwise the shadow pair is initialized from the
// committed files, or from a zero balance and empty log for a fresh
// account.
func (s *Store) StartSession(account string) (*Session, error) {
	files := s.Files(account)

	if _, err := os.Stat(files.ShadowLedgerPath); os.IsNotExist(err) {
		if err := copyOrInitLedger(files); err != nil {
			return nil, err
		}
	}
	if _, err := os.Stat(files.ShadowLogPath); os.IsNotExist(err) {
		if err := copyOrInitLog(files); err != nil {
			return nil, err
		}
	}

	sess := newSession(s, account, files)
	s.logger.Info("session started",
		zap.String("account", account),
		zap.String("session_id", sess.ID))
	return sess, nil
}

// Accounts lists the account names that have a committed ledger file in the
// data directory.
func (s *Store) Accounts() ([]string, error) {
	entries, err := os.ReadDir(s.dataDir)
	if err != nil {
		return nil, fmt.Errorf("reading data dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		const suffix = "-points.dat"
		if name := strings.TrimSuffix(e.Name(), suffix); name != e.Name() && name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

// readBalance reads the fixed-width balance from path. A missing, short, or
// unreadable file reads as 0 so a half-written shadow ledger never blocks a
// session.
func readBalance(path string) int32 {
	f, err := os.Open(path)
	if err != nil {
		return 0
	}
	defer f.Close()
	var buf [4]byte
	if _, err := io.ReadFull(f, buf[:]); err != nil {
		return 0
	}
	return int32(binary.LittleEndian.Uint32(buf[:]))
}

// writeBalance writes the balance as a little-endian int32. Little-endian
// is the contract for the .dat files regardless of host byte order.
func writeBalance(path string, balance int32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(balance))
	if err := os.WriteFile(path, buf[:], 0o644); err != nil {
		return fmt.Errorf("writing balance file: %w", err)
	}
	return nil
}

// commitFiles promotes the shadow pair to committed via rename. Rename
// replaces any existing committed file atomically on POSIX filesystems.
func commitFiles(files AccountFiles) error {
	if err := os.Rename(files.ShadowLedgerPath, files.LedgerPath); err != nil {
		return fmt.Errorf("committing ledger: %w", err)
	}
	if err := os.Rename(files.ShadowLogPath, files.LogPath); err != nil {
		return fmt.Errorf("committing log: %w", err)
	}
	return nil
}

// removeShadow deletes the shadow pair. Missing files are not an error, so
// the operation is idempotent.
func removeShadow(files AccountFiles) error {
	for _, path := range []string{files.ShadowLedgerPath, files.ShadowLogPath} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing shadow file %s: %w", path, err)
		}
	}
	return nil
}

func copyOrInitLedger(files AccountFiles) error {
	data, err := os.ReadFile(files.LedgerPath)
	if os.IsNotExist(err) {
		return writeBalance(files.ShadowLedgerPath, 0)
	}
	if err != nil {
		return fmt.Errorf("reading committed ledger: %w", err)
	}
	if err := os.WriteFile(files.ShadowLedgerPath, data, 0o644); err != nil {
		return fmt.Errorf("initializing shadow ledger: %w", err)
	}
	return nil
}

func copyOrInitLog(files AccountFiles) error {
	data, err := os.ReadFile(files.LogPath)
	if os.IsNotExist(err) {
		data = nil
	} else if err != nil {
		return fmt.Errorf("reading committed log: %w", err)
	}
	if err := os.WriteFile(files.ShadowLogPath, data, 0o644); err != nil {
		return fmt.Errorf("initializing shadow log: %w", err)
	}
	return nil
}
