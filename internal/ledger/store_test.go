package ledger

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(t.TempDir(), nil)
	require.NoError(t, err)
	return store
}

func TestCreateAccountIdempotent(t *testing.T) {
	store := newTestStore(t)

	created, err := store.CreateAccount("alice")
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, store.AccountExists("alice"))

	created, err = store.CreateAccount("alice")
	require.NoError(t, err)
	assert.False(t, created, "second create should report already-existed")

	assert.False(t, store.AccountExists("bob"))
}

func TestSessionBalanceArithmetic(t *testing.T) {
	store := newTestStore(t)
	_, err := store.CreateAccount("alice")
	require.NoError(t, err)

	sess, err := store.StartSession("alice")
	require.NoError(t, err)

	require.NoError(t, sess.AddPoints(100, "chores"))
	require.NoError(t, sess.AddPoints(50, "homework"))
	require.NoError(t, sess.Redeem("coffee", 30))
	assert.Equal(t, int32(120), sess.Balance())

	// The committed ledger is untouched while the session is open.
	assert.Equal(t, int32(0), readBalance(sess.Files().LedgerPath))

	require.NoError(t, sess.Rollback())
}

func TestAddPointsRejectsNonPositive(t *testing.T) {
	store := newTestStore(t)
	sess, err := store.StartSession("alice")
	require.NoError(t, err)
	defer sess.Rollback()

	var invalid *InvalidAmountError
	err = sess.AddPoints(0, "nothing")
	require.ErrorAs(t, err, &invalid)

	err = sess.AddPoints(-5, "theft")
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, int32(-5), invalid.Amount)
	assert.Equal(t, int32(0), sess.Balance())
}

func TestRedeemAllOrNothing(t *testing.T) {
	store := newTestStore(t)
	sess, err := store.StartSession("alice")
	require.NoError(t, err)
	defer sess.Rollback()

	require.NoError(t, sess.AddPoints(40, "start"))
	logBefore := sess.Log()

	err = sess.Redeem("bike", 100)
	var insufficient *InsufficientPointsError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, int32(60), insufficient.Shortfall)
	assert.Equal(t, int32(40), sess.Balance(), "failed redeem must not change balance")
	assert.Equal(t, logBefore, sess.Log(), "failed redeem must not append to log")

	require.NoError(t, sess.Redeem("snack", 40))
	assert.Equal(t, int32(0), sess.Balance())
}

func TestCommitRoundTrip(t *testing.T) {
	store := newTestStore(t)
	_, err := store.CreateAccount("alice")
	require.NoError(t, err)

	sess, err := store.StartSession("alice")
	require.NoError(t, err)
	require.NoError(t, sess.AddPoints(75, "reading"))
	require.NoError(t, sess.Commit())

	files := store.Files("alice")
	_, err = os.Stat(files.ShadowLedgerPath)
	assert.True(t, os.IsNotExist(err), "shadow ledger must be gone after commit")
	_, err = os.Stat(files.ShadowLogPath)
	assert.True(t, os.IsNotExist(err), "shadow log must be gone after commit")

	fresh, err := store.StartSession("alice")
	require.NoError(t, err)
	defer fresh.Rollback()
	assert.Equal(t, int32(75), fresh.Balance())
	assert.Contains(t, fresh.Log(), "ADDED: +75 points (reading)")
}

func TestRollbackIdempotent(t *testing.T) {
	store := newTestStore(t)
	sess, err := store.StartSession("alice")
	require.NoError(t, err)

	require.NoError(t, sess.Rollback())
	require.NoError(t, sess.Rollback(), "second rollback must be a no-op")

	// Rollback on an account with no shadow files at all.
	other, err := store.StartSession("bob")
	require.NoError(t, err)
	require.NoError(t, other.Rollback())
	assert.False(t, store.HasCrashed("bob"))
}

func TestCrashDetectionAndDiscard(t *testing.T) {
	store := newTestStore(t)
	_, err := store.CreateAccount("alice")
	require.NoError(t, err)

	// Simulate a crash: open a session, mutate, never commit or roll back.
	sess, err := store.StartSession("alice")
	require.NoError(t, err)
	require.NoError(t, sess.AddPoints(5, "doomed"))

	assert.True(t, store.HasCrashed("alice"))

	require.NoError(t, store.Recover("alice", RecoverDiscard))
	assert.False(t, store.HasCrashed("alice"))

	fresh, err := store.StartSession("alice")
	require.NoError(t, err)
	defer fresh.Rollback()
	assert.Equal(t, int32(0), fresh.Balance(), "discard must drop the crashed session's edits")
}

func TestCrashRecoverCommit(t *testing.T) {
	store := newTestStore(t)
	sess, err := store.StartSession("alice")
	require.NoError(t, err)
	require.NoError(t, sess.AddPoints(5, "survived"))

	require.NoError(t, store.Recover("alice", RecoverCommit))
	assert.False(t, store.HasCrashed("alice"))

	fresh, err := store.StartSession("alice")
	require.NoError(t, err)
	defer fresh.Rollback()
	assert.Equal(t, int32(5), fresh.Balance())
}

func TestCrashRecoverContinue(t *testing.T) {
	store := newTestStore(t)
	sess, err := store.StartSession("alice")
	require.NoError(t, err)
	require.NoError(t, sess.AddPoints(5, "in flight"))

	require.NoError(t, store.Recover("alice", RecoverContinue))
	assert.True(t, store.HasCrashed("alice"), "continue leaves the shadow files in place")

	resumed, err := store.StartSession("alice")
	require.NoError(t, err)
	defer resumed.Rollback()
	assert.Equal(t, int32(5), resumed.Balance(), "resumed session keeps the crashed edits")
}

func TestBalanceReadDefaultsToZero(t *testing.T) {
	store := newTestStore(t)
	sess, err := store.StartSession("alice")
	require.NoError(t, err)
	defer sess.Rollback()

	// Truncated shadow ledger reads as 0 rather than erroring.
	require.NoError(t, os.WriteFile(sess.Files().ShadowLedgerPath, []byte{0x01, 0x02}, 0o644))
	assert.Equal(t, int32(0), sess.Balance())

	require.NoError(t, os.Remove(sess.Files().ShadowLedgerPath))
	assert.Equal(t, int32(0), sess.Balance())
}

func TestBalanceEncodingLittleEndian(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/balance.dat"
	require.NoError(t, writeBalance(path, 258))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x02, 0x01, 0x00, 0x00}, data)
	assert.Equal(t, int32(258), readBalance(path))

	require.NoError(t, writeBalance(path, -1))
	assert.Equal(t, int32(-1), readBalance(path))
}

func TestLogFormat(t *testing.T) {
	store := newTestStore(t)
	sess, err := store.StartSession("alice")
	require.NoError(t, err)
	defer sess.Rollback()

	assert.Equal(t, EmptyLogMessage, sess.Log())

	require.NoError(t, sess.AddPoints(10, "dishes"))
	require.NoError(t, sess.Redeem("tea", 10))

	lines := strings.Split(strings.TrimRight(sess.Log(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Regexp(t, `^\[\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\] ADDED: \+10 points \(dishes\)$`, lines[0])
	assert.Regexp(t, `^\[\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\] REDEEMED: 'tea' for 10 points$`, lines[1])
}

func TestAccountsListing(t *testing.T) {
	store := newTestStore(t)
	for _, name := range []string{"alice", "bob"} {
		_, err := store.CreateAccount(name)
		require.NoError(t, err)
	}

	names, err := store.Accounts()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alice", "bob"}, names)
}

func TestRecoverUnknownAction(t *testing.T) {
	store := newTestStore(t)
	err := store.Recover("alice", RecoveryAction(99))
	require.Error(t, err)
	assert.False(t, errors.Is(err, os.ErrNotExist))
}
