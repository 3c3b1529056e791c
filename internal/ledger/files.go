package ledger

import (
	"fmt"
	"path/filepath"
)

// shadowSuffix marks the working copy of a committed file during a session.
const shadowSuffix = ".tmp"

// AccountFiles holds the four on-disk paths that make up one account:
// the committed ledger/log pair and the shadow pair used while a session
// is open.
type AccountFiles struct {
	LedgerPath       string
	LogPath          string
	ShadowLedgerPath string
	ShadowLogPath    string
}

// filesFor builds the path set for an account inside dataDir. The account
// name is used directly as a filesystem key, matching the layout:
//
//	<account>-points.dat        committed balance
//	<account>-central_log.txt   committed log
//	<account>-points.dat.tmp    shadow balance
//	<account>-central_log.txt.tmp shadow log
func filesFor(dataDir, account string) AccountFiles {
	base := filepath.Join(dataDir, account)
	ledger := fmt.Sprintf("%s-points.dat", base)
	log := fmt.Sprintf("%s-central_log.txt", base)
	return AccountFiles{
		LedgerPath:       ledger,
		LogPath:          log,
		ShadowLedgerPath: ledger + shadowSuffix,
		ShadowLogPath:    log + shadowSuffix,
	}
}
