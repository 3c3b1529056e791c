package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"tally/cmd/tally/ui"
	"tally/internal/config"
	"tally/internal/ledger"
)

var (
	// Global flags
	dataDir string
	verbose bool

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "tally",
	Short: "tally - points ledger and task planner",
	Long: `tally is a personal productivity tool: a points/rewards ledger with a
crash-safe session model, and a task availability report generator.

All ledger changes happen inside a session and stay invisible until the
session is committed; an interrupted run is detected on the next start
and can be committed, resumed, or discarded.

Run without arguments to start the full-screen interface.`,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		state, store, err := openApp()
		if err != nil {
			return err
		}
		return ui.Run(state, store, logger)
	},
}

// openApp loads the app state and opens the ledger store under the
// configured data directory.
func openApp() (*config.State, *ledger.Store, error) {
	state, err := config.LoadState(dataDir)
	if err != nil {
		return nil, nil, err
	}
	store, err := ledger.Open(state.DataDir, logger)
	if err != nil {
		return nil, nil, err
	}
	return state, store, nil
}

func init() {
	// Assigned here rather than in the composite literal to avoid an
	// initialization cycle on rootCmd.
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// The TUI owns the terminal; keep the logger quiet there.
		if cmd == rootCmd {
			logger = zap.NewNop()
			return nil
		}

		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	}

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&dataDir, "data-dir", "d", "", "Data directory (default: ~/.tally/data)")

	tasksCmd.AddCommand(tasksReportCmd)
	tasksCmd.AddCommand(tasksProcrastinationCmd)

	rootCmd.AddCommand(pointsCmd)
	rootCmd.AddCommand(accountsCmd)
	rootCmd.AddCommand(tasksCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
