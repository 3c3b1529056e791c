// Package config holds the process-wide application state: where the data
// directory lives, which account was used last, and the user settings file.
// State is an explicit value threaded through the front ends rather than
// package-level globals.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	lastAccountFile = "last_account.txt"
	configFile      = "config.yaml"
)

// Config is the user settings file, config.yaml in the data directory. A
// missing file yields the defaults.
type Config struct {
	// Theme selects the TUI color scheme: "dark" or "light".
	Theme string `yaml:"theme"`
	// TasksFile is the planner schedule path. Relative paths resolve
	// against the data directory.
	TasksFile string `yaml:"tasks_file"`
}

// State binds the data directory and the settings loaded from it.
type State struct {
	DataDir string
	Config  Config
}

// DefaultDataDir returns ~/.tally/data, falling back to a relative path if
// the home directory cannot be resolved.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".tally", "data")
	}
	return filepath.Join(home, ".tally", "data")
}

// LoadState prepares the data directory and reads config.yaml from it.
func LoadState(dataDir string) (*State, error) {
	if dataDir == "" {
		dataDir = DefaultDataDir()
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir %s: %w", dataDir, err)
	}

	state := &State{
		DataDir: dataDir,
		Config: Config{
			Theme:     "dark",
			TasksFile: "tasks.yaml",
		},
	}

	data, err := os.ReadFile(filepath.Join(dataDir, configFile))
	if os.IsNotExist(err) {
		return state, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &state.Config); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", configFile, err)
	}
	if state.Config.Theme == "" {
		state.Config.Theme = "dark"
	}
	if state.Config.TasksFile == "" {
		state.Config.TasksFile = "tasks.yaml"
	}
	return state, nil
}

// TasksPath resolves the configured schedule file against the data
// directory.
func (s *State) TasksPath() string {
	if filepath.IsAbs(s.Config.TasksFile) {
		return s.Config.TasksFile
	}
	return filepath.Join(s.DataDir, s.Config.TasksFile)
}

// LastAccount returns the last used account name, or "" if none has been
// recorded yet.
func (s *State) LastAccount() string {
	data, err := os.ReadFile(filepath.Join(s.DataDir, lastAccountFile))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// SetLastAccount records the account as the default for the next run.
func (s *State) SetLastAccount(name string) error {
	path := filepath.Join(s.DataDir, lastAccountFile)
	if err := os.WriteFile(path, []byte(name), 0o644); err != nil {
		return fmt.Errorf("writing last account: %w", err)
	}
	return nil
}
