package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// accountsCmd lists the accounts present in the data directory.
var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "List accounts in the data directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		state, store, err := openApp()
		if err != nil {
			return err
		}

		names, err := store.Accounts()
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No accounts found.")
			return nil
		}

		last := state.LastAccount()
		for _, name := range names {
			marks := ""
			if name == last {
				marks += " (last used)"
			}
			if store.HasCrashed(name) {
				marks += " (unsaved session)"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", name, marks)
		}
		return nil
	},
}
