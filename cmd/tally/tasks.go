package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tally/internal/planner"
)

var (
	tasksFile string
	hoursUsed float64
)

// tasksCmd groups the planner report commands.
var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Task availability reports",
	Long: `Generates workload reports from a YAML schedule of tasks and free
hours per day. The schedule defaults to tasks.yaml in the data directory
(override with --file).`,
}

var tasksReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Per-task buffer report plus overall workload summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		schedule, err := loadSchedule()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), planner.BasicReport(schedule, planner.Today(), hoursUsed))
		return nil
	},
}

var tasksProcrastinationCmd = &cobra.Command{
	Use:   "procrastination",
	Short: "Report assuming each task waits for the previous due date",
	RunE: func(cmd *cobra.Command, args []string) error {
		schedule, err := loadSchedule()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), planner.Procrastination(schedule, planner.Today(), hoursUsed))
		return nil
	},
}

func loadSchedule() (*planner.Schedule, error) {
	path := tasksFile
	if path == "" {
		state, _, err := openApp()
		if err != nil {
			return nil, err
		}
		path = state.TasksPath()
	}
	return planner.LoadSchedule(path)
}

func init() {
	tasksCmd.PersistentFlags().StringVarP(&tasksFile, "file", "f", "", "Schedule file (default: tasks.yaml in the data directory)")
	tasksCmd.PersistentFlags().Float64Var(&hoursUsed, "used", 0, "Hours already used today")
}
