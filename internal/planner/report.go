package planner

import (
	"fmt"
	"sort"
	"strings"
)

// FormatToday renders the report header line for a day.
func FormatToday(today Date) string {
	return fmt.Sprintf("Today is: %s\n", today.Format("Monday, January 02, 2006"))
}

// AdjustAvailability returns a copy of availability with hoursUsed
// subtracted from today's entry, clamped at zero. The message describes the
// adjustment for display.
func AdjustAvailability(availability []Day, today Date, hoursUsed float64) ([]Day, string) {
	adjusted := make([]Day, len(availability))
	copy(adjusted, availability)

	var message string
	for i := range adjusted {
		if adjusted[i].Date.Equal(today.Time) {
			remaining := adjusted[i].Hours - hoursUsed
			if remaining < 0 {
				remaining = 0
			}
			adjusted[i].Hours = remaining
			message = fmt.Sprintf("You have %.1f hours remaining today.\n", remaining)
			break
		}
	}
	return adjusted, message
}

// TaskBuffer computes the hours available before a task's due date, the
// hours still required, and the buffer (available minus required). ok is
// false when the task has no remaining work.
func TaskBuffer(task Task, availability []Day, today Date) (available, required, buffer float64, ok bool) {
	required = task.RemainingHours()
	if required <= 0 {
		return 0, 0, 0, false
	}
	for _, day := range availability {
		if !day.Date.Before(today.Time) && !day.Date.After(task.Due.Time) {
			available += day.Hours
		}
	}
	return available, required, available - required, true
}

// BufferReport renders the per-task buffer report, tasks ordered by due
// date. Completed tasks are skipped.
func BufferReport(tasks []Task, availability []Day, today Date) string {
	sorted := sortByDue(tasks)

	var b strings.Builder
	b.WriteString("--- Buffer Time Report ---\n")
	for _, task := range sorted {
		available, required, buffer, ok := TaskBuffer(task, availability, today)
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "Task: %s (Due: %s)\n", task.Name, task.Due.Format("01/02"))
		fmt.Fprintf(&b, "   - You have %.1f hours available until the due date.\n", available)
		fmt.Fprintf(&b, "   - You need to complete %.1f hours of this work by then.\n", required)
		if buffer >= 0 {
			fmt.Fprintf(&b, "   - OK: You have a buffer of %.1f hours.\n\n", buffer)
		} else {
			fmt.Fprintf(&b, "   - WARNING: You are short by %.1f hours! You need to find more time.\n\n", -buffer)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// OverallReport renders the total workload versus total availability from
// today onwards.
func OverallReport(tasks []Task, availability []Day, today Date) string {
	var totalRequired, totalAvailable float64
	for _, task := range tasks {
		totalRequired += task.RemainingHours()
	}
	for _, day := range availability {
		if !day.Date.Before(today.Time) {
			totalAvailable += day.Hours
		}
	}

	var b strings.Builder
	b.WriteString("--- Overall Workload Report ---\n")
	fmt.Fprintf(&b, "Total remaining work: %.1f hours\n", totalRequired)
	fmt.Fprintf(&b, "Total available time: %.1f hours\n", totalAvailable)
	if totalAvailable >= totalRequired {
		fmt.Fprintf(&b, "   - OK: You can finish everything with %.1f hours to spare.\n", totalAvailable-totalRequired)
	} else {
		fmt.Fprintf(&b, "   - WARNING: You are short by %.1f hours. Too busy! Find extra time.\n", totalRequired-totalAvailable)
	}
	return b.String()
}

// MergeSameDueDate combines tasks sharing a due date into one task with
// joined names and summed hours.
func MergeSameDueDate(tasks []Task) []Task {
	merged := make(map[string]Task)
	var order []string
	for _, task := range tasks {
		key := task.Due.Key()
		existing, seen := merged[key]
		if !seen {
			merged[key] = task
			order = append(order, key)
			continue
		}
		existing.Name = existing.Name + " & " + task.Name
		existing.TotalHours += task.TotalHours
		existing.CompletedHours += task.CompletedHours
		merged[key] = existing
	}
	out := make([]Task, 0, len(merged))
	for _, key := range order {
		out = append(out, merged[key])
	}
	return out
}

// ProcrastinationReport assumes each task is not started until the previous
// merged due date has passed, and reports whether the remaining window
// still fits the work. The window excludes its start day and includes the
// due date, with the start clamped to today.
func ProcrastinationReport(tasks []Task, availability []Day, today Date) string {
	merged := sortByDue(MergeSameDueDate(tasks))

	var b strings.Builder
	b.WriteString("--- Procrastination Report ---\n")
	for i, task := range merged {
		required := task.RemainingHours()

		windowStart := today
		if i > 0 && merged[i-1].Due.After(today.Time) {
			windowStart = merged[i-1].Due
		}

		var available float64
		for _, day := range availability {
			if day.Date.After(windowStart.Time) && !day.Date.After(task.Due.Time) {
				available += day.Hours
			}
		}
		buffer := available - required

		fmt.Fprintf(&b, "Task: %s (Due: %s)\n", task.Name, task.Due.Format("01/02"))
		fmt.Fprintf(&b, "   - Available hours in window: %.1f\n", available)
		fmt.Fprintf(&b, "   - Required hours: %.1f\n", required)
		if buffer >= 0 {
			fmt.Fprintf(&b, "   - OK: You can procrastinate until then with %.1f hours spare.\n\n", buffer)
		} else {
			fmt.Fprintf(&b, "   - WARNING: Procrastination fails, short by %.1f hours!\n\n", -buffer)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// BasicReport is the full report: header, today's adjustment, per-task
// buffers, and the overall summary.
func BasicReport(s *Schedule, today Date, hoursUsed float64) string {
	adjusted, msg := AdjustAvailability(s.Availability, today, hoursUsed)
	sections := []string{FormatToday(today)}
	if msg != "" {
		sections = append(sections, msg)
	}
	sections = append(sections,
		BufferReport(s.Tasks, adjusted, today),
		OverallReport(s.Tasks, adjusted, today))
	return strings.Join(sections, "\n")
}

// Procrastination is the procrastination variant of BasicReport.
func Procrastination(s *Schedule, today Date, hoursUsed float64) string {
	adjusted, msg := AdjustAvailability(s.Availability, today, hoursUsed)
	sections := []string{FormatToday(today)}
	if msg != "" {
		sections = append(sections, msg)
	}
	sections = append(sections, ProcrastinationReport(s.Tasks, adjusted, today))
	return strings.Join(sections, "\n")
}

func sortByDue(tasks []Task) []Task {
	sorted := make([]Task, len(tasks))
	copy(sorted, tasks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Due.Before(sorted[j].Due.Time)
	})
	return sorted
}
