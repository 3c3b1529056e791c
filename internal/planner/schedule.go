// Package planner generates workload and availability reports from a
// schedule of tasks and free hours per day.
package planner

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const dateLayout = "2006-01-02"

// Date is a calendar day without a time component. It marshals to and from
// YYYY-MM-DD in YAML.
type Date struct {
	time.Time
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return Date{t}, nil
}

// Today returns the current calendar day.
func Today() Date {
	now := time.Now()
	return Date{time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)}
}

// UnmarshalYAML decodes a YYYY-MM-DD scalar.
func (d *Date) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalYAML encodes the date as a YYYY-MM-DD scalar.
func (d Date) MarshalYAML() (interface{}, error) {
	return d.Format(dateLayout), nil
}

// Key returns the YYYY-MM-DD form, usable as a map key.
func (d Date) Key() string {
	return d.Format(dateLayout)
}

// Task is a unit of work with a deadline.
type Task struct {
	Name           string  `yaml:"name"`
	TotalHours     float64 `yaml:"total_hours"`
	CompletedHours float64 `yaml:"completed_hours"`
	Due            Date    `yaml:"due"`
}

// RemainingHours returns the hours of work left, never negative.
func (t Task) RemainingHours() float64 {
	if r := t.TotalHours - t.CompletedHours; r > 0 {
		return r
	}
	return 0
}

// Day is the free hours available on one calendar day.
type Day struct {
	Date  Date    `yaml:"date"`
	Hours float64 `yaml:"hours"`
}

// Schedule is the full planning input: availability per day plus the open
// tasks.
type Schedule struct {
	Availability []Day  `yaml:"availability"`
	Tasks        []Task `yaml:"tasks"`
}

// LoadSchedule reads a schedule from a YAML file.
func LoadSchedule(path string) (*Schedule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schedule: %w", err)
	}
	var s Schedule
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing schedule %s: %w", path, err)
	}
	return &s, nil
}
