package model

import (
	"strings"
	"time"
)

// DateLayout is the calendar-date format used for deadlines everywhere:
// prompts, display and the store file.
const DateLayout = "2006-01-02"

// Todo is the domain model for a todo entry.
// It is a value; Collection methods return modified copies.
type Todo struct {
	ID        int
	Task      string
	Category  string
	Deadline  time.Time
	Completed bool
}

// ParseDate parses a yyyy-MM-dd date. Surrounding spaces are ignored.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}

// FormatDate renders d as yyyy-MM-dd.
func FormatDate(d time.Time) string { return d.Format(DateLayout) }

// DeadlineString is the deadline in yyyy-MM-dd form.
func (t Todo) DeadlineString() string { return FormatDate(t.Deadline) }

// DueOn reports whether the deadline falls on the same calendar day as d.
func (t Todo) DueOn(d time.Time) bool {
	ty, tm, td := t.Deadline.Date()
	dy, dm, dd := d.Date()
	return ty == dy && tm == dm && td == dd
}
