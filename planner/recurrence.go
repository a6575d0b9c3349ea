package planner

import (
	"github.com/google/uuid"
	"github.com/yakir1992/todoapp/model"
)

// DerivedTodo is a recurrence copy destined for the bucket at Date.
type DerivedTodo struct {
	Date string
	Todo model.Todo
}

// ExpandRecurring computes the copies of todo that recur into the buckets
// after anchorDate. Copies get fresh ids from newID (uuid when nil) and keep
// every other field, completed included. Nothing dedups: expanding the same
// todo twice yields two sets of copies. Buckets past the recurrence end date
// never match.
func ExpandRecurring(todo model.Todo, anchorDate string, days []model.DayTodos, newID func() string) []DerivedTodo {
	if todo.Recurring == nil {
		return nil
	}
	anchor, err := ParseDate(anchorDate)
	if err != nil {
		return nil
	}
	if newID == nil {
		newID = uuid.NewString
	}

	var derived []DerivedTodo
	for _, day := range days {
		current, err := ParseDate(day.Date)
		if err != nil || !current.After(anchor) {
			continue
		}
		if end := todo.Recurring.EndDate; end != "" && day.Date > end {
			continue
		}

		var match bool
		switch todo.Recurring.Frequency {
		case model.FrequencyDaily:
			match = true
		case model.FrequencyWeekly:
			match = current.Weekday() == anchor.Weekday()
		case model.FrequencyMonthly:
			match = current.Day() == anchor.Day()
		}
		if !match {
			continue
		}

		copied := todo.Clone()
		copied.TodoID = newID()
		copied.Date = day.Date
		derived = append(derived, DerivedTodo{Date: day.Date, Todo: copied})
	}
	return derived
}
