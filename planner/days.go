package planner

import (
	"time"

	"github.com/yakir1992/todoapp/model"
)

// DateLayout is the bucket date format.
const DateLayout = "2006-01-02"

// DefaultDayCount is the size of the materialized window.
const DefaultDayCount = 7

// DayCounts are the window prefixes a view may display.
var DayCounts = []int{1, 3, 5, 7}

// StartOfDay returns local midnight of t's calendar day.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate reads a YYYY-MM-DD date as local midnight.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.Local)
}

func ValidDayCount(n int) bool {
	for _, c := range DayCounts {
		if n == c {
			return true
		}
	}
	return false
}

// GenerateDays returns numDays empty buckets with consecutive dates starting
// at start's calendar day. numDays <= 0 means DefaultDayCount.
func GenerateDays(start time.Time, numDays int) []model.DayTodos {
	if numDays <= 0 {
		numDays = DefaultDayCount
	}

	start = StartOfDay(start)
	days := make([]model.DayTodos, numDays)
	for i := range days {
		days[i] = model.DayTodos{
			Date:  FormatDate(start.AddDate(0, 0, i)),
			Todos: []model.Todo{},
		}
	}
	return days
}
