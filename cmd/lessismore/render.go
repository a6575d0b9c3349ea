package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/yakir1992/todoapp/model"
	"github.com/yakir1992/todoapp/planner"
)

// renderWeek prints the visible buckets with their todos numbered from 1,
// the numbers the todo commands take.
func renderWeek(w io.Writer, st planner.State, days []model.DayTodos, today string) {
	var done, total int
	for _, day := range days {
		for _, t := range day.Todos {
			total++
			if t.Completed {
				done++
			}
		}
	}

	header := "Week of " + st.CurrentStartDate.Format("Mon 2 Jan 2006")
	fmt.Fprintf(w, "%-40s %d/%d done\n", header, done, total)
	if st.Error != "" {
		fmt.Fprintf(w, "! %s\n", st.Error)
	}

	for _, day := range days {
		fmt.Fprintln(w)
		fmt.Fprintln(w, dayHeading(day.Date, today))
		if len(day.Todos) == 0 {
			fmt.Fprintln(w, "  (nothing)")
			continue
		}
		for i, t := range day.Todos {
			fmt.Fprintf(w, "  %d. %s\n", i+1, todoLine(t))
		}
	}
}

func dayHeading(date, today string) string {
	var b strings.Builder
	if d, err := planner.ParseDate(date); err == nil {
		b.WriteString(d.Format("Mon "))
	}
	b.WriteString(date)
	if date == today {
		b.WriteString(" (today)")
	}
	for _, h := range planner.HolidaysOn(date) {
		b.WriteString(" · ")
		b.WriteString(h.Name)
	}
	return b.String()
}

func todoLine(t model.Todo) string {
	box := "[ ]"
	if t.Completed {
		box = "[x]"
	}
	line := box + " " + t.Text
	if t.Color != model.ColorNone {
		line += " (" + string(t.Color) + ")"
	}
	if t.Recurring != nil {
		line += " ↻ " + string(t.Recurring.Frequency)
		if t.Recurring.EndDate != "" {
			line += " until " + t.Recurring.EndDate
		}
	}
	return line
}
