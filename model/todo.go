package model

import "time"

type Color string
type Frequency string

const (
	ColorNone   Color = ""
	ColorRed    Color = "red"
	ColorGreen  Color = "green"
	ColorBlue   Color = "blue"
	ColorPurple Color = "purple"
	ColorYellow Color = "yellow"

	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// Palette lists the colors a todo can be tagged with, in display order.
var Palette = []Color{ColorRed, ColorGreen, ColorBlue, ColorPurple, ColorYellow}

func (c Color) Valid() bool {
	if c == ColorNone {
		return true
	}
	for _, p := range Palette {
		if c == p {
			return true
		}
	}
	return false
}

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}

type Recurrence struct {
	Frequency Frequency `bson:"frequency" json:"frequency" binding:"required,frequency"`
	EndDate   string    `bson:"end_date,omitempty" json:"end_date,omitempty" binding:"omitempty,calendar_date"`
}

type Todo struct {
	TodoID    string      `bson:"_id,omitempty" json:"id"`
	UserID    string      `bson:"user_id" json:"-"`
	Text      string      `bson:"text" json:"text"`
	Completed bool        `bson:"completed" json:"completed"`
	Date      string      `bson:"date" json:"date"`
	Color     Color       `bson:"color,omitempty" json:"color,omitempty"`
	Recurring *Recurrence `bson:"recurring,omitempty" json:"recurring,omitempty"`
	CreatedAt time.Time   `bson:"created_at" json:"created_at,omitempty"`
	UpdatedAt time.Time   `bson:"updated_at" json:"updated_at,omitempty"`
	// Set only on connectivity probes so they can be told apart from real data.
	IsTestDoc bool `bson:"is_test_doc,omitempty" json:"-"`
}

// Clone returns a copy that shares no pointers with t.
func (t Todo) Clone() Todo {
	if t.Recurring != nil {
		r := *t.Recurring
		t.Recurring = &r
	}
	return t
}

// DayTodos is the bucket of todos for one calendar day of the visible window.
type DayTodos struct {
	Date  string `json:"date"`
	Todos []Todo `json:"todos"`
}

type TodoStats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
	Recurring int `json:"recurring"`
}
