package planner

type Holiday struct {
	Name string
	Date string
}

// Holidays is the fixed table shown alongside the days it falls on.
var Holidays = []Holiday{
	{Name: "Tu BiShvat", Date: "2024-01-25"},
	{Name: "Purim", Date: "2024-03-23"},
	{Name: "Passover", Date: "2024-04-22"},
	{Name: "Yom HaShoah", Date: "2024-05-06"},
	{Name: "Yom HaZikaron", Date: "2024-05-13"},
	{Name: "Yom HaAtzmaut", Date: "2024-05-14"},
	{Name: "Lag BaOmer", Date: "2024-05-26"},
	{Name: "Shavuot", Date: "2024-06-11"},
	{Name: "Tisha B'Av", Date: "2024-08-13"},
	{Name: "Rosh Hashanah", Date: "2024-10-02"},
	{Name: "Yom Kippur", Date: "2024-10-11"},
	{Name: "Sukkot", Date: "2024-10-16"},
	{Name: "Simchat Torah", Date: "2024-10-23"},
	{Name: "Hanukkah", Date: "2024-12-25"},
}

// HolidaysOn returns the holidays falling on date (YYYY-MM-DD).
func HolidaysOn(date string) []Holiday {
	var out []Holiday
	for _, h := range Holidays {
		if h.Date == date {
			out = append(out, h)
		}
	}
	return out
}
