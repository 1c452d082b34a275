// Package calendar maps calendar days onto the fixed competition weeks.
//
// All days are represented as time.Time values at UTC midnight. Use DateOf to
// convert a timestamp into that form.
package calendar

import (
	"fmt"
	"time"
)

const day = 24 * time.Hour

// Phase labels for days outside the numbered weeks.
const (
	PreCompetition  = "Pre-Competition"
	PostCompetition = "Post-Competition"
)

// Week describes one competition week.
type Week struct {
	Number int       `json:"week"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Label  string    `json:"label"`
}

// Contains reports whether d falls in the week, inclusive on both ends.
func (w Week) Contains(d time.Time) bool {
	return !d.Before(w.Start) && !d.After(w.End)
}

// Status is the competition position of a given day.
type Status struct {
	Week  int    `json:"week"`
	Label string `json:"label"`
}

// Calendar holds the fixed competition dates.
type Calendar struct {
	start time.Time
	end   time.Time
	weeks int
}

// New builds a Calendar. start and end are truncated to days.
func New(start, end time.Time, weeks int) (*Calendar, error) {
	start, end = Day(start), Day(end)
	if end.Before(start) {
		return nil, fmt.Errorf("competition end %s is before start %s", end.Format(time.DateOnly), start.Format(time.DateOnly))
	}
	if weeks <= 0 {
		return nil, fmt.Errorf("competition week count must be positive, got %d", weeks)
	}
	return &Calendar{start: start, end: end, weeks: weeks}, nil
}

// Start returns the first competition day.
func (c *Calendar) Start() time.Time { return c.start }

// End returns the last competition day.
func (c *Calendar) End() time.Time { return c.end }

// WeekCount returns the configured number of weeks.
func (c *Calendar) WeekCount() int { return c.weeks }

// Bounds returns the whole competition as a pair of days.
func (c *Calendar) Bounds() (time.Time, time.Time) { return c.start, c.end }

// Weeks lists the competition weeks in order. Weeks advance by seven days from
// the start and stop at the end date or the week count, whichever comes first.
// The final week is clipped to the end date.
func (c *Calendar) Weeks() []Week {
	out := make([]Week, 0, c.weeks)
	monday := c.start
	for n := 1; n <= c.weeks; n++ {
		sunday := monday.AddDate(0, 0, 6)
		if sunday.After(c.end) {
			sunday = c.end
		}
		out = append(out, Week{
			Number: n,
			Start:  monday,
			End:    sunday,
			Label:  fmt.Sprintf("Week %d (%s - %s)", n, monday.Format("01/02"), sunday.Format("01/02")),
		})
		monday = monday.AddDate(0, 0, 7)
		if monday.After(c.end) {
			break
		}
	}
	return out
}

// Week returns week n, if it exists.
func (c *Calendar) Week(n int) (Week, bool) {
	for _, w := range c.Weeks() {
		if w.Number == n {
			return w, true
		}
	}
	return Week{}, false
}

// CurrentWeek reports which week today belongs to.
func (c *Calendar) CurrentWeek(today time.Time) Status {
	today = Day(today)
	if today.Before(c.start) {
		return Status{Week: 0, Label: PreCompetition}
	}
	if today.After(c.end) {
		return Status{Week: c.weeks + 1, Label: PostCompetition}
	}
	n := DaysBetween(c.start, today)/7 + 1
	if n > c.weeks {
		return Status{Week: c.weeks + 1, Label: PostCompetition}
	}
	return Status{Week: n, Label: fmt.Sprintf("Week %d", n)}
}

// CurrentWeekBounds returns the Monday and Sunday of the competition week
// containing today. Outside the competition it returns the calendar week
// (Monday through Sunday) containing today.
func (c *Calendar) CurrentWeekBounds(today time.Time) (time.Time, time.Time) {
	today = Day(today)
	if today.Before(c.start) || today.After(c.end) {
		monday := today.AddDate(0, 0, -weekdayOffset(today))
		return monday, monday.AddDate(0, 0, 6)
	}
	offset := DaysBetween(c.start, today) / 7
	monday := c.start.AddDate(0, 0, offset*7)
	sunday := monday.AddDate(0, 0, 6)
	if sunday.After(c.end) {
		sunday = c.end
	}
	return monday, sunday
}

// weekdayOffset counts days since Monday.
func weekdayOffset(d time.Time) int {
	return (int(d.Weekday()) + 6) % 7
}

// Day truncates t to its calendar day, keeping t's own year, month and day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateOf returns the calendar day of t as observed in loc.
func DateOf(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return Day(t.In(loc))
}

// DaysBetween counts whole days from a to b. Both must be day values.
func DaysBetween(a, b time.Time) int {
	return int(b.Sub(a) / day)
}

// ParseDay parses a YYYY-MM-DD string into a day value.
func ParseDay(s string) (time.Time, error) {
	return time.Parse(time.DateOnly, s)
}
