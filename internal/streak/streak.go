// Package streak computes consecutive-day activity streaks.
package streak

import (
	"sort"
	"time"

	"github.com/Steven-Carter-Data/gran-fondo-bc/internal/calendar"
	"github.com/Steven-Carter-Data/gran-fondo-bc/internal/domain"
)

// Grace is how many days may pass after the latest activity before a streak
// resets. One day tolerates time zone skew between athletes and the server.
const Grace = 1

// Record is one athlete's current streak.
type Record struct {
	Athlete string `json:"athlete"`
	Days    int    `json:"days"`
	Badge   *Badge `json:"badge,omitempty"`
}

// Badge is awarded for long streaks.
type Badge struct {
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
	Color string `json:"color"`
}

var badges = []struct {
	min   int
	badge Badge
}{
	{30, Badge{Name: "Legend", Emoji: "🏆", Color: "#FFD700"}},
	{14, Badge{Name: "Fire", Emoji: "🔥", Color: "#FF4500"}},
	{7, Badge{Name: "Lightning", Emoji: "⚡", Color: "#1E90FF"}},
	{3, Badge{Name: "Star", Emoji: "⭐", Color: "#32CD32"}},
}

// BadgeFor returns the badge earned by a streak of the given length.
func BadgeFor(days int) (Badge, bool) {
	for _, b := range badges {
		if days >= b.min {
			return b.badge, true
		}
	}
	return Badge{}, false
}

// Current computes the streak ending on the most recent of dates. dates may
// contain duplicates and need not be sorted; they must be day values.
func Current(dates []time.Time, today time.Time) int {
	if len(dates) == 0 {
		return 0
	}
	today = calendar.Day(today)

	distinct := make(map[time.Time]struct{}, len(dates))
	days := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		d = calendar.Day(d)
		if _, ok := distinct[d]; ok {
			continue
		}
		distinct[d] = struct{}{}
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	latest := days[0]
	if calendar.DaysBetween(latest, today) > Grace {
		return 0
	}

	count := 1
	expected := latest.AddDate(0, 0, -1)
	for _, d := range days[1:] {
		if !d.Equal(expected) {
			break
		}
		count++
		expected = expected.AddDate(0, 0, -1)
	}
	return count
}

// Compute returns the streak of every athlete appearing in activities, in the
// order athletes first appear. Activities without an athlete name are ignored.
func Compute(activities []domain.Activity, today time.Time) []Record {
	order := make([]string, 0)
	dates := make(map[string][]time.Time)
	for _, a := range activities {
		if a.AthleteName == "" {
			continue
		}
		if _, ok := dates[a.AthleteName]; !ok {
			order = append(order, a.AthleteName)
		}
		dates[a.AthleteName] = append(dates[a.AthleteName], a.Date)
	}

	out := make([]Record, 0, len(order))
	for _, athlete := range order {
		rec := Record{Athlete: athlete, Days: Current(dates[athlete], today)}
		if b, ok := BadgeFor(rec.Days); ok {
			rec.Badge = &b
		}
		out = append(out, rec)
	}
	return out
}

// ByAthlete indexes records by athlete name.
func ByAthlete(records []Record) map[string]int {
	out := make(map[string]int, len(records))
	for _, r := range records {
		out[r.Athlete] = r.Days
	}
	return out
}

// Longest returns the longest streak and how many athletes have a streak.
func Longest(records []Record) (longest, active int) {
	for _, r := range records {
		if r.Days > longest {
			longest = r.Days
		}
		if r.Days > 0 {
			active++
		}
	}
	return longest, active
}
