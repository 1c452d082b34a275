package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func competition(t *testing.T) *Calendar {
	t.Helper()
	cal, err := New(date(2025, time.August, 11), date(2025, time.October, 5), 8)
	require.NoError(t, err)
	return cal
}

func TestWeeksFirstAndLast(t *testing.T) {
	weeks := competition(t).Weeks()
	require.Len(t, weeks, 8)

	require.Equal(t, 1, weeks[0].Number)
	require.Equal(t, date(2025, time.August, 11), weeks[0].Start)
	require.Equal(t, date(2025, time.August, 17), weeks[0].End)
	require.Equal(t, "Week 1 (08/11 - 08/17)", weeks[0].Label)

	last := weeks[7]
	require.Equal(t, 8, last.Number)
	require.Equal(t, date(2025, time.September, 29), last.Start)
	require.Equal(t, date(2025, time.October, 5), last.End)
}

func TestWeeksAreContiguousAndBounded(t *testing.T) {
	cases := []struct {
		name       string
		start, end time.Time
		weeks      int
	}{
		{"exact", date(2025, time.August, 11), date(2025, time.October, 5), 8},
		{"clipped mid-week", date(2025, time.August, 11), date(2025, time.October, 1), 8},
		{"short window", date(2025, time.August, 11), date(2025, time.August, 20), 8},
		{"week count first", date(2025, time.January, 6), date(2025, time.December, 28), 4},
		{"single day", date(2025, time.March, 3), date(2025, time.March, 3), 8},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cal, err := New(tc.start, tc.end, tc.weeks)
			require.NoError(t, err)

			weeks := cal.Weeks()
			require.NotEmpty(t, weeks)
			require.LessOrEqual(t, len(weeks), tc.weeks)
			require.Equal(t, tc.start, weeks[0].Start)
			for i, w := range weeks {
				require.Equal(t, i+1, w.Number)
				require.False(t, w.End.Before(w.Start))
				require.False(t, w.End.After(tc.end))
				if i > 0 {
					require.Equal(t, weeks[i-1].End.AddDate(0, 0, 1), w.Start)
				}
			}
		})
	}
}

func TestWeeksClipsFinalWeek(t *testing.T) {
	cal, err := New(date(2025, time.August, 11), date(2025, time.August, 20), 8)
	require.NoError(t, err)

	weeks := cal.Weeks()
	require.Len(t, weeks, 2)
	require.Equal(t, date(2025, time.August, 20), weeks[1].End)
	require.Equal(t, "Week 2 (08/18 - 08/20)", weeks[1].Label)
}

func TestWeeksIsRestartable(t *testing.T) {
	cal := competition(t)
	require.Equal(t, cal.Weeks(), cal.Weeks())
}

func TestCurrentWeek(t *testing.T) {
	cal := competition(t)

	require.Equal(t, Status{Week: 0, Label: PreCompetition}, cal.CurrentWeek(date(2025, time.August, 10)))
	require.Equal(t, Status{Week: 1, Label: "Week 1"}, cal.CurrentWeek(date(2025, time.August, 11)))
	require.Equal(t, Status{Week: 1, Label: "Week 1"}, cal.CurrentWeek(date(2025, time.August, 17)))
	require.Equal(t, Status{Week: 2, Label: "Week 2"}, cal.CurrentWeek(date(2025, time.August, 18)))
	require.Equal(t, Status{Week: 8, Label: "Week 8"}, cal.CurrentWeek(date(2025, time.October, 5)))
	require.Equal(t, Status{Week: 9, Label: PostCompetition}, cal.CurrentWeek(date(2025, time.October, 6)))
}

func TestCurrentWeekIgnoresTimeOfDay(t *testing.T) {
	cal := competition(t)
	late := time.Date(2025, time.August, 17, 23, 59, 0, 0, time.UTC)
	require.Equal(t, 1, cal.CurrentWeek(late).Week)
}

func TestCurrentWeekBoundsInsideCompetition(t *testing.T) {
	cal := competition(t)

	monday, sunday := cal.CurrentWeekBounds(date(2025, time.August, 20))
	require.Equal(t, date(2025, time.August, 18), monday)
	require.Equal(t, date(2025, time.August, 24), sunday)
}

func TestCurrentWeekBoundsClipsToEnd(t *testing.T) {
	cal, err := New(date(2025, time.August, 11), date(2025, time.October, 1), 8)
	require.NoError(t, err)

	monday, sunday := cal.CurrentWeekBounds(date(2025, time.September, 30))
	require.Equal(t, date(2025, time.September, 29), monday)
	require.Equal(t, date(2025, time.October, 1), sunday)
}

func TestCurrentWeekBoundsFallsBackToCalendarWeek(t *testing.T) {
	cal := competition(t)

	// Wednesday after the competition.
	monday, sunday := cal.CurrentWeekBounds(date(2025, time.October, 15))
	require.Equal(t, date(2025, time.October, 13), monday)
	require.Equal(t, date(2025, time.October, 19), sunday)

	// A Sunday before the competition.
	monday, sunday = cal.CurrentWeekBounds(date(2025, time.August, 3))
	require.Equal(t, date(2025, time.July, 28), monday)
	require.Equal(t, date(2025, time.August, 3), sunday)
}

func TestNewRejectsInvertedRange(t *testing.T) {
	_, err := New(date(2025, time.October, 5), date(2025, time.August, 11), 8)
	require.Error(t, err)

	_, err = New(date(2025, time.August, 11), date(2025, time.October, 5), 0)
	require.Error(t, err)
}

func TestDateOfUsesLocation(t *testing.T) {
	loc := time.FixedZone("CDT", -5*60*60)
	ts := time.Date(2025, time.August, 12, 2, 30, 0, 0, time.UTC)

	require.Equal(t, date(2025, time.August, 12), DateOf(ts, time.UTC))
	require.Equal(t, date(2025, time.August, 11), DateOf(ts, loc))
	require.Equal(t, date(2025, time.August, 12), DateOf(ts, nil))
}

func TestWeekLookup(t *testing.T) {
	cal := competition(t)

	w, ok := cal.Week(3)
	require.True(t, ok)
	require.Equal(t, date(2025, time.August, 25), w.Start)

	_, ok = cal.Week(9)
	require.False(t, ok)
}
