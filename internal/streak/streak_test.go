package streak

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Steven-Carter-Data/gran-fondo-bc/internal/domain"
)

var today = time.Date(2025, time.September, 10, 0, 0, 0, 0, time.UTC)

func daysAgo(n int) time.Time { return today.AddDate(0, 0, -n) }

func TestCurrentThreeConsecutiveDays(t *testing.T) {
	require.Equal(t, 3, Current([]time.Time{daysAgo(0), daysAgo(1), daysAgo(2)}, today))
}

func TestCurrentGapResetsToZero(t *testing.T) {
	require.Equal(t, 0, Current([]time.Time{daysAgo(3)}, today))
	require.Equal(t, 0, Current([]time.Time{daysAgo(2), daysAgo(3), daysAgo(4)}, today))
}

func TestCurrentYesterdayCounts(t *testing.T) {
	require.Equal(t, 1, Current([]time.Time{daysAgo(1)}, today))
}

func TestCurrentStopsAtFirstGap(t *testing.T) {
	dates := []time.Time{daysAgo(1), daysAgo(2), daysAgo(4), daysAgo(5), daysAgo(6)}
	require.Equal(t, 2, Current(dates, today))
}

func TestCurrentIgnoresDuplicatesAndOrder(t *testing.T) {
	dates := []time.Time{daysAgo(2), daysAgo(0), daysAgo(1), daysAgo(0), daysAgo(1)}
	require.Equal(t, 3, Current(dates, today))
	require.Zero(t, Current(nil, today))
}

func TestCurrentTodayTimeOfDay(t *testing.T) {
	evening := today.Add(21 * time.Hour)
	require.Equal(t, 1, Current([]time.Time{daysAgo(1)}, evening))
}

func TestBadgeFor(t *testing.T) {
	cases := []struct {
		days int
		name string
	}{
		{45, "Legend"},
		{30, "Legend"},
		{29, "Fire"},
		{14, "Fire"},
		{13, "Lightning"},
		{7, "Lightning"},
		{6, "Star"},
		{3, "Star"},
	}
	for _, tc := range cases {
		b, ok := BadgeFor(tc.days)
		require.True(t, ok, "days=%d", tc.days)
		require.Equal(t, tc.name, b.Name, "days=%d", tc.days)
	}

	for _, days := range []int{0, 1, 2} {
		_, ok := BadgeFor(days)
		require.False(t, ok, "days=%d", days)
	}
}

func TestComputePerAthlete(t *testing.T) {
	var activities []domain.Activity
	for i := 0; i < 7; i++ {
		activities = append(activities, domain.Activity{AthleteName: "Ann Lee", Date: daysAgo(i)})
	}
	activities = append(activities,
		domain.Activity{AthleteName: "Bob Ray", Date: daysAgo(5)},
		domain.Activity{AthleteName: "Cy Dow", Date: daysAgo(1)},
		domain.Activity{AthleteName: "Cy Dow", Date: daysAgo(1)},
		domain.Activity{AthleteName: "", Date: daysAgo(0)},
	)

	records := Compute(activities, today)

	require.Len(t, records, 3)
	require.Equal(t, "Ann Lee", records[0].Athlete)
	require.Equal(t, 7, records[0].Days)
	require.NotNil(t, records[0].Badge)
	require.Equal(t, "Lightning", records[0].Badge.Name)

	require.Equal(t, 0, records[1].Days)
	require.Nil(t, records[1].Badge)

	require.Equal(t, 1, records[2].Days)

	longest, active := Longest(records)
	require.Equal(t, 7, longest)
	require.Equal(t, 2, active)
	require.Equal(t, map[string]int{"Ann Lee": 7, "Bob Ray": 0, "Cy Dow": 1}, ByAthlete(records))
}
