package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Steven-Carter-Data/gran-fondo-bc/internal/calendar"
	"github.com/Steven-Carter-Data/gran-fondo-bc/internal/domain"
	"github.com/Steven-Carter-Data/gran-fondo-bc/internal/scoring"
	"github.com/Steven-Carter-Data/gran-fondo-bc/internal/streak"
)

const mile = MetersPerMile

func day(m time.Month, d int) time.Time { return time.Date(2025, m, d, 0, 0, 0, 0, time.UTC) }

func f(v float64) *float64 { return &v }

func competitionWeeks(t *testing.T) []calendar.Week {
	t.Helper()
	cal, err := calendar.New(day(time.August, 11), day(time.October, 5), 8)
	require.NoError(t, err)
	return cal.Weeks()
}

func zone(activity, athlete string, date time.Time, z1Seconds float64) domain.ZoneRecord {
	return domain.ZoneRecord{ActivityID: activity, AthleteName: athlete, Date: date, Seconds: [5]float64{z1Seconds}}
}

func activity(id, athlete, sport string, date time.Time, meters float64) domain.Activity {
	return domain.Activity{ID: id, AthleteName: athlete, SportType: sport, Date: date, DistanceMeters: meters}
}

func TestWeeklyRowsPerWeekWithZones(t *testing.T) {
	weeks := competitionWeeks(t)
	zones := []domain.ZoneRecord{
		zone("a1", "Ann Lee", day(time.August, 12), 600),
		zone("b1", "Bob Ray", day(time.August, 13), 1200),
		zone("a2", "Ann Lee", day(time.August, 19), 300),
	}
	activities := []domain.Activity{
		activity("a1", "Ann Lee", "Peloton", day(time.August, 12), 10*mile),
		activity("a3", "Ann Lee", "Run", day(time.August, 14), 3*mile),
		activity("a4", "Ann Lee", "Bike", day(time.August, 17), 5.04*mile),
		activity("b1", "Bob Ray", "VirtualRide", day(time.August, 13), 20*mile),
		activity("a2", "Ann Lee", "Ride", day(time.August, 19), 2*mile),
	}

	rows := Weekly(weeks, zones, activities)
	require.Len(t, rows, 3)

	require.Equal(t, WeeklyRow{
		Week: "Week 1", WeekNumber: 1, Athlete: "Bob Ray", Points: 20,
		CyclingMiles: 20, Activities: 1, DateRange: "Week 1 (08/11 - 08/17)",
	}, rows[0])
	require.Equal(t, "Ann Lee", rows[1].Athlete)
	require.Equal(t, 10, rows[1].Points)
	require.Equal(t, 15.0, rows[1].CyclingMiles)
	require.Equal(t, 3, rows[1].Activities)

	require.Equal(t, 2, rows[2].WeekNumber)
	require.Equal(t, 5, rows[2].Points)
	require.Equal(t, 2.0, rows[2].CyclingMiles)

	require.Len(t, FilterWeek(rows, 1), 2)
	require.Empty(t, FilterWeek(rows, 3))
}

func TestWeeklyNoZonesNoRows(t *testing.T) {
	activities := []domain.Activity{activity("a1", "Ann Lee", "Bike", day(time.August, 12), mile)}
	require.Empty(t, Weekly(competitionWeeks(t), nil, activities))
}

func TestWeeklySkipsAthleteWithoutZonesInSharedWeek(t *testing.T) {
	zones := []domain.ZoneRecord{zone("a1", "Ann Lee", day(time.August, 12), 600)}
	activities := []domain.Activity{
		activity("a1", "Ann Lee", "Bike", day(time.August, 12), 4*mile),
		activity("b1", "Bob Ray", "Bike", day(time.August, 13), 25*mile),
		activity("b2", "Bob Ray", "Run", day(time.August, 14), 3*mile),
	}

	rows := Weekly(competitionWeeks(t), zones, activities)
	require.Len(t, rows, 1)
	require.Equal(t, "Ann Lee", rows[0].Athlete)
	require.Equal(t, 1, rows[0].WeekNumber)
	require.Equal(t, 10, rows[0].Points)
	require.Equal(t, 4.0, rows[0].CyclingMiles)
	require.Equal(t, 1, rows[0].Activities)
}

func TestSummaryAveragesOverActiveWeeks(t *testing.T) {
	rows := []WeeklyRow{
		{WeekNumber: 1, Athlete: "Ann Lee", Points: 10, CyclingMiles: 1.25, Activities: 2},
		{WeekNumber: 1, Athlete: "Bob Ray", Points: 30, CyclingMiles: 4, Activities: 1},
		{WeekNumber: 2, Athlete: "Ann Lee", Points: 25, CyclingMiles: 2.5, Activities: 1},
	}
	got := Summary(rows)
	require.Equal(t, []SummaryRow{
		{Athlete: "Ann Lee", TotalPoints: 35, TotalCyclingMiles: 3.8, TotalActivities: 3, AvgPointsPerWeek: 17.5},
		{Athlete: "Bob Ray", TotalPoints: 30, TotalCyclingMiles: 4, TotalActivities: 1, AvgPointsPerWeek: 15},
	}, got)
	require.Empty(t, Summary(nil))
}

func TestCyclingStatsAndTeamTotals(t *testing.T) {
	monday, sunday := day(time.August, 18), day(time.August, 24)
	activities := []domain.Activity{
		activity("a1", "Ann Lee", "Bike", day(time.August, 12), 10*mile),
		activity("a2", "Ann Lee", "Peloton", day(time.August, 19), 4*mile),
		activity("a3", "Ann Lee", "Run", day(time.August, 20), 3*mile),
		activity("b1", "Bob Ray", "Walk", day(time.August, 20), 2*mile),
	}
	zones := []domain.ZoneRecord{
		zone("a1", "Ann Lee", day(time.August, 12), 6000),
		zone("a2", "Ann Lee", day(time.August, 19), 600),
	}

	stats := Cycling(activities, zones, monday, sunday)
	require.Len(t, stats, 2)
	require.Equal(t, "Ann Lee", stats[0].Athlete)
	require.InDelta(t, 14, stats[0].TotalCyclingMiles, 1e-9)
	require.InDelta(t, 4, stats[0].WeeklyCyclingMiles, 1e-9)
	require.Equal(t, 10, stats[0].WeeklyZonePoints)
	require.Equal(t, CyclingStats{Athlete: "Bob Ray"}, stats[1])

	team := Team(stats)
	require.InDelta(t, 14, team.CyclingMiles, 1e-9)
	require.InDelta(t, 4, team.WeeklyCyclingMiles, 1e-9)
	require.Equal(t, 10, team.WeeklyZonePoints)
}

func TestMileageBySport(t *testing.T) {
	monday, sunday := day(time.August, 11), day(time.August, 17)
	run := activity("r1", "Ann Lee", "Run", day(time.August, 12), 3.333*mile)
	run.MovingTimeSeconds = 1800
	activities := []domain.Activity{
		run,
		activity("b1", "Ann Lee", "Bike", day(time.August, 13), 20*mile),
		activity("b2", "Bob Ray", "Bike", day(time.August, 17), 5*mile),
		activity("b3", "Bob Ray", "Bike", day(time.August, 18), 50*mile),
	}

	got := MileageBySport(activities, monday, sunday)
	require.Equal(t, []SportMileage{
		{SportType: "Bike", Miles: 25, Hours: 0, Activities: 2},
		{SportType: "Run", Miles: 3.33, Hours: 0.5, Activities: 1},
	}, got)
	require.Empty(t, MileageBySport(activities, day(time.September, 1), day(time.September, 7)))
}

func TestTeamSummarySkipsMissingHeartRate(t *testing.T) {
	a1 := activity("a1", "Ann Lee", "Bike", day(time.August, 12), 10*mile)
	a1.AvgHeartRate = f(140)
	a2 := activity("a2", "Ann Lee", "Run", day(time.August, 13), 2*mile)
	a2.AvgHeartRate = f(151)
	a2.MovingTimeSeconds = 5400
	a3 := activity("a3", "Ann Lee", "Walk", day(time.August, 14), 0)
	b1 := activity("b1", "Bob Ray", "Bike", day(time.August, 12), 30*mile)

	got := TeamSummary([]domain.Activity{a1, a2, a3, b1})
	require.Len(t, got, 2)
	require.Equal(t, "Bob Ray", got[0].Athlete)
	require.Nil(t, got[0].AvgHeartRate)
	require.Equal(t, "Ann Lee", got[1].Athlete)
	require.Equal(t, 12.0, got[1].Miles)
	require.Equal(t, 1.5, got[1].Hours)
	require.NotNil(t, got[1].AvgHeartRate)
	require.Equal(t, 145.5, *got[1].AvgHeartRate)
	require.Equal(t, 3, got[1].Activities)
}

func TestAthleteSports(t *testing.T) {
	a1 := activity("a1", "Ann Lee", "Bike", day(time.August, 12), 10*mile)
	a1.ElevationGainMeters = 100
	a2 := activity("a2", "Ann Lee", "Bike", day(time.August, 13), 5*mile)
	a3 := activity("a3", "Ann Lee", "Run", day(time.August, 13), 1*mile)
	b1 := activity("b1", "Bob Ray", "Bike", day(time.August, 12), 30*mile)

	got := AthleteSports([]domain.Activity{a1, a2, a3, b1}, "Ann Lee")
	require.Len(t, got, 2)
	require.Equal(t, "Bike", got[0].SportType)
	require.Equal(t, 15.0, got[0].Miles)
	require.Equal(t, 328.08, got[0].ElevationFeet)
	require.Equal(t, 2, got[0].Activities)
	require.Equal(t, "Run", got[1].SportType)
}

func TestCompetitionStats(t *testing.T) {
	standings := scoring.Standings{
		{Athlete: "Bob Ray", Points: 40, Activities: 3},
		{Athlete: "Ann Lee", Points: 25, Activities: 2},
	}
	streaks := []streak.Record{{Athlete: "Bob Ray", Days: 4}, {Athlete: "Ann Lee", Days: 0}, {Athlete: "Cy Dow", Days: 9}}

	require.Equal(t, CompetitionStats{
		TotalPoints: 65, TotalActivities: 5, Athletes: 2,
		LongestStreak: 9, ActiveStreaks: 2, LeaderPoints: 40,
	}, Competition(standings, streaks))
	require.Equal(t, CompetitionStats{}, Competition(nil, nil))
}

func TestRoundHalfToEven(t *testing.T) {
	require.Equal(t, 2.0, Round(2.5, 0))
	require.Equal(t, 1.2, Round(1.25, 1))
	require.Equal(t, 3.33, Round(3.333, 2))
	require.True(t, IsCycling("VirtualRide"))
	require.False(t, IsCycling("Run"))
}
