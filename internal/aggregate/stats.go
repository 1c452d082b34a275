package aggregate

import (
	"sort"
	"time"

	"github.com/Steven-Carter-Data/gran-fondo-bc/internal/domain"
	"github.com/Steven-Carter-Data/gran-fondo-bc/internal/scoring"
	"github.com/Steven-Carter-Data/gran-fondo-bc/internal/streak"
)

// CyclingStats is one athlete's cycling mileage and current-week points.
type CyclingStats struct {
	Athlete            string  `json:"athlete"`
	TotalCyclingMiles  float64 `json:"total_cycling_miles"`
	WeeklyCyclingMiles float64 `json:"weekly_cycling_miles"`
	WeeklyZonePoints   int     `json:"weekly_zone_points"`
}

// Cycling computes cycling stats for every athlete with an activity. Total
// miles cover all activities passed in; weekly figures cover [monday, sunday].
func Cycling(activities []domain.Activity, zones []domain.ZoneRecord, monday, sunday time.Time) []CyclingStats {
	week := domain.DateRange{Start: monday, End: sunday}

	order := make([]string, 0)
	byAthlete := make(map[string]*CyclingStats)
	for _, a := range activities {
		s, ok := byAthlete[a.AthleteName]
		if !ok {
			s = &CyclingStats{Athlete: a.AthleteName}
			byAthlete[a.AthleteName] = s
			order = append(order, a.AthleteName)
		}
		if !IsCycling(a.SportType) {
			continue
		}
		s.TotalCyclingMiles += Miles(a.DistanceMeters)
		if week.Contains(a.Date) {
			s.WeeklyCyclingMiles += Miles(a.DistanceMeters)
		}
	}

	weekZones := make([]domain.ZoneRecord, 0)
	for _, z := range zones {
		if week.Contains(z.Date) {
			weekZones = append(weekZones, z)
		}
	}
	standings := scoring.Score(weekZones)

	out := make([]CyclingStats, 0, len(order))
	for _, name := range order {
		s := *byAthlete[name]
		if p, ok := standings.Find(name); ok {
			s.WeeklyZonePoints = p.Points
		}
		out = append(out, s)
	}
	return out
}

// TeamTotals sums cycling stats across athletes.
type TeamTotals struct {
	CyclingMiles       float64 `json:"cycling_miles"`
	WeeklyCyclingMiles float64 `json:"weekly_cycling_miles"`
	WeeklyZonePoints   int     `json:"weekly_zone_points"`
}

// Team adds up per-athlete cycling stats.
func Team(stats []CyclingStats) TeamTotals {
	var t TeamTotals
	for _, s := range stats {
		t.CyclingMiles += s.TotalCyclingMiles
		t.WeeklyCyclingMiles += s.WeeklyCyclingMiles
		t.WeeklyZonePoints += s.WeeklyZonePoints
	}
	return t
}

// SportMileage is the distance and time logged in one sport.
type SportMileage struct {
	SportType  string  `json:"sport_type"`
	Miles      float64 `json:"miles"`
	Hours      float64 `json:"hours"`
	Activities int     `json:"activities"`
}

// MileageBySport groups activities dated within [monday, sunday] by sport,
// ordered by miles, highest first. Miles and hours are rounded to two decimals.
func MileageBySport(activities []domain.Activity, monday, sunday time.Time) []SportMileage {
	week := domain.DateRange{Start: monday, End: sunday}
	bySport := make(map[string]*SportMileage)
	for _, a := range activities {
		if !week.Contains(a.Date) {
			continue
		}
		m, ok := bySport[a.SportType]
		if !ok {
			m = &SportMileage{SportType: a.SportType}
			bySport[a.SportType] = m
		}
		m.Miles += Miles(a.DistanceMeters)
		m.Hours += Hours(a.MovingTimeSeconds)
		m.Activities++
	}

	out := make([]SportMileage, 0, len(bySport))
	for _, m := range bySport {
		m.Miles = Round(m.Miles, 2)
		m.Hours = Round(m.Hours, 2)
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SportType < out[j].SportType })
	sort.SliceStable(out, func(i, j int) bool { return out[i].Miles > out[j].Miles })
	return out
}

// AthleteSummary is one athlete's activity totals across all sports.
type AthleteSummary struct {
	Athlete      string   `json:"athlete"`
	Miles        float64  `json:"miles"`
	Hours        float64  `json:"hours"`
	AvgHeartRate *float64 `json:"avg_heart_rate"`
	Activities   int      `json:"activities"`
}

// TeamSummary totals activities per athlete, ordered by miles, highest first.
// The average heart rate skips activities without one and is nil when none
// has it.
func TeamSummary(activities []domain.Activity) []AthleteSummary {
	type tally struct {
		AthleteSummary
		hr heartRate
	}
	byAthlete := make(map[string]*tally)
	for _, a := range activities {
		t, ok := byAthlete[a.AthleteName]
		if !ok {
			t = &tally{AthleteSummary: AthleteSummary{Athlete: a.AthleteName}}
			byAthlete[a.AthleteName] = t
		}
		t.Miles += Miles(a.DistanceMeters)
		t.Hours += Hours(a.MovingTimeSeconds)
		t.hr.add(a.AvgHeartRate)
		t.Activities++
	}

	out := make([]AthleteSummary, 0, len(byAthlete))
	for _, t := range byAthlete {
		s := t.AthleteSummary
		s.Miles = Round(s.Miles, 2)
		s.Hours = Round(s.Hours, 2)
		s.AvgHeartRate = t.hr.mean()
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Athlete < out[j].Athlete })
	sort.SliceStable(out, func(i, j int) bool { return out[i].Miles > out[j].Miles })
	return out
}

// SportSummary is one athlete's totals in one sport.
type SportSummary struct {
	SportType     string   `json:"sport_type"`
	Miles         float64  `json:"miles"`
	Hours         float64  `json:"hours"`
	AvgHeartRate  *float64 `json:"avg_heart_rate"`
	ElevationFeet float64  `json:"elevation_feet"`
	Activities    int      `json:"activities"`
}

// AthleteSports groups one athlete's activities by sport, ordered by sport name.
func AthleteSports(activities []domain.Activity, athlete string) []SportSummary {
	type tally struct {
		SportSummary
		hr heartRate
	}
	bySport := make(map[string]*tally)
	for _, a := range activities {
		if a.AthleteName != athlete {
			continue
		}
		t, ok := bySport[a.SportType]
		if !ok {
			t = &tally{SportSummary: SportSummary{SportType: a.SportType}}
			bySport[a.SportType] = t
		}
		t.Miles += Miles(a.DistanceMeters)
		t.Hours += Hours(a.MovingTimeSeconds)
		t.ElevationFeet += a.ElevationGainMeters * FeetPerMeter
		t.hr.add(a.AvgHeartRate)
		t.Activities++
	}

	out := make([]SportSummary, 0, len(bySport))
	for _, t := range bySport {
		s := t.SportSummary
		s.Miles = Round(s.Miles, 2)
		s.Hours = Round(s.Hours, 2)
		s.ElevationFeet = Round(s.ElevationFeet, 2)
		s.AvgHeartRate = t.hr.mean()
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SportType < out[j].SportType })
	return out
}

// CompetitionStats are the headline numbers of the leaderboard.
type CompetitionStats struct {
	TotalPoints     int `json:"total_points"`
	TotalActivities int `json:"total_activities"`
	Athletes        int `json:"athletes"`
	LongestStreak   int `json:"longest_streak"`
	ActiveStreaks   int `json:"active_streaks"`
	LeaderPoints    int `json:"leader_points"`
}

// Competition summarizes standings and streaks.
func Competition(standings scoring.Standings, streaks []streak.Record) CompetitionStats {
	longest, active := streak.Longest(streaks)
	stats := CompetitionStats{
		TotalPoints:     standings.TotalPoints(),
		TotalActivities: standings.TotalActivities(),
		Athletes:        len(standings),
		LongestStreak:   longest,
		ActiveStreaks:   active,
	}
	if len(standings) > 0 {
		stats.LeaderPoints = standings[0].Points
	}
	return stats
}

type heartRate struct {
	sum   float64
	count int
}

func (h *heartRate) add(v *float64) {
	if v == nil {
		return
	}
	h.sum += *v
	h.count++
}

func (h heartRate) mean() *float64 {
	if h.count == 0 {
		return nil
	}
	m := Round(h.sum/float64(h.count), 2)
	return &m
}
