// Package aggregate derives the weekly and summary tables shown on the
// dashboard from joined activities and scored heart-rate-zone records.
package aggregate

import (
	"fmt"
	"sort"

	"github.com/Steven-Carter-Data/gran-fondo-bc/internal/calendar"
	"github.com/Steven-Carter-Data/gran-fondo-bc/internal/domain"
	"github.com/Steven-Carter-Data/gran-fondo-bc/internal/scoring"
)

// WeeklyRow is one athlete's performance in one competition week.
type WeeklyRow struct {
	Week         string  `json:"week"`
	WeekNumber   int     `json:"week_number"`
	Athlete      string  `json:"athlete"`
	Points       int     `json:"points"`
	CyclingMiles float64 `json:"cycling_miles"`
	Activities   int     `json:"activities"`
	DateRange    string  `json:"date_range"`
}

// Weekly scores every competition week separately. Weeks without zone records
// produce no rows; athletes only appear in weeks where they have zone records.
// Rows are ordered by week, then by points within the week.
func Weekly(weeks []calendar.Week, zones []domain.ZoneRecord, activities []domain.Activity) []WeeklyRow {
	out := make([]WeeklyRow, 0)
	for _, w := range weeks {
		weekZones := zonesIn(zones, w)
		if len(weekZones) == 0 {
			continue
		}
		weekActivities := activitiesIn(activities, w)
		for _, p := range scoring.Score(weekZones) {
			var meters float64
			count := 0
			for _, a := range weekActivities {
				if a.AthleteName != p.Athlete {
					continue
				}
				count++
				if IsCycling(a.SportType) {
					meters += a.DistanceMeters
				}
			}
			out = append(out, WeeklyRow{
				Week:         fmt.Sprintf("Week %d", w.Number),
				WeekNumber:   w.Number,
				Athlete:      p.Athlete,
				Points:       p.Points,
				CyclingMiles: Round(Miles(meters), 1),
				Activities:   count,
				DateRange:    w.Label,
			})
		}
	}
	return out
}

// FilterWeek returns the rows of one week number.
func FilterWeek(rows []WeeklyRow, week int) []WeeklyRow {
	out := make([]WeeklyRow, 0)
	for _, r := range rows {
		if r.WeekNumber == week {
			out = append(out, r)
		}
	}
	return out
}

// SummaryRow is one athlete's total over all weekly rows.
type SummaryRow struct {
	Athlete           string  `json:"athlete"`
	TotalPoints       int     `json:"total_points"`
	TotalCyclingMiles float64 `json:"total_cycling_miles"`
	TotalActivities   int     `json:"total_activities"`
	AvgPointsPerWeek  float64 `json:"avg_points_per_week"`
}

// Summary totals weekly rows per athlete. The weekly average divides by the
// number of distinct weeks that produced any row. Ordered by total points,
// ties in first-seen order.
func Summary(rows []WeeklyRow) []SummaryRow {
	weeks := make(map[int]struct{})
	order := make([]string, 0)
	byAthlete := make(map[string]*SummaryRow)
	for _, r := range rows {
		weeks[r.WeekNumber] = struct{}{}
		s, ok := byAthlete[r.Athlete]
		if !ok {
			s = &SummaryRow{Athlete: r.Athlete}
			byAthlete[r.Athlete] = s
			order = append(order, r.Athlete)
		}
		s.TotalPoints += r.Points
		s.TotalCyclingMiles += r.CyclingMiles
		s.TotalActivities += r.Activities
	}

	out := make([]SummaryRow, 0, len(order))
	for _, name := range order {
		s := *byAthlete[name]
		s.TotalCyclingMiles = Round(s.TotalCyclingMiles, 1)
		s.AvgPointsPerWeek = Round(float64(s.TotalPoints)/float64(len(weeks)), 1)
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalPoints > out[j].TotalPoints })
	return out
}

func zonesIn(zones []domain.ZoneRecord, w calendar.Week) []domain.ZoneRecord {
	out := make([]domain.ZoneRecord, 0)
	for _, z := range zones {
		if w.Contains(z.Date) {
			out = append(out, z)
		}
	}
	return out
}

func activitiesIn(activities []domain.Activity, w calendar.Week) []domain.Activity {
	out := make([]domain.Activity, 0)
	for _, a := range activities {
		if w.Contains(a.Date) {
			out = append(out, a)
		}
	}
	return out
}
