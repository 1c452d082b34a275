// Package join resolves the activity→athlete and zone→activity→athlete
// references of store rows using id-indexed maps, normalizing sport types and
// names on the way.
package join

import (
	"time"

	"github.com/Steven-Carter-Data/gran-fondo-bc/internal/calendar"
	"github.com/Steven-Carter-Data/gran-fondo-bc/internal/domain"
	"github.com/Steven-Carter-Data/gran-fondo-bc/internal/normalize"
	"github.com/Steven-Carter-Data/gran-fondo-bc/internal/scoring"
)

// Options control normalization and date derivation during joins.
type Options struct {
	Rules    normalize.Rules
	Location *time.Location
}

// IndexAthletes maps athlete id to athlete.
func IndexAthletes(athletes []domain.Athlete) map[string]domain.Athlete {
	out := make(map[string]domain.Athlete, len(athletes))
	for _, a := range athletes {
		out[a.ID] = a
	}
	return out
}

// IndexActivityRows maps activity id to row.
func IndexActivityRows(rows []domain.ActivityRow) map[string]domain.ActivityRow {
	out := make(map[string]domain.ActivityRow, len(rows))
	for _, r := range rows {
		out[r.ID] = r
	}
	return out
}

// Activity normalizes a single row without joining it.
func Activity(row domain.ActivityRow, loc *time.Location) domain.Activity {
	elevation := domain.Float(row.ElevationGainMeters)
	return domain.Activity{
		ID:                  row.ID,
		AthleteID:           row.AthleteID,
		SportType:           normalize.SportType(row.SportType, elevation),
		Name:                normalize.Clean(row.Name),
		StartDate:           row.StartDate,
		Date:                calendar.DateOf(row.StartDate, loc),
		DistanceMeters:      domain.Float(row.DistanceMeters),
		MovingTimeSeconds:   domain.Float(row.MovingTimeSeconds),
		AvgHeartRate:        row.AvgHeartRate,
		MaxHeartRate:        row.MaxHeartRate,
		ElevationGainMeters: elevation,
	}
}

// Activities joins rows with athlete names. Rows whose athlete cannot be
// resolved, or whose normalized sport type is excluded, are dropped. Input
// order is preserved.
func Activities(rows []domain.ActivityRow, athletes map[string]domain.Athlete, opts Options) []domain.Activity {
	out := make([]domain.Activity, 0, len(rows))
	for _, row := range rows {
		athlete, ok := athletes[row.AthleteID]
		if !ok {
			continue
		}
		name := athlete.DisplayName()
		if name == "" {
			continue
		}
		a := Activity(row, opts.Location)
		if opts.Rules.Excludes(a.SportType) {
			continue
		}
		a.AthleteName = name
		out = append(out, a)
	}
	return out
}

// Zones joins zone rows through their activity to an athlete. Rows whose
// activity is not in the index are dropped. Rows whose athlete cannot be
// resolved are kept with an empty AthleteName so deduplication can count them.
// Rows whose normalized sport type is excluded are dropped.
func Zones(rows []domain.ZoneRow, activities map[string]domain.ActivityRow, athletes map[string]domain.Athlete, opts Options) []domain.ZoneRecord {
	out := make([]domain.ZoneRecord, 0, len(rows))
	for _, row := range rows {
		activityRow, ok := activities[row.ActivityID]
		if !ok {
			continue
		}
		a := Activity(activityRow, opts.Location)
		if opts.Rules.Excludes(a.SportType) {
			continue
		}
		rec := domain.ZoneRecord{
			ID:           row.ID,
			ActivityID:   row.ActivityID,
			AthleteID:    activityRow.AthleteID,
			ActivityName: a.Name,
			SportType:    a.SportType,
			StartDate:    a.StartDate,
			Date:         a.Date,
			Seconds:      scoring.ResolveZones(row.Columns),
		}
		if athlete, ok := athletes[activityRow.AthleteID]; ok {
			rec.AthleteName = athlete.DisplayName()
		}
		out = append(out, rec)
	}
	return out
}
