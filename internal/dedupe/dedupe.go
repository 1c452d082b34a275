// Package dedupe removes duplicate heart-rate-zone records.
package dedupe

import "github.com/Steven-Carter-Data/gran-fondo-bc/internal/domain"

// Report counts what ZoneRecords removed.
type Report struct {
	// Duplicates counts records dropped because an earlier record had the
	// same activity id.
	Duplicates int `json:"duplicates"`
	// Unresolved counts records dropped because no athlete name was joined.
	Unresolved int `json:"unresolved"`
}

// Removed is the total number of records dropped.
func (r Report) Removed() int {
	return r.Duplicates + r.Unresolved
}

// ZoneRecords keeps the first record seen for each activity id and drops
// records without an athlete name. The result depends on input order.
func ZoneRecords(records []domain.ZoneRecord) ([]domain.ZoneRecord, Report) {
	var report Report
	seen := make(map[string]struct{}, len(records))
	out := make([]domain.ZoneRecord, 0, len(records))
	for _, r := range records {
		if r.AthleteName == "" {
			report.Unresolved++
			continue
		}
		if _, dup := seen[r.ActivityID]; dup {
			report.Duplicates++
			continue
		}
		seen[r.ActivityID] = struct{}{}
		out = append(out, r)
	}
	return out, report
}
