// Package domain defines the records shared by the competition engine and the
// contracts it expects from the external data store.
package domain

import (
	"strings"
	"time"
)

// Athlete is reference data owned by the store.
type Athlete struct {
	ID        string `json:"id"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
}

// DisplayName joins first and last name. An athlete with neither has no
// resolvable name.
func (a Athlete) DisplayName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// ActivityRow is an activity exactly as stored, before joins and normalization.
// Nullable numeric columns are pointers.
type ActivityRow struct {
	ID                  string
	AthleteID           string
	Name                string
	SportType           string
	StartDate           time.Time
	DistanceMeters      *float64
	MovingTimeSeconds   *float64
	AvgHeartRate        *float64
	MaxHeartRate        *float64
	ElevationGainMeters *float64
}

// Activity is a joined, normalized activity. Date is the calendar day of
// StartDate in the competition time zone, stored as UTC midnight.
type Activity struct {
	ID                  string    `json:"id"`
	AthleteID           string    `json:"athlete_id"`
	AthleteName         string    `json:"athlete_name"`
	SportType           string    `json:"sport_type"`
	Name                string    `json:"name"`
	StartDate           time.Time `json:"start_date"`
	Date                time.Time `json:"date"`
	DistanceMeters      float64   `json:"distance"`
	MovingTimeSeconds   float64   `json:"moving_time"`
	AvgHeartRate        *float64  `json:"average_heartrate"`
	MaxHeartRate        *float64  `json:"max_heartrate"`
	ElevationGainMeters float64   `json:"total_elevation_gain"`
}

// ZoneColumns holds the raw zone-time columns of a heart-rate-zone row keyed by
// column name, e.g. "zone_1_seconds" or "zone_1_time".
type ZoneColumns map[string]any

// ZoneRow is a heart-rate-zone row as stored. Only the activity reference is
// known until it is joined.
type ZoneRow struct {
	ID         string
	ActivityID string
	Columns    ZoneColumns
}

// ZoneRecord is a heart-rate-zone row joined through its activity to an
// athlete. Seconds holds time spent in zones 1..5.
type ZoneRecord struct {
	ID           string
	ActivityID   string
	AthleteID    string
	AthleteName  string
	ActivityName string
	SportType    string
	StartDate    time.Time
	Date         time.Time
	Seconds      [5]float64
}

// Float returns the pointed-to value, treating nil as zero.
func Float(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
