// Package publish emits change events for write operations.
package publish

import (
	"time"

	"github.com/google/uuid"
)

// EventSportTypeChanged is the event type of a reclassified activity.
const EventSportTypeChanged = "activity.sport_type_changed"

// SportTypeChanged is published after an activity's sport type is rewritten.
type SportTypeChanged struct {
	EventID             string    `json:"event_id"`
	EventType           string    `json:"event_type"`
	ActivityID          string    `json:"activity_id"`
	AthleteID           string    `json:"athlete_id"`
	PreviousSportType   string    `json:"previous_sport_type"`
	SportType           string    `json:"sport_type"`
	ElevationGainMeters float64   `json:"total_elevation_gain"`
	OccurredAt          time.Time `json:"occurred_at"`
}

// NewSportTypeChanged builds an event with a fresh id.
func NewSportTypeChanged(activityID, athleteID, previous, current string, elevation float64, at time.Time) SportTypeChanged {
	return SportTypeChanged{
		EventID:             uuid.NewString(),
		EventType:           EventSportTypeChanged,
		ActivityID:          activityID,
		AthleteID:           athleteID,
		PreviousSportType:   previous,
		SportType:           current,
		ElevationGainMeters: elevation,
		OccurredAt:          at.UTC(),
	}
}
