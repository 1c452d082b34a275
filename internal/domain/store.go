package domain

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrActivityNotFound is returned when an update targets an unknown activity.
	ErrActivityNotFound = errors.New("activity not found")
	// ErrInvalidRange is returned when a date range ends before it starts.
	ErrInvalidRange = errors.New("start date must not be after end date")
)

// Store captures the read queries offered by the external data store.
type Store interface {
	ListAthletes(ctx context.Context) ([]Athlete, error)
	// ListActivityRows returns activities whose start timestamp lies in
	// [start, end], newest first.
	ListActivityRows(ctx context.Context, start, end time.Time) ([]ActivityRow, error)
	// ListZoneRows returns heart-rate-zone rows referencing any of the ids.
	ListZoneRows(ctx context.Context, activityIDs []string) ([]ZoneRow, error)
}

// SportTypeUpdater is the single write operation the core is allowed to use.
type SportTypeUpdater interface {
	UpdateActivitySportType(ctx context.Context, activityID, sportType string) error
}

// DateRange is an inclusive range of calendar days. Both ends are UTC midnights.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Validate rejects ranges that end before they start.
func (r DateRange) Validate() error {
	if r.End.Before(r.Start) {
		return ErrInvalidRange
	}
	return nil
}

// Contains reports whether day lies within the range, inclusive on both ends.
func (r DateRange) Contains(day time.Time) bool {
	return !day.Before(r.Start) && !day.After(r.End)
}

// Cursor marks a position in a newest-first activity listing.
type Cursor struct {
	StartDate time.Time
	ID        string
}

// After reports whether a sorts after the cursor position in a newest-first
// listing ordered by start date, then id, both descending.
func (c Cursor) After(a Activity) bool {
	if !a.StartDate.Equal(c.StartDate) {
		return a.StartDate.Before(c.StartDate)
	}
	return CompareIDs(a.ID, c.ID) < 0
}

// CompareIDs orders activity ids the way the store does: numerically when both
// are integers, otherwise as strings.
func CompareIDs(a, b string) int {
	x, errA := strconv.ParseInt(a, 10, 64)
	y, errB := strconv.ParseInt(b, 10, 64)
	if errA == nil && errB == nil {
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(a, b)
}
