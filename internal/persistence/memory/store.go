// Package memory provides an in-memory store for local development and tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Steven-Carter-Data/gran-fondo-bc/internal/domain"
)

// Store keeps athletes, activities and heart-rate-zone rows in memory.
type Store struct {
	mu         sync.RWMutex
	athletes   []domain.Athlete
	activities []domain.ActivityRow
	zones      []domain.ZoneRow
}

// NewStore constructs an empty store.
func NewStore() *Store {
	return &Store{}
}

// AddAthlete stores an athlete, assigning an id when missing.
func (s *Store) AddAthlete(a domain.Athlete) domain.Athlete {
	s.mu.Lock()
	defer s.mu.Unlock()
	if strings.TrimSpace(a.ID) == "" {
		a.ID = uuid.NewString()
	}
	s.athletes = append(s.athletes, a)
	return a
}

// AddActivity stores an activity row, assigning an id when missing.
func (s *Store) AddActivity(row domain.ActivityRow) domain.ActivityRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	if strings.TrimSpace(row.ID) == "" {
		row.ID = uuid.NewString()
	}
	s.activities = append(s.activities, row)
	return row
}

// AddZones stores a heart-rate-zone row, assigning an id when missing.
// Several rows may reference the same activity.
func (s *Store) AddZones(row domain.ZoneRow) domain.ZoneRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	if strings.TrimSpace(row.ID) == "" {
		row.ID = uuid.NewString()
	}
	s.zones = append(s.zones, row)
	return row
}

// ListAthletes implements domain.Store.
func (s *Store) ListAthletes(ctx context.Context) ([]domain.Athlete, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Athlete(nil), s.athletes...), nil
}

// ListActivityRows implements domain.Store.
func (s *Store) ListActivityRows(ctx context.Context, start, end time.Time) ([]domain.ActivityRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ActivityRow, 0)
	for _, row := range s.activities {
		if row.StartDate.Before(start) || row.StartDate.After(end) {
			continue
		}
		out = append(out, row)
	}
	newestFirst(out)
	return out, nil
}

// AllActivityRows returns every stored activity, newest first.
func (s *Store) AllActivityRows(ctx context.Context) ([]domain.ActivityRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := append([]domain.ActivityRow(nil), s.activities...)
	newestFirst(out)
	return out, nil
}

// ListZoneRows implements domain.Store. Rows are returned in insertion order.
func (s *Store) ListZoneRows(ctx context.Context, activityIDs []string) ([]domain.ZoneRow, error) {
	wanted := make(map[string]struct{}, len(activityIDs))
	for _, id := range activityIDs {
		wanted[id] = struct{}{}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ZoneRow, 0)
	for _, row := range s.zones {
		if _, ok := wanted[row.ActivityID]; ok {
			out = append(out, row)
		}
	}
	return out, nil
}

// UpdateActivitySportType implements domain.SportTypeUpdater.
func (s *Store) UpdateActivitySportType(ctx context.Context, activityID, sportType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.activities {
		if s.activities[i].ID == activityID {
			s.activities[i].SportType = sportType
			return nil
		}
	}
	return domain.ErrActivityNotFound
}

func newestFirst(rows []domain.ActivityRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].StartDate.Equal(rows[j].StartDate) {
			return rows[i].StartDate.After(rows[j].StartDate)
		}
		return domain.CompareIDs(rows[i].ID, rows[j].ID) > 0
	})
}
