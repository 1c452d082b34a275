// Package dashboard composes the derived competition views for one request.
package dashboard

import (
	"context"
	"time"

	"github.com/Steven-Carter-Data/gran-fondo-bc/internal/aggregate"
	"github.com/Steven-Carter-Data/gran-fondo-bc/internal/calendar"
	"github.com/Steven-Carter-Data/gran-fondo-bc/internal/dedupe"
	"github.com/Steven-Carter-Data/gran-fondo-bc/internal/domain"
	"github.com/Steven-Carter-Data/gran-fondo-bc/internal/persistence"
	"github.com/Steven-Carter-Data/gran-fondo-bc/internal/records"
	"github.com/Steven-Carter-Data/gran-fondo-bc/internal/scoring"
	"github.com/Steven-Carter-Data/gran-fondo-bc/internal/streak"
)

// Reader is the read side the dashboard is computed from.
type Reader interface {
	ListActivities(ctx context.Context, start, end time.Time) ([]domain.Activity, error)
	ListHeartRateZones(ctx context.Context, start, end time.Time) (records.Zones, error)
	Flush()
}

// Service computes dashboard views. It holds no per-request state.
type Service struct {
	reader   Reader
	calendar *calendar.Calendar
	loc      *time.Location
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source used to derive today.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLocation sets the time zone today is derived in.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// NewService constructs a Service.
func NewService(reader Reader, cal *calendar.Calendar, opts ...Option) *Service {
	s := &Service{reader: reader, calendar: cal, loc: time.UTC, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today is the current calendar day in the competition time zone.
func (s *Service) Today() time.Time {
	return calendar.DateOf(s.now(), s.loc)
}

// DefaultRange spans the competition start through today.
func (s *Service) DefaultRange() domain.DateRange {
	return domain.DateRange{Start: s.calendar.Start(), End: s.Today()}
}

// Weeks lists the competition weeks.
func (s *Service) Weeks() []calendar.Week {
	return s.calendar.Weeks()
}

// Current describes where today falls in the competition.
type Current struct {
	Today     time.Time `json:"today"`
	Week      int       `json:"week"`
	Label     string    `json:"label"`
	WeekStart time.Time `json:"week_start"`
	WeekEnd   time.Time `json:"week_end"`
}

// CurrentWeek reports today's competition status and week bounds.
func (s *Service) CurrentWeek() Current {
	today := s.Today()
	status := s.calendar.CurrentWeek(today)
	monday, sunday := s.calendar.CurrentWeekBounds(today)
	return Current{Today: today, Week: status.Week, Label: status.Label, WeekStart: monday, WeekEnd: sunday}
}

// Leaderboard is the ranked standings for a date range.
type Leaderboard struct {
	Standings scoring.Standings          `json:"standings"`
	Streaks   map[string]int             `json:"streaks"`
	Stats     aggregate.CompetitionStats `json:"stats"`
	Removed   dedupe.Report              `json:"removed"`
}

// Leaderboard scores the zone records of r and attaches streaks.
func (s *Service) Leaderboard(ctx context.Context, r domain.DateRange) (Leaderboard, error) {
	zones, activities, err := s.load(ctx, r)
	if err != nil {
		return Leaderboard{}, err
	}
	standings := scoring.Score(zones.Records)
	streaks := streak.Compute(activities, s.Today())
	return Leaderboard{
		Standings: standings,
		Streaks:   streak.ByAthlete(streaks),
		Stats:     aggregate.Competition(standings, streaks),
		Removed:   zones.Report,
	}, nil
}

// Weekly returns per-week rows for r. A positive week keeps only that week.
func (s *Service) Weekly(ctx context.Context, r domain.DateRange, week int) ([]aggregate.WeeklyRow, error) {
	zones, activities, err := s.load(ctx, r)
	if err != nil {
		return nil, err
	}
	rows := aggregate.Weekly(s.calendar.Weeks(), zones.Records, activities)
	if week > 0 {
		rows = aggregate.FilterWeek(rows, week)
	}
	return rows, nil
}

// WeeklySummary totals the weekly rows of r per athlete.
func (s *Service) WeeklySummary(ctx context.Context, r domain.DateRange) ([]aggregate.SummaryRow, error) {
	rows, err := s.Weekly(ctx, r, 0)
	if err != nil {
		return nil, err
	}
	return aggregate.Summary(rows), nil
}

// Streaks returns every athlete's current streak from activities in r.
func (s *Service) Streaks(ctx context.Context, r domain.DateRange) ([]streak.Record, error) {
	activities, err := s.activities(ctx, r)
	if err != nil {
		return nil, err
	}
	return streak.Compute(activities, s.Today()), nil
}

// CyclingReport holds per-athlete cycling stats and their team totals.
type CyclingReport struct {
	Current  Current                  `json:"current_week"`
	Athletes []aggregate.CyclingStats `json:"athletes"`
	Team     aggregate.TeamTotals     `json:"team"`
}

// Cycling computes cycling stats over r with weekly figures for the current week.
func (s *Service) Cycling(ctx context.Context, r domain.DateRange) (CyclingReport, error) {
	zones, activities, err := s.load(ctx, r)
	if err != nil {
		return CyclingReport{}, err
	}
	current := s.CurrentWeek()
	stats := aggregate.Cycling(activities, zones.Records, current.WeekStart, current.WeekEnd)
	return CyclingReport{Current: current, Athletes: stats, Team: aggregate.Team(stats)}, nil
}

// Mileage groups the current week's activities in r by sport.
func (s *Service) Mileage(ctx context.Context, r domain.DateRange) ([]aggregate.SportMileage, error) {
	activities, err := s.activities(ctx, r)
	if err != nil {
		return nil, err
	}
	current := s.CurrentWeek()
	return aggregate.MileageBySport(activities, current.WeekStart, current.WeekEnd), nil
}

// TeamSummary totals activities in r per athlete.
func (s *Service) TeamSummary(ctx context.Context, r domain.DateRange) ([]aggregate.AthleteSummary, error) {
	activities, err := s.activities(ctx, r)
	if err != nil {
		return nil, err
	}
	return aggregate.TeamSummary(activities), nil
}

// CompetitionStats returns the leaderboard headline numbers for r.
func (s *Service) CompetitionStats(ctx context.Context, r domain.DateRange) (aggregate.CompetitionStats, error) {
	board, err := s.Leaderboard(ctx, r)
	if err != nil {
		return aggregate.CompetitionStats{}, err
	}
	return board.Stats, nil
}

// AthleteActivities is one page of an athlete's activity log.
type AthleteActivities struct {
	Athlete    string                   `json:"athlete"`
	Activities []domain.Activity        `json:"activities"`
	Sports     []aggregate.SportSummary `json:"sports"`
	Next       *domain.Cursor           `json:"-"`
}

// Athlete lists one athlete's activities in r, newest first, paged by cursor.
// The sport summary always covers the whole range.
func (s *Service) Athlete(ctx context.Context, r domain.DateRange, athlete string, cursor *domain.Cursor, limit int) (AthleteActivities, error) {
	activities, err := s.activities(ctx, r)
	if err != nil {
		return AthleteActivities{}, err
	}
	mine := make([]domain.Activity, 0)
	for _, a := range activities {
		if a.AthleteName == athlete {
			mine = append(mine, a)
		}
	}
	page, next := persistence.Page(mine, cursor, limit)
	return AthleteActivities{
		Athlete:    athlete,
		Activities: page,
		Sports:     aggregate.AthleteSports(mine, athlete),
		Next:       next,
	}, nil
}

// Refresh drops cached store results.
func (s *Service) Refresh() {
	s.reader.Flush()
}

func (s *Service) activities(ctx context.Context, r domain.DateRange) ([]domain.Activity, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return s.reader.ListActivities(ctx, r.Start, r.End)
}

func (s *Service) load(ctx context.Context, r domain.DateRange) (records.Zones, []domain.Activity, error) {
	activities, err := s.activities(ctx, r)
	if err != nil {
		return records.Zones{}, nil, err
	}
	zones, err := s.reader.ListHeartRateZones(ctx, r.Start, r.End)
	if err != nil {
		return records.Zones{}, nil, err
	}
	return zones, activities, nil
}
