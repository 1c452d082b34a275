// Package records implements the cached read queries of the dashboard on top
// of the raw store rows.
package records

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Steven-Carter-Data/gran-fondo-bc/internal/cache"
	"github.com/Steven-Carter-Data/gran-fondo-bc/internal/calendar"
	"github.com/Steven-Carter-Data/gran-fondo-bc/internal/dedupe"
	"github.com/Steven-Carter-Data/gran-fondo-bc/internal/domain"
	"github.com/Steven-Carter-Data/gran-fondo-bc/internal/join"
	"github.com/Steven-Carter-Data/gran-fondo-bc/internal/observability"
)

// DefaultTTL is how long query results are reused.
const DefaultTTL = 60 * time.Second

// Zones is the result of a heart-rate-zone window query.
type Zones struct {
	Records []domain.ZoneRecord
	Report  dedupe.Report
}

// Reader answers the dashboard read queries. Results are cached per query
// signature for the configured TTL.
type Reader struct {
	store  domain.Store
	join   join.Options
	logger *log.Logger

	athletes *cache.Cache[[]domain.Athlete]
	rows     *cache.Cache[[]domain.ActivityRow]
	zones    *cache.Cache[Zones]
}

// Option configures a Reader.
type Option func(*settings)

type settings struct {
	ttl      time.Duration
	logger   *log.Logger
	observer cache.Observer
	now      func() time.Time
}

// WithTTL overrides DefaultTTL. Zero disables caching.
func WithTTL(ttl time.Duration) Option {
	return func(s *settings) { s.ttl = ttl }
}

// WithLogger sets the logger used for deduplication reports.
func WithLogger(logger *log.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithObserver reports cache lookups.
func WithObserver(obs cache.Observer) Option {
	return func(s *settings) {
		if obs != nil {
			s.observer = obs
		}
	}
}

// WithClock overrides the clock used for cache expiry.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

// NewReader builds a Reader over store.
func NewReader(store domain.Store, opts join.Options, options ...Option) *Reader {
	s := settings{
		ttl:      DefaultTTL,
		logger:   log.New(os.Stdout, "[records] ", log.LstdFlags),
		observer: observability.CacheObserver{},
		now:      time.Now,
	}
	for _, opt := range options {
		opt(&s)
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	cacheOpts := []cache.Option{cache.WithObserver(s.observer), cache.WithClock(s.now)}
	return &Reader{
		store:    store,
		join:     opts,
		logger:   s.logger,
		athletes: cache.New[[]domain.Athlete]("athletes", s.ttl, cacheOpts...),
		rows:     cache.New[[]domain.ActivityRow]("activities", s.ttl, cacheOpts...),
		zones:    cache.New[Zones]("heart_rate_zones", s.ttl, cacheOpts...),
	}
}

// Location is the time zone calendar dates are derived in.
func (r *Reader) Location() *time.Location {
	return r.join.Location
}

// ListAthletes returns every athlete.
func (r *Reader) ListAthletes(ctx context.Context) ([]domain.Athlete, error) {
	return r.athletes.GetOrLoad(ctx, cache.AthletesKey(), func(ctx context.Context) ([]domain.Athlete, error) {
		started := time.Now()
		athletes, err := r.store.ListAthletes(ctx)
		observability.ObserveStoreQuery("list_athletes", started, err)
		if err != nil {
			return nil, fmt.Errorf("list athletes: %w", err)
		}
		return athletes, nil
	})
}

// ListActivities returns activities whose calendar date lies in [start, end],
// newest first, joined with athlete names and normalized. Activities of the
// excluded sport and activities without a resolvable athlete are dropped.
func (r *Reader) ListActivities(ctx context.Context, start, end time.Time) ([]domain.Activity, error) {
	rows, athletes, err := r.window(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return join.Activities(rows, join.IndexAthletes(athletes), r.join), nil
}

// ListHeartRateZones returns deduplicated heart-rate-zone records whose
// activity's calendar date lies in [start, end].
func (r *Reader) ListHeartRateZones(ctx context.Context, start, end time.Time) (Zones, error) {
	from, to, err := r.bounds(start, end)
	if err != nil {
		return Zones{}, err
	}
	return r.zones.GetOrLoad(ctx, cache.ZonesKey(from, to), func(ctx context.Context) (Zones, error) {
		rows, athletes, err := r.window(ctx, start, end)
		if err != nil {
			return Zones{}, err
		}
		if len(rows) == 0 {
			return Zones{}, nil
		}
		ids := make([]string, 0, len(rows))
		for _, row := range rows {
			ids = append(ids, row.ID)
		}

		started := time.Now()
		zoneRows, err := r.store.ListZoneRows(ctx, ids)
		observability.ObserveStoreQuery("list_heart_rate_zones", started, err)
		if err != nil {
			return Zones{}, fmt.Errorf("list heart rate zones: %w", err)
		}

		joined := join.Zones(zoneRows, join.IndexActivityRows(rows), join.IndexAthletes(athletes), r.join)
		kept, report := dedupe.ZoneRecords(joined)
		observability.RecordDeduplication(report.Duplicates, report.Unresolved)
		if report.Removed() > 0 {
			r.logger.Printf("removed %d duplicate and %d unresolved zone records for %s..%s",
				report.Duplicates, report.Unresolved, start.Format(time.DateOnly), end.Format(time.DateOnly))
		}
		return Zones{Records: kept, Report: report}, nil
	})
}

// Flush drops every cached result.
func (r *Reader) Flush() {
	r.athletes.Flush()
	r.rows.Flush()
	r.zones.Flush()
}

func (r *Reader) window(ctx context.Context, start, end time.Time) ([]domain.ActivityRow, []domain.Athlete, error) {
	from, to, err := r.bounds(start, end)
	if err != nil {
		return nil, nil, err
	}
	athletes, err := r.ListAthletes(ctx)
	if err != nil {
		return nil, nil, err
	}
	rows, err := r.rows.GetOrLoad(ctx, cache.ActivitiesKey(from, to), func(ctx context.Context) ([]domain.ActivityRow, error) {
		started := time.Now()
		rows, err := r.store.ListActivityRows(ctx, from, to)
		observability.ObserveStoreQuery("list_activities", started, err)
		if err != nil {
			return nil, fmt.Errorf("list activities: %w", err)
		}
		return rows, nil
	})
	if err != nil {
		return nil, nil, err
	}
	return rows, athletes, nil
}

// bounds converts an inclusive day range into the timestamp window covering
// those days in the reader's time zone.
func (r *Reader) bounds(start, end time.Time) (time.Time, time.Time, error) {
	start, end = calendar.Day(start), calendar.Day(end)
	if err := (domain.DateRange{Start: start, End: end}).Validate(); err != nil {
		return time.Time{}, time.Time{}, err
	}
	loc := r.join.Location
	from := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
	to := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1).Add(-time.Nanosecond)
	return from, to, nil
}
