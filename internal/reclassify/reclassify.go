// Package reclassify rewrites stored Peloton activities that report elevation
// gain as outdoor Bike rides.
package reclassify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sort"
	"time"

	"github.com/Steven-Carter-Data/gran-fondo-bc/internal/aggregate"
	"github.com/Steven-Carter-Data/gran-fondo-bc/internal/domain"
	"github.com/Steven-Carter-Data/gran-fondo-bc/internal/normalize"
	"github.com/Steven-Carter-Data/gran-fondo-bc/internal/observability"
	"github.com/Steven-Carter-Data/gran-fondo-bc/internal/publish"
)

// SampleSize is how many candidates a plan previews.
const SampleSize = 5

// Source lists every stored activity.
type Source interface {
	AllActivityRows(ctx context.Context) ([]domain.ActivityRow, error)
}

// Count is the number of activities of one sport type.
type Count struct {
	SportType string
	Count     int
}

// Distribution counts activities by cleaned sport type, most common first.
type Distribution []Count

// Sample previews one candidate.
type Sample struct {
	ActivityID    string
	StartDate     time.Time
	Name          string
	ElevationFeet float64
}

// Plan is what Apply would change.
type Plan struct {
	Total        int
	Distribution Distribution
	Peloton      int
	Candidates   []domain.ActivityRow
	Samples      []Sample
}

// WithoutElevation counts Peloton activities that stay Peloton.
func (p Plan) WithoutElevation() int {
	return p.Peloton - len(p.Candidates)
}

// Result tallies an Apply run.
type Result struct {
	Updated int
	Failed  int
	Errors  []error
}

// Reclassifier plans and applies the Peloton to Bike fix.
type Reclassifier struct {
	source    Source
	updater   domain.SportTypeUpdater
	publisher publish.Publisher
	logger    *log.Logger
	now       func() time.Time
}

// Option configures a Reclassifier.
type Option func(*Reclassifier)

// WithPublisher announces every successful update.
func WithPublisher(p publish.Publisher) Option {
	return func(r *Reclassifier) {
		if p != nil {
			r.publisher = p
		}
	}
}

// WithLogger overrides the logger.
func WithLogger(logger *log.Logger) Option {
	return func(r *Reclassifier) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithClock overrides the time source of published events.
func WithClock(now func() time.Time) Option {
	return func(r *Reclassifier) {
		if now != nil {
			r.now = now
		}
	}
}

// New constructs a Reclassifier.
func New(source Source, updater domain.SportTypeUpdater, opts ...Option) *Reclassifier {
	r := &Reclassifier{
		source:    source,
		updater:   updater,
		publisher: publish.NoopPublisher{},
		logger:    log.New(io.Discard, "", 0),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Plan loads every activity and selects the Peloton activities with
// elevation gain.
func (r *Reclassifier) Plan(ctx context.Context) (Plan, error) {
	rows, err := r.source.AllActivityRows(ctx)
	if err != nil {
		return Plan{}, fmt.Errorf("load activities: %w", err)
	}

	plan := Plan{Total: len(rows), Distribution: Distribute(rows)}
	for _, row := range rows {
		if normalize.Clean(row.SportType) != normalize.SportPeloton {
			continue
		}
		plan.Peloton++
		elevation := domain.Float(row.ElevationGainMeters)
		if normalize.Reclassify(normalize.SportPeloton, elevation) != normalize.SportBike {
			continue
		}
		plan.Candidates = append(plan.Candidates, row)
		if len(plan.Samples) < SampleSize {
			plan.Samples = append(plan.Samples, Sample{
				ActivityID:    row.ID,
				StartDate:     row.StartDate,
				Name:          row.Name,
				ElevationFeet: elevation * aggregate.FeetPerMeter,
			})
		}
	}
	return plan, nil
}

// Apply updates each candidate one at a time. A failed update is counted and
// the run continues. Publishing failures are logged only.
func (r *Reclassifier) Apply(ctx context.Context, plan Plan) Result {
	var res Result
	for i, row := range plan.Candidates {
		if err := ctx.Err(); err != nil {
			res.Failed += len(plan.Candidates) - i
			res.Errors = append(res.Errors, err)
			break
		}
		if err := r.updater.UpdateActivitySportType(ctx, row.ID, normalize.SportBike); err != nil {
			res.Failed++
			res.Errors = append(res.Errors, fmt.Errorf("update activity %s: %w", row.ID, err))
			observability.RecordReclassification("failed")
			r.logger.Printf("failed to update activity %s: %v", row.ID, err)
			continue
		}
		res.Updated++
		observability.RecordReclassification("updated")
		if res.Updated%10 == 0 {
			r.logger.Printf("updated %d/%d activities", res.Updated, len(plan.Candidates))
		}

		evt := publish.NewSportTypeChanged(row.ID, row.AthleteID, normalize.SportPeloton, normalize.SportBike,
			domain.Float(row.ElevationGainMeters), r.now())
		if err := r.publisher.PublishSportTypeChanged(ctx, evt); err != nil {
			r.logger.Printf("publish %s for activity %s: %v", evt.EventType, row.ID, err)
		}
	}
	return res
}

// Err joins every recorded failure.
func (res Result) Err() error {
	return errors.Join(res.Errors...)
}

// Distribute counts rows by cleaned sport type, most common first and then
// by name.
func Distribute(rows []domain.ActivityRow) Distribution {
	counts := make(map[string]int)
	for _, row := range rows {
		counts[normalize.Clean(row.SportType)]++
	}
	out := make(Distribution, 0, len(counts))
	for sport, n := range counts {
		out = append(out, Count{SportType: sport, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].SportType < out[j].SportType
	})
	return out
}
