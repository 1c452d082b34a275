package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Steven-Carter-Data/gran-fondo-bc/internal/domain"
)

// Repository reads the competition tables and applies the sport type fix.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const activityColumns = `id::text, athlete_id::text, COALESCE(name, ''), COALESCE(sport_type, ''), start_date,
        distance, moving_time, average_heartrate, max_heartrate, total_elevation_gain`

// ListAthletes implements domain.Store.
func (r *Repository) ListAthletes(ctx context.Context) ([]domain.Athlete, error) {
	const query = `SELECT id::text, COALESCE(firstname, ''), COALESCE(lastname, '') FROM athletes ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Athlete, 0)
	for rows.Next() {
		var a domain.Athlete
		if err := rows.Scan(&a.ID, &a.FirstName, &a.LastName); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ListActivityRows implements domain.Store.
func (r *Repository) ListActivityRows(ctx context.Context, start, end time.Time) ([]domain.ActivityRow, error) {
	query := `SELECT ` + activityColumns + `
        FROM activities WHERE start_date >= $1 AND start_date <= $2
        ORDER BY start_date DESC, id DESC`
	return r.queryActivities(ctx, query, start, end)
}

// AllActivityRows returns every activity, newest first.
func (r *Repository) AllActivityRows(ctx context.Context) ([]domain.ActivityRow, error) {
	query := `SELECT ` + activityColumns + ` FROM activities ORDER BY start_date DESC, id DESC`
	return r.queryActivities(ctx, query)
}

func (r *Repository) queryActivities(ctx context.Context, query string, args ...any) ([]domain.ActivityRow, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.ActivityRow, 0)
	for rows.Next() {
		var a domain.ActivityRow
		if err := rows.Scan(&a.ID, &a.AthleteID, &a.Name, &a.SportType, &a.StartDate,
			&a.DistanceMeters, &a.MovingTimeSeconds, &a.AvgHeartRate, &a.MaxHeartRate, &a.ElevationGainMeters); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ListZoneRows implements domain.Store. Zone columns are read as a JSON object
// so either zone_N_seconds or zone_N_time naming is picked up. Rows are ordered
// by id.
func (r *Repository) ListZoneRows(ctx context.Context, activityIDs []string) ([]domain.ZoneRow, error) {
	if len(activityIDs) == 0 {
		return nil, nil
	}
	const query = `SELECT h.id::text, h.activity_id::text, to_jsonb(h) - 'id' - 'activity_id'
        FROM heart_rate_zones h WHERE h.activity_id::text = ANY($1) ORDER BY h.id`

	rows, err := r.pool.Query(ctx, query, activityIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.ZoneRow, 0)
	for rows.Next() {
		var z domain.ZoneRow
		var cols map[string]any
		if err := rows.Scan(&z.ID, &z.ActivityID, &cols); err != nil {
			return nil, err
		}
		z.Columns = domain.ZoneColumns(cols)
		out = append(out, z)
	}
	return out, rows.Err()
}

// UpdateActivitySportType implements domain.SportTypeUpdater.
func (r *Repository) UpdateActivitySportType(ctx context.Context, activityID, sportType string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `UPDATE activities SET sport_type = $2 WHERE id::text = $1`, activityID, sportType)
	if err != nil {
		return fmt.Errorf("update sport type: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrActivityNotFound
	}
	return tx.Commit(ctx)
}
