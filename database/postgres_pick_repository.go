package database

import (
	"context"
	"time"

	"no-homers/models"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
)

// PostgresPickRepository implements PickRepository with sqlx
type PostgresPickRepository struct {
	pg *PostgresDB
}

var _ PickRepository = (*PostgresPickRepository)(nil)

func NewPostgresPickRepository(pg *PostgresDB) *PostgresPickRepository {
	return &PostgresPickRepository{pg: pg}
}

const pickColumns = `season, week, game_id, team_picked, pick_type, spread, picker, created_at`

func (r *PostgresPickRepository) FindByPickerAndWeek(ctx context.Context, picker string, season, week int) ([]models.Pick, error) {
	ctx, cancel := r.pg.opContext(ctx)
	defer cancel()

	const query = `
SELECT ` + pickColumns + `
FROM picks
WHERE picker = $1
  AND season = $2
  AND week = $3
ORDER BY id`

	picks := []models.Pick{}
	if err := r.pg.db.SelectContext(ctx, &picks, query, picker, season, week); err != nil {
		return nil, errors.Wrap(err, "find picks by picker and week")
	}
	return picks, nil
}

func (r *PostgresPickRepository) FindByWeek(ctx context.Context, season, week int) ([]models.Pick, error) {
	ctx, cancel := r.pg.opContext(ctx)
	defer cancel()

	const query = `
SELECT ` + pickColumns + `
FROM picks
WHERE season = $1
  AND week = $2
ORDER BY picker, game_id, id`

	picks := []models.Pick{}
	if err := r.pg.db.SelectContext(ctx, &picks, query, season, week); err != nil {
		return nil, errors.Wrap(err, "find picks by week")
	}
	return picks, nil
}

func (r *PostgresPickRepository) FindByPickerAndSeason(ctx context.Context, picker string, season int) ([]models.Pick, error) {
	ctx, cancel := r.pg.opContext(ctx)
	defer cancel()

	const query = `
SELECT ` + pickColumns + `
FROM picks
WHERE picker = $1
  AND season = $2
ORDER BY week, game_id, id`

	picks := []models.Pick{}
	if err := r.pg.db.SelectContext(ctx, &picks, query, picker, season); err != nil {
		return nil, errors.Wrap(err, "find picks by picker and season")
	}
	return picks, nil
}

// ReplacePicks deletes and re-inserts the picker's week in one transaction
func (r *PostgresPickRepository) ReplacePicks(ctx context.Context, picker string, season, week int, picks []models.Pick) error {
	ctx, cancel := r.pg.opContext(ctx)
	defer cancel()

	const deleteQuery = `
DELETE FROM picks
WHERE picker = $1
  AND season = $2
  AND week = $3`

	const insertQuery = `
INSERT INTO picks (` + pickColumns + `)
VALUES (:season, :week, :game_id, :team_picked, :pick_type, :spread, :picker, :created_at)`

	now := time.Now().UTC()
	return r.pg.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, deleteQuery, picker, season, week); err != nil {
			return errors.Wrap(err, "delete existing picks")
		}
		for _, p := range picks {
			p.Picker, p.Season, p.Week, p.CreatedAt = picker, season, week, now
			if _, err := tx.NamedExecContext(ctx, insertQuery, p); err != nil {
				return errors.Wrapf(err, "insert pick %s", p.GameID)
			}
		}
		return nil
	})
}

func (r *PostgresPickRepository) DeletePicks(ctx context.Context, picker string, season, week int) (int, error) {
	ctx, cancel := r.pg.opContext(ctx)
	defer cancel()

	const query = `
DELETE FROM picks
WHERE picker = $1
  AND season = $2
  AND week = $3`

	res, err := r.pg.db.ExecContext(ctx, query, picker, season, week)
	if err != nil {
		return 0, errors.Wrap(err, "delete picks")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "delete picks rows affected")
	}
	return int(n), nil
}

func (r *PostgresPickRepository) Stats(ctx context.Context) (models.DatabaseStats, error) {
	ctx, cancel := r.pg.opContext(ctx)
	defer cancel()

	const query = `
SELECT COUNT(*)               AS total_picks,
       COUNT(DISTINCT picker) AS unique_pickers,
       MIN(season)            AS min_season,
       MAX(season)            AS max_season,
       MIN(week)              AS min_week,
       MAX(week)              AS max_week
FROM picks`

	var row struct {
		TotalPicks    int  `db:"total_picks"`
		UniquePickers int  `db:"unique_pickers"`
		MinSeason     *int `db:"min_season"`
		MaxSeason     *int `db:"max_season"`
		MinWeek       *int `db:"min_week"`
		MaxWeek       *int `db:"max_week"`
	}
	if err := r.pg.db.GetContext(ctx, &row, query); err != nil {
		return models.DatabaseStats{}, errors.Wrap(err, "pick stats")
	}
	return models.DatabaseStats(row), nil
}
