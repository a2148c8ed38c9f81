package database

import (
	"context"
	"database/sql"
	"time"

	"no-homers/models"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
)

// PostgresLinesRepository implements LinesRepository with sqlx
type PostgresLinesRepository struct {
	pg *PostgresDB
}

var _ LinesRepository = (*PostgresLinesRepository)(nil)

func NewPostgresLinesRepository(pg *PostgresDB) *PostgresLinesRepository {
	return &PostgresLinesRepository{pg: pg}
}

// SaveMarketLines replaces the week's market lines
func (r *PostgresLinesRepository) SaveMarketLines(ctx context.Context, season, week int, lines []models.MarketLine) error {
	ctx, cancel := r.pg.opContext(ctx)
	defer cancel()

	const deleteQuery = `DELETE FROM market_lines WHERE season = $1 AND week = $2`
	const insertQuery = `
INSERT INTO market_lines (season, week, game_id, spread, total, kickoff, updated_at)
VALUES (:season, :week, :game_id, :spread, :total, :kickoff, :updated_at)`

	now := time.Now().UTC()
	return r.pg.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, deleteQuery, season, week); err != nil {
			return errors.Wrap(err, "delete market lines")
		}
		for _, line := range lines {
			line.Season, line.Week, line.UpdatedAt = season, week, now
			if _, err := tx.NamedExecContext(ctx, insertQuery, line); err != nil {
				return errors.Wrapf(err, "insert market line %s", line.GameID)
			}
		}
		return nil
	})
}

func (r *PostgresLinesRepository) GetMarketLines(ctx context.Context, season, week int) ([]models.MarketLine, error) {
	ctx, cancel := r.pg.opContext(ctx)
	defer cancel()

	const query = `
SELECT season, week, game_id, spread, total, kickoff, updated_at
FROM market_lines
WHERE season = $1
  AND week = $2
ORDER BY kickoff NULLS LAST, game_id`

	lines := []models.MarketLine{}
	if err := r.pg.db.SelectContext(ctx, &lines, query, season, week); err != nil {
		return nil, errors.Wrap(err, "get market lines")
	}
	return lines, nil
}

func (r *PostgresLinesRepository) AvailableWeeks(ctx context.Context, season int) ([]int, error) {
	ctx, cancel := r.pg.opContext(ctx)
	defer cancel()

	const query = `
SELECT DISTINCT week
FROM market_lines
WHERE season = $1
ORDER BY week`

	weeks := []int{}
	if err := r.pg.db.SelectContext(ctx, &weeks, query, season); err != nil {
		return nil, errors.Wrap(err, "available weeks")
	}
	return weeks, nil
}

func (r *PostgresLinesRepository) MaxWeek(ctx context.Context, season int) (int, bool, error) {
	ctx, cancel := r.pg.opContext(ctx)
	defer cancel()

	const query = `SELECT MAX(week) FROM market_lines WHERE season = $1`

	var week sql.NullInt64
	if err := r.pg.db.GetContext(ctx, &week, query, season); err != nil {
		return 0, false, errors.Wrap(err, "max week")
	}
	if !week.Valid {
		return 0, false, nil
	}
	return int(week.Int64), true, nil
}

// SavePoolSpreads replaces the week's pool spreads
func (r *PostgresLinesRepository) SavePoolSpreads(ctx context.Context, season, week int, spreads []models.PoolSpread) error {
	ctx, cancel := r.pg.opContext(ctx)
	defer cancel()

	const deleteQuery = `DELETE FROM pool_spreads WHERE season = $1 AND week = $2`
	const insertQuery = `
INSERT INTO pool_spreads (season, week, game_id, spread, updated_at)
VALUES (:season, :week, :game_id, :spread, :updated_at)`

	now := time.Now().UTC()
	return r.pg.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, deleteQuery, season, week); err != nil {
			return errors.Wrap(err, "delete pool spreads")
		}
		for _, s := range spreads {
			s.Season, s.Week, s.UpdatedAt = season, week, now
			if _, err := tx.NamedExecContext(ctx, insertQuery, s); err != nil {
				return errors.Wrapf(err, "insert pool spread %s", s.GameID)
			}
		}
		return nil
	})
}

func (r *PostgresLinesRepository) UpdatePoolSpread(ctx context.Context, spread models.PoolSpread) error {
	ctx, cancel := r.pg.opContext(ctx)
	defer cancel()

	const query = `
INSERT INTO pool_spreads (season, week, game_id, spread, updated_at)
VALUES (:season, :week, :game_id, :spread, :updated_at)
ON CONFLICT (season, week, game_id)
DO UPDATE SET
    spread = EXCLUDED.spread,
    updated_at = EXCLUDED.updated_at`

	spread.UpdatedAt = time.Now().UTC()
	if _, err := r.pg.db.NamedExecContext(ctx, query, spread); err != nil {
		return errors.Wrapf(err, "upsert pool spread %s", spread.GameID)
	}
	return nil
}

func (r *PostgresLinesRepository) GetPoolSpreads(ctx context.Context, season, week int) ([]models.PoolSpread, error) {
	ctx, cancel := r.pg.opContext(ctx)
	defer cancel()

	const query = `
SELECT season, week, game_id, spread, updated_at
FROM pool_spreads
WHERE season = $1
  AND week = $2
ORDER BY game_id`

	spreads := []models.PoolSpread{}
	if err := r.pg.db.SelectContext(ctx, &spreads, query, season, week); err != nil {
		return nil, errors.Wrap(err, "get pool spreads")
	}
	return spreads, nil
}

// SaveResults upserts final scores
func (r *PostgresLinesRepository) SaveResults(ctx context.Context, results []models.GameResult) error {
	ctx, cancel := r.pg.opContext(ctx)
	defer cancel()

	const query = `
INSERT INTO game_results (season, week, game_id, away_score, home_score, updated_at)
VALUES (:season, :week, :game_id, :away_score, :home_score, :updated_at)
ON CONFLICT (game_id)
DO UPDATE SET
    away_score = EXCLUDED.away_score,
    home_score = EXCLUDED.home_score,
    updated_at = EXCLUDED.updated_at`

	now := time.Now().UTC()
	return r.pg.withTx(ctx, func(tx *sqlx.Tx) error {
		for _, res := range results {
			res.UpdatedAt = now
			if _, err := tx.NamedExecContext(ctx, query, res); err != nil {
				return errors.Wrapf(err, "upsert result %s", res.GameID)
			}
		}
		return nil
	})
}

func (r *PostgresLinesRepository) GetResults(ctx context.Context, season, week int) ([]models.GameResult, error) {
	ctx, cancel := r.pg.opContext(ctx)
	defer cancel()

	const query = `
SELECT season, week, game_id, away_score, home_score, updated_at
FROM game_results
WHERE season = $1
  AND week = $2
ORDER BY game_id`

	results := []models.GameResult{}
	if err := r.pg.db.SelectContext(ctx, &results, query, season, week); err != nil {
		return nil, errors.Wrap(err, "get results")
	}
	return results, nil
}
