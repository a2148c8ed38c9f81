package services

import (
	"context"
	"sort"

	"no-homers/database"
	"no-homers/logging"
	"no-homers/models"

	"github.com/cockroachdb/errors"
)

// LinesService assembles a week's games from market lines, pool spreads and
// results, and manages the pool's spread overrides
type LinesService struct {
	lines  database.LinesRepository
	logger *logging.Logger
}

func NewLinesService(lines database.LinesRepository) *LinesService {
	return &LinesService{
		lines:  lines,
		logger: logging.WithPrefix("LinesService"),
	}
}

// WeekGames returns the week's games in kickoff order with effective
// spreads. The last game is flagged as the Monday night game.
func (s *LinesService) WeekGames(ctx context.Context, season, week int) ([]models.Game, error) {
	market, err := s.lines.GetMarketLines(ctx, season, week)
	if err != nil {
		return nil, err
	}
	pools, err := s.lines.GetPoolSpreads(ctx, season, week)
	if err != nil {
		return nil, err
	}
	results, err := s.lines.GetResults(ctx, season, week)
	if err != nil {
		return nil, err
	}
	return models.BuildWeekGames(market, pools, results)
}

// GetGame finds one game of the week
func (s *LinesService) GetGame(ctx context.Context, season, week int, gameID string) (models.Game, error) {
	games, err := s.WeekGames(ctx, season, week)
	if err != nil {
		return models.Game{}, err
	}
	for _, g := range games {
		if g.ID == gameID {
			return g, nil
		}
	}
	return models.Game{}, errors.Wrapf(models.ErrGameNotFound, "%s", gameID)
}

// GameLines is the combined market/pool view for the week
func (s *LinesService) GameLines(ctx context.Context, season, week int) ([]models.GameLines, error) {
	market, err := s.lines.GetMarketLines(ctx, season, week)
	if err != nil {
		return nil, err
	}
	pools, err := s.lines.GetPoolSpreads(ctx, season, week)
	if err != nil {
		return nil, err
	}
	return models.BuildGameLines(market, pools), nil
}

// SaveMarketLines replaces the week's market lines
func (s *LinesService) SaveMarketLines(ctx context.Context, season, week int, lines []models.MarketLine) error {
	for _, l := range lines {
		if err := checkGameWeek(season, week, l.GameID); err != nil {
			return err
		}
	}
	if err := s.lines.SaveMarketLines(ctx, season, week, lines); err != nil {
		return err
	}
	s.logger.Infof("Saved %d market lines for %d week %d", len(lines), season, week)
	return nil
}

// PoolSpreads returns the administrator overrides for the week
func (s *LinesService) PoolSpreads(ctx context.Context, season, week int) ([]models.PoolSpread, error) {
	return s.lines.GetPoolSpreads(ctx, season, week)
}

// SavePoolSpreads replaces every pool spread of the week. Spreads are
// rounded to the nearest half point.
func (s *LinesService) SavePoolSpreads(ctx context.Context, season, week int, spreads map[string]float64) error {
	gameIDs := make([]string, 0, len(spreads))
	for id := range spreads {
		if err := checkGameWeek(season, week, id); err != nil {
			return err
		}
		gameIDs = append(gameIDs, id)
	}
	sort.Strings(gameIDs)

	rows := make([]models.PoolSpread, 0, len(gameIDs))
	for _, id := range gameIDs {
		rows = append(rows, models.PoolSpread{
			Season: season,
			Week:   week,
			GameID: id,
			Spread: models.RoundToHalf(spreads[id]),
		})
	}
	if err := s.lines.SavePoolSpreads(ctx, season, week, rows); err != nil {
		return err
	}
	s.logger.Infof("Saved %d pool spreads for %d week %d", len(rows), season, week)
	return nil
}

// UpdatePoolSpread sets one game's pool spread
func (s *LinesService) UpdatePoolSpread(ctx context.Context, season, week int, gameID string, spread float64) (models.PoolSpread, error) {
	if err := checkGameWeek(season, week, gameID); err != nil {
		return models.PoolSpread{}, err
	}
	row := models.PoolSpread{
		Season: season,
		Week:   week,
		GameID: gameID,
		Spread: models.RoundToHalf(spread),
	}
	if err := s.lines.UpdatePoolSpread(ctx, row); err != nil {
		return models.PoolSpread{}, err
	}
	s.logger.Infof("Pool spread for %s set to %s", gameID, models.FormatSpread(row.Spread))
	return row, nil
}

func (s *LinesService) AvailableWeeks(ctx context.Context, season int) ([]int, error) {
	return s.lines.AvailableWeeks(ctx, season)
}

func (s *LinesService) MaxWeek(ctx context.Context, season int) (int, bool, error) {
	return s.lines.MaxWeek(ctx, season)
}

// Rankings orders the week's games for survivor and underdog picking
func (s *LinesService) Rankings(ctx context.Context, season, week int) (models.Rankings, error) {
	games, err := s.WeekGames(ctx, season, week)
	if err != nil {
		return models.Rankings{}, err
	}
	return models.RankBySpread(games), nil
}

// checkGameWeek rejects game ids that do not parse or belong to another week
func checkGameWeek(season, week int, gameID string) error {
	gs, gw, _, _, err := models.ParseGameID(gameID)
	if err != nil {
		return err
	}
	if gs != season || gw != week {
		return errors.Wrapf(models.ErrWeekMismatch, "%s is not in %d week %d", gameID, season, week)
	}
	return nil
}
