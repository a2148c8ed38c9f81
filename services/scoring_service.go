package services

import (
	"context"

	"no-homers/database"
	"no-homers/logging"
	"no-homers/models"

	"github.com/cockroachdb/errors"
)

// ScoringService grades saved picks against final results
type ScoringService struct {
	picks  database.PickRepository
	lines  *LinesService
	logger *logging.Logger
}

// NewScoringService creates a new scoring service
func NewScoringService(picks database.PickRepository, lines *LinesService) *ScoringService {
	return &ScoringService{
		picks:  picks,
		lines:  lines,
		logger: logging.WithPrefix("ScoringService"),
	}
}

// ScoreWeek grades every saved pick of the week. Picks on games without a
// final score or a spread are reported as pending.
func (s *ScoringService) ScoreWeek(ctx context.Context, season, week int) (models.WeeklyScore, error) {
	games, err := s.lines.WeekGames(ctx, season, week)
	if err != nil {
		return models.WeeklyScore{}, err
	}
	picks, err := s.picks.FindByWeek(ctx, season, week)
	if err != nil {
		return models.WeeklyScore{}, errors.Wrap(err, "failed to load week picks")
	}
	return gradeWeek(season, week, games, picks, s.logger), nil
}

func gradeWeek(season, week int, games []models.Game, picks []models.Pick, logger *logging.Logger) models.WeeklyScore {
	byID := make(map[string]models.Game, len(games))
	for _, g := range games {
		byID[g.ID] = g
	}

	weekly := models.WeeklyScore{
		Season: season,
		Week:   week,
		Picks:  []models.ScoredPick{},
	}
	totals := make(map[string]*models.PickerScore)
	var order []string

	for _, p := range picks {
		rec, err := p.Record()
		if err != nil {
			logger.Warnf("Cannot grade pick %s/%s for %s: %v", p.GameID, p.TeamPicked, p.Picker, err)
			continue
		}

		scored := models.ScoredPick{Pick: p, Kind: rec.Kind}
		game, ok := byID[rec.GameID]
		if !ok {
			scored.Pending = true
		} else {
			score, err := models.Score(rec, game)
			switch {
			case err == nil:
				scored.Score = score
			case errors.Is(err, models.ErrGameNotFinal), errors.Is(err, models.ErrNoSpread):
				scored.Pending = true
			default:
				logger.Warnf("Cannot grade pick %s/%s for %s: %v", p.GameID, p.TeamPicked, p.Picker, err)
				continue
			}
		}

		weekly.Picks = append(weekly.Picks, scored)
		total, ok := totals[p.Picker]
		if !ok {
			total = &models.PickerScore{Picker: p.Picker}
			totals[p.Picker] = total
			order = append(order, p.Picker)
		}
		total.Add(scored)
	}

	weekly.Pickers = make([]models.PickerScore, 0, len(order))
	for _, picker := range order {
		weekly.Pickers = append(weekly.Pickers, *totals[picker])
	}
	models.SortPickerScores(weekly.Pickers)
	return weekly
}

// SeasonLeaderboard totals every week that has lines
func (s *ScoringService) SeasonLeaderboard(ctx context.Context, season int) (models.Leaderboard, error) {
	weeks, err := s.lines.AvailableWeeks(ctx, season)
	if err != nil {
		return models.Leaderboard{}, err
	}

	board := models.Leaderboard{Season: season, Weeks: weeks, Pickers: []models.PickerScore{}}
	totals := make(map[string]*models.PickerScore)
	var order []string

	for _, week := range weeks {
		weekly, err := s.ScoreWeek(ctx, season, week)
		if err != nil {
			return models.Leaderboard{}, errors.Wrapf(err, "score week %d", week)
		}
		for _, ps := range weekly.Pickers {
			total, ok := totals[ps.Picker]
			if !ok {
				total = &models.PickerScore{Picker: ps.Picker}
				totals[ps.Picker] = total
				order = append(order, ps.Picker)
			}
			total.Merge(ps)
		}
	}

	for _, picker := range order {
		board.Pickers = append(board.Pickers, *totals[picker])
	}
	models.SortPickerScores(board.Pickers)
	s.logger.Debugf("Leaderboard for %d covers %d weeks and %d pickers", season, len(weeks), len(board.Pickers))
	return board, nil
}

// PickerWeek returns one picker's graded picks for the week
func (s *ScoringService) PickerWeek(ctx context.Context, picker string, season, week int) (models.PickerScore, []models.ScoredPick, error) {
	weekly, err := s.ScoreWeek(ctx, season, week)
	if err != nil {
		return models.PickerScore{}, nil, err
	}
	score := models.PickerScore{Picker: picker}
	picks := []models.ScoredPick{}
	for _, p := range weekly.Picks {
		if p.Picker == picker {
			picks = append(picks, p)
			score.Add(p)
		}
	}
	return score, picks, nil
}
