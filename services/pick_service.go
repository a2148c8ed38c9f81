package services

import (
	"context"
	"sort"

	"no-homers/database"
	"no-homers/logging"
	"no-homers/models"

	"github.com/cockroachdb/errors"
)

// PickService handles business logic for picks
type PickService struct {
	picks  database.PickRepository
	lines  *LinesService
	drafts *DraftStore
	logger *logging.Logger
}

// NewPickService creates a new pick service
func NewPickService(picks database.PickRepository, lines *LinesService, drafts *DraftStore) *PickService {
	if drafts == nil {
		drafts = NewDraftStore()
	}
	return &PickService{
		picks:  picks,
		lines:  lines,
		drafts: drafts,
		logger: logging.WithPrefix("PickService"),
	}
}

// LoadPickSet rebuilds a picker's saved set for the week. Rows that no
// longer parse or do not fit the set are logged and left out.
func (s *PickService) LoadPickSet(ctx context.Context, picker string, season, week int) (models.PickSet, error) {
	rows, err := s.picks.FindByPickerAndWeek(ctx, picker, season, week)
	if err != nil {
		return models.PickSet{}, errors.Wrap(err, "failed to load picks")
	}
	set, dropped := models.PickSetFromRecords(season, week, picker, s.records(rows))
	for _, rec := range dropped {
		s.logger.Warnf("Ignoring stored %s pick %s/%s for %s: does not fit the pick set", rec.Kind, rec.GameID, rec.Team, picker)
	}
	return set, nil
}

func (s *PickService) records(rows []models.Pick) []models.PickRecord {
	records := make([]models.PickRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := row.Record()
		if err != nil {
			s.logger.Warnf("Skipping pick %s/%s for %s: %v", row.GameID, row.TeamPicked, row.Picker, err)
			continue
		}
		records = append(records, rec)
	}
	return records
}

// GetDraft returns the picker's working set, starting from the saved picks
// when nothing has been clicked yet
func (s *PickService) GetDraft(ctx context.Context, picker string, season, week int) (models.PickSet, error) {
	if set, ok := s.drafts.Get(picker, season, week); ok {
		return set, nil
	}
	return s.LoadPickSet(ctx, picker, season, week)
}

// Click applies one click of the given kind to the picker's draft. A
// rejected click leaves the draft as it was.
func (s *PickService) Click(ctx context.Context, picker string, season, week int, gameID, team string, kind models.PickKind) (models.PickSet, error) {
	if picker == "" {
		return models.PickSet{}, models.ErrNoPicker
	}
	team, err := models.StandardizeTeam(team)
	if err != nil {
		return models.PickSet{}, err
	}
	game, err := s.lines.GetGame(ctx, season, week, gameID)
	if err != nil {
		return models.PickSet{}, err
	}

	var spread *float64
	if v, ok := game.TeamSpread(team); ok {
		spread = &v
	}

	load := func() (models.PickSet, error) {
		return s.LoadPickSet(ctx, picker, season, week)
	}
	apply := func(set models.PickSet) (models.PickSet, error) {
		switch kind {
		case models.PickKindRegular, models.PickKindBestBet:
			return set.ClickSpread(game, team, spread)
		case models.PickKindSurvivor:
			return set.ClickSurvivor(game, team, spread)
		case models.PickKindUnderdog:
			return set.ClickUnderdog(game, team, spread)
		case models.PickKindMNF:
			return set.ClickMNF(game, team, spread)
		}
		return set, errors.Wrapf(models.ErrUnknownPickKind, "%q", kind)
	}

	set, err := s.drafts.Update(picker, season, week, load, apply)
	if err != nil {
		s.logger.Debugf("Click on %s %s (%s) by %s rejected: %v", gameID, team, kind, picker, err)
		return set, err
	}
	return set, nil
}

// Save replaces the picker's stored picks for the week with the draft
func (s *PickService) Save(ctx context.Context, picker string, season, week int) (models.PickSet, error) {
	set, err := s.GetDraft(ctx, picker, season, week)
	if err != nil {
		return models.PickSet{}, err
	}
	if err := s.saveSet(ctx, set); err != nil {
		return set, err
	}
	s.drafts.Delete(picker, season, week)
	return set, nil
}

// Submit validates a complete set of records by replaying them as clicks on
// an empty set and saves the result
func (s *PickService) Submit(ctx context.Context, picker string, season, week int, records []models.PickRecord) (models.PickSet, error) {
	if picker == "" {
		return models.PickSet{}, models.ErrNoPicker
	}
	games, err := s.lines.WeekGames(ctx, season, week)
	if err != nil {
		return models.PickSet{}, err
	}
	byID := make(map[string]models.Game, len(games))
	for _, g := range games {
		byID[g.ID] = g
	}

	set := models.NewPickSet(season, week, picker)
	for _, rec := range records {
		game, ok := byID[rec.GameID]
		if !ok {
			return models.PickSet{}, errors.Wrapf(models.ErrGameNotFound, "%s", rec.GameID)
		}
		team, err := models.StandardizeTeam(rec.Team)
		if err != nil {
			return models.PickSet{}, err
		}
		var spread *float64
		if v, ok := game.TeamSpread(team); ok {
			spread = &v
		}

		if rec.Kind.IsSpreadPick() || rec.Kind == "" {
			if set.Selection(game.ID) != nil {
				return models.PickSet{}, errors.Wrapf(models.ErrOtherSidePicked, "%s picked twice", game.ID)
			}
		}

		switch rec.Kind {
		case models.PickKindRegular, "":
			set, err = set.ClickSpread(game, team, spread)
		case models.PickKindBestBet:
			set, err = set.ClickSpread(game, team, spread)
			if err == nil {
				set, err = set.ClickSpread(game, team, spread)
			}
		case models.PickKindSurvivor:
			set, err = set.ClickSurvivor(game, team, spread)
		case models.PickKindUnderdog:
			set, err = set.ClickUnderdog(game, team, spread)
		case models.PickKindMNF:
			set, err = set.ClickMNF(game, team, spread)
		default:
			err = errors.Wrapf(models.ErrUnknownPickKind, "%q", rec.Kind)
		}
		if err != nil {
			return models.PickSet{}, err
		}
	}

	if err := s.saveSet(ctx, set); err != nil {
		return set, err
	}
	s.drafts.Delete(picker, season, week)
	return set, nil
}

func (s *PickService) saveSet(ctx context.Context, set models.PickSet) error {
	if err := models.ValidateForSave(set); err != nil {
		return err
	}
	if err := s.picks.ReplacePicks(ctx, set.Picker(), set.Season(), set.Week(), set.Picks()); err != nil {
		return errors.Wrap(err, "failed to save picks")
	}
	s.logger.Infof("Saved %d picks for %s, %d week %d", set.Len(), set.Picker(), set.Season(), set.Week())
	return nil
}

// Reset discards the draft and returns the saved set
func (s *PickService) Reset(ctx context.Context, picker string, season, week int) (models.PickSet, error) {
	s.drafts.Delete(picker, season, week)
	return s.LoadPickSet(ctx, picker, season, week)
}

// DeletePicks removes the picker's saved picks for the week along with any
// draft
func (s *PickService) DeletePicks(ctx context.Context, picker string, season, week int) (int, error) {
	s.drafts.Delete(picker, season, week)
	n, err := s.picks.DeletePicks(ctx, picker, season, week)
	if err != nil {
		return 0, errors.Wrap(err, "failed to delete picks")
	}
	s.logger.Infof("Deleted %d picks for %s, %d week %d", n, picker, season, week)
	return n, nil
}

// WeekSummary aggregates every picker's saved picks for the week
func (s *PickService) WeekSummary(ctx context.Context, season, week int) (models.WeekSummary, error) {
	games, err := s.lines.WeekGames(ctx, season, week)
	if err != nil {
		return models.WeekSummary{}, err
	}
	picks, err := s.picks.FindByWeek(ctx, season, week)
	if err != nil {
		return models.WeekSummary{}, errors.Wrap(err, "failed to load week picks")
	}
	return models.BuildWeekSummary(season, week, games, picks), nil
}

// UsedTeam is a survivor pick made in an earlier week
type UsedTeam struct {
	Week int    `json:"week"`
	Team string `json:"team"`
}

// SurvivorUsedTeams lists the picker's saved survivor picks for weeks
// before the given one
func (s *PickService) SurvivorUsedTeams(ctx context.Context, picker string, season, beforeWeek int) ([]UsedTeam, error) {
	rows, err := s.picks.FindByPickerAndSeason(ctx, picker, season)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load season picks")
	}

	used := []UsedTeam{}
	for _, row := range rows {
		if row.Week >= beforeWeek {
			continue
		}
		rec, err := row.Record()
		if err != nil || rec.Kind != models.PickKindSurvivor {
			continue
		}
		used = append(used, UsedTeam{Week: row.Week, Team: rec.Team})
	}
	sort.Slice(used, func(i, j int) bool { return used[i].Week < used[j].Week })
	return used, nil
}

// Stats describes the saved picks
func (s *PickService) Stats(ctx context.Context) (models.DatabaseStats, error) {
	return s.picks.Stats(ctx)
}

// OpenDrafts counts pickers with unsaved changes
func (s *PickService) OpenDrafts() int {
	return s.drafts.Len()
}
