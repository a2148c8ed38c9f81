package services

import (
	"context"
	"encoding/csv"
	"io"
	"sort"
	"strconv"
	"strings"

	"no-homers/database"
	"no-homers/logging"
	"no-homers/models"

	"github.com/cockroachdb/errors"
)

// legacyColumns are the headers of a picks table export
var legacyColumns = []string{"season", "week", "game_id", "team_picked", "pick_type", "spread", "picker"}

// LegacyImportService loads picks exported from the old pick sheets
type LegacyImportService struct {
	picks  database.PickRepository
	logger *logging.Logger
}

// NewLegacyImportService creates a new legacy import service
func NewLegacyImportService(picks database.PickRepository) *LegacyImportService {
	return &LegacyImportService{
		picks:  picks,
		logger: logging.WithPrefix("LegacyImport"),
	}
}

// LegacyImportSummary reports what an import did
type LegacyImportSummary struct {
	Rows     int `json:"rows"`
	Skipped  int `json:"skipped"`
	Weeks    int `json:"weeks"`
	Rejected int `json:"rejected"`
}

type legacyKey struct {
	picker string
	season int
	week   int
}

// ImportPicksCSV reads a picks export and replaces each picker's week with
// the rows found for it. Rows are normalized the way stored rows are read:
// legacy side-pool keys are unfolded and team codes standardized. Rows that
// cannot be normalized are skipped. A picker week that breaks the pick set
// rules (over the cap, both sides of a game, a filled side-pool slot, a team
// outside its game) is logged and left out whole.
func (s *LegacyImportService) ImportPicksCSV(ctx context.Context, r io.Reader) (*LegacyImportSummary, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(err, "read header")
	}
	index, err := legacyIndex(header)
	if err != nil {
		return nil, err
	}

	summary := &LegacyImportSummary{}
	groups := make(map[legacyKey][]models.PickRecord)
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		summary.Rows++

		key, rec, err := legacyPick(record, index)
		if err != nil {
			s.logger.Warnf("Skipping line %d: %v", line, err)
			summary.Skipped++
			continue
		}
		groups[key] = append(groups[key], rec)
	}

	keys := make([]legacyKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].season != keys[j].season {
			return keys[i].season < keys[j].season
		}
		if keys[i].week != keys[j].week {
			return keys[i].week < keys[j].week
		}
		return keys[i].picker < keys[j].picker
	})

	for _, k := range keys {
		set, dropped := models.PickSetFromRecords(k.season, k.week, k.picker, groups[k])
		if len(dropped) > 0 {
			s.logger.Warnf("Rejecting %s %d week %d: %d of %d picks break the pick set rules (first %s/%s %s)",
				k.picker, k.season, k.week, len(dropped), len(groups[k]), dropped[0].GameID, dropped[0].Team, dropped[0].Kind)
			summary.Rejected++
			continue
		}
		if err := models.ValidateForSave(set); err != nil {
			s.logger.Warnf("Rejecting %s %d week %d: %v", k.picker, k.season, k.week, err)
			summary.Rejected++
			continue
		}
		if err := s.picks.ReplacePicks(ctx, k.picker, k.season, k.week, set.Picks()); err != nil {
			return summary, errors.Wrapf(err, "save %s %d week %d", k.picker, k.season, k.week)
		}
		summary.Weeks++
	}

	s.logger.Infof("Imported %d picker weeks from %d rows, skipped %d rows, rejected %d weeks",
		summary.Weeks, summary.Rows, summary.Skipped, summary.Rejected)
	return summary, nil
}

func legacyIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range legacyColumns {
		if col == "spread" || col == "pick_type" {
			continue
		}
		if _, ok := index[col]; !ok {
			return nil, errors.Newf("missing column %q", col)
		}
	}
	return index, nil
}

func legacyPick(record []string, index map[string]int) (legacyKey, models.PickRecord, error) {
	field := func(name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	season, err := strconv.Atoi(field("season"))
	if err != nil {
		return legacyKey{}, models.PickRecord{}, errors.Wrapf(err, "season")
	}
	week, err := strconv.Atoi(field("week"))
	if err != nil {
		return legacyKey{}, models.PickRecord{}, errors.Wrapf(err, "week")
	}
	picker := strings.ToUpper(field("picker"))
	if picker == "" {
		return legacyKey{}, models.PickRecord{}, models.ErrNoPicker
	}

	raw := models.Pick{
		Season:     season,
		Week:       week,
		GameID:     field("game_id"),
		TeamPicked: field("team_picked"),
		PickType:   field("pick_type"),
		Picker:     picker,
	}
	if v := field("spread"); v != "" {
		spread, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return legacyKey{}, models.PickRecord{}, errors.Wrapf(err, "spread")
		}
		raw.Spread = &spread
	}

	rec, err := raw.Record()
	if err != nil {
		return legacyKey{}, models.PickRecord{}, err
	}
	gs, gw, away, home, err := models.ParseGameID(rec.GameID)
	if err != nil {
		return legacyKey{}, models.PickRecord{}, err
	}
	if gs != season || gw != week {
		return legacyKey{}, models.PickRecord{}, errors.Wrapf(models.ErrWeekMismatch, "%s", rec.GameID)
	}
	if away, err = models.StandardizeTeam(away); err != nil {
		return legacyKey{}, models.PickRecord{}, err
	}
	if home, err = models.StandardizeTeam(home); err != nil {
		return legacyKey{}, models.PickRecord{}, err
	}
	rec.GameID = models.GameID(gs, gw, away, home)
	return legacyKey{picker, season, week}, rec, nil
}
