package services

import (
	"context"
	"io"
	"os"
	"time"

	"no-homers/database"
	"no-homers/logging"
	"no-homers/models"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// FeedSource yields a week of lines and results
type FeedSource interface {
	FetchWeek(ctx context.Context, season, week int) (*WeekFeed, error)
}

// LineImporter writes fetched lines and results into the store
type LineImporter struct {
	source FeedSource
	lines  database.LinesRepository
	logger *logging.Logger
}

func NewLineImporter(source FeedSource, lines database.LinesRepository) *LineImporter {
	return &LineImporter{
		source: source,
		lines:  lines,
		logger: logging.WithPrefix("LineImporter"),
	}
}

// ImportSummary reports what an import wrote
type ImportSummary struct {
	Season  int `json:"season"`
	Week    int `json:"week"`
	Lines   int `json:"lines"`
	Results int `json:"results"`
}

// Import merges the week's market lines into what is stored and upserts any
// final results. Spreads and totals the feed no longer carries are kept. A
// feed with no games leaves stored lines untouched.
func (i *LineImporter) Import(ctx context.Context, season, week int) (*ImportSummary, error) {
	feed, err := i.source.FetchWeek(ctx, season, week)
	if err != nil {
		return nil, err
	}
	if feed.Season != season || feed.Week != week {
		return nil, errors.Wrapf(models.ErrWeekMismatch, "feed is %d week %d, wanted %d week %d",
			feed.Season, feed.Week, season, week)
	}

	summary := &ImportSummary{Season: season, Week: week}
	if len(feed.Lines) == 0 {
		i.logger.Warnf("No games in feed for %d week %d", season, week)
		return summary, nil
	}

	// in-progress and final games come back without odds
	stored, err := i.lines.GetMarketLines(ctx, season, week)
	if err != nil {
		return nil, errors.Wrap(err, "load stored market lines")
	}
	merged := models.MergeMarketLines(stored, feed.Lines)
	if err := i.lines.SaveMarketLines(ctx, season, week, merged); err != nil {
		return nil, errors.Wrap(err, "save market lines")
	}
	summary.Lines = len(feed.Lines)

	if len(feed.Results) > 0 {
		if err := i.lines.SaveResults(ctx, feed.Results); err != nil {
			return nil, errors.Wrap(err, "save results")
		}
		summary.Results = len(feed.Results)
	}

	i.logger.Infof("Imported %d lines and %d results for %d week %d", summary.Lines, summary.Results, season, week)
	return summary, nil
}

// yamlWeek is the hand-maintained lines file format
type yamlWeek struct {
	Season int        `yaml:"season"`
	Week   int        `yaml:"week"`
	Games  []yamlGame `yaml:"games"`
}

type yamlGame struct {
	Away      string     `yaml:"away"`
	Home      string     `yaml:"home"`
	Spread    *float64   `yaml:"spread"`
	Total     *float64   `yaml:"total"`
	Kickoff   *time.Time `yaml:"kickoff"`
	AwayScore *int       `yaml:"away_score"`
	HomeScore *int       `yaml:"home_score"`
}

// ParseYAMLFeed reads a week from the lines file format. Scores are
// optional and produce a result only when both are present.
func ParseYAMLFeed(r io.Reader) (*WeekFeed, error) {
	var doc yamlWeek
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "decode lines file")
	}
	if doc.Season == 0 || doc.Week == 0 {
		return nil, errors.New("lines file needs season and week")
	}

	feed := &WeekFeed{Season: doc.Season, Week: doc.Week}
	for n, g := range doc.Games {
		away, err := models.StandardizeTeam(g.Away)
		if err != nil {
			return nil, errors.Wrapf(err, "game %d away team", n+1)
		}
		home, err := models.StandardizeTeam(g.Home)
		if err != nil {
			return nil, errors.Wrapf(err, "game %d home team", n+1)
		}

		gameID := models.GameID(doc.Season, doc.Week, away, home)
		feed.Lines = append(feed.Lines, models.MarketLine{
			Season:  doc.Season,
			Week:    doc.Week,
			GameID:  gameID,
			Spread:  g.Spread,
			Total:   g.Total,
			Kickoff: g.Kickoff,
		})
		if g.AwayScore != nil && g.HomeScore != nil {
			feed.Results = append(feed.Results, models.GameResult{
				Season:    doc.Season,
				Week:      doc.Week,
				GameID:    gameID,
				AwayScore: *g.AwayScore,
				HomeScore: *g.HomeScore,
			})
		}
	}
	return feed, nil
}

// YAMLFileSource serves a week from a lines file on disk
type YAMLFileSource struct {
	Path string
}

func (s YAMLFileSource) FetchWeek(ctx context.Context, season, week int) (*WeekFeed, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, errors.Wrap(err, "open lines file")
	}
	defer f.Close()
	return ParseYAMLFeed(f)
}
