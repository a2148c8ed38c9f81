package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"no-homers/logging"
	"no-homers/models"

	"github.com/cockroachdb/errors"
)

const (
	defaultScoreboardURL = "https://site.api.espn.com/apis/site/v2/sports/football/nfl/scoreboard"
	defaultOddsURL       = "https://sports.core.api.espn.com/v2/sports/football/leagues/nfl/events"
)

// ESPNService handles ESPN API interactions
type ESPNService struct {
	client  *http.Client
	baseURL string
	oddsURL string
	logger  *logging.Logger
}

// NewESPNService creates a new ESPN service. An empty baseURL uses the public
// scoreboard.
func NewESPNService(baseURL string) *ESPNService {
	if baseURL == "" {
		baseURL = defaultScoreboardURL
	}
	return &ESPNService{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		oddsURL: defaultOddsURL,
		logger:  logging.WithPrefix("ESPN"),
	}
}

// WithOddsURL points odds lookups at another host
func (e *ESPNService) WithOddsURL(oddsURL string) *ESPNService {
	e.oddsURL = strings.TrimRight(oddsURL, "/")
	return e
}

// ESPN API response structures
type ESPNResponse struct {
	Events []ESPNEvent `json:"events"`
}

type ESPNEvent struct {
	ID           string            `json:"id"`
	Date         string            `json:"date"`
	Week         ESPNWeek          `json:"week"`
	Season       ESPNSeason        `json:"season"`
	Status       ESPNStatus        `json:"status"`
	Competitions []ESPNCompetition `json:"competitions"`
}

type ESPNSeason struct {
	Year int `json:"year"`
	Type int `json:"type"`
}

type ESPNWeek struct {
	Number int `json:"number"`
}

type ESPNStatus struct {
	Type ESPNStatusType `json:"type"`
}

type ESPNStatusType struct {
	Name      string `json:"name"`
	State     string `json:"state"`
	Completed bool   `json:"completed"`
}

type ESPNCompetition struct {
	Competitors []ESPNCompetitor `json:"competitors"`
	Odds        []ESPNOddsItem   `json:"odds,omitempty"`
}

type ESPNCompetitor struct {
	HomeAway string   `json:"homeAway"`
	Score    string   `json:"score"`
	Team     ESPNTeam `json:"team"`
}

type ESPNTeam struct {
	Abbreviation string `json:"abbreviation"`
}

// ESPN Odds API response structures
type ESPNOddsResponse struct {
	Items []ESPNOddsItem `json:"items"`
}

type ESPNOddsItem struct {
	Provider  ESPNProvider `json:"provider"`
	Details   string       `json:"details"`
	OverUnder float64      `json:"overUnder"`
	Spread    float64      `json:"spread"`
}

type ESPNProvider struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// WeekFeed is what one scoreboard fetch yields for the pool
type WeekFeed struct {
	Season  int
	Week    int
	Lines   []models.MarketLine
	Results []models.GameResult
}

// FetchWeek pulls a regular-season week's games, lines and final scores
func (e *ESPNService) FetchWeek(ctx context.Context, season, week int) (*WeekFeed, error) {
	url := fmt.Sprintf("%s?seasontype=2&week=%d&dates=%d&limit=100", e.baseURL, week, season)

	var resp ESPNResponse
	if err := e.getJSON(ctx, url, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to fetch ESPN scoreboard")
	}
	e.logger.Debugf("Received %d events for %d week %d", len(resp.Events), season, week)

	feed := &WeekFeed{Season: season, Week: week}
	for _, event := range resp.Events {
		// Only include regular season games (type 2)
		if event.Season.Type != 0 && event.Season.Type != 2 {
			continue
		}
		if len(event.Competitions) == 0 || len(event.Competitions[0].Competitors) < 2 {
			continue
		}

		line, result, err := e.convertEvent(ctx, season, week, event)
		if err != nil {
			e.logger.Warnf("Skipping event %s: %v", event.ID, err)
			continue
		}
		feed.Lines = append(feed.Lines, line)
		if result != nil {
			feed.Results = append(feed.Results, *result)
		}
	}

	models.SortMarketLines(feed.Lines)
	e.logger.Infof("Converted %d lines and %d results for %d week %d", len(feed.Lines), len(feed.Results), season, week)
	return feed, nil
}

// convertEvent converts a single ESPN event to a market line and, once the
// game is over, its result
func (e *ESPNService) convertEvent(ctx context.Context, season, week int, event ESPNEvent) (models.MarketLine, *models.GameResult, error) {
	competition := event.Competitions[0]

	var homeTeam, awayTeam string
	var homeScore, awayScore int
	for _, competitor := range competition.Competitors {
		team, err := models.StandardizeTeam(competitor.Team.Abbreviation)
		if err != nil {
			return models.MarketLine{}, nil, err
		}
		score, _ := strconv.Atoi(competitor.Score)

		if competitor.HomeAway == "home" {
			homeTeam, homeScore = team, score
		} else {
			awayTeam, awayScore = team, score
		}
	}
	if homeTeam == "" || awayTeam == "" {
		return models.MarketLine{}, nil, errors.New("missing home or away competitor")
	}

	gameID := models.GameID(season, week, awayTeam, homeTeam)
	line := models.MarketLine{
		Season: season,
		Week:   week,
		GameID: gameID,
	}
	if kickoff, ok := parseESPNDate(event.Date); ok {
		line.Kickoff = &kickoff
	}

	odds := competition.Odds
	if len(odds) == 0 && event.Status.Type.State == "pre" {
		fetched, err := e.GetOdds(ctx, event.ID)
		if err != nil {
			e.logger.Debugf("No odds for %s: %v", gameID, err)
		} else {
			odds = fetched
		}
	}
	if len(odds) > 0 {
		line.Spread = models.Float(odds[0].Spread)
		if odds[0].OverUnder > 0 {
			line.Total = models.Float(odds[0].OverUnder)
		}
	}

	var result *models.GameResult
	if event.Status.Type.Completed || strings.EqualFold(event.Status.Type.State, "post") {
		result = &models.GameResult{
			Season:    season,
			Week:      week,
			GameID:    gameID,
			AwayScore: awayScore,
			HomeScore: homeScore,
		}
	}
	return line, result, nil
}

// parseESPNDate accepts "2024-09-08T00:20Z" and the variant with seconds
func parseESPNDate(s string) (time.Time, bool) {
	for _, layout := range []string{"2006-01-02T15:04Z", "2006-01-02T15:04:05Z", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// GetOdds fetches betting odds for a specific game from ESPN
func (e *ESPNService) GetOdds(ctx context.Context, eventID string) ([]ESPNOddsItem, error) {
	url := fmt.Sprintf("%s/%s/competitions/%s/odds", e.oddsURL, eventID, eventID)

	var oddsResp ESPNOddsResponse
	if err := e.getJSON(ctx, url, &oddsResp); err != nil {
		return nil, errors.Wrap(err, "failed to fetch odds")
	}
	if len(oddsResp.Items) == 0 {
		return nil, errors.Newf("no odds available for event %s", eventID)
	}
	return oddsResp.Items, nil
}

// HealthCheck verifies ESPN API is accessible
func (e *ESPNService) HealthCheck(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, e.baseURL, nil)
	if err != nil {
		return false
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func (e *ESPNService) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Newf("ESPN API returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
