package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"no-homers/database"
	"no-homers/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const linesFile = `
season: 2024
week: 5
games:
  - away: BUF
    home: HST
    spread: -1
    total: 47.5
    kickoff: 2024-10-06T17:00:00Z
  - away: CLV
    home: WSH
    spread: -3
    away_score: 13
    home_score: 34
  - away: NO
    home: KC
`

func TestParseYAMLFeed(t *testing.T) {
	feed, err := ParseYAMLFeed(strings.NewReader(linesFile))
	require.NoError(t, err)
	assert.Equal(t, 2024, feed.Season)
	assert.Equal(t, 5, feed.Week)

	require.Len(t, feed.Lines, 3)
	assert.Equal(t, "2024_05_BUF_HOU", feed.Lines[0].GameID)
	assert.Equal(t, 47.5, *feed.Lines[0].Total)
	require.NotNil(t, feed.Lines[0].Kickoff)
	assert.Equal(t, 17, feed.Lines[0].Kickoff.Hour())
	assert.Equal(t, "2024_05_CLE_WAS", feed.Lines[1].GameID)
	assert.Nil(t, feed.Lines[2].Spread)

	require.Len(t, feed.Results, 1)
	assert.Equal(t, 21.0, feed.Results[0].Margin())
}

func TestParseYAMLFeedErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"no week", "season: 2024\ngames: []\n"},
		{"bad team", "season: 2024\nweek: 5\ngames:\n  - away: XXX\n    home: KC\n"},
		{"not yaml", "season: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseYAMLFeed(strings.NewReader(tt.doc))
			assert.Error(t, err)
		})
	}
}

type staticFeed struct {
	feed *WeekFeed
}

func (s staticFeed) FetchWeek(ctx context.Context, season, week int) (*WeekFeed, error) {
	return s.feed, nil
}

func TestLineImporterImport(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()

	feed, err := ParseYAMLFeed(strings.NewReader(linesFile))
	require.NoError(t, err)

	summary, err := NewLineImporter(staticFeed{feed}, store).Import(ctx, 2024, 5)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Lines)
	assert.Equal(t, 1, summary.Results)

	games, err := NewLinesService(store).WeekGames(ctx, 2024, 5)
	require.NoError(t, err)
	require.Len(t, games, 3)
	assert.True(t, games[len(games)-1].IsMNF)

	_, err = NewLineImporter(staticFeed{feed}, store).Import(ctx, 2024, 6)
	assert.True(t, errors.Is(err, models.ErrWeekMismatch))

	// an empty feed keeps what is stored
	empty := &WeekFeed{Season: 2024, Week: 5}
	summary, err = NewLineImporter(staticFeed{empty}, store).Import(ctx, 2024, 5)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Lines)
	lines, err := store.GetMarketLines(ctx, 2024, 5)
	require.NoError(t, err)
	assert.Len(t, lines, 3)
}

const kcGame = `{"events": [{
  "id": "401671800",
  "date": "2024-10-08T00:15Z",
  "season": {"year": 2024, "type": 2},
  "week": {"number": 5},
  "status": {"type": {"state": %q, "completed": %t}},
  "competitions": [{"competitors": [
    {"homeAway": "home", "score": "%d", "team": {"abbreviation": "KC"}},
    {"homeAway": "away", "score": "%d", "team": {"abbreviation": "NO"}}
  ]}]
}]}`

// espnWeek serves one NO at KC game whose state can be moved along
type espnWeek struct {
	mu   sync.Mutex
	body string
}

func (e *espnWeek) set(state string, completed bool, home, away int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.body = fmt.Sprintf(kcGame, state, completed, home, away)
}

func (e *espnWeek) server(t *testing.T) *ESPNService {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/scoreboard", func(w http.ResponseWriter, r *http.Request) {
		e.mu.Lock()
		defer e.mu.Unlock()
		_, _ = w.Write([]byte(e.body))
	})
	mux.HandleFunc("/events/401671800/competitions/401671800/odds", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items": [{"details": "KC -3.5", "overUnder": 44.5, "spread": -3.5}]}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return NewESPNService(srv.URL + "/scoreboard").WithOddsURL(srv.URL + "/events")
}

func TestImportKeepsLineThroughFinalAndGrades(t *testing.T) {
	tests := []struct {
		name      string
		kc, no    int
		kcRegular float64
		noRegular float64
		noDog     float64
	}{
		{name: "KC wins and covers", kc: 24, no: 10, kcRegular: 1, noRegular: 0, noDog: 0},
		{name: "KC wins without covering", kc: 21, no: 19, kcRegular: 0, noRegular: 1, noDog: 0},
		{name: "NO wins outright", kc: 19, no: 20, kcRegular: 0, noRegular: 1, noDog: 3.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := database.NewMemoryStore()
			lines := NewLinesService(store)
			picks := NewPickService(store, lines, nil)
			scoring := NewScoringService(store, lines)

			week := &espnWeek{}
			week.set("pre", false, 0, 0)
			importer := NewLineImporter(week.server(t), store)

			_, err := importer.Import(ctx, 2024, 5)
			require.NoError(t, err)

			_, err = picks.Submit(ctx, "GRIFF", 2024, 5, []models.PickRecord{
				{GameID: "2024_05_NO_KC", Team: "KC", Kind: models.PickKindRegular},
			})
			require.NoError(t, err)
			_, err = picks.Submit(ctx, "SAM", 2024, 5, []models.PickRecord{
				{GameID: "2024_05_NO_KC", Team: "NO", Kind: models.PickKindRegular},
				{GameID: "2024_05_NO_KC", Team: "NO", Kind: models.PickKindUnderdog},
			})
			require.NoError(t, err)

			week.set("post", true, tt.kc, tt.no)
			summary, err := importer.Import(ctx, 2024, 5)
			require.NoError(t, err)
			assert.Equal(t, 1, summary.Results)

			stored, err := store.GetMarketLines(ctx, 2024, 5)
			require.NoError(t, err)
			require.Len(t, stored, 1)
			require.NotNil(t, stored[0].Spread)
			assert.Equal(t, -3.5, *stored[0].Spread)
			assert.Equal(t, 44.5, *stored[0].Total)

			griff, _, err := scoring.PickerWeek(ctx, "GRIFF", 2024, 5)
			require.NoError(t, err)
			assert.Equal(t, 0, griff.Pending)
			assert.Equal(t, tt.kcRegular, griff.Total)

			_, graded, err := scoring.PickerWeek(ctx, "SAM", 2024, 5)
			require.NoError(t, err)
			require.Len(t, graded, 2)
			for _, p := range graded {
				assert.False(t, p.Pending)
				switch p.Kind {
				case models.PickKindRegular:
					assert.Equal(t, tt.noRegular, p.Score)
				case models.PickKindUnderdog:
					assert.Equal(t, tt.noDog, p.Score)
				}
			}
		})
	}
}
