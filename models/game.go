package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// Game represents one NFL matchup as the pool sees it. SpreadLine is
// home-relative (negative favors the home team) and Result is the
// home-minus-away final margin, nil until the game is complete.
type Game struct {
	ID         string     `json:"game_id" bson:"game_id"`
	Season     int        `json:"season" bson:"season"`
	Week       int        `json:"week" bson:"week"`
	Away       string     `json:"away_team" bson:"away_team"`
	Home       string     `json:"home_team" bson:"home_team"`
	SpreadLine *float64   `json:"spread_line,omitempty" bson:"spread_line,omitempty"`
	TotalLine  *float64   `json:"total_line,omitempty" bson:"total_line,omitempty"`
	Result     *float64   `json:"result,omitempty" bson:"result,omitempty"`
	Kickoff    *time.Time `json:"kickoff,omitempty" bson:"kickoff,omitempty"`
	IsMNF      bool       `json:"is_mnf" bson:"-"`
}

// GameID builds the pool's game key: {season}_{week}_{away}_{home}
func GameID(season, week int, away, home string) string {
	return fmt.Sprintf("%d_%02d_%s_%s", season, week, away, home)
}

// ParseGameID splits a game key back into its parts. Week may be zero
// padded or not.
func ParseGameID(id string) (season, week int, away, home string, err error) {
	parts := strings.Split(id, "_")
	if len(parts) != 4 {
		return 0, 0, "", "", errors.Wrapf(ErrInvalidGameID, "%q", id)
	}
	season, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, "", "", errors.Wrapf(ErrInvalidGameID, "%q: bad season", id)
	}
	week, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, "", "", errors.Wrapf(ErrInvalidGameID, "%q: bad week", id)
	}
	if parts[2] == "" || parts[3] == "" {
		return 0, 0, "", "", errors.Wrapf(ErrInvalidGameID, "%q: missing team", id)
	}
	return season, week, parts[2], parts[3], nil
}

// NewGameFromID builds a game shell (no lines, no result) from its key
func NewGameFromID(id string) (Game, error) {
	season, week, away, home, err := ParseGameID(id)
	if err != nil {
		return Game{}, err
	}
	return Game{ID: id, Season: season, Week: week, Away: away, Home: home}, nil
}

// HasTeam reports whether team plays in this game
func (g *Game) HasTeam(team string) bool {
	return team == g.Away || team == g.Home
}

// Opponent returns the other team in the game
func (g *Game) Opponent(team string) string {
	if team == g.Away {
		return g.Home
	}
	return g.Away
}

// IsFinal returns true once a result has been recorded
func (g *Game) IsFinal() bool {
	return g.Result != nil
}

// HasSpread returns true if a spread line is available
func (g *Game) HasSpread() bool {
	return g.SpreadLine != nil
}

// Winner returns the team that won outright, or empty on a tie or before
// the game is final
func (g *Game) Winner() string {
	if !g.IsFinal() {
		return ""
	}
	switch {
	case *g.Result > 0:
		return g.Home
	case *g.Result < 0:
		return g.Away
	}
	return ""
}

// TeamSpread returns the spread from the given team's point of view
func (g *Game) TeamSpread(team string) (float64, bool) {
	if !g.HasSpread() {
		return 0, false
	}
	if team == g.Away {
		return -*g.SpreadLine, true
	}
	return *g.SpreadLine, true
}

// FormatHomeSpread returns the spread formatted for the home team
func (g *Game) FormatHomeSpread() string {
	if !g.HasSpread() {
		return ""
	}
	return FormatSpread(*g.SpreadLine)
}

// FormatAwaySpread returns the spread formatted for the away team
func (g *Game) FormatAwaySpread() string {
	if !g.HasSpread() {
		return ""
	}
	return FormatSpread(-*g.SpreadLine)
}

// Matchup returns "AWAY at HOME"
func (g *Game) Matchup() string {
	return g.Away + " at " + g.Home
}

// FormatSpread renders a spread the way sportsbooks print it
func FormatSpread(spread float64) string {
	switch {
	case spread > 0:
		return fmt.Sprintf("+%.1f", spread)
	case spread < 0:
		return fmt.Sprintf("%.1f", spread)
	}
	return "PK"
}

// RoundToHalf rounds a line to the nearest 0.5 increment
func RoundToHalf(val float64) float64 {
	if val < 0 {
		return -RoundToHalf(-val)
	}
	return float64(int(val*2+0.5)) / 2
}

// Float returns a pointer to v, for optional line fields
func Float(v float64) *float64 {
	return &v
}
