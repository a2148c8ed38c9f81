package models

import (
	"sort"
	"time"
)

// MarketLine is the sportsbook spread and total for a game
type MarketLine struct {
	Season    int        `json:"season" bson:"season" db:"season"`
	Week      int        `json:"week" bson:"week" db:"week"`
	GameID    string     `json:"game_id" bson:"game_id" db:"game_id"`
	Spread    *float64   `json:"spread" bson:"spread" db:"spread"`
	Total     *float64   `json:"total" bson:"total" db:"total"`
	Kickoff   *time.Time `json:"kickoff,omitempty" bson:"kickoff,omitempty" db:"kickoff"`
	UpdatedAt time.Time  `json:"updated_at" bson:"updated_at" db:"updated_at"`
}

// SortMarketLines orders a week's lines by kickoff, then game id. Lines
// without a kickoff sort last.
func SortMarketLines(lines []MarketLine) {
	sort.SliceStable(lines, func(i, j int) bool {
		a, b := lines[i].Kickoff, lines[j].Kickoff
		switch {
		case a != nil && b != nil && !a.Equal(*b):
			return a.Before(*b)
		case a != nil && b == nil:
			return true
		case a == nil && b != nil:
			return false
		}
		return lines[i].GameID < lines[j].GameID
	})
}

// MergeMarketLines lays fetched lines over the stored ones. A fetched line
// without a spread, total or kickoff keeps the stored value, and stored games
// missing from the fetch are kept. The result is in SortMarketLines order.
func MergeMarketLines(stored, fetched []MarketLine) []MarketLine {
	byGame := make(map[string]MarketLine, len(stored))
	for _, l := range stored {
		byGame[l.GameID] = l
	}

	merged := make([]MarketLine, 0, len(stored)+len(fetched))
	seen := make(map[string]bool, len(fetched))
	for _, l := range fetched {
		if old, ok := byGame[l.GameID]; ok {
			if l.Spread == nil {
				l.Spread = copyFloat(old.Spread)
			}
			if l.Total == nil {
				l.Total = copyFloat(old.Total)
			}
			if l.Kickoff == nil {
				l.Kickoff = old.Kickoff
			}
		}
		seen[l.GameID] = true
		merged = append(merged, l)
	}
	for _, l := range stored {
		if !seen[l.GameID] {
			merged = append(merged, l)
		}
	}

	SortMarketLines(merged)
	return merged
}

// PoolSpread is an administrator-set spread that overrides the market
type PoolSpread struct {
	Season    int       `json:"season" bson:"season" db:"season"`
	Week      int       `json:"week" bson:"week" db:"week"`
	GameID    string    `json:"game_id" bson:"game_id" db:"game_id"`
	Spread    float64   `json:"spread" bson:"spread" db:"spread"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at" db:"updated_at"`
}

// GameResult is a final score
type GameResult struct {
	Season    int       `json:"season" bson:"season" db:"season"`
	Week      int       `json:"week" bson:"week" db:"week"`
	GameID    string    `json:"game_id" bson:"game_id" db:"game_id"`
	AwayScore int       `json:"away_score" bson:"away_score" db:"away_score"`
	HomeScore int       `json:"home_score" bson:"home_score" db:"home_score"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at" db:"updated_at"`
}

// Margin returns the home-minus-away margin
func (r GameResult) Margin() float64 {
	return float64(r.HomeScore - r.AwayScore)
}

// GameLines is the combined line view for one game
type GameLines struct {
	GameID          string   `json:"game_id"`
	MarketSpread    *float64 `json:"market_spread"`
	MarketTotal     *float64 `json:"market_total"`
	PoolSpread      *float64 `json:"pool_spread"`
	EffectiveSpread *float64 `json:"effective_spread"`
}

// EffectiveSpread prefers the pool spread and falls back to the market
func EffectiveSpread(pool, market *float64) *float64 {
	if pool != nil {
		return copyFloat(pool)
	}
	return copyFloat(market)
}

// RankedGame is a game with the spread used to rank it
type RankedGame struct {
	Game
	EffectiveSpread float64 `json:"effective_spread"`
}

// Rankings orders the week's games for the survivor and underdog pickers
type Rankings struct {
	Favorites []RankedGame `json:"favorites"`
	Underdogs []RankedGame `json:"underdogs"`
}

// RankBySpread sorts games by effective spread. Favorites run from the most
// negative spread, underdogs from the most positive. Games without a spread
// are left out and ties keep their listed order.
func RankBySpread(games []Game) Rankings {
	ranked := make([]RankedGame, 0, len(games))
	for _, g := range games {
		if g.SpreadLine == nil {
			continue
		}
		ranked = append(ranked, RankedGame{Game: g, EffectiveSpread: *g.SpreadLine})
	}

	favorites := append([]RankedGame(nil), ranked...)
	sort.SliceStable(favorites, func(i, j int) bool {
		return favorites[i].EffectiveSpread < favorites[j].EffectiveSpread
	})

	underdogs := append([]RankedGame(nil), ranked...)
	sort.SliceStable(underdogs, func(i, j int) bool {
		return underdogs[i].EffectiveSpread > underdogs[j].EffectiveSpread
	})

	return Rankings{Favorites: favorites, Underdogs: underdogs}
}

// BuildWeekGames assembles the week's games from market lines, pool spreads
// and final results. Games follow kickoff order and the last one is the
// Monday night game.
func BuildWeekGames(lines []MarketLine, pools []PoolSpread, results []GameResult) ([]Game, error) {
	ordered := append([]MarketLine(nil), lines...)
	SortMarketLines(ordered)

	poolByGame := make(map[string]float64, len(pools))
	for _, p := range pools {
		poolByGame[p.GameID] = p.Spread
	}
	resultByGame := make(map[string]GameResult, len(results))
	for _, r := range results {
		resultByGame[r.GameID] = r
	}

	games := make([]Game, 0, len(ordered))
	for _, line := range ordered {
		game, err := NewGameFromID(line.GameID)
		if err != nil {
			return nil, err
		}
		var pool *float64
		if v, ok := poolByGame[line.GameID]; ok {
			pool = &v
		}
		game.SpreadLine = EffectiveSpread(pool, line.Spread)
		game.TotalLine = copyFloat(line.Total)
		game.Kickoff = line.Kickoff
		if r, ok := resultByGame[line.GameID]; ok {
			game.Result = Float(r.Margin())
		}
		games = append(games, game)
	}
	if len(games) > 0 {
		games[len(games)-1].IsMNF = true
	}
	return games, nil
}

// BuildGameLines combines market and pool lines per game. Pool spreads for
// games missing from the market are listed after the market games.
func BuildGameLines(lines []MarketLine, pools []PoolSpread) []GameLines {
	ordered := append([]MarketLine(nil), lines...)
	SortMarketLines(ordered)

	out := make([]GameLines, 0, len(ordered))
	index := make(map[string]int, len(ordered))
	for _, line := range ordered {
		index[line.GameID] = len(out)
		out = append(out, GameLines{
			GameID:       line.GameID,
			MarketSpread: copyFloat(line.Spread),
			MarketTotal:  copyFloat(line.Total),
		})
	}
	for _, p := range pools {
		spread := p.Spread
		i, ok := index[p.GameID]
		if !ok {
			index[p.GameID] = len(out)
			out = append(out, GameLines{GameID: p.GameID})
			i = len(out) - 1
		}
		out[i].PoolSpread = &spread
	}
	for i := range out {
		out[i].EffectiveSpread = EffectiveSpread(out[i].PoolSpread, out[i].MarketSpread)
	}
	return out
}
