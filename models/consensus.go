package models

import (
	"fmt"
	"sort"
)

// ConsensusEven marks a game where both sides drew the same support
const ConsensusEven = "EVEN"

// GameConsensus summarizes the pool's regular and best-bet picks on a game.
// A regular pick is worth 1 point and a best bet 2.
type GameConsensus struct {
	GameID            string   `json:"game_id"`
	Matchup           string   `json:"matchup"`
	AwayTeam          string   `json:"away_team"`
	HomeTeam          string   `json:"home_team"`
	SpreadLine        *float64 `json:"spread_line,omitempty"`
	AwayPoints        int      `json:"away_points"`
	HomePoints        int      `json:"home_points"`
	ConsensusTeam     string   `json:"consensus_team"`
	ConsensusPoints   int      `json:"consensus_points"`
	ConsensusBestBets int      `json:"consensus_best_bets"`
	NetScore          int      `json:"net_score"`
}

// SidePick is one picker's survivor or underdog choice
type SidePick struct {
	Picker  string   `json:"picker"`
	Team    string   `json:"team"`
	GameID  string   `json:"game_id"`
	Matchup string   `json:"matchup"`
	Spread  *float64 `json:"spread,omitempty"`
}

// SummaryCounts are the headline numbers for a week
type SummaryCounts struct {
	TotalPicks    int `json:"total_picks"`
	BestBets      int `json:"best_bets"`
	SurvivorPicks int `json:"survivor_picks"`
	UnderdogPicks int `json:"underdog_picks"`
	MNFPicks      int `json:"mnf_picks"`
	ActivePickers int `json:"active_pickers"`
}

// WeekSummary is every picker's saved picks for a week
type WeekSummary struct {
	Season   int                     `json:"season"`
	Week     int                     `json:"week"`
	Counts   SummaryCounts           `json:"counts"`
	Games    []GameConsensus         `json:"games"`
	Survivor []SidePick              `json:"survivor"`
	Underdog []SidePick              `json:"underdog"`
	MNF      []SidePick              `json:"mnf"`
	ByPicker map[string][]PickRecord `json:"by_picker"`
}

// BuildWeekSummary aggregates saved picks against the week's games. Games
// are ranked by the size of their consensus.
func BuildWeekSummary(season, week int, games []Game, picks []Pick) WeekSummary {
	summary := WeekSummary{
		Season:   season,
		Week:     week,
		ByPicker: make(map[string][]PickRecord),
	}

	gamesByID := make(map[string]Game, len(games))
	for _, g := range games {
		gamesByID[g.ID] = g
	}

	pickers := make(map[string]struct{})
	type side struct{ points, bestBets int }
	support := make(map[string]map[string]*side)

	for _, p := range picks {
		rec, err := p.Record()
		if err != nil {
			continue
		}
		pickers[p.Picker] = struct{}{}
		summary.ByPicker[p.Picker] = append(summary.ByPicker[p.Picker], rec)
		summary.Counts.TotalPicks++

		game, known := gamesByID[rec.GameID]
		if !known {
			game, _ = NewGameFromID(rec.GameID)
		}

		switch rec.Kind {
		case PickKindRegular, PickKindBestBet:
			if support[rec.GameID] == nil {
				support[rec.GameID] = make(map[string]*side)
			}
			s := support[rec.GameID][rec.Team]
			if s == nil {
				s = &side{}
				support[rec.GameID][rec.Team] = s
			}
			if rec.Kind == PickKindBestBet {
				s.points += 2
				s.bestBets++
				summary.Counts.BestBets++
			} else {
				s.points++
			}
		case PickKindSurvivor:
			summary.Counts.SurvivorPicks++
			summary.Survivor = append(summary.Survivor, sidePick(p.Picker, rec, game))
		case PickKindUnderdog:
			summary.Counts.UnderdogPicks++
			summary.Underdog = append(summary.Underdog, sidePick(p.Picker, rec, game))
		case PickKindMNF:
			summary.Counts.MNFPicks++
			summary.MNF = append(summary.MNF, sidePick(p.Picker, rec, game))
		}
	}
	summary.Counts.ActivePickers = len(pickers)

	for _, g := range games {
		c := GameConsensus{
			GameID:     g.ID,
			AwayTeam:   g.Away,
			HomeTeam:   g.Home,
			SpreadLine: copyFloat(g.SpreadLine),
		}
		var awayBest, homeBest int
		if s := support[g.ID][g.Away]; s != nil {
			c.AwayPoints, awayBest = s.points, s.bestBets
		}
		if s := support[g.ID][g.Home]; s != nil {
			c.HomePoints, homeBest = s.points, s.bestBets
		}

		net := c.HomePoints - c.AwayPoints
		switch {
		case net > 0:
			c.ConsensusTeam, c.ConsensusPoints, c.ConsensusBestBets = g.Home, c.HomePoints, homeBest
		case net < 0:
			c.ConsensusTeam, c.ConsensusPoints, c.ConsensusBestBets = g.Away, c.AwayPoints, awayBest
		default:
			c.ConsensusTeam = ConsensusEven
		}
		if net < 0 {
			net = -net
		}
		c.NetScore = net
		c.Matchup = consensusMatchup(g, c.ConsensusTeam)
		summary.Games = append(summary.Games, c)
	}

	sort.SliceStable(summary.Games, func(i, j int) bool {
		return summary.Games[i].NetScore > summary.Games[j].NetScore
	})
	sortSidePicks(summary.Survivor)
	sortSidePicks(summary.Underdog)
	sortSidePicks(summary.MNF)

	return summary
}

// consensusMatchup puts the consensus side first: "KC (-3.5) vs BUF" for a
// home side, "BUF (+3.5) at KC" for an away side
func consensusMatchup(g Game, consensus string) string {
	first, other, joiner := g.Away, g.Home, "at"
	if consensus == g.Home {
		first, other, joiner = g.Home, g.Away, "vs"
	}
	spread, ok := g.TeamSpread(first)
	if !ok {
		return fmt.Sprintf("%s %s %s", first, joiner, other)
	}
	return fmt.Sprintf("%s (%s) %s %s", first, signedSpread(spread), joiner, other)
}

func signedSpread(v float64) string {
	if v >= 0 {
		return fmt.Sprintf("+%g", v)
	}
	return fmt.Sprintf("%g", v)
}

func sidePick(picker string, rec PickRecord, game Game) SidePick {
	sp := SidePick{
		Picker:  picker,
		Team:    rec.Team,
		GameID:  rec.GameID,
		Matchup: game.Matchup(),
		Spread:  copyFloat(rec.Spread),
	}
	if spread, ok := game.TeamSpread(rec.Team); ok {
		sp.Spread = &spread
	}
	return sp
}

func sortSidePicks(picks []SidePick) {
	sort.SliceStable(picks, func(i, j int) bool {
		return picks[i].Picker < picks[j].Picker
	})
}
