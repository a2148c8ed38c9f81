package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildWeekGames(t *testing.T) {
	sunday := time.Date(2024, 10, 6, 17, 0, 0, 0, time.UTC)
	monday := sunday.Add(27 * time.Hour)
	lines := []MarketLine{
		{GameID: "2024_05_NO_KC", Spread: Float(-5.5), Total: Float(43), Kickoff: &monday},
		{GameID: "2024_05_BUF_HOU", Spread: Float(-1), Kickoff: &sunday},
		{GameID: "2024_05_CLE_WAS", Spread: Float(-3), Kickoff: &sunday},
	}
	pools := []PoolSpread{{GameID: "2024_05_BUF_HOU", Spread: 1.5}}
	results := []GameResult{{GameID: "2024_05_CLE_WAS", AwayScore: 13, HomeScore: 34}}

	games, err := BuildWeekGames(lines, pools, results)
	require.NoError(t, err)
	require.Len(t, games, 3)

	assert.Equal(t, "2024_05_BUF_HOU", games[0].ID)
	assert.Equal(t, 1.5, *games[0].SpreadLine)
	assert.False(t, games[0].IsFinal())

	assert.Equal(t, "2024_05_CLE_WAS", games[1].ID)
	assert.Equal(t, 21.0, *games[1].Result)
	assert.False(t, games[1].IsMNF)

	assert.Equal(t, "KC", games[2].Home)
	assert.Equal(t, 43.0, *games[2].TotalLine)
	assert.True(t, games[2].IsMNF)

	// the caller's slice keeps its order
	assert.Equal(t, "2024_05_NO_KC", lines[0].GameID)
}

func TestBuildWeekGamesInvalidID(t *testing.T) {
	_, err := BuildWeekGames([]MarketLine{{GameID: "bogus"}}, nil, nil)
	assert.True(t, errors.Is(err, ErrInvalidGameID))
}

func TestBuildGameLines(t *testing.T) {
	lines := []MarketLine{
		{GameID: "2024_05_BUF_HOU", Spread: Float(-1), Total: Float(47.5)},
		{GameID: "2024_05_CLE_WAS", Spread: Float(-3)},
	}
	pools := []PoolSpread{
		{GameID: "2024_05_CLE_WAS", Spread: -2.5},
		{GameID: "2024_05_NO_KC", Spread: -6},
	}

	combined := BuildGameLines(lines, pools)
	require.Len(t, combined, 3)

	assert.Nil(t, combined[0].PoolSpread)
	assert.Equal(t, -1.0, *combined[0].EffectiveSpread)
	assert.Equal(t, 47.5, *combined[0].MarketTotal)

	assert.Equal(t, -3.0, *combined[1].MarketSpread)
	assert.Equal(t, -2.5, *combined[1].EffectiveSpread)

	assert.Equal(t, "2024_05_NO_KC", combined[2].GameID)
	assert.Nil(t, combined[2].MarketSpread)
	assert.Equal(t, -6.0, *combined[2].EffectiveSpread)
}

func TestSortMarketLinesWithoutKickoff(t *testing.T) {
	kick := time.Date(2024, 9, 8, 17, 0, 0, 0, time.UTC)
	lines := []MarketLine{
		{GameID: "b"},
		{GameID: "z", Kickoff: &kick},
		{GameID: "a"},
	}
	SortMarketLines(lines)
	assert.Equal(t, "z", lines[0].GameID)
	assert.Equal(t, "a", lines[1].GameID)
	assert.Equal(t, "b", lines[2].GameID)
}

func TestMergeMarketLines(t *testing.T) {
	kickoff := time.Date(2024, 10, 8, 0, 15, 0, 0, time.UTC)
	stored := []MarketLine{
		{Season: 2024, Week: 5, GameID: "2024_05_NO_KC", Spread: Float(-3.5), Total: Float(44.5), Kickoff: &kickoff},
		{Season: 2024, Week: 5, GameID: "2024_05_CLE_WAS", Spread: Float(-3)},
	}
	fetched := []MarketLine{
		{Season: 2024, Week: 5, GameID: "2024_05_NO_KC"},
		{Season: 2024, Week: 5, GameID: "2024_05_BUF_HOU", Spread: Float(-1)},
	}

	merged := MergeMarketLines(stored, fetched)
	require.Len(t, merged, 3)

	byGame := map[string]MarketLine{}
	for _, l := range merged {
		byGame[l.GameID] = l
	}
	kc := byGame["2024_05_NO_KC"]
	require.NotNil(t, kc.Spread)
	assert.Equal(t, -3.5, *kc.Spread)
	assert.Equal(t, 44.5, *kc.Total)
	assert.Equal(t, kickoff, *kc.Kickoff)
	assert.Equal(t, -3.0, *byGame["2024_05_CLE_WAS"].Spread)
	assert.Equal(t, -1.0, *byGame["2024_05_BUF_HOU"].Spread)

	// a fresh spread wins over the stored one
	moved := MergeMarketLines(stored, []MarketLine{{GameID: "2024_05_NO_KC", Spread: Float(-4)}})
	for _, l := range moved {
		if l.GameID == "2024_05_NO_KC" {
			assert.Equal(t, -4.0, *l.Spread)
		}
	}
}
