package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"no-homers/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedStore() *MemoryStore {
	s := NewMemoryStore()
	s.now = func() time.Time { return time.Date(2024, 10, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestMemoryStoreReplacePicksIsFullReplace(t *testing.T) {
	ctx := context.Background()
	store := fixedStore()

	first := []models.Pick{
		{GameID: "2024_05_BUF_HOU", TeamPicked: "BUF", PickType: "regular"},
		{GameID: "2024_05_CLE_WAS", TeamPicked: "WAS", PickType: "best_bet"},
		{GameID: "2024_05_NO_KC", TeamPicked: "KC", PickType: "mnf"},
	}
	require.NoError(t, store.ReplacePicks(ctx, "GRIFF", 2024, 5, first))

	second := []models.Pick{
		{GameID: "2024_05_LV_DEN", TeamPicked: "DEN", PickType: "survivor"},
	}
	require.NoError(t, store.ReplacePicks(ctx, "GRIFF", 2024, 5, second))

	got, err := store.FindByPickerAndWeek(ctx, "GRIFF", 2024, 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "DEN", got[0].TeamPicked)
	assert.Equal(t, "GRIFF", got[0].Picker)
	assert.Equal(t, 2024, got[0].Season)
	assert.Equal(t, 5, got[0].Week)
	assert.False(t, got[0].CreatedAt.IsZero())
}

func TestMemoryStoreReplaceLeavesOtherPickersAlone(t *testing.T) {
	ctx := context.Background()
	store := fixedStore()

	require.NoError(t, store.ReplacePicks(ctx, "GRIFF", 2024, 5, []models.Pick{{GameID: "g1", TeamPicked: "KC"}}))
	require.NoError(t, store.ReplacePicks(ctx, "SAM", 2024, 5, []models.Pick{{GameID: "g1", TeamPicked: "BUF"}}))
	require.NoError(t, store.ReplacePicks(ctx, "SAM", 2024, 6, []models.Pick{{GameID: "g2", TeamPicked: "DAL"}}))

	week, err := store.FindByWeek(ctx, 2024, 5)
	require.NoError(t, err)
	require.Len(t, week, 2)
	assert.Equal(t, "GRIFF", week[0].Picker)
	assert.Equal(t, "SAM", week[1].Picker)

	season, err := store.FindByPickerAndSeason(ctx, "SAM", 2024)
	require.NoError(t, err)
	require.Len(t, season, 2)
	assert.Equal(t, 5, season[0].Week)
	assert.Equal(t, 6, season[1].Week)

	n, err := store.DeletePicks(ctx, "SAM", 2024, 6)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalPicks)
	assert.Equal(t, 2, stats.UniquePickers)
}

func TestMemoryStoreCancelledReplace(t *testing.T) {
	store := fixedStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.ReplacePicks(ctx, "GRIFF", 2024, 5, []models.Pick{{GameID: "g1", TeamPicked: "KC"}})
	assert.Error(t, err)

	got, _ := store.FindByPickerAndWeek(context.Background(), "GRIFF", 2024, 5)
	assert.Empty(t, got)
}

func TestMemoryStoreLines(t *testing.T) {
	ctx := context.Background()
	store := fixedStore()

	require.NoError(t, store.SaveMarketLines(ctx, 2024, 3, []models.MarketLine{{GameID: "2024_03_A_B", Spread: models.Float(-3)}}))
	require.NoError(t, store.SaveMarketLines(ctx, 2024, 7, []models.MarketLine{{GameID: "2024_07_A_B"}}))
	require.NoError(t, store.SaveMarketLines(ctx, 2023, 18, []models.MarketLine{{GameID: "2023_18_A_B"}}))

	weeks, err := store.AvailableWeeks(ctx, 2024)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 7}, weeks)

	maxWeek, ok, err := store.MaxWeek(ctx, 2024)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 7, maxWeek)

	_, ok, err = store.MaxWeek(ctx, 2030)
	require.NoError(t, err)
	assert.False(t, ok)

	lines, err := store.GetMarketLines(ctx, 2024, 3)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Week)

	require.NoError(t, store.SavePoolSpreads(ctx, 2024, 3, []models.PoolSpread{
		{GameID: "2024_03_A_B", Spread: -2.5},
		{GameID: "2024_03_C_D", Spread: 1},
	}))
	require.NoError(t, store.UpdatePoolSpread(ctx, models.PoolSpread{Season: 2024, Week: 3, GameID: "2024_03_C_D", Spread: 1.5}))
	require.NoError(t, store.UpdatePoolSpread(ctx, models.PoolSpread{Season: 2024, Week: 3, GameID: "2024_03_E_F", Spread: 7}))

	pools, err := store.GetPoolSpreads(ctx, 2024, 3)
	require.NoError(t, err)
	require.Len(t, pools, 3)
	assert.Equal(t, 1.5, pools[1].Spread)
	assert.Equal(t, 7.0, pools[2].Spread)

	require.NoError(t, store.SavePoolSpreads(ctx, 2024, 3, nil))
	pools, err = store.GetPoolSpreads(ctx, 2024, 3)
	require.NoError(t, err)
	assert.Empty(t, pools)
}

func TestMemoryStoreResults(t *testing.T) {
	ctx := context.Background()
	store := fixedStore()

	require.NoError(t, store.SaveResults(ctx, []models.GameResult{
		{Season: 2024, Week: 5, GameID: "2024_05_NO_KC", AwayScore: 13, HomeScore: 26},
		{Season: 2024, Week: 5, GameID: "2024_05_BUF_HOU", AwayScore: 20, HomeScore: 23},
		{Season: 2024, Week: 6, GameID: "2024_06_X_Y"},
	}))
	require.NoError(t, store.SaveResults(ctx, []models.GameResult{
		{Season: 2024, Week: 5, GameID: "2024_05_NO_KC", AwayScore: 13, HomeScore: 27},
	}))

	results, err := store.GetResults(ctx, 2024, 5)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "2024_05_BUF_HOU", results[0].GameID)
	assert.Equal(t, 14.0, results[1].Margin())
}

func TestMemoryStoreUsers(t *testing.T) {
	store := fixedStore()

	u := &models.User{Name: "Griff", Email: "griff@example.com"}
	require.NoError(t, u.HashPassword("hunter22"))
	require.NoError(t, store.CreateUser(u))
	assert.Equal(t, 1, u.ID)

	assert.Error(t, store.CreateUser(&models.User{Name: "Dup", Email: "GRIFF@example.com"}))

	found, err := store.GetUserByEmail("Griff@Example.com")
	require.NoError(t, err)
	assert.True(t, found.CheckPassword("hunter22"))

	byName, err := store.GetUserByName("GRIFF")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)

	_, err = store.GetUserByID(42)
	assert.True(t, errors.Is(err, models.ErrUserNotFound))

	found.IsAdmin = true
	require.NoError(t, store.UpdateUser(found))
	again, err := store.GetUserByID(u.ID)
	require.NoError(t, err)
	assert.True(t, again.IsAdmin)

	all, err := store.GetAllUsers()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
