package services

import (
	"context"
	"errors"
	"testing"

	"no-homers/database"
	"no-homers/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinesServicePoolSpreads(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	seedWeek(t, store)
	svc := NewLinesService(store)

	require.NoError(t, svc.SavePoolSpreads(ctx, 2024, 5, map[string]float64{
		"2024_05_CLE_WAS": -3.3,
		"2024_05_BUF_HOU": 2.75,
	}))

	pools, err := svc.PoolSpreads(ctx, 2024, 5)
	require.NoError(t, err)
	require.Len(t, pools, 2)

	game, err := svc.GetGame(ctx, 2024, 5, "2024_05_CLE_WAS")
	require.NoError(t, err)
	assert.Equal(t, -3.5, *game.SpreadLine)

	row, err := svc.UpdatePoolSpread(ctx, 2024, 5, "2024_05_NO_KC", -7.2)
	require.NoError(t, err)
	assert.Equal(t, -7.0, row.Spread)

	lines, err := svc.GameLines(ctx, 2024, 5)
	require.NoError(t, err)
	assert.Len(t, lines, 3)

	_, err = svc.UpdatePoolSpread(ctx, 2024, 5, "2024_06_NO_KC", 1)
	assert.True(t, errors.Is(err, models.ErrWeekMismatch))

	err = svc.SavePoolSpreads(ctx, 2024, 5, map[string]float64{"garbage": 1})
	assert.True(t, errors.Is(err, models.ErrInvalidGameID))
}

func TestLinesServiceWeeksAndRankings(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	seedWeek(t, store)
	svc := NewLinesService(store)

	weeks, err := svc.AvailableWeeks(ctx, 2024)
	require.NoError(t, err)
	assert.Equal(t, []int{5}, weeks)

	maxWeek, ok, err := svc.MaxWeek(ctx, 2024)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 5, maxWeek)

	_, ok, err = svc.MaxWeek(ctx, 2023)
	require.NoError(t, err)
	assert.False(t, ok)

	rankings, err := svc.Rankings(ctx, 2024, 5)
	require.NoError(t, err)
	require.NotEmpty(t, rankings.Favorites)
	assert.Equal(t, "2024_05_NO_KC", rankings.Favorites[0].ID)

	_, err = svc.GetGame(ctx, 2024, 5, "2024_05_DAL_PIT")
	assert.True(t, errors.Is(err, models.ErrGameNotFound))
}
