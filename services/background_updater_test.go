package services

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"no-homers/database"
	"no-homers/models"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingImporter struct {
	calls    atomic.Int32
	lastWeek atomic.Int32
	err      error
	run      func(ctx context.Context) error
}

func (c *countingImporter) Import(ctx context.Context, season, week int) (*ImportSummary, error) {
	c.calls.Add(1)
	c.lastWeek.Store(int32(week))
	if c.run != nil {
		if err := c.run(ctx); err != nil {
			return nil, err
		}
	}
	if c.err != nil {
		return nil, c.err
	}
	return &ImportSummary{Season: season, Week: week}, nil
}

func TestUpdateInterval(t *testing.T) {
	tests := []struct {
		month time.Month
		want  time.Duration
	}{
		{time.September, 2 * time.Minute},
		{time.December, 2 * time.Minute},
		{time.February, 2 * time.Minute},
		{time.March, 30 * time.Minute},
		{time.July, 30 * time.Minute},
	}
	for _, tt := range tests {
		t.Run(tt.month.String(), func(t *testing.T) {
			now := time.Date(2024, tt.month, 10, 12, 0, 0, 0, time.UTC)
			assert.Equal(t, tt.want, UpdateInterval(now))
		})
	}
}

func TestBackgroundUpdaterPollsUntilStopped(t *testing.T) {
	importer := &countingImporter{}
	bu := NewBackgroundUpdater(importer, nil, 2024, 5, 10*time.Millisecond)

	bu.Start(context.Background())
	// a second start is ignored
	bu.Start(context.Background())

	require.Eventually(t, func() bool { return importer.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)

	bu.Stop()
	stopped := importer.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, importer.calls.Load())

	bu.Stop()
}

func TestBackgroundUpdaterSurvivesFailures(t *testing.T) {
	importer := &countingImporter{err: errors.New("feed down")}
	bu := NewBackgroundUpdater(importer, nil, 2024, 5, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	bu.Start(ctx)
	require.Eventually(t, func() bool { return importer.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
	bu.Stop()
}

func TestBackgroundUpdaterWeekComplete(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	seedWeek(t, store)
	lines := NewLinesService(store)

	var finished atomic.Bool
	importer := &countingImporter{run: func(ctx context.Context) error {
		if !finished.Load() {
			return nil
		}
		return store.SaveResults(ctx, []models.GameResult{
			{Season: 2024, Week: 5, GameID: "2024_05_BUF_HOU", AwayScore: 20, HomeScore: 23},
			{Season: 2024, Week: 5, GameID: "2024_05_CLE_WAS", AwayScore: 13, HomeScore: 34},
			{Season: 2024, Week: 5, GameID: "2024_05_NO_KC", AwayScore: 13, HomeScore: 26},
		})
	}}

	bu := NewBackgroundUpdater(importer, lines, 2024, 5, 10*time.Millisecond)
	bu.update(ctx)
	assert.False(t, bu.WeekComplete(5))
	assert.Equal(t, int32(5), importer.lastWeek.Load())

	finished.Store(true)
	bu.update(ctx)
	assert.True(t, bu.WeekComplete(5))

	// week 6 has no lines yet, so polling stays there
	bu.update(ctx)
	assert.Equal(t, int32(6), importer.lastWeek.Load())
	assert.False(t, bu.WeekComplete(6))
	bu.update(ctx)
	assert.Equal(t, int32(6), importer.lastWeek.Load())
}

func TestBackgroundUpdaterStopsAdvancingAtSeasonEnd(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	require.NoError(t, store.SaveMarketLines(ctx, 2024, 18, []models.MarketLine{
		{Season: 2024, Week: 18, GameID: "2024_18_KC_DEN", Spread: models.Float(3)},
	}))
	require.NoError(t, store.SaveResults(ctx, []models.GameResult{
		{Season: 2024, Week: 18, GameID: "2024_18_KC_DEN", AwayScore: 0, HomeScore: 38},
	}))

	importer := &countingImporter{}
	bu := NewBackgroundUpdater(importer, NewLinesService(store), 2024, 18, time.Minute)
	bu.update(ctx)
	bu.update(ctx)
	assert.True(t, bu.WeekComplete(18))
	assert.Equal(t, int32(18), importer.lastWeek.Load())
}
