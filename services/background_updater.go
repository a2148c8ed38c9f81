package services

import (
	"context"
	"sync"
	"time"

	"no-homers/logging"
	"no-homers/models"
)

// MaxRegularSeasonWeek is the last week the pool runs
const MaxRegularSeasonWeek = 18

// WeekImporter loads one week of lines and results
type WeekImporter interface {
	Import(ctx context.Context, season, week int) (*ImportSummary, error)
}

// BackgroundUpdater re-imports the current week's lines and results on a
// ticker and moves to the next week once every game is final
type BackgroundUpdater struct {
	importer WeekImporter
	lines    *LinesService
	season   int
	week     int
	interval time.Duration
	logger   *logging.Logger

	mu       sync.Mutex
	running  bool
	cancel   context.CancelFunc
	done     chan struct{}
	complete map[int]bool
}

// NewBackgroundUpdater creates an updater for one season and week. An
// interval of zero picks one from the calendar.
func NewBackgroundUpdater(importer WeekImporter, lines *LinesService, season, week int, interval time.Duration) *BackgroundUpdater {
	if interval <= 0 {
		interval = UpdateInterval(time.Now())
	}
	return &BackgroundUpdater{
		importer: importer,
		lines:    lines,
		season:   season,
		week:     week,
		interval: interval,
		logger:   logging.WithPrefix("BackgroundUpdater"),
		complete: make(map[int]bool),
	}
}

// UpdateInterval polls often during the season and rarely outside it
func UpdateInterval(now time.Time) time.Duration {
	month := now.Month()
	if month >= time.September || month <= time.February {
		return 2 * time.Minute
	}
	return 30 * time.Minute
}

// Start runs an import right away and then on every tick until ctx ends or
// Stop is called
func (bu *BackgroundUpdater) Start(ctx context.Context) {
	bu.mu.Lock()
	defer bu.mu.Unlock()
	if bu.running {
		bu.logger.Warn("Already running")
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	bu.cancel = cancel
	bu.done = make(chan struct{})
	bu.running = true
	bu.logger.Infof("Polling %d week %d every %v", bu.season, bu.week, bu.interval)

	go func() {
		defer close(bu.done)
		ticker := time.NewTicker(bu.interval)
		defer ticker.Stop()

		bu.update(ctx)
		for {
			select {
			case <-ticker.C:
				bu.update(ctx)
			case <-ctx.Done():
				bu.logger.Info("Stopping background updates")
				return
			}
		}
	}()
}

// Stop halts polling and waits for an in-flight import to return
func (bu *BackgroundUpdater) Stop() {
	bu.mu.Lock()
	if !bu.running {
		bu.mu.Unlock()
		return
	}
	bu.running = false
	cancel, done := bu.cancel, bu.done
	bu.mu.Unlock()

	cancel()
	<-done
}

// update imports the week once. Failures are logged and retried on the next
// tick.
func (bu *BackgroundUpdater) update(ctx context.Context) {
	week := bu.currentWeek()
	start := time.Now()
	summary, err := bu.importer.Import(ctx, bu.season, week)
	if err != nil {
		if ctx.Err() == nil {
			bu.logger.Warnf("Import of %d week %d failed: %v", bu.season, week, err)
		}
		return
	}
	bu.logger.Debugf("Update completed in %v: %d lines, %d results", time.Since(start), summary.Lines, summary.Results)

	if bu.lines != nil {
		bu.checkWeekComplete(ctx, week)
	}
}

func (bu *BackgroundUpdater) currentWeek() int {
	bu.mu.Lock()
	defer bu.mu.Unlock()
	return bu.week
}

// checkWeekComplete marks the week settled once every game is final and
// moves polling to the next regular-season week
func (bu *BackgroundUpdater) checkWeekComplete(ctx context.Context, week int) {
	games, err := bu.lines.WeekGames(ctx, bu.season, week)
	if err != nil || len(games) == 0 {
		return
	}
	if !allFinal(games) {
		return
	}

	bu.mu.Lock()
	defer bu.mu.Unlock()
	if bu.complete[week] {
		return
	}
	bu.complete[week] = true
	bu.logger.Infof("All %d games final for %d week %d, scores are settled", len(games), bu.season, week)

	if bu.week == week && week < MaxRegularSeasonWeek {
		bu.week = week + 1
		bu.logger.Infof("Polling moves to %d week %d", bu.season, bu.week)
	}
}

// WeekComplete reports whether the updater has seen every game of the week
// go final
func (bu *BackgroundUpdater) WeekComplete(week int) bool {
	bu.mu.Lock()
	defer bu.mu.Unlock()
	return bu.complete[week]
}

func allFinal(games []models.Game) bool {
	for i := range games {
		if !games[i].IsFinal() {
			return false
		}
	}
	return true
}
