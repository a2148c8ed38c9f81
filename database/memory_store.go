package database

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"no-homers/models"

	"github.com/cockroachdb/errors"
)

type weekKey struct {
	season int
	week   int
}

type pickerWeekKey struct {
	picker string
	weekKey
}

// MemoryStore implements every repository in process memory. It backs tests
// and the "memory" driver.
type MemoryStore struct {
	mu sync.RWMutex

	picks   map[pickerWeekKey][]models.Pick
	lines   map[weekKey][]models.MarketLine
	pools   map[weekKey][]models.PoolSpread
	results map[string]models.GameResult

	users  map[int]*models.User
	nextID int

	now func() time.Time
}

var (
	_ PickRepository  = (*MemoryStore)(nil)
	_ LinesRepository = (*MemoryStore)(nil)
	_ UserRepository  = (*MemoryStore)(nil)
)

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		picks:   make(map[pickerWeekKey][]models.Pick),
		lines:   make(map[weekKey][]models.MarketLine),
		pools:   make(map[weekKey][]models.PoolSpread),
		results: make(map[string]models.GameResult),
		users:   make(map[int]*models.User),
		now:     time.Now,
	}
}

// Picks

func (s *MemoryStore) FindByPickerAndWeek(ctx context.Context, picker string, season, week int) ([]models.Pick, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Pick(nil), s.picks[pickerWeekKey{picker, weekKey{season, week}}]...), nil
}

func (s *MemoryStore) FindByWeek(ctx context.Context, season, week int) ([]models.Pick, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Pick
	for key, picks := range s.picks {
		if key.season == season && key.week == week {
			out = append(out, picks...)
		}
	}
	sortPicks(out)
	return out, nil
}

func (s *MemoryStore) FindByPickerAndSeason(ctx context.Context, picker string, season int) ([]models.Pick, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Pick
	for key, picks := range s.picks {
		if key.picker == picker && key.season == season {
			out = append(out, picks...)
		}
	}
	sortPicks(out)
	return out, nil
}

// ReplacePicks swaps the picker's week under the write lock, so readers see
// either the old rows or the new ones
func (s *MemoryStore) ReplacePicks(ctx context.Context, picker string, season, week int, picks []models.Pick) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	now := s.now()
	rows := make([]models.Pick, len(picks))
	for i, p := range picks {
		p.Picker = picker
		p.Season = season
		p.Week = week
		p.CreatedAt = now
		rows[i] = p
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	key := pickerWeekKey{picker, weekKey{season, week}}
	if len(rows) == 0 {
		delete(s.picks, key)
		return nil
	}
	s.picks[key] = rows
	return nil
}

func (s *MemoryStore) DeletePicks(ctx context.Context, picker string, season, week int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pickerWeekKey{picker, weekKey{season, week}}
	n := len(s.picks[key])
	delete(s.picks, key)
	return n, nil
}

func (s *MemoryStore) Stats(ctx context.Context) (models.DatabaseStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var all []models.Pick
	for _, picks := range s.picks {
		all = append(all, picks...)
	}
	return models.StatsFromPicks(all), nil
}

// Lines

func (s *MemoryStore) SaveMarketLines(ctx context.Context, season, week int, lines []models.MarketLine) error {
	now := s.now()
	rows := make([]models.MarketLine, len(lines))
	for i, l := range lines {
		l.Season, l.Week, l.UpdatedAt = season, week, now
		rows[i] = l
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines[weekKey{season, week}] = rows
	return nil
}

func (s *MemoryStore) GetMarketLines(ctx context.Context, season, week int) ([]models.MarketLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.MarketLine(nil), s.lines[weekKey{season, week}]...), nil
}

func (s *MemoryStore) AvailableWeeks(ctx context.Context, season int) ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var weeks []int
	for key, lines := range s.lines {
		if key.season == season && len(lines) > 0 {
			weeks = append(weeks, key.week)
		}
	}
	sort.Ints(weeks)
	return weeks, nil
}

func (s *MemoryStore) MaxWeek(ctx context.Context, season int) (int, bool, error) {
	weeks, err := s.AvailableWeeks(ctx, season)
	if err != nil || len(weeks) == 0 {
		return 0, false, err
	}
	return weeks[len(weeks)-1], true, nil
}

func (s *MemoryStore) SavePoolSpreads(ctx context.Context, season, week int, spreads []models.PoolSpread) error {
	now := s.now()
	rows := make([]models.PoolSpread, len(spreads))
	for i, p := range spreads {
		p.Season, p.Week, p.UpdatedAt = season, week, now
		rows[i] = p
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pools[weekKey{season, week}] = rows
	return nil
}

func (s *MemoryStore) UpdatePoolSpread(ctx context.Context, spread models.PoolSpread) error {
	spread.UpdatedAt = s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	key := weekKey{spread.Season, spread.Week}
	rows := s.pools[key]
	for i := range rows {
		if rows[i].GameID == spread.GameID {
			rows[i] = spread
			return nil
		}
	}
	s.pools[key] = append(rows, spread)
	return nil
}

func (s *MemoryStore) GetPoolSpreads(ctx context.Context, season, week int) ([]models.PoolSpread, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.PoolSpread(nil), s.pools[weekKey{season, week}]...), nil
}

func (s *MemoryStore) SaveResults(ctx context.Context, results []models.GameResult) error {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range results {
		r.UpdatedAt = now
		s.results[r.GameID] = r
	}
	return nil
}

func (s *MemoryStore) GetResults(ctx context.Context, season, week int) ([]models.GameResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.GameResult
	for _, r := range s.results {
		if r.Season == season && r.Week == week {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GameID < out[j].GameID })
	return out, nil
}

// Users

func (s *MemoryStore) GetUserByEmail(email string) (*models.User, error) {
	return s.findUser(func(u *models.User) bool { return strings.EqualFold(u.Email, email) })
}

func (s *MemoryStore) GetUserByID(id int) (*models.User, error) {
	return s.findUser(func(u *models.User) bool { return u.ID == id })
}

func (s *MemoryStore) GetUserByName(name string) (*models.User, error) {
	return s.findUser(func(u *models.User) bool { return strings.EqualFold(u.Name, name) })
}

func (s *MemoryStore) findUser(match func(*models.User) bool) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if match(u) {
			found := *u
			return &found, nil
		}
	}
	return nil, models.ErrUserNotFound
}

func (s *MemoryStore) CreateUser(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return errors.Newf("user %s already exists", user.Email)
		}
	}
	if user.ID == 0 {
		s.nextID++
		user.ID = s.nextID
	} else if user.ID > s.nextID {
		s.nextID = user.ID
	}
	user.CreatedAt = s.now()
	user.UpdatedAt = user.CreatedAt

	stored := *user
	s.users[user.ID] = &stored
	return nil
}

func (s *MemoryStore) UpdateUser(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; !ok {
		return models.ErrUserNotFound
	}
	user.UpdatedAt = s.now()
	stored := *user
	s.users[user.ID] = &stored
	return nil
}

func (s *MemoryStore) GetAllUsers() ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// sortPicks orders rows the way the SQL and Mongo stores return them
func sortPicks(picks []models.Pick) {
	sort.SliceStable(picks, func(i, j int) bool {
		a, b := picks[i], picks[j]
		if a.Week != b.Week {
			return a.Week < b.Week
		}
		if a.Picker != b.Picker {
			return a.Picker < b.Picker
		}
		return a.GameID < b.GameID
	})
}
