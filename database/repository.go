package database

import (
	"context"

	"no-homers/models"
)

// PickRepository stores saved picks. ReplacePicks swaps a picker's whole week
// in one transaction: after it returns the stored rows are exactly picks.
type PickRepository interface {
	FindByPickerAndWeek(ctx context.Context, picker string, season, week int) ([]models.Pick, error)
	FindByWeek(ctx context.Context, season, week int) ([]models.Pick, error)
	FindByPickerAndSeason(ctx context.Context, picker string, season int) ([]models.Pick, error)
	ReplacePicks(ctx context.Context, picker string, season, week int, picks []models.Pick) error
	DeletePicks(ctx context.Context, picker string, season, week int) (int, error)
	Stats(ctx context.Context) (models.DatabaseStats, error)
}

// LinesRepository stores market lines, pool spreads and final results
type LinesRepository interface {
	SaveMarketLines(ctx context.Context, season, week int, lines []models.MarketLine) error
	GetMarketLines(ctx context.Context, season, week int) ([]models.MarketLine, error)
	AvailableWeeks(ctx context.Context, season int) ([]int, error)
	MaxWeek(ctx context.Context, season int) (int, bool, error)

	SavePoolSpreads(ctx context.Context, season, week int, spreads []models.PoolSpread) error
	UpdatePoolSpread(ctx context.Context, spread models.PoolSpread) error
	GetPoolSpreads(ctx context.Context, season, week int) ([]models.PoolSpread, error)

	SaveResults(ctx context.Context, results []models.GameResult) error
	GetResults(ctx context.Context, season, week int) ([]models.GameResult, error)
}

// UserRepository interface for user data operations
type UserRepository interface {
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id int) (*models.User, error)
	GetUserByName(name string) (*models.User, error)
	CreateUser(user *models.User) error
	UpdateUser(user *models.User) error
	GetAllUsers() ([]models.User, error)
}
