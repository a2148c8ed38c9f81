package interfaces

import (
	"context"

	"no-homers/models"
	"no-homers/services"
)

// PickService defines methods for pick management operations
type PickService interface {
	// Draft editing
	GetDraft(ctx context.Context, picker string, season, week int) (models.PickSet, error)
	Click(ctx context.Context, picker string, season, week int, gameID, team string, kind models.PickKind) (models.PickSet, error)
	Reset(ctx context.Context, picker string, season, week int) (models.PickSet, error)

	// Persistence
	Save(ctx context.Context, picker string, season, week int) (models.PickSet, error)
	Submit(ctx context.Context, picker string, season, week int, records []models.PickRecord) (models.PickSet, error)
	DeletePicks(ctx context.Context, picker string, season, week int) (int, error)

	// Reporting
	WeekSummary(ctx context.Context, season, week int) (models.WeekSummary, error)
	SurvivorUsedTeams(ctx context.Context, picker string, season, beforeWeek int) ([]services.UsedTeam, error)
	Stats(ctx context.Context) (models.DatabaseStats, error)
}

// LinesService defines methods for games, lines and pool spreads
type LinesService interface {
	WeekGames(ctx context.Context, season, week int) ([]models.Game, error)
	GameLines(ctx context.Context, season, week int) ([]models.GameLines, error)
	PoolSpreads(ctx context.Context, season, week int) ([]models.PoolSpread, error)
	SavePoolSpreads(ctx context.Context, season, week int, spreads map[string]float64) error
	UpdatePoolSpread(ctx context.Context, season, week int, gameID string, spread float64) (models.PoolSpread, error)
	AvailableWeeks(ctx context.Context, season int) ([]int, error)
	MaxWeek(ctx context.Context, season int) (int, bool, error)
	Rankings(ctx context.Context, season, week int) (models.Rankings, error)
}

// ScoringService defines methods for grading picks
type ScoringService interface {
	ScoreWeek(ctx context.Context, season, week int) (models.WeeklyScore, error)
	SeasonLeaderboard(ctx context.Context, season int) (models.Leaderboard, error)
	PickerWeek(ctx context.Context, picker string, season, week int) (models.PickerScore, []models.ScoredPick, error)
}

// LineImporter refreshes a week's market lines and results
type LineImporter interface {
	Import(ctx context.Context, season, week int) (*services.ImportSummary, error)
}

// AuthService defines methods for authentication
type AuthService interface {
	Login(email, password string) (*models.AuthResponse, error)
	GetUserFromToken(tokenString string) (*models.User, error)
	ChangePassword(userID int, current, next string) error
}

// UserService defines methods for user listing
type UserService interface {
	GetAllUsers() ([]models.User, error)
	GetUserByID(userID int) (*models.User, error)
}
