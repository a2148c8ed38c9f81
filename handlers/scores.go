package handlers

import (
	"net/http"

	"no-homers/interfaces"
	"no-homers/models"

	"github.com/go-playground/validator/v10"
)

// ScoreHandler serves graded weeks and the season leaderboard
type ScoreHandler struct {
	scoring   interfaces.ScoringService
	users     interfaces.UserService
	validator *validator.Validate
}

func NewScoreHandler(scoring interfaces.ScoringService, users interfaces.UserService) *ScoreHandler {
	return &ScoreHandler{
		scoring:   scoring,
		users:     users,
		validator: newValidator(),
	}
}

func (h *ScoreHandler) Week(w http.ResponseWriter, r *http.Request) {
	season, week, err := seasonWeek(r, h.validator)
	if err != nil {
		writeError(w, r, err)
		return
	}
	weekly, err := h.scoring.ScoreWeek(r.Context(), season, week)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, weekly)
}

// Mine grades the signed-in picker's week
func (h *ScoreHandler) Mine(w http.ResponseWriter, r *http.Request) {
	season, week, err := seasonWeek(r, h.validator)
	if err != nil {
		writeError(w, r, err)
		return
	}
	score, picks, err := h.scoring.PickerWeek(r.Context(), picker(r), season, week)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Score models.PickerScore  `json:"score"`
		Picks []models.ScoredPick `json:"picks"`
	}{score, picks})
}

func (h *ScoreHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	season, _, err := seasonWeek(r, h.validator)
	if err != nil {
		writeError(w, r, err)
		return
	}
	board, err := h.scoring.SeasonLeaderboard(r.Context(), season)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

// Users lists pool members
func (h *ScoreHandler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.GetAllUsers()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}
