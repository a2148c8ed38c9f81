package handlers

import (
	"net/http"

	"no-homers/interfaces"
	"no-homers/logging"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

// GameHandler serves games, lines and the pool's spread overrides
type GameHandler struct {
	lines     interfaces.LinesService
	importer  interfaces.LineImporter
	validator *validator.Validate
	logger    *logging.Logger
}

// NewGameHandler creates a new game handler. importer may be nil, which
// disables the refresh endpoint.
func NewGameHandler(lines interfaces.LinesService, importer interfaces.LineImporter) *GameHandler {
	return &GameHandler{
		lines:     lines,
		importer:  importer,
		validator: newValidator(),
		logger:    logging.WithPrefix("GameHandler"),
	}
}

// Games lists the week's games with effective spreads
func (h *GameHandler) Games(w http.ResponseWriter, r *http.Request) {
	season, week, err := seasonWeek(r, h.validator)
	if err != nil {
		writeError(w, r, err)
		return
	}
	games, err := h.lines.WeekGames(r.Context(), season, week)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, games)
}

// Lines shows market and pool spreads side by side
func (h *GameHandler) Lines(w http.ResponseWriter, r *http.Request) {
	season, week, err := seasonWeek(r, h.validator)
	if err != nil {
		writeError(w, r, err)
		return
	}
	lines, err := h.lines.GameLines(r.Context(), season, week)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lines)
}

// Rankings orders games for survivor and underdog picking
func (h *GameHandler) Rankings(w http.ResponseWriter, r *http.Request) {
	season, week, err := seasonWeek(r, h.validator)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rankings, err := h.lines.Rankings(r.Context(), season, week)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rankings)
}

// PoolSpreads lists the week's overrides
func (h *GameHandler) PoolSpreads(w http.ResponseWriter, r *http.Request) {
	season, week, err := seasonWeek(r, h.validator)
	if err != nil {
		writeError(w, r, err)
		return
	}
	spreads, err := h.lines.PoolSpreads(r.Context(), season, week)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, spreads)
}

type poolSpreadsRequest struct {
	Spreads map[string]float64 `json:"spreads" validate:"required,dive,keys,required,endkeys,min=-50,max=50,half_point"`
}

// SavePoolSpreads replaces every override of the week
func (h *GameHandler) SavePoolSpreads(w http.ResponseWriter, r *http.Request) {
	season, week, err := seasonWeek(r, h.validator)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req poolSpreadsRequest
	if err := decodeAndValidate(r, h.validator, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.lines.SavePoolSpreads(r.Context(), season, week, req.Spreads); err != nil {
		writeError(w, r, err)
		return
	}
	spreads, err := h.lines.PoolSpreads(r.Context(), season, week)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, spreads)
}

type poolSpreadRequest struct {
	Spread *float64 `json:"spread" validate:"required,min=-50,max=50,half_point"`
}

// UpdatePoolSpread sets one game's override
func (h *GameHandler) UpdatePoolSpread(w http.ResponseWriter, r *http.Request) {
	season, week, err := seasonWeek(r, h.validator)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req poolSpreadRequest
	if err := decodeAndValidate(r, h.validator, &req); err != nil {
		writeError(w, r, err)
		return
	}
	row, err := h.lines.UpdatePoolSpread(r.Context(), season, week, mux.Vars(r)["gameID"], *req.Spread)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

// Weeks lists weeks of the season that have lines
func (h *GameHandler) Weeks(w http.ResponseWriter, r *http.Request) {
	season, _, err := seasonWeek(r, h.validator)
	if err != nil {
		writeError(w, r, err)
		return
	}
	weeks, err := h.lines.AvailableWeeks(r.Context(), season)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, weeks)
}

// MaxWeek returns the latest week with lines, or null
func (h *GameHandler) MaxWeek(w http.ResponseWriter, r *http.Request) {
	season, _, err := seasonWeek(r, h.validator)
	if err != nil {
		writeError(w, r, err)
		return
	}
	week, ok, err := h.lines.MaxWeek(r.Context(), season)
	if err != nil {
		writeError(w, r, err)
		return
	}
	body := map[string]interface{}{"season": season, "max_week": nil}
	if ok {
		body["max_week"] = week
	}
	writeJSON(w, http.StatusOK, body)
}

// Import refreshes the week from the configured feed
func (h *GameHandler) Import(w http.ResponseWriter, r *http.Request) {
	if h.importer == nil {
		http.Error(w, "No line feed configured", http.StatusServiceUnavailable)
		return
	}
	season, week, err := seasonWeek(r, h.validator)
	if err != nil {
		writeError(w, r, err)
		return
	}
	summary, err := h.importer.Import(r.Context(), season, week)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.logger.Infof("Imported %d lines for %d week %d", summary.Lines, season, week)
	writeJSON(w, http.StatusOK, summary)
}
