package handlers

import (
	"net/http"

	"no-homers/interfaces"
	"no-homers/logging"
	"no-homers/middleware"
	"no-homers/models"

	"github.com/go-playground/validator/v10"
)

// PickHandler serves the pick entry workflow for the signed-in picker
type PickHandler struct {
	picks     interfaces.PickService
	validator *validator.Validate
	logger    *logging.Logger
}

func NewPickHandler(picks interfaces.PickService) *PickHandler {
	return &PickHandler{
		picks:     picks,
		validator: newValidator(),
		logger:    logging.WithPrefix("PickHandler"),
	}
}

// PickSetView is the JSON shape of a pick set
type PickSetView struct {
	Season         int                 `json:"season"`
	Week           int                 `json:"week"`
	Picker         string              `json:"picker"`
	Picks          []models.PickRecord `json:"picks"`
	SpreadPicks    int                 `json:"spread_picks"`
	BestBets       int                 `json:"best_bets"`
	MaxSpreadPicks int                 `json:"max_spread_picks"`
}

func viewPickSet(set models.PickSet) PickSetView {
	return PickSetView{
		Season:         set.Season(),
		Week:           set.Week(),
		Picker:         set.Picker(),
		Picks:          set.Records(),
		SpreadPicks:    set.SpreadPickCount(),
		BestBets:       set.BestBetCount(),
		MaxSpreadPicks: models.MaxSpreadPicks,
	}
}

type clickRequest struct {
	GameID string `json:"game_id" validate:"required"`
	Team   string `json:"team" validate:"required,min=2,max=3"`
	Kind   string `json:"kind" validate:"omitempty,oneof=regular best_bet survivor underdog mnf"`
}

type submitRequest struct {
	Picks []submitPick `json:"picks" validate:"required,min=1,dive"`
}

type submitPick struct {
	GameID string `json:"game_id" validate:"required"`
	Team   string `json:"team_picked" validate:"required,min=2,max=3"`
	Kind   string `json:"pick_type" validate:"omitempty,oneof=regular best_bet survivor underdog mnf"`
}

// Draft returns the picker's working set for the week
func (h *PickHandler) Draft(w http.ResponseWriter, r *http.Request) {
	season, week, err := seasonWeek(r, h.validator)
	if err != nil {
		writeError(w, r, err)
		return
	}
	set, err := h.picks.GetDraft(r.Context(), picker(r), season, week)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewPickSet(set))
}

// Click applies one click. A spread click with no kind cycles the regular
// slot through regular and best bet.
func (h *PickHandler) Click(w http.ResponseWriter, r *http.Request) {
	season, week, err := seasonWeek(r, h.validator)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req clickRequest
	if err := decodeAndValidate(r, h.validator, &req); err != nil {
		writeError(w, r, err)
		return
	}
	kind, err := models.ParsePickKind(req.Kind)
	if err != nil {
		writeError(w, r, err)
		return
	}

	set, err := h.picks.Click(r.Context(), picker(r), season, week, req.GameID, req.Team, kind)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewPickSet(set))
}

// Save stores the draft, replacing the saved week
func (h *PickHandler) Save(w http.ResponseWriter, r *http.Request) {
	season, week, err := seasonWeek(r, h.validator)
	if err != nil {
		writeError(w, r, err)
		return
	}
	set, err := h.picks.Save(r.Context(), picker(r), season, week)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewPickSet(set))
}

// Submit stores a complete pick list in one request
func (h *PickHandler) Submit(w http.ResponseWriter, r *http.Request) {
	season, week, err := seasonWeek(r, h.validator)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req submitRequest
	if err := decodeAndValidate(r, h.validator, &req); err != nil {
		writeError(w, r, err)
		return
	}

	records := make([]models.PickRecord, 0, len(req.Picks))
	for _, p := range req.Picks {
		kind, err := models.ParsePickKind(p.Kind)
		if err != nil {
			writeError(w, r, err)
			return
		}
		records = append(records, models.PickRecord{GameID: p.GameID, Team: p.Team, Kind: kind})
	}

	set, err := h.picks.Submit(r.Context(), picker(r), season, week, records)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewPickSet(set))
}

// Reset drops unsaved changes
func (h *PickHandler) Reset(w http.ResponseWriter, r *http.Request) {
	season, week, err := seasonWeek(r, h.validator)
	if err != nil {
		writeError(w, r, err)
		return
	}
	set, err := h.picks.Reset(r.Context(), picker(r), season, week)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewPickSet(set))
}

// Delete removes the picker's saved week
func (h *PickHandler) Delete(w http.ResponseWriter, r *http.Request) {
	season, week, err := seasonWeek(r, h.validator)
	if err != nil {
		writeError(w, r, err)
		return
	}
	n, err := h.picks.DeletePicks(r.Context(), picker(r), season, week)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"deleted": n})
}

// Summary shows every picker's saved picks for the week
func (h *PickHandler) Summary(w http.ResponseWriter, r *http.Request) {
	season, week, err := seasonWeek(r, h.validator)
	if err != nil {
		writeError(w, r, err)
		return
	}
	summary, err := h.picks.WeekSummary(r.Context(), season, week)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// SurvivorUsed lists the picker's survivor teams from earlier weeks
func (h *PickHandler) SurvivorUsed(w http.ResponseWriter, r *http.Request) {
	season, week, err := seasonWeek(r, h.validator)
	if err != nil {
		writeError(w, r, err)
		return
	}
	used, err := h.picks.SurvivorUsedTeams(r.Context(), picker(r), season, week)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, used)
}

// Stats describes the saved picks
func (h *PickHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.picks.Stats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func picker(r *http.Request) string {
	if user := middleware.GetUserFromContext(r); user != nil {
		return user.Picker()
	}
	return ""
}
