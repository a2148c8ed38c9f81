package handlers

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"

	"no-homers/logging"
	"no-homers/models"
	"no-homers/services"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

// ErrInvalidInput marks malformed requests
var ErrInvalidInput = errors.New("invalid input")

type errorBody struct {
	Error     string `json:"error"`
	Reason    string `json:"reason"`
	RequestID string `json:"request_id,omitempty"`
}

type mappedError struct {
	status int
	reason string
}

func mapError(err error) mappedError {
	switch {
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, models.ErrUnknownTeam),
		errors.Is(err, models.ErrUnknownPickKind),
		errors.Is(err, models.ErrInvalidGameID),
		errors.Is(err, models.ErrWeekMismatch),
		errors.Is(err, models.ErrTeamNotInGame),
		errors.Is(err, models.ErrNoPicker):
		return mappedError{http.StatusBadRequest, "invalidInput"}
	case errors.Is(err, services.ErrInvalidCredentials):
		return mappedError{http.StatusUnauthorized, "unauthorized"}
	case errors.Is(err, models.ErrGameNotFound),
		errors.Is(err, models.ErrUserNotFound):
		return mappedError{http.StatusNotFound, "notFound"}
	case errors.Is(err, models.ErrOtherSidePicked),
		errors.Is(err, models.ErrPickCapReached),
		errors.Is(err, models.ErrNotMNFGame):
		return mappedError{http.StatusConflict, "pickRejected"}
	case errors.Is(err, models.ErrEmptyPickSet):
		return mappedError{http.StatusUnprocessableEntity, "emptyPickSet"}
	}
	return mappedError{http.StatusInternalServerError, "internal"}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Errorf("Failed to encode response: %v", err)
	}
}

// writeError maps domain errors to a status. Server errors are logged and
// their detail withheld.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	mapped := mapError(err)
	message := err.Error()
	if mapped.status == http.StatusInternalServerError {
		logging.Errorf("%s %s failed: %+v", r.Method, r.URL.Path, err)
		message = "internal server error"
	}
	writeJSON(w, mapped.status, errorBody{
		Error:     message,
		Reason:    mapped.reason,
		RequestID: w.Header().Get("X-Request-ID"),
	})
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("half_point", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return f*2 == math.Trunc(f*2)
	})
	return v
}

// decodeAndValidate reads a JSON body into payload and checks its tags
func decodeAndValidate(r *http.Request, v *validator.Validate, payload interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(payload); err != nil {
		return errors.Wrapf(ErrInvalidInput, "bad JSON: %v", err)
	}
	if err := v.StructCtx(r.Context(), payload); err != nil {
		return errors.Wrapf(ErrInvalidInput, "validation failed: %v", err)
	}
	return nil
}

type weekParams struct {
	Season int `validate:"min=2020,max=2035"`
	Week   int `validate:"min=1,max=18"`
}

// seasonWeek reads {season} and {week} path variables. A missing week is
// returned as zero.
func seasonWeek(r *http.Request, v *validator.Validate) (int, int, error) {
	vars := mux.Vars(r)
	season, err := strconv.Atoi(vars["season"])
	if err != nil {
		return 0, 0, errors.Wrapf(ErrInvalidInput, "season %q", vars["season"])
	}
	week := 1
	if raw, ok := vars["week"]; ok {
		if week, err = strconv.Atoi(raw); err != nil {
			return 0, 0, errors.Wrapf(ErrInvalidInput, "week %q", raw)
		}
	}
	if err := v.Struct(weekParams{Season: season, Week: week}); err != nil {
		return 0, 0, errors.Wrapf(ErrInvalidInput, "%v", err)
	}
	if _, ok := vars["week"]; !ok {
		week = 0
	}
	return season, week, nil
}
