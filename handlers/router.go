package handlers

import (
	"net/http"

	"no-homers/middleware"

	"github.com/gorilla/mux"
)

// Router wires every handler behind the shared middleware
type Router struct {
	Auth        *AuthHandler
	Picks       *PickHandler
	Games       *GameHandler
	Scores      *ScoreHandler
	Health      *HealthHandler
	AuthMW      *middleware.AuthMiddleware
	BehindProxy bool
}

const weekPath = "/{season:[0-9]+}/{week:[0-9]+}"

// Handler builds the mux router
func (rt Router) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.RequestLogger)
	r.Use(middleware.SecurityMiddleware(rt.BehindProxy))

	health := rt.Health
	if health == nil {
		health = NewHealthHandler(nil, nil)
	}
	r.HandleFunc("/healthz", health.Health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/login", rt.Auth.Login).Methods(http.MethodPost)
	api.HandleFunc("/logout", rt.Auth.Logout).Methods(http.MethodPost)

	// Public read-only views
	public := api.PathPrefix("").Subrouter()
	public.Use(rt.AuthMW.OptionalAuth)
	public.HandleFunc("/games"+weekPath, rt.Games.Games).Methods(http.MethodGet)
	public.HandleFunc("/lines"+weekPath, rt.Games.Lines).Methods(http.MethodGet)
	public.HandleFunc("/rankings"+weekPath, rt.Games.Rankings).Methods(http.MethodGet)
	public.HandleFunc("/pool-spreads"+weekPath, rt.Games.PoolSpreads).Methods(http.MethodGet)
	public.HandleFunc("/weeks/{season:[0-9]+}", rt.Games.Weeks).Methods(http.MethodGet)
	public.HandleFunc("/weeks/{season:[0-9]+}/max", rt.Games.MaxWeek).Methods(http.MethodGet)
	public.HandleFunc("/summary"+weekPath, rt.Picks.Summary).Methods(http.MethodGet)
	public.HandleFunc("/scores"+weekPath, rt.Scores.Week).Methods(http.MethodGet)
	public.HandleFunc("/leaderboard/{season:[0-9]+}", rt.Scores.Leaderboard).Methods(http.MethodGet)
	public.HandleFunc("/stats", rt.Picks.Stats).Methods(http.MethodGet)

	// Signed-in picker
	me := api.PathPrefix("").Subrouter()
	me.Use(rt.AuthMW.RequireAuth)
	me.HandleFunc("/me", rt.Auth.Me).Methods(http.MethodGet)
	me.HandleFunc("/me/password", rt.Auth.ChangePassword).Methods(http.MethodPost)
	me.HandleFunc("/users", rt.Scores.Users).Methods(http.MethodGet)
	me.HandleFunc("/picks"+weekPath, rt.Picks.Draft).Methods(http.MethodGet)
	me.HandleFunc("/picks"+weekPath, rt.Picks.Submit).Methods(http.MethodPut)
	me.HandleFunc("/picks"+weekPath, rt.Picks.Delete).Methods(http.MethodDelete)
	me.HandleFunc("/picks"+weekPath+"/click", rt.Picks.Click).Methods(http.MethodPost)
	me.HandleFunc("/picks"+weekPath+"/save", rt.Picks.Save).Methods(http.MethodPost)
	me.HandleFunc("/picks"+weekPath+"/reset", rt.Picks.Reset).Methods(http.MethodPost)
	me.HandleFunc("/survivor"+weekPath+"/used", rt.Picks.SurvivorUsed).Methods(http.MethodGet)
	me.HandleFunc("/scores"+weekPath+"/me", rt.Scores.Mine).Methods(http.MethodGet)

	// Administrators
	admin := api.PathPrefix("").Subrouter()
	admin.Use(rt.AuthMW.RequireAuth, rt.AuthMW.RequireAdmin)
	admin.HandleFunc("/pool-spreads"+weekPath, rt.Games.SavePoolSpreads).Methods(http.MethodPut)
	admin.HandleFunc("/pool-spreads"+weekPath+"/{gameID}", rt.Games.UpdatePoolSpread).Methods(http.MethodPatch)
	admin.HandleFunc("/import"+weekPath, rt.Games.Import).Methods(http.MethodPost)

	return r
}
