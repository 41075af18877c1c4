package main

import (
	"net/http"
	"os"

	gorilllaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"studyHubAPI/handlers"
	"studyHubAPI/internal/config"
	"studyHubAPI/middleware"
)

type routes struct {
	health    *handlers.HealthHandler
	user      *handlers.UserHandler
	goal      *handlers.GoalHandler
	challenge *handlers.ChallengeHandler
	focus     *handlers.FocusHandler
}

func newRouter(h routes, cfg *config.Config, limiter *middleware.RateLimiter) *mux.Router {
	r := mux.NewRouter()
	r.MethodNotAllowedHandler = http.HandlerFunc(handlers.MethodNotAllowed)

	r.Use(middleware.RequestID)
	r.Use(limiter.Middleware)
	r.Use(middleware.MonitorMiddleware)

	r.Handle("/metrics", middleware.BasicAuthMiddleware(cfg.MetricsUser, cfg.MetricsPass)(promhttp.Handler())).Methods("GET")
	r.HandleFunc("/health", h.health.Health).Methods("GET")

	// -------------------------------------------------------------------------
	// API SUBROUTER
	// -------------------------------------------------------------------------
	// Subrouters answer 404 on a method mismatch unless they carry their own handler.
	api := r.PathPrefix("/api").Subrouter()
	api.MethodNotAllowedHandler = http.HandlerFunc(handlers.MethodNotAllowed)

	api.HandleFunc("/register", h.user.Register).Methods("POST")
	api.HandleFunc("/login", h.user.Login).Methods("POST")
	api.HandleFunc("/users/{id}", h.user.GetUser).Methods("GET")

	api.HandleFunc("/goals", h.goal.CreateGoal).Methods("POST")
	api.HandleFunc("/goals/{user_id}", h.goal.ListGoals).Methods("GET")
	api.HandleFunc("/goals/{id}", h.goal.ToggleGoal).Methods("PUT")

	api.HandleFunc("/challenges", h.challenge.CreateChallenge).Methods("POST")
	api.HandleFunc("/challenges", h.challenge.ListChallenges).Methods("GET")
	api.HandleFunc("/challenges/{id}", h.challenge.GetChallenge).Methods("GET")
	api.HandleFunc("/challenges/{id}", h.challenge.UpdateChallenge).Methods("PUT")
	api.HandleFunc("/challenges/{id}", h.challenge.DeleteChallenge).Methods("DELETE")
	api.HandleFunc("/challenges/{id}/join", h.challenge.JoinChallenge).Methods("POST")
	api.HandleFunc("/challenges/{id}/leave", h.challenge.LeaveChallenge).Methods("DELETE")
	api.HandleFunc("/challenges/{id}/task-toggle", h.challenge.ToggleTask).Methods("PATCH")
	api.HandleFunc("/challenges/{id}/tasks", h.challenge.ReplaceTasks).Methods("PATCH")
	api.HandleFunc("/challenges/{id}/leaderboard", h.challenge.Leaderboard).Methods("GET")
	api.HandleFunc("/challenges/{id}/comments", h.challenge.ListComments).Methods("GET")
	api.HandleFunc("/challenges/{id}/comments", h.challenge.AddComment).Methods("POST")
	api.HandleFunc("/challenges/{id}/comments/{comment_id}", h.challenge.UpdateComment).Methods("PATCH")
	api.HandleFunc("/challenges/{id}/comments/{comment_id}", h.challenge.DeleteComment).Methods("DELETE")

	// -------------------------------------------------------------------------
	// FOCUS TIMER
	// -------------------------------------------------------------------------
	focus := r.PathPrefix("/focus").Subrouter()
	focus.MethodNotAllowedHandler = http.HandlerFunc(handlers.MethodNotAllowed)

	focus.HandleFunc("/sessions", h.focus.CreateSession).Methods("POST")
	focus.HandleFunc("/sessions", h.focus.ListSessions).Methods("GET")
	focus.HandleFunc("/sessions/{id}/start", h.focus.Start).Methods("POST")
	focus.HandleFunc("/sessions/{id}/pause", h.focus.Pause).Methods("POST")
	focus.HandleFunc("/sessions/{id}/resume", h.focus.Resume).Methods("POST")
	focus.HandleFunc("/sessions/{id}/complete", h.focus.Complete).Methods("POST")
	focus.HandleFunc("/sessions/{id}/cancel", h.focus.Cancel).Methods("POST")
	focus.HandleFunc("/summary", h.focus.Summary).Methods("GET")
	focus.HandleFunc("/status", h.focus.Status).Methods("GET")

	return r
}

// wrapServer adds the outer layers: panic recovery, access logs and CORS.
func wrapServer(r http.Handler, cfg *config.Config) http.Handler {
	corsHandler := gorilllaHandlers.CORS(
		gorilllaHandlers.AllowedOrigins(cfg.AllowedOrigins),
		gorilllaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		gorilllaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Request-ID"}),
		gorilllaHandlers.ExposedHeaders([]string{"Content-Length", "X-Request-ID"}),
	)

	logged := gorilllaHandlers.CombinedLoggingHandler(os.Stdout, r)
	recovered := gorilllaHandlers.RecoveryHandler(gorilllaHandlers.PrintRecoveryStack(true))(logged)
	return corsHandler(recovered)
}
