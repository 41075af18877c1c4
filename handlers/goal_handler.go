package handlers

import (
	"context"
	"net/http"
	"time"

	"studyHubAPI/internal/goal"
	"studyHubAPI/services"
)

type GoalHandler struct {
	goalService *services.GoalService
}

func NewGoalHandler(goalService *services.GoalService) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

func (h *GoalHandler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req goal.CreateGoalRequest
	if msg, ok := decodeAndValidate(r, &req); !ok {
		respondWithError(w, http.StatusBadRequest, msg)
		return
	}

	g, err := h.goalService.CreateGoal(ctx, &req)
	if err != nil {
		respondWithServiceError(w, "CreateGoal", err)
		return
	}

	respondWithJSON(w, http.StatusCreated, g)
}

func (h *GoalHandler) ListGoals(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, err := pathID(r, "user_id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	goals, err := h.goalService.ListGoals(ctx, userID)
	if err != nil {
		respondWithServiceError(w, "ListGoals", err)
		return
	}

	respondWithJSON(w, http.StatusOK, goals)
}

// ToggleGoal flips the goal's completed flag. The request has no body.
func (h *GoalHandler) ToggleGoal(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid goal id")
		return
	}

	g, err := h.goalService.ToggleGoal(ctx, id)
	if err != nil {
		respondWithServiceError(w, "ToggleGoal", err)
		return
	}

	respondWithJSON(w, http.StatusOK, g)
}
