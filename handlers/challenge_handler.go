package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"studyHubAPI/internal/challenge"
	"studyHubAPI/services"
)

type ChallengeHandler struct {
	challengeService *services.ChallengeService
}

func NewChallengeHandler(challengeService *services.ChallengeService) *ChallengeHandler {
	return &ChallengeHandler{challengeService: challengeService}
}

func (h *ChallengeHandler) view(c *challenge.Challenge, viewerID *int64) challenge.View {
	return challenge.Format(c, viewerID, h.challengeService.Today())
}

func (h *ChallengeHandler) CreateChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req challenge.CreateChallengeRequest
	if msg, ok := decodeAndValidate(r, &req); !ok {
		respondWithError(w, http.StatusBadRequest, msg)
		return
	}
	params, err := req.ToParams()
	if err != nil {
		respondWithServiceError(w, "CreateChallenge", err)
		return
	}

	c, err := h.challengeService.CreateChallenge(ctx, params)
	if err != nil {
		respondWithServiceError(w, "CreateChallenge", err)
		return
	}

	respondWithJSON(w, http.StatusCreated, h.view(c, &c.CreatorID))
}

func (h *ChallengeHandler) ListChallenges(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	viewerID, err := queryID(r, "current_user_id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	list, err := h.challengeService.ListChallenges(ctx)
	if err != nil {
		respondWithServiceError(w, "ListChallenges", err)
		return
	}

	views := make([]challenge.View, 0, len(list))
	for _, c := range list {
		views = append(views, h.view(c, viewerID))
	}
	respondWithJSON(w, http.StatusOK, views)
}

func (h *ChallengeHandler) GetChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid challenge id")
		return
	}
	viewerID, err := queryID(r, "current_user_id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	c, err := h.challengeService.GetChallenge(ctx, id)
	if err != nil {
		respondWithServiceError(w, "GetChallenge", err)
		return
	}

	respondWithJSON(w, http.StatusOK, h.view(c, viewerID))
}

func (h *ChallengeHandler) UpdateChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid challenge id")
		return
	}
	viewerID, err := queryID(r, "current_user_id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req challenge.UpdateChallengeRequest
	if msg, ok := decodeAndValidate(r, &req); !ok {
		respondWithError(w, http.StatusBadRequest, msg)
		return
	}
	params, err := req.ToParams()
	if err != nil {
		respondWithServiceError(w, "UpdateChallenge", err)
		return
	}

	c, err := h.challengeService.UpdateChallenge(ctx, id, params)
	if err != nil {
		respondWithServiceError(w, "UpdateChallenge", err)
		return
	}

	respondWithJSON(w, http.StatusOK, h.view(c, viewerID))
}

func (h *ChallengeHandler) ReplaceTasks(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid challenge id")
		return
	}
	viewerID, err := queryID(r, "current_user_id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req challenge.ReplaceTasksRequest
	if msg, ok := decodeAndValidate(r, &req); !ok {
		respondWithError(w, http.StatusBadRequest, msg)
		return
	}

	c, err := h.challengeService.ReplaceTasks(ctx, id, challenge.Titles(*req.Tasks))
	if err != nil {
		respondWithServiceError(w, "ReplaceTasks", err)
		return
	}

	respondWithJSON(w, http.StatusOK, h.view(c, viewerID))
}

func (h *ChallengeHandler) DeleteChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid challenge id")
		return
	}
	userID, err := requiredQueryID(r, "user_id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.challengeService.DeleteChallenge(ctx, id, userID); err != nil {
		respondWithServiceError(w, "DeleteChallenge", err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message":      "Challenge deleted successfully",
		"challenge_id": id,
	})
}

func (h *ChallengeHandler) JoinChallenge(w http.ResponseWriter, r *http.Request) {
	h.membership(w, r, "JoinChallenge", h.challengeService.JoinChallenge)
}

func (h *ChallengeHandler) LeaveChallenge(w http.ResponseWriter, r *http.Request) {
	h.membership(w, r, "LeaveChallenge", h.challengeService.LeaveChallenge)
}

func (h *ChallengeHandler) membership(w http.ResponseWriter, r *http.Request, op string,
	fn func(ctx context.Context, id, userID int64) (*challenge.Challenge, error)) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid challenge id")
		return
	}
	userID, err := requiredQueryID(r, "user_id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	c, err := fn(ctx, id, userID)
	if err != nil {
		respondWithServiceError(w, op, err)
		return
	}

	respondWithJSON(w, http.StatusOK, h.view(c, &userID))
}

// ToggleTask accepts the task either as task_id or as a zero-based task_index.
func (h *ChallengeHandler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid challenge id")
		return
	}
	userID, err := requiredQueryID(r, "user_id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	ref, err := taskRef(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	c, _, err := h.challengeService.ToggleTask(ctx, id, userID, ref)
	if err != nil {
		respondWithServiceError(w, "ToggleTask", err)
		return
	}

	respondWithJSON(w, http.StatusOK, h.view(c, &userID))
}

func (h *ChallengeHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid challenge id")
		return
	}

	entries, err := h.challengeService.Leaderboard(ctx, id)
	if err != nil {
		respondWithServiceError(w, "Leaderboard", err)
		return
	}

	respondWithJSON(w, http.StatusOK, entries)
}

func taskRef(r *http.Request) (services.TaskRef, error) {
	taskID, err := queryID(r, "task_id")
	if err != nil {
		return services.TaskRef{}, err
	}
	if taskID != nil {
		return services.TaskRef{ID: taskID}, nil
	}

	raw := r.URL.Query().Get("task_index")
	if raw == "" {
		return services.TaskRef{}, errMissingTask
	}
	index, err := strconv.Atoi(raw)
	if err != nil {
		return services.TaskRef{}, errBadTaskIndex
	}
	return services.TaskRef{Index: &index}, nil
}
