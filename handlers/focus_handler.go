package handlers

import (
	"context"
	"net/http"
	"time"

	"studyHubAPI/internal/focus"
	"studyHubAPI/services"
)

type FocusHandler struct {
	focusService *services.FocusService
}

func NewFocusHandler(focusService *services.FocusService) *FocusHandler {
	return &FocusHandler{focusService: focusService}
}

func (h *FocusHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req focus.CreateSessionRequest
	if msg, ok := decodeAndValidate(r, &req); !ok {
		respondWithError(w, http.StatusBadRequest, msg)
		return
	}

	sess, err := h.focusService.CreateSession(ctx, &req)
	if err != nil {
		respondWithServiceError(w, "CreateSession", err)
		return
	}

	respondWithJSON(w, http.StatusCreated, sess)
}

func (h *FocusHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, err := queryID(r, "user_id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	sessions, err := h.focusService.ListSessions(ctx, userID)
	if err != nil {
		respondWithServiceError(w, "ListSessions", err)
		return
	}

	respondWithJSON(w, http.StatusOK, sessions)
}

func (h *FocusHandler) Start(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "StartSession", func(ctx context.Context, id int64, _ float64) (*focus.Session, error) {
		return h.focusService.Start(ctx, id)
	}, false)
}

func (h *FocusHandler) Pause(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "PauseSession", h.focusService.Pause, true)
}

func (h *FocusHandler) Resume(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "ResumeSession", func(ctx context.Context, id int64, _ float64) (*focus.Session, error) {
		return h.focusService.Resume(ctx, id)
	}, false)
}

func (h *FocusHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "CompleteSession", h.focusService.Complete, true)
}

func (h *FocusHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "CancelSession", func(ctx context.Context, id int64, _ float64) (*focus.Session, error) {
		return h.focusService.Cancel(ctx, id)
	}, false)
}

// transition handles the session actions. Pause and complete carry the client's
// elapsed seconds in the body.
func (h *FocusHandler) transition(w http.ResponseWriter, r *http.Request, op string,
	fn func(ctx context.Context, id int64, elapsedSec float64) (*focus.Session, error), needsTick bool) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid session id")
		return
	}

	var tick focus.TickRequest
	if needsTick {
		if msg, ok := decodeAndValidate(r, &tick); !ok {
			respondWithError(w, http.StatusBadRequest, msg)
			return
		}
	}

	sess, err := fn(ctx, id, tick.ElapsedSec)
	if err != nil {
		respondWithServiceError(w, op, err)
		return
	}

	respondWithJSON(w, http.StatusOK, sess)
}

func (h *FocusHandler) Summary(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, err := queryID(r, "user_id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := h.focusService.Summary(ctx, userID, r.URL.Query().Get("day"))
	if err != nil {
		respondWithServiceError(w, "FocusSummary", err)
		return
	}

	respondWithJSON(w, http.StatusOK, summary)
}

func (h *FocusHandler) Status(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, err := queryID(r, "user_id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	status, err := h.focusService.Status(ctx, userID)
	if err != nil {
		respondWithServiceError(w, "FocusStatus", err)
		return
	}

	respondWithJSON(w, http.StatusOK, status)
}
