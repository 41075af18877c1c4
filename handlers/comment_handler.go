package handlers

import (
	"context"
	"net/http"
	"time"

	"studyHubAPI/internal/challenge"
)

func (h *ChallengeHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid challenge id")
		return
	}

	comments, err := h.challengeService.ListComments(ctx, id)
	if err != nil {
		respondWithServiceError(w, "ListComments", err)
		return
	}

	respondWithJSON(w, http.StatusOK, comments)
}

// AddComment takes the content from a JSON body or, failing that, the content query parameter.
func (h *ChallengeHandler) AddComment(w http.ResponseWriter, r *http.Request) {
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
	content, ok := commentContent(w, r)
	if !ok {
		return
	}

	cm, err := h.challengeService.AddComment(ctx, id, userID, content)
	if err != nil {
		respondWithServiceError(w, "AddComment", err)
		return
	}

	respondWithJSON(w, http.StatusCreated, cm)
}

func (h *ChallengeHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid challenge id")
		return
	}
	commentID, err := pathID(r, "comment_id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid comment id")
		return
	}
	userID, err := requiredQueryID(r, "user_id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	content, ok := commentContent(w, r)
	if !ok {
		return
	}

	cm, err := h.challengeService.UpdateComment(ctx, id, commentID, userID, content)
	if err != nil {
		respondWithServiceError(w, "UpdateComment", err)
		return
	}

	respondWithJSON(w, http.StatusOK, cm)
}

func (h *ChallengeHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid challenge id")
		return
	}
	commentID, err := pathID(r, "comment_id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid comment id")
		return
	}
	userID, err := requiredQueryID(r, "user_id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.challengeService.DeleteComment(ctx, id, commentID, userID); err != nil {
		respondWithServiceError(w, "DeleteComment", err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message":    "Comment deleted successfully",
		"comment_id": commentID,
	})
}

func commentContent(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req challenge.CommentRequest
	if msg, ok := decodeOptional(r, &req); !ok {
		respondWithError(w, http.StatusBadRequest, msg)
		return "", false
	}
	if req.Content == "" {
		req.Content = r.URL.Query().Get("content")
	}
	return req.Content, true
}
