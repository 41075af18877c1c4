package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"studyHubAPI/internal/user"
	"studyHubAPI/services"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req user.RegisterRequest
	if msg, ok := decodeAndValidate(r, &req); !ok {
		respondWithError(w, http.StatusBadRequest, msg)
		return
	}

	u, err := h.userService.Register(ctx, &req)
	if err != nil {
		respondWithServiceError(w, "Register", err)
		return
	}

	respondWithJSON(w, http.StatusOK, u.AuthResponse("User registered successfully"))
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req user.LoginRequest
	if msg, ok := decodeAndValidate(r, &req); !ok {
		respondWithError(w, http.StatusBadRequest, msg)
		return
	}

	u, err := h.userService.Login(ctx, &req)
	if err != nil {
		respondWithServiceError(w, "Login", err)
		return
	}

	log.Printf("Login: user %d signed in", u.ID)
	respondWithJSON(w, http.StatusOK, u.AuthResponse("Login successful"))
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	u, err := h.userService.GetUser(ctx, id)
	if err != nil {
		respondWithServiceError(w, "GetUser", err)
		return
	}

	respondWithJSON(w, http.StatusOK, u)
}
