package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/contactly/contactly/internal/auth"
	"github.com/contactly/contactly/internal/handler/dto"
	"github.com/contactly/contactly/internal/service"
)

// UserHandler handles HTTP requests for accounts and sessions.
type UserHandler struct {
	svc    *service.UserService
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		svc:    svc,
		logger: logger,
	}
}

// Register handles POST /api/users.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := service.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Name:     req.Name,
	}

	user, err := h.svc.Register(r.Context(), input)
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			writeJSON(w, http.StatusBadRequest, dto.RegisterConflictResponse{
				Data:   dto.UserResponse{Username: strings.TrimSpace(input.Username), Name: strings.TrimSpace(input.Name)},
				Errors: map[string][]string{"username": {"username already registered"}},
			})
			return
		}
		handleServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("user_registered", "user_id", user.ID)

	writeData(w, http.StatusCreated, dto.ToUserResponse(user))
}

// Login handles POST /api/users/login.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.svc.Login(r.Context(), service.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("user_logged_in", "user_id", session.User.ID)

	writeData(w, http.StatusOK, dto.ToLoginResponse(session))
}

// Current handles GET /api/users/current.
func (h *UserHandler) Current(w http.ResponseWriter, r *http.Request) {
	user := auth.MustUserFromContext(r.Context())
	writeData(w, http.StatusOK, dto.ToUserResponse(user))
}

// UpdateCurrent handles PATCH /api/users/current.
func (h *UserHandler) UpdateCurrent(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.svc.UpdateProfile(r.Context(), auth.MustUserFromContext(r.Context()), service.UpdateProfileInput{
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("user_updated",
		"user_id", user.ID,
		"name_changed", req.Name != nil,
		"password_changed", req.Password != nil,
	)

	writeData(w, http.StatusOK, dto.ToUserResponse(user))
}

// Logout handles DELETE /api/users/logout.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user := auth.MustUserFromContext(r.Context())

	if err := h.svc.Logout(r.Context(), user); err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("user_logged_out", "user_id", user.ID)

	writeData(w, http.StatusOK, true)
}
