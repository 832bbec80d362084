package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"app/internal/api/v1/dto"
	"app/internal/middleware"
	"app/internal/model"
	"app/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// UserHandler handles profile provisioning and the dashboard usage read.
type UserHandler struct {
	userRepo repository.UserRepository
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userRepo repository.UserRepository, v *validator.Validate, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		userRepo: userRepo,
		validate: v,
		logger:   logger.With().Str("handler", "UserHandler").Logger(),
	}
}

// RegisterRoutes registers the user endpoints.
func (h *UserHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/users/me", authMw(http.HandlerFunc(h.handleMe)))
}

func (h *UserHandler) handleMe(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createUser(w, r)
	case http.MethodGet:
		h.getUser(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// createUser godoc
// @Summary Provision the caller's profile
// @Description Creates the profile row for a newly signed-up user on the free plan.
// @Tags users
// @Accept json
// @Produce json
// @Param request body dto.CreateUserRequestDTO true "Profile details"
// @Success 201 {object} dto.UserResponseDTO
// @Failure 400 {object} dto.ErrorResponseDTO
// @Failure 401 {object} dto.ErrorResponseDTO
// @Router /users/me [post]
func (h *UserHandler) createUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req dto.CreateUserRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	user := &model.User{
		UserID:    userID,
		Name:      req.Name,
		Email:     req.Email,
		AvatarURL: req.AvatarURL,
	}
	if err := h.userRepo.CreateUser(r.Context(), user); err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to create user profile")
		writeError(w, http.StatusInternalServerError, "Failed to create user profile")
		return
	}

	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

// getUser godoc
// @Summary Get the caller's profile and usage
// @Description Returns the profile with the current-period usage snapshot, rollover applied.
// @Tags users
// @Produce json
// @Success 200 {object} dto.UserResponseDTO
// @Failure 401 {object} dto.ErrorResponseDTO
// @Failure 404 {object} dto.ErrorResponseDTO
// @Router /users/me [get]
func (h *UserHandler) getUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.userRepo.GetUserByID(r.Context(), userID)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to load user profile")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "User profile not found")
		return
	}

	// The stored snapshot may predate the month boundary; GetUsage applies
	// and persists the rollover so remaining credits render correctly.
	usage, err := h.userRepo.GetUsage(r.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "User profile not found")
			return
		}
		h.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to load usage snapshot")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	user.UsageCount = usage.UsageCount
	user.UsageResetAt = usage.UsageResetAt

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func toUserResponse(u *model.User) dto.UserResponseDTO {
	return dto.UserResponseDTO{
		UserID:            u.UserID,
		Name:              u.Name,
		Email:             u.Email,
		AvatarURL:         u.AvatarURL,
		Plan:              u.Plan,
		UsageCount:        u.UsageCount,
		UsageLimitMonthly: u.UsageLimitMonthly,
		UsageResetAt:      u.UsageResetAt,
		CreatedAt:         u.CreatedAt,
	}
}
