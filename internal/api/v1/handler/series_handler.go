package handler

import (
	"encoding/json"
	"net/http"

	"app/internal/api/v1/dto"
	"app/internal/middleware"
	"app/internal/model"
	"app/internal/repository"
	"app/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// SeriesHandler orchestrates the four-post series pipeline. Series is a
// Creator-only feature and costs three credits per call; the posts are
// returned directly and not persisted as a job.
type SeriesHandler struct {
	userRepo   repository.UserRepository
	gateSvc    *service.GateService
	contentSvc *service.ContentService
	genSvc     *service.GenerationService
	validate   *validator.Validate
	logger     zerolog.Logger
}

// NewSeriesHandler creates a new SeriesHandler.
func NewSeriesHandler(
	userRepo repository.UserRepository,
	gateSvc *service.GateService,
	contentSvc *service.ContentService,
	genSvc *service.GenerationService,
	v *validator.Validate,
	logger zerolog.Logger,
) *SeriesHandler {
	return &SeriesHandler{
		userRepo:   userRepo,
		gateSvc:    gateSvc,
		contentSvc: contentSvc,
		genSvc:     genSvc,
		validate:   v,
		logger:     logger.With().Str("handler", "SeriesHandler").Logger(),
	}
}

// RegisterRoutes registers the series endpoint.
func (h *SeriesHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/series", authMw(http.HandlerFunc(h.Series)))
}

// Series godoc
// @Summary Generate a connected four-post series
// @Description Creator-only. Produces four narratively connected posts in one backend call.
// @Tags generate
// @Accept json
// @Produce json
// @Param request body dto.SeriesRequestDTO true "Series request"
// @Success 200 {object} dto.SeriesResponseDTO
// @Failure 400 {object} dto.ErrorResponseDTO
// @Failure 401 {object} dto.ErrorResponseDTO
// @Failure 402 {object} dto.ErrorResponseDTO "Monthly limit reached"
// @Failure 403 {object} dto.ErrorResponseDTO "Creator plan required"
// @Failure 429 {object} dto.ErrorResponseDTO "Cooldown active"
// @Failure 500 {object} dto.ErrorResponseDTO
// @Router /series [post]
func (h *SeriesHandler) Series(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

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
		writeError(w, http.StatusUnauthorized, "User profile not found")
		return
	}

	if !user.IsPaid() {
		writeError(w, http.StatusForbidden, "The Series feature is available only on the Creator plan.")
		return
	}

	var req dto.SeriesRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	if allowed, remaining := h.gateSvc.CheckCooldown(user); !allowed {
		writeJSON(w, http.StatusTooManyRequests, dto.ErrorResponseDTO{
			Error:            "Cooldown active",
			SecondsRemaining: remaining,
		})
		return
	}

	limited, usage, err := h.gateSvc.CheckUsageLimit(r.Context(), userID)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("Usage limit check failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	// A series costs three credits; the whole cost must fit in the remaining
	// budget before dispatch.
	if limited || usage.UsageCount+service.SeriesUsageCost > usage.UsageLimitMonthly {
		writeJSON(w, http.StatusPaymentRequired, dto.ErrorResponseDTO{
			Error:           "Monthly generation limit reached",
			UpgradeRequired: true,
		})
		return
	}

	input, err := h.contentSvc.Resolve(r.Context(), req.InputKind, req.InputText, req.URL, true)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	formats := make([]model.Format, len(req.PostFormats))
	for i, f := range req.PostFormats {
		formats[i] = model.Format(f)
	}
	genCtx := model.GenerateContext{
		ReaderContext: req.Context.ReaderContext,
		Angle:         req.Context.Angle,
		EmojiOn:       req.Context.EmojiOn,
		TonePreset:    req.Context.TonePreset,
	}

	posts, err := h.genSvc.GenerateSeries(r.Context(), input, formats, genCtx)
	if err != nil {
		writeGenerationError(w, h.logger, err)
		return
	}

	if err := h.userRepo.IncrementUsage(r.Context(), userID, service.SeriesUsageCost); err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to record series usage")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, dto.SeriesResponseDTO{Posts: posts})
}
