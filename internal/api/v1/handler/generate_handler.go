package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"app/internal/api/v1/dto"
	"app/internal/middleware"
	"app/internal/model"
	"app/internal/repository"
	"app/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// GenerateHandler orchestrates the single-post generation pipeline. The gate
// order is fixed: entitlement, cooldown, then quota or regeneration ledger,
// and only then the costly backend dispatch. Each gate short-circuits with a
// terminal response.
type GenerateHandler struct {
	userRepo   repository.UserRepository
	jobRepo    repository.JobRepository
	gateSvc    *service.GateService
	contentSvc *service.ContentService
	genSvc     *service.GenerationService
	validate   *validator.Validate
	logger     zerolog.Logger
}

// NewGenerateHandler creates a new GenerateHandler.
func NewGenerateHandler(
	userRepo repository.UserRepository,
	jobRepo repository.JobRepository,
	gateSvc *service.GateService,
	contentSvc *service.ContentService,
	genSvc *service.GenerationService,
	v *validator.Validate,
	logger zerolog.Logger,
) *GenerateHandler {
	return &GenerateHandler{
		userRepo:   userRepo,
		jobRepo:    jobRepo,
		gateSvc:    gateSvc,
		contentSvc: contentSvc,
		genSvc:     genSvc,
		validate:   v,
		logger:     logger.With().Str("handler", "GenerateHandler").Logger(),
	}
}

// RegisterRoutes registers the generation endpoint.
func (h *GenerateHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/generate", authMw(http.HandlerFunc(h.Generate)))
}

// Generate godoc
// @Summary Generate posts from source material
// @Description Runs the admission gates, resolves the source text and produces one post per requested format.
// @Tags generate
// @Accept json
// @Produce json
// @Param request body dto.GenerateRequestDTO true "Generation request"
// @Success 200 {object} dto.GenerateResponseDTO
// @Failure 400 {object} dto.ErrorResponseDTO
// @Failure 401 {object} dto.ErrorResponseDTO
// @Failure 402 {object} dto.ErrorResponseDTO "Monthly limit reached"
// @Failure 403 {object} dto.ErrorResponseDTO
// @Failure 404 {object} dto.ErrorResponseDTO
// @Failure 429 {object} dto.ErrorResponseDTO "Cooldown active"
// @Failure 500 {object} dto.ErrorResponseDTO
// @Router /generate [post]
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
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

	var req dto.GenerateRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	isPaid, err := h.gateSvc.ValidatePlan(user, req.InputKind)
	if err != nil {
		writeError(w, http.StatusForbidden, err.Error())
		return
	}

	if allowed, remaining := h.gateSvc.CheckCooldown(user); !allowed {
		writeJSON(w, http.StatusTooManyRequests, dto.ErrorResponseDTO{
			Error:            "Cooldown active",
			SecondsRemaining: remaining,
		})
		return
	}

	// First-time generations consume a monthly credit; regenerations charge
	// the per-job ledger instead. The ledger is charged before dispatch, so a
	// failed regeneration still costs an attempt.
	if req.Regenerate {
		if req.JobID == "" {
			writeError(w, http.StatusBadRequest, "Job ID required for regeneration")
			return
		}
		if err := h.jobRepo.ValidateAndIncrementRegeneration(r.Context(), req.JobID, userID); err != nil {
			switch {
			case errors.Is(err, repository.ErrJobNotFound):
				writeError(w, http.StatusNotFound, "Job not found")
			case errors.Is(err, repository.ErrJobUnauthorized):
				writeError(w, http.StatusForbidden, "Job does not belong to you")
			case errors.Is(err, repository.ErrRegenerationLimitExceeded):
				writeError(w, http.StatusForbidden, "Regeneration limit reached for this post")
			default:
				h.logger.Error().Err(err).Str("job_id", req.JobID).Msg("Regeneration check failed")
				writeError(w, http.StatusInternalServerError, "Internal server error")
			}
			return
		}
	} else {
		limited, _, err := h.gateSvc.CheckUsageLimit(r.Context(), userID)
		if err != nil {
			h.logger.Error().Err(err).Str("user_id", userID).Msg("Usage limit check failed")
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		if limited {
			writeJSON(w, http.StatusPaymentRequired, dto.ErrorResponseDTO{
				Error:           "Monthly generation limit reached",
				UpgradeRequired: true,
			})
			return
		}
	}

	input, err := h.contentSvc.Resolve(r.Context(), req.InputKind, req.InputText, req.URL, isPaid)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	formats := make([]model.Format, len(req.Formats))
	for i, f := range req.Formats {
		formats[i] = model.Format(f)
	}
	genCtx := model.GenerateContext{
		ReaderContext: req.Context.ReaderContext,
		Angle:         req.Context.Angle,
		EmojiOn:       req.Context.EmojiOn,
		TonePreset:    req.Context.TonePreset,
	}

	outputs, err := h.genSvc.GenerateFormats(r.Context(), input, formats, genCtx, req.Regenerate)
	if err != nil {
		writeGenerationError(w, h.logger, err)
		return
	}

	jobID := req.JobID
	if req.Regenerate {
		if err := h.jobRepo.UpdateJobOutputs(r.Context(), jobID, outputs); err != nil {
			h.logger.Error().Err(err).Str("job_id", jobID).Msg("Failed to persist regenerated outputs")
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
	} else {
		jobID = uuid.NewString()
		job := &model.Job{
			ID:        jobID,
			UserID:    userID,
			InputText: input,
			Context:   genCtx,
			Formats:   formats,
			Outputs:   outputs,
			IsPaid:    isPaid,
		}
		if err := h.jobRepo.CreateJob(r.Context(), job); err != nil {
			h.logger.Error().Err(err).Str("job_id", jobID).Msg("Failed to persist job")
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		if err := h.userRepo.IncrementUsage(r.Context(), userID, 1); err != nil {
			h.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to record usage")
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
	}

	respOutputs := make(map[string]string, len(outputs))
	for f, text := range outputs {
		respOutputs[string(f)] = text
	}
	writeJSON(w, http.StatusOK, dto.GenerateResponseDTO{
		Outputs:   respOutputs,
		FromCache: false,
		JobID:     jobID,
	})
}
