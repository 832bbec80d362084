package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"app/internal/api/v1/dto"
	"app/internal/middleware"
	"app/internal/model"
	"app/internal/repository"

	"github.com/rs/zerolog"
)

const defaultJobPageSize = 20

// JobHandler serves generation history.
type JobHandler struct {
	jobRepo repository.JobRepository
	logger  zerolog.Logger
}

// NewJobHandler creates a new JobHandler.
func NewJobHandler(jobRepo repository.JobRepository, logger zerolog.Logger) *JobHandler {
	return &JobHandler{
		jobRepo: jobRepo,
		logger:  logger.With().Str("handler", "JobHandler").Logger(),
	}
}

// RegisterRoutes registers the job endpoints.
func (h *JobHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/jobs", authMw(http.HandlerFunc(h.listJobs)))
	mux.Handle("/jobs/", authMw(http.HandlerFunc(h.deleteJob)))
}

// listJobs godoc
// @Summary List the caller's generation history
// @Description Returns visible jobs, most recent first.
// @Tags jobs
// @Produce json
// @Param limit query int false "Page size (default 20, max 100)"
// @Param offset query int false "Page offset"
// @Success 200 {object} dto.JobListResponseDTO
// @Failure 401 {object} dto.ErrorResponseDTO
// @Router /jobs [get]
func (h *JobHandler) listJobs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	limit := defaultJobPageSize
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	offset := 0
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	jobs, err := h.jobRepo.ListJobsByUserID(r.Context(), userID, limit, offset)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to list jobs")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	resp := dto.JobListResponseDTO{Jobs: make([]dto.JobResponseDTO, 0, len(jobs))}
	for i := range jobs {
		resp.Jobs = append(resp.Jobs, toJobResponse(&jobs[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// deleteJob godoc
// @Summary Remove a job from history
// @Description Hides the job from the caller's history. The record itself is retained.
// @Tags jobs
// @Produce json
// @Param id path string true "Job ID"
// @Success 204 "Hidden"
// @Failure 401 {object} dto.ErrorResponseDTO
// @Failure 404 {object} dto.ErrorResponseDTO
// @Router /jobs/{id} [delete]
func (h *JobHandler) deleteJob(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	jobID := strings.TrimPrefix(r.URL.Path, "/jobs/")
	if jobID == "" || strings.Contains(jobID, "/") {
		writeError(w, http.StatusNotFound, "Job not found")
		return
	}

	if err := h.jobRepo.HideJob(r.Context(), jobID, userID); err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			writeError(w, http.StatusNotFound, "Job not found")
			return
		}
		h.logger.Error().Err(err).Str("job_id", jobID).Msg("Failed to hide job")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toJobResponse(job *model.Job) dto.JobResponseDTO {
	formats := make([]string, len(job.Formats))
	for i, f := range job.Formats {
		formats[i] = string(f)
	}
	outputs := make(map[string]string, len(job.Outputs))
	for f, text := range job.Outputs {
		outputs[string(f)] = text
	}
	return dto.JobResponseDTO{
		JobID:     job.ID,
		InputText: job.InputText,
		Context: dto.GenerateContextDTO{
			ReaderContext: job.Context.ReaderContext,
			Angle:         job.Context.Angle,
			EmojiOn:       job.Context.EmojiOn,
			TonePreset:    job.Context.TonePreset,
		},
		Formats:           formats,
		Outputs:           outputs,
		RegenerationCount: job.RegenerationCount,
		CreatedAt:         job.CreatedAt,
		UpdatedAt:         job.UpdatedAt,
	}
}
