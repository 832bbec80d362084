package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"app/internal/api/v1/dto"
	"app/internal/service"

	"github.com/rs/zerolog"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, dto.ErrorResponseDTO{Error: message})
}

// writeGenerationError maps dispatcher errors onto the status taxonomy:
// input problems are the caller's fault, everything else is a backend
// failure reported as 500 with a user-presentable message.
func writeGenerationError(w http.ResponseWriter, logger zerolog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrInputEmpty),
		errors.Is(err, service.ErrInputTooShort),
		errors.Is(err, service.ErrInputTooLong):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrGenerationTimeout):
		writeError(w, http.StatusInternalServerError, "Generation timed out. Please try again.")
	case errors.Is(err, service.ErrBackendBusy):
		writeError(w, http.StatusInternalServerError, "AI service is busy. Please try again shortly.")
	case errors.Is(err, service.ErrBackendRejected):
		writeError(w, http.StatusInternalServerError, "Content could not be processed. Please try different input.")
	default:
		logger.Error().Err(err).Msg("Generation failed")
		writeError(w, http.StatusInternalServerError, "Generation failed. Please try again.")
	}
}
