package handler

import (
	"encoding/json"
	"net/http"

	"app/internal/api/v1/dto"
	"app/internal/middleware"
	"app/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// BillingHandler handles checkout, portal and the Stripe webhook.
type BillingHandler struct {
	stripeSvc *service.StripeService
	validate  *validator.Validate
	logger    zerolog.Logger
}

// NewBillingHandler creates a new BillingHandler.
func NewBillingHandler(stripeSvc *service.StripeService, v *validator.Validate, logger zerolog.Logger) *BillingHandler {
	return &BillingHandler{
		stripeSvc: stripeSvc,
		validate:  v,
		logger:    logger.With().Str("handler", "BillingHandler").Logger(),
	}
}

// RegisterRoutes registers the billing endpoints. The webhook is
// authenticated by its Stripe signature, not by a user token.
func (h *BillingHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/billing/checkout", authMw(http.HandlerFunc(h.Checkout)))
	mux.Handle("/billing/portal", authMw(http.HandlerFunc(h.Portal)))
	mux.Handle("/billing/webhook", http.HandlerFunc(h.Webhook))
}

// Checkout godoc
// @Summary Start a Creator plan checkout
// @Description Creates a Stripe Checkout session for the chosen billing interval and returns its URL.
// @Tags billing
// @Accept json
// @Produce json
// @Param request body dto.CheckoutRequestDTO true "Billing interval"
// @Success 200 {object} dto.SessionResponseDTO
// @Failure 400 {object} dto.ErrorResponseDTO
// @Failure 401 {object} dto.ErrorResponseDTO
// @Router /billing/checkout [post]
func (h *BillingHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req dto.CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	url, err := h.stripeSvc.CreateCheckoutSession(r.Context(), userID, req.Interval)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to create checkout session")
		writeError(w, http.StatusInternalServerError, "Failed to create checkout session")
		return
	}
	writeJSON(w, http.StatusOK, dto.SessionResponseDTO{URL: url})
}

// Portal godoc
// @Summary Open the billing portal
// @Description Creates a Stripe Customer Portal session for the caller and returns its URL.
// @Tags billing
// @Produce json
// @Success 200 {object} dto.SessionResponseDTO
// @Failure 401 {object} dto.ErrorResponseDTO
// @Router /billing/portal [post]
func (h *BillingHandler) Portal(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	url, err := h.stripeSvc.CreatePortalSession(r.Context(), userID)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to create portal session")
		writeError(w, http.StatusInternalServerError, "Failed to create portal session")
		return
	}
	writeJSON(w, http.StatusOK, dto.SessionResponseDTO{URL: url})
}

// Webhook godoc
// @Summary Stripe webhook receiver
// @Description Verifies the event signature and syncs plan state.
// @Tags billing
// @Accept json
// @Success 200 "Processed"
// @Failure 400 {string} string "Invalid payload or signature"
// @Router /billing/webhook [post]
func (h *BillingHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	h.stripeSvc.HandleWebhook(w, r)
}
