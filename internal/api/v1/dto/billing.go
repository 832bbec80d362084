package dto

// CheckoutRequestDTO is the body of POST /v1/billing/checkout.
type CheckoutRequestDTO struct {
	Interval string `json:"interval" validate:"required,oneof=monthly annual"`
}

// SessionResponseDTO carries a redirect URL for checkout or portal sessions.
type SessionResponseDTO struct {
	URL string `json:"url"`
}
