package dto

// ErrorResponseDTO is the uniform error body. Optional fields are present
// only for the conditions that define them: retryAfter for rate limiting,
// secondsRemaining for cooldown, upgradeRequired for quota and entitlement.
type ErrorResponseDTO struct {
	Error            string `json:"error"`
	RetryAfter       int    `json:"retryAfter,omitempty"`
	SecondsRemaining int    `json:"secondsRemaining,omitempty"`
	UpgradeRequired  bool   `json:"upgradeRequired,omitempty"`
}
