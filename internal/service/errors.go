package service

import "errors"

// Input validation failures (surface as 400).
var (
	ErrInputEmpty    = errors.New("input text cannot be empty")
	ErrInputTooShort = errors.New("input text is too short; please provide more content to repurpose")
	ErrInputTooLong  = errors.New("input text exceeds the maximum length")
	ErrURLRequired   = errors.New("url is required")
)

// Plan entitlement failures (surface as 403 with the message as the reason).
var (
	ErrURLInputRequiresUpgrade = errors.New("importing content from a URL is available only on the Creator plan")
	ErrSeriesRequiresUpgrade   = errors.New("the Series feature is available only on the Creator plan")
)

// Extraction collaborator failure (surface as 400 with a descriptive message).
var ErrExtractionFailed = errors.New("failed to extract content from URL; please try copying the content directly")

// Generation backend failures.
var (
	// ErrGenerationTimeout is returned when the backend loses the race
	// against the dispatch deadline.
	ErrGenerationTimeout = errors.New("generation timed out")
	// ErrBackendBusy means the backend reported overload; retryable shortly.
	ErrBackendBusy = errors.New("generation service busy, try again shortly")
	// ErrBackendRejected means the backend refused the content.
	ErrBackendRejected = errors.New("content could not be processed")
	// ErrBackendFailure covers every other backend failure, including an
	// empty response, which is never treated as an empty success.
	ErrBackendFailure = errors.New("generation failed")
)
