package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Per-plan caps on resolved input length, in characters. URL extractions are
// silently truncated to the cap; direct text over the cap is rejected with an
// upgrade hint instead, because truncating pasted text would discard content
// the user deliberately provided.
const (
	MaxInputLengthFree    = 10000
	MaxInputLengthCreator = 20000
)

// ContentService resolves the raw source text for a generation, either from
// the request body or by extracting it from a URL.
type ContentService struct {
	extractor ExtractorClient
	logger    zerolog.Logger
}

// NewContentService creates a new ContentService.
func NewContentService(extractor ExtractorClient, logger zerolog.Logger) *ContentService {
	return &ContentService{
		extractor: extractor,
		logger:    logger.With().Str("service", "ContentService").Logger(),
	}
}

func planInputCap(isPaid bool) int {
	if isPaid {
		return MaxInputLengthCreator
	}
	return MaxInputLengthFree
}

// Resolve returns the source text for the given input kind.
func (s *ContentService) Resolve(ctx context.Context, inputKind, inputText, url string, isPaid bool) (string, error) {
	limit := planInputCap(isPaid)

	switch inputKind {
	case InputKindURL:
		if strings.TrimSpace(url) == "" {
			return "", ErrURLRequired
		}
		text, err := s.extractor.Extract(ctx, url)
		if err != nil {
			s.logger.Warn().Err(err).Str("url", url).Msg("Content extraction failed")
			return "", ErrExtractionFailed
		}
		if len(text) > limit {
			text = text[:limit]
		}
		return text, nil
	case InputKindText:
		if strings.TrimSpace(inputText) == "" {
			return "", ErrInputEmpty
		}
		if len(inputText) > limit {
			if !isPaid {
				return "", fmt.Errorf("%w: free plan accepts up to %d characters, upgrade for longer inputs", ErrInputTooLong, limit)
			}
			return "", fmt.Errorf("%w: maximum is %d characters", ErrInputTooLong, limit)
		}
		return inputText, nil
	default:
		return "", fmt.Errorf("unsupported input kind %q", inputKind)
	}
}
