package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"app/internal/model"
	"app/internal/variation"

	"github.com/rs/zerolog"
)

// Input bounds, measured in characters. The minimum counts only
// non-whitespace characters so a page of blank lines cannot pass.
const (
	MinInputChars = 50
	MaxInputChars = 20000
)

// MaxOutputChars caps each produced post; backend overruns are truncated.
const MaxOutputChars = 2900

// SeriesUsageCost is the credit price of one series generation.
const SeriesUsageCost = 3

// generationTimeout bounds each backend dispatch.
const generationTimeout = 60 * time.Second

var (
	horizontalWS = regexp.MustCompile(`[ \t]+`)
	blankRuns    = regexp.MustCompile(`\n\s*\n`)
)

// GenerationService assembles prompts, dispatches them to the backend under a
// hard deadline and shapes the raw output.
type GenerationService struct {
	completer ChatCompleter
	library   *variation.Library
	logger    zerolog.Logger
	timeout   time.Duration
}

// NewGenerationService creates a new GenerationService.
func NewGenerationService(completer ChatCompleter, library *variation.Library, logger zerolog.Logger) *GenerationService {
	return &GenerationService{
		completer: completer,
		library:   library,
		logger:    logger.With().Str("service", "GenerationService").Logger(),
		timeout:   generationTimeout,
	}
}

// normalizeInput collapses runs of horizontal whitespace and stacked blank
// lines, then trims.
func normalizeInput(input string) string {
	input = horizontalWS.ReplaceAllString(input, " ")
	input = blankRuns.ReplaceAllString(input, "\n\n")
	return strings.TrimSpace(input)
}

// validateInput enforces the input bounds on already-normalized text.
func validateInput(input string) error {
	if input == "" {
		return ErrInputEmpty
	}
	stripped := len(strings.Join(strings.Fields(input), ""))
	if stripped < MinInputChars {
		return fmt.Errorf("%w: need at least %d characters of content", ErrInputTooShort, MinInputChars)
	}
	if len(input) > MaxInputChars {
		return fmt.Errorf("%w: maximum is %d characters", ErrInputTooLong, MaxInputChars)
	}
	return nil
}

// GenerateFormats produces one post per requested format. Dispatches are
// sequential: requests carry at most four formats and sequencing keeps the
// per-user backend pressure bounded.
func (s *GenerationService) GenerateFormats(ctx context.Context, input string, formats []model.Format, genCtx model.GenerateContext, regenerate bool) (map[model.Format]string, error) {
	normalized := normalizeInput(input)
	if err := validateInput(normalized); err != nil {
		return nil, err
	}

	outputs := make(map[model.Format]string, len(formats))
	for _, format := range formats {
		set := s.library.NextSet()
		system := systemPrompt()
		user := instructionPrompt(format, genCtx, regenerate, set) + "\n\n" + userPrompt(normalized)

		start := time.Now()
		text, err := s.completeWithTimeout(ctx, system, user, 0.6, 1800)
		if err != nil {
			s.logger.Warn().Err(err).
				Str("format", string(format)).
				Dur("elapsed", time.Since(start)).
				Msg("Generation dispatch failed")
			return nil, err
		}
		outputs[format] = clampOutput(text)
	}
	return outputs, nil
}

// GenerateSeries produces four narratively connected posts in one backend
// call, each post following its assigned format's rules.
func (s *GenerationService) GenerateSeries(ctx context.Context, input string, formats []model.Format, genCtx model.GenerateContext) ([]string, error) {
	normalized := normalizeInput(input)
	if err := validateInput(normalized); err != nil {
		return nil, err
	}
	if len(formats) != seriesPostCount {
		return nil, fmt.Errorf("series requires exactly %d formats, got %d", seriesPostCount, len(formats))
	}

	sets := s.library.SeriesSets(seriesPostCount)
	raw, err := s.completeWithTimeout(ctx, seriesSystemPrompt(), seriesUserPrompt(normalized, formats, sets), 0.75, 3000)
	if err != nil {
		return nil, err
	}

	posts := parseSeriesOutput(raw)
	for i := range posts {
		posts[i] = clampOutput(posts[i])
	}
	return posts, nil
}

// completeWithTimeout races the backend call against the dispatch deadline.
// The call itself is not cancelled on timeout; its eventual result is
// discarded and never reaches user-visible state.
func (s *GenerationService) completeWithTimeout(ctx context.Context, system, user string, temperature float64, maxTokens int) (string, error) {
	type result struct {
		text string
		err  error
	}
	ch := make(chan result, 1)

	go func() {
		text, err := s.completer.Complete(ctx, system, user, temperature, maxTokens)
		ch <- result{text: text, err: err}
	}()

	select {
	case res := <-ch:
		return res.text, res.err
	case <-time.After(s.timeout):
		return "", ErrGenerationTimeout
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %v", ErrGenerationTimeout, ctx.Err())
	}
}

func clampOutput(text string) string {
	if len(text) > MaxOutputChars {
		return strings.TrimSpace(text[:MaxOutputChars])
	}
	return text
}
