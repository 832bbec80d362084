package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"app/internal/model"
	"app/internal/variation"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	response string
	err      error
	delay    time.Duration
	calls    int
	lastUser string
}

func (f *fakeCompleter) Complete(ctx context.Context, system, user string, temperature float64, maxTokens int) (string, error) {
	f.calls++
	f.lastUser = user
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func newTestGenerationService(c ChatCompleter) *GenerationService {
	return NewGenerationService(c, variation.NewLibrary(), zerolog.Nop())
}

func validInput() string {
	return strings.Repeat("practical lessons from shipping real systems ", 3)
}

func TestNormalizeInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"trims edges", "  hello world  ", "hello world"},
		{"collapses spaces and tabs", "a \t  b", "a b"},
		{"collapses blank line runs", "a\n\n\n\nb", "a\n\nb"},
		{"preserves single newlines", "a\nb", "a\nb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeInput(tt.input))
		})
	}
}

func TestValidateInputBoundaries(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"empty", "", ErrInputEmpty},
		{"one below minimum", strings.Repeat("a", 49), ErrInputTooShort},
		{"exactly minimum", strings.Repeat("a", 50), nil},
		{"exactly maximum", strings.Repeat("a", 20000), nil},
		{"one above maximum", strings.Repeat("a", 20001), ErrInputTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateInput(tt.input)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidateInputWhitespaceDoesNotCount(t *testing.T) {
	// 49 content characters spread across whitespace padding is still short.
	input := strings.Repeat("a ", 49)
	assert.ErrorIs(t, validateInput(input), ErrInputTooShort)
}

func TestGenerateFormatsOneCallPerFormat(t *testing.T) {
	completer := &fakeCompleter{response: "Generated post text"}
	svc := newTestGenerationService(completer)

	formats := []model.Format{model.FormatMainPost, model.FormatCarousel}
	outputs, err := svc.GenerateFormats(context.Background(), validInput(), formats, model.GenerateContext{}, false)
	require.NoError(t, err)

	assert.Equal(t, 2, completer.calls)
	assert.Len(t, outputs, 2)
	assert.Equal(t, "Generated post text", outputs[model.FormatMainPost])
	assert.Equal(t, "Generated post text", outputs[model.FormatCarousel])
}

func TestGenerateFormatsRejectsShortInput(t *testing.T) {
	completer := &fakeCompleter{response: "irrelevant"}
	svc := newTestGenerationService(completer)

	_, err := svc.GenerateFormats(context.Background(), "too short", []model.Format{model.FormatMainPost}, model.GenerateContext{}, false)
	assert.ErrorIs(t, err, ErrInputTooShort)
	assert.Equal(t, 0, completer.calls, "invalid input must never reach the backend")
}

func TestGenerateFormatsPropagatesBackendError(t *testing.T) {
	completer := &fakeCompleter{err: ErrBackendBusy}
	svc := newTestGenerationService(completer)

	_, err := svc.GenerateFormats(context.Background(), validInput(), []model.Format{model.FormatMainPost}, model.GenerateContext{}, false)
	assert.ErrorIs(t, err, ErrBackendBusy)
}

func TestGenerateFormatsClampsOutput(t *testing.T) {
	completer := &fakeCompleter{response: strings.Repeat("x", MaxOutputChars+500)}
	svc := newTestGenerationService(completer)

	outputs, err := svc.GenerateFormats(context.Background(), validInput(), []model.Format{model.FormatMainPost}, model.GenerateContext{}, false)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(outputs[model.FormatMainPost]), MaxOutputChars)
}

func TestGenerateFormatsTimeout(t *testing.T) {
	completer := &fakeCompleter{response: "late result", delay: 200 * time.Millisecond}
	svc := newTestGenerationService(completer)
	svc.timeout = 20 * time.Millisecond

	start := time.Now()
	_, err := svc.GenerateFormats(context.Background(), validInput(), []model.Format{model.FormatMainPost}, model.GenerateContext{}, false)
	assert.ErrorIs(t, err, ErrGenerationTimeout)
	assert.Less(t, time.Since(start), 150*time.Millisecond, "timeout must not wait for the slow call")
}

func TestGenerateFormatsContextCancellation(t *testing.T) {
	completer := &fakeCompleter{response: "late result", delay: 200 * time.Millisecond}
	svc := newTestGenerationService(completer)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.GenerateFormats(ctx, validInput(), []model.Format{model.FormatMainPost}, model.GenerateContext{}, false)
	assert.ErrorIs(t, err, ErrGenerationTimeout)
}

func TestGenerateFormatsRegenerationChangesPrompt(t *testing.T) {
	completer := &fakeCompleter{response: "post"}
	svc := newTestGenerationService(completer)

	_, err := svc.GenerateFormats(context.Background(), validInput(), []model.Format{model.FormatMainPost}, model.GenerateContext{}, true)
	require.NoError(t, err)
	assert.Contains(t, completer.lastUser, "materially different")
}

func TestGenerateSeriesParsesFourPosts(t *testing.T) {
	completer := &fakeCompleter{
		response: "---POST_1---\nContext setting opener post\n---POST_2---\nTension and the big mistake\n---POST_3---\nThe turn that changed things\n---POST_4---\nPayoff and the takeaway here",
	}
	svc := newTestGenerationService(completer)

	formats := []model.Format{model.FormatMainPost, model.FormatStoryBased, model.FormatMainPost, model.FormatShortViralHook}
	posts, err := svc.GenerateSeries(context.Background(), validInput(), formats, model.GenerateContext{})
	require.NoError(t, err)

	assert.Equal(t, 1, completer.calls, "a series is one backend call")
	require.Len(t, posts, 4)
	assert.Equal(t, "Context setting opener post", posts[0])
	assert.Equal(t, "Payoff and the takeaway here", posts[3])
}

func TestGenerateSeriesRequiresFourFormats(t *testing.T) {
	svc := newTestGenerationService(&fakeCompleter{response: "x"})

	_, err := svc.GenerateSeries(context.Background(), validInput(), []model.Format{model.FormatMainPost}, model.GenerateContext{})
	assert.Error(t, err)
}

func TestGenerateSeriesEmptyBackendResponseIsError(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("response contained no content")}
	svc := newTestGenerationService(completer)

	formats := []model.Format{model.FormatMainPost, model.FormatMainPost, model.FormatMainPost, model.FormatMainPost}
	_, err := svc.GenerateSeries(context.Background(), validInput(), formats, model.GenerateContext{})
	assert.Error(t, err)
}
