package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"app/internal/api/v1/dto"
	"app/internal/middleware"
	"app/internal/model"
	"app/internal/service"
	"app/internal/variation"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seriesCompleter struct {
	calls int
}

func (s *seriesCompleter) Complete(ctx context.Context, system, user string, temperature float64, maxTokens int) (string, error) {
	s.calls++
	return "---POST_1---\nContext setting opener post\n---POST_2---\nTension and the big mistake\n---POST_3---\nThe turn that changed things\n---POST_4---\nPayoff and the takeaway here", nil
}

type seriesFixture struct {
	handler   *SeriesHandler
	userRepo  *stubUserRepo
	completer *seriesCompleter
}

func creatorUser() *model.User {
	return &model.User{
		UserID:            "user-1",
		Plan:              model.PlanCreator,
		UsageLimitMonthly: model.CreatorUsageLimit,
	}
}

func newSeriesFixture(user *model.User, usage *model.UserUsage) *seriesFixture {
	logger := zerolog.Nop()
	userRepo := &stubUserRepo{user: user, usage: usage}
	completer := &seriesCompleter{}

	gateSvc := service.NewGateService(userRepo, logger)
	contentSvc := service.NewContentService(stubExtractor{}, logger)
	genSvc := service.NewGenerationService(completer, variation.NewLibrary(), logger)
	v := validator.New(validator.WithRequiredStructEnabled())

	return &seriesFixture{
		handler:   NewSeriesHandler(userRepo, gateSvc, contentSvc, genSvc, v, logger),
		userRepo:  userRepo,
		completer: completer,
	}
}

func doSeries(t *testing.T, f *seriesFixture, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))

	req := httptest.NewRequest(http.MethodPost, "/series", &buf)
	if userID != "" {
		req = req.WithContext(context.WithValue(req.Context(), middleware.UserContextKey, userID))
	}
	rec := httptest.NewRecorder()
	f.handler.Series(rec, req)
	return rec
}

func validSeriesBody() dto.SeriesRequestDTO {
	return dto.SeriesRequestDTO{
		InputKind:   "text",
		InputText:   strings.Repeat("a long founding story with plenty of real detail ", 3),
		PostFormats: []string{"main-post", "story-based", "main-post", "short-viral-hook"},
	}
}

func TestSeriesRequiresCreatorPlan(t *testing.T) {
	f := newSeriesFixture(freeUser(), &model.UserUsage{UsageLimitMonthly: 5})

	rec := doSeries(t, f, "user-1", validSeriesBody())
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Creator plan")
	assert.Equal(t, 0, f.completer.calls)
}

func TestSeriesRequiresExactlyFourFormats(t *testing.T) {
	f := newSeriesFixture(creatorUser(), &model.UserUsage{UsageLimitMonthly: 100})
	body := validSeriesBody()
	body.PostFormats = body.PostFormats[:3]

	rec := doSeries(t, f, "user-1", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSeriesInsufficientCreditBudget(t *testing.T) {
	// Two credits left, a series costs three.
	f := newSeriesFixture(creatorUser(), &model.UserUsage{
		UsageCount:        98,
		UsageLimitMonthly: 100,
	})

	rec := doSeries(t, f, "user-1", validSeriesBody())
	assert.Equal(t, http.StatusPaymentRequired, rec.Code)
	assert.Equal(t, 0, f.completer.calls)
}

func TestSeriesSuccessChargesThreeCredits(t *testing.T) {
	f := newSeriesFixture(creatorUser(), &model.UserUsage{
		UsageCount:        10,
		UsageLimitMonthly: 100,
	})

	rec := doSeries(t, f, "user-1", validSeriesBody())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp dto.SeriesResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Posts, 4)
	assert.Equal(t, "Context setting opener post", resp.Posts[0])

	assert.Equal(t, 1, f.completer.calls)
	assert.Equal(t, []int{service.SeriesUsageCost}, f.userRepo.incrementedBy)
}
