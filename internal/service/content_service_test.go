package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExtractor struct {
	text string
	err  error
	url  string
}

func (f *fakeExtractor) Extract(ctx context.Context, url string) (string, error) {
	f.url = url
	return f.text, f.err
}

func newTestContentService(e ExtractorClient) *ContentService {
	return NewContentService(e, zerolog.Nop())
}

func TestResolveTextPassthrough(t *testing.T) {
	svc := newTestContentService(&fakeExtractor{})

	got, err := svc.Resolve(context.Background(), InputKindText, "some pasted content", "", false)
	require.NoError(t, err)
	assert.Equal(t, "some pasted content", got)
}

func TestResolveTextEmpty(t *testing.T) {
	svc := newTestContentService(&fakeExtractor{})

	_, err := svc.Resolve(context.Background(), InputKindText, "   \n ", "", false)
	assert.ErrorIs(t, err, ErrInputEmpty)
}

func TestResolveTextOverFreeCapRejectedWithUpgradeHint(t *testing.T) {
	svc := newTestContentService(&fakeExtractor{})

	_, err := svc.Resolve(context.Background(), InputKindText, strings.Repeat("a", MaxInputLengthFree+1), "", false)
	require.ErrorIs(t, err, ErrInputTooLong)
	assert.Contains(t, err.Error(), "upgrade")
}

func TestResolveTextFreeCapBoundary(t *testing.T) {
	svc := newTestContentService(&fakeExtractor{})

	got, err := svc.Resolve(context.Background(), InputKindText, strings.Repeat("a", MaxInputLengthFree), "", false)
	require.NoError(t, err)
	assert.Len(t, got, MaxInputLengthFree)
}

func TestResolveTextCreatorCap(t *testing.T) {
	svc := newTestContentService(&fakeExtractor{})

	// Over the free cap but within the creator cap.
	got, err := svc.Resolve(context.Background(), InputKindText, strings.Repeat("a", MaxInputLengthFree+100), "", true)
	require.NoError(t, err)
	assert.Len(t, got, MaxInputLengthFree+100)

	_, err = svc.Resolve(context.Background(), InputKindText, strings.Repeat("a", MaxInputLengthCreator+1), "", true)
	assert.ErrorIs(t, err, ErrInputTooLong)
}

func TestResolveURLExtracts(t *testing.T) {
	extractor := &fakeExtractor{text: "extracted article body"}
	svc := newTestContentService(extractor)

	got, err := svc.Resolve(context.Background(), InputKindURL, "", "https://example.com/post", true)
	require.NoError(t, err)
	assert.Equal(t, "extracted article body", got)
	assert.Equal(t, "https://example.com/post", extractor.url)
}

func TestResolveURLMissing(t *testing.T) {
	svc := newTestContentService(&fakeExtractor{})

	_, err := svc.Resolve(context.Background(), InputKindURL, "", "  ", true)
	assert.ErrorIs(t, err, ErrURLRequired)
}

func TestResolveURLExtractionFailure(t *testing.T) {
	svc := newTestContentService(&fakeExtractor{err: errors.New("boom")})

	_, err := svc.Resolve(context.Background(), InputKindURL, "", "https://example.com", true)
	assert.ErrorIs(t, err, ErrExtractionFailed)
}

func TestResolveURLTruncatesToPlanCap(t *testing.T) {
	extractor := &fakeExtractor{text: strings.Repeat("a", MaxInputLengthCreator+5000)}
	svc := newTestContentService(extractor)

	got, err := svc.Resolve(context.Background(), InputKindURL, "", "https://example.com", true)
	require.NoError(t, err)
	assert.Len(t, got, MaxInputLengthCreator)
}
