package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSeriesOutputFourSegments(t *testing.T) {
	raw := "---POST_1---\nFirst post body text\n---POST_2---\nSecond post body text\n---POST_3---\nThird post body text\n---POST_4---\nFourth post body text"

	posts := parseSeriesOutput(raw)
	assert.Equal(t, []string{
		"First post body text",
		"Second post body text",
		"Third post body text",
		"Fourth post body text",
	}, posts)
}

func TestParseSeriesOutputCaseInsensitiveMarkers(t *testing.T) {
	raw := "---post_1---\nLower case marker body\n---Post_2---\nMixed case marker body"

	posts := parseSeriesOutput(raw)
	assert.Equal(t, "Lower case marker body", posts[0])
	assert.Equal(t, "Mixed case marker body", posts[1])
	assert.Equal(t, "", posts[2])
	assert.Equal(t, "", posts[3])
}

func TestParseSeriesOutputPadsShortResponses(t *testing.T) {
	raw := "---POST_1---\nOnly post the model produced"

	posts := parseSeriesOutput(raw)
	assert.Len(t, posts, 4)
	assert.Equal(t, "Only post the model produced", posts[0])
	assert.Equal(t, []string{"", "", ""}, posts[1:])
}

func TestParseSeriesOutputTruncatesExtraSegments(t *testing.T) {
	raw := "---POST_1---\nSegment number one\n---POST_2---\nSegment number two\n---POST_3---\nSegment number three\n---POST_4---\nSegment number four\n---POST_5---\nSegment number five"

	posts := parseSeriesOutput(raw)
	assert.Len(t, posts, 4)
	assert.Equal(t, "Segment number four", posts[3])
}

func TestParseSeriesOutputNoMarkers(t *testing.T) {
	raw := "The model ignored the delimiter contract and wrote one long post instead."

	posts := parseSeriesOutput(raw)
	assert.Equal(t, raw, posts[0])
	assert.Equal(t, []string{"", "", ""}, posts[1:])
}

func TestParseSeriesOutputDropsMarkerNoise(t *testing.T) {
	// Leading preamble and whitespace-only segments between markers are not
	// posts.
	raw := "ok\n---POST_1---\nA real post with enough length\n---POST_2---\n   \n---POST_3---\nAnother real post right here"

	posts := parseSeriesOutput(raw)
	assert.Equal(t, "A real post with enough length", posts[0])
	assert.Equal(t, "Another real post right here", posts[1])
	assert.Equal(t, "", posts[2])
	assert.Equal(t, "", posts[3])
}

func TestParseSeriesOutputShortNoiseThreshold(t *testing.T) {
	// Exactly at the threshold is still noise; one past it is a post.
	raw := "---POST_1---\n0123456789\n---POST_2---\n01234567890"

	posts := parseSeriesOutput(raw)
	assert.Equal(t, "01234567890", posts[0])
	assert.Equal(t, "", posts[1])
}

func TestParseSeriesOutputEmptyInput(t *testing.T) {
	posts := parseSeriesOutput("")
	assert.Equal(t, []string{"", "", "", ""}, posts)
}

func TestParseSeriesOutputDuplicatedMarkers(t *testing.T) {
	raw := "---POST_1------POST_1---\nDeduplicated segment body here"

	posts := parseSeriesOutput(raw)
	assert.Equal(t, "Deduplicated segment body here", posts[0])
}
