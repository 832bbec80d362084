package service

import (
	"regexp"
	"strings"
)

// seriesPostCount is the fixed arity of a series response.
const seriesPostCount = 4

// seriesMarkerRe matches the delimiter lines the series prompt demands.
var seriesMarkerRe = regexp.MustCompile(`(?i)---POST_\d---`)

// minSegmentChars filters out marker-adjacent noise: a split segment whose
// trimmed length is at or below this is not a post.
const minSegmentChars = 10

// parseSeriesOutput splits one multi-segment backend response into exactly
// four trimmed posts, in order. Segments of marker noise are dropped. If no
// valid segment is found the whole text becomes post one, so a backend that
// ignored the delimiter contract still yields usable output. Short responses
// are padded with empty strings; long ones are truncated to four.
func parseSeriesOutput(raw string) []string {
	segments := seriesMarkerRe.Split(raw, -1)

	var posts []string
	for _, seg := range segments {
		trimmed := strings.TrimSpace(seg)
		if len(trimmed) <= minSegmentChars {
			continue
		}
		posts = append(posts, trimmed)
	}

	if len(posts) == 0 {
		posts = []string{strings.TrimSpace(raw)}
	}
	if len(posts) > seriesPostCount {
		posts = posts[:seriesPostCount]
	}
	for len(posts) < seriesPostCount {
		posts = append(posts, "")
	}
	return posts
}
