package models

import (
	"math"
	"regexp"
	"time"

	"yamdb/proj/internal/domain/fields"
)

const (
	MinScore = 0
	MaxScore = 10

	// Titles may be announced up to this many years ahead.
	MaxYearsAhead = 10
	// MinYear is the lowest year the store can hold (smallint).
	MinYear = math.MinInt16

	ReservedUsername = "me"
)

var (
	slugRx     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
	usernameRx = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)
)

func ValidSlug(slug string) bool {
	return slugRx.MatchString(slug)
}

func ValidUsernameChars(username string) bool {
	return usernameRx.MatchString(username)
}

func ValidScore(score int32) bool {
	return score >= MinScore && score <= MaxScore
}

func MaxYear(now time.Time) int32 {
	return int32(now.Year() + MaxYearsAhead)
}

func ValidYear(year int32, now time.Time) bool {
	return year >= MinYear && year <= MaxYear(now)
}

func ValidPubDate(pubDate, now time.Time) bool {
	return !pubDate.After(now)
}

// NewRating rounds a mean score to one decimal place. A nil mean means the
// title has no reviews.
func NewRating(mean *float64) *fields.Rating {
	if mean == nil {
		return nil
	}
	r := fields.Rating(math.Round(*mean*10) / 10)
	return &r
}
