package reviews

import "errors"

var (
	ErrNotFound        = errors.New("review not found")
	ErrUnknownTitle    = errors.New("title not found")
	ErrDuplicateReview = errors.New("you have already reviewed this title")
	ErrScoreOutOfRange = errors.New("score must be between 0 and 10")
)
