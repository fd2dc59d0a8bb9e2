package titles

import "errors"

var (
	ErrNotFound        = errors.New("title not found")
	ErrInvalidYear     = errors.New("year can't be more than 10 years ahead of the current one")
	ErrMissingGenre    = errors.New("at least one genre is required")
	ErrUnknownCategory = errors.New("category with that slug does not exist")
	ErrUnknownGenre    = errors.New("genre with that slug does not exist")
)
