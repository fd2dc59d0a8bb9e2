package taxonomy

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidSlug   = errors.New("slug may contain only latin letters, digits, '-' and '_'")
	ErrDuplicateSlug = errors.New("entry with that slug already exists")
)
