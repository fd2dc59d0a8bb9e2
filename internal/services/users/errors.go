package users

import "errors"

var (
	ErrNotFound         = errors.New("user not found")
	ErrReservedUsername = errors.New("username 'me' is reserved")
	ErrInvalidUsername  = errors.New("username may contain only letters, digits and @/./+/-/_")
	ErrInvalidRole      = errors.New("unknown role")
	ErrUsernameTaken    = errors.New("user with that username already exists")
	ErrEmailTaken       = errors.New("user with that email already exists")
)
