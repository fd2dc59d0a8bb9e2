package auth

import "errors"

var (
	ErrUserNotFound = errors.New("user not found")
	// ErrCredentialsMismatch is returned on signup when the username and the
	// email belong to different accounts (or only one of them is taken).
	ErrCredentialsMismatch = errors.New("username or email is already used by another account")
	ErrInvalidCode         = errors.New("invalid or expired confirmation code")
	ErrInvalidToken        = errors.New("invalid or expired token")
)
