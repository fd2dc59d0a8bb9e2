// Package permissions holds the access policies of the API and the single
// function that evaluates them.
package permissions

import (
	"errors"

	"yamdb/proj/internal/domain/models"
)

var (
	ErrUnauthorized = errors.New("authentication credentials were not provided")
	ErrForbidden    = errors.New("you do not have permission to perform this action")
)

type Policy int

const (
	Public Policy = iota
	Authenticated
	AdminOnly
	// AuthorOrStaff allows the object's author, moderators and admins.
	AuthorOrStaff
)

func (p Policy) String() string {
	switch p {
	case Public:
		return "public"
	case Authenticated:
		return "authenticated"
	case AdminOnly:
		return "admin_only"
	case AuthorOrStaff:
		return "author_or_staff"
	}
	return "unknown"
}

// Check reports whether actor may act under p. authorID is only consulted
// by object level policies.
func Check(p Policy, actor *models.User, authorID int64) error {
	if p == Public {
		return nil
	}
	if actor.IsAnonymous() {
		return ErrUnauthorized
	}
	switch p {
	case Authenticated:
		return nil
	case AdminOnly:
		if actor.IsAdmin() {
			return nil
		}
	case AuthorOrStaff:
		if actor.ID == authorID || actor.IsModerator() || actor.IsAdmin() {
			return nil
		}
	}
	return ErrForbidden
}
