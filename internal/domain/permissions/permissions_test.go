package permissions

import (
	"testing"

	"yamdb/proj/internal/domain/models"

	"github.com/stretchr/testify/assert"
)

func TestCheck(t *testing.T) {
	author := &models.User{ID: 1, Username: "author", Role: models.RoleUser}
	stranger := &models.User{ID: 2, Username: "stranger", Role: models.RoleUser}
	moderator := &models.User{ID: 3, Username: "moderator", Role: models.RoleModerator}
	admin := &models.User{ID: 4, Username: "admin", Role: models.RoleAdmin}

	tests := []struct {
		name   string
		policy Policy
		actor  *models.User
		want   error
	}{
		{"public anonymous", Public, models.AnonymousUser, nil},
		{"authenticated anonymous", Authenticated, models.AnonymousUser, ErrUnauthorized},
		{"authenticated nil actor", Authenticated, nil, ErrUnauthorized},
		{"authenticated user", Authenticated, stranger, nil},
		{"admin only user", AdminOnly, stranger, ErrForbidden},
		{"admin only moderator", AdminOnly, moderator, ErrForbidden},
		{"admin only admin", AdminOnly, admin, nil},
		{"admin only anonymous", AdminOnly, models.AnonymousUser, ErrUnauthorized},
		{"author or staff author", AuthorOrStaff, author, nil},
		{"author or staff stranger", AuthorOrStaff, stranger, ErrForbidden},
		{"author or staff moderator", AuthorOrStaff, moderator, nil},
		{"author or staff admin", AuthorOrStaff, admin, nil},
		{"author or staff anonymous", AuthorOrStaff, models.AnonymousUser, ErrUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, Check(tt.policy, tt.actor, author.ID), tt.want)
			if tt.want == nil {
				assert.NoError(t, Check(tt.policy, tt.actor, author.ID))
			}
		})
	}
}
