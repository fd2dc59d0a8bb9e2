package models

import "fmt"

type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

var Roles = []Role{RoleUser, RoleModerator, RoleAdmin}

func ParseRole(s string) (Role, error) {
	for _, r := range Roles {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown role %q", s)
}

func (u *User) IsAdmin() bool {
	return !u.IsAnonymous() && u.Role == RoleAdmin
}

func (u *User) IsModerator() bool {
	return !u.IsAnonymous() && u.Role == RoleModerator
}
