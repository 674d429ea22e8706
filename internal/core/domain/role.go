package domain

import (
	"fmt"
	"strings"
)

// Role is the access tier of a visitor.
type Role string

const (
	// RoleGuest denotes the absence of a session. It is never persisted.
	RoleGuest     Role = "guest"
	RoleUser      Role = "user"
	RoleOrganizer Role = "organizer"
	RoleAdmin     Role = "admin"
)

// ParseRole maps the role name reported by the backend to a Role.
// Guest is not a valid stored role.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "user", "customer":
		return RoleUser, nil
	case "organizer":
		return RoleOrganizer, nil
	case "admin", "administrator":
		return RoleAdmin, nil
	}
	return "", fmt.Errorf("%w: unknown role %q", ErrValidation, s)
}

// LandingPath returns the page a freshly logged-in visitor of this role
// lands on.
func (r Role) LandingPath() string {
	switch r {
	case RoleAdmin:
		return "/admindashboard"
	case RoleOrganizer:
		return "/organizerdashboard"
	default:
		return "/"
	}
}
