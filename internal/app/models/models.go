package models

import "fmt"

// RoleType defines the user role type
type RoleType string

const (
	RoleMentor RoleType = "mentor"
	RoleMentee RoleType = "mentee"
)

// ParseRole converts a raw role value (from storage or a request) into a RoleType.
func ParseRole(raw string) (RoleType, error) {
	switch RoleType(raw) {
	case RoleMentor, RoleMentee:
		return RoleType(raw), nil
	default:
		return "", fmt.Errorf("unknown role %q", raw)
	}
}

// Label returns the upper-case label used by placeholder images.
func (r RoleType) Label() string {
	switch r {
	case RoleMentor:
		return "MENTOR"
	case RoleMentee:
		return "MENTEE"
	default:
		return "USER"
	}
}

// Actor is the authenticated caller of a service operation.
type Actor struct {
	ID   int64
	Role RoleType
}

// Is reports whether the actor holds the given role.
func (a Actor) Is(role RoleType) bool {
	return a.Role == role
}
