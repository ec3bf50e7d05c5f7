package domain

import "fmt"

// Customer and Admin are two distinct capability-scoped types. Code that wants
// an admin constructs one directly; the only string-based dispatch left is the
// optional parsing boundary below.

type Customer struct {
	ID        string
	Name      string
	ContactNo string
}

type Admin struct {
	ID        string
	Name      string
	ContactNo string
}

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

// ParseRole maps external input to a role tag.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleCustomer:
		return RoleCustomer, nil
	default:
		return "", fmt.Errorf("%w: unknown role %q", ErrInvalidInput, s)
	}
}
