package model

import "fmt"

// Role is the explicit role tag of the calling account.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleCook     Role = "cook"
	RoleAdmin    Role = "admin"
)

// ParseRole converts a header value into a Role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleCustomer, RoleCook, RoleAdmin:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Actor identifies the caller of an operation. ID is opaque: accounts live
// outside this service.
type Actor struct {
	ID   string
	Role Role
}
