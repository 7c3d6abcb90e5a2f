package user

import (
	"context"
	"strings"
)

// Role is the coarse account role carried in the access token.
type Role string

const (
	RoleAdmin    Role = "admin"    // Platform administrator
	RoleHR       Role = "hr"       // Head-office HR staff
	RoleEmployee Role = "employee" // Everyone else
)

// Profile is the fine-grained job profile of an employee.
type Profile string

const (
	ProfileCoordinator      Profile = "coordinator"
	ProfileStoreDirector    Profile = "store_director"
	ProfileManager          Profile = "manager"
	ProfileManagingDirector Profile = "managing_director"
	ProfileEmployee         Profile = "employee"
)

var profiles = []Profile{
	ProfileCoordinator,
	ProfileStoreDirector,
	ProfileManager,
	ProfileManagingDirector,
	ProfileEmployee,
}

// ParseProfile maps a persisted profile name onto the closed Profile set.
// Unknown or empty names become ProfileEmployee.
func ParseProfile(s string) Profile {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "_")
	for _, p := range profiles {
		if string(p) == s {
			return p
		}
	}
	return ProfileEmployee
}

// IsElevated reports whether the profile carries any authority beyond a plain employee.
func (p Profile) IsElevated() bool {
	return p != "" && p != ProfileEmployee
}

// Identity is the caller of an operation, resolved from the access token and
// the employees table.
type Identity struct {
	UserID             string
	EmployeeID         string
	Role               Role
	Profile            Profile
	StoreID            *string
	ReportingManagerID *string
}

type identityKey struct{}

// WithIdentity stores the identity in ctx.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the identity stored by WithIdentity, or nil.
func IdentityFromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityKey{}).(*Identity)
	return id
}
