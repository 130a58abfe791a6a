package security

import (
	"context"
	"math"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

type Capability int

const (
	// RecordAttendance lets the caller check in and out as themselves.
	RecordAttendance Capability = iota + 1
	// ManageAttendance covers listing everyone's records, approval, manual checkout and delete.
	ManageAttendance
	ViewReports
)

var roleCapabilities = map[Role][]Capability{
	RoleAdmin:    {RecordAttendance, ManageAttendance, ViewReports},
	RoleEmployee: {RecordAttendance},
}

// Identity is the authenticated caller of a single request.
type Identity struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// System acts for scheduled jobs and holds every admin capability.
var System = Identity{ID: math.MaxUint32, Email: "system@ems", Role: RoleAdmin}

func (i Identity) Authenticated() bool {
	return i.ID != 0 && i.Role != ""
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

func (i Identity) Can(c Capability) bool {
	for _, granted := range roleCapabilities[i.Role] {
		if granted == c {
			return true
		}
	}
	return false
}

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleEmployee:
		return Role(s), true
	}
	return "", false
}

type identityKey struct{}

func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// FromContext returns the zero Identity when the context carries none.
func FromContext(ctx context.Context) Identity {
	identity, _ := ctx.Value(identityKey{}).(Identity)
	return identity
}
