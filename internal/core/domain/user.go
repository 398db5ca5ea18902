package domain

import "time"

// Role identifies the single authorization role of an account.
type Role string

const (
	RoleVisitor  Role = "visitor"
	RoleBusiness Role = "business"
	RoleAdmin    Role = "admin"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleVisitor, RoleBusiness, RoleAdmin:
		return true
	}
	return false
}

// User mirrors the persisted representation in the users table.
//
// Active is false until the email verification link is confirmed.
// Approved matters only for business accounts: they stay unapproved
// until an admin reviews the registration, and business login requires
// both flags. BannedUntil in the future blocks visitor login.
type User struct {
	ID                string
	Username          string
	Email             string
	PasswordHash      string
	PasswordAlgo      string
	Role              Role
	Active            bool
	Approved          bool
	BannedUntil       *time.Time
	RegisteredAt      time.Time
	PasswordChangedAt time.Time
}

// IsBanned reports whether the account is banned at the given instant.
func (u User) IsBanned(at time.Time) bool {
	return u.BannedUntil != nil && u.BannedUntil.After(at)
}

// BanRemainingDays returns the number of whole days left on the ban.
func (u User) BanRemainingDays(at time.Time) int {
	if !u.IsBanned(at) {
		return 0
	}
	return int(u.BannedUntil.Sub(at).Hours() / 24)
}

// CanAuthenticate reports whether the account may obtain tokens at all,
// ignoring role-specific policy. Business accounts additionally need
// admin approval.
func (u User) CanAuthenticate() bool {
	if !u.Active {
		return false
	}
	if u.Role == RoleBusiness && !u.Approved {
		return false
	}
	return true
}
