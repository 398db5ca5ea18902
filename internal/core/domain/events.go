package domain

import "time"

// UserRegisteredEvent represents the payload for directory.user.registered messages.
type UserRegisteredEvent struct {
	EventID      string
	UserID       string
	Username     string
	Email        string
	Role         Role
	RegisteredAt time.Time
}

// UserVerifiedEvent represents the payload for directory.user.verified messages.
type UserVerifiedEvent struct {
	EventID    string
	UserID     string
	VerifiedAt time.Time
}

// BusinessReviewedEvent represents the payload for directory.business.reviewed
// messages. Approved=false indicates the registration was declined and the
// account deleted.
type BusinessReviewedEvent struct {
	EventID    string
	UserID     string
	Email      string
	Approved   bool
	ReviewedAt time.Time
}

// UserBanStateChangedEvent represents the payload for directory.user.ban_changed
// messages. BannedUntil is nil when the ban was lifted.
type UserBanStateChangedEvent struct {
	EventID     string
	UserID      string
	BannedUntil *time.Time
	ChangedAt   time.Time
}

// UserDeletedEvent represents the payload for directory.user.deleted messages.
type UserDeletedEvent struct {
	EventID   string
	UserID    string
	DeletedAt time.Time
}

// PasswordChangedEvent represents the payload for directory.user.password_changed messages.
type PasswordChangedEvent struct {
	EventID   string
	UserID    string
	ChangedAt time.Time
}
