package domain

import "time"

// Sale is a time-bounded offer published by a business.
type Sale struct {
	ID          string
	BusinessID  string
	Title       string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	ImageURL    *string
	CreatedAt   time.Time
}

// FavoriteSale marks a sale as saved by a visitor.
type FavoriteSale struct {
	ID        string
	UserID    string
	SaleID    string
	CreatedAt time.Time
}

// Post is a feed entry authored by any authenticated account.
type Post struct {
	ID        string
	UserID    string
	Content   string
	ImageURL  *string
	CreatedAt time.Time
}

// Comment is attached to a post.
type Comment struct {
	ID        string
	PostID    string
	UserID    string
	Content   string
	CreatedAt time.Time
}

// Like records a single user's like of a post. One row per (user, post).
type Like struct {
	ID        string
	PostID    string
	UserID    string
	CreatedAt time.Time
}

// Report flags a post for admin review.
type Report struct {
	ID         string
	PostID     string
	ReporterID string
	Reason     string
	CreatedAt  time.Time
}

// Offer is a loyalty reward published by an admin, optionally tied to a
// business. Visitors redeem it for a one-time code.
type Offer struct {
	ID          string
	BusinessID  *string
	CreatedBy   string
	Title       string
	Description string
	Price       int
	ImageURL    *string
	CreatedAt   time.Time
}

// OfferRedemption records a visitor redeeming an offer. One row per
// (user, offer).
type OfferRedemption struct {
	ID         string
	OfferID    string
	UserID     string
	Code       string
	RedeemedAt time.Time
}

// SiteRating is a user's rating of the platform itself. One row per user.
type SiteRating struct {
	ID        string
	UserID    string
	Rating    int
	Comment   string
	CreatedAt time.Time
}

// ContactMessage is a message sent to the site operators.
type ContactMessage struct {
	ID        string
	UserID    string
	Subject   string
	Message   string
	CreatedAt time.Time
}
