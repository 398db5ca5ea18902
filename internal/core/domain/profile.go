package domain

import "time"

// VisitorProfile extends a visitor account with contact details.
// It never exists without its owning user and is removed with it.
type VisitorProfile struct {
	ID          string
	UserID      string
	PhoneNumber string
	ImageURL    *string
}

// BusinessProfile extends a business account with directory metadata.
type BusinessProfile struct {
	ID           string
	UserID       string
	BusinessName string
	Category     string
	Description  string
	Phone        string
	Location     string
	InArea       bool
	ImageURL     *string
}

// GalleryImage belongs to a business profile's public gallery.
type GalleryImage struct {
	ID         string
	BusinessID string
	ImageURL   string
	UploadedAt time.Time
}
