package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jaffaexplorer/community-platform/internal/core/domain"
	"github.com/jaffaexplorer/community-platform/internal/transport/http/middleware"
	"github.com/jaffaexplorer/community-platform/internal/usecase"
)

// ErrorResponse represents a generic error payload with the correlation id.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// NewErrorResponse creates an error response carrying the request id.
func NewErrorResponse(c *gin.Context, msg string) ErrorResponse {
	return ErrorResponse{
		Error:     msg,
		RequestID: middleware.RequestIDFrom(c),
	}
}

// MessageResponse represents a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// LoginRequest is the payload shared by the three login endpoints.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenPairResponse is returned on every successful login and refresh.
type TokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// BannedResponse extends the error payload with the remaining ban length.
type BannedResponse struct {
	Error         string `json:"error"`
	RemainingDays int    `json:"remaining_days"`
	RequestID     string `json:"request_id,omitempty"`
}

// TokenRefreshRequest carries the refresh token to exchange.
type TokenRefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// VisitorRegistrationRequest is the visitor signup form.
type VisitorRegistrationRequest struct {
	Email     string  `json:"email" binding:"required"`
	Username  string  `json:"username" binding:"required"`
	Password  string  `json:"password" binding:"required"`
	Password2 string  `json:"password2" binding:"required"`
	Phone     string  `json:"phone"`
	ImageURL  *string `json:"image_url"`
}

// BusinessRegistrationRequest is the business signup form.
type BusinessRegistrationRequest struct {
	Email        string  `json:"email" binding:"required"`
	Username     string  `json:"username" binding:"required"`
	Password     string  `json:"password" binding:"required"`
	Password2    string  `json:"password2" binding:"required"`
	BusinessName string  `json:"business_name" binding:"required"`
	Category     string  `json:"category"`
	Description  string  `json:"description"`
	Phone        string  `json:"phone"`
	Location     string  `json:"location"`
	InArea       bool    `json:"in_area"`
	ImageURL     *string `json:"image_url"`
}

// UserSummary is the admin-facing view of an account.
type UserSummary struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	Role         string     `json:"role"`
	Active       bool       `json:"active"`
	Approved     bool       `json:"approved"`
	BannedUntil  *time.Time `json:"banned_until,omitempty"`
	RegisteredAt time.Time  `json:"registered_at"`
}

func newUserSummary(u domain.User) UserSummary {
	return UserSummary{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		Role:         string(u.Role),
		Active:       u.Active,
		Approved:     u.Approved,
		BannedUntil:  u.BannedUntil,
		RegisteredAt: u.RegisteredAt,
	}
}

// ForgotPasswordRequest carries the email of the account to reset.
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

// ResetPasswordRequest carries the new password for a reset confirmation.
type ResetPasswordRequest struct {
	Password  string `json:"password" binding:"required"`
	Password2 string `json:"password2" binding:"required"`
}

// VisitorProfileResponse is the visitor's own profile view.
type VisitorProfileResponse struct {
	ID          string  `json:"id"`
	UserID      string  `json:"user_id"`
	PhoneNumber string  `json:"phone_number"`
	ImageURL    *string `json:"image_url,omitempty"`
}

func newVisitorProfileResponse(p domain.VisitorProfile) VisitorProfileResponse {
	return VisitorProfileResponse{
		ID:          p.ID,
		UserID:      p.UserID,
		PhoneNumber: p.PhoneNumber,
		ImageURL:    p.ImageURL,
	}
}

// VisitorProfileUpdateRequest carries the mutable visitor fields.
type VisitorProfileUpdateRequest struct {
	PhoneNumber string  `json:"phone_number"`
	ImageURL    *string `json:"image_url"`
}

// BusinessProfileResponse is the directory view of a business.
type BusinessProfileResponse struct {
	ID           string  `json:"id"`
	UserID       string  `json:"user_id"`
	BusinessName string  `json:"business_name"`
	Category     string  `json:"category"`
	Description  string  `json:"description"`
	Phone        string  `json:"phone"`
	Location     string  `json:"location"`
	InArea       bool    `json:"in_area"`
	ImageURL     *string `json:"image_url,omitempty"`
}

func newBusinessProfileResponse(p domain.BusinessProfile) BusinessProfileResponse {
	return BusinessProfileResponse{
		ID:           p.ID,
		UserID:       p.UserID,
		BusinessName: p.BusinessName,
		Category:     p.Category,
		Description:  p.Description,
		Phone:        p.Phone,
		Location:     p.Location,
		InArea:       p.InArea,
		ImageURL:     p.ImageURL,
	}
}

// BusinessProfileUpdateRequest carries the mutable business fields.
type BusinessProfileUpdateRequest struct {
	BusinessName string  `json:"business_name"`
	Category     string  `json:"category"`
	Description  string  `json:"description"`
	Phone        string  `json:"phone"`
	Location     string  `json:"location"`
	ImageURL     *string `json:"image_url"`
}

// GalleryImageResponse is one image in a business gallery.
type GalleryImageResponse struct {
	ID         string    `json:"id"`
	BusinessID string    `json:"business_id"`
	ImageURL   string    `json:"image_url"`
	UploadedAt time.Time `json:"uploaded_at"`
}

func newGalleryImageResponse(img domain.GalleryImage) GalleryImageResponse {
	return GalleryImageResponse{
		ID:         img.ID,
		BusinessID: img.BusinessID,
		ImageURL:   img.ImageURL,
		UploadedAt: img.UploadedAt,
	}
}

// GalleryImageRequest adds an image URL to the caller's gallery.
type GalleryImageRequest struct {
	ImageURL string `json:"image_url" binding:"required"`
}

// SaleRequest is the create/update payload for a sale.
type SaleRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date" binding:"required"`
	EndDate     time.Time `json:"end_date" binding:"required"`
	ImageURL    *string   `json:"image_url"`
}

// SaleResponse is a published sale.
type SaleResponse struct {
	ID          string    `json:"id"`
	BusinessID  string    `json:"business_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	ImageURL    *string   `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func newSaleResponse(s domain.Sale) SaleResponse {
	return SaleResponse{
		ID:          s.ID,
		BusinessID:  s.BusinessID,
		Title:       s.Title,
		Description: s.Description,
		StartDate:   s.StartDate,
		EndDate:     s.EndDate,
		ImageURL:    s.ImageURL,
		CreatedAt:   s.CreatedAt,
	}
}

func newSaleResponses(sales []domain.Sale) []SaleResponse {
	out := make([]SaleResponse, 0, len(sales))
	for _, s := range sales {
		out = append(out, newSaleResponse(s))
	}
	return out
}

// PostRequest is the create/update payload for a feed post.
type PostRequest struct {
	Content  string  `json:"content" binding:"required"`
	ImageURL *string `json:"image_url"`
}

// PostResponse is a feed entry with its like count and comments.
type PostResponse struct {
	ID        string            `json:"id"`
	UserID    string            `json:"user_id"`
	Content   string            `json:"content"`
	ImageURL  *string           `json:"image_url,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	Likes     int               `json:"likes"`
	Comments  []CommentResponse `json:"comments"`
}

func newPostResponse(p domain.Post, likes int, comments []domain.Comment) PostResponse {
	out := make([]CommentResponse, 0, len(comments))
	for _, cm := range comments {
		out = append(out, newCommentResponse(cm))
	}
	return PostResponse{
		ID:        p.ID,
		UserID:    p.UserID,
		Content:   p.Content,
		ImageURL:  p.ImageURL,
		CreatedAt: p.CreatedAt,
		Likes:     likes,
		Comments:  out,
	}
}

func newPostResponses(posts []usecase.PostWithStats) []PostResponse {
	out := make([]PostResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, newPostResponse(p.Post, p.Likes, p.Comments))
	}
	return out
}

// LikeResponse reports the like state after a toggle.
type LikeResponse struct {
	Liked bool `json:"liked"`
}

// CommentRequest adds a comment to a post.
type CommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// CommentResponse is one comment on a post.
type CommentResponse struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func newCommentResponse(cm domain.Comment) CommentResponse {
	return CommentResponse{
		ID:        cm.ID,
		PostID:    cm.PostID,
		UserID:    cm.UserID,
		Content:   cm.Content,
		CreatedAt: cm.CreatedAt,
	}
}

// ReportRequest flags a post for review.
type ReportRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ReportResponse is one entry in the admin report queue.
type ReportResponse struct {
	ID         string    `json:"id"`
	PostID     string    `json:"post_id"`
	ReporterID string    `json:"reporter_id"`
	Reason     string    `json:"reason"`
	CreatedAt  time.Time `json:"created_at"`
}

func newReportResponse(r domain.Report) ReportResponse {
	return ReportResponse{
		ID:         r.ID,
		PostID:     r.PostID,
		ReporterID: r.ReporterID,
		Reason:     r.Reason,
		CreatedAt:  r.CreatedAt,
	}
}

// ContactRequest is a message to the site operators.
type ContactRequest struct {
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// ContactMessageResponse is one stored contact message.
type ContactMessageResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

func newContactMessageResponse(m domain.ContactMessage) ContactMessageResponse {
	return ContactMessageResponse{
		ID:        m.ID,
		UserID:    m.UserID,
		Subject:   m.Subject,
		Message:   m.Message,
		CreatedAt: m.CreatedAt,
	}
}

// BanResponse reports when a ban expires.
type BanResponse struct {
	BannedUntil time.Time `json:"banned_until"`
}

// UploadResponse returns the public URL of an uploaded image.
type UploadResponse struct {
	URL string `json:"url"`
}

// HealthResponse reports service liveness.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}

// ReadinessResponse reports per-dependency readiness.
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// OfferRequest is the admin create/update payload for a loyalty offer.
type OfferRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	Price       int     `json:"price" binding:"required"`
	BusinessID  *string `json:"business_id"`
	ImageURL    *string `json:"image_url"`
}

// OfferResponse is a published offer.
type OfferResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Price        int       `json:"price"`
	BusinessID   *string   `json:"business_id,omitempty"`
	BusinessName string    `json:"business_name,omitempty"`
	ImageURL     *string   `json:"image_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func newOfferResponse(v usecase.OfferView) OfferResponse {
	return OfferResponse{
		ID:           v.Offer.ID,
		Title:        v.Offer.Title,
		Description:  v.Offer.Description,
		Price:        v.Offer.Price,
		BusinessID:   v.Offer.BusinessID,
		BusinessName: v.BusinessName,
		ImageURL:     v.Offer.ImageURL,
		CreatedAt:    v.Offer.CreatedAt,
	}
}

func newOfferResponses(views []usecase.OfferView) []OfferResponse {
	out := make([]OfferResponse, 0, len(views))
	for _, v := range views {
		out = append(out, newOfferResponse(v))
	}
	return out
}

// RedemptionResponse is returned when an offer is redeemed.
type RedemptionResponse struct {
	ID         string    `json:"id"`
	OfferID    string    `json:"offer_id"`
	Code       string    `json:"code"`
	RedeemedAt time.Time `json:"redeemed_at"`
}

func newRedemptionResponse(r domain.OfferRedemption) RedemptionResponse {
	return RedemptionResponse{
		ID:         r.ID,
		OfferID:    r.OfferID,
		Code:       r.Code,
		RedeemedAt: r.RedeemedAt,
	}
}

// RedemptionItemResponse is one entry of the caller's redemption history.
type RedemptionItemResponse struct {
	ID           string    `json:"id"`
	OfferTitle   string    `json:"offer_title"`
	OfferPrice   int       `json:"offer_price"`
	BusinessName string    `json:"business_name,omitempty"`
	Code         string    `json:"code"`
	ImageURL     *string   `json:"image_url,omitempty"`
	RedeemedAt   time.Time `json:"redeemed_at"`
}

func newRedemptionItemResponses(views []usecase.RedemptionView) []RedemptionItemResponse {
	out := make([]RedemptionItemResponse, 0, len(views))
	for _, v := range views {
		out = append(out, RedemptionItemResponse{
			ID:           v.Redemption.ID,
			OfferTitle:   v.OfferTitle,
			OfferPrice:   v.OfferPrice,
			BusinessName: v.BusinessName,
			Code:         v.Redemption.Code,
			ImageURL:     v.ImageURL,
			RedeemedAt:   v.Redemption.RedeemedAt,
		})
	}
	return out
}

// SiteRatingRequest is the rate-the-site payload.
type SiteRatingRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

// SiteRatingResponse is one account's rating of the platform.
type SiteRatingResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

func newSiteRatingResponse(r domain.SiteRating) SiteRatingResponse {
	return SiteRatingResponse{
		ID:        r.ID,
		UserID:    r.UserID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
}

func newSiteRatingResponses(ratings []domain.SiteRating) []SiteRatingResponse {
	out := make([]SiteRatingResponse, 0, len(ratings))
	for _, r := range ratings {
		out = append(out, newSiteRatingResponse(r))
	}
	return out
}
