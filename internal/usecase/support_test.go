package usecase

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jaffaexplorer/community-platform/internal/core/domain"
	"github.com/jaffaexplorer/community-platform/internal/core/port"
	"github.com/jaffaexplorer/community-platform/internal/infra/config"
	"github.com/jaffaexplorer/community-platform/internal/infra/security"
	"github.com/jaffaexplorer/community-platform/internal/repository"
)

func TestMain(m *testing.M) {
	// Light hashing parameters keep the suite fast.
	if err := security.ConfigureArgon2(security.Argon2Config{
		Memory:      8 * 1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

var testNow = time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)

func testClock() time.Time {
	return testNow
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

func newTestUser(t *testing.T, role domain.Role, password string) domain.User {
	t.Helper()
	return domain.User{
		ID:                uuid.NewString(),
		Username:          "maya",
		Email:             "maya@example.com",
		PasswordHash:      mustHash(t, password),
		PasswordAlgo:      security.PasswordAlgo,
		Role:              role,
		Active:            true,
		Approved:          true,
		RegisteredAt:      testNow.Add(-30 * 24 * time.Hour),
		PasswordChangedAt: testNow.Add(-30 * 24 * time.Hour),
	}
}

func testConfig() *config.AppConfig {
	return &config.AppConfig{
		App: config.AppSettings{Name: "community-platform", Env: "test"},
		Token: config.TokenSettings{
			Secret:          "state-token-secret",
			VerificationTTL: 72 * time.Hour,
			ResetTTL:        24 * time.Hour,
		},
		Mail: config.MailSettings{AdminEmail: "admin@example.com"},
		Frontend: config.FrontendSettings{
			VerifySuccessURL: "https://app.example.com/verify-success",
			VerifyFailedURL:  "https://app.example.com/verify-failed",
			ResetPasswordURL: "https://app.example.com/reset-password",
			APIBaseURL:       "https://api.example.com/api/v1",
		},
		Moderation: config.ModerationSettings{BanDuration: 720 * time.Hour},
	}
}

func testStateTokens(t *testing.T) *security.StateTokenIssuer {
	t.Helper()
	issuer, err := security.NewStateTokenIssuer("state-token-secret")
	if err != nil {
		t.Fatalf("state token issuer: %v", err)
	}
	return issuer.WithClock(testClock)
}

func testTokenIssuer(t *testing.T) *security.TokenIssuer {
	t.Helper()
	issuer, err := security.NewTokenIssuer("jwt-secret-for-tests", "community-platform", 15*time.Minute, 7*24*time.Hour)
	if err != nil {
		t.Fatalf("token issuer: %v", err)
	}
	return issuer.WithClock(testClock)
}

// stubUserRepo is an in-memory port.UserRepository.
type stubUserRepo struct {
	users map[string]domain.User

	createdVisitorProfiles  []domain.VisitorProfile
	createdBusinessProfiles []domain.BusinessProfile
	createErr               error
	deletedIDs              []string
}

func newStubUserRepo(users ...domain.User) *stubUserRepo {
	repo := &stubUserRepo{users: make(map[string]domain.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (r *stubUserRepo) Create(_ context.Context, user domain.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.users[user.ID] = user
	return nil
}

func (r *stubUserRepo) CreateVisitor(_ context.Context, user domain.User, profile domain.VisitorProfile) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.users[user.ID] = user
	r.createdVisitorProfiles = append(r.createdVisitorProfiles, profile)
	return nil
}

func (r *stubUserRepo) CreateBusiness(_ context.Context, user domain.User, profile domain.BusinessProfile) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.users[user.ID] = user
	r.createdBusinessProfiles = append(r.createdBusinessProfiles, profile)
	return nil
}

func (r *stubUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	if user, ok := r.users[id]; ok {
		copy := user
		return &copy, nil
	}
	return nil, repository.ErrNotFound
}

func (r *stubUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copy := user
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubUserRepo) List(_ context.Context, filter port.UserFilter) ([]domain.User, error) {
	out := make([]domain.User, 0, len(r.users))
	for _, user := range r.users {
		if filter.Role != "" && user.Role != filter.Role {
			continue
		}
		out = append(out, user)
	}
	return out, nil
}

func (r *stubUserRepo) Count(_ context.Context, filter port.UserFilter) (int, error) {
	list, _ := r.List(context.Background(), filter)
	return len(list), nil
}

func (r *stubUserRepo) UpdateActive(_ context.Context, id string, active bool) error {
	user, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.Active = active
	r.users[id] = user
	return nil
}

func (r *stubUserRepo) UpdateApproval(_ context.Context, id string, approved, active bool) error {
	user, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.Approved = approved
	user.Active = active
	r.users[id] = user
	return nil
}

func (r *stubUserRepo) UpdateBan(_ context.Context, id string, bannedUntil *time.Time) error {
	user, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.BannedUntil = bannedUntil
	r.users[id] = user
	return nil
}

func (r *stubUserRepo) UpdatePassword(_ context.Context, id, passwordHash, passwordAlgo string, changedAt time.Time) error {
	user, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.PasswordHash = passwordHash
	user.PasswordAlgo = passwordAlgo
	user.PasswordChangedAt = changedAt
	r.users[id] = user
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.users, id)
	r.deletedIDs = append(r.deletedIDs, id)
	return nil
}

// stubMailer records outgoing mail.
type stubMailer struct {
	sent []port.Email
	err  error
}

func (m *stubMailer) Send(_ context.Context, email port.Email) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, email)
	return nil
}

// stubEvents records published event names.
type stubEvents struct {
	published []string
}

func (e *stubEvents) PublishUserRegistered(context.Context, domain.UserRegisteredEvent) error {
	e.published = append(e.published, "user.registered")
	return nil
}

func (e *stubEvents) PublishUserVerified(context.Context, domain.UserVerifiedEvent) error {
	e.published = append(e.published, "user.verified")
	return nil
}

func (e *stubEvents) PublishBusinessReviewed(context.Context, domain.BusinessReviewedEvent) error {
	e.published = append(e.published, "business.reviewed")
	return nil
}

func (e *stubEvents) PublishUserBanStateChanged(context.Context, domain.UserBanStateChangedEvent) error {
	e.published = append(e.published, "user.ban_changed")
	return nil
}

func (e *stubEvents) PublishUserDeleted(context.Context, domain.UserDeletedEvent) error {
	e.published = append(e.published, "user.deleted")
	return nil
}

func (e *stubEvents) PublishPasswordChanged(context.Context, domain.PasswordChangedEvent) error {
	e.published = append(e.published, "user.password_changed")
	return nil
}

func (e *stubEvents) has(name string) bool {
	for _, p := range e.published {
		if p == name {
			return true
		}
	}
	return false
}

// stubSaleRepo holds sales in a map keyed by ID.
type stubSaleRepo struct {
	sales map[string]domain.Sale
}

func newStubSaleRepo(sales ...domain.Sale) *stubSaleRepo {
	r := &stubSaleRepo{sales: make(map[string]domain.Sale)}
	for _, s := range sales {
		r.sales[s.ID] = s
	}
	return r
}

func (r *stubSaleRepo) Create(_ context.Context, sale domain.Sale) error {
	r.sales[sale.ID] = sale
	return nil
}

func (r *stubSaleRepo) GetByID(_ context.Context, id string) (*domain.Sale, error) {
	sale, ok := r.sales[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &sale, nil
}

func (r *stubSaleRepo) Update(_ context.Context, sale domain.Sale) error {
	if _, ok := r.sales[sale.ID]; !ok {
		return repository.ErrNotFound
	}
	r.sales[sale.ID] = sale
	return nil
}

func (r *stubSaleRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.sales[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.sales, id)
	return nil
}

func (r *stubSaleRepo) ListByBusiness(_ context.Context, businessID string) ([]domain.Sale, error) {
	var out []domain.Sale
	for _, s := range r.sales {
		if s.BusinessID == businessID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *stubSaleRepo) ListAll(context.Context) ([]domain.Sale, error) {
	out := make([]domain.Sale, 0, len(r.sales))
	for _, s := range r.sales {
		out = append(out, s)
	}
	return out, nil
}

func (r *stubSaleRepo) Count(context.Context) (int, error) {
	return len(r.sales), nil
}

// stubFavoriteRepo keys favorites by "userID/saleID".
type stubFavoriteRepo struct {
	favorites map[string]domain.FavoriteSale
}

func newStubFavoriteRepo() *stubFavoriteRepo {
	return &stubFavoriteRepo{favorites: make(map[string]domain.FavoriteSale)}
}

func favoriteKey(userID, saleID string) string {
	return userID + "/" + saleID
}

func (r *stubFavoriteRepo) Get(_ context.Context, userID, saleID string) (*domain.FavoriteSale, error) {
	fav, ok := r.favorites[favoriteKey(userID, saleID)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &fav, nil
}

func (r *stubFavoriteRepo) Create(_ context.Context, favorite domain.FavoriteSale) error {
	r.favorites[favoriteKey(favorite.UserID, favorite.SaleID)] = favorite
	return nil
}

func (r *stubFavoriteRepo) Delete(_ context.Context, userID, saleID string) error {
	key := favoriteKey(userID, saleID)
	if _, ok := r.favorites[key]; !ok {
		return repository.ErrNotFound
	}
	delete(r.favorites, key)
	return nil
}

func (r *stubFavoriteRepo) ListByUser(_ context.Context, userID string) ([]domain.FavoriteSale, error) {
	var out []domain.FavoriteSale
	for _, f := range r.favorites {
		if f.UserID == userID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *stubFavoriteRepo) Count(context.Context) (int, error) {
	return len(r.favorites), nil
}

// stubPostRepo covers posts plus their likes, comments, and reports.
type stubPostRepo struct {
	posts    map[string]domain.Post
	likes    map[string]domain.Like
	comments map[string][]domain.Comment
	reports  map[string]domain.Report
}

func newStubPostRepo(posts ...domain.Post) *stubPostRepo {
	r := &stubPostRepo{
		posts:    make(map[string]domain.Post),
		likes:    make(map[string]domain.Like),
		comments: make(map[string][]domain.Comment),
		reports:  make(map[string]domain.Report),
	}
	for _, p := range posts {
		r.posts[p.ID] = p
	}
	return r
}

func (r *stubPostRepo) Create(_ context.Context, post domain.Post) error {
	r.posts[post.ID] = post
	return nil
}

func (r *stubPostRepo) GetByID(_ context.Context, id string) (*domain.Post, error) {
	post, ok := r.posts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &post, nil
}

func (r *stubPostRepo) Update(_ context.Context, post domain.Post) error {
	if _, ok := r.posts[post.ID]; !ok {
		return repository.ErrNotFound
	}
	r.posts[post.ID] = post
	return nil
}

func (r *stubPostRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.posts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.posts, id)
	return nil
}

func (r *stubPostRepo) List(context.Context) ([]domain.Post, error) {
	out := make([]domain.Post, 0, len(r.posts))
	for _, p := range r.posts {
		out = append(out, p)
	}
	return out, nil
}

func (r *stubPostRepo) ListByUser(_ context.Context, userID string) ([]domain.Post, error) {
	var out []domain.Post
	for _, p := range r.posts {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubPostRepo) Count(context.Context) (int, error) {
	return len(r.posts), nil
}

func (r *stubPostRepo) GetLike(_ context.Context, userID, postID string) (*domain.Like, error) {
	like, ok := r.likes[userID+"/"+postID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &like, nil
}

func (r *stubPostRepo) CreateLike(_ context.Context, like domain.Like) error {
	r.likes[like.UserID+"/"+like.PostID] = like
	return nil
}

func (r *stubPostRepo) DeleteLike(_ context.Context, userID, postID string) error {
	key := userID + "/" + postID
	if _, ok := r.likes[key]; !ok {
		return repository.ErrNotFound
	}
	delete(r.likes, key)
	return nil
}

func (r *stubPostRepo) CountLikes(_ context.Context, postID string) (int, error) {
	count := 0
	for _, l := range r.likes {
		if l.PostID == postID {
			count++
		}
	}
	return count, nil
}

func (r *stubPostRepo) CreateComment(_ context.Context, comment domain.Comment) error {
	r.comments[comment.PostID] = append(r.comments[comment.PostID], comment)
	return nil
}

func (r *stubPostRepo) ListCommentsByPost(_ context.Context, postID string) ([]domain.Comment, error) {
	return r.comments[postID], nil
}

func (r *stubPostRepo) CreateReport(_ context.Context, report domain.Report) error {
	r.reports[report.ID] = report
	return nil
}

func (r *stubPostRepo) GetReport(_ context.Context, id string) (*domain.Report, error) {
	report, ok := r.reports[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &report, nil
}

func (r *stubPostRepo) ListReports(context.Context) ([]domain.Report, error) {
	out := make([]domain.Report, 0, len(r.reports))
	for _, rep := range r.reports {
		out = append(out, rep)
	}
	return out, nil
}

func (r *stubPostRepo) DeleteReport(_ context.Context, id string) error {
	if _, ok := r.reports[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.reports, id)
	return nil
}

func (r *stubPostRepo) DeleteReportsByPost(_ context.Context, postID string) error {
	for id, rep := range r.reports {
		if rep.PostID == postID {
			delete(r.reports, id)
		}
	}
	return nil
}

// stubProfileRepo holds at most a handful of profiles per test.
type stubProfileRepo struct {
	visitors   map[string]domain.VisitorProfile  // keyed by user ID
	businesses map[string]domain.BusinessProfile // keyed by profile ID
	gallery    map[string]domain.GalleryImage    // keyed by image ID
	approved   []domain.BusinessProfile
}

func newStubProfileRepo() *stubProfileRepo {
	return &stubProfileRepo{
		visitors:   make(map[string]domain.VisitorProfile),
		businesses: make(map[string]domain.BusinessProfile),
		gallery:    make(map[string]domain.GalleryImage),
	}
}

func (r *stubProfileRepo) GetVisitorByUserID(_ context.Context, userID string) (*domain.VisitorProfile, error) {
	profile, ok := r.visitors[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &profile, nil
}

func (r *stubProfileRepo) UpdateVisitor(_ context.Context, profile domain.VisitorProfile) error {
	if _, ok := r.visitors[profile.UserID]; !ok {
		return repository.ErrNotFound
	}
	r.visitors[profile.UserID] = profile
	return nil
}

func (r *stubProfileRepo) GetBusinessByUserID(_ context.Context, userID string) (*domain.BusinessProfile, error) {
	for _, profile := range r.businesses {
		if profile.UserID == userID {
			p := profile
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubProfileRepo) GetBusinessByID(_ context.Context, id string) (*domain.BusinessProfile, error) {
	profile, ok := r.businesses[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &profile, nil
}

func (r *stubProfileRepo) UpdateBusiness(_ context.Context, profile domain.BusinessProfile) error {
	if _, ok := r.businesses[profile.ID]; !ok {
		return repository.ErrNotFound
	}
	r.businesses[profile.ID] = profile
	return nil
}

func (r *stubProfileRepo) ListApprovedBusinesses(_ context.Context, category string) ([]domain.BusinessProfile, error) {
	if category == "" {
		return r.approved, nil
	}
	var out []domain.BusinessProfile
	for _, p := range r.approved {
		if strings.EqualFold(p.Category, category) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubProfileRepo) ListGallery(_ context.Context, businessID string) ([]domain.GalleryImage, error) {
	var out []domain.GalleryImage
	for _, img := range r.gallery {
		if img.BusinessID == businessID {
			out = append(out, img)
		}
	}
	return out, nil
}

func (r *stubProfileRepo) AddGalleryImage(_ context.Context, image domain.GalleryImage) error {
	r.gallery[image.ID] = image
	return nil
}

func (r *stubProfileRepo) DeleteGalleryImage(_ context.Context, id, businessID string) error {
	img, ok := r.gallery[id]
	if !ok || img.BusinessID != businessID {
		return repository.ErrNotFound
	}
	delete(r.gallery, id)
	return nil
}

// stubOfferRepo holds offers and redemptions in maps.
type stubOfferRepo struct {
	offers      map[string]domain.Offer
	redemptions map[string]domain.OfferRedemption // keyed by "userID/offerID"
}

func newStubOfferRepo(offers ...domain.Offer) *stubOfferRepo {
	r := &stubOfferRepo{
		offers:      make(map[string]domain.Offer),
		redemptions: make(map[string]domain.OfferRedemption),
	}
	for _, o := range offers {
		r.offers[o.ID] = o
	}
	return r
}

func (r *stubOfferRepo) Create(_ context.Context, offer domain.Offer) error {
	r.offers[offer.ID] = offer
	return nil
}

func (r *stubOfferRepo) GetByID(_ context.Context, id string) (*domain.Offer, error) {
	offer, ok := r.offers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &offer, nil
}

func (r *stubOfferRepo) Update(_ context.Context, offer domain.Offer) error {
	if _, ok := r.offers[offer.ID]; !ok {
		return repository.ErrNotFound
	}
	r.offers[offer.ID] = offer
	return nil
}

func (r *stubOfferRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.offers[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.offers, id)
	return nil
}

func (r *stubOfferRepo) List(context.Context) ([]domain.Offer, error) {
	out := make([]domain.Offer, 0, len(r.offers))
	for _, o := range r.offers {
		out = append(out, o)
	}
	return out, nil
}

func (r *stubOfferRepo) GetRedemption(_ context.Context, userID, offerID string) (*domain.OfferRedemption, error) {
	redemption, ok := r.redemptions[userID+"/"+offerID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &redemption, nil
}

func (r *stubOfferRepo) CreateRedemption(_ context.Context, redemption domain.OfferRedemption) error {
	r.redemptions[redemption.UserID+"/"+redemption.OfferID] = redemption
	return nil
}

func (r *stubOfferRepo) ListRedemptionsByUser(_ context.Context, userID string) ([]domain.OfferRedemption, error) {
	var out []domain.OfferRedemption
	for _, redemption := range r.redemptions {
		if redemption.UserID == userID {
			out = append(out, redemption)
		}
	}
	return out, nil
}

// stubRatingRepo holds one site rating per user.
type stubRatingRepo struct {
	ratings map[string]domain.SiteRating // keyed by rating ID
}

func newStubRatingRepo(ratings ...domain.SiteRating) *stubRatingRepo {
	r := &stubRatingRepo{ratings: make(map[string]domain.SiteRating)}
	for _, rating := range ratings {
		r.ratings[rating.ID] = rating
	}
	return r
}

func (r *stubRatingRepo) GetByUserID(_ context.Context, userID string) (*domain.SiteRating, error) {
	for _, rating := range r.ratings {
		if rating.UserID == userID {
			copy := rating
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubRatingRepo) GetByID(_ context.Context, id string) (*domain.SiteRating, error) {
	rating, ok := r.ratings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &rating, nil
}

func (r *stubRatingRepo) Create(_ context.Context, rating domain.SiteRating) error {
	r.ratings[rating.ID] = rating
	return nil
}

func (r *stubRatingRepo) Update(_ context.Context, rating domain.SiteRating) error {
	if _, ok := r.ratings[rating.ID]; !ok {
		return repository.ErrNotFound
	}
	r.ratings[rating.ID] = rating
	return nil
}

func (r *stubRatingRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.ratings[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.ratings, id)
	return nil
}

func (r *stubRatingRepo) List(context.Context) ([]domain.SiteRating, error) {
	out := make([]domain.SiteRating, 0, len(r.ratings))
	for _, rating := range r.ratings {
		out = append(out, rating)
	}
	return out, nil
}

// stubContactRepo stores contact messages in insertion order.
type stubContactRepo struct {
	messages []domain.ContactMessage
}

func (r *stubContactRepo) Create(_ context.Context, message domain.ContactMessage) error {
	r.messages = append(r.messages, message)
	return nil
}

func (r *stubContactRepo) List(context.Context) ([]domain.ContactMessage, error) {
	return r.messages, nil
}

func (r *stubContactRepo) Delete(_ context.Context, id string) error {
	for i, m := range r.messages {
		if m.ID == id {
			r.messages = append(r.messages[:i], r.messages[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func nopLogger() *zap.Logger {
	return zap.NewNop()
}
