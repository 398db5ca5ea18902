package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jaffaexplorer/community-platform/internal/core/domain"
)

// TokenPurpose scopes a state-bound token to a single flow so that a
// verification token can never be redeemed as a reset token or vice versa.
type TokenPurpose string

const (
	PurposeEmailVerification TokenPurpose = "email_verification"
	PurposePasswordReset     TokenPurpose = "password_reset"
)

var (
	// ErrStateTokenInvalid indicates the token does not match the user's
	// current persisted state, was issued for another purpose, or is malformed.
	ErrStateTokenInvalid = errors.New("state token invalid")
	// ErrStateTokenExpired indicates the token's embedded expiry has passed.
	ErrStateTokenExpired = errors.New("state token expired")
)

// StateTokenIssuer derives single-use-in-effect tokens from an identity's
// persisted state. Nothing is stored: the HMAC covers the password hash,
// the active flag, and the password-change timestamp, so any change to
// that state invalidates every previously derived token.
type StateTokenIssuer struct {
	secret []byte
	now    func() time.Time
}

// NewStateTokenIssuer constructs an issuer with the given HMAC secret.
func NewStateTokenIssuer(secret string) (*StateTokenIssuer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, fmt.Errorf("state token secret is required")
	}
	return &StateTokenIssuer{secret: []byte(secret), now: time.Now}, nil
}

// WithClock overrides the time source, for tests.
func (i *StateTokenIssuer) WithClock(now func() time.Time) *StateTokenIssuer {
	if now != nil {
		i.now = now
	}
	return i
}

// Derive computes a token bound to the user's current state, valid for ttl.
// Token format: base36(expiry unix) "." base64url(hmac).
func (i *StateTokenIssuer) Derive(user domain.User, purpose TokenPurpose, ttl time.Duration) string {
	expires := i.now().UTC().Add(ttl).Unix()
	mac := i.mac(user, purpose, expires)
	return strconv.FormatInt(expires, 36) + "." + base64.RawURLEncoding.EncodeToString(mac)
}

// Verify checks the token against the user's current state and purpose.
func (i *StateTokenIssuer) Verify(user domain.User, purpose TokenPurpose, token string) error {
	parts := strings.SplitN(strings.TrimSpace(token), ".", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return ErrStateTokenInvalid
	}

	expires, err := strconv.ParseInt(parts[0], 36, 64)
	if err != nil {
		return ErrStateTokenInvalid
	}

	presented, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return ErrStateTokenInvalid
	}

	expected := i.mac(user, purpose, expires)
	if !hmac.Equal(presented, expected) {
		return ErrStateTokenInvalid
	}

	if i.now().UTC().Unix() > expires {
		return ErrStateTokenExpired
	}

	return nil
}

func (i *StateTokenIssuer) mac(user domain.User, purpose TokenPurpose, expires int64) []byte {
	h := hmac.New(sha256.New, i.secret)
	fmt.Fprintf(h, "%s|%s|%d|%s", purpose, user.ID, expires, stateFingerprint(user))
	return h.Sum(nil)
}

// stateFingerprint condenses the mutable identity state a token must be
// bound to. Activation, password changes, and re-hashing all rotate it.
func stateFingerprint(user domain.User) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf(
		"%s|%s|%t|%d",
		user.ID,
		user.PasswordHash,
		user.Active,
		user.PasswordChangedAt.UTC().Unix(),
	)))
	return base64.RawStdEncoding.EncodeToString(sum[:])
}
