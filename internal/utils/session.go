package utils

import (
	"fmt"
	"strconv"
	"time"

	"loan_portal/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

const (
	audienceUser  = "user"
	audienceAdmin = "admin"
)

// UserClaims wraps a user session in signed JWT claims.
type UserClaims struct {
	model.UserSession
	jwt.RegisteredClaims
}

// AdminClaims wraps an admin session in signed JWT claims.
type AdminClaims struct {
	model.AdminSession
	jwt.RegisteredClaims
}

// SessionSigner signs and verifies the values stored in session cookies.
type SessionSigner struct {
	secretKey []byte
	maxAge    time.Duration
	now       func() time.Time
}

// NewSessionSigner creates a new SessionSigner
func NewSessionSigner(secretKey string, maxAge time.Duration) *SessionSigner {
	return &SessionSigner{secretKey: []byte(secretKey), maxAge: maxAge, now: time.Now}
}

// MaxAge is the lifetime of issued tokens and of the cookies carrying them.
func (s *SessionSigner) MaxAge() time.Duration {
	return s.maxAge
}

// registered stamps iat and exp from the signer's clock. LoginTime stays
// payload only.
func (s *SessionSigner) registered(audience, subject string) jwt.RegisteredClaims {
	issuedAt := s.now()
	return jwt.RegisteredClaims{
		Audience:  jwt.ClaimStrings{audience},
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.maxAge)),
	}
}

func (s *SessionSigner) sign(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign session: %w", err)
	}
	return tokenString, nil
}

func (s *SessionSigner) parse(tokenString, audience string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	}, jwt.WithAudience(audience), jwt.WithExpirationRequired(), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return fmt.Errorf("failed to parse session: %w", err)
	}
	if !token.Valid {
		return fmt.Errorf("invalid session")
	}
	return nil
}

// SignUser issues a token for a logged-in borrower.
func (s *SessionSigner) SignUser(sess model.UserSession) (string, error) {
	return s.sign(&UserClaims{
		UserSession:      sess,
		RegisteredClaims: s.registered(audienceUser, sess.Phone),
	})
}

// ParseUser validates a user token and returns its session.
func (s *SessionSigner) ParseUser(tokenString string) (*model.UserSession, error) {
	claims := &UserClaims{}
	if err := s.parse(tokenString, audienceUser, claims); err != nil {
		return nil, err
	}
	return &claims.UserSession, nil
}

// SignAdmin issues a token for a logged-in admin.
func (s *SessionSigner) SignAdmin(sess model.AdminSession) (string, error) {
	return s.sign(&AdminClaims{
		AdminSession:     sess,
		RegisteredClaims: s.registered(audienceAdmin, strconv.FormatInt(sess.AdminID, 10)),
	})
}

// ParseAdmin validates an admin token and returns its session.
func (s *SessionSigner) ParseAdmin(tokenString string) (*model.AdminSession, error) {
	claims := &AdminClaims{}
	if err := s.parse(tokenString, audienceAdmin, claims); err != nil {
		return nil, err
	}
	return &claims.AdminSession, nil
}
