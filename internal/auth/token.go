// Package auth issues and verifies the signed session tokens used by the
// API.  Tokens are stateless: verification re-reads the user on every call
// and never consults a session store.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/iliyamo/repair-shop/internal/model"
)

// TokenType separates access tokens from refresh tokens so one can never be
// replayed as the other.
type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"
)

// Claims is the JWT payload.  CompanyID pins the token to the tenant the
// user belonged to when it was minted.
type Claims struct {
	UserID    string    `json:"userId"`
	CompanyID string    `json:"companyId"`
	Type      TokenType `json:"type"`
	jwt.RegisteredClaims
}

// Token is a signed JWT with its expiry.
type Token struct {
	Value     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// UserFinder loads a user by id regardless of tenant.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (model.User, error)
}

// Manager signs and verifies HS256 tokens.
type Manager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	users      UserFinder
	log        *zap.Logger
	now        func() time.Time
}

// NewManager builds a Manager.  A nil logger disables failure logging.
func NewManager(secret string, accessTTL, refreshTTL time.Duration, users UserFinder, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		users:      users,
		log:        log,
		now:        time.Now,
	}
}

// IssueAccessToken mints a short-lived access token for u.
func (m *Manager) IssueAccessToken(u model.User) (Token, error) {
	return m.issue(u, TokenAccess, m.accessTTL)
}

// IssueRefreshToken mints a long-lived refresh token for u.
func (m *Manager) IssueRefreshToken(u model.User) (Token, error) {
	return m.issue(u, TokenRefresh, m.refreshTTL)
}

func (m *Manager) issue(u model.User, typ TokenType, ttl time.Duration) (Token, error) {
	now := m.now().UTC()
	exp := now.Add(ttl)
	claims := Claims{
		UserID:    u.ID,
		CompanyID: u.CompanyID,
		Type:      typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return Token{}, fmt.Errorf("auth: sign %s token: %w", typ, err)
	}
	return Token{Value: signed, ExpiresAt: exp}, nil
}

// VerifyAccessToken returns the user behind an access token.  It fails
// closed: every failure yields (nil, false) and is only logged.
func (m *Manager) VerifyAccessToken(ctx context.Context, raw string) (*model.User, bool) {
	return m.verify(ctx, raw, TokenAccess)
}

// VerifyRefreshToken is the refresh-token counterpart of VerifyAccessToken.
func (m *Manager) VerifyRefreshToken(ctx context.Context, raw string) (*model.User, bool) {
	return m.verify(ctx, raw, TokenRefresh)
}

var (
	errWrongType       = errors.New("token type mismatch")
	errCompanyMismatch = errors.New("user company mismatch")
	errInactive        = errors.New("user is inactive")
)

func (m *Manager) verify(ctx context.Context, raw string, want TokenType) (*model.User, bool) {
	u, err := m.resolve(ctx, raw, want)
	if err != nil {
		m.log.Warn("token verification failed", zap.String("type", string(want)), zap.Error(err))
		return nil, false
	}
	return u, true
}

func (m *Manager) resolve(ctx context.Context, raw string, want TokenType) (*model.User, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, err
	}
	if claims.Type != want {
		return nil, fmt.Errorf("%w: got %q", errWrongType, claims.Type)
	}
	u, err := m.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("load user %s: %w", claims.UserID, err)
	}
	if u.CompanyID != claims.CompanyID {
		return nil, errCompanyMismatch
	}
	if !u.Active {
		return nil, errInactive
	}
	return &u, nil
}
