package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/repair-shop/internal/apperr"
	"github.com/iliyamo/repair-shop/internal/auth"
	"github.com/iliyamo/repair-shop/internal/model"
)

// AccountStore is the persistence registration and login need.
type AccountStore interface {
	FindByEmail(ctx context.Context, email string) (model.User, error)
	Register(ctx context.Context, company model.Company, u model.User) error
}

// TokenIssuer signs and checks session tokens.
type TokenIssuer interface {
	IssueAccessToken(u model.User) (auth.Token, error)
	IssueRefreshToken(u model.User) (auth.Token, error)
	VerifyRefreshToken(ctx context.Context, raw string) (*model.User, bool)
}

// Session is what a successful register, login or refresh returns.  The
// tokens travel as plain strings with their expiries alongside.
type Session struct {
	User                  model.User `json:"user"`
	AccessToken           string     `json:"accessToken"`
	RefreshToken          string     `json:"refreshToken"`
	AccessTokenExpiresAt  time.Time  `json:"accessTokenExpiresAt"`
	RefreshTokenExpiresAt time.Time  `json:"refreshTokenExpiresAt"`
}

// AuthService signs users up and in.
type AuthService struct {
	base
	accounts   AccountStore
	tokens     TokenIssuer
	bcryptCost int
}

// NewAuthService hashes passwords at bcryptCost and signs sessions with
// tokens.
func NewAuthService(accounts AccountStore, tokens TokenIssuer, bcryptCost int, log *zap.Logger) *AuthService {
	return &AuthService{base: newBase(log, nil), accounts: accounts, tokens: tokens, bcryptCost: bcryptCost}
}

// errBadCredentials covers both unknown email and wrong password.
var errBadCredentials = apperr.Unauthenticated("Invalid email or password")

func (s *AuthService) session(u model.User) (Session, error) {
	access, err := s.tokens.IssueAccessToken(u)
	if err != nil {
		return Session{}, err
	}
	refresh, err := s.tokens.IssueRefreshToken(u)
	if err != nil {
		return Session{}, err
	}
	return Session{
		User:                  u,
		AccessToken:           access.Value,
		RefreshToken:          refresh.Value,
		AccessTokenExpiresAt:  access.ExpiresAt,
		RefreshTokenExpiresAt: refresh.ExpiresAt,
	}, nil
}

// Register creates a company and its first admin.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (Session, error) {
	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return Session{}, err
	}
	now := s.now()
	company := model.Company{ID: s.newID(), Name: strings.TrimSpace(in.CompanyName), CreatedAt: now}
	u := model.User{
		ID:           s.newID(),
		CompanyID:    company.ID,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        normalizeEmail(in.Email),
		PasswordHash: hash,
		Role:         model.RoleAdmin,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.accounts.Register(ctx, company, u); err != nil {
		return Session{}, err
	}
	s.log.Info("company registered", zap.String("company_id", company.ID), zap.String("user_id", u.ID))
	return s.session(u)
}

// Login checks the credentials and opens a session.  Unknown email and
// wrong password fail the same way.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (Session, error) {
	u, err := s.accounts.FindByEmail(ctx, normalizeEmail(in.Email))
	if errors.Is(err, apperr.ErrNotFound) {
		return Session{}, errBadCredentials
	}
	if err != nil {
		return Session{}, err
	}
	if !auth.CheckPassword(u.PasswordHash, in.Password) {
		return Session{}, errBadCredentials
	}
	if !u.Active {
		return Session{}, apperr.Forbidden("Account is deactivated")
	}
	return s.session(u)
}

// Refresh trades a valid refresh token for a new token pair.
func (s *AuthService) Refresh(ctx context.Context, in RefreshInput) (Session, error) {
	u, ok := s.tokens.VerifyRefreshToken(ctx, in.RefreshToken)
	if !ok {
		return Session{}, apperr.Unauthenticated("Invalid refresh token")
	}
	return s.session(*u)
}
