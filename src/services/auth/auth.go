// Package auth issues and verifies the admin session credential.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"bagbanter-api/src/apperrors"
	"bagbanter-api/src/infrastructure/log"
)

const (
	RoleAdmin = "admin"
	AdminID   = "admin-id"

	issuer = "bagbanter-api"
)

var errInvalidCredentials = fmt.Errorf("%w: Invalid email or password", apperrors.ErrUnauthenticated)

// Identity is the single admin account the gate accepts.
type Identity struct {
	Email    string
	Password string
	// Secret signs session tokens.
	Secret string
	TTL    time.Duration
}

type Principal struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Principal Principal `json:"principal"`
}

// RevocationStore remembers logged-out token ids until they expire.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// NoRevocations is used when no revocation backend is configured.
type NoRevocations struct{}

func (NoRevocations) Revoke(context.Context, string, time.Time) error { return nil }
func (NoRevocations) IsRevoked(context.Context, string) (bool, error) { return false, nil }

type Authenticator interface {
	Login(ctx context.Context, email, password string) (*Session, error)
	Authenticate(ctx context.Context, credential string) (*Principal, error)
	Authorize(principal *Principal, role string) error
	Logout(ctx context.Context, credential string) error
}

type sessionClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}

type authenticator struct {
	logger      log.Logger
	identity    Identity
	revocations RevocationStore
	now         func() time.Time
}

func NewAuthenticator(logger log.Logger, identity Identity, revocations RevocationStore) Authenticator {
	if revocations == nil {
		revocations = NoRevocations{}
	}
	if identity.TTL <= 0 {
		identity.TTL = 24 * time.Hour
	}
	return &authenticator{
		logger:      logger,
		identity:    identity,
		revocations: revocations,
		now:         time.Now,
	}
}

func (a *authenticator) Login(ctx context.Context, email, password string) (*Session, error) {
	emailOK := equal(strings.TrimSpace(email), a.identity.Email)
	passwordOK := equal(password, a.identity.Password)
	if !emailOK || !passwordOK {
		a.logger.Warn(ctx, "Rejected admin login")
		return nil, errInvalidCredentials
	}

	now := a.now()
	expiresAt := now.Add(a.identity.TTL)
	principal := Principal{ID: AdminID, Email: a.identity.Email, Role: RoleAdmin}

	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   principal.ID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Email: principal.Email,
		Role:  principal.Role,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(a.identity.Secret))
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}

	a.logger.Info(ctx, "Admin logged in")
	return &Session{Token: token, ExpiresAt: expiresAt, Principal: principal}, nil
}

func (a *authenticator) Authenticate(ctx context.Context, credential string) (*Principal, error) {
	claims, err := a.parse(credential)
	if err != nil {
		return nil, err
	}

	revoked, err := a.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		a.logger.Exception(ctx, "Failed to check session revocation", err)
		return nil, apperrors.Unavailable("check session revocation", err)
	}
	if revoked {
		return nil, fmt.Errorf("%w: session has been logged out", apperrors.ErrUnauthenticated)
	}

	return &Principal{ID: claims.Subject, Email: claims.Email, Role: claims.Role}, nil
}

func (a *authenticator) Authorize(principal *Principal, role string) error {
	if principal == nil {
		return fmt.Errorf("%w: no session", apperrors.ErrUnauthenticated)
	}
	if principal.Role != role {
		return fmt.Errorf("%w: %s role required", apperrors.ErrForbidden, role)
	}
	return nil
}

// Logout revokes the credential until it would have expired anyway.
// An invalid credential is already unusable, so logging it out succeeds.
func (a *authenticator) Logout(ctx context.Context, credential string) error {
	claims, err := a.parse(credential)
	if err != nil {
		return nil
	}
	if err := a.revocations.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		a.logger.Exception(ctx, "Failed to revoke session", err)
		return apperrors.Unavailable("revoke session", err)
	}
	a.logger.Info(ctx, "Admin logged out")
	return nil
}

func (a *authenticator) parse(credential string) (*sessionClaims, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return nil, fmt.Errorf("%w: no session", apperrors.ErrUnauthenticated)
	}

	var claims sessionClaims
	_, err := jwt.ParseWithClaims(credential, &claims, func(token *jwt.Token) (any, error) {
		return []byte(a.identity.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return nil, mapJWTError(err)
	}
	if claims.ID == "" || claims.Subject == "" {
		return nil, fmt.Errorf("%w: malformed session", apperrors.ErrUnauthenticated)
	}
	return &claims, nil
}

func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: session expired", apperrors.ErrUnauthenticated)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: session signature is invalid", apperrors.ErrUnauthenticated)
	default:
		return fmt.Errorf("%w: invalid session: %v", apperrors.ErrUnauthenticated, err)
	}
}

func equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
