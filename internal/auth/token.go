package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/zedcars/zedcars/internal/shared"
)

const issuer = "zedcars"

var errInvalidToken = errors.New("invalid token")

// TokenProvider signs HS256 access tokens and mints opaque refresh tokens.
// Refresh tokens are random bytes; only their sha256 is ever stored.
type TokenProvider struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenProvider constructs a provider from the shared signing secret.
func NewTokenProvider(secret string, accessTTL, refreshTTL time.Duration) *TokenProvider {
	return &TokenProvider{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// WithNow overrides the provider clock for testing.
func (p *TokenProvider) WithNow(fn func() time.Time) {
	if fn != nil {
		p.now = fn
	}
}

type customClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// SignAccess issues a short-lived access token for the admin.
func (p *TokenProvider) SignAccess(admin Admin) (string, time.Time, error) {
	now := p.now()
	exp := now.Add(p.accessTTL)

	claims := customClaims{
		Username: admin.Username,
		Role:     admin.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatInt(admin.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	return signed, exp, err
}

// ParseAccess validates an access token and extracts the caller claims.
func (p *TokenProvider) ParseAccess(token string) (*shared.Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &customClaims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return p.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(p.now))
	if err != nil {
		return nil, err
	}
	cc, ok := parsed.Claims.(*customClaims)
	if !ok || !parsed.Valid {
		return nil, errInvalidToken
	}
	adminID, err := strconv.ParseInt(cc.Subject, 10, 64)
	if err != nil {
		return nil, errInvalidToken
	}
	return &shared.Claims{AdminID: adminID, Username: cc.Username, Role: cc.Role}, nil
}

// NewRefresh mints an opaque refresh token and its storable hash.
func (p *TokenProvider) NewRefresh() (opaque, hash string, expiresAt time.Time, err error) {
	buf := make([]byte, 32)
	if _, err = rand.Read(buf); err != nil {
		return "", "", time.Time{}, err
	}
	opaque = base64.RawURLEncoding.EncodeToString(buf)
	return opaque, HashRefresh(opaque), p.now().Add(p.refreshTTL), nil
}

// HashRefresh maps an opaque refresh token to its stored form.
func HashRefresh(opaque string) string {
	sum := sha256.Sum256([]byte(opaque))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
