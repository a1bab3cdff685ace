package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/easybiz-pos/easybiz-pos/internal/shared"
)

// Verification failure kinds. Handlers collapse all three into one generic
// unauthorized response; the distinction exists for logging and tests.
var (
	ErrTokenMalformed = errors.New("auth: token malformed")
	ErrTokenSignature = errors.New("auth: token signature invalid")
	ErrTokenExpired   = errors.New("auth: token expired")
)

// Claims is the capability token payload. It carries everything a
// downstream request needs to authorize without a database round-trip.
type Claims struct {
	jwt.RegisteredClaims
	UserID     int64    `json:"uid"`
	ClientID   int64    `json:"client_id"`
	StoreID    int64    `json:"store_id,omitempty"`
	Role       string   `json:"role"`
	Name       string   `json:"name"`
	Features   []string `json:"features"`
	PlanActive bool     `json:"plan_active"`
}

// TokenManager mints and validates signed capability tokens. The signing
// key is process-wide configuration, loaded once at startup.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager constructs a TokenManager.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// TTL exposes the configured token lifetime.
func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// Issue signs a token for the user with the resolved feature set embedded.
func (m *TokenManager) Issue(user *User, features []string, planActive bool, now time.Time) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		UserID:     user.ID,
		ClientID:   user.ClientID,
		StoreID:    user.StoreID,
		Role:       user.Role,
		Name:       user.DisplayName(),
		Features:   features,
		PlanActive: planActive,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify parses and validates a token string, returning the decoded claims
// or one of ErrTokenMalformed, ErrTokenSignature, ErrTokenExpired.
func (m *TokenManager) Verify(tokenString string) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenSignature
		}
		return m.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, ErrTokenSignature):
			return nil, ErrTokenSignature
		default:
			return nil, ErrTokenMalformed
		}
	}
	return &claims, nil
}

// VerifyToken adapts Verify to the shared principal shape consumed by the
// authorization gate.
func (m *TokenManager) VerifyToken(tokenString string) (*shared.Principal, error) {
	claims, err := m.Verify(tokenString)
	if err != nil {
		return nil, err
	}
	return &shared.Principal{
		UserID:     claims.UserID,
		ClientID:   claims.ClientID,
		StoreID:    claims.StoreID,
		Role:       claims.Role,
		Name:       claims.Name,
		Features:   claims.Features,
		PlanActive: claims.PlanActive,
	}, nil
}
