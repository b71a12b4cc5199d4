package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const issuer = "storefront"

var (
	ErrInvalidToken = errors.New("auth: invalid token")
	ErrForbidden    = errors.New("auth: forbidden")
)

// Identity is the principal a verified token is bound to.
type Identity struct {
	UserID uint64
	Role   string
}

type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService mints and validates HS256 session tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type Option func(*TokenService)

func WithClock(clock func() time.Time) Option {
	return func(s *TokenService) {
		if clock != nil {
			s.now = clock
		}
	}
}

func NewTokenService(secret string, ttl time.Duration, opts ...Option) (*TokenService, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("auth: secret is required")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	s := &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *TokenService) Issue(userID uint64, role string) (string, error) {
	now := s.now()
	c := claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatUint(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

func (s *TokenService) Verify(token string) (Identity, error) {
	var c claims
	// Expiry is checked below against the injected clock.
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	parsed, err := parser.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !c.VerifyExpiresAt(s.now(), true) {
		return Identity{}, fmt.Errorf("%w: token expired", ErrInvalidToken)
	}
	if c.Issuer != issuer {
		return Identity{}, fmt.Errorf("%w: unexpected issuer", ErrInvalidToken)
	}
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	return Identity{UserID: id, Role: c.Role}, nil
}
