package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/ErlanBelekov/trade-tally/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is how long an issued token stays valid.
const DefaultTTL = 7 * 24 * time.Hour

var (
	ErrSigningKeyMissing = errors.New("jwt signing key is not configured")
	ErrSigning           = errors.New("sign jwt")
	ErrInvalidSignature  = errors.New("jwt signature is invalid")
	ErrExpired           = errors.New("jwt is expired")
	ErrMalformedClaims   = errors.New("jwt claims are malformed")
)

// Claims is the payload of every token: {user: <identity>} plus the
// registered sub/iat/exp claims.
type Claims struct {
	User domain.Identity `json:"user"`
	jwt.RegisteredClaims
}

type Token struct {
	Raw       string
	ExpiresAt time.Time
}

type Service struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func NewService(key []byte, ttl time.Duration) (*Service, error) {
	if len(key) == 0 {
		return nil, ErrSigningKeyMissing
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{key: key, ttl: ttl, now: time.Now}, nil
}

// WithClock returns a copy of s that reads the current time from now.
func (s *Service) WithClock(now func() time.Time) *Service {
	c := *s
	c.now = now
	return &c
}

func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for id that expires after the configured TTL.
func (s *Service) Issue(id domain.Identity) (Token, error) {
	now := s.now()
	return s.sign(id, now, now.Add(s.ttl))
}

// Refresh signs a new token for id whose expiry is strictly later than
// the presented one's.
func (s *Service) Refresh(presented *Claims, id domain.Identity) (Token, error) {
	now := s.now()
	exp := jwt.NewNumericDate(now.Add(s.ttl)).Time
	if presented != nil && presented.ExpiresAt != nil && !exp.After(presented.ExpiresAt.Time) {
		exp = presented.ExpiresAt.Time.Add(time.Second)
	}
	return s.sign(id, now, exp)
}

func (s *Service) sign(id domain.Identity, now, exp time.Time) (Token, error) {
	claims := Claims{
		User: id,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return Token{}, fmt.Errorf("%w: %w", ErrSigning, err)
	}
	return Token{Raw: signed, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// Verify checks signature and expiry and returns the decoded claims.
func (s *Service) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.key, nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", ErrExpired, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}
	if !token.Valid {
		return nil, ErrInvalidSignature
	}
	if claims.User.ID == "" {
		return nil, ErrMalformedClaims
	}
	return claims, nil
}
