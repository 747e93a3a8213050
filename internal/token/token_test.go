package token_test

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ErlanBelekov/trade-tally/internal/domain"
	"github.com/ErlanBelekov/trade-tally/internal/token"
	"github.com/golang-jwt/jwt/v5"
)

const testKey = "token-test-secret-at-least-32-chars!"

var testIdentity = domain.Identity{
	ID:         "0b7c4b8e-5f7a-4d1e-9a43-2b1f0c9e7d11",
	Username:   "testing9090",
	FirstName:  "Terry",
	LastName:   "Tester",
	Email:      "testing@yahoo.com",
	Profession: "hairstylist",
}

func newService(t *testing.T, now time.Time) *token.Service {
	t.Helper()
	s, err := token.NewService([]byte(testKey), time.Hour)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return s.WithClock(func() time.Time { return now })
}

func TestNewService_MissingKey(t *testing.T) {
	if _, err := token.NewService(nil, time.Hour); !errors.Is(err, token.ErrSigningKeyMissing) {
		t.Errorf("want ErrSigningKeyMissing, got %v", err)
	}
}

func TestNewService_DefaultTTL(t *testing.T) {
	s, err := token.NewService([]byte(testKey), 0)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	if s.TTL() != token.DefaultTTL {
		t.Errorf("ttl = %v, want %v", s.TTL(), token.DefaultTTL)
	}
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	now := time.Now()
	s := newService(t, now)

	tok, err := s.Issue(testIdentity)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if want := now.Add(time.Hour).Truncate(time.Second); !tok.ExpiresAt.Equal(want) {
		t.Errorf("expires at %v, want %v", tok.ExpiresAt, want)
	}

	claims, err := s.Verify(tok.Raw)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.User != testIdentity {
		t.Errorf("user = %+v, want %+v", claims.User, testIdentity)
	}
	if claims.Subject != testIdentity.ID {
		t.Errorf("sub = %q, want %q", claims.Subject, testIdentity.ID)
	}
}

func TestIssue_PayloadHasNoPassword(t *testing.T) {
	s := newService(t, time.Now())

	tok, err := s.Issue(testIdentity)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	payload, err := base64.RawURLEncoding.DecodeString(strings.Split(tok.Raw, ".")[1])
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	var body map[string]map[string]any
	if err := json.Unmarshal(payload, &body); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	for _, field := range []string{"password", "passwordHash", "PasswordHash"} {
		if _, ok := body["user"][field]; ok {
			t.Errorf("payload user carries %q", field)
		}
	}
}

func TestVerify_Expired(t *testing.T) {
	issuedAt := time.Now().Add(-2 * time.Hour)
	tok, err := newService(t, issuedAt).Issue(testIdentity)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	_, err = newService(t, time.Now()).Verify(tok.Raw)
	if !errors.Is(err, token.ErrExpired) {
		t.Errorf("want ErrExpired, got %v", err)
	}
}

func TestVerify_WrongKey(t *testing.T) {
	other, err := token.NewService([]byte("another-key-that-is-32-chars-long!"), time.Hour)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	tok, err := other.Issue(testIdentity)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	_, err = newService(t, time.Now()).Verify(tok.Raw)
	if !errors.Is(err, token.ErrInvalidSignature) {
		t.Errorf("want ErrInvalidSignature, got %v", err)
	}
}

func TestVerify_Garbage(t *testing.T) {
	_, err := newService(t, time.Now()).Verify("not.a.jwt")
	if !errors.Is(err, token.ErrInvalidSignature) {
		t.Errorf("want ErrInvalidSignature, got %v", err)
	}
}

func TestVerify_NoneAlgorithmRejected(t *testing.T) {
	claims := jwt.MapClaims{
		"user": map[string]any{"id": testIdentity.ID},
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := newService(t, time.Now()).Verify(raw); !errors.Is(err, token.ErrInvalidSignature) {
		t.Errorf("want ErrInvalidSignature, got %v", err)
	}
}

func TestVerify_MissingExpiry(t *testing.T) {
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user": map[string]any{"id": testIdentity.ID},
	}).SignedString([]byte(testKey))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := newService(t, time.Now()).Verify(raw); err == nil {
		t.Error("expected error for token without exp")
	}
}

func TestVerify_MissingUser(t *testing.T) {
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "someone",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testKey))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := newService(t, time.Now()).Verify(raw); !errors.Is(err, token.ErrMalformedClaims) {
		t.Errorf("want ErrMalformedClaims, got %v", err)
	}
}

func TestRefresh_ExpiryStrictlyIncreases(t *testing.T) {
	now := time.Now()
	s := newService(t, now)

	first, err := s.Issue(testIdentity)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	presented, err := s.Verify(first.Raw)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	// Same clock reading: a naive re-issue would produce the same exp.
	second, err := s.Refresh(presented, testIdentity)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if !second.ExpiresAt.After(first.ExpiresAt) {
		t.Errorf("refreshed exp %v is not after %v", second.ExpiresAt, first.ExpiresAt)
	}

	later := newService(t, now.Add(10*time.Minute))
	third, err := later.Refresh(presented, testIdentity)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if !third.ExpiresAt.After(first.ExpiresAt) {
		t.Errorf("refreshed exp %v is not after %v", third.ExpiresAt, first.ExpiresAt)
	}
}
