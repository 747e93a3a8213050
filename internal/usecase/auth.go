package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/ErlanBelekov/trade-tally/internal/domain"
	"github.com/ErlanBelekov/trade-tally/internal/metrics"
	"github.com/ErlanBelekov/trade-tally/internal/repository"
	"github.com/ErlanBelekov/trade-tally/internal/token"
)

const (
	usernameMinLen = 3
	usernameMaxLen = 50
	passwordMinLen = 10
	passwordMaxLen = 72
)

// dummyPassword is hashed once and compared against on unknown usernames.
const dummyPassword = "trade-tally-timing-equalizer"

type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Compare(hash, plaintext string) (bool, error)
}

type TokenIssuer interface {
	Issue(id domain.Identity) (token.Token, error)
	Refresh(presented *token.Claims, id domain.Identity) (token.Token, error)
}

type AuthUsecase struct {
	users  repository.UserRepository
	hasher PasswordHasher
	tokens TokenIssuer

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthUsecase(users repository.UserRepository, hasher PasswordHasher, tokens TokenIssuer) *AuthUsecase {
	return &AuthUsecase{
		users:  users,
		hasher: hasher,
		tokens: tokens,
	}
}

type RegisterInput struct {
	Username   string
	Password   string
	FirstName  string
	LastName   string
	Email      string
	Profession string
}

// Session is a signed token together with the user it was issued for.
type Session struct {
	Token token.Token
	User  *domain.User
}

// Register validates the input, stores the new user with a hashed password
// and signs a token for it.
func (u *AuthUsecase) Register(ctx context.Context, input RegisterInput) (*Session, error) {
	session, err := u.register(ctx, input)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("failure").Inc()
		return nil, err
	}
	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	return session, nil
}

func (u *AuthUsecase) register(ctx context.Context, input RegisterInput) (*Session, error) {
	if err := validateCredentials(input.Username, input.Password); err != nil {
		return nil, err
	}

	exists, err := u.users.UsernameExists(ctx, input.Username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if exists {
		return nil, domain.ErrUsernameTaken
	}

	hash, err := u.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	created, err := u.users.Create(ctx, &domain.User{
		Username:     input.Username,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		Profession:   strings.ToLower(strings.TrimSpace(input.Profession)),
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	tok, err := u.tokens.Issue(created.Identity())
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	metrics.TokensIssuedTotal.WithLabelValues("register").Inc()

	return &Session{Token: tok, User: created}, nil
}

// validateCredentials counts username length in characters, matching the
// users_username_length constraint, and password length in bytes, which is
// what bcrypt limits.
func validateCredentials(username, password string) error {
	byteLen := func(s string) int { return len(s) }
	fields := []struct {
		location string
		value    string
		length   func(string) int
		min, max int
	}{
		{"username", username, utf8.RuneCountInString, usernameMinLen, usernameMaxLen},
		{"password", password, byteLen, passwordMinLen, passwordMaxLen},
	}

	for _, f := range fields {
		if strings.TrimSpace(f.value) != f.value {
			return domain.NewValidationError(f.location, "Cannot start or end with whitespace")
		}
	}
	for _, f := range fields {
		if n := f.length(f.value); n < f.min {
			return domain.NewValidationError(f.location, fmt.Sprintf("Must be at least %d characters long", f.min))
		} else if n > f.max {
			return domain.NewValidationError(f.location, fmt.Sprintf("Must be at most %d characters long", f.max))
		}
	}
	return nil
}

// Login checks username and password and signs a token on success.
// Failures are *domain.CredentialsError tagged with the field that failed.
func (u *AuthUsecase) Login(ctx context.Context, username, password string) (*Session, error) {
	session, err := u.login(ctx, username, password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, err
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return session, nil
}

func (u *AuthUsecase) login(ctx context.Context, username, password string) (*Session, error) {
	user, err := u.users.FindByUsername(ctx, username)
	if errors.Is(err, domain.ErrUserNotFound) {
		u.compareDummy(password)
		return nil, &domain.CredentialsError{Location: "username"}
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	ok, err := u.hasher.Compare(user.PasswordHash, password)
	if err != nil {
		return nil, fmt.Errorf("compare password: %w", err)
	}
	if !ok {
		return nil, &domain.CredentialsError{Location: "password"}
	}

	tok, err := u.tokens.Issue(user.Identity())
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	metrics.TokensIssuedTotal.WithLabelValues("login").Inc()

	return &Session{Token: tok, User: user}, nil
}

func (u *AuthUsecase) compareDummy(password string) {
	u.dummyOnce.Do(func() {
		u.dummyHash, _ = u.hasher.Hash(dummyPassword)
	})
	if u.dummyHash != "" {
		_, _ = u.hasher.Compare(u.dummyHash, password)
	}
}

// Refresh reloads the token's user and signs a token that outlives the
// presented one. A user that no longer exists yields domain.ErrUserNotFound.
func (u *AuthUsecase) Refresh(ctx context.Context, claims *token.Claims) (*Session, error) {
	user, err := u.users.FindByID(ctx, claims.User.ID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	tok, err := u.tokens.Refresh(claims, user.Identity())
	if err != nil {
		return nil, fmt.Errorf("refresh token: %w", err)
	}
	metrics.TokensIssuedTotal.WithLabelValues("refresh").Inc()

	return &Session{Token: tok, User: user}, nil
}

func (u *AuthUsecase) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := u.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}
