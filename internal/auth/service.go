package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/ayush/flight-tracker/internal/apperr"
	"github.com/ayush/flight-tracker/internal/models"
	"github.com/ayush/flight-tracker/internal/store"
)

// PasswordCost is the bcrypt work factor.
const PasswordCost = 10

const invalidCredentialsMsg = "Invalid credentials"

// UserStore defines the interface for user persistence.
type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, username string) (*models.User, error)
}

// Service registers users, checks passwords and issues/verifies tokens.
type Service struct {
	users  UserStore
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewService(users UserStore, secret []byte, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = TokenTTL
	}
	return &Service{users: users, secret: secret, ttl: ttl, now: time.Now}
}

// Register stores a new account with a bcrypt hash of password. Username
// and email are stored trimmed.
func (s *Service) Register(ctx context.Context, username, email, password string) error {
	username, email = strings.TrimSpace(username), strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return apperr.Validation("username, email, and password are required")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return apperr.Validation("password must be at most 72 bytes")
	}
	if err != nil {
		return apperr.Wrap(apperr.CodeInternal, "internal error", err)
	}

	err = s.users.CreateUser(ctx, &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashed),
	})
	if errors.Is(err, store.ErrDuplicateUser) {
		return apperr.New(apperr.CodeDuplicateUser, "user already exists")
	}
	if err != nil {
		return apperr.Storage("Error registering user", err)
	}
	return nil
}

// Login returns a signed token. An unknown username and a wrong password
// produce the same error.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	user, err := s.users.GetUser(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		// Burn the same bcrypt time as a real comparison.
		_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
		return "", apperr.New(apperr.CodeInvalidCredentials, invalidCredentialsMsg)
	}
	if err != nil {
		return "", apperr.Storage("Error logging in", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", apperr.New(apperr.CodeInvalidCredentials, invalidCredentialsMsg)
	}

	token, err := IssueToken(s.secret, Identity{Username: user.Username, Email: user.Email}, s.now(), s.ttl)
	if err != nil {
		return "", apperr.Wrap(apperr.CodeInternal, "internal error", err)
	}
	return token, nil
}

// Authenticate resolves an Authorization header value to an identity
// without touching the user store.
func (s *Service) Authenticate(header string) (Identity, error) {
	raw, err := BearerToken(header)
	if err != nil {
		return Identity{}, apperr.Wrap(apperr.CodeMissingToken, "Access denied, no token provided", err)
	}
	id, err := VerifyToken(s.secret, raw, s.now())
	if err != nil {
		return Identity{}, apperr.Wrap(apperr.CodeInvalidToken, "Invalid token", err)
	}
	return id, nil
}

var (
	dummyOnce sync.Once
	dummy     []byte
)

func dummyHash() []byte {
	dummyOnce.Do(func() {
		dummy, _ = bcrypt.GenerateFromPassword([]byte("flight-tracker-dummy-password"), PasswordCost)
	})
	return dummy
}
