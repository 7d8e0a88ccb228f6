package users

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"pethub-backend/internal/shared/auth"
)

// ErrInvalidCredentials deliberately covers both an unknown email and
// a wrong password.
var ErrInvalidCredentials = errors.New("invalid email or password")

var ErrInvalidInput = errors.New("invalid input")

type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// Register creates a new account and returns a signed token for it.
func (s *Service) Register(ctx context.Context, email, password string) (User, string, error) {
	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return User{}, "", ErrInvalidInput
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) {
			return User{}, "", ErrInvalidInput
		}
		return User{}, "", err
	}

	user := User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		return User{}, "", err
	}

	token, err := auth.SignJWT(auth.Claims{Sub: user.ID, Email: user.Email})
	if err != nil {
		return User{}, "", err
	}
	return user, token, nil
}

// Login verifies credentials and returns a signed token.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.Repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return "", ErrInvalidCredentials
	}
	return auth.SignJWT(auth.Claims{Sub: user.ID, Email: user.Email})
}

// Get returns the user with the given id.
func (s *Service) Get(ctx context.Context, userID string) (User, error) {
	if strings.TrimSpace(userID) == "" {
		return User{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, userID)
}

// ProfilePatch carries the optional profile fields of an update.
// Nil means "leave unchanged".
type ProfilePatch struct {
	Email    *string `json:"email"`
	Username *string `json:"username"`
	Password *string `json:"password"`
}

// UpdateProfile applies the patch to the stored profile.
func (s *Service) UpdateProfile(ctx context.Context, userID string, patch ProfilePatch) (User, error) {
	user, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return User{}, err
	}

	updated, err := applyPatch(user, patch)
	if err != nil {
		return User{}, err
	}
	if err := s.Repo.Update(ctx, updated); err != nil {
		return User{}, err
	}
	return updated, nil
}

// applyPatch merges the patch into the user without mutating either.
func applyPatch(user User, patch ProfilePatch) (User, error) {
	out := user
	if patch.Email != nil {
		email := normalizeEmail(*patch.Email)
		if email == "" || !strings.Contains(email, "@") {
			return User{}, ErrInvalidInput
		}
		out.Email = email
	}
	if patch.Username != nil {
		out.Username = strings.TrimSpace(*patch.Username)
	}
	if patch.Password != nil {
		hash, err := auth.HashPassword(*patch.Password)
		if err != nil {
			if errors.Is(err, auth.ErrPasswordTooShort) {
				return User{}, ErrInvalidInput
			}
			return User{}, err
		}
		out.PasswordHash = hash
	}
	return out, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
