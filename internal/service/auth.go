package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pkordes/vacation-booking/backend/internal/auth"
	"github.com/pkordes/vacation-booking/backend/internal/domain"
	"github.com/pkordes/vacation-booking/backend/internal/repo"
)

// TokenIssuer mints an access token for an authenticated user.
type TokenIssuer interface {
	Issue(userID int64, role domain.Role) (string, error)
}

// AuthService implements sign-up and sign-in.
type AuthService struct {
	users  repo.UserRepo
	tokens TokenIssuer
	admins map[string]bool
}

// NewAuthService constructs an AuthService. Accounts signing up with one of
// adminEmails are given the admin role.
func NewAuthService(users repo.UserRepo, tokens TokenIssuer, adminEmails []string) *AuthService {
	admins := make(map[string]bool, len(adminEmails))
	for _, e := range adminEmails {
		admins[normalizeEmail(e)] = true
	}
	return &AuthService{users: users, tokens: tokens, admins: admins}
}

// SignUp registers a new user and returns an access token for them.
// Returns domain.ErrValidation for malformed input and domain.ErrConflict
// if the email is already registered.
func (s *AuthService) SignUp(ctx context.Context, req domain.SignUp) (string, error) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = normalizeEmail(req.Email)
	if err := validateStruct(req); err != nil {
		return "", fmt.Errorf("service.AuthService.SignUp: %w", err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return "", fmt.Errorf("service.AuthService.SignUp: %w", err)
	}

	role := domain.RoleUser
	if s.admins[req.Email] {
		role = domain.RoleAdmin
	}

	u, err := s.users.Create(ctx, domain.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		return "", fmt.Errorf("service.AuthService.SignUp: %w", err)
	}

	token, err := s.tokens.Issue(u.ID, u.Role)
	if err != nil {
		return "", fmt.Errorf("service.AuthService.SignUp: %w", err)
	}
	return token, nil
}

// SignIn checks credentials and returns an access token.
// An unknown email and a wrong password both yield domain.ErrUnauthorized
// with the same message.
func (s *AuthService) SignIn(ctx context.Context, creds domain.Credentials) (string, error) {
	creds.Email = normalizeEmail(creds.Email)
	if err := validateStruct(creds); err != nil {
		return "", fmt.Errorf("service.AuthService.SignIn: %w", err)
	}

	u, err := s.users.GetByEmail(ctx, creds.Email)
	if errors.Is(err, domain.ErrNotFound) {
		return "", fmt.Errorf("service.AuthService.SignIn: %w: incorrect email or password", domain.ErrUnauthorized)
	}
	if err != nil {
		return "", fmt.Errorf("service.AuthService.SignIn: %w", err)
	}

	if err := auth.CheckPassword(u.PasswordHash, creds.Password); err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return "", fmt.Errorf("service.AuthService.SignIn: %w: incorrect email or password", domain.ErrUnauthorized)
		}
		return "", fmt.Errorf("service.AuthService.SignIn: %w", err)
	}

	token, err := s.tokens.Issue(u.ID, u.Role)
	if err != nil {
		return "", fmt.Errorf("service.AuthService.SignIn: %w", err)
	}
	return token, nil
}

// Me returns the user with the given ID.
func (s *AuthService) Me(ctx context.Context, userID int64) (domain.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.Me: %w", err)
	}
	return u, nil
}

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}
