package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/sharein/sharein/internal/apperr"
	"github.com/sharein/sharein/internal/auth"
	"github.com/sharein/sharein/internal/models"
)

// AuthService handles registration and login. It sits outside the ledger
// core: its only job is turning credentials into verified user identities.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
	}
}

// RegisterInput carries a registration request.
type RegisterInput struct {
	FirstName       string
	LastName        string
	Email           string
	Password        string
	ConfirmPassword string
}

// Register creates a new user account and returns it with a session token.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, string, error) {
	var fields []apperr.FieldError
	if strings.TrimSpace(in.FirstName) == "" {
		fields = append(fields, apperr.FieldError{Field: "firstName", Message: "first name cannot be empty"})
	}
	if strings.TrimSpace(in.LastName) == "" {
		fields = append(fields, apperr.FieldError{Field: "lastName", Message: "last name cannot be empty"})
	}
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		fields = append(fields, apperr.FieldError{Field: "email", Message: "please enter a valid email"})
	}
	if in.Password == "" {
		fields = append(fields, apperr.FieldError{Field: "password", Message: "password cannot be empty"})
	}
	if in.ConfirmPassword != in.Password {
		fields = append(fields, apperr.FieldError{Field: "confirmPassword", Message: "passwords do not match"})
	}
	if len(fields) > 0 {
		return nil, "", apperr.Validation(fields...)
	}

	user, err := s.authenticator.Register(ctx, in.FirstName, in.LastName, in.Email, in.Password)
	if err != nil {
		slog.Warn("registration failed", "email", in.Email, "error", err)
		switch {
		case errors.Is(err, auth.ErrEmailExists):
			return nil, "", apperr.Conflict("user with this email already exists")
		case errors.Is(err, auth.ErrWeakPassword):
			return nil, "", apperr.Validation(apperr.FieldError{Field: "password", Message: err.Error()})
		default:
			return nil, "", err
		}
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		return nil, "", err
	}

	slog.Info("user registered", "user_id", user.ID, "email", user.Email)
	return user, token, nil
}

// Login authenticates a user and returns it with a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	if email == "" || password == "" {
		return nil, "", apperr.Unauthenticated("invalid email or password")
	}

	user, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		slog.Warn("login failed", "email", email)
		return nil, "", apperr.Unauthenticated("invalid email or password")
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		return nil, "", err
	}

	slog.Info("user logged in", "user_id", user.ID, "email", user.Email)
	return user, token, nil
}
