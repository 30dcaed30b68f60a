package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/campusrecords/internal/app/models"
	"github.com/yigit/campusrecords/internal/app/repositories"
	"github.com/yigit/campusrecords/internal/pkg/apperrors"
	"github.com/yigit/campusrecords/internal/pkg/auth"
)

// ProviderGoogle is the provider recorded on accounts created by Google sign-in
const ProviderGoogle = "google"

// AuthService signs users in with Google and manages their sessions
type AuthService struct {
	userRepo *repositories.UserRepository
	google   auth.GoogleProvider
	sessions *auth.SessionService
	logger   zerolog.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo *repositories.UserRepository,
	google auth.GoogleProvider,
	sessions *auth.SessionService,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		google:   google,
		sessions: sessions,
		logger:   logger,
	}
}

// LoginURL returns the Google consent page URL for state
func (s *AuthService) LoginURL(state string) string {
	return s.google.AuthCodeURL(state)
}

// CompleteGoogleLogin exchanges the callback code, links the Google account to a user and
// opens a session for it
func (s *AuthService) CompleteGoogleLogin(ctx context.Context, code string) (*models.User, string, time.Time, error) {
	profile, err := s.google.Exchange(ctx, code)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Google sign-in failed")
		return nil, "", time.Time{}, apperrors.ErrInvalidCredentials
	}

	user, err := s.UpsertGoogleUser(ctx, profile)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	token, expiresAt, err := s.sessions.Issue(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	s.logger.Info().Str("userID", user.ID).Msg("User signed in")
	return user, token, expiresAt, nil
}

// UpsertGoogleUser returns the user linked to profile, creating it on first sign-in and
// refreshing its profile fields afterwards
func (s *AuthService) UpsertGoogleUser(ctx context.Context, profile *auth.GoogleProfile) (*models.User, error) {
	user, err := s.userRepo.GetByGoogleID(ctx, profile.ID)
	if err != nil {
		return nil, err
	}

	if user == nil {
		return s.userRepo.Create(ctx, &models.User{
			GoogleID: profile.ID,
			Name:     profile.Name,
			Email:    profile.Email,
			Avatar:   profile.Picture,
			Provider: ProviderGoogle,
		})
	}

	if user.Name == profile.Name && user.Email == profile.Email && user.Avatar == profile.Picture {
		return user, nil
	}
	user.Name = profile.Name
	user.Email = profile.Email
	user.Avatar = profile.Picture
	return s.userRepo.Update(ctx, user.ID, user)
}

// Authenticate resolves a session token to its user
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.sessions.Validate(token)
	if err != nil {
		return nil, apperrors.ErrUnauthorized
	}
	return s.GetUserByID(ctx, claims.UserID)
}

// GetUserByID retrieves a user by ID
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}
