package concierge

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"concierge/models"
	"concierge/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Login checks the credentials and issues a signed token for the user.
// Unknown emails and wrong passwords return the same error.
func (s *Service) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", nil, invalid("email and password are required")
	}

	user, err := s.Store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", nil, ErrInactiveUser
	}

	token, err := utils.GenerateToken(user.ID, user.Email, s.TokenTTL)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	if err := utils.CacheAuthUser(ctx, utils.GetAuthCacheClient(), token, user, time.Now()); err != nil {
		s.Logger.Warn("Failed to cache auth session", zap.String("userID", user.ID), zap.Error(err))
	}
	s.Logger.Info("User logged in", zap.String("userID", user.ID), zap.String("role", string(user.Role)))
	return token, user, nil
}

// CurrentUser loads the user behind a token subject. Inactive users are refused.
func (s *Service) CurrentUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.Store.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInactiveUser
	}
	return user, nil
}
