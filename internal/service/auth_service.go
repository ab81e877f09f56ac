package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/service-center/internal/auth"
	"github.com/spec-kit/service-center/internal/config"
	"github.com/spec-kit/service-center/internal/domain"
	apperrors "github.com/spec-kit/service-center/pkg/util/errorutil"
)

// AuthService authenticates staff accounts.
type AuthService struct {
	base
	tokenMgr *auth.TokenManager
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps Dependencies) *AuthService {
	return &AuthService{
		base:     newBase(deps),
		tokenMgr: auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
	}
}

// TokenManager exposes the token manager for the auth middleware.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// Login checks credentials and issues a token carrying the user kind.
// Unknown ids and wrong passwords fail the same way.
func (s *AuthService) Login(_ context.Context, id, password string) (domain.User, domain.Token, error) {
	user, err := s.registry.Users.Get(id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.User{}, domain.Token{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return domain.User{}, domain.Token{}, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash(), password); err != nil {
		s.logger.Info("login rejected", zap.String("user_id", id))
		return domain.User{}, domain.Token{}, apperrors.NewUnauthorized("invalid credentials")
	}
	token, err := s.tokenMgr.GenerateToken(user.ID(), user.Kind)
	if err != nil {
		return domain.User{}, domain.Token{}, apperrors.NewInternalError(err)
	}
	s.logger.Info("login", zap.String("user_id", id), zap.String("kind", string(user.Kind)))
	return user, token, nil
}
