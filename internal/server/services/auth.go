// Package services contains server-side business logic. This file implements
// AuthService, which handles login, token refresh, and resolving bearer
// tokens back into an authenticated identity.
package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/userhub/internal/common"
	"github.com/dmitrijs2005/userhub/internal/logging"
	"github.com/dmitrijs2005/userhub/internal/server/auth"
	"github.com/dmitrijs2005/userhub/internal/server/config"
	"github.com/dmitrijs2005/userhub/internal/server/models"
	"github.com/dmitrijs2005/userhub/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh
// token. ExpiresIn is the access token lifetime in seconds.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// AuthService provides authentication operations:
//   - Login: verify credentials and mint a token pair
//   - Refresh: exchange a valid refresh token for a new pair
//   - Resolve: authenticate a bearer access token into a claim set
//
// Refresh rotation does not invalidate the previous refresh token; there is
// no server-side revocation list. Tokens carry a jti claim so a denylist can
// be added externally.
type AuthService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	logger                       logging.Logger
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

// NewAuthService constructs an AuthService using repositories and server config.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) *AuthService {
	return &AuthService{
		db:                           db,
		repomanager:                  m,
		logger:                       logger,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// Login verifies the email/password pair and mints a token pair. A missing
// user and a wrong password both yield ErrorInvalidCredentials so callers
// cannot enumerate accounts; the inactive check runs only after the
// password matched.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorInvalidCredentials
		}
		s.logger.Error(ctx, "login lookup failed", "error", err)
		return nil, common.ErrorInternal
	}

	if !checkPassword(password, user.HashedPassword) {
		return nil, common.ErrorInvalidCredentials
	}

	if !user.IsActive {
		return nil, common.ErrorAccountDisabled
	}

	if err := repo.TouchLastLogin(ctx, user.ID); err != nil {
		s.logger.Error(ctx, "updating last_login failed", "user_id", user.ID, "error", err)
		return nil, common.ErrorInternal
	}

	s.logger.Info(ctx, "user authenticated", "user_id", user.ID)
	return s.generateTokenPair(user)
}

// Refresh validates a refresh token and issues a fresh pair. The old
// refresh token stays valid until its own expiry (documented limitation).
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	data, err := auth.ParseToken(refreshToken, auth.KindRefresh, s.jwtSecret)
	if err != nil {
		return nil, common.ErrorInvalidToken
	}

	user, err := s.lookupActiveUser(ctx, data.UserID)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "token refreshed", "user_id", user.ID)
	return s.generateTokenPair(user)
}

// Resolve authenticates an access token. The id is trusted from the token;
// email and username are re-read from the current row so displayed identity
// follows profile updates.
func (s *AuthService) Resolve(ctx context.Context, accessToken string) (*models.TokenData, error) {
	data, err := auth.ParseToken(accessToken, auth.KindAccess, s.jwtSecret)
	if err != nil {
		return nil, common.ErrorInvalidToken
	}

	user, err := s.lookupActiveUser(ctx, data.UserID)
	if err != nil {
		return nil, err
	}

	return &models.TokenData{UserID: user.ID, Email: user.Email, Username: user.Username}, nil
}

func (s *AuthService) lookupActiveUser(ctx context.Context, id int64) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorInvalidUser
		}
		s.logger.Error(ctx, "user lookup failed", "user_id", id, "error", err)
		return nil, common.ErrorInternal
	}
	if !user.IsActive {
		return nil, common.ErrorInvalidUser
	}

	return user, nil
}

func (s *AuthService) generateTokenPair(user *models.User) (*TokenPair, error) {
	data := models.TokenData{UserID: user.ID, Email: user.Email, Username: user.Username}

	access, err := auth.GenerateToken(data, auth.KindAccess, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := auth.GenerateToken(data, auth.KindRefresh, s.jwtSecret, s.refreshTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.accessTokenValidityDuration.Seconds()),
	}, nil
}
