// internal/auth/service.go
// Account registration, sign-in, Google sign-in, and token lifecycle

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"github.com/damilolaoke/carelink-backend/internal/common/utils"
	"github.com/damilolaoke/carelink-backend/internal/config"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrSessionNotFound    = errors.New("session not found or expired")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTokenRevoked       = errors.New("token has been revoked")
)

// Service defines authentication operations
type Service interface {
	Signup(ctx context.Context, req *SignupRequest) (*AuthResponse, error)
	Signin(ctx context.Context, req *SigninRequest, userAgent string) (*AuthResponse, error)
	GoogleAuth(ctx context.Context, req *GoogleAuthRequest, userAgent string) (*AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string, userAgent string) (*AuthResponse, error)
	ValidateToken(ctx context.Context, token string) (*utils.JWTClaims, error)
	Logout(ctx context.Context, accessToken, refreshToken string) error
	GetUserByID(ctx context.Context, userID int64) (*User, error)
}

type service struct {
	repo   Repository
	cache  *redis.Client // optional; nil disables revocation caching
	config *config.Config
}

// NewService creates the auth service. cache may be nil when Redis is
// not configured; access token revocation then relies on expiry alone.
func NewService(repo Repository, cache *redis.Client, cfg *config.Config) Service {
	return &service{
		repo:   repo,
		cache:  cache,
		config: cfg,
	}
}

func (s *service) Signup(ctx context.Context, req *SignupRequest) (*AuthResponse, error) {
	taken, err := s.repo.IsEmailTaken(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	taken, err = s.repo.IsUsernameTaken(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.config.BCryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	hashStr := string(hash)
	user := &User{
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: &hashStr,
		DisplayName:  req.DisplayName,
		Provider:     "local",
	}
	if req.Phone != "" {
		user.Phone = &req.Phone
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	return s.createAuthSession(ctx, user, "")
}

func (s *service) Signin(ctx context.Context, req *SigninRequest, userAgent string) (*AuthResponse, error) {
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if user.PasswordHash == nil {
		// Account created through Google sign-in; no local password exists
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.createAuthSession(ctx, user, userAgent)
}

func (s *service) GoogleAuth(ctx context.Context, req *GoogleAuthRequest, userAgent string) (*AuthResponse, error) {
	oauth2Service, err := oauth2.NewService(ctx, option.WithoutAuthentication())
	if err != nil {
		return nil, fmt.Errorf("failed to create oauth2 service: %w", err)
	}

	tokenInfo, err := oauth2Service.Tokeninfo().IdToken(req.IDToken).Do()
	if err != nil {
		return nil, fmt.Errorf("invalid Google token: %w", err)
	}

	if s.config.GoogleClientID != "" && tokenInfo.Audience != s.config.GoogleClientID {
		return nil, ErrInvalidToken
	}

	user, err := s.repo.GetUserByEmail(ctx, tokenInfo.Email)
	switch {
	case errors.Is(err, ErrUserNotFound):
		user = &User{
			Email:       tokenInfo.Email,
			Username:    generateUsernameFromEmail(tokenInfo.Email),
			DisplayName: tokenInfo.Email,
			Provider:    "google",
			ProviderID:  &tokenInfo.UserId,
			IsVerified:  true,
		}
		if err := s.repo.CreateUser(ctx, user); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		if user.Provider == "local" {
			user.Provider = "google"
			user.ProviderID = &tokenInfo.UserId
			user.IsVerified = true
			if err := s.repo.UpdateUser(ctx, user); err != nil {
				return nil, err
			}
		}
	}

	return s.createAuthSession(ctx, user, userAgent)
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string, userAgent string) (*AuthResponse, error) {
	claims, err := utils.ValidateJWT(refreshToken, s.config.JWTSecret)
	if err != nil || claims.Type != "refresh" {
		return nil, ErrInvalidToken
	}

	session, err := s.repo.GetSessionByRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.GetUserByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}

	// Rotate: the old refresh token is single-use
	if err := s.repo.DeleteSessionByRefreshToken(ctx, refreshToken); err != nil {
		return nil, err
	}

	return s.createAuthSession(ctx, user, userAgent)
}

func (s *service) ValidateToken(ctx context.Context, token string) (*utils.JWTClaims, error) {
	claims, err := utils.ValidateJWT(token, s.config.JWTSecret)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if s.cache != nil {
		revoked, err := s.cache.Exists(ctx, revocationKey(token)).Result()
		if err == nil && revoked > 0 {
			return nil, ErrTokenRevoked
		}
	}

	return claims, nil
}

func (s *service) Logout(ctx context.Context, accessToken, refreshToken string) error {
	if refreshToken != "" {
		if err := s.repo.DeleteSessionByRefreshToken(ctx, refreshToken); err != nil {
			return err
		}
	}

	if s.cache != nil && accessToken != "" {
		if claims, err := utils.ValidateJWT(accessToken, s.config.JWTSecret); err == nil {
			ttl := time.Until(time.Unix(claims.ExpiresAt, 0))
			if ttl > 0 {
				s.cache.Set(ctx, revocationKey(accessToken), "1", ttl)
			}
		}
	}

	return nil
}

func (s *service) GetUserByID(ctx context.Context, userID int64) (*User, error) {
	return s.repo.GetUserByID(ctx, userID)
}

func (s *service) createAuthSession(ctx context.Context, user *User, userAgent string) (*AuthResponse, error) {
	now := time.Now()

	accessToken, err := utils.GenerateJWT(&utils.JWTClaims{
		UserID:    user.ID,
		Email:     user.Email,
		Username:  user.Username,
		Type:      "access",
		ExpiresAt: now.Add(s.config.AccessTokenExpiry).Unix(),
		IssuedAt:  now.Unix(),
		NotBefore: now.Unix(),
		Issuer:    "carelink",
		Subject:   user.PublicID,
	}, s.config.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := utils.GenerateJWT(&utils.JWTClaims{
		UserID:    user.ID,
		Email:     user.Email,
		Username:  user.Username,
		Type:      "refresh",
		ExpiresAt: now.Add(s.config.RefreshTokenExpiry).Unix(),
		IssuedAt:  now.Unix(),
		NotBefore: now.Unix(),
		Issuer:    "carelink",
		Subject:   user.PublicID,
	}, s.config.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	session := &Session{
		UserID:       user.ID,
		RefreshToken: refreshToken,
		UserAgent:    userAgent,
		ExpiresAt:    now.Add(s.config.RefreshTokenExpiry),
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	return &AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.config.AccessTokenExpiry.Seconds()),
	}, nil
}

func revocationKey(token string) string {
	return "auth:revoked:" + token
}

func generateUsernameFromEmail(email string) string {
	base := email
	for i, c := range email {
		if c == '@' {
			base = email[:i]
			break
		}
	}
	// Suffix keeps generated names unique without a retry loop
	return fmt.Sprintf("%s%d", base, time.Now().UnixNano()%100000)
}
