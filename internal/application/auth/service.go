// Package auth 实现注册登录和令牌签发
package auth

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"

	"bookforge-api/internal/config"
	"bookforge-api/internal/domain/entity"
	"bookforge-api/internal/domain/repository"
	apperrors "bookforge-api/pkg/errors"
	"bookforge-api/pkg/logger"
	"bookforge-api/pkg/utils"
)

var tracer = otel.Tracer("auth")

// Service 认证服务
type Service struct {
	users    repository.UserRepository
	settings repository.SettingsRepository
	jwt      *utils.JWTManager
	cfg      *config.JWTConfig
}

// NewService 创建认证服务
func NewService(users repository.UserRepository, settings repository.SettingsRepository, jwt *utils.JWTManager, cfg *config.Config) *Service {
	return &Service{
		users:    users,
		settings: settings,
		jwt:      jwt,
		cfg:      &cfg.Security.JWT,
	}
}

// Result 认证结果
type Result struct {
	User   *entity.User
	Tokens *utils.TokenPair
}

// Register 注册新用户并初始化默认设置
func (s *Service) Register(ctx context.Context, email, password, name string) (*Result, error) {
	ctx, span := tracer.Start(ctx, "auth.Service.Register")
	defer span.End()

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperrors.ErrValidationFailed.WithDetail("a valid email is required")
	}
	if len(password) < 8 {
		return nil, apperrors.ErrValidationFailed.WithDetail("password must be at least 8 characters")
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.ErrConflict.WithDetail("email is already registered")
	}

	user := entity.NewUser(email, name)
	if err := user.SetPassword(password); err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	// 设置行缺失时按默认值补齐，失败不阻断注册
	if err := s.settings.Create(ctx, entity.DefaultSettings(user.ID)); err != nil {
		logger.Warn(ctx, "failed to create default settings", "user_id", user.ID, "error", err)
	}

	tokens, err := s.jwt.GenerateTokenPair(user.ID, s.cfg.Expiration, s.cfg.RefreshExpiration)
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "user registered", "user_id", user.ID)
	return &Result{User: user, Tokens: tokens}, nil
}

// Login 校验凭证并签发令牌
func (s *Service) Login(ctx context.Context, email, password string) (*Result, error) {
	ctx, span := tracer.Start(ctx, "auth.Service.Login")
	defer span.End()

	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.CheckPassword(password) {
		return nil, apperrors.ErrAuthFailed.WithDetail("invalid email or password")
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.users.Update(ctx, user); err != nil {
		logger.Warn(ctx, "failed to record login time", "user_id", user.ID, "error", err)
	}

	tokens, err := s.jwt.GenerateTokenPair(user.ID, s.cfg.Expiration, s.cfg.RefreshExpiration)
	if err != nil {
		return nil, err
	}
	return &Result{User: user, Tokens: tokens}, nil
}

// Refresh 用刷新令牌换取新令牌对
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*utils.TokenPair, error) {
	ctx, span := tracer.Start(ctx, "auth.Service.Refresh")
	defer span.End()

	claims, err := s.jwt.ParseToken(refreshToken)
	if err != nil {
		return nil, apperrors.ErrTokenInvalid.WithError(err)
	}
	if claims.Type != "refresh" {
		return nil, apperrors.ErrTokenInvalid.WithDetail("not a refresh token")
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.ErrTokenInvalid.WithDetail("user no longer exists")
	}

	return s.jwt.GenerateTokenPair(user.ID, s.cfg.Expiration, s.cfg.RefreshExpiration)
}
