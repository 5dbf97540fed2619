package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"bookforge-api/internal/config"
	"bookforge-api/internal/domain/entity"
	"bookforge-api/internal/infrastructure/persistence/postgres"
	apperrors "bookforge-api/pkg/errors"
	"bookforge-api/pkg/utils"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entity.User{}, &entity.Settings{}))

	client := postgres.NewClientWithDB(db)
	cfg := &config.Config{}
	cfg.Security.JWT = config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "bookforge-test",
		Expiration:        time.Hour,
		RefreshExpiration: 24 * time.Hour,
	}
	jwt := utils.NewJWTManager(cfg.Security.JWT.Secret, cfg.Security.JWT.Issuer)
	return NewService(
		postgres.NewUserRepository(client),
		postgres.NewSettingsRepository(client),
		jwt,
		cfg,
	)
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	t.Run("注册成功并附带默认设置", func(t *testing.T) {
		res, err := svc.Register(ctx, "Alice@Example.com", "password123", "Alice")
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", res.User.Email)
		assert.NotEmpty(t, res.Tokens.AccessToken)
		assert.NotEmpty(t, res.Tokens.RefreshToken)

		settings, err := svc.settings.GetByOwner(ctx, res.User.ID)
		require.NoError(t, err)
		require.NotNil(t, settings)
		assert.Equal(t, 50000, settings.DefaultTargetWordCount)
	})

	t.Run("邮箱重复", func(t *testing.T) {
		_, err := svc.Register(ctx, "alice@example.com", "password123", "Alice2")
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})

	t.Run("非法邮箱", func(t *testing.T) {
		_, err := svc.Register(ctx, "not-an-email", "password123", "X")
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("密码过短", func(t *testing.T) {
		_, err := svc.Register(ctx, "bob@example.com", "short", "Bob")
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.Register(ctx, "carol@example.com", "password123", "Carol")
	require.NoError(t, err)

	t.Run("登录成功", func(t *testing.T) {
		res, err := svc.Login(ctx, "Carol@Example.com ", "password123")
		require.NoError(t, err)
		assert.NotEmpty(t, res.Tokens.AccessToken)
		assert.NotNil(t, res.User.LastLoginAt)
	})

	t.Run("密码错误", func(t *testing.T) {
		_, err := svc.Login(ctx, "carol@example.com", "wrong-password")
		assert.ErrorIs(t, err, apperrors.ErrAuthFailed)
	})

	t.Run("用户不存在", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody@example.com", "password123")
		assert.ErrorIs(t, err, apperrors.ErrAuthFailed)
	})
}

func TestService_Refresh(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	res, err := svc.Register(ctx, "dave@example.com", "password123", "Dave")
	require.NoError(t, err)

	t.Run("刷新令牌换新对", func(t *testing.T) {
		pair, err := svc.Refresh(ctx, res.Tokens.RefreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEmpty(t, pair.RefreshToken)
	})

	t.Run("访问令牌不能用于刷新", func(t *testing.T) {
		_, err := svc.Refresh(ctx, res.Tokens.AccessToken)
		assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
	})

	t.Run("非法令牌", func(t *testing.T) {
		_, err := svc.Refresh(ctx, "garbage.token.value")
		assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
	})
}
