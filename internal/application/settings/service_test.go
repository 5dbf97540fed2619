package settings

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"bookforge-api/internal/domain/entity"
	"bookforge-api/internal/infrastructure/persistence/postgres"
	apperrors "bookforge-api/pkg/errors"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entity.Settings{}))

	client := postgres.NewClientWithDB(db)
	return NewService(postgres.NewSettingsRepository(client))
}

func TestService_Get_CreatesDefaults(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	settings, err := svc.Get(ctx, "owner")
	require.NoError(t, err)
	assert.Equal(t, "owner", settings.OwnerID)
	assert.Equal(t, 50000, settings.DefaultTargetWordCount)
	assert.True(t, settings.Autosave)
	require.NotNil(t, settings.Export)
	assert.Equal(t, "txt", settings.Export.Format)

	// 再次读取复用同一条记录
	again, err := svc.Get(ctx, "owner")
	require.NoError(t, err)
	assert.Equal(t, settings.ID, again.ID)
}

func TestService_Update_MergesFields(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	apiKey := "sk-test"
	target := 30000
	updated, err := svc.Update(ctx, "owner", &UpdateInput{
		APIKey:                 &apiKey,
		DefaultTargetWordCount: &target,
	})
	require.NoError(t, err)
	assert.Equal(t, "sk-test", updated.APIKey)
	assert.Equal(t, 30000, updated.DefaultTargetWordCount)
	// 未提交的字段保持默认值
	assert.Equal(t, "gpt-4o", updated.Model)
	assert.True(t, updated.Autosave)

	// 第二次只改 Export，前一次的修改保留
	updated, err = svc.Update(ctx, "owner", &UpdateInput{
		Export: &entity.ExportPreferences{Format: "epub", IncludeTOC: true},
	})
	require.NoError(t, err)
	assert.Equal(t, "sk-test", updated.APIKey)
	assert.Equal(t, "epub", updated.Export.Format)
}

func TestService_Update_Validation(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	bad := -1
	_, err := svc.Update(ctx, "owner", &UpdateInput{DefaultTargetWordCount: &bad})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}
