package postgres

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
)

func newSQLiteClient(t *testing.T) *Client {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return NewClientWithDB(db)
}

// 实体定义不依赖数据库端的 UUID 函数，迁移和写入在 SQLite 上同样可用
func TestClient_AutoMigrate_SQLite(t *testing.T) {
	ctx := context.Background()
	client := newSQLiteClient(t)
	require.NoError(t, client.AutoMigrate())

	book := entity.NewBook("owner", "Migrated", 1000)
	require.NoError(t, NewBookRepository(client).Create(ctx, book))
	assert.NotEmpty(t, book.ID, "主键由 BeforeCreate 钩子生成")
	_, err := uuid.Parse(book.ID)
	assert.NoError(t, err)

	user := entity.NewUser("mig@example.com", "Mig")
	require.NoError(t, user.SetPassword("secret-pass"))
	require.NoError(t, NewUserRepository(client).Create(ctx, user))
	assert.NotEmpty(t, user.ID)
}
