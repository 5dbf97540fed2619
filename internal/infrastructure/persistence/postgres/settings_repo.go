package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"bookforge-api/internal/domain/entity"
)

// SettingsRepository 用户设置仓储实现
type SettingsRepository struct {
	client *Client
}

// NewSettingsRepository 创建用户设置仓储
func NewSettingsRepository(client *Client) *SettingsRepository {
	return &SettingsRepository{client: client}
}

// Create 创建用户设置
func (r *SettingsRepository) Create(ctx context.Context, settings *entity.Settings) error {
	ctx, span := tracer.Start(ctx, "postgres.SettingsRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(settings).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create settings: %w", err)
	}
	return nil
}

// GetByOwner 根据用户获取设置
func (r *SettingsRepository) GetByOwner(ctx context.Context, ownerID string) (*entity.Settings, error) {
	ctx, span := tracer.Start(ctx, "postgres.SettingsRepository.GetByOwner")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var settings entity.Settings
	if err := db.First(&settings, "owner_id = ?", ownerID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return &settings, nil
}

// Update 更新用户设置
func (r *SettingsRepository) Update(ctx context.Context, settings *entity.Settings) error {
	ctx, span := tracer.Start(ctx, "postgres.SettingsRepository.Update")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Save(settings).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update settings: %w", err)
	}
	return nil
}
