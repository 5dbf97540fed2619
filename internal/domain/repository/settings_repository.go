// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"bookforge-api/internal/domain/entity"
)

// SettingsRepository 用户设置仓储接口
type SettingsRepository interface {
	// Create 创建设置
	Create(ctx context.Context, settings *entity.Settings) error

	// GetByOwner 根据用户 ID 获取设置，不存在时返回 nil
	GetByOwner(ctx context.Context, ownerID string) (*entity.Settings, error)

	// Update 更新设置
	Update(ctx context.Context, settings *entity.Settings) error
}
