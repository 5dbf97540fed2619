// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"bookforge-api/internal/domain/entity"
)

// IdeaRepository 选题仓储接口
type IdeaRepository interface {
	// CreateBatch 批量创建选题
	CreateBatch(ctx context.Context, ideas []*entity.Idea) error

	// GetByID 根据 ID 获取选题，不存在时返回 nil
	GetByID(ctx context.Context, id string) (*entity.Idea, error)

	// Update 更新选题
	Update(ctx context.Context, idea *entity.Idea) error

	// Delete 删除选题，返回是否存在
	Delete(ctx context.Context, id string) (bool, error)

	// ListByOwner 获取用户的选题列表（按创建时间倒序）
	ListByOwner(ctx context.Context, ownerID string) ([]*entity.Idea, error)
}
