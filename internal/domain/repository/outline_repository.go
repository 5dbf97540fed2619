// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"bookforge-api/internal/domain/entity"
)

// OutlineRepository 大纲仓储接口
type OutlineRepository interface {
	// Create 创建大纲
	Create(ctx context.Context, outline *entity.Outline) error

	// GetByID 根据 ID 获取大纲，不存在时返回 nil
	GetByID(ctx context.Context, id string) (*entity.Outline, error)

	// GetByBook 根据所属书籍 ID 获取大纲（至多一条），不存在时返回 nil
	GetByBook(ctx context.Context, bookID string) (*entity.Outline, error)

	// Update 更新大纲
	Update(ctx context.Context, outline *entity.Outline) error

	// DeleteByBook 删除书籍的大纲，返回是否存在
	DeleteByBook(ctx context.Context, bookID string) (bool, error)
}
