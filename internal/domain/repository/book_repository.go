// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"bookforge-api/internal/domain/entity"
)

// BookRepository 书籍仓储接口
type BookRepository interface {
	// Create 创建书籍
	Create(ctx context.Context, book *entity.Book) error

	// GetByID 根据 ID 获取书籍，不存在时返回 nil
	GetByID(ctx context.Context, id string) (*entity.Book, error)

	// Update 更新书籍
	Update(ctx context.Context, book *entity.Book) error

	// Delete 删除书籍，返回是否存在
	Delete(ctx context.Context, id string) (bool, error)

	// ListByOwner 获取用户的书籍列表（按更新时间倒序）
	ListByOwner(ctx context.Context, ownerID string) ([]*entity.Book, error)
}
