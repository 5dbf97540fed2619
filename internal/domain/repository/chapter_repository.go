// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"bookforge-api/internal/domain/entity"
)

// ChapterRepository 章节仓储接口
type ChapterRepository interface {
	// Create 创建章节
	Create(ctx context.Context, chapter *entity.Chapter) error

	// GetByID 根据 ID 获取章节，不存在时返回 nil
	GetByID(ctx context.Context, id string) (*entity.Chapter, error)

	// GetByBookAndNumber 根据书籍和章节序号获取章节，不存在时返回 nil
	GetByBookAndNumber(ctx context.Context, bookID string, number int) (*entity.Chapter, error)

	// Update 更新章节
	Update(ctx context.Context, chapter *entity.Chapter) error

	// Delete 删除章节，返回是否存在
	Delete(ctx context.Context, id string) (bool, error)

	// DeleteByBook 删除书籍的全部章节
	DeleteByBook(ctx context.Context, bookID string) error

	// ListByBook 获取书籍章节列表（按章节序号升序）
	ListByBook(ctx context.Context, bookID string) ([]*entity.Chapter, error)
}
