package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"bookforge-api/internal/domain/entity"
)

// IdeaRepository 创意仓储实现
type IdeaRepository struct {
	client *Client
}

// NewIdeaRepository 创建创意仓储
func NewIdeaRepository(client *Client) *IdeaRepository {
	return &IdeaRepository{client: client}
}

// CreateBatch 批量创建创意
func (r *IdeaRepository) CreateBatch(ctx context.Context, ideas []*entity.Idea) error {
	ctx, span := tracer.Start(ctx, "postgres.IdeaRepository.CreateBatch")
	defer span.End()

	if len(ideas) == 0 {
		return nil
	}
	db := getDB(ctx, r.client.db)
	if err := db.Create(&ideas).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create ideas: %w", err)
	}
	return nil
}

// GetByID 根据 ID 获取创意
func (r *IdeaRepository) GetByID(ctx context.Context, id string) (*entity.Idea, error) {
	ctx, span := tracer.Start(ctx, "postgres.IdeaRepository.GetByID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var idea entity.Idea
	if err := db.First(&idea, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get idea: %w", err)
	}
	return &idea, nil
}

// Update 更新创意
func (r *IdeaRepository) Update(ctx context.Context, idea *entity.Idea) error {
	ctx, span := tracer.Start(ctx, "postgres.IdeaRepository.Update")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Save(idea).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update idea: %w", err)
	}
	return nil
}

// Delete 删除创意，返回是否存在
func (r *IdeaRepository) Delete(ctx context.Context, id string) (bool, error) {
	ctx, span := tracer.Start(ctx, "postgres.IdeaRepository.Delete")
	defer span.End()

	db := getDB(ctx, r.client.db)
	result := db.Delete(&entity.Idea{}, "id = ?", id)
	if result.Error != nil {
		span.RecordError(result.Error)
		return false, fmt.Errorf("failed to delete idea: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// ListByOwner 获取用户创意列表（按创建时间倒序）
func (r *IdeaRepository) ListByOwner(ctx context.Context, ownerID string) ([]*entity.Idea, error) {
	ctx, span := tracer.Start(ctx, "postgres.IdeaRepository.ListByOwner")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var ideas []*entity.Idea
	if err := db.Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&ideas).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list ideas: %w", err)
	}
	return ideas, nil
}
