package lifecycle

import (
	"context"

	"bookforge-api/internal/application/generation"
	"bookforge-api/internal/domain/entity"
	apperrors "bookforge-api/pkg/errors"
	"bookforge-api/pkg/logger"
)

// GenerateIdeas 生成并保存一批候选选题
func (e *Engine) GenerateIdeas(ctx context.Context, ownerID string, brief *generation.IdeaBrief) ([]*entity.Idea, error) {
	ctx, span := tracer.Start(ctx, "lifecycle.Engine.GenerateIdeas")
	defer span.End()

	drafts, err := e.gen.GenerateIdeas(ctx, ownerID, brief)
	if err != nil {
		return nil, err
	}
	if len(drafts) == 0 {
		return nil, apperrors.ErrResponseParse.WithDetail("model returned no ideas")
	}

	ideas := make([]*entity.Idea, 0, len(drafts))
	for _, d := range drafts {
		if d.Title == "" {
			continue
		}
		ideas = append(ideas, &entity.Idea{
			OwnerID:        ownerID,
			Title:          d.Title,
			Description:    d.Description,
			Genre:          d.Genre,
			TargetAudience: d.TargetAudience,
			KeyPoints:      d.KeyPoints,
		})
	}
	if len(ideas) == 0 {
		return nil, apperrors.ErrResponseParse.WithDetail("model returned no usable ideas")
	}

	if err := e.ideas.CreateBatch(ctx, ideas); err != nil {
		return nil, err
	}

	logger.Info(ctx, "ideas generated", "count", len(ideas))
	return ideas, nil
}

// ListIdeas 获取用户候选选题列表
func (e *Engine) ListIdeas(ctx context.Context, ownerID string) ([]*entity.Idea, error) {
	ctx, span := tracer.Start(ctx, "lifecycle.Engine.ListIdeas")
	defer span.End()

	return e.ideas.ListByOwner(ctx, ownerID)
}

// DeleteIdea 删除候选选题
func (e *Engine) DeleteIdea(ctx context.Context, ownerID, ideaID string) error {
	ctx, span := tracer.Start(ctx, "lifecycle.Engine.DeleteIdea")
	defer span.End()

	idea, err := e.ideas.GetByID(ctx, ideaID)
	if err != nil {
		return err
	}
	if idea == nil || idea.OwnerID != ownerID {
		return apperrors.ErrIdeaNotFound
	}

	if _, err := e.ideas.Delete(ctx, ideaID); err != nil {
		return err
	}
	return nil
}

// SelectIdea 采纳候选选题并创建对应书籍。
// 选题字段拷贝进书籍，目标字数取入参，未指定时使用默认值。
func (e *Engine) SelectIdea(ctx context.Context, ownerID, ideaID string, targetWordCount int) (*entity.Book, error) {
	ctx, span := tracer.Start(ctx, "lifecycle.Engine.SelectIdea")
	defer span.End()

	idea, err := e.ideas.GetByID(ctx, ideaID)
	if err != nil {
		return nil, err
	}
	if idea == nil || idea.OwnerID != ownerID {
		return nil, apperrors.ErrIdeaNotFound
	}

	if targetWordCount <= 0 {
		targetWordCount = 50000
	}

	var book *entity.Book
	err = e.tx.WithTransaction(ctx, func(ctx context.Context) error {
		book = entity.NewBook(ownerID, idea.Title, targetWordCount)
		book.Genre = idea.Genre
		book.Description = idea.Description
		book.TargetAudience = idea.TargetAudience
		book.KeyPoints = idea.KeyPoints
		if err := e.books.Create(ctx, book); err != nil {
			return err
		}

		idea.Selected = true
		return e.ideas.Update(ctx, idea)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "idea selected", "idea_id", ideaID, "book_id", book.ID)
	return book, nil
}
