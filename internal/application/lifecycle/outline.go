package lifecycle

import (
	"context"
	"time"

	"bookforge-api/internal/domain/entity"
	apperrors "bookforge-api/pkg/errors"
	"bookforge-api/pkg/logger"
)

// GenerateOutline 调用模型生成大纲。仅允许在 idea/outline 状态下（重新）生成，
// 成功后书籍进入 outline 状态，已有的未批准大纲被替换。
func (e *Engine) GenerateOutline(ctx context.Context, ownerID, bookID string, chapterCount int) (*entity.Outline, error) {
	ctx, span := tracer.Start(ctx, "lifecycle.Engine.GenerateOutline")
	defer span.End()

	book, err := e.loadOwnedBook(ctx, ownerID, bookID)
	if err != nil {
		return nil, err
	}
	if book.Status != entity.BookStatusIdea && book.Status != entity.BookStatusOutline {
		return nil, apperrors.ErrInvalidState.WithDetail("outline can only be generated before approval")
	}

	drafts, err := e.gen.GenerateOutline(ctx, ownerID, book, chapterCount)
	if err != nil {
		return nil, err
	}
	if len(drafts) == 0 {
		return nil, apperrors.ErrResponseParse.WithDetail("model returned no chapters")
	}

	plans := make([]entity.OutlineChapterPlan, 0, len(drafts))
	for _, d := range drafts {
		if d.Title == "" {
			continue
		}
		plans = append(plans, entity.OutlineChapterPlan{
			Title:              d.Title,
			Description:        d.Description,
			KeyPoints:          d.KeyPoints,
			EstimatedWordCount: d.EstimatedWordCount,
		})
	}
	if len(plans) == 0 {
		return nil, apperrors.ErrResponseParse.WithDetail("model returned no usable chapters")
	}

	return e.saveOutline(ctx, book, book.Title, plans)
}

// SaveManualOutline 保存手工编写的大纲，状态转换与生成路径一致
func (e *Engine) SaveManualOutline(ctx context.Context, ownerID, bookID, title string, plans []entity.OutlineChapterPlan) (*entity.Outline, error) {
	ctx, span := tracer.Start(ctx, "lifecycle.Engine.SaveManualOutline")
	defer span.End()

	book, err := e.loadOwnedBook(ctx, ownerID, bookID)
	if err != nil {
		return nil, err
	}
	if book.Status != entity.BookStatusIdea && book.Status != entity.BookStatusOutline {
		return nil, apperrors.ErrInvalidState.WithDetail("outline can only be replaced before approval")
	}
	if len(plans) == 0 {
		return nil, apperrors.ErrValidationFailed.WithDetail("outline must contain at least one chapter")
	}
	for i := range plans {
		if plans[i].Title == "" {
			return nil, apperrors.ErrValidationFailed.WithDetail("every outline chapter needs a title")
		}
	}
	if title == "" {
		title = book.Title
	}

	return e.saveOutline(ctx, book, title, plans)
}

// saveOutline 替换书籍大纲并推进状态到 outline
func (e *Engine) saveOutline(ctx context.Context, book *entity.Book, title string, plans []entity.OutlineChapterPlan) (*entity.Outline, error) {
	outline := entity.NewOutline(book.ID, title, plans)
	outline.EnsurePlanIDs()

	err := e.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := e.outlines.DeleteByBook(ctx, book.ID); err != nil {
			return err
		}
		if err := e.outlines.Create(ctx, outline); err != nil {
			return err
		}
		if book.Status == entity.BookStatusIdea {
			book.Status = entity.BookStatusOutline
			if err := e.books.Update(ctx, book); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "outline saved", "book_id", book.ID, "chapters", outline.TotalChapters)
	return outline, nil
}

// GetOutline 获取书籍大纲
func (e *Engine) GetOutline(ctx context.Context, ownerID, bookID string) (*entity.Outline, error) {
	ctx, span := tracer.Start(ctx, "lifecycle.Engine.GetOutline")
	defer span.End()

	if _, err := e.loadOwnedBook(ctx, ownerID, bookID); err != nil {
		return nil, err
	}

	outline, err := e.outlines.GetByBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if outline == nil {
		return nil, apperrors.ErrOutlineNotFound
	}
	return outline, nil
}

// UpdateOutline 编辑大纲章节规划。书籍完成后不再接受修改。
func (e *Engine) UpdateOutline(ctx context.Context, ownerID, bookID, title string, plans []entity.OutlineChapterPlan) (*entity.Outline, error) {
	ctx, span := tracer.Start(ctx, "lifecycle.Engine.UpdateOutline")
	defer span.End()

	book, err := e.loadOwnedBook(ctx, ownerID, bookID)
	if err != nil {
		return nil, err
	}
	if book.IsCompleted() {
		return nil, apperrors.ErrInvalidState.WithDetail("completed book outline is read only")
	}
	if len(plans) == 0 {
		return nil, apperrors.ErrValidationFailed.WithDetail("outline must contain at least one chapter")
	}

	outline, err := e.outlines.GetByBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if outline == nil {
		return nil, apperrors.ErrOutlineNotFound
	}

	if title != "" {
		outline.Title = title
	}
	outline.Chapters = plans
	outline.EnsurePlanIDs()
	outline.RecalcTotals()
	outline.UpdatedAt = time.Now()

	if err := e.outlines.Update(ctx, outline); err != nil {
		return nil, err
	}
	return outline, nil
}

// ApproveOutline 批准大纲，书籍从 outline 进入 approved。
// 重复批准是幂等的，只刷新批准时间，不回退已进入写作的书籍状态。
func (e *Engine) ApproveOutline(ctx context.Context, ownerID, bookID string) (*entity.Outline, error) {
	ctx, span := tracer.Start(ctx, "lifecycle.Engine.ApproveOutline")
	defer span.End()

	book, err := e.loadOwnedBook(ctx, ownerID, bookID)
	if err != nil {
		return nil, err
	}

	outline, err := e.outlines.GetByBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if outline == nil {
		return nil, apperrors.ErrOutlineNotFound
	}

	outline.Approve(time.Now())

	err = e.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := e.outlines.Update(ctx, outline); err != nil {
			return err
		}
		if book.Status == entity.BookStatusOutline || book.Status == entity.BookStatusIdea {
			book.Status = entity.BookStatusApproved
			if err := e.books.Update(ctx, book); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "outline approved", "book_id", bookID)
	return outline, nil
}
