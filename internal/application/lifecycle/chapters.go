package lifecycle

import (
	"context"
	"fmt"

	"bookforge-api/internal/domain/entity"
	apperrors "bookforge-api/pkg/errors"
	"bookforge-api/pkg/logger"
	"bookforge-api/pkg/metrics"
)

// GenerateChapter 依据大纲规划生成一章正文。
// 书籍必须已批准大纲，章节序号由规划条目在大纲中的位置决定。
func (e *Engine) GenerateChapter(ctx context.Context, ownerID, bookID, planID string) (*entity.Chapter, error) {
	ctx, span := tracer.Start(ctx, "lifecycle.Engine.GenerateChapter")
	defer span.End()

	unlock := e.locks.acquire(bookID)
	defer unlock()

	book, err := e.loadOwnedBook(ctx, ownerID, bookID)
	if err != nil {
		return nil, err
	}
	if !bookCanWrite(book.Status) {
		return nil, apperrors.ErrInvalidState.WithDetail("chapters require an approved outline")
	}

	outline, err := e.outlines.GetByBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if outline == nil || !outline.IsApproved {
		return nil, apperrors.ErrInvalidState.WithDetail("chapters require an approved outline")
	}

	plan, number, err := resolvePlan(outline, planID)
	if err != nil {
		return nil, err
	}

	existing, err := e.chapters.GetByBookAndNumber(ctx, bookID, number)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.ErrValidationFailed.
			WithDetail(fmt.Sprintf("chapter %d already exists", number))
	}

	// 上一章结尾用于衔接
	previous := ""
	if number > 1 {
		prev, err := e.chapters.GetByBookAndNumber(ctx, bookID, number-1)
		if err != nil {
			return nil, err
		}
		if prev != nil {
			previous = prev.Content
		}
	}

	draft, err := e.gen.GenerateChapter(ctx, ownerID, book, &plan, number, previous)
	if err != nil {
		return nil, err
	}

	chapter := entity.NewChapter(bookID, outline.ID, number, plan.Title)
	chapter.PlanID = plan.ID
	chapter.SetContent(draft.Content)

	err = e.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := e.chapters.Create(ctx, chapter); err != nil {
			return err
		}
		return e.recomputeBook(ctx, book)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "chapter generated",
		"book_id", bookID, "number", number, "words", chapter.WordCount)
	return chapter, nil
}

// CreateChapter 手工创建一章，序号在书内必须唯一
func (e *Engine) CreateChapter(ctx context.Context, ownerID, bookID string, number int, title, content string) (*entity.Chapter, error) {
	ctx, span := tracer.Start(ctx, "lifecycle.Engine.CreateChapter")
	defer span.End()

	unlock := e.locks.acquire(bookID)
	defer unlock()

	book, err := e.loadOwnedBook(ctx, ownerID, bookID)
	if err != nil {
		return nil, err
	}
	if !bookCanWrite(book.Status) {
		return nil, apperrors.ErrInvalidState.WithDetail("chapters require an approved outline")
	}
	if number < 1 {
		return nil, apperrors.ErrValidationFailed.WithDetail("chapter number must be positive")
	}
	if title == "" {
		return nil, apperrors.ErrValidationFailed.WithDetail("chapter title is required")
	}

	existing, err := e.chapters.GetByBookAndNumber(ctx, bookID, number)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.ErrValidationFailed.
			WithDetail(fmt.Sprintf("chapter %d already exists", number))
	}

	outlineID := ""
	if outline, err := e.outlines.GetByBook(ctx, bookID); err != nil {
		return nil, err
	} else if outline != nil {
		outlineID = outline.ID
	}

	chapter := entity.NewChapter(bookID, outlineID, number, title)
	if content != "" {
		chapter.SetContent(content)
	}

	err = e.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := e.chapters.Create(ctx, chapter); err != nil {
			return err
		}
		return e.recomputeBook(ctx, book)
	})
	if err != nil {
		return nil, err
	}
	return chapter, nil
}

// ListChapters 获取书籍章节列表（按序号升序）
func (e *Engine) ListChapters(ctx context.Context, ownerID, bookID string) ([]*entity.Chapter, error) {
	ctx, span := tracer.Start(ctx, "lifecycle.Engine.ListChapters")
	defer span.End()

	if _, err := e.loadOwnedBook(ctx, ownerID, bookID); err != nil {
		return nil, err
	}
	return e.chapters.ListByBook(ctx, bookID)
}

// GetChapter 获取单章，校验归属
func (e *Engine) GetChapter(ctx context.Context, ownerID, chapterID string) (*entity.Chapter, error) {
	ctx, span := tracer.Start(ctx, "lifecycle.Engine.GetChapter")
	defer span.End()

	chapter, _, err := e.loadOwnedChapter(ctx, ownerID, chapterID)
	return chapter, err
}

// UpdateChapterContent 更新章节正文并重算书籍聚合字段
func (e *Engine) UpdateChapterContent(ctx context.Context, ownerID, chapterID, content string, title *string) (*entity.Chapter, error) {
	ctx, span := tracer.Start(ctx, "lifecycle.Engine.UpdateChapterContent")
	defer span.End()

	chapter, book, err := e.loadOwnedChapter(ctx, ownerID, chapterID)
	if err != nil {
		return nil, err
	}

	unlock := e.locks.acquire(book.ID)
	defer unlock()

	// 锁内重读，避免覆盖并发提交的书籍变更
	chapter, book, err = e.loadOwnedChapter(ctx, ownerID, chapterID)
	if err != nil {
		return nil, err
	}

	if title != nil {
		if *title == "" {
			return nil, apperrors.ErrValidationFailed.WithDetail("chapter title cannot be empty")
		}
		chapter.Title = *title
	}
	chapter.SetContent(content)

	err = e.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := e.chapters.Update(ctx, chapter); err != nil {
			return err
		}
		return e.recomputeBook(ctx, book)
	})
	if err != nil {
		return nil, err
	}
	return chapter, nil
}

// DeleteChapter 删除章节并重算书籍聚合字段
func (e *Engine) DeleteChapter(ctx context.Context, ownerID, chapterID string) error {
	ctx, span := tracer.Start(ctx, "lifecycle.Engine.DeleteChapter")
	defer span.End()

	chapter, book, err := e.loadOwnedChapter(ctx, ownerID, chapterID)
	if err != nil {
		return err
	}

	unlock := e.locks.acquire(book.ID)
	defer unlock()

	// 锁内重读，避免覆盖并发提交的书籍变更
	chapter, book, err = e.loadOwnedChapter(ctx, ownerID, chapterID)
	if err != nil {
		return err
	}

	return e.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := e.chapters.Delete(ctx, chapter.ID); err != nil {
			return err
		}
		return e.recomputeBook(ctx, book)
	})
}

// recomputeBook 重算书籍的总字数、进度和完成状态。
// 调用方负责持有书籍锁，且应在事务内调用。
func (e *Engine) recomputeBook(ctx context.Context, book *entity.Book) error {
	chapters, err := e.chapters.ListByBook(ctx, book.ID)
	if err != nil {
		return err
	}

	total := 0
	for _, c := range chapters {
		total += c.WordCount
	}

	wasCompleted := book.IsCompleted()
	book.ApplyWordCount(total)
	if !wasCompleted && book.IsCompleted() {
		metrics.BooksCompleted.Inc()
		logger.Info(ctx, "book completed", "book_id", book.ID, "words", total)
	}

	return e.books.Update(ctx, book)
}

// loadOwnedChapter 加载章节及其书籍并校验归属
func (e *Engine) loadOwnedChapter(ctx context.Context, ownerID, chapterID string) (*entity.Chapter, *entity.Book, error) {
	chapter, err := e.chapters.GetByID(ctx, chapterID)
	if err != nil {
		return nil, nil, err
	}
	if chapter == nil {
		return nil, nil, apperrors.ErrChapterNotFound
	}

	book, err := e.books.GetByID(ctx, chapter.BookID)
	if err != nil {
		return nil, nil, err
	}
	if book == nil || book.OwnerID != ownerID {
		return nil, nil, apperrors.ErrChapterNotFound
	}
	return chapter, book, nil
}

// resolvePlan 在大纲中定位规划条目并返回对应章节序号
func resolvePlan(outline *entity.Outline, planID string) (entity.OutlineChapterPlan, int, error) {
	for i := range outline.Chapters {
		if outline.Chapters[i].ID == planID {
			return outline.Chapters[i], i + 1, nil
		}
	}
	return entity.OutlineChapterPlan{}, 0,
		apperrors.ErrValidationFailed.WithDetail("outline chapter plan not found")
}

// bookCanWrite 判断状态是否允许写作
func bookCanWrite(status entity.BookStatus) bool {
	switch status {
	case entity.BookStatusApproved, entity.BookStatusWriting, entity.BookStatusCompleted:
		return true
	default:
		return false
	}
}
