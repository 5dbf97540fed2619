// Package lifecycle 实现书籍从创意到成稿的状态机和聚合字段维护
package lifecycle

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"

	"bookforge-api/internal/application/generation"
	"bookforge-api/internal/domain/entity"
	"bookforge-api/internal/domain/repository"
	apperrors "bookforge-api/pkg/errors"
	"bookforge-api/pkg/logger"
	"bookforge-api/pkg/metrics"
)

var tracer = otel.Tracer("lifecycle")

// Engine 书籍生命周期引擎
type Engine struct {
	books    repository.BookRepository
	outlines repository.OutlineRepository
	chapters repository.ChapterRepository
	ideas    repository.IdeaRepository
	tx       repository.Transactor
	gen      *generation.Service
	locks    *bookLocks
}

// NewEngine 创建生命周期引擎
func NewEngine(
	books repository.BookRepository,
	outlines repository.OutlineRepository,
	chapters repository.ChapterRepository,
	ideas repository.IdeaRepository,
	tx repository.Transactor,
	gen *generation.Service,
) *Engine {
	return &Engine{
		books:    books,
		outlines: outlines,
		chapters: chapters,
		ideas:    ideas,
		tx:       tx,
		gen:      gen,
		locks:    newBookLocks(),
	}
}

// CreateBookInput 创建书籍的输入
type CreateBookInput struct {
	Title           string
	Genre           string
	Description     string
	TargetAudience  string
	KeyPoints       []string
	TargetWordCount int
}

// UpdateBookInput 更新书籍的输入，nil 字段表示不修改。
// 状态和字数统计由引擎派生，不接受外部写入。
type UpdateBookInput struct {
	Title           *string
	Genre           *string
	Description     *string
	TargetAudience  *string
	KeyPoints       *[]string
	TargetWordCount *int
}

// CreateBook 创建书籍，初始状态为 idea
func (e *Engine) CreateBook(ctx context.Context, ownerID string, in *CreateBookInput) (*entity.Book, error) {
	ctx, span := tracer.Start(ctx, "lifecycle.Engine.CreateBook")
	defer span.End()

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperrors.ErrValidationFailed.WithDetail("title is required")
	}
	if in.TargetWordCount <= 0 {
		return nil, apperrors.ErrValidationFailed.WithDetail("target_word_count must be positive")
	}

	book := entity.NewBook(ownerID, title, in.TargetWordCount)
	book.Genre = in.Genre
	book.Description = in.Description
	book.TargetAudience = in.TargetAudience
	book.KeyPoints = in.KeyPoints

	if err := e.books.Create(ctx, book); err != nil {
		return nil, err
	}

	logger.Info(ctx, "book created", "book_id", book.ID, "title", book.Title)
	return book, nil
}

// GetBook 获取书籍，校验归属
func (e *Engine) GetBook(ctx context.Context, ownerID, bookID string) (*entity.Book, error) {
	ctx, span := tracer.Start(ctx, "lifecycle.Engine.GetBook")
	defer span.End()

	return e.loadOwnedBook(ctx, ownerID, bookID)
}

// ListBooks 获取用户书籍列表
func (e *Engine) ListBooks(ctx context.Context, ownerID string) ([]*entity.Book, error) {
	ctx, span := tracer.Start(ctx, "lifecycle.Engine.ListBooks")
	defer span.End()

	return e.books.ListByOwner(ctx, ownerID)
}

// UpdateBook 更新书籍元信息。目标字数变化会触发进度重算。
func (e *Engine) UpdateBook(ctx context.Context, ownerID, bookID string, in *UpdateBookInput) (*entity.Book, error) {
	ctx, span := tracer.Start(ctx, "lifecycle.Engine.UpdateBook")
	defer span.End()

	unlock := e.locks.acquire(bookID)
	defer unlock()

	book, err := e.loadOwnedBook(ctx, ownerID, bookID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, apperrors.ErrValidationFailed.WithDetail("title cannot be empty")
		}
		book.Title = title
	}
	if in.Genre != nil {
		book.Genre = *in.Genre
	}
	if in.Description != nil {
		book.Description = *in.Description
	}
	if in.TargetAudience != nil {
		book.TargetAudience = *in.TargetAudience
	}
	if in.KeyPoints != nil {
		book.KeyPoints = *in.KeyPoints
	}

	targetChanged := false
	if in.TargetWordCount != nil {
		if *in.TargetWordCount <= 0 {
			return nil, apperrors.ErrValidationFailed.WithDetail("target_word_count must be positive")
		}
		targetChanged = book.TargetWordCount != *in.TargetWordCount
		book.TargetWordCount = *in.TargetWordCount
	}

	// 目标字数变了且已进入写作阶段，进度和完成状态需要重算
	if targetChanged && bookHasWordCount(book.Status) {
		wasCompleted := book.IsCompleted()
		book.ApplyWordCount(book.CurrentWordCount)
		if !wasCompleted && book.IsCompleted() {
			metrics.BooksCompleted.Inc()
		}
	}

	if err := e.books.Update(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

// DeleteBook 删除书籍及其大纲和全部章节
func (e *Engine) DeleteBook(ctx context.Context, ownerID, bookID string) error {
	ctx, span := tracer.Start(ctx, "lifecycle.Engine.DeleteBook")
	defer span.End()

	unlock := e.locks.acquire(bookID)
	defer unlock()

	if _, err := e.loadOwnedBook(ctx, ownerID, bookID); err != nil {
		return err
	}

	return e.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := e.chapters.DeleteByBook(ctx, bookID); err != nil {
			return err
		}
		if _, err := e.outlines.DeleteByBook(ctx, bookID); err != nil {
			return err
		}
		if _, err := e.books.Delete(ctx, bookID); err != nil {
			return err
		}
		logger.Info(ctx, "book deleted", "book_id", bookID)
		return nil
	})
}

// loadOwnedBook 加载书籍并校验归属，不存在或不属于该用户时返回未找到
func (e *Engine) loadOwnedBook(ctx context.Context, ownerID, bookID string) (*entity.Book, error) {
	book, err := e.books.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if book == nil || book.OwnerID != ownerID {
		return nil, apperrors.ErrBookNotFound
	}
	return book, nil
}

// bookHasWordCount 判断状态是否已产生字数统计
func bookHasWordCount(status entity.BookStatus) bool {
	switch status {
	case entity.BookStatusWriting, entity.BookStatusCompleted:
		return true
	default:
		return false
	}
}
