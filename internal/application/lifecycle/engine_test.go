package lifecycle

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"bookforge-api/internal/application/generation"
	"bookforge-api/internal/domain/entity"
	"bookforge-api/internal/infrastructure/llm"
	"bookforge-api/internal/infrastructure/persistence/postgres"
	apperrors "bookforge-api/pkg/errors"
)

// fakeTextGenerator 按调用顺序返回预置输出
type fakeTextGenerator struct {
	outputs []string
	calls   int
	err     error
}

func (f *fakeTextGenerator) Generate(_ context.Context, _ *llm.GenerateRequest) (*llm.GenerateResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := ""
	if f.calls < len(f.outputs) {
		out = f.outputs[f.calls]
	} else if len(f.outputs) > 0 {
		out = f.outputs[len(f.outputs)-1]
	}
	f.calls++
	return &llm.GenerateResult{Content: out, Model: "fake-model"}, nil
}

// newTestEngine 基于内存 SQLite 构建完整引擎
func newTestEngine(t *testing.T, gen generation.TextGenerator) *Engine {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&entity.User{},
		&entity.Settings{},
		&entity.Book{},
		&entity.Outline{},
		&entity.Chapter{},
		&entity.Idea{},
	))

	client := postgres.NewClientWithDB(db)
	return NewEngine(
		postgres.NewBookRepository(client),
		postgres.NewOutlineRepository(client),
		postgres.NewChapterRepository(client),
		postgres.NewIdeaRepository(client),
		postgres.NewTxManager(client),
		generation.NewService(gen, postgres.NewSettingsRepository(client)),
	)
}

// makeApprovedBook 走完 创建→大纲→批准 的前置流程
func makeApprovedBook(t *testing.T, e *Engine, ownerID string, target int, plans []entity.OutlineChapterPlan) (*entity.Book, *entity.Outline) {
	t.Helper()
	ctx := context.Background()

	book, err := e.CreateBook(ctx, ownerID, &CreateBookInput{Title: "Test Book", TargetWordCount: target})
	require.NoError(t, err)

	_, err = e.SaveManualOutline(ctx, ownerID, book.ID, "", plans)
	require.NoError(t, err)

	outline, err := e.ApproveOutline(ctx, ownerID, book.ID)
	require.NoError(t, err)

	book, err = e.GetBook(ctx, ownerID, book.ID)
	require.NoError(t, err)
	require.Equal(t, entity.BookStatusApproved, book.Status)
	return book, outline
}

func TestEngine_CreateBook(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, &fakeTextGenerator{})

	t.Run("标题必填", func(t *testing.T) {
		_, err := e.CreateBook(ctx, "owner", &CreateBookInput{Title: "  ", TargetWordCount: 1000})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("目标字数必须为正", func(t *testing.T) {
		_, err := e.CreateBook(ctx, "owner", &CreateBookInput{Title: "My Book"})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("创建成功", func(t *testing.T) {
		book, err := e.CreateBook(ctx, "owner", &CreateBookInput{
			Title:           "Deep Focus",
			Genre:           "business",
			TargetWordCount: 50000,
		})
		require.NoError(t, err)
		assert.NotEmpty(t, book.ID)
		assert.Equal(t, entity.BookStatusIdea, book.Status)
		assert.Equal(t, 0, book.Progress)
	})
}

func TestEngine_OwnerIsolation(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, &fakeTextGenerator{})

	book, err := e.CreateBook(ctx, "alice", &CreateBookInput{Title: "Private", TargetWordCount: 1000})
	require.NoError(t, err)

	_, err = e.GetBook(ctx, "bob", book.ID)
	assert.ErrorIs(t, err, apperrors.ErrBookNotFound)

	err = e.DeleteBook(ctx, "bob", book.ID)
	assert.ErrorIs(t, err, apperrors.ErrBookNotFound)

	// 属主不受影响
	_, err = e.GetBook(ctx, "alice", book.ID)
	assert.NoError(t, err)
}

func TestEngine_IdeaFlow(t *testing.T) {
	ctx := context.Background()
	gen := &fakeTextGenerator{outputs: []string{
		`[{"title":"Idea A","description":"About focus","genre":"business","key_points":["a","b"]},{"title":""},{"title":"Idea B"}]`,
	}}
	e := newTestEngine(t, gen)

	ideas, err := e.GenerateIdeas(ctx, "owner", &generation.IdeaBrief{Topic: "productivity"})
	require.NoError(t, err)
	// 空标题的草稿被丢弃
	require.Len(t, ideas, 2)

	listed, err := e.ListIdeas(ctx, "owner")
	require.NoError(t, err)
	assert.Len(t, listed, 2)

	book, err := e.SelectIdea(ctx, "owner", ideas[0].ID, 0)
	require.NoError(t, err)
	assert.Equal(t, "Idea A", book.Title)
	assert.Equal(t, "business", book.Genre)
	assert.Equal(t, 50000, book.TargetWordCount)
	assert.Equal(t, entity.BookStatusIdea, book.Status)

	listed, err = e.ListIdeas(ctx, "owner")
	require.NoError(t, err)
	for _, idea := range listed {
		if idea.ID == ideas[0].ID {
			assert.True(t, idea.Selected)
		}
	}

	err = e.DeleteIdea(ctx, "stranger", ideas[1].ID)
	assert.ErrorIs(t, err, apperrors.ErrIdeaNotFound)

	require.NoError(t, e.DeleteIdea(ctx, "owner", ideas[1].ID))
}

func TestEngine_OutlineFlow(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, &fakeTextGenerator{outputs: []string{
		`{"chapters":[{"title":"Ch1","estimated_word_count":4000},{"title":"Ch2","estimated_word_count":6000}]}`,
	}})

	book, err := e.CreateBook(ctx, "owner", &CreateBookInput{Title: "Outlined", TargetWordCount: 10000})
	require.NoError(t, err)

	_, err = e.GetOutline(ctx, "owner", book.ID)
	assert.ErrorIs(t, err, apperrors.ErrOutlineNotFound)

	outline, err := e.GenerateOutline(ctx, "owner", book.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, outline.TotalChapters)
	assert.Equal(t, 10000, outline.TotalEstimatedWords)
	for _, plan := range outline.Chapters {
		assert.NotEmpty(t, plan.ID)
	}

	book, err = e.GetBook(ctx, "owner", book.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BookStatusOutline, book.Status)

	// 批准前可以整体替换
	outline, err = e.SaveManualOutline(ctx, "owner", book.ID, "Better Outline", []entity.OutlineChapterPlan{
		{Title: "Only Chapter", EstimatedWordCount: 10000},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, outline.TotalChapters)

	approved, err := e.ApproveOutline(ctx, "owner", book.ID)
	require.NoError(t, err)
	assert.True(t, approved.IsApproved)

	book, err = e.GetBook(ctx, "owner", book.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BookStatusApproved, book.Status)

	// 重复批准幂等
	again, err := e.ApproveOutline(ctx, "owner", book.ID)
	require.NoError(t, err)
	assert.True(t, again.IsApproved)

	// 批准后不能再整体替换
	_, err = e.SaveManualOutline(ctx, "owner", book.ID, "", []entity.OutlineChapterPlan{{Title: "X"}})
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	_, err = e.GenerateOutline(ctx, "owner", book.ID, 3)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)

	// 但编辑入口仍然开放
	updated, err := e.UpdateOutline(ctx, "owner", book.ID, "", []entity.OutlineChapterPlan{
		{Title: "Edited", EstimatedWordCount: 8000},
		{Title: "Added", EstimatedWordCount: 2000},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.TotalChapters)
	assert.True(t, updated.IsApproved)
}

func TestEngine_GenerateChapter(t *testing.T) {
	ctx := context.Background()
	gen := &fakeTextGenerator{outputs: []string{
		"one two three four five six",
	}}
	e := newTestEngine(t, gen)

	book, outline := makeApprovedBook(t, e, "owner", 10, []entity.OutlineChapterPlan{
		{Title: "First", EstimatedWordCount: 6},
		{Title: "Second", EstimatedWordCount: 6},
	})

	chapter, err := e.GenerateChapter(ctx, "owner", book.ID, outline.Chapters[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 1, chapter.Number)
	assert.Equal(t, "First", chapter.Title)
	assert.Equal(t, outline.Chapters[0].ID, chapter.PlanID)
	assert.Equal(t, 6, chapter.WordCount)

	book, err = e.GetBook(ctx, "owner", book.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BookStatusWriting, book.Status)
	assert.Equal(t, 6, book.CurrentWordCount)
	assert.Equal(t, 60, book.Progress)

	// 同一规划条目重复生成被拒绝
	_, err = e.GenerateChapter(ctx, "owner", book.ID, outline.Chapters[0].ID)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	// 未知规划条目
	_, err = e.GenerateChapter(ctx, "owner", book.ID, "no-such-plan")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	// 第二章写满后书籍完成
	chapter, err = e.GenerateChapter(ctx, "owner", book.ID, outline.Chapters[1].ID)
	require.NoError(t, err)
	assert.Equal(t, 2, chapter.Number)

	book, err = e.GetBook(ctx, "owner", book.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BookStatusCompleted, book.Status)
	assert.Equal(t, 100, book.Progress)
	assert.Equal(t, 12, book.CurrentWordCount)
}

func TestEngine_GenerateChapter_RequiresApproval(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, &fakeTextGenerator{outputs: []string{"words"}})

	book, err := e.CreateBook(ctx, "owner", &CreateBookInput{Title: "Draft", TargetWordCount: 1000})
	require.NoError(t, err)

	_, err = e.GenerateChapter(ctx, "owner", book.ID, "any-plan")
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestEngine_ChapterEditing(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, &fakeTextGenerator{})

	book, _ := makeApprovedBook(t, e, "owner", 10, []entity.OutlineChapterPlan{
		{Title: "Only", EstimatedWordCount: 10},
	})

	chapter, err := e.CreateChapter(ctx, "owner", book.ID, 1, "Only", "one two three four")
	require.NoError(t, err)
	assert.Equal(t, 4, chapter.WordCount)

	// 重复序号
	_, err = e.CreateChapter(ctx, "owner", book.ID, 1, "Dup", "")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	// 更新正文后书籍聚合字段重算
	longer := "one two three four five six seven eight nine ten"
	chapter, err = e.UpdateChapterContent(ctx, "owner", chapter.ID, longer, nil)
	require.NoError(t, err)
	assert.Equal(t, 10, chapter.WordCount)

	book, err = e.GetBook(ctx, "owner", book.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BookStatusCompleted, book.Status)
	assert.Equal(t, 100, book.Progress)

	// 删除章节回退完成状态
	require.NoError(t, e.DeleteChapter(ctx, "owner", chapter.ID))
	book, err = e.GetBook(ctx, "owner", book.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BookStatusWriting, book.Status)
	assert.Equal(t, 0, book.CurrentWordCount)
}

func TestEngine_UpdateBook_TargetChangeRecomputes(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, &fakeTextGenerator{})

	book, _ := makeApprovedBook(t, e, "owner", 100, []entity.OutlineChapterPlan{
		{Title: "Only", EstimatedWordCount: 100},
	})
	_, err := e.CreateChapter(ctx, "owner", book.ID, 1, "Only", "one two three four five")
	require.NoError(t, err)

	book, err = e.GetBook(ctx, "owner", book.ID)
	require.NoError(t, err)
	require.Equal(t, entity.BookStatusWriting, book.Status)
	require.Equal(t, 5, book.Progress)

	// 目标调低到当前字数，书籍立刻完成
	target := 5
	book, err = e.UpdateBook(ctx, "owner", book.ID, &UpdateBookInput{TargetWordCount: &target})
	require.NoError(t, err)
	assert.Equal(t, entity.BookStatusCompleted, book.Status)
	assert.Equal(t, 100, book.Progress)
}

func TestEngine_DeleteBook_Cascades(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, &fakeTextGenerator{})

	book, _ := makeApprovedBook(t, e, "owner", 100, []entity.OutlineChapterPlan{
		{Title: "Only", EstimatedWordCount: 100},
	})
	chapter, err := e.CreateChapter(ctx, "owner", book.ID, 1, "Only", "some words")
	require.NoError(t, err)

	require.NoError(t, e.DeleteBook(ctx, "owner", book.ID))

	_, err = e.GetBook(ctx, "owner", book.ID)
	assert.ErrorIs(t, err, apperrors.ErrBookNotFound)
	_, err = e.GetChapter(ctx, "owner", chapter.ID)
	assert.ErrorIs(t, err, apperrors.ErrChapterNotFound)
}

func TestEngine_UpdateChapterContent_SerializesWithBookUpdate(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, &fakeTextGenerator{})

	book, _ := makeApprovedBook(t, e, "owner", 100, []entity.OutlineChapterPlan{
		{Title: "One", EstimatedWordCount: 100},
	})
	chapter, err := e.CreateChapter(ctx, "owner", book.ID, 1, "One", "word word word")
	require.NoError(t, err)

	// 占住书籍锁，让章节更新停在锁前，期间提交目标字数变更
	unlock := e.locks.acquire(book.ID)
	done := make(chan error, 1)
	go func() {
		_, err := e.UpdateChapterContent(ctx, "owner", chapter.ID, "one two three", nil)
		done <- err
	}()
	time.Sleep(100 * time.Millisecond)

	fresh, err := e.books.GetByID(ctx, book.ID)
	require.NoError(t, err)
	fresh.TargetWordCount = 3
	require.NoError(t, e.books.Update(ctx, fresh))

	unlock()
	require.NoError(t, <-done)

	got, err := e.GetBook(ctx, "owner", book.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.TargetWordCount, "章节更新不能用旧副本覆盖已提交的书籍变更")
	assert.Equal(t, 3, got.CurrentWordCount)
	assert.Equal(t, 100, got.Progress)
	assert.True(t, got.IsCompleted())
}

func TestEngine_DeleteChapter_SerializesWithBookUpdate(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, &fakeTextGenerator{})

	book, _ := makeApprovedBook(t, e, "owner", 100, []entity.OutlineChapterPlan{
		{Title: "One", EstimatedWordCount: 100},
	})
	chapter, err := e.CreateChapter(ctx, "owner", book.ID, 1, "One", "word word word")
	require.NoError(t, err)

	unlock := e.locks.acquire(book.ID)
	done := make(chan error, 1)
	go func() {
		done <- e.DeleteChapter(ctx, "owner", chapter.ID)
	}()
	time.Sleep(100 * time.Millisecond)

	fresh, err := e.books.GetByID(ctx, book.ID)
	require.NoError(t, err)
	fresh.Title = "Renamed"
	require.NoError(t, e.books.Update(ctx, fresh))

	unlock()
	require.NoError(t, <-done)

	got, err := e.GetBook(ctx, "owner", book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
	assert.Equal(t, 0, got.CurrentWordCount)
}
