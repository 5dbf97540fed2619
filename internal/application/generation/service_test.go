package generation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookforge-api/internal/domain/entity"
	"bookforge-api/internal/infrastructure/llm"
	apperrors "bookforge-api/pkg/errors"
)

// fakeGenerator 返回预置输出并记录最后一次请求
type fakeGenerator struct {
	output  string
	err     error
	lastReq *llm.GenerateRequest
}

func (f *fakeGenerator) Generate(_ context.Context, req *llm.GenerateRequest) (*llm.GenerateResult, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &llm.GenerateResult{Content: f.output, Model: "fake-model", TokensUsed: 42}, nil
}

// fakeSettingsRepo 内存设置仓储
type fakeSettingsRepo struct {
	settings *entity.Settings
}

func (f *fakeSettingsRepo) Create(_ context.Context, s *entity.Settings) error {
	f.settings = s
	return nil
}
func (f *fakeSettingsRepo) GetByOwner(_ context.Context, _ string) (*entity.Settings, error) {
	return f.settings, nil
}
func (f *fakeSettingsRepo) Update(_ context.Context, s *entity.Settings) error {
	f.settings = s
	return nil
}

func TestService_GenerateIdeas(t *testing.T) {
	ctx := context.Background()

	t.Run("数组输出", func(t *testing.T) {
		gen := &fakeGenerator{output: `[{"title":"Idea A","description":"d","genre":"business","key_points":["x"]},{"title":"Idea B"}]`}
		svc := NewService(gen, &fakeSettingsRepo{})

		drafts, err := svc.GenerateIdeas(ctx, "owner", &IdeaBrief{Topic: "productivity"})
		require.NoError(t, err)
		require.Len(t, drafts, 2)
		assert.Equal(t, "Idea A", drafts[0].Title)
		assert.Equal(t, []string{"x"}, drafts[0].KeyPoints)
	})

	t.Run("对象包裹输出", func(t *testing.T) {
		gen := &fakeGenerator{output: `{"ideas":[{"title":"Wrapped"}]}`}
		svc := NewService(gen, &fakeSettingsRepo{})

		drafts, err := svc.GenerateIdeas(ctx, "owner", &IdeaBrief{Topic: "x"})
		require.NoError(t, err)
		require.Len(t, drafts, 1)
		assert.Equal(t, "Wrapped", drafts[0].Title)
	})

	t.Run("解析失败", func(t *testing.T) {
		gen := &fakeGenerator{output: "sorry, I cannot help with that"}
		svc := NewService(gen, &fakeSettingsRepo{})

		_, err := svc.GenerateIdeas(ctx, "owner", &IdeaBrief{Topic: "x"})
		assert.ErrorIs(t, err, apperrors.ErrResponseParse)
	})

	t.Run("默认数量", func(t *testing.T) {
		gen := &fakeGenerator{output: `[{"title":"A"}]`}
		svc := NewService(gen, &fakeSettingsRepo{})

		brief := &IdeaBrief{Topic: "x"}
		_, err := svc.GenerateIdeas(ctx, "owner", brief)
		require.NoError(t, err)
		assert.Equal(t, 3, brief.Count)
	})

	t.Run("透传用户凭证", func(t *testing.T) {
		gen := &fakeGenerator{output: `[{"title":"A"}]`}
		repo := &fakeSettingsRepo{settings: &entity.Settings{
			OwnerID: "owner", APIKey: "sk-user", Model: "gpt-4o-mini",
		}}
		svc := NewService(gen, repo)

		_, err := svc.GenerateIdeas(ctx, "owner", &IdeaBrief{Topic: "x"})
		require.NoError(t, err)
		require.NotNil(t, gen.lastReq)
		assert.Equal(t, "sk-user", gen.lastReq.APIKey)
		assert.Equal(t, "gpt-4o-mini", gen.lastReq.Model)
	})
}

func TestService_GenerateOutline(t *testing.T) {
	ctx := context.Background()
	book := entity.NewBook("owner", "Deep Focus", 50000)
	book.Genre = "business"

	t.Run("对象包裹输出", func(t *testing.T) {
		gen := &fakeGenerator{output: `{"chapters":[{"title":"Ch1","estimated_word_count":4000},{"title":"Ch2","estimated_word_count":5000}]}`}
		svc := NewService(gen, &fakeSettingsRepo{})

		plans, err := svc.GenerateOutline(ctx, "owner", book, 2)
		require.NoError(t, err)
		require.Len(t, plans, 2)
		assert.Equal(t, 4000, plans[0].EstimatedWordCount)
	})

	t.Run("模型错误透传", func(t *testing.T) {
		gen := &fakeGenerator{err: apperrors.ErrCredentialNil}
		svc := NewService(gen, &fakeSettingsRepo{})

		_, err := svc.GenerateOutline(ctx, "owner", book, 2)
		assert.ErrorIs(t, err, apperrors.ErrCredentialNil)
	})
}

func TestService_GenerateChapter(t *testing.T) {
	ctx := context.Background()
	book := entity.NewBook("owner", "Deep Focus", 50000)
	plan := &entity.OutlineChapterPlan{ID: "p1", Title: "Why Focus Matters", EstimatedWordCount: 4000}

	gen := &fakeGenerator{output: "  One two three four five.  "}
	svc := NewService(gen, &fakeSettingsRepo{})

	draft, err := svc.GenerateChapter(ctx, "owner", book, plan, 1, "")
	require.NoError(t, err)
	assert.Equal(t, "One two three four five.", draft.Content)
	assert.Equal(t, 5, draft.WordCount)
	assert.Equal(t, "fake-model", draft.Model)
	assert.Equal(t, 42, draft.TokensUsed)
}
