package generation

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"

	"bookforge-api/internal/domain/entity"
	"bookforge-api/internal/domain/repository"
	"bookforge-api/internal/infrastructure/llm"
	"bookforge-api/pkg/logger"
	"bookforge-api/pkg/metrics"
)

var tracer = otel.Tracer("generation")

// IdeaBrief 创意生成的输入
type IdeaBrief struct {
	Topic          string
	Genre          string
	TargetAudience string
	Count          int
}

// IdeaDraft 模型返回的单个创意
type IdeaDraft struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Genre          string   `json:"genre"`
	TargetAudience string   `json:"target_audience"`
	KeyPoints      []string `json:"key_points"`
}

// OutlinePlanDraft 模型返回的单个章节规划
type OutlinePlanDraft struct {
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	KeyPoints          []string `json:"key_points"`
	EstimatedWordCount int      `json:"estimated_word_count"`
}

// ChapterDraft 模型返回的章节正文
type ChapterDraft struct {
	Content    string
	WordCount  int
	Model      string
	TokensUsed int
}

// TextGenerator 文本生成接口，便于测试替换
type TextGenerator interface {
	Generate(ctx context.Context, req *llm.GenerateRequest) (*llm.GenerateResult, error)
}

// Service 组合提示词构建、模型调用和结构化解析
type Service struct {
	generator    TextGenerator
	settingsRepo repository.SettingsRepository
}

// NewService 创建生成服务
func NewService(generator TextGenerator, settingsRepo repository.SettingsRepository) *Service {
	return &Service{
		generator:    generator,
		settingsRepo: settingsRepo,
	}
}

// credentials 读取用户设置中的 API Key 和模型，没有设置时返回空值走配置默认
func (s *Service) credentials(ctx context.Context, ownerID string) (apiKey, model string) {
	settings, err := s.settingsRepo.GetByOwner(ctx, ownerID)
	if err != nil {
		logger.Warn(ctx, "failed to load user settings, using defaults", "error", err)
		return "", ""
	}
	if settings == nil {
		return "", ""
	}
	return settings.APIKey, settings.Model
}

// GenerateIdeas 生成书籍创意草稿
func (s *Service) GenerateIdeas(ctx context.Context, ownerID string, brief *IdeaBrief) ([]IdeaDraft, error) {
	ctx, span := tracer.Start(ctx, "generation.Service.GenerateIdeas")
	defer span.End()

	if brief.Count <= 0 {
		brief.Count = 3
	}

	apiKey, model := s.credentials(ctx, ownerID)
	start := time.Now()
	result, err := s.generator.Generate(ctx, &llm.GenerateRequest{
		SystemPrompt: ideaSystemPrompt,
		UserPrompt:   buildIdeaPrompt(brief),
		APIKey:       apiKey,
		Model:        model,
	})
	if err != nil {
		metrics.GenerationTotal.WithLabelValues("idea", "error").Inc()
		return nil, err
	}

	var drafts []IdeaDraft
	if err := DecodeJSON(result.Content, &drafts); err != nil {
		// 兼容包了一层对象的输出
		var wrapper struct {
			Ideas []IdeaDraft `json:"ideas"`
		}
		if werr := DecodeJSON(result.Content, &wrapper); werr != nil || len(wrapper.Ideas) == 0 {
			metrics.GenerationTotal.WithLabelValues("idea", "parse_error").Inc()
			return nil, err
		}
		drafts = wrapper.Ideas
	}

	metrics.GenerationTotal.WithLabelValues("idea", "success").Inc()
	metrics.GenerationDuration.WithLabelValues("idea").Observe(time.Since(start).Seconds())
	return drafts, nil
}

// GenerateOutline 生成书籍大纲章节规划
func (s *Service) GenerateOutline(ctx context.Context, ownerID string, book *entity.Book, chapterCount int) ([]OutlinePlanDraft, error) {
	ctx, span := tracer.Start(ctx, "generation.Service.GenerateOutline")
	defer span.End()

	if chapterCount <= 0 {
		chapterCount = 10
	}

	apiKey, model := s.credentials(ctx, ownerID)
	start := time.Now()
	result, err := s.generator.Generate(ctx, &llm.GenerateRequest{
		SystemPrompt: outlineSystemPrompt,
		UserPrompt:   buildOutlinePrompt(book, chapterCount),
		APIKey:       apiKey,
		Model:        model,
	})
	if err != nil {
		metrics.GenerationTotal.WithLabelValues("outline", "error").Inc()
		return nil, err
	}

	var plans []OutlinePlanDraft
	if err := DecodeJSON(result.Content, &plans); err != nil {
		var wrapper struct {
			Chapters []OutlinePlanDraft `json:"chapters"`
		}
		if werr := DecodeJSON(result.Content, &wrapper); werr != nil || len(wrapper.Chapters) == 0 {
			metrics.GenerationTotal.WithLabelValues("outline", "parse_error").Inc()
			return nil, err
		}
		plans = wrapper.Chapters
	}

	metrics.GenerationTotal.WithLabelValues("outline", "success").Inc()
	metrics.GenerationDuration.WithLabelValues("outline").Observe(time.Since(start).Seconds())
	return plans, nil
}

// GenerateChapter 生成章节正文。previousContent 为上一章正文，用于续写衔接。
func (s *Service) GenerateChapter(ctx context.Context, ownerID string, book *entity.Book, plan *entity.OutlineChapterPlan, number int, previousContent string) (*ChapterDraft, error) {
	ctx, span := tracer.Start(ctx, "generation.Service.GenerateChapter")
	defer span.End()

	apiKey, model := s.credentials(ctx, ownerID)
	start := time.Now()
	result, err := s.generator.Generate(ctx, &llm.GenerateRequest{
		SystemPrompt: chapterSystemPrompt,
		UserPrompt:   buildChapterPrompt(book, plan, number, previousChapterTail(previousContent, 600)),
		APIKey:       apiKey,
		Model:        model,
	})
	if err != nil {
		metrics.GenerationTotal.WithLabelValues("chapter", "error").Inc()
		return nil, err
	}

	content := strings.TrimSpace(result.Content)
	words := entity.CountWords(content)

	metrics.GenerationTotal.WithLabelValues("chapter", "success").Inc()
	metrics.GenerationDuration.WithLabelValues("chapter").Observe(time.Since(start).Seconds())
	metrics.GeneratedWordCount.WithLabelValues("chapter").Observe(float64(words))

	return &ChapterDraft{
		Content:    content,
		WordCount:  words,
		Model:      result.Model,
		TokensUsed: result.TokensUsed,
	}, nil
}
