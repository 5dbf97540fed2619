package llm

import (
	"context"
	"strings"

	"github.com/cloudwego/eino/schema"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"bookforge-api/internal/config"
	apperrors "bookforge-api/pkg/errors"
	"bookforge-api/pkg/logger"
)

var tracer = otel.Tracer("llm")

// GenerateRequest 单次文本生成请求
type GenerateRequest struct {
	// SystemPrompt 系统提示词
	SystemPrompt string
	// UserPrompt 用户提示词
	UserPrompt string
	// APIKey 请求级别的 API Key，为空时使用配置中的密钥
	APIKey string
	// Model 请求级别的模型名，为空时使用配置中的模型
	Model string
}

// GenerateResult 文本生成结果
type GenerateResult struct {
	Content    string
	Model      string
	TokensUsed int
}

// TextGenerator 基于 ChatModel 的文本生成器
type TextGenerator struct {
	factory *EinoFactory
	config  *config.LLMConfig
}

// NewTextGenerator 创建文本生成器
func NewTextGenerator(factory *EinoFactory, cfg *config.Config) *TextGenerator {
	return &TextGenerator{
		factory: factory,
		config:  &cfg.LLM,
	}
}

// Generate 执行一次文本生成。没有可用凭证时直接返回认证错误，
// 模型不可用时降级到备用模型重试一次，其余失败映射为上游错误。
func (g *TextGenerator) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResult, error) {
	ctx, span := tracer.Start(ctx, "llm.TextGenerator.Generate")
	defer span.End()

	providerCfg, ok := g.config.Providers[g.config.DefaultProvider]
	if !ok {
		return nil, apperrors.ErrUpstreamError.WithDetail("default llm provider is not configured")
	}
	if req.APIKey == "" && providerCfg.APIKey == "" {
		return nil, apperrors.ErrCredentialNil
	}

	modelName := req.Model
	if modelName == "" {
		modelName = providerCfg.Model
	}
	span.SetAttributes(attribute.String("llm.model", modelName))

	result, err := g.generateOnce(ctx, req, modelName)
	if err == nil {
		return result, nil
	}

	// 请求的模型不可用时降级到备用模型，只重试一次
	if isModelAccessError(err) && g.config.FallbackModel != "" && modelName != g.config.FallbackModel {
		logger.Warn(ctx, "model unavailable, falling back",
			"model", modelName, "fallback", g.config.FallbackModel)
		span.SetAttributes(attribute.String("llm.fallback_model", g.config.FallbackModel))
		result, err = g.generateOnce(ctx, req, g.config.FallbackModel)
		if err == nil {
			return result, nil
		}
	}

	span.RecordError(err)
	// 模型授权被拒且降级也未成功时按认证失败上报
	if isModelAccessError(err) {
		return nil, apperrors.ErrAuthFailed.WithError(err)
	}
	return nil, apperrors.ErrUpstreamError.WithError(err)
}

func (g *TextGenerator) generateOnce(ctx context.Context, req *GenerateRequest, modelName string) (*GenerateResult, error) {
	chatModel, err := g.factory.GetWithOverride(ctx, "", req.APIKey, modelName)
	if err != nil {
		return nil, err
	}

	messages := make([]*schema.Message, 0, 2)
	if req.SystemPrompt != "" {
		messages = append(messages, schema.SystemMessage(req.SystemPrompt))
	}
	messages = append(messages, schema.UserMessage(req.UserPrompt))

	resp, err := chatModel.Generate(ctx, messages)
	if err != nil {
		return nil, err
	}

	result := &GenerateResult{
		Content: resp.Content,
		Model:   modelName,
	}
	if resp.ResponseMeta != nil && resp.ResponseMeta.Usage != nil {
		result.TokensUsed = resp.ResponseMeta.Usage.TotalTokens
	}
	return result, nil
}

// isModelAccessError 判断是否为模型不存在或无访问权限的拒绝
func isModelAccessError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "model_not_found") ||
		strings.Contains(msg, "does not exist") ||
		strings.Contains(msg, "does not have access") ||
		strings.Contains(msg, "invalid model")
}
