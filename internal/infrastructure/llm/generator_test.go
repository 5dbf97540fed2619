package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookforge-api/internal/config"
	apperrors "bookforge-api/pkg/errors"
)

// stubChatModel 预置响应的 ChatModel，记录调用次数
type stubChatModel struct {
	msg   *schema.Message
	err   error
	calls int
}

func (s *stubChatModel) Generate(_ context.Context, _ []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.msg, nil
}

func (s *stubChatModel) Stream(_ context.Context, _ []*schema.Message, _ ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("stream not supported")
}

func newTestConfig() *config.Config {
	return &config.Config{
		LLM: config.LLMConfig{
			DefaultProvider: "openai",
			FallbackModel:   "gpt-4o-mini",
			Providers: map[string]config.ProviderConfig{
				"openai": {APIKey: "configured-key", Model: "gpt-4o"},
			},
		},
	}
}

// newTestGenerator 构建生成器并将桩模型按缓存键注入工厂，
// 键格式为 provider|model|apiKey
func newTestGenerator(cfg *config.Config, stubs map[string]model.BaseChatModel) *TextGenerator {
	factory := NewEinoFactory(cfg)
	for key, m := range stubs {
		factory.models[key] = m
	}
	return &TextGenerator{factory: factory, config: &cfg.LLM}
}

func TestGenerate_MissingCredential(t *testing.T) {
	cfg := newTestConfig()
	provider := cfg.LLM.Providers["openai"]
	provider.APIKey = ""
	cfg.LLM.Providers["openai"] = provider

	stub := &stubChatModel{msg: schema.AssistantMessage("unused", nil)}
	gen := newTestGenerator(cfg, map[string]model.BaseChatModel{
		"openai|gpt-4o|": stub,
	})

	_, err := gen.Generate(context.Background(), &GenerateRequest{UserPrompt: "hi"})
	assert.ErrorIs(t, err, apperrors.ErrCredentialNil)
	assert.Zero(t, stub.calls, "no model call should happen without a credential")
}

func TestGenerate_MissingProvider(t *testing.T) {
	cfg := newTestConfig()
	cfg.LLM.DefaultProvider = "nonexistent"
	gen := newTestGenerator(cfg, nil)

	_, err := gen.Generate(context.Background(), &GenerateRequest{UserPrompt: "hi"})
	assert.ErrorIs(t, err, apperrors.ErrUpstreamError)
}

func TestGenerate_Success(t *testing.T) {
	cfg := newTestConfig()
	msg := schema.AssistantMessage("generated text", nil)
	msg.ResponseMeta = &schema.ResponseMeta{
		Usage: &schema.TokenUsage{TotalTokens: 42},
	}
	stub := &stubChatModel{msg: msg}
	gen := newTestGenerator(cfg, map[string]model.BaseChatModel{
		"openai|gpt-4o|configured-key": stub,
	})

	result, err := gen.Generate(context.Background(), &GenerateRequest{
		SystemPrompt: "sys", UserPrompt: "hi",
	})
	require.NoError(t, err)
	assert.Equal(t, "generated text", result.Content)
	assert.Equal(t, "gpt-4o", result.Model)
	assert.Equal(t, 42, result.TokensUsed)
	assert.Equal(t, 1, stub.calls)
}

func TestGenerate_RequestOverrides(t *testing.T) {
	cfg := newTestConfig()
	stub := &stubChatModel{msg: schema.AssistantMessage("ok", nil)}
	gen := newTestGenerator(cfg, map[string]model.BaseChatModel{
		"openai|custom-model|user-key": stub,
	})

	result, err := gen.Generate(context.Background(), &GenerateRequest{
		UserPrompt: "hi", APIKey: "user-key", Model: "custom-model",
	})
	require.NoError(t, err)
	assert.Equal(t, "custom-model", result.Model)
	assert.Equal(t, 1, stub.calls)
}

func TestGenerate_FallbackOnModelRejection(t *testing.T) {
	cfg := newTestConfig()
	primary := &stubChatModel{err: errors.New("the model `gpt-4o` does not exist or you do not have access to it")}
	fallback := &stubChatModel{msg: schema.AssistantMessage("fallback text", nil)}
	gen := newTestGenerator(cfg, map[string]model.BaseChatModel{
		"openai|gpt-4o|configured-key":      primary,
		"openai|gpt-4o-mini|configured-key": fallback,
	})

	result, err := gen.Generate(context.Background(), &GenerateRequest{UserPrompt: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "fallback text", result.Content)
	assert.Equal(t, "gpt-4o-mini", result.Model)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, fallback.calls)
}

func TestGenerate_FallbackAlsoRejected(t *testing.T) {
	cfg := newTestConfig()
	primary := &stubChatModel{err: errors.New("model_not_found")}
	fallback := &stubChatModel{err: errors.New("does not have access to model gpt-4o-mini")}
	gen := newTestGenerator(cfg, map[string]model.BaseChatModel{
		"openai|gpt-4o|configured-key":      primary,
		"openai|gpt-4o-mini|configured-key": fallback,
	})

	_, err := gen.Generate(context.Background(), &GenerateRequest{UserPrompt: "hi"})
	assert.ErrorIs(t, err, apperrors.ErrAuthFailed)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, fallback.calls, "fallback is attempted exactly once")
}

func TestGenerate_UpstreamFailureNoFallback(t *testing.T) {
	cfg := newTestConfig()
	primary := &stubChatModel{err: errors.New("rate limit exceeded")}
	fallback := &stubChatModel{msg: schema.AssistantMessage("unused", nil)}
	gen := newTestGenerator(cfg, map[string]model.BaseChatModel{
		"openai|gpt-4o|configured-key":      primary,
		"openai|gpt-4o-mini|configured-key": fallback,
	})

	_, err := gen.Generate(context.Background(), &GenerateRequest{UserPrompt: "hi"})
	assert.ErrorIs(t, err, apperrors.ErrUpstreamError)
	assert.Zero(t, fallback.calls, "transient upstream failures do not trigger model fallback")
}
