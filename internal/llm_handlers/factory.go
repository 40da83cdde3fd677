package llmHandlers

import (
	"context"

	"github.com/pkg/errors"

	"github.com/KsuParkhamchuk/vllm-mm-chat-comparison/internal/config"
)

const (
	ProviderLangChain = "langchain"
	ProviderGemini    = "gemini"
)

// NewEngine builds the in-process engine named by ENGINE_PROVIDER.
func NewEngine(ctx context.Context, cfg *config.Config) (Engine, error) {
	switch cfg.EngineProvider {
	case ProviderLangChain:
		return NewLangChainEngine(LangChainConfig{
			Model:       cfg.Model1,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.EngineMaxTokens,
		})
	case ProviderGemini:
		return NewGenaiEngine(ctx, cfg.Temperature, cfg.EngineMaxTokens)
	default:
		return nil, errors.Errorf("unknown engine provider %s", cfg.EngineProvider)
	}
}
