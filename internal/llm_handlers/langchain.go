package llmHandlers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/KsuParkhamchuk/vllm-mm-chat-comparison/internal/models"
)

// LangChainEngine serves colocated inference through langchaingo's
// OpenAI-compatible client. Pointing BaseURL at a local server keeps single
// mode off the network path between this process and a remote model host.
type LangChainEngine struct {
	llm llms.Model

	Temperature float64
	MaxTokens   int
}

type LangChainConfig struct {
	Model   string // e.g. "google/gemma-3-1b-it"
	BaseURL string // optional: any OpenAI-compatible server
	APIKey  string // if not set, falls back to env

	Temperature float64
	MaxTokens   int
}

func NewLangChainEngine(cfg LangChainConfig) (*LangChainEngine, error) {
	opts := []openai.Option{
		openai.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	if cfg.APIKey != "" {
		opts = append(opts, openai.WithToken(cfg.APIKey))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, errors.Wrap(err, "create langchain openai client")
	}

	return &LangChainEngine{
		llm:         llm,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	}, nil
}

func (e *LangChainEngine) Generate(ctx context.Context, messages []models.Message) ([]GenerationResult, time.Duration, error) {
	msgContents := make([]llms.MessageContent, 0, len(messages))
	for _, m := range messages {
		var msgType llms.ChatMessageType
		switch m.Role {
		case models.RoleAssistant:
			msgType = llms.ChatMessageTypeAI
		default:
			msgType = llms.ChatMessageTypeHuman
		}
		msgContents = append(msgContents, llms.TextParts(msgType, m.Content))
	}

	start := time.Now()
	resp, err := e.llm.GenerateContent(ctx, msgContents,
		llms.WithTemperature(e.Temperature),
		llms.WithMaxTokens(e.MaxTokens),
	)
	elapsed := time.Since(start)
	if err != nil {
		return nil, elapsed, errors.Wrap(err, "langchain generate")
	}

	result := GenerationResult{RequestID: uuid.NewString()}
	for _, choice := range resp.Choices {
		result.Outputs = append(result.Outputs, Candidate{Text: choice.Content})
	}

	return []GenerationResult{result}, elapsed, nil
}
