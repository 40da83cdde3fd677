package llmHandlers

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"google.golang.org/genai"

	"github.com/KsuParkhamchuk/vllm-mm-chat-comparison/internal/models"
)

// GenaiEngine implements Engine on top of the Google AI API. It is the
// alternative in-process provider for deployments without a local model.
type GenaiEngine struct {
	client  *genai.Client
	modelID string

	Temperature float32
	MaxTokens   int32
}

func NewGenaiEngine(ctx context.Context, temperature float64, maxTokens int) (*GenaiEngine, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	modelID := os.Getenv("GEMINI_MODEL_ID")

	if apiKey == "" || modelID == "" {
		return nil, errors.New("GEMINI_API_KEY and GEMINI_MODEL_ID must be set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(err, "genai.NewClient")
	}

	return &GenaiEngine{
		client:      client,
		modelID:     modelID,
		Temperature: float32(temperature),
		MaxTokens:   int32(maxTokens),
	}, nil
}

func (e *GenaiEngine) Generate(ctx context.Context, messages []models.Message) ([]GenerationResult, time.Duration, error) {
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		// Gemini names the assistant side "model".
		role := "user"
		if m.Role == models.RoleAssistant {
			role = "model"
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: m.Content}},
		})
	}

	genConfig := &genai.GenerateContentConfig{
		Temperature:     &e.Temperature,
		MaxOutputTokens: e.MaxTokens,
	}

	start := time.Now()
	resp, err := e.client.Models.GenerateContent(ctx, e.modelID, contents, genConfig)
	elapsed := time.Since(start)
	if err != nil {
		return nil, elapsed, errors.Wrap(err, "gemini GenerateContent")
	}
	if resp == nil {
		return nil, elapsed, nil
	}

	result := GenerationResult{RequestID: uuid.NewString()}
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		var sb strings.Builder
		for _, part := range cand.Content.Parts {
			if part.Text != "" {
				sb.WriteString(part.Text)
			}
		}
		result.Outputs = append(result.Outputs, Candidate{Text: sb.String()})
	}

	return []GenerationResult{result}, elapsed, nil
}
