package llmHandlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/KsuParkhamchuk/vllm-mm-chat-comparison/internal/models"
)

// RemoteClient talks to a model server over its chat-completion endpoint.
// One attempt per turn; any transport or protocol problem is reported as an
// error for the caller to fold into a fallback reply.
type RemoteClient struct {
	httpClient *http.Client

	Temperature float64
	MaxTokens   int
}

type completionRequest struct {
	Messages    []models.Message `json:"messages"`
	Temperature float64          `json:"temperature"`
	MaxTokens   int              `json:"max_tokens"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func NewRemoteClient(timeout time.Duration, temperature float64, maxTokens int) *RemoteClient {
	return &RemoteClient{
		httpClient:  &http.Client{Timeout: timeout},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}
}

// Completion sends the full message history to the given endpoint and
// extracts the first choice's content.
func (c *RemoteClient) Completion(ctx context.Context, endpoint string, messages []models.Message) (string, error) {
	body, err := json.Marshal(completionRequest{
		Messages:    messages,
		Temperature: c.Temperature,
		MaxTokens:   c.MaxTokens,
	})
	if err != nil {
		return "", errors.Wrap(err, "marshal completion request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "build completion request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error().Err(err).Str("endpoint", endpoint).Msg("model server request failed")
		return "", errors.Wrap(err, "model server request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		log.Error().Int("status", resp.StatusCode).Str("endpoint", endpoint).
			Str("body", string(raw)).Msg("model server returned error response")
		return "", errors.Errorf("model server returned status %d", resp.StatusCode)
	}

	var payload completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		log.Error().Err(err).Str("endpoint", endpoint).Msg("model server response was not valid JSON")
		return "", errors.Wrap(err, "decode completion response")
	}
	if len(payload.Choices) == 0 {
		return "", errors.New("model server response had no choices")
	}

	return payload.Choices[0].Message.Content, nil
}
