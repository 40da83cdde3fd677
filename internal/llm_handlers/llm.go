package llmHandlers

import (
	"context"
	"time"

	"github.com/KsuParkhamchuk/vllm-mm-chat-comparison/internal/models"
)

// Candidate is one generated completion inside a result.
type Candidate struct {
	Text string
}

// GenerationResult is one request's worth of engine output. An engine may
// legitimately return a result with zero candidates; callers treat that the
// same as an empty result list.
type GenerationResult struct {
	RequestID string
	Outputs   []Candidate
}

// Engine is the in-process inference engine. Generate blocks for the whole
// generation and reports the wall-clock duration alongside the results.
type Engine interface {
	Generate(ctx context.Context, messages []models.Message) ([]GenerationResult, time.Duration, error)
}

// FirstText pulls the first candidate's text out of a result set. The second
// return is false when there is nothing to extract, which callers normalize
// into a soft failure.
func FirstText(results []GenerationResult) (string, bool) {
	if len(results) == 0 || len(results[0].Outputs) == 0 {
		return "", false
	}
	return results[0].Outputs[0].Text, true
}
