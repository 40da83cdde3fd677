package workflow

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"

	"github.com/KsuParkhamchuk/vllm-mm-chat-comparison/internal/config"
	llmHandlers "github.com/KsuParkhamchuk/vllm-mm-chat-comparison/internal/llm_handlers"
	"github.com/KsuParkhamchuk/vllm-mm-chat-comparison/internal/models"
	"github.com/KsuParkhamchuk/vllm-mm-chat-comparison/internal/repo"
	"github.com/KsuParkhamchuk/vllm-mm-chat-comparison/internal/telemetry"
)

// Dispatcher delivers a conversation's full history to the backend its model
// is bound to and returns the generated text. Every ordinary backend problem
// comes back as an error, which the orchestrator folds into the fallback
// reply — dispatchers never retry.
type Dispatcher interface {
	Dispatch(ctx context.Context, model string, messages []models.Message) (string, time.Duration, error)
}

// BackendDispatcher routes by the model's configured endpoint: a non-empty
// endpoint means a networked model server, otherwise the in-process engine.
type BackendDispatcher struct {
	cfg    *config.Config
	engine llmHandlers.Engine
	remote *llmHandlers.RemoteClient
}

func NewBackendDispatcher(cfg *config.Config, engine llmHandlers.Engine, remote *llmHandlers.RemoteClient) *BackendDispatcher {
	return &BackendDispatcher{cfg: cfg, engine: engine, remote: remote}
}

func (d *BackendDispatcher) Dispatch(ctx context.Context, model string, messages []models.Message) (string, time.Duration, error) {
	if endpoint := d.cfg.EndpointFor(model); endpoint != "" {
		start := time.Now()
		text, err := d.remote.Completion(ctx, endpoint, messages)
		return text, time.Since(start), err
	}

	if d.engine == nil {
		return "", 0, errors.Errorf("no engine available for model %s", model)
	}

	results, elapsed, err := d.engine.Generate(ctx, messages)
	if err != nil {
		return "", elapsed, err
	}
	text, ok := llmHandlers.FirstText(results)
	if !ok {
		log.Error().Str("model", model).Msg("LLM did not return a valid response or response was empty")
		return "", elapsed, errors.New("engine returned no output")
	}
	return text, elapsed, nil
}

// TurnWorkflow is the per-message entry point. It owns the append-user →
// dispatch → append-assistant sequence and keeps it atomic per conversation.
type TurnWorkflow struct {
	repo       repo.RoomRepoInterface
	dispatcher Dispatcher
	recorder   *telemetry.Recorder
}

func NewTurnWorkflow(roomRepo repo.RoomRepoInterface, dispatcher Dispatcher, recorder *telemetry.Recorder) *TurnWorkflow {
	return &TurnWorkflow{
		repo:       roomRepo,
		dispatcher: dispatcher,
		recorder:   recorder,
	}
}

// HandleTurn runs one full turn on a conversation and always produces a
// textual reply: the model's own text, or the fixed fallback when the
// backend soft-fails. Either way the transcript records exactly what was
// said to the user, because it is replayed as context on every later turn.
func (w *TurnWorkflow) HandleTurn(ctx context.Context, conv *models.Conversation, prompt string) string {
	unlock := w.repo.LockTurn(conv)
	defer unlock()

	messages := w.repo.AppendMessage(conv, models.RoleUser, prompt)

	reply, elapsed, err := w.dispatcher.Dispatch(ctx, conv.Model, messages)
	if err != nil {
		log.Error().Err(err).
			Str("conversation_id", conv.UUID.String()).
			Str("model", conv.Model).
			Msg("backend dispatch failed, substituting fallback reply")
		w.repo.AppendMessage(conv, models.RoleAssistant, models.FallbackReply)
		return models.FallbackReply
	}

	w.repo.AppendMessage(conv, models.RoleAssistant, reply)
	w.recorder.RecordTurn(uuid.NewString(), conv.Model, messages, reply, elapsed)

	return reply
}

// LegResult is one conversation's reply inside a fanned-out room turn.
type LegResult struct {
	ConversationID string `json:"conversation_id"`
	Response       string `json:"response"`
}

// HandleRoomTurn delivers one prompt to every conversation in the room
// concurrently and waits for all legs. Legs are isolated: one backend's
// failure becomes that leg's fallback reply and never blocks the other.
func (w *TurnWorkflow) HandleRoomTurn(ctx context.Context, room *models.Room, prompt string) []LegResult {
	results := make([]LegResult, len(room.Conversations))

	var wg conc.WaitGroup
	for i, conv := range room.Conversations {
		wg.Go(func() {
			results[i] = LegResult{
				ConversationID: conv.UUID.String(),
				Response:       w.HandleTurn(ctx, conv, prompt),
			}
		})
	}
	wg.Wait()

	return results
}
