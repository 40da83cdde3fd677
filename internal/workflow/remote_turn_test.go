package workflow

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KsuParkhamchuk/vllm-mm-chat-comparison/internal/config"
	llmHandlers "github.com/KsuParkhamchuk/vllm-mm-chat-comparison/internal/llm_handlers"
	"github.com/KsuParkhamchuk/vllm-mm-chat-comparison/internal/models"
	"github.com/KsuParkhamchuk/vllm-mm-chat-comparison/internal/repo"
)

// Full turn against a live model server: the comparison-mode path with the
// real dispatcher and remote client, no fakes.
func TestHandleTurn_RemoteBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"hi there"}}]}`))
	}))
	defer srv.Close()

	cfg := &config.Config{
		Model1:         "model-a",
		Model2:         "model-b",
		Model1Endpoint: srv.URL,
		Model2Endpoint: srv.URL,
	}
	r := repo.NewRoomRepository(cfg.Model1, cfg.Model2)
	remote := llmHandlers.NewRemoteClient(5*time.Second, 0.8, 500)
	w := NewTurnWorkflow(r, NewBackendDispatcher(cfg, nil, remote), nil)

	room, err := r.CreateRoom(models.ComparisonMode)
	require.NoError(t, err)
	conv := room.Conversations[0]

	reply := w.HandleTurn(context.Background(), conv, "hello")

	assert.Equal(t, "hi there", reply)
	history := r.History(conv)
	require.Len(t, history, 2)
	assert.Equal(t, models.Message{Role: models.RoleUser, Content: "hello"}, history[0])
	assert.Equal(t, models.Message{Role: models.RoleAssistant, Content: "hi there"}, history[1])
}

func TestHandleTurn_RemoteBackendTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	cfg := &config.Config{
		Model1:         "model-a",
		Model2:         "model-b",
		Model1Endpoint: srv.URL,
		Model2Endpoint: srv.URL,
	}
	r := repo.NewRoomRepository(cfg.Model1, cfg.Model2)
	remote := llmHandlers.NewRemoteClient(20*time.Millisecond, 0.8, 500)
	w := NewTurnWorkflow(r, NewBackendDispatcher(cfg, nil, remote), nil)

	room, err := r.CreateRoom(models.ComparisonMode)
	require.NoError(t, err)
	conv := room.Conversations[0]

	reply := w.HandleTurn(context.Background(), conv, "hello")

	assert.Equal(t, models.FallbackReply, reply)
	history := r.History(conv)
	require.Len(t, history, 2)
	assert.Equal(t, models.RoleAssistant, history[1].Role)
	assert.Equal(t, models.FallbackReply, history[1].Content)
}
