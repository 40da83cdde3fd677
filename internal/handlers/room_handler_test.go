package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KsuParkhamchuk/vllm-mm-chat-comparison/internal/api"
	"github.com/KsuParkhamchuk/vllm-mm-chat-comparison/internal/api/routes"
	"github.com/KsuParkhamchuk/vllm-mm-chat-comparison/internal/models"
	"github.com/KsuParkhamchuk/vllm-mm-chat-comparison/internal/repo"
	"github.com/KsuParkhamchuk/vllm-mm-chat-comparison/internal/workflow"
)

type echoDispatcher struct{}

func (echoDispatcher) Dispatch(_ context.Context, model string, _ []models.Message) (string, time.Duration, error) {
	return "echo from " + model, time.Millisecond, nil
}

func newTestApp(model1, model2 string) (*fiber.App, *repo.RoomRepo) {
	roomRepo := repo.NewRoomRepository(model1, model2)
	turns := workflow.NewTurnWorkflow(roomRepo, echoDispatcher{}, nil)
	app := api.NewServer()
	routes.Register(app, roomRepo, turns, "./does-not-exist")
	return app, roomRepo
}

func TestCreateRoom_Single(t *testing.T) {
	app, _ := newTestApp("model-a", "model-b")

	resp, err := app.Test(httpPost("/room/sm", ""))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var room models.Room
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&room))
	assert.Equal(t, models.SingleMode, room.Mode)
	assert.Len(t, room.Conversations, 1)
}

func TestCreateRoom_Comparison(t *testing.T) {
	app, _ := newTestApp("model-a", "model-b")

	resp, err := app.Test(httpPost("/room/cm", ""))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var room models.Room
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&room))
	require.Len(t, room.Conversations, 2)
	assert.NotEqual(t, room.Conversations[0].Model, room.Conversations[1].Model)
}

func TestCreateRoom_InvalidMode(t *testing.T) {
	app, _ := newTestApp("model-a", "model-b")

	resp, err := app.Test(httpPost("/room/bogus", ""))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestCreateRoom_ComparisonWithoutSecondModel(t *testing.T) {
	app, roomRepo := newTestApp("model-a", "")

	resp, err := app.Test(httpPost("/room/cm", ""))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, 0, roomRepo.Len())
}

func TestRoomTurn_FanOut(t *testing.T) {
	app, roomRepo := newTestApp("model-a", "model-b")
	room, err := roomRepo.CreateRoom(models.ComparisonMode)
	require.NoError(t, err)

	resp, err := app.Test(httpPost("/room/"+room.UUID.String()+"/message", `{"message":"hello"}`), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload struct {
		Responses []workflow.LegResult `json:"responses"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.Len(t, payload.Responses, 2)
	assert.Equal(t, "echo from model-a", payload.Responses[0].Response)
	assert.Equal(t, "echo from model-b", payload.Responses[1].Response)
}

func TestRoomTurn_UnknownRoom(t *testing.T) {
	app, _ := newTestApp("model-a", "model-b")

	resp, err := app.Test(httpPost("/room/unknown-room/message", `{"message":"hello"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestRoomTurn_EmptyMessage(t *testing.T) {
	app, roomRepo := newTestApp("model-a", "model-b")
	room, err := roomRepo.CreateRoom(models.SingleMode)
	require.NoError(t, err)

	resp, err := app.Test(httpPost("/room/"+room.UUID.String()+"/message", `{"message":""}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func httpPost(path, body string) *http.Request {
	req, _ := http.NewRequest(http.MethodPost, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}
