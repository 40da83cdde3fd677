package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/KsuParkhamchuk/vllm-mm-chat-comparison/internal/handlers"
	"github.com/KsuParkhamchuk/vllm-mm-chat-comparison/internal/libraries"
	"github.com/KsuParkhamchuk/vllm-mm-chat-comparison/internal/repo"
	"github.com/KsuParkhamchuk/vllm-mm-chat-comparison/internal/workflow"
)

// Register wires the room routes. The websocket endpoint serves one
// connection per (room, conversation) pair and is shared by both modes; a
// comparison-mode client simply opens two connections.
func Register(app *fiber.App, roomRepo repo.RoomRepoInterface, turns *workflow.TurnWorkflow, staticDir string) {
	roomHandler := handlers.NewRoomHandler(roomRepo, turns, staticDir)

	room := app.Group("/room")
	room.Post("/:roomId/message", roomHandler.RoomTurn)
	room.Post("/:mode", roomHandler.CreateRoom)
	room.Get("/:mode/:roomId", roomHandler.GetRoomPage)
	room.Get("/ws/:mode/:roomId/:conversationId", libraries.WebSocketHandler(roomRepo, turns))
}
