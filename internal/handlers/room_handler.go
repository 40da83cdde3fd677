package handlers

import (
	"path/filepath"

	"github.com/gofiber/fiber/v2"

	"github.com/KsuParkhamchuk/vllm-mm-chat-comparison/internal/models"
	"github.com/KsuParkhamchuk/vllm-mm-chat-comparison/internal/repo"
	"github.com/KsuParkhamchuk/vllm-mm-chat-comparison/internal/workflow"
)

type RoomHandler struct {
	roomRepo  repo.RoomRepoInterface
	turns     *workflow.TurnWorkflow
	staticDir string
}

func NewRoomHandler(roomRepo repo.RoomRepoInterface, turns *workflow.TurnWorkflow, staticDir string) *RoomHandler {
	return &RoomHandler{roomRepo: roomRepo, turns: turns, staticDir: staticDir}
}

// CreateRoom allocates a room for the requested chat mode: one conversation
// in single mode, two in comparison mode.
func (h *RoomHandler) CreateRoom(c *fiber.Ctx) error {
	mode, ok := models.ParseChatMode(c.Params("mode"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid chat mode",
		})
	}

	room, err := h.roomRepo.CreateRoom(mode)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(room)
}

// GetRoomPage serves the chat interface for an existing room.
func (h *RoomHandler) GetRoomPage(c *fiber.Ctx) error {
	indexPath := filepath.Join(h.staticDir, "index.html")
	if err := c.SendFile(indexPath); err != nil {
		return c.Status(fiber.StatusNotFound).Type("html").
			SendString("<html><head><title>Not Found</title></head><body><h1>Index.html not found</h1></body></html>")
	}
	return nil
}

// RoomTurn is the single-request comparison entry point: the prompt goes to
// every conversation in the room in parallel and the reply carries one
// result per conversation.
func (h *RoomHandler) RoomTurn(c *fiber.Ctx) error {
	var dto struct {
		Message string `json:"message"`
	}
	if err := c.BodyParser(&dto); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if dto.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Message cannot be empty",
		})
	}

	room, err := h.roomRepo.GetRoom(c.Params("roomId"))
	if err != nil {
		return err
	}

	results := h.turns.HandleRoomTurn(c.Context(), room, dto.Message)

	return c.JSON(fiber.Map{
		"room_id":   room.UUID,
		"responses": results,
	})
}
