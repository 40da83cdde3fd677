package libraries

import (
	"context"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/KsuParkhamchuk/vllm-mm-chat-comparison/internal/models"
	"github.com/KsuParkhamchuk/vllm-mm-chat-comparison/internal/repo"
)

// TurnProcessor runs one full turn against a conversation's bound backend.
type TurnProcessor interface {
	HandleTurn(ctx context.Context, conv *models.Conversation, prompt string) string
}

type turnReply struct {
	ConversationID string `json:"conversation_id"`
	Response       string `json:"response"`
}

type wsError struct {
	Error string `json:"error"`
}

// WebSocketHandler serves one persistent connection per (room, conversation)
// pair. Each text frame is a user prompt; the reply frame carries the
// conversation id and the generated text. In comparison mode the client
// opens two of these connections, one per model, so the two backends run
// concurrently across connections without any fan-out here.
//
// Unknown room or conversation ids produce an error frame but keep the
// connection open.
func WebSocketHandler(roomRepo repo.RoomRepoInterface, processor TurnProcessor) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		roomID := conn.Params("roomId")
		conversationID := conn.Params("conversationId")

		defer conn.Close()

		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				log.Debug().Err(err).Str("room_id", roomID).Msg("client disconnected")
				return
			}

			room, err := roomRepo.GetRoom(roomID)
			if err != nil {
				writeJSON(conn, wsError{Error: err.Error()})
				continue
			}
			conv, err := roomRepo.GetConversation(room, conversationID)
			if err != nil {
				writeJSON(conn, wsError{Error: err.Error()})
				continue
			}

			response := processor.HandleTurn(context.Background(), conv, string(msg))

			if !writeJSON(conn, turnReply{ConversationID: conversationID, Response: response}) {
				return
			}
		}
	})
}

func writeJSON(conn *websocket.Conn, v interface{}) bool {
	if err := conn.WriteJSON(v); err != nil {
		log.Error().Err(err).Msg("websocket write failed")
		return false
	}
	return true
}
