package repo

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/KsuParkhamchuk/vllm-mm-chat-comparison/internal/models"
)

type RoomRepoInterface interface {
	CreateRoom(mode models.ChatMode) (*models.Room, error)
	GetRoom(id string) (*models.Room, error)
	GetConversation(room *models.Room, id string) (*models.Conversation, error)
	AppendMessage(conv *models.Conversation, role models.Role, content string) []models.Message
	History(conv *models.Conversation) []models.Message
	LockTurn(conv *models.Conversation) func()
	Len() int
}

// convLock carries the two levels of synchronization a conversation needs:
// mu guards the message slice itself, turn serializes whole turns so the
// user/assistant append pair is never interleaved with another turn's.
type convLock struct {
	mu   sync.RWMutex
	turn sync.Mutex
}

// RoomRepo is the process-lifetime store for rooms and conversations.
// Growth is append-only; rooms and conversations are never removed, so a
// pointer handed to a caller stays valid forever. Each conversation has its
// own locks so unrelated conversations never serialize each other.
type RoomRepo struct {
	mu     sync.RWMutex
	rooms  map[uuid.UUID]*models.Room
	locks  map[uuid.UUID]*convLock
	model1 string
	model2 string
}

func NewRoomRepository(model1, model2 string) *RoomRepo {
	return &RoomRepo{
		rooms:  make(map[uuid.UUID]*models.Room),
		locks:  make(map[uuid.UUID]*convLock),
		model1: model1,
		model2: model2,
	}
}

// CreateRoom allocates a room with one conversation in single mode and two in
// comparison mode. Model configuration is validated against the requested
// mode before anything is allocated, so a failed creation leaves the store
// untouched.
func (r *RoomRepo) CreateRoom(mode models.ChatMode) (*models.Room, error) {
	if mode == models.SingleMode && r.model1 == "" {
		return nil, models.ErrModelNotConfigured
	}
	if mode == models.ComparisonMode && (r.model1 == "" || r.model2 == "") {
		return nil, models.ErrModelNotConfigured
	}

	room := &models.Room{
		UUID: uuid.New(),
		Mode: mode,
	}
	if mode == models.SingleMode {
		room.Conversations = []*models.Conversation{newConversation(r.model1)}
	} else {
		room.Conversations = []*models.Conversation{
			newConversation(r.model1),
			newConversation(r.model2),
		}
	}

	r.mu.Lock()
	r.rooms[room.UUID] = room
	for _, conv := range room.Conversations {
		r.locks[conv.UUID] = &convLock{}
	}
	r.mu.Unlock()

	return room, nil
}

func newConversation(model string) *models.Conversation {
	return &models.Conversation{
		UUID:      uuid.New(),
		Model:     model,
		Messages:  []models.Message{},
		CreatedAt: time.Now(),
	}
}

// GetRoom resolves a room by its string identifier. Unparseable ids fall
// through to the same not-found outcome as unknown ids.
func (r *RoomRepo) GetRoom(id string) (*models.Room, error) {
	roomID, err := uuid.Parse(id)
	if err != nil {
		return nil, models.NewNotFoundError("Room", id)
	}

	r.mu.RLock()
	room, ok := r.rooms[roomID]
	r.mu.RUnlock()

	if !ok {
		return nil, models.NewNotFoundError("Room", id)
	}
	return room, nil
}

// GetConversation resolves a conversation inside a room by its string
// identifier.
func (r *RoomRepo) GetConversation(room *models.Room, id string) (*models.Conversation, error) {
	convID, err := uuid.Parse(id)
	if err != nil {
		return nil, models.NewNotFoundError("Conversation", id)
	}

	for _, conv := range room.Conversations {
		if conv.UUID == convID {
			return conv, nil
		}
	}
	return nil, models.NewNotFoundError("Conversation", id)
}

// AppendMessage is the only mutation path for a conversation's transcript.
// It returns a copy of the full updated sequence, which callers pass to the
// backend as the prompt context.
func (r *RoomRepo) AppendMessage(conv *models.Conversation, role models.Role, content string) []models.Message {
	l := r.lockFor(conv)

	l.mu.Lock()
	conv.Messages = append(conv.Messages, models.Message{Role: role, Content: content})
	out := make([]models.Message, len(conv.Messages))
	copy(out, conv.Messages)
	l.mu.Unlock()

	return out
}

// History returns a copy of the conversation's transcript.
func (r *RoomRepo) History(conv *models.Conversation) []models.Message {
	l := r.lockFor(conv)

	l.mu.RLock()
	out := make([]models.Message, len(conv.Messages))
	copy(out, conv.Messages)
	l.mu.RUnlock()

	return out
}

// LockTurn serializes whole turns on one conversation. The returned func
// releases the turn. Turns on different conversations run concurrently.
func (r *RoomRepo) LockTurn(conv *models.Conversation) func() {
	l := r.lockFor(conv)
	l.turn.Lock()
	return l.turn.Unlock
}

// Len reports the number of rooms in the store.
func (r *RoomRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

func (r *RoomRepo) lockFor(conv *models.Conversation) *convLock {
	r.mu.RLock()
	l, ok := r.locks[conv.UUID]
	r.mu.RUnlock()
	if ok {
		return l
	}

	// Conversations created outside CreateRoom (tests) still get a lock.
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok = r.locks[conv.UUID]; !ok {
		l = &convLock{}
		r.locks[conv.UUID] = l
	}
	return l
}
