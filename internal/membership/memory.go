package membership

import (
	"context"
	"sync"

	"meeting-app-backend/internal/model"
)

// MemoryStore holds membership in process memory. It serves single-instance
// deployments and tests; state is lost on restart and invisible to other
// instances.
type MemoryStore struct {
	mu    sync.Mutex
	rooms map[string]map[string]model.RoomMember
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rooms: make(map[string]map[string]model.RoomMember),
	}
}

func (s *MemoryStore) Join(ctx context.Context, roomID, userID string, detail model.RoomMember) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	room := s.rooms[roomID]
	if room == nil {
		room = make(map[string]model.RoomMember)
		s.rooms[roomID] = room
	}
	room[userID] = detail
	return nil
}

func (s *MemoryStore) Leave(ctx context.Context, roomID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if room, ok := s.rooms[roomID]; ok {
		delete(room, userID)
		if len(room) == 0 {
			delete(s.rooms, roomID)
		}
	}
	return nil
}

func (s *MemoryStore) ListMembers(ctx context.Context, roomID string) (map[string]model.RoomMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room := s.rooms[roomID]
	members := make(map[string]model.RoomMember, len(room))
	for userID, member := range room {
		members[userID] = member
	}
	return members, nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}
