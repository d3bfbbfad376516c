package membership

import (
	"context"
	"fmt"
	"log"
	"time"

	"meeting-app-backend/internal/model"

	"github.com/go-redis/redis/v8"
)

// Each room is one redis hash: field = user id, value = serialized member
// record. Hash field operations give per-(room,user) atomicity without
// read-modify-write cycles, so concurrent gateways do not clobber each other.
const roomKeyPrefix = "meeting-room::"

func roomKey(roomID string) string {
	return roomKeyPrefix + roomID
}

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(addr, password string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}

	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Join(ctx context.Context, roomID, userID string, detail model.RoomMember) error {
	raw, err := detail.Encode()
	if err != nil {
		return err
	}
	if err := s.client.HSet(ctx, roomKey(roomID), userID, raw).Err(); err != nil {
		return fmt.Errorf("join room %s: %w", roomID, err)
	}
	return nil
}

func (s *RedisStore) Leave(ctx context.Context, roomID, userID string) error {
	if err := s.client.HDel(ctx, roomKey(roomID), userID).Err(); err != nil {
		return fmt.Errorf("leave room %s: %w", roomID, err)
	}
	return nil
}

func (s *RedisStore) ListMembers(ctx context.Context, roomID string) (map[string]model.RoomMember, error) {
	entries, err := s.client.HGetAll(ctx, roomKey(roomID)).Result()
	if err != nil {
		return nil, fmt.Errorf("list members of %s: %w", roomID, err)
	}

	members := make(map[string]model.RoomMember, len(entries))
	for userID, raw := range entries {
		member, err := model.DecodeMember(raw)
		if err != nil {
			// A corrupt field should not hide the rest of the room.
			log.Printf("[membership] skipping corrupt entry %s in room %s: %v", userID, roomID, err)
			continue
		}
		members[userID] = member
	}
	return members, nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
