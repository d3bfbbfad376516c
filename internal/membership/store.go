package membership

import (
	"context"

	"meeting-app-backend/internal/model"
)

// Store records which users currently occupy which meeting room. It is the
// only durable state the relay touches and is shared between instances, so
// implementations must keep Join/Leave atomic per (room, user) pair.
//
// The entry set for a room is a best-effort reflection of who was connected:
// it may hold stale entries until a leave is processed. Leave is idempotent.
type Store interface {
	Join(ctx context.Context, roomID, userID string, detail model.RoomMember) error
	Leave(ctx context.Context, roomID, userID string) error
	ListMembers(ctx context.Context, roomID string) (map[string]model.RoomMember, error)
}

// Pinger is implemented by backends that can report liveness for /healthz.
type Pinger interface {
	Ping(ctx context.Context) error
}
