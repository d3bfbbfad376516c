package model

import (
	"encoding/json"
	"fmt"
)

// RoomMember is the per-(room,user) record held by the membership store.
// It is what roomUserList snapshots return for each occupant.
type RoomMember struct {
	UserID   string `json:"userId" dynamodbav:"user_id"`
	RoomID   string `json:"roomId" dynamodbav:"room_id"`
	Nickname string `json:"nickname" dynamodbav:"nickname"`
}

// MemberDetail derives the stored detail from handshake identifiers.
// The nickname falls back to the user id until a profile service exists.
func MemberDetail(userID, roomID string) RoomMember {
	return RoomMember{
		UserID:   userID,
		RoomID:   roomID,
		Nickname: userID,
	}
}

func (m RoomMember) Encode() (string, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("encode member %s: %w", m.UserID, err)
	}
	return string(raw), nil
}

func DecodeMember(raw string) (RoomMember, error) {
	var m RoomMember
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return RoomMember{}, fmt.Errorf("decode member record: %w", err)
	}
	return m, nil
}
