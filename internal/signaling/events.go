package signaling

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrMissingTarget = errors.New("targetUid required")
	ErrMissingRoom   = errors.New("roomId required")
)

// ClientEvent is one inbound frame: {"type": "...", "data": {...}}. Data is
// kept raw so point-to-point payloads can be forwarded without re-shaping
// and room messages can be relayed verbatim.
type ClientEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func DecodeEvent(raw []byte) (ClientEvent, error) {
	var ev ClientEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		return ClientEvent{}, fmt.Errorf("decode event: %w", err)
	}
	if ev.Type == "" {
		return ClientEvent{}, errors.New("decode event: type required")
	}
	return ev, nil
}

// Target extracts the mandatory targetUid of a point-to-point event.
func (ev ClientEvent) Target() (string, error) {
	var payload struct {
		TargetUID string `json:"targetUid"`
	}
	if len(ev.Data) > 0 {
		if err := json.Unmarshal(ev.Data, &payload); err != nil {
			return "", fmt.Errorf("%s payload: %w", ev.Type, err)
		}
	}
	if payload.TargetUID == "" {
		return "", ErrMissingTarget
	}
	return payload.TargetUID, nil
}

// Room extracts the roomId of a roomUserList request.
func (ev ClientEvent) Room() (string, error) {
	var payload struct {
		RoomID string `json:"roomId"`
	}
	if len(ev.Data) > 0 {
		if err := json.Unmarshal(ev.Data, &payload); err != nil {
			return "", fmt.Errorf("%s payload: %w", ev.Type, err)
		}
	}
	if payload.RoomID == "" {
		return "", ErrMissingRoom
	}
	return payload.RoomID, nil
}
