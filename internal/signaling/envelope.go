package signaling

import (
	"encoding/json"
	"log"
)

// Event types on the wire. candidate/offer/answer/call are point-to-point
// WebRTC negotiation events addressed by targetUid; join/leave are
// server-originated room broadcasts; message is an as-is room relay.
const (
	EventCandidate     = "candidate"
	EventOffer         = "offer"
	EventAnswer        = "answer"
	EventCall          = "call"
	EventJoin          = "join"
	EventLeave         = "leave"
	EventRoomUserList  = "roomUserList"
	EventMessage       = "message"
	EventTargetOffline = "targetOffline"
	EventError         = "error"
)

// signalLabels are the fixed human-readable msg values for forwarded
// negotiation events.
var signalLabels = map[string]string{
	EventCandidate: "ice candidate",
	EventOffer:     "rtc offer",
	EventAnswer:    "rtc answer",
	EventCall:      "remote call",
}

// IsSignal reports whether typ is a point-to-point negotiation event.
func IsSignal(typ string) bool {
	_, ok := signalLabels[typ]
	return ok
}

// Envelope is the uniform wrapper for every relayed or server-originated
// delivery: {type, msg, status, data}. Status defaults to 200 and data may
// be null.
type Envelope struct {
	Type   string `json:"type"`
	Msg    string `json:"msg"`
	Status int    `json:"status"`
	Data   any    `json:"data"`
}

func Wrap(typ, msg string) Envelope {
	return Envelope{
		Type:   typ,
		Msg:    msg,
		Status: 200,
	}
}

func WrapData(typ, msg string, data any) Envelope {
	env := Wrap(typ, msg)
	env.Data = data
	return env
}

func WrapError(typ, msg string, status int) Envelope {
	env := Wrap(typ, msg)
	env.Status = status
	return env
}

// encode marshals an envelope for the wire. Envelopes are built from
// already-decoded JSON, so a marshal failure indicates a programming error.
func encode(env Envelope) []byte {
	raw, err := json.Marshal(env)
	if err != nil {
		log.Printf("[signal] dropping unencodable %s envelope: %v", env.Type, err)
		return nil
	}
	return raw
}
