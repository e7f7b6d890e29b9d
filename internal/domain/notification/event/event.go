package event

import (
	"encoding/json"
	"fmt"
)

type Event interface {
	Op() string
}

type Metadata struct {
	// To is the group which the event is sent to.
	To string `json:"to"`

	// ToUser narrows a group event down to the sessions of one user. Empty
	// means every member of the group.
	ToUser string `json:"to_user,omitempty"`
}

type EventRequest struct {
	Op       string   `json:"o"`
	Data     Event    `json:"d"`
	Metadata Metadata `json:"m"`
}

func New(ev Event, metadata Metadata) *EventRequest {
	return &EventRequest{
		Op:       ev.Op(),
		Data:     ev,
		Metadata: metadata,
	}
}

// newEvent returns an empty event of the given op. Every op a group can carry
// must be listed here.
func newEvent(op string) (Event, error) {
	switch op {
	case NewNotificationOp:
		return &NewNotificationEvent{}, nil
	case DynamicSubscriptionOp:
		return &DynamicSubscriptionEvent{}, nil
	case ChatNotificationOp:
		return &ChatNotificationEvent{}, nil
	case ChatMessageOp:
		return &ChatMessageEvent{}, nil
	}

	return nil, fmt.Errorf("unknown event op %q", op)
}

type rawEventRequest struct {
	Op       string          `json:"o"`
	Data     json.RawMessage `json:"d"`
	Metadata Metadata        `json:"m"`
}

// Decode parses an event request which was encoded by json.Marshal. The data
// is decoded into the concrete event type of its op.
func Decode(b []byte) (*EventRequest, error) {
	var raw rawEventRequest
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, err
	}

	ev, err := newEvent(raw.Op)
	if err != nil {
		return nil, err
	}

	if len(raw.Data) > 0 {
		if err := json.Unmarshal(raw.Data, ev); err != nil {
			return nil, err
		}
	}

	return &EventRequest{Op: raw.Op, Data: ev, Metadata: raw.Metadata}, nil
}

// Format returns the frame sent to websocket clients: the fields of the event
// plus its op under the key "type".
func Format(ev *EventRequest) ([]byte, error) {
	b, err := json.Marshal(ev.Data)
	if err != nil {
		return nil, err
	}

	frame := map[string]any{}
	if err := json.Unmarshal(b, &frame); err != nil {
		return nil, err
	}
	frame["type"] = ev.Op

	return json.Marshal(frame)
}
