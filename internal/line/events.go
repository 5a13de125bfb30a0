package line

import (
	"encoding/json"
	"errors"
	"time"
)

// EventKind is the closed set of inbound webhook event kinds the service
// understands. Anything else decodes to EventKindUnknown and is surfaced to
// the caller instead of being dropped.
type EventKind string

const (
	EventKindTextMessage EventKind = "text_message"
	EventKindFollow      EventKind = "follow"
	EventKindUnfollow    EventKind = "unfollow"
	EventKindUnknown     EventKind = "unknown"
)

// Event is one decoded webhook event.
type Event struct {
	Kind       EventKind
	UserID     string
	Text       string
	ReplyToken string
	Timestamp  time.Time

	// RawType holds the original {type}/{message.type} pair for unknown events.
	RawType string
}

// ErrMalformedWebhook indicates the body is not a valid events envelope.
var ErrMalformedWebhook = errors.New("line: malformed webhook body")

type wireSource struct {
	UserID string `json:"userId"`
}

type wireMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type wireEvent struct {
	Type       string       `json:"type"`
	Message    *wireMessage `json:"message"`
	Source     wireSource   `json:"source"`
	ReplyToken string       `json:"replyToken"`
	Timestamp  int64        `json:"timestamp"`
}

type webhookBody struct {
	Events []wireEvent `json:"events"`
}

// DecodeEvents parses a webhook body into typed events, preserving received
// order. The envelope must contain an events array; individual events of an
// unrecognized kind decode as EventKindUnknown rather than failing the batch.
func DecodeEvents(body []byte) ([]Event, error) {
	var envelope webhookBody
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, ErrMalformedWebhook
	}
	if envelope.Events == nil {
		return nil, ErrMalformedWebhook
	}

	events := make([]Event, 0, len(envelope.Events))
	for _, raw := range envelope.Events {
		events = append(events, classify(raw))
	}
	return events, nil
}

func classify(raw wireEvent) Event {
	event := Event{
		UserID:     raw.Source.UserID,
		ReplyToken: raw.ReplyToken,
		Timestamp:  time.UnixMilli(raw.Timestamp),
	}

	switch raw.Type {
	case "message":
		if raw.Message != nil && raw.Message.Type == "text" {
			event.Kind = EventKindTextMessage
			event.Text = raw.Message.Text
			return event
		}
		event.Kind = EventKindUnknown
		event.RawType = "message/" + messageType(raw.Message)
	case "follow":
		event.Kind = EventKindFollow
	case "unfollow":
		event.Kind = EventKindUnfollow
	default:
		event.Kind = EventKindUnknown
		event.RawType = raw.Type
	}
	return event
}

func messageType(msg *wireMessage) string {
	if msg == nil {
		return "none"
	}
	return msg.Type
}
