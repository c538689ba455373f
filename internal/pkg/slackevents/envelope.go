package slackevents

import (
	"encoding/json"
	"errors"
)

const (
	TypeURLVerification = "url_verification"
	TypeEventCallback   = "event_callback"
)

// MessageKind is the closed set of message shapes we act on. The subtype
// string from the wire is classified exactly once, at the parse boundary.
type MessageKind int

const (
	KindPosted MessageKind = iota
	KindEdited
	KindDeleted
	KindOther
)

func (k MessageKind) String() string {
	switch k {
	case KindPosted:
		return "posted"
	case KindEdited:
		return "edited"
	case KindDeleted:
		return "deleted"
	default:
		return "other"
	}
}

// Envelope is the outer wrapper Slack delivers to the events endpoint.
type Envelope struct {
	Type      string       `json:"type"`
	Token     string       `json:"token"`
	Challenge string       `json:"challenge"`
	EventID   string       `json:"event_id"`
	TeamID    string       `json:"team_id"`
	Event     MessageEvent `json:"event"`
}

// MessageEvent is the inner message payload of an event_callback.
type MessageEvent struct {
	Type      string `json:"type"`
	Subtype   string `json:"subtype"`
	User      string `json:"user"`
	Channel   string `json:"channel"`
	TS        string `json:"ts"`
	ThreadTS  string `json:"thread_ts"`
	Text      string `json:"text"`
	DeletedTS string `json:"deleted_ts"`
}

var errEmptyBody = errors.New("slackevents: empty request body")

// ParseEnvelope decodes a raw webhook body. Unknown payload shapes are not
// an error here; the dispatcher treats them as no-ops.
func ParseEnvelope(body []byte) (*Envelope, error) {
	if len(body) == 0 {
		return nil, errEmptyBody
	}
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

// Kind classifies the message subtype into the closed variant set.
func (e MessageEvent) Kind() MessageKind {
	if e.Type != "message" {
		return KindOther
	}
	switch e.Subtype {
	case "":
		return KindPosted
	case "message_changed":
		return KindEdited
	case "message_deleted":
		return KindDeleted
	default:
		return KindOther
	}
}

// IsThreadReply reports whether the message lives inside a thread. A
// thread root carries its own ts as thread_ts, so only a differing
// thread_ts marks a reply.
func (e MessageEvent) IsThreadReply() bool {
	return e.ThreadTS != "" && e.ThreadTS != e.TS
}
