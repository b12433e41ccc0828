// Package protocol defines the wire frames exchanged with chat clients.
// Frames form a closed set: adding a kind means adding a type here and
// handling it in the relay.
package protocol

import (
	"encoding/json"
	"time"
)

// Frame kinds as they appear in the "type" field.
const (
	KindJoin    = "join"
	KindChat    = "chat"
	KindHistory = "history"
	KindSystem  = "system"
	KindAction  = "action"
	KindUsers   = "users"
	KindError   = "error"
	KindClear   = "clear"
)

// ClientFrame is the decoded form of a client-to-server message.
// Only "join" and "chat" are meaningful; anything else is ignored.
type ClientFrame struct {
	Type     string `json:"type"`
	Username string `json:"username,omitempty"`
	Text     string `json:"text,omitempty"`
}

// DecodeClient parses a raw payload into a ClientFrame.
// Malformed payloads are dropped by the caller, never answered.
func DecodeClient(raw []byte) (ClientFrame, error) {
	var f ClientFrame
	err := json.Unmarshal(raw, &f)
	return f, err
}

// Event is a frame that the history buffer retains and replays:
// system notices, actions, and chat messages. The marker method keeps
// the set closed.
type Event interface {
	event()
}

type System struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Time    string `json:"time"`
}

type Action struct {
	Type     string `json:"type"`
	Username string `json:"username"`
	Message  string `json:"message"`
	Time     string `json:"time"`
}

type Chat struct {
	Type     string `json:"type"`
	Username string `json:"username"`
	Text     string `json:"text"`
	Time     string `json:"time"`
}

func (System) event() {}
func (Action) event() {}
func (Chat) event()   {}

// History carries the full buffer replayed to a joining participant.
type History struct {
	Type     string  `json:"type"`
	Messages []Event `json:"messages"`
}

type Users struct {
	Type string   `json:"type"`
	List []string `json:"list"`
}

type Error struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type Clear struct {
	Type string `json:"type"`
}

func NewSystem(message string, at time.Time) System {
	return System{Type: KindSystem, Message: message, Time: Clock(at)}
}

func NewAction(username, message string, at time.Time) Action {
	return Action{Type: KindAction, Username: username, Message: message, Time: Clock(at)}
}

func NewChat(username, text string, at time.Time) Chat {
	return Chat{Type: KindChat, Username: username, Text: text, Time: Clock(at)}
}

func NewHistory(events []Event) History {
	if events == nil {
		events = []Event{}
	}
	return History{Type: KindHistory, Messages: events}
}

func NewUsers(names []string) Users {
	if names == nil {
		names = []string{}
	}
	return Users{Type: KindUsers, List: names}
}

func NewError(message string) Error {
	return Error{Type: KindError, Message: message}
}

func NewClear() Clear {
	return Clear{Type: KindClear}
}

// Encode serializes a server frame once so broadcasts can reuse the
// identical bytes for every recipient.
func Encode(frame any) ([]byte, error) {
	return json.Marshal(frame)
}

// Clock renders a wall-clock timestamp the way clients display it.
func Clock(at time.Time) string {
	return at.Format("15:04:05")
}
