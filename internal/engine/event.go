// ABOUTME: Inbound event and outbound action types for the policy engine
// ABOUTME: Events arrive pre-parsed from the transport; actions go to the dispatcher

package engine

import "fmt"

// Event kinds delivered by the transport
const (
	KindJoin    = "join"    // a user joined the chat
	KindMessage = "message" // a user posted a message
)

// Event is one parsed inbound chat event. The transport resolves admin
// status per event before handing it over; admin rights can change
// between messages, so the engine never caches them.
type Event struct {
	ID        string // trace ID assigned by the transport
	Kind      string // "join" or "message"
	ChatID    int64
	MessageID int64 // platform message ID, used when a delete is dispatched
	UserID    int64
	UserName  string // display name, may be empty
	IsAdmin   bool
	Text      string // message text or caption

	HasForward  bool
	HasPhoto    bool
	HasVideo    bool
	HasDocument bool

	Now int64 // event time in epoch seconds
}

// userLabel renders the event's author for log action text.
func (e *Event) userLabel() string {
	if e.UserName != "" {
		return e.UserName
	}
	return fmt.Sprintf("user %d", e.UserID)
}

// hasMedia reports whether the message carries an attachment the newbie
// rule cares about.
func (e *Event) hasMedia() bool {
	return e.HasPhoto || e.HasVideo || e.HasDocument
}

// ActionKind identifies one of the four decision outcomes
type ActionKind string

const (
	ActionAllow    ActionKind = "allow"
	ActionDelete   ActionKind = "delete"
	ActionRestrict ActionKind = "restrict"
	ActionLog      ActionKind = "log"
)

// Action is a single step of a decision. The dispatcher executes actions
// in emitted order and does not halt on partial failure.
type Action struct {
	Kind    ActionKind
	Minutes int    // restrict duration, set for ActionRestrict
	Text    string // log line, set for ActionLog
}

// Allow builds an allow action
func Allow() Action { return Action{Kind: ActionAllow} }

// Delete builds a delete action
func Delete() Action { return Action{Kind: ActionDelete} }

// Restrict builds a restrict action with the given mute duration
func Restrict(minutes int) Action { return Action{Kind: ActionRestrict, Minutes: minutes} }

// Log builds a log action with the given text
func Log(text string) Action { return Action{Kind: ActionLog, Text: text} }
