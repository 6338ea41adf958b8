package core

// EventKind is a notification the core emits to sessions.
type EventKind int

const (
	// EventAuthSuccess delivers the bound profile to the session that
	// just authenticated.
	EventAuthSuccess EventKind = iota
	// EventHistory delivers a channel's full message log to one session.
	EventHistory
	// EventNewMessage notifies channel members about a chat message.
	EventNewMessage
	// EventUserTyping notifies channel members that a user is typing.
	EventUserTyping
	// EventUserStoppedTyping notifies channel members that a user
	// stopped typing.
	EventUserStoppedTyping
	// EventUsersUpdate delivers the full public user list to every
	// session after a directory change.
	EventUsersUpdate
	// EventUserBanned announces a ban to every session.
	EventUserBanned
	// EventUserUpdated announces a profile change to every session.
	EventUserUpdated
	// EventChannelPurged notifies members that a channel log was cleared.
	EventChannelPurged
	// EventUserOffline announces a disconnect to every session.
	EventUserOffline
	// EventError notifies the session about a domain error.
	EventError
)

// Event is sent to sessions to describe what happened in the system.
type Event struct {
	Kind        EventKind
	Channel     string
	Username    string
	DisplayName string
	Token       string // set on EventAuthSuccess
	User        *User
	Users       []User
	Message     Message
	Messages    []Message
	Error       *CoreError
}
