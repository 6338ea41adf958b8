package proto

import (
	"encoding/json"
	"time"
)

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	InboundTypeAuth        = "auth"
	InboundTypeJoin        = "channel:join"
	InboundTypeSend        = "message:send"
	InboundTypeTypingStart = "typing:start"
	InboundTypeTypingStop  = "typing:stop"
	InboundTypeAdminAction = "admin:action"

	OutboundTypeEvent = "event"
	OutboundTypeError = "error"

	EventAuthSuccess       = "auth:success"
	EventMessagesHistory   = "messages:history"
	EventMessageNew        = "message:new"
	EventUserTyping        = "user:typing"
	EventUserStoppedTyping = "user:stopped_typing"
	EventUsersUpdate       = "users:update"
	EventUserBanned        = "user:banned"
	EventUserUpdated       = "user:updated"
	EventChannelPurged     = "channel:purged"
	EventUserOffline       = "user:offline"
)

// AuthData carries credentials. Guests set is_guest; returning clients
// may present a resume token instead of a password.
type AuthData struct {
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	Token    string `json:"token,omitempty"`
	IsGuest  bool   `json:"isGuest,omitempty"`
}

// SendData is a chat message from the client.
type SendData struct {
	Channel string `json:"channel"`
	Content string `json:"content"`
}

// TypingData names the channel a typing signal applies to.
type TypingData struct {
	Channel string `json:"channel"`
}

// AdminData is a moderation request. Target is a username for
// ban/shadowban/modify_role and a channel name for purge.
type AdminData struct {
	Action string          `json:"action"`
	Target string          `json:"target"`
	Data   AdminActionData `json:"data,omitempty"`
}

// AdminActionData carries sub-action parameters.
type AdminActionData struct {
	Role string `json:"role,omitempty"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// Profile is the public projection of a user. Credential material is
// never part of it.
type Profile struct {
	Username    string    `json:"username"`
	DisplayName string    `json:"displayName"`
	Role        string    `json:"role"`
	Avatar      string    `json:"avatar"`
	Theme       string    `json:"theme,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
}

// AuthSuccessData delivers the bound profile plus a resume token.
type AuthSuccessData struct {
	Profile
	Token string `json:"token,omitempty"`
}

// MessagePayload is a single chat message on the wire.
type MessagePayload struct {
	ID          int64  `json:"id"`
	Content     string `json:"content"`
	Author      string `json:"author"`
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
	Timestamp   int64  `json:"timestamp"`
	Edited      bool   `json:"edited"`
}

// EventNewMessage wraps a freshly posted message.
type EventNewMessage struct {
	Channel string         `json:"channel"`
	Message MessagePayload `json:"message"`
}

// EventHistory delivers a channel's message log to one client.
type EventHistory struct {
	Channel  string           `json:"channel"`
	Messages []MessagePayload `json:"messages"`
}

// EventTyping identifies who is typing.
type EventTyping struct {
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
