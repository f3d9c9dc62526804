// Package protocol defines the WebSocket message protocol between clients
// and the chat service.
package protocol

// Message types from client to server
const (
	TypeHello       = "hello"
	TypeChatMessage = "chat_message"
	TypeBroadcast   = "broadcast"
)

// Message types from server to client
const (
	TypeHelloAck   = "hello_ack"
	TypeMessage    = "message"
	TypeUserJoined = "user_joined"
	TypeUserLeft   = "user_left"
	TypeError      = "error"
)

// BaseMessage contains common fields for all messages.
type BaseMessage struct {
	Type string `json:"type"`
	Ts   int64  `json:"ts,omitempty"`
}

// HelloMessage is sent by the client to authenticate the connection. The
// token comes from the external auth service; the username is the display
// name it was issued for.
type HelloMessage struct {
	BaseMessage
	Token    string `json:"token"`
	Username string `json:"username"`
}

// HelloAckMessage is sent after a successful hello.
type HelloAckMessage struct {
	BaseMessage
	Username string `json:"username"`
}

// ChatMessage is an inbound conversational event.
type ChatMessage struct {
	BaseMessage
	Text        string `json:"text"`
	CurrentPage string `json:"current_page,omitempty"`
}

// BroadcastMessage is a plain message fanned out to every connected client.
// It never enters the conversation pipeline.
type BroadcastMessage struct {
	BaseMessage
	Sender string `json:"sender,omitempty"`
	Text   string `json:"text"`
}

// PushMessage carries a persisted chat message to the originating caller.
type PushMessage struct {
	BaseMessage
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

// PresenceMessage announces a user joining or leaving.
type PresenceMessage struct {
	BaseMessage
	Username string `json:"username"`
}

// ErrorMessage is sent when an inbound event is rejected.
type ErrorMessage struct {
	BaseMessage
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes
const (
	ErrorCodeInvalidMessage = "invalid_message"
	ErrorCodeUnauthorized   = "unauthorized"
	ErrorCodeHelloRequired  = "hello_required"
	ErrorCodeInternalError  = "internal_error"
)
