// Package domain defines the core domain models for the chat service.
package domain

import "time"

// MessageType distinguishes user messages from bot replies.
type MessageType string

const (
	MessageTypeUser MessageType = "user"
	MessageTypeBot  MessageType = "bot"
)

// BotSenderName is the fixed sender label on bot replies.
const BotSenderName = "Bot"

// User is an identity consumed by the chat core. Accounts are created and
// authenticated elsewhere; the core only resolves display names to IDs.
type User struct {
	UserID    int64     `json:"user_id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email,omitempty"`
	Role      string    `json:"role,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	IsActive  bool      `json:"is_active"`
}

// Session is a bounded run of messages between one user and the bot.
// At most one session per user is open (SessionEnd unset) at any time.
type Session struct {
	SessionID    int64      `json:"session_id"`
	UserID       int64      `json:"user_id"`
	SessionStart time.Time  `json:"session_start"`
	SessionEnd   *time.Time `json:"session_end,omitempty"`
}

// SessionSummary is a session with aggregated message stats for the
// history API's session list.
type SessionSummary struct {
	Session
	MessageCount  int        `json:"message_count"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
}

// Message is a single persisted chat message. Messages are never mutated
// after append.
type Message struct {
	MessageID   int64       `json:"message_id"`
	UserID      int64       `json:"user_id"`
	SessionID   int64       `json:"session_id"`
	SenderName  string      `json:"sender"`
	MessageText string      `json:"message"`
	MessageType MessageType `json:"message_type"`
	CreatedAt   time.Time   `json:"created_at"`
	CurrentPage string      `json:"current_page,omitempty"`
}
