package v1

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hrassist/chathub/domain"
	"github.com/hrassist/chathub/internal/service"
)

// messageView is the wire shape of a message in history responses.
type messageView struct {
	Sender      string    `json:"sender"`
	Message     string    `json:"message"`
	Timestamp   time.Time `json:"timestamp"`
	MessageType string    `json:"messageType"`
	CurrentPage string    `json:"currentPage,omitempty"`
}

func toMessageViews(messages []domain.Message) []messageView {
	out := make([]messageView, 0, len(messages))
	for _, m := range messages {
		out = append(out, messageView{
			Sender:      m.SenderName,
			Message:     m.MessageText,
			Timestamp:   m.CreatedAt,
			MessageType: string(m.MessageType),
			CurrentPage: m.CurrentPage,
		})
	}
	return out
}

// GetLatestHistory returns the messages of the user's most recent session.
// GET /v1/chat/history/:username
func (h *Handler) GetLatestHistory(c echo.Context) error {
	username := c.Param("username")

	messages, err := h.service.LatestSessionMessages(c.Request().Context(), username)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, toMessageViews(messages))
}

// sessionView is the wire shape of a session summary.
type sessionView struct {
	SessionID     int64      `json:"sessionId"`
	SessionStart  time.Time  `json:"sessionStart"`
	SessionEnd    *time.Time `json:"sessionEnd,omitempty"`
	MessageCount  int        `json:"messageCount"`
	LastMessageAt *time.Time `json:"lastMessageAt,omitempty"`
}

// GetSessions lists all of the user's sessions with message counts and
// last-activity times, newest first.
// GET /v1/chat/sessions/:username
func (h *Handler) GetSessions(c echo.Context) error {
	username := c.Param("username")

	sessions, err := h.service.SessionsForUser(c.Request().Context(), username)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	views := make([]sessionView, 0, len(sessions))
	for _, s := range sessions {
		views = append(views, sessionView{
			SessionID:     s.SessionID,
			SessionStart:  s.SessionStart,
			SessionEnd:    s.SessionEnd,
			MessageCount:  s.MessageCount,
			LastMessageAt: s.LastMessageAt,
		})
	}
	return c.JSON(http.StatusOK, views)
}

// GetSessionMessages returns a specific session with all its messages.
// GET /v1/chat/session-messages/:session_id
func (h *Handler) GetSessionMessages(c echo.Context) error {
	sessionID, err := strconv.ParseInt(c.Param("session_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid session id"})
	}

	session, messages, err := h.service.SessionMessages(c.Request().Context(), sessionID)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "session not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"sessionId":    session.SessionID,
		"sessionStart": session.SessionStart,
		"sessionEnd":   session.SessionEnd,
		"messages":     toMessageViews(messages),
	})
}
