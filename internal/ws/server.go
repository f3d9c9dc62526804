// Package ws provides the WebSocket server for chat clients.
package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/hrassist/chathub/config"
	"github.com/hrassist/chathub/internal/auth"
	"github.com/hrassist/chathub/internal/hub"
	"github.com/hrassist/chathub/internal/protocol"
	"github.com/hrassist/chathub/internal/service"
)

// Server handles WebSocket connections.
type Server struct {
	cfg      *config.Config
	hub      *hub.Hub
	service  *service.Service
	verifier auth.Verifier
	upgrader websocket.Upgrader
}

// NewServer creates a new WebSocket server.
func NewServer(cfg *config.Config, h *hub.Hub, svc *service.Service, verifier auth.Verifier) *Server {
	return &Server{
		cfg:      cfg,
		hub:      h,
		service:  svc,
		verifier: verifier,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// HandleWebSocket handles WebSocket upgrade and connection lifecycle.
func (s *Server) HandleWebSocket(c echo.Context) error {
	ws, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Printf("Failed to upgrade WebSocket: %v", err)
		return err
	}

	conn := s.hub.NewConnection(ws)
	s.hub.Register(conn)

	ws.SetReadLimit(s.cfg.MaxMessageSize)

	go s.writePump(conn)
	go s.readPump(conn)

	return nil
}

// readPump reads messages from the WebSocket connection. Events are handled
// inline, one at a time: a connection's events are never reordered or
// processed in parallel.
func (s *Server) readPump(conn *hub.Connection) {
	defer func() {
		username := conn.Username
		s.hub.Unregister(conn)
		conn.Close()
		if username != "" {
			s.hub.BroadcastAllJSON(protocol.PresenceMessage{
				BaseMessage: protocol.BaseMessage{Type: protocol.TypeUserLeft, Ts: time.Now().UnixMilli()},
				Username:    username,
			})
		}
	}()

	conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
	conn.Conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
		return nil
	})

	for {
		_, message, err := conn.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		s.handleMessage(conn, message)
	}
}

// writePump writes messages to the WebSocket connection.
func (s *Server) writePump(conn *hub.Connection) {
	ticker := time.NewTicker(s.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
			if !ok {
				// Hub closed the channel
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("Failed to write message: %v", err)
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage dispatches incoming messages to appropriate handlers.
func (s *Server) handleMessage(conn *hub.Connection, data []byte) {
	var baseMsg protocol.BaseMessage
	if err := json.Unmarshal(data, &baseMsg); err != nil {
		s.sendError(conn, protocol.ErrorCodeInvalidMessage, "invalid JSON message")
		return
	}

	switch baseMsg.Type {
	case protocol.TypeHello:
		s.handleHello(conn, data)
	case protocol.TypeChatMessage:
		s.handleChatMessage(conn, data)
	case protocol.TypeBroadcast:
		s.handleBroadcast(conn, data)
	default:
		s.sendError(conn, protocol.ErrorCodeInvalidMessage, "unknown message type: "+baseMsg.Type)
	}
}

// handleHello authenticates the connection. Anything else sent before a
// successful hello closes the connection; no anonymous event reaches the
// conversation pipeline.
func (s *Server) handleHello(conn *hub.Connection, data []byte) {
	var msg protocol.HelloMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		s.sendError(conn, protocol.ErrorCodeInvalidMessage, "invalid hello message")
		return
	}

	if err := s.verifier.Verify(msg.Token); err != nil {
		s.sendError(conn, protocol.ErrorCodeUnauthorized, "invalid token")
		conn.Close()
		return
	}
	if msg.Username == "" {
		s.sendError(conn, protocol.ErrorCodeInvalidMessage, "username is required")
		return
	}

	s.hub.BindUser(conn, msg.Username)

	ack := protocol.HelloAckMessage{
		BaseMessage: protocol.BaseMessage{Type: protocol.TypeHelloAck, Ts: time.Now().UnixMilli()},
		Username:    msg.Username,
	}
	s.hub.SendJSONToConnection(conn, ack)

	s.hub.BroadcastAllJSON(protocol.PresenceMessage{
		BaseMessage: protocol.BaseMessage{Type: protocol.TypeUserJoined, Ts: time.Now().UnixMilli()},
		Username:    msg.Username,
	})

	log.Printf("Hello handshake completed for user: %s", msg.Username)
}

// handleChatMessage feeds one conversational turn through the orchestrator.
func (s *Server) handleChatMessage(conn *hub.Connection, data []byte) {
	var msg protocol.ChatMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		s.sendError(conn, protocol.ErrorCodeInvalidMessage, "invalid chat_message")
		return
	}

	if conn.Username == "" {
		s.sendError(conn, protocol.ErrorCodeHelloRequired, "must send hello first")
		conn.Close()
		return
	}

	push := func(sender, text string) {
		s.hub.SendJSONToConnection(conn, protocol.PushMessage{
			BaseMessage: protocol.BaseMessage{Type: protocol.TypeMessage, Ts: time.Now().UnixMilli()},
			Sender:      sender,
			Text:        text,
		})
	}

	if err := s.service.HandleInbound(context.Background(), conn.Username, msg.Text, msg.CurrentPage, push); err != nil {
		log.Printf("Conversation turn failed for %s: %v", conn.Username, err)
	}
}

// handleBroadcast fans a plain message out to everyone. This channel is
// unrelated to session logic and nothing here is persisted.
func (s *Server) handleBroadcast(conn *hub.Connection, data []byte) {
	var msg protocol.BroadcastMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		s.sendError(conn, protocol.ErrorCodeInvalidMessage, "invalid broadcast message")
		return
	}

	if conn.Username == "" {
		s.sendError(conn, protocol.ErrorCodeHelloRequired, "must send hello first")
		conn.Close()
		return
	}

	s.hub.BroadcastAllJSON(protocol.BroadcastMessage{
		BaseMessage: protocol.BaseMessage{Type: protocol.TypeBroadcast, Ts: time.Now().UnixMilli()},
		Sender:      conn.Username,
		Text:        msg.Text,
	})
}

// sendError sends an error message to a connection.
func (s *Server) sendError(conn *hub.Connection, code, message string) {
	s.hub.SendJSONToConnection(conn, protocol.ErrorMessage{
		BaseMessage: protocol.BaseMessage{Type: protocol.TypeError, Ts: time.Now().UnixMilli()},
		Code:        code,
		Message:     message,
	})
}
