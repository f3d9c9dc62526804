package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/hrassist/chathub/domain"
)

// Pusher delivers a push event to the originating caller.
type Pusher func(sender, text string)

// HandleInbound runs the per-turn pipeline for one inbound chat event:
// resolve session, persist and echo the user message, compute the bot reply,
// persist it and push it back. An unknown display name is a silent no-op (the
// transport has no reply channel for this event). A persistence failure
// aborts the remaining steps; nothing is pushed for that turn.
func (s *Service) HandleInbound(ctx context.Context, userDisplayName, text, currentPage string, push Pusher) error {
	user, err := s.store.GetUserByName(ctx, userDisplayName)
	if err != nil {
		return fmt.Errorf("resolve user: %w", err)
	}
	if user == nil {
		return nil
	}

	now := s.now().UTC()

	mu := s.userLock(user.UserID)
	mu.Lock()
	unlocked := false
	unlock := func() {
		if !unlocked {
			unlocked = true
			mu.Unlock()
		}
	}
	defer unlock()

	session, firstMessage, err := s.resolveSession(ctx, user.UserID, now)
	if err != nil {
		return err
	}

	// A silent "open chat" ping (empty text opening a fresh session) is not
	// persisted or echoed; everything else is.
	persistUser := strings.TrimSpace(text) != "" || !firstMessage
	if persistUser {
		userMsg := &domain.Message{
			UserID:      user.UserID,
			SessionID:   session.SessionID,
			SenderName:  user.FullName,
			MessageText: text,
			MessageType: domain.MessageTypeUser,
			CreatedAt:   now,
			CurrentPage: currentPage,
		}
		if err := s.store.AppendMessage(ctx, userMsg); err != nil {
			return fmt.Errorf("persist user message: %w", err)
		}
		if push != nil {
			push(user.FullName, text)
		}
	}

	var replyText string
	if firstMessage {
		// Every new session opens on the menu regardless of the first input.
		replyText = welcomeMessage(user.FullName)
	} else {
		menu, err := s.menuForUser(ctx, user)
		if err != nil {
			return err
		}
		replyText = generateReply(menu, text)
	}

	botMsg := &domain.Message{
		UserID:      user.UserID,
		SessionID:   session.SessionID,
		SenderName:  domain.BotSenderName,
		MessageText: replyText,
		MessageType: domain.MessageTypeBot,
		CreatedAt:   now,
		CurrentPage: currentPage,
	}
	if err := s.store.AppendMessage(ctx, botMsg); err != nil {
		return fmt.Errorf("persist bot message: %w", err)
	}

	unlock()

	// Simulates typing on the client; zero is fine.
	if s.config.ReplyDelay > 0 {
		s.sleep(s.config.ReplyDelay)
	}
	if push != nil {
		push(domain.BotSenderName, replyText)
	}
	return nil
}
