package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/hrassist/chathub/domain"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrSessionNotFound = errors.New("session not found")
)

// LatestSessionMessages returns the messages of the user's most recent
// session, oldest first. A user with no sessions gets an empty list.
func (s *Service) LatestSessionMessages(ctx context.Context, userDisplayName string) ([]domain.Message, error) {
	user, err := s.store.GetUserByName(ctx, userDisplayName)
	if err != nil {
		return nil, fmt.Errorf("resolve user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	session, err := s.store.LatestSession(ctx, user.UserID)
	if err != nil {
		return nil, fmt.Errorf("latest session: %w", err)
	}
	if session == nil {
		return nil, nil
	}

	messages, err := s.store.MessagesForSession(ctx, session.SessionID)
	if err != nil {
		return nil, fmt.Errorf("session messages: %w", err)
	}
	return messages, nil
}

// SessionsForUser lists all of the user's sessions newest first, with
// message counts and last-activity times.
func (s *Service) SessionsForUser(ctx context.Context, userDisplayName string) ([]domain.SessionSummary, error) {
	user, err := s.store.GetUserByName(ctx, userDisplayName)
	if err != nil {
		return nil, fmt.Errorf("resolve user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	sessions, err := s.store.SessionsForUser(ctx, user.UserID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// SessionMessages returns a specific session with all its messages in
// creation order.
func (s *Service) SessionMessages(ctx context.Context, sessionID int64) (*domain.Session, []domain.Message, error) {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, nil, fmt.Errorf("get session: %w", err)
	}
	if session == nil {
		return nil, nil, ErrSessionNotFound
	}

	messages, err := s.store.MessagesForSession(ctx, sessionID)
	if err != nil {
		return nil, nil, fmt.Errorf("session messages: %w", err)
	}
	return session, messages, nil
}
