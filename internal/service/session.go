package service

import (
	"context"
	"fmt"
	"time"

	"github.com/hrassist/chathub/domain"
)

// resolveSession determines the session an inbound message belongs to,
// creating a new one when needed. The boundary rule is calendar-date change
// in local time: a session started on an earlier date is closed (end time =
// its last message's timestamp) and replaced. A session with no messages yet
// is always reused. Returns the session and whether the incoming message is
// the first of that session.
//
// Callers must hold the per-user lock; the read-then-write sequence below is
// not atomic on its own.
func (s *Service) resolveSession(ctx context.Context, userID int64, now time.Time) (*domain.Session, bool, error) {
	session, err := s.store.LatestSession(ctx, userID)
	if err != nil {
		return nil, false, fmt.Errorf("latest session: %w", err)
	}

	startNew := false
	if session == nil {
		startNew = true
	} else {
		last, err := s.store.LastMessage(ctx, session.SessionID)
		if err != nil {
			return nil, false, fmt.Errorf("last message: %w", err)
		}
		switch {
		case last == nil:
			// Session opened but never used; reuse it.
		case !sameLocalDate(session.SessionStart, now):
			if err := s.store.CloseSession(ctx, session.SessionID, last.CreatedAt); err != nil {
				return nil, false, fmt.Errorf("close session: %w", err)
			}
			startNew = true
		case s.config.SessionIdleTimeout > 0 && now.Sub(last.CreatedAt) > s.config.SessionIdleTimeout:
			// Opt-in idle boundary; disabled by default.
			if err := s.store.CloseSession(ctx, session.SessionID, last.CreatedAt); err != nil {
				return nil, false, fmt.Errorf("close session: %w", err)
			}
			startNew = true
		}
	}

	if startNew {
		session = &domain.Session{
			UserID:       userID,
			SessionStart: now,
		}
		if err := s.store.CreateSession(ctx, session); err != nil {
			return nil, false, fmt.Errorf("create session: %w", err)
		}
	}

	count, err := s.store.CountMessages(ctx, session.SessionID)
	if err != nil {
		return nil, false, fmt.Errorf("count messages: %w", err)
	}
	return session, count == 0, nil
}

func sameLocalDate(a, b time.Time) bool {
	ay, am, ad := a.Local().Date()
	by, bm, bd := b.Local().Date()
	return ay == by && am == bm && ad == bd
}
