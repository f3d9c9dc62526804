// Package store provides persistence for users, sessions, messages and the
// menu configuration.
package store

import (
	"context"
	"time"

	"github.com/hrassist/chathub/domain"
)

// Store is the persistence contract the chat core depends on. Reads return
// nil (not an error) when no row matches. All writes are single atomic
// statements; no operation partially applies.
type Store interface {
	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByName(ctx context.Context, fullName string) (*domain.User, error)

	// Sessions
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, sessionID int64) (*domain.Session, error)
	LatestSession(ctx context.Context, userID int64) (*domain.Session, error)
	CloseSession(ctx context.Context, sessionID int64, endTime time.Time) error
	SessionsForUser(ctx context.Context, userID int64) ([]domain.SessionSummary, error)

	// Messages
	AppendMessage(ctx context.Context, message *domain.Message) error
	LastMessage(ctx context.Context, sessionID int64) (*domain.Message, error)
	CountMessages(ctx context.Context, sessionID int64) (int, error)
	MessagesForSession(ctx context.Context, sessionID int64) ([]domain.Message, error)

	// Menu configuration (read-only for the dialogue engine; writes exist
	// for seeding and administration)
	MenuTree(ctx context.Context) (*domain.MenuTree, error)
	CreateMainOption(ctx context.Context, option *domain.MainOption) error
	CreateSubOption(ctx context.Context, option *domain.SubOption) error
	CreateAnswer(ctx context.Context, answer *domain.SubOptionAnswer) error

	Close() error
}
