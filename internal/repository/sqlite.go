package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hrassist/chathub/domain"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection to avoid schema/data disappearing across goroutines.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return s, nil
}

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			user_id INTEGER PRIMARY KEY AUTOINCREMENT,
			full_name TEXT NOT NULL UNIQUE,
			email TEXT,
			role TEXT NOT NULL DEFAULT 'Employee',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			is_active INTEGER NOT NULL DEFAULT 1
		)`,
		`CREATE TABLE IF NOT EXISTS chat_sessions (
			chat_session_id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			session_start DATETIME NOT NULL,
			session_end DATETIME,
			FOREIGN KEY (user_id) REFERENCES users(user_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_user ON chat_sessions(user_id, session_start)`,
		`CREATE TABLE IF NOT EXISTS chat_messages (
			chat_message_id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			chat_session_id INTEGER NOT NULL,
			sender_name TEXT NOT NULL,
			message_text TEXT NOT NULL,
			message_type TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			current_page TEXT,
			FOREIGN KEY (user_id) REFERENCES users(user_id),
			FOREIGN KEY (chat_session_id) REFERENCES chat_sessions(chat_session_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_session ON chat_messages(chat_session_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS bot_main_options (
			bot_main_option_id INTEGER PRIMARY KEY AUTOINCREMENT,
			label TEXT NOT NULL,
			value TEXT NOT NULL,
			display_order INTEGER NOT NULL DEFAULT 0,
			is_active INTEGER NOT NULL DEFAULT 1,
			access_group_id INTEGER NOT NULL DEFAULT 1
		)`,
		`CREATE TABLE IF NOT EXISTS bot_sub_options (
			bot_sub_option_id INTEGER PRIMARY KEY AUTOINCREMENT,
			bot_main_option_id INTEGER NOT NULL,
			label TEXT NOT NULL,
			value TEXT NOT NULL,
			type TEXT,
			display_order INTEGER NOT NULL DEFAULT 0,
			is_active INTEGER NOT NULL DEFAULT 1,
			access_group_id INTEGER NOT NULL DEFAULT 1,
			FOREIGN KEY (bot_main_option_id) REFERENCES bot_main_options(bot_main_option_id)
		)`,
		`CREATE TABLE IF NOT EXISTS bot_sub_option_answers (
			bot_sub_option_answer_id INTEGER PRIMARY KEY AUTOINCREMENT,
			bot_sub_option_id INTEGER NOT NULL,
			answer_text TEXT NOT NULL,
			is_active INTEGER NOT NULL DEFAULT 1,
			FOREIGN KEY (bot_sub_option_id) REFERENCES bot_sub_options(bot_sub_option_id)
		)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateUser creates a new user.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *domain.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (full_name, email, role, created_at, is_active) VALUES (?, ?, ?, ?, ?)`,
		user.FullName, user.Email, user.Role, user.CreatedAt, user.IsActive)
	if err != nil {
		return err
	}
	user.UserID, err = res.LastInsertId()
	return err
}

// GetUserByName retrieves an active user by display name.
func (s *SQLiteStore) GetUserByName(ctx context.Context, fullName string) (*domain.User, error) {
	var u domain.User
	var email sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, full_name, email, role, created_at, is_active FROM users WHERE full_name = ? AND is_active = 1`,
		fullName).Scan(&u.UserID, &u.FullName, &email, &u.Role, &u.CreatedAt, &u.IsActive)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if email.Valid {
		u.Email = email.String
	}
	return &u, nil
}

// CreateSession creates a new session.
func (s *SQLiteStore) CreateSession(ctx context.Context, session *domain.Session) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO chat_sessions (user_id, session_start, session_end) VALUES (?, ?, ?)`,
		session.UserID, session.SessionStart, session.SessionEnd)
	if err != nil {
		return err
	}
	session.SessionID, err = res.LastInsertId()
	return err
}

// GetSession retrieves a session by ID.
func (s *SQLiteStore) GetSession(ctx context.Context, sessionID int64) (*domain.Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT chat_session_id, user_id, session_start, session_end FROM chat_sessions WHERE chat_session_id = ?`,
		sessionID)
	return scanSession(row)
}

// LatestSession retrieves the user's most recent session by start time.
func (s *SQLiteStore) LatestSession(ctx context.Context, userID int64) (*domain.Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT chat_session_id, user_id, session_start, session_end FROM chat_sessions
		 WHERE user_id = ?
		 ORDER BY session_start DESC, chat_session_id DESC
		 LIMIT 1`,
		userID)
	return scanSession(row)
}

// CloseSession stamps the session's end time.
func (s *SQLiteStore) CloseSession(ctx context.Context, sessionID int64, endTime time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE chat_sessions SET session_end = ? WHERE chat_session_id = ?`,
		endTime, sessionID)
	return err
}

// SessionsForUser lists the user's sessions newest first, with message count
// and last-message time per session.
func (s *SQLiteStore) SessionsForUser(ctx context.Context, userID int64) ([]domain.SessionSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT s.chat_session_id, s.user_id, s.session_start, s.session_end,
		        COUNT(m.chat_message_id), MAX(m.created_at)
		 FROM chat_sessions s
		 LEFT JOIN chat_messages m ON m.chat_session_id = s.chat_session_id
		 WHERE s.user_id = ?
		 GROUP BY s.chat_session_id
		 ORDER BY s.session_start DESC, s.chat_session_id DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.SessionSummary
	for rows.Next() {
		var sum domain.SessionSummary
		var end, last sql.NullTime
		if err := rows.Scan(&sum.SessionID, &sum.UserID, &sum.SessionStart, &end, &sum.MessageCount, &last); err != nil {
			return nil, err
		}
		if end.Valid {
			sum.SessionEnd = &end.Time
		}
		if last.Valid {
			sum.LastMessageAt = &last.Time
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

// AppendMessage appends a message to a session.
func (s *SQLiteStore) AppendMessage(ctx context.Context, message *domain.Message) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO chat_messages (user_id, chat_session_id, sender_name, message_text, message_type, created_at, current_page)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		message.UserID, message.SessionID, message.SenderName, message.MessageText, message.MessageType, message.CreatedAt, message.CurrentPage)
	if err != nil {
		return err
	}
	message.MessageID, err = res.LastInsertId()
	return err
}

// LastMessage retrieves the most recent message in a session.
func (s *SQLiteStore) LastMessage(ctx context.Context, sessionID int64) (*domain.Message, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT chat_message_id, user_id, chat_session_id, sender_name, message_text, message_type, created_at, current_page
		 FROM chat_messages
		 WHERE chat_session_id = ?
		 ORDER BY created_at DESC, chat_message_id DESC
		 LIMIT 1`,
		sessionID)
	return scanMessage(row)
}

// CountMessages counts the messages in a session.
func (s *SQLiteStore) CountMessages(ctx context.Context, sessionID int64) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM chat_messages WHERE chat_session_id = ?`,
		sessionID).Scan(&count)
	return count, err
}

// MessagesForSession retrieves all messages of a session in creation order,
// ties broken by identifier so replay is reproducible.
func (s *SQLiteStore) MessagesForSession(ctx context.Context, sessionID int64) ([]domain.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT chat_message_id, user_id, chat_session_id, sender_name, message_text, message_type, created_at, current_page
		 FROM chat_messages
		 WHERE chat_session_id = ?
		 ORDER BY created_at ASC, chat_message_id ASC`,
		sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var m domain.Message
		var page sql.NullString
		if err := rows.Scan(&m.MessageID, &m.UserID, &m.SessionID, &m.SenderName, &m.MessageText, &m.MessageType, &m.CreatedAt, &page); err != nil {
			return nil, err
		}
		if page.Valid {
			m.CurrentPage = page.String
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// MenuTree loads the active menu configuration ordered by display order.
func (s *SQLiteStore) MenuTree(ctx context.Context) (*domain.MenuTree, error) {
	tree := &domain.MenuTree{}

	rows, err := s.db.QueryContext(ctx,
		`SELECT bot_main_option_id, label, value, display_order, is_active, access_group_id
		 FROM bot_main_options WHERE is_active = 1 ORDER BY display_order ASC, bot_main_option_id ASC`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var o domain.MainOption
		if err := rows.Scan(&o.MainOptionID, &o.Label, &o.Value, &o.DisplayOrder, &o.IsActive, &o.AccessGroupID); err != nil {
			rows.Close()
			return nil, err
		}
		tree.Mains = append(tree.Mains, o)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	rows, err = s.db.QueryContext(ctx,
		`SELECT bot_sub_option_id, bot_main_option_id, label, value, type, display_order, is_active, access_group_id
		 FROM bot_sub_options WHERE is_active = 1 ORDER BY display_order ASC, bot_sub_option_id ASC`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var o domain.SubOption
		var typ sql.NullString
		if err := rows.Scan(&o.SubOptionID, &o.MainOptionID, &o.Label, &o.Value, &typ, &o.DisplayOrder, &o.IsActive, &o.AccessGroupID); err != nil {
			rows.Close()
			return nil, err
		}
		if typ.Valid {
			o.Type = typ.String
		}
		tree.Subs = append(tree.Subs, o)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	rows, err = s.db.QueryContext(ctx,
		`SELECT bot_sub_option_answer_id, bot_sub_option_id, answer_text, is_active
		 FROM bot_sub_option_answers WHERE is_active = 1 ORDER BY bot_sub_option_answer_id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var a domain.SubOptionAnswer
		if err := rows.Scan(&a.AnswerID, &a.SubOptionID, &a.AnswerText, &a.IsActive); err != nil {
			return nil, err
		}
		tree.Answers = append(tree.Answers, a)
	}
	return tree, rows.Err()
}

// CreateMainOption creates a main menu option.
func (s *SQLiteStore) CreateMainOption(ctx context.Context, option *domain.MainOption) error {
	if option.AccessGroupID == 0 {
		option.AccessGroupID = 1
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO bot_main_options (label, value, display_order, is_active, access_group_id) VALUES (?, ?, ?, ?, ?)`,
		option.Label, option.Value, option.DisplayOrder, option.IsActive, option.AccessGroupID)
	if err != nil {
		return err
	}
	option.MainOptionID, err = res.LastInsertId()
	return err
}

// CreateSubOption creates a sub-option under a main option.
func (s *SQLiteStore) CreateSubOption(ctx context.Context, option *domain.SubOption) error {
	if option.AccessGroupID == 0 {
		option.AccessGroupID = 1
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO bot_sub_options (bot_main_option_id, label, value, type, display_order, is_active, access_group_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		option.MainOptionID, option.Label, option.Value, nullString(option.Type), option.DisplayOrder, option.IsActive, option.AccessGroupID)
	if err != nil {
		return err
	}
	option.SubOptionID, err = res.LastInsertId()
	return err
}

// CreateAnswer creates the answer record for a sub-option.
func (s *SQLiteStore) CreateAnswer(ctx context.Context, answer *domain.SubOptionAnswer) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO bot_sub_option_answers (bot_sub_option_id, answer_text, is_active) VALUES (?, ?, ?)`,
		answer.SubOptionID, answer.AnswerText, answer.IsActive)
	if err != nil {
		return err
	}
	answer.AnswerID, err = res.LastInsertId()
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(row rowScanner) (*domain.Session, error) {
	var sess domain.Session
	var end sql.NullTime
	err := row.Scan(&sess.SessionID, &sess.UserID, &sess.SessionStart, &end)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if end.Valid {
		sess.SessionEnd = &end.Time
	}
	return &sess, nil
}

func scanMessage(row rowScanner) (*domain.Message, error) {
	var m domain.Message
	var page sql.NullString
	err := row.Scan(&m.MessageID, &m.UserID, &m.SessionID, &m.SenderName, &m.MessageText, &m.MessageType, &m.CreatedAt, &page)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if page.Valid {
		m.CurrentPage = page.String
	}
	return &m, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
