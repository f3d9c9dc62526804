package v1

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hrassist/chathub/config"
	"github.com/hrassist/chathub/domain"
	"github.com/hrassist/chathub/internal/auth"
	store "github.com/hrassist/chathub/internal/repository"
	"github.com/hrassist/chathub/internal/service"
	"github.com/hrassist/chathub/policy"
)

const testAPIKey = "test-key"

// newTestServer wires a handler onto a real service over an in-memory store.
func newTestServer(t *testing.T) (*echo.Echo, *store.SQLiteStore) {
	t.Helper()

	st, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	engine, err := policy.NewEngine(context.Background(), policy.DefaultPolicy)
	if err != nil {
		t.Fatalf("failed to create policy engine: %v", err)
	}

	svc := service.New(st, engine, &config.Config{ReplyDelay: 0})
	h := NewHandler(svc, auth.NewSharedKeyVerifier(testAPIKey))

	e := echo.New()
	h.RegisterRoutes(e)
	return e, st
}

func doRequest(e *echo.Echo, method, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// seedHistory creates a user with one closed and one open session plus a few
// messages, returning the user and the open session.
func seedHistory(t *testing.T, st *store.SQLiteStore) (*domain.User, *domain.Session) {
	t.Helper()
	ctx := context.Background()

	u := &domain.User{FullName: "jordan", Role: "Employee", IsActive: true}
	if err := st.CreateUser(ctx, u); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	old := &domain.Session{UserID: u.UserID, SessionStart: start}
	if err := st.CreateSession(ctx, old); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if err := st.CloseSession(ctx, old.SessionID, start.Add(time.Hour)); err != nil {
		t.Fatalf("CloseSession failed: %v", err)
	}

	open := &domain.Session{UserID: u.UserID, SessionStart: start.Add(24 * time.Hour)}
	if err := st.CreateSession(ctx, open); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	for i, m := range []struct {
		sender, text string
		mtype        domain.MessageType
	}{
		{u.FullName, "hello", domain.MessageTypeUser},
		{domain.BotSenderName, "welcome", domain.MessageTypeBot},
	} {
		msg := &domain.Message{
			UserID:      u.UserID,
			SessionID:   open.SessionID,
			SenderName:  m.sender,
			MessageText: m.text,
			MessageType: m.mtype,
			CreatedAt:   open.SessionStart.Add(time.Duration(i) * time.Second),
			CurrentPage: "dashboard",
		}
		if err := st.AppendMessage(ctx, msg); err != nil {
			t.Fatalf("AppendMessage failed: %v", err)
		}
	}
	return u, open
}

func get(e *echo.Echo, target string) *httptest.ResponseRecorder {
	return doRequest(e, http.MethodGet, target, testAPIKey)
}

func createTestOnlyUser(t *testing.T, st *store.SQLiteStore) {
	t.Helper()
	u := &domain.User{FullName: "fresh", Role: "Employee", IsActive: true}
	if err := st.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
}
