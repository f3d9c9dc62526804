package service

import (
	"context"
	"testing"
	"time"

	"github.com/hrassist/chathub/config"
	"github.com/hrassist/chathub/domain"
	store "github.com/hrassist/chathub/internal/repository"
	"github.com/hrassist/chathub/policy"
)

func newTestService(t *testing.T) (*Service, *store.SQLiteStore) {
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

	cfg := &config.Config{ReplyDelay: 0}
	svc := New(st, engine, cfg)
	svc.sleep = func(time.Duration) {}
	return svc, st
}

func createUser(t *testing.T, st *store.SQLiteStore, name, role string) *domain.User {
	t.Helper()
	u := &domain.User{FullName: name, Role: role, IsActive: true}
	if err := st.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return u
}

// seedMenu inserts a small tree: one public main option with two answered
// sub-options, and one HR-only main option.
func seedMenu(t *testing.T, st *store.SQLiteStore) {
	t.Helper()
	ctx := context.Background()

	leave := &domain.MainOption{Label: "Leave Policy", Value: "leave", DisplayOrder: 1, IsActive: true, AccessGroupID: 1}
	if err := st.CreateMainOption(ctx, leave); err != nil {
		t.Fatalf("CreateMainOption failed: %v", err)
	}
	records := &domain.MainOption{Label: "Employee Records", Value: "records", DisplayOrder: 2, IsActive: true, AccessGroupID: 2}
	if err := st.CreateMainOption(ctx, records); err != nil {
		t.Fatalf("CreateMainOption failed: %v", err)
	}

	subs := []struct {
		label, value, answer string
	}{
		{"Annual Leave", "annual_leave", "20 days per year."},
		{"Sick Leave", "sick_leave", "Notify your manager."},
	}
	for i, s := range subs {
		so := &domain.SubOption{MainOptionID: leave.MainOptionID, Label: s.label, Value: s.value, DisplayOrder: i + 1, IsActive: true, AccessGroupID: 1}
		if err := st.CreateSubOption(ctx, so); err != nil {
			t.Fatalf("CreateSubOption failed: %v", err)
		}
		if err := st.CreateAnswer(ctx, &domain.SubOptionAnswer{SubOptionID: so.SubOptionID, AnswerText: s.answer, IsActive: true}); err != nil {
			t.Fatalf("CreateAnswer failed: %v", err)
		}
	}

	recordsSub := &domain.SubOption{MainOptionID: records.MainOptionID, Label: "Update Records", Value: "update_records", DisplayOrder: 1, IsActive: true, AccessGroupID: 2}
	if err := st.CreateSubOption(ctx, recordsSub); err != nil {
		t.Fatalf("CreateSubOption failed: %v", err)
	}
}

// pushRecorder captures push events in order.
type pushRecorder struct {
	senders []string
	texts   []string
}

func (r *pushRecorder) push(sender, text string) {
	r.senders = append(r.senders, sender)
	r.texts = append(r.texts, text)
}
