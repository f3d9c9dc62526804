package store

import (
	"context"
	"time"

	"github.com/hrassist/chathub/domain"
)

// SeedDefaultMenu inserts a starter menu tree when the configuration is
// empty. Menu administration lives outside this service; the seed only keeps
// a fresh database usable.
func (s *SQLiteStore) SeedDefaultMenu(ctx context.Context) error {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bot_main_options`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	type seedSub struct {
		label, value, answer string
	}
	type seedMain struct {
		label, value string
		accessGroup  int64
		subs         []seedSub
	}

	menu := []seedMain{
		{label: "Leave Policy", value: "leave", accessGroup: 1, subs: []seedSub{
			{"Annual Leave", "annual_leave", "You are entitled to 20 days of annual leave per year. Submit requests through the HR portal at least one week in advance."},
			{"Sick Leave", "sick_leave", "Sick leave requires no prior approval. Notify your manager on the first day and submit a medical certificate for absences over 3 days."},
		}},
		{label: "Payroll", value: "payroll", accessGroup: 1, subs: []seedSub{
			{"Payslips", "payslips", "Payslips are published on the 25th of each month under My Documents in the HR portal."},
			{"Tax Declarations", "tax", "Annual tax statements are issued in February. Contact payroll@company.example for corrections."},
		}},
		{label: "IT Support", value: "it_support", accessGroup: 1, subs: []seedSub{
			{"Reset Password", "reset_password", "Use the self-service portal at reset.company.example or call the helpdesk at extension 4357."},
		}},
		{label: "Employee Records", value: "records", accessGroup: 2, subs: []seedSub{
			{"Update Records", "update_records", "HR staff can update employee records from the administration dashboard."},
		}},
	}

	for i, m := range menu {
		main := &domain.MainOption{
			Label:         m.label,
			Value:         m.value,
			DisplayOrder:  i + 1,
			IsActive:      true,
			AccessGroupID: m.accessGroup,
		}
		if err := s.CreateMainOption(ctx, main); err != nil {
			return err
		}
		for j, sub := range m.subs {
			so := &domain.SubOption{
				MainOptionID:  main.MainOptionID,
				Label:         sub.label,
				Value:         sub.value,
				DisplayOrder:  j + 1,
				IsActive:      true,
				AccessGroupID: m.accessGroup,
			}
			if err := s.CreateSubOption(ctx, so); err != nil {
				return err
			}
			if err := s.CreateAnswer(ctx, &domain.SubOptionAnswer{
				SubOptionID: so.SubOptionID,
				AnswerText:  sub.answer,
				IsActive:    true,
			}); err != nil {
				return err
			}
		}
	}
	return nil
}

// SeedDemoUsers inserts demo accounts when the users table is empty. User
// provisioning belongs to the external auth service; this exists so a local
// instance has someone to talk to.
func (s *SQLiteStore) SeedDemoUsers(ctx context.Context) error {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	users := []domain.User{
		{FullName: "Jordan Smith", Email: "jordan.smith@company.example", Role: "Employee"},
		{FullName: "Alex Rivera", Email: "alex.rivera@company.example", Role: "HR"},
	}
	for i := range users {
		users[i].CreatedAt = time.Now().UTC()
		users[i].IsActive = true
		if err := s.CreateUser(ctx, &users[i]); err != nil {
			return err
		}
	}
	return nil
}
