package service

import (
	"context"
	"fmt"

	"github.com/hrassist/chathub/domain"
)

// menuSnapshot returns the cached active menu tree, loading it from the
// store on first use. The menu is read per keystroke, so it is served from
// memory and only reloaded through ReloadMenu.
func (s *Service) menuSnapshot(ctx context.Context) (*domain.MenuTree, error) {
	s.menuMu.RLock()
	tree := s.menuTree
	s.menuMu.RUnlock()
	if tree != nil {
		return tree, nil
	}

	s.menuMu.Lock()
	defer s.menuMu.Unlock()
	if s.menuTree != nil {
		return s.menuTree, nil
	}
	tree, err := s.store.MenuTree(ctx)
	if err != nil {
		return nil, fmt.Errorf("load menu tree: %w", err)
	}
	s.menuTree = tree
	return tree, nil
}

// ReloadMenu drops the cached snapshot so the next read picks up
// configuration edits.
func (s *Service) ReloadMenu() {
	s.menuMu.Lock()
	s.menuTree = nil
	s.menuMu.Unlock()
}

// menuForUser filters the snapshot down to the options the user's role may
// see, per the access policy. Sub-options of a hidden main option are hidden
// with it.
func (s *Service) menuForUser(ctx context.Context, user *domain.User) (*domain.MenuTree, error) {
	tree, err := s.menuSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	visible := &domain.MenuTree{Answers: tree.Answers}
	allowedMains := make(map[int64]bool)
	for _, main := range tree.Mains {
		ok, err := s.policy.Allow(ctx, user.Role, main.AccessGroupID)
		if err != nil {
			return nil, fmt.Errorf("menu policy: %w", err)
		}
		if ok {
			visible.Mains = append(visible.Mains, main)
			allowedMains[main.MainOptionID] = true
		}
	}
	for _, sub := range tree.Subs {
		if !allowedMains[sub.MainOptionID] {
			continue
		}
		ok, err := s.policy.Allow(ctx, user.Role, sub.AccessGroupID)
		if err != nil {
			return nil, fmt.Errorf("menu policy: %w", err)
		}
		if ok {
			visible.Subs = append(visible.Subs, sub)
		}
	}
	return visible, nil
}
