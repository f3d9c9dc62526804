// Package service implements the conversation core: session resolution, the
// menu-tree dialogue engine and the per-turn persist-and-push pipeline.
package service

import (
	"sync"
	"time"

	"github.com/hrassist/chathub/config"
	"github.com/hrassist/chathub/domain"
	store "github.com/hrassist/chathub/internal/repository"
	"github.com/hrassist/chathub/policy"
)

type Service struct {
	store  store.Store
	policy *policy.Engine
	config *config.Config

	menuMu   sync.RWMutex
	menuTree *domain.MenuTree

	locksMu   sync.Mutex
	userLocks map[int64]*sync.Mutex

	// Overridable in tests.
	now   func() time.Time
	sleep func(time.Duration)
}

func New(st store.Store, policyEngine *policy.Engine, cfg *config.Config) *Service {
	return &Service{
		store:     st,
		policy:    policyEngine,
		config:    cfg,
		userLocks: make(map[int64]*sync.Mutex),
		now:       time.Now,
		sleep:     time.Sleep,
	}
}

// userLock returns the mutex serializing turns for one user. Two devices of
// the same user racing through session resolution would otherwise create
// duplicate open sessions.
func (s *Service) userLock(userID int64) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	mu, ok := s.userLocks[userID]
	if !ok {
		mu = &sync.Mutex{}
		s.userLocks[userID] = mu
	}
	return mu
}
