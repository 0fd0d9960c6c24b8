// Package memory is an in-process implementation of the backend ports,
// used by unit tests and as the default dev backend when no upstream API
// is configured.
package memory

import (
	"context"
	"strconv"
	"sync"

	"crewfin/internal/backend"
	"crewfin/internal/core"
)

var ErrNotFound = backend.ErrNotFound

type Store struct {
	mu     sync.Mutex
	nextID int
	txs    []core.Transaction
	users  []core.User
	plans  []core.Plan
}

func New() *Store {
	return &Store{nextID: 1}
}

// Seed loads an initial snapshot, replacing whatever is there.
func (s *Store) Seed(txs []core.Transaction, users []core.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs = append([]core.Transaction(nil), txs...)
	s.users = append([]core.User(nil), users...)
}

func (s *Store) newID(prefix string) string {
	id := prefix + strconv.Itoa(s.nextID)
	s.nextID++
	return id
}

func (s *Store) ListTransactions(_ context.Context, filter backend.TxFilter) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, 0, len(s.txs))
	for _, t := range s.txs {
		if filter.UserID != "" && t.UserID != filter.UserID {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (s *Store) CreateTransaction(_ context.Context, t core.Transaction) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == "" {
		t.ID = s.newID("tx-")
	}
	s.txs = append(s.txs, t)
	return t, nil
}

func (s *Store) UpdateTransaction(_ context.Context, id string, t core.Transaction) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.txs {
		if s.txs[i].ID == id {
			t.ID = id
			s.txs[i] = t
			return t, nil
		}
	}
	return core.Transaction{}, ErrNotFound
}

func (s *Store) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.txs {
		if s.txs[i].ID == id {
			s.txs = append(s.txs[:i], s.txs[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *Store) BulkDeleteTransactions(_ context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	kept := s.txs[:0]
	for _, t := range s.txs {
		if _, gone := drop[t.ID]; !gone {
			kept = append(kept, t)
		}
	}
	s.txs = kept
	return nil
}

func (s *Store) BulkUpdateCategory(_ context.Context, ids []string, category string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	for i := range s.txs {
		if _, ok := want[s.txs[i].ID]; ok {
			s.txs[i].Category = category
		}
	}
	return nil
}

func (s *Store) ListUsers(_ context.Context) ([]core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.User(nil), s.users...), nil
}

func (s *Store) CreateUser(_ context.Context, u core.User) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == "" {
		u.ID = s.newID("user-")
	}
	s.users = append(s.users, u)
	return u, nil
}

func (s *Store) UpdateUser(_ context.Context, id string, u core.User) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID == id {
			u.ID = id
			s.users[i] = u
			return u, nil
		}
	}
	return core.User{}, ErrNotFound
}

func (s *Store) DeleteUser(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID == id {
			s.users = append(s.users[:i], s.users[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *Store) ListPlans(_ context.Context) ([]core.Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Plan(nil), s.plans...), nil
}

func (s *Store) CreatePlan(_ context.Context, p core.Plan) (core.Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = s.newID("plan-")
	}
	s.plans = append(s.plans, p)
	return p, nil
}

func (s *Store) DeletePlan(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.plans {
		if s.plans[i].ID == id {
			s.plans = append(s.plans[:i], s.plans[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
