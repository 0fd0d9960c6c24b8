package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"crewfin/internal/backend"
	"crewfin/internal/cache"
	"crewfin/internal/core"
)

const overviewKey = "overview"

// Overview bundles everything the dashboard page renders, computed from a
// single snapshot so the numbers are mutually consistent.
type Overview struct {
	Stats      core.DashboardStats   `json:"stats"`
	Monthly    []core.MonthPoint     `json:"monthly"`
	Categories []core.CategoryAmount `json:"categories"`
	Team       []core.MemberSpend    `json:"team"`
	FetchedAt  time.Time             `json:"fetchedAt"`
}

// DashboardService fetches the remote snapshot and runs the aggregation
// functions over it. Results are cached until the next poll or until a
// write invalidates them; every refresh recomputes everything from
// scratch, there is no incremental update path.
type DashboardService struct {
	txs   backend.TransactionStore
	users backend.UserDirectory
	cache *cache.LRU[Overview]
	now   func() time.Time
}

type DashboardOption func(*DashboardService)

// WithClock replaces the time source, for tests.
func WithClock(now func() time.Time) DashboardOption {
	return func(s *DashboardService) { s.now = now }
}

// WithCacheTTL controls how long a computed overview is served before the
// snapshot is fetched again. Usually the poll interval.
func WithCacheTTL(ttl time.Duration) DashboardOption {
	return func(s *DashboardService) { s.cache = cache.NewLRU[Overview](4, ttl) }
}

func NewDashboardService(txs backend.TransactionStore, users backend.UserDirectory, opts ...DashboardOption) *DashboardService {
	s := &DashboardService{
		txs:   txs,
		users: users,
		cache: cache.NewLRU[Overview](4, 30*time.Second),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Overview returns the cached overview, refreshing when it is stale.
func (s *DashboardService) Overview(ctx context.Context) (Overview, error) {
	if ov, ok := s.cache.Get(overviewKey); ok {
		return ov, nil
	}
	return s.Refresh(ctx)
}

// Refresh fetches transactions and users concurrently, recomputes every
// aggregate and replaces the cached overview.
func (s *DashboardService) Refresh(ctx context.Context) (Overview, error) {
	var (
		txs   []core.Transaction
		users []core.User
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txs, err = s.txs.ListTransactions(gctx, backend.TxFilter{})
		if err != nil {
			return fmt.Errorf("list transactions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		users, err = s.users.ListUsers(gctx)
		if err != nil {
			return fmt.Errorf("list users: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Overview{}, err
	}

	now := s.now()
	ov := Overview{
		Stats:      core.PeriodTotals(txs, now),
		Monthly:    core.MonthlySeries(txs, now.Year()),
		Categories: core.CategoryBreakdown(txs),
		Team:       core.TeamContribution(txs, users),
		FetchedAt:  now,
	}
	s.cache.Set(overviewKey, ov)

	slog.InfoContext(ctx, "Dashboard overview refreshed",
		"transactions", len(txs),
		"users", len(users),
		"balance", ov.Stats.Balance)

	return ov, nil
}

// Invalidate drops the cached overview. Called after writes so the next
// read recomputes against a fresh snapshot.
func (s *DashboardService) Invalidate() {
	s.cache.Purge()
}
