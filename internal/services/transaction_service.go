package services

import (
	"context"
	"fmt"
	"log/slog"

	"crewfin/internal/amqp"
	"crewfin/internal/backend"
	"crewfin/internal/core"
)

// TransactionService fronts the remote transaction store: it validates
// writes, forwards them, announces changes over AMQP and drops the cached
// dashboard. With a nil AMQP client writes still work, nothing is
// announced.
type TransactionService struct {
	store  backend.TransactionStore
	events *amqp.Client
	dash   *DashboardService
}

func NewTransactionService(store backend.TransactionStore, events *amqp.Client, dash *DashboardService) *TransactionService {
	return &TransactionService{store: store, events: events, dash: dash}
}

func (s *TransactionService) List(ctx context.Context, filter backend.TxFilter) ([]core.Transaction, error) {
	return s.store.ListTransactions(ctx, filter)
}

func (s *TransactionService) Create(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, fmt.Errorf("validate transaction: %w", err)
	}

	created, err := s.store.CreateTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	s.announce(ctx, amqp.OpCreated, created.ID)
	return created, nil
}

func (s *TransactionService) Update(ctx context.Context, id string, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, fmt.Errorf("validate transaction: %w", err)
	}

	updated, err := s.store.UpdateTransaction(ctx, id, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction %s: %w", id, err)
	}

	s.announce(ctx, amqp.OpUpdated, id)
	return updated, nil
}

func (s *TransactionService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction %s: %w", id, err)
	}
	s.announce(ctx, amqp.OpDeleted, id)
	return nil
}

func (s *TransactionService) BulkDelete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := s.store.BulkDeleteTransactions(ctx, ids); err != nil {
		return fmt.Errorf("bulk delete %d transactions: %w", len(ids), err)
	}
	s.announce(ctx, amqp.OpBulkDeleted, ids...)
	return nil
}

func (s *TransactionService) BulkUpdateCategory(ctx context.Context, ids []string, category string) error {
	if len(ids) == 0 {
		return nil
	}
	if category == "" {
		return core.ErrEmptyCategory
	}
	if err := s.store.BulkUpdateCategory(ctx, ids, category); err != nil {
		return fmt.Errorf("bulk update category for %d transactions: %w", len(ids), err)
	}
	s.announce(ctx, amqp.OpCategoryChanged, ids...)
	return nil
}

// announce publishes a change message and invalidates the dashboard.
// Publish failures are logged, never surfaced: the write already landed in
// the system of record.
func (s *TransactionService) announce(ctx context.Context, op string, ids ...string) {
	if s.dash != nil {
		s.dash.Invalidate()
	}
	if s.events == nil {
		return
	}
	if err := s.events.PublishTransactionChanged(ctx, amqp.NewTransactionChangedMessage(op, ids...)); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction change",
			"op", op,
			"ids", ids,
			"error", err)
	}
}
