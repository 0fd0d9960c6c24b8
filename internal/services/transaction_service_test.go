package services

import (
	"context"
	"testing"
	"time"

	"crewfin/internal/backend"
	"crewfin/internal/backend/memory"
	"crewfin/internal/core"
)

func validTx() core.Transaction {
	return core.Transaction{
		UserID: "u1", UserName: "Alice",
		Type: core.Expense, Amount: 100, Category: "Food",
		PaymentMethod: core.Cash, Date: core.NewDate(2024, 3, 1),
	}
}

func TestCreateValidatesInput(t *testing.T) {
	svc := NewTransactionService(memory.New(), nil, nil)

	bad := validTx()
	bad.PaymentMethod = "VENMO"
	if _, err := svc.Create(context.Background(), bad); err == nil {
		t.Fatal("expected validation error")
	}

	created, err := svc.Create(context.Background(), validTx())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected assigned ID")
	}
}

func TestWritesInvalidateDashboard(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	store := memory.New()
	dash := NewDashboardService(store, store, WithClock(fixedClock(now)), WithCacheTTL(time.Hour))
	svc := NewTransactionService(store, nil, dash)

	if _, err := dash.Overview(ctx); err != nil {
		t.Fatal(err)
	}

	tx := validTx()
	tx.Date = core.NewDate(2024, 3, 15)
	if _, err := svc.Create(ctx, tx); err != nil {
		t.Fatal(err)
	}

	ov, err := dash.Overview(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if ov.Stats.TotalExpense != 100 {
		t.Fatalf("dashboard still stale after write: %+v", ov.Stats)
	}
}

func TestBulkOperationsPassThrough(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := NewTransactionService(store, nil, nil)

	var ids []string
	for i := 0; i < 3; i++ {
		tx, err := svc.Create(ctx, validTx())
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, tx.ID)
	}

	if err := svc.BulkUpdateCategory(ctx, ids[:2], "Office"); err != nil {
		t.Fatal(err)
	}
	if err := svc.BulkUpdateCategory(ctx, ids, ""); err != core.ErrEmptyCategory {
		t.Fatalf("empty category = %v, want ErrEmptyCategory", err)
	}
	if err := svc.BulkDelete(ctx, ids[2:]); err != nil {
		t.Fatal(err)
	}
	if err := svc.BulkDelete(ctx, nil); err != nil {
		t.Fatalf("empty bulk delete should be a no-op, got %v", err)
	}

	txs, _ := svc.List(ctx, backend.TxFilter{})
	if len(txs) != 2 {
		t.Fatalf("remaining = %d, want 2", len(txs))
	}
	for _, tx := range txs {
		if tx.Category != "Office" {
			t.Errorf("category = %q, want Office", tx.Category)
		}
	}
}

func TestUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	svc := NewTransactionService(memory.New(), nil, nil)

	created, err := svc.Create(ctx, validTx())
	if err != nil {
		t.Fatal(err)
	}

	created.Amount = 250
	updated, err := svc.Update(ctx, created.ID, created)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Amount != 250 {
		t.Fatalf("amount = %v", updated.Amount)
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(ctx, created.ID); err == nil {
		t.Fatal("expected error deleting twice")
	}
}
