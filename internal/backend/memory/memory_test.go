package memory

import (
	"context"
	"testing"

	"crewfin/internal/backend"
	"crewfin/internal/core"
)

func TestTransactionCRUD(t *testing.T) {
	ctx := context.Background()
	s := New()

	created, err := s.CreateTransaction(ctx, core.Transaction{
		UserID: "u1", Type: core.Expense, Amount: 10,
		Category: "Food", PaymentMethod: core.Cash, Date: core.NewDate(2024, 1, 1),
	})
	if err != nil {
		t.Fatal(err)
	}
	if created.ID == "" {
		t.Fatal("expected assigned ID")
	}

	created.Amount = 15
	if _, err := s.UpdateTransaction(ctx, created.ID, created); err != nil {
		t.Fatalf("update: %v", err)
	}

	txs, err := s.ListTransactions(ctx, backend.TxFilter{UserID: "u1"})
	if err != nil {
		t.Fatal(err)
	}
	if len(txs) != 1 || txs[0].Amount != 15 {
		t.Fatalf("txs = %+v", txs)
	}

	if txs, _ := s.ListTransactions(ctx, backend.TxFilter{UserID: "other"}); len(txs) != 0 {
		t.Fatalf("filter should exclude, got %+v", txs)
	}

	if err := s.DeleteTransaction(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteTransaction(ctx, created.ID); err != ErrNotFound {
		t.Fatalf("second delete = %v, want ErrNotFound", err)
	}
}

func TestBulkOperations(t *testing.T) {
	ctx := context.Background()
	s := New()
	var ids []string
	for i := 0; i < 3; i++ {
		tx, _ := s.CreateTransaction(ctx, core.Transaction{
			Type: core.Expense, Amount: 1, Category: "Old",
			PaymentMethod: core.Cash, Date: core.NewDate(2024, 1, 1),
		})
		ids = append(ids, tx.ID)
	}

	if err := s.BulkUpdateCategory(ctx, ids[:2], "New"); err != nil {
		t.Fatal(err)
	}
	txs, _ := s.ListTransactions(ctx, backend.TxFilter{})
	if txs[0].Category != "New" || txs[1].Category != "New" || txs[2].Category != "Old" {
		t.Fatalf("categories after bulk update: %+v", txs)
	}

	if err := s.BulkDeleteTransactions(ctx, ids[1:]); err != nil {
		t.Fatal(err)
	}
	txs, _ = s.ListTransactions(ctx, backend.TxFilter{})
	if len(txs) != 1 || txs[0].ID != ids[0] {
		t.Fatalf("after bulk delete: %+v", txs)
	}
}

func TestUsersAndPlans(t *testing.T) {
	ctx := context.Background()
	s := New()

	u, err := s.CreateUser(ctx, core.User{Name: "Alice", Position: "Engineer"})
	if err != nil {
		t.Fatal(err)
	}
	u.Position = "Lead"
	if _, err := s.UpdateUser(ctx, u.ID, u); err != nil {
		t.Fatal(err)
	}
	users, _ := s.ListUsers(ctx)
	if len(users) != 1 || users[0].Position != "Lead" {
		t.Fatalf("users = %+v", users)
	}
	if err := s.DeleteUser(ctx, u.ID); err != nil {
		t.Fatal(err)
	}

	p, err := s.CreatePlan(ctx, core.Plan{Name: "Nifty Index", DayOfMonth: 5})
	if err != nil {
		t.Fatal(err)
	}
	plans, _ := s.ListPlans(ctx)
	if len(plans) != 1 || plans[0].Name != "Nifty Index" {
		t.Fatalf("plans = %+v", plans)
	}
	if err := s.DeletePlan(ctx, p.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.DeletePlan(ctx, p.ID); err != ErrNotFound {
		t.Fatalf("second delete = %v, want ErrNotFound", err)
	}
}
