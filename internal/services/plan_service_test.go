package services

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"crewfin/internal/backend"
	"crewfin/internal/backend/memory"
	"crewfin/internal/core"
)

func approxEqual(got, want float64) bool {
	return math.Abs(got-want) < 1e-9
}

func newPlanFixture(t *testing.T) (*PlanService, *memory.Store) {
	t.Helper()
	store := memory.New()
	dash := NewDashboardService(store, store, WithCacheTTL(time.Hour))
	txs := NewTransactionService(store, nil, dash)
	return NewPlanService(store, txs), store
}

func TestPlanCreateValidation(t *testing.T) {
	svc, _ := newPlanFixture(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, core.Plan{Name: "  ", DayOfMonth: 5}); !errors.Is(err, core.ErrEmptyName) {
		t.Errorf("blank name: got %v, want ErrEmptyName", err)
	}
	if _, err := svc.Create(ctx, core.Plan{Name: "Nifty Fund", DayOfMonth: 31}); err == nil {
		t.Error("day 31 should be rejected")
	}
	if _, err := svc.Create(ctx, core.Plan{Name: "Nifty Fund"}); err == nil {
		t.Error("day 0 should be rejected")
	}

	p, err := svc.Create(ctx, core.Plan{Name: "Nifty Fund", DayOfMonth: 5})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.ID == "" || !p.Active {
		t.Errorf("created plan = %+v, want id assigned and active", p)
	}
}

func TestPlanStats(t *testing.T) {
	svc, store := newPlanFixture(t)
	ctx := context.Background()

	plan, err := svc.Create(ctx, core.Plan{Name: "Nifty Fund", DayOfMonth: 5, CurrentNav: 100, GoalTarget: 4000})
	if err != nil {
		t.Fatal(err)
	}
	store.Seed([]core.Transaction{
		{ID: "p1", UserName: "Alice", Type: core.Expense, Category: "SIP", Amount: 900, PaymentMethod: core.BankTransfer,
			Description: "SIP Installment: Nifty Fund", Date: core.NewDate(2024, 2, 5)},
		{ID: "p2", UserName: "Bob", Type: core.Expense, Category: "SIP", Amount: 900, PaymentMethod: core.BankTransfer,
			Description: "SIP Installment: Nifty Fund", Date: core.NewDate(2024, 3, 5)},
		{ID: "x1", UserName: "Alice", Type: core.Expense, Category: "Food", Amount: 50, PaymentMethod: core.Cash,
			Description: "lunch", Date: core.NewDate(2024, 3, 6)},
	}, nil)

	_, stats, err := svc.Stats(ctx, plan.ID, 0)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	// 1800 invested buys 20 units at 90, valued back at NAV 100.
	if stats.Invested != 1800 || stats.TxCount != 2 {
		t.Errorf("invested = %v txCount = %d", stats.Invested, stats.TxCount)
	}
	if !approxEqual(stats.LiveValue, 2000) || !approxEqual(stats.Growth, 200) {
		t.Errorf("live = %v growth = %v", stats.LiveValue, stats.Growth)
	}
	if !approxEqual(stats.GoalPct, 45) {
		t.Errorf("goalPct = %v, want 45", stats.GoalPct)
	}

	_, stats, err = svc.Stats(ctx, plan.ID, 2100)
	if err != nil {
		t.Fatal(err)
	}
	if stats.LiveValue != 2100 || !approxEqual(stats.Growth, 300) {
		t.Errorf("override live = %v growth = %v", stats.LiveValue, stats.Growth)
	}

	if _, _, err := svc.Stats(ctx, "nope", 0); !errors.Is(err, ErrPlanNotFound) {
		t.Errorf("unknown plan: got %v", err)
	}
}

func TestPlanMemberStatuses(t *testing.T) {
	svc, store := newPlanFixture(t)
	ctx := context.Background()
	svc.now = fixedClock(time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC))

	plan, err := svc.Create(ctx, core.Plan{
		Name:       "Nifty Fund",
		DayOfMonth: 5,
		Members:    []core.PlanMember{{Name: "Alice", Amount: 450}, {Name: "Bob", Amount: 450}},
	})
	if err != nil {
		t.Fatal(err)
	}
	store.Seed([]core.Transaction{
		{ID: "p1", UserName: "Alice", Type: core.Expense, Category: "SIP", Amount: 450, PaymentMethod: core.BankTransfer,
			Description: "sip installment: nifty fund", Investors: []string{"Alice"}, Date: core.NewDate(2024, 3, 5)},
		{ID: "p2", UserName: "Bob", Type: core.Expense, Category: "SIP", Amount: 450, PaymentMethod: core.BankTransfer,
			Description: "SIP Installment: Nifty Fund", Investors: []string{"Bob"}, Date: core.NewDate(2024, 2, 5)},
	}, nil)

	statuses, err := svc.MemberStatuses(ctx, plan.ID)
	if err != nil {
		t.Fatalf("MemberStatuses: %v", err)
	}
	if len(statuses) != 2 {
		t.Fatalf("statuses = %d, want 2", len(statuses))
	}
	if !statuses[0].Paid {
		t.Error("Alice paid this month, should be marked paid")
	}
	if statuses[1].Paid {
		t.Error("Bob paid last month, should be unpaid this cycle")
	}
	wantDue := time.Date(2024, 4, 5, 0, 0, 0, 0, time.UTC)
	if !statuses[0].NextDue.Equal(wantDue) {
		t.Errorf("nextDue = %v, want %v", statuses[0].NextDue, wantDue)
	}
}

func TestRecordInstallment(t *testing.T) {
	svc, store := newPlanFixture(t)
	ctx := context.Background()
	svc.now = fixedClock(time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC))

	plan, err := svc.Create(ctx, core.Plan{Name: "Nifty Fund", DayOfMonth: 5})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.RecordInstallment(ctx, plan.ID, "", 450, ""); !errors.Is(err, core.ErrEmptyName) {
		t.Errorf("blank member: got %v", err)
	}
	if _, err := svc.RecordInstallment(ctx, plan.ID, "Alice", 0, ""); !errors.Is(err, core.ErrNegativeAmount) {
		t.Errorf("zero amount: got %v", err)
	}

	tx, err := svc.RecordInstallment(ctx, plan.ID, "Alice", 450, "")
	if err != nil {
		t.Fatalf("RecordInstallment: %v", err)
	}
	if tx.Type != core.Expense || tx.InvestmentType != core.Team || tx.Category != "SIP" {
		t.Errorf("installment tx = %+v", tx)
	}
	if tx.PaymentMethod != core.BankTransfer {
		t.Errorf("default method = %q, want bank transfer", tx.PaymentMethod)
	}
	if !strings.Contains(tx.Description, plan.Name) {
		t.Errorf("description %q should mention the plan", tx.Description)
	}
	if len(tx.Investors) != 1 || tx.Investors[0] != "Alice" {
		t.Errorf("investors = %v, want [Alice]", tx.Investors)
	}

	all, err := store.ListTransactions(ctx, backend.TxFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Fatalf("stored = %d, want 1", len(all))
	}

	statuses, err := svc.MemberStatuses(ctx, plan.ID)
	if err != nil {
		t.Fatal(err)
	}
	// No declared members, so no statuses; the paid check still works
	// through InstallmentPaid when members exist.
	if len(statuses) != 0 {
		t.Errorf("statuses = %v, want none for memberless plan", statuses)
	}
}
