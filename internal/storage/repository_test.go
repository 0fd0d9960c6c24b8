package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"crewfin/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "archive.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestStatementRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	rec := StatementRecord{
		ID:          "stmt-1",
		PeriodYear:  2024,
		PeriodMonth: 3,
		TotalIncome: 1000, TotalExpense: 400, NetBalance: 600,
		Channels: []core.ChannelFlow{
			{Method: core.Cash, Net: -100},
			{Method: core.GPay, Net: 700},
		},
		TxCount:     7,
		GeneratedAt: time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := repo.SaveStatement(ctx, rec); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.GetStatement(ctx, "stmt-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.PeriodYear != 2024 || got.PeriodMonth != 3 || got.NetBalance != 600 {
		t.Fatalf("got %+v", got)
	}
	if len(got.Channels) != 2 || got.Channels[1].Method != core.GPay || got.Channels[1].Net != 700 {
		t.Fatalf("channels = %+v", got.Channels)
	}
}

func TestListStatementsNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "mid", "new"} {
		err := repo.SaveStatement(ctx, StatementRecord{
			ID: id, PeriodYear: 2024,
			Channels:    []core.ChannelFlow{},
			GeneratedAt: base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	got, err := repo.ListStatements(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].ID != "new" || got[1].ID != "mid" {
		t.Fatalf("got %+v", got)
	}
}

func TestAuditEvents(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	now := time.Now()
	if err := repo.RecordAuditEvent(ctx, "transaction_changed", "created", []string{"t1", "t2"}, now); err != nil {
		t.Fatal(err)
	}
	if err := repo.RecordAuditEvent(ctx, "statement_recorded", "", nil, now.Add(time.Minute)); err != nil {
		t.Fatal(err)
	}

	events, err := repo.ListAuditEvents(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 {
		t.Fatalf("len = %d, want 2", len(events))
	}
	if events[0].Kind != "statement_recorded" {
		t.Errorf("newest first expected, got %+v", events[0])
	}
	if len(events[1].RefIDs) != 2 || events[1].RefIDs[0] != "t1" {
		t.Errorf("ref ids = %+v", events[1].RefIDs)
	}
}
