package backend

import (
	"context"
	"errors"

	"crewfin/internal/core"
)

// ErrNotFound reports that the remote system has no record with the
// requested id. All backends return it so callers can map it uniformly.
var ErrNotFound = errors.New("not found")

// Ports for the remote collaborators. The aggregation core never touches
// these directly; services fetch snapshots through them and hand plain
// slices to the core.

type (
	// TxFilter narrows a transaction listing. Zero value means everything.
	TxFilter struct {
		UserID string
	}

	// TransactionStore is the remote system of record for transactions.
	TransactionStore interface {
		ListTransactions(ctx context.Context, filter TxFilter) ([]core.Transaction, error)
		CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
		UpdateTransaction(ctx context.Context, id string, t core.Transaction) (core.Transaction, error)
		DeleteTransaction(ctx context.Context, id string) error
		BulkDeleteTransactions(ctx context.Context, ids []string) error
		BulkUpdateCategory(ctx context.Context, ids []string, category string) error
	}

	// UserDirectory is the remote roster of known users.
	UserDirectory interface {
		ListUsers(ctx context.Context) ([]core.User, error)
		CreateUser(ctx context.Context, u core.User) (core.User, error)
		UpdateUser(ctx context.Context, id string, u core.User) (core.User, error)
		DeleteUser(ctx context.Context, id string) error
	}

	// PlanStore holds the named investment plans.
	PlanStore interface {
		ListPlans(ctx context.Context) ([]core.Plan, error)
		CreatePlan(ctx context.Context, p core.Plan) (core.Plan, error)
		DeletePlan(ctx context.Context, id string) error
	}

	// Store bundles every collaborator a fully wired service needs.
	Store interface {
		TransactionStore
		UserDirectory
		PlanStore
	}
)
