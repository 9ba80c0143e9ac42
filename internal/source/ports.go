// Package source defines the ports for ledger data backends.
package source

import (
	"context"

	"fintrack/internal/core"
)

// Ports for outbound adapters.
type (
	// TransactionReader lists every transaction of the ledger.
	TransactionReader interface {
		ListTransactions(ctx context.Context) ([]core.Transaction, error)
	}

	// TransactionAppender records a new transaction and returns a
	// backend-specific reference to it.
	TransactionAppender interface {
		Append(ctx context.Context, tx core.Transaction) (ref string, err error)
	}

	// CategoryReader lists the known categories with their budgets.
	CategoryReader interface {
		Categories(ctx context.Context) ([]core.Category, error)
	}

	// CategoryUpserter creates a category or updates its monthly budget.
	CategoryUpserter interface {
		UpsertCategory(ctx context.Context, c core.Category) error
	}

	// Ledger is the full read surface the analytics pipeline needs.
	Ledger interface {
		TransactionReader
		CategoryReader
	}
)
