package kv

import (
	"context"
	"errors"
)

// Keys under which the ledgers persist their collections.
const (
	ExpensesKey = "amlys_pay_expenses"
	BudgetsKey  = "amlys_pay_budgets"
)

// ErrInvalidKey is returned by backends that cannot represent a key.
var ErrInvalidKey = errors.New("invalid key")

// Ports for storage adapters.
type (
	// Reader loads a value. A missing key is reported with found=false, not an error.
	Reader interface {
		Get(ctx context.Context, key string) (value string, found bool, err error)
	}

	// Writer replaces the value stored under key.
	Writer interface {
		Set(ctx context.Context, key, value string) error
	}

	// Store is the whole-blob key-value store the ledgers persist into.
	Store interface {
		Reader
		Writer
	}

	// Invalidator is implemented by stores that may serve a stale copy of key.
	// Invalidate drops that copy so the next Get reads the backing store.
	Invalidator interface {
		Invalidate(key string)
	}
)
