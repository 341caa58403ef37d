package services

import (
	"context"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"amlyspay/internal/kv"
	"amlyspay/internal/log"
)

// collection persists a whole slice of T as one JSON array under a single key.
// Failures are logged and never returned: a failed read yields an empty slice
// and a failed write leaves the caller's in-memory result standing.
type collection[T any] struct {
	store  kv.Store
	key    string
	logger *log.Logger
}

func (c collection[T]) load(ctx context.Context) []T {
	raw, found, err := c.store.Get(ctx, c.key)
	if err != nil {
		c.logger.ErrorContext(ctx, "Failed to load collection",
			log.NewFields().WithOperation(log.OpLoad).WithKey(c.key).WithError(err).ToSlice()...)
		return []T{}
	}
	if !found || raw == "" {
		return []T{}
	}

	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		c.logger.ErrorContext(ctx, "Failed to decode collection",
			log.NewFields().WithOperation(log.OpLoad).WithKey(c.key).WithError(err).ToSlice()...)
		return []T{}
	}
	if items == nil {
		items = []T{}
	}
	return items
}

// loadForUpdate is load for read-modify-write cycles. Other processes may
// write the same key, so a cached copy is dropped before reading.
func (c collection[T]) loadForUpdate(ctx context.Context) []T {
	if inv, ok := c.store.(kv.Invalidator); ok {
		inv.Invalidate(c.key)
	}
	return c.load(ctx)
}

func (c collection[T]) save(ctx context.Context, items []T) {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		c.logger.ErrorContext(ctx, "Failed to encode collection",
			log.NewFields().WithOperation(log.OpSave).WithKey(c.key).WithError(err).ToSlice()...)
		return
	}
	if err := c.store.Set(ctx, c.key, string(data)); err != nil {
		c.logger.ErrorContext(ctx, "Failed to save collection",
			log.NewFields().WithOperation(log.OpSave).WithKey(c.key).WithError(err).ToSlice()...)
	}
}

// newID returns a time-ordered identifier.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
