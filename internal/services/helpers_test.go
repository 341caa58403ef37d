package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"amlyspay/internal/clock"
	"amlyspay/internal/core"
	"amlyspay/internal/kv/memory"
	"amlyspay/internal/log"
)

var errStoreDown = errors.New("store down")

// recordingStore counts writes on top of an in-memory store.
type recordingStore struct {
	*memory.Store
	mu   sync.Mutex
	sets int
}

func newRecordingStore() *recordingStore {
	return &recordingStore{Store: memory.New()}
}

func (s *recordingStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	s.sets++
	s.mu.Unlock()
	return s.Store.Set(ctx, key, value)
}

func (s *recordingStore) Sets() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sets
}

// failingStore fails every read and write.
type failingStore struct{}

func (failingStore) Get(context.Context, string) (string, bool, error) {
	return "", false, errStoreDown
}

func (failingStore) Set(context.Context, string, string) error {
	return errStoreDown
}

// recordingPublisher keeps every published event and can be told to fail.
type recordingPublisher struct {
	mu     sync.Mutex
	events []core.SpendEvent
	err    error
}

func (p *recordingPublisher) PublishSpend(_ context.Context, event core.SpendEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Events() []core.SpendEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]core.SpendEvent(nil), p.events...)
}

func fixedPeriods(t time.Time) (*PeriodCalculator, *clock.Fixed) {
	clk := clock.NewFixed(t)
	return NewPeriodCalculator(clk), clk
}

func ptr[T any](v T) *T {
	return &v
}

func quietLogger() *log.Logger {
	return log.Discard()
}
