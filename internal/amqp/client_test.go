package amqp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"amlyspay/internal/core"
	"amlyspay/internal/log"
)

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{0, 1 * time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{4, 16 * time.Second},
		{5, 30 * time.Second},  // capped at 30s
		{10, 30 * time.Second}, // capped at 30s
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("attempt_%d", tt.attempt), func(t *testing.T) {
			result := exponentialBackoff(tt.attempt)
			if result != tt.expected {
				t.Errorf("exponentialBackoff(%d) = %v, want %v", tt.attempt, result, tt.expected)
			}
		})
	}
}

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"connection error", errors.New("connection refused"), true},
		{"EOF error", errors.New("unexpected EOF"), true},
		{"broken pipe error", errors.New("broken pipe"), true},
		{"closed network connection error", errors.New("use of closed network connection"), true},
		{"other error", errors.New("some other error"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := isConnectionError(tt.err); result != tt.expected {
				t.Errorf("isConnectionError(%v) = %v, want %v", tt.err, result, tt.expected)
			}
		})
	}
}

func TestClient_CircuitBreaker(t *testing.T) {
	client := &Client{exchangeName: "test_exchange", queueName: "test_queue"}

	t.Run("initial state is closed", func(t *testing.T) {
		if client.isCircuitOpen() {
			t.Error("Circuit breaker should be closed initially")
		}
	})

	t.Run("multiple failures open circuit", func(t *testing.T) {
		for i := 0; i < maxFailures; i++ {
			client.recordFailure()
		}
		if !client.isCircuitOpen() {
			t.Error("Circuit breaker should be open after max failures")
		}
	})

	t.Run("record success resets state", func(t *testing.T) {
		client.recordSuccess()
		if client.isCircuitOpen() {
			t.Error("Circuit breaker should be closed after success")
		}
		if atomic.LoadInt64(&client.failureCount) != 0 {
			t.Error("Failure count should be reset to 0 after success")
		}
	})

	t.Run("circuit transitions to half-open after timeout", func(t *testing.T) {
		atomic.StoreInt32(&client.state, StateOpen)
		client.lastFailure = time.Now().Add(-openTimeout - time.Second)

		if client.isCircuitOpen() {
			t.Error("Circuit should transition to half-open after timeout")
		}
		if atomic.LoadInt32(&client.state) != StateHalfOpen {
			t.Error("State should be StateHalfOpen after timeout")
		}
	})

	t.Run("failure while half-open reopens", func(t *testing.T) {
		client.recordFailure()
		if atomic.LoadInt32(&client.state) != StateOpen {
			t.Error("State should be StateOpen after a half-open failure")
		}
	})
}

func TestClient_PublishSpend(t *testing.T) {
	event := core.SpendEvent{ExpenseID: "e1", Amount: 2.5, Kind: core.SpendCreated}

	t.Run("fails fast when circuit is open", func(t *testing.T) {
		client := &Client{exchangeName: "x", queueName: "q"}
		atomic.StoreInt32(&client.state, StateOpen)
		client.lastFailure = time.Now()

		err := client.PublishSpend(context.Background(), event)
		if !errors.Is(err, ErrCircuitOpen) {
			t.Errorf("PublishSpend() error = %v, want %v", err, ErrCircuitOpen)
		}
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		client := &Client{exchangeName: "x", queueName: "q"}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if err := client.PublishSpend(ctx, event); err != context.Canceled {
			t.Errorf("PublishSpend() error = %v, want context.Canceled", err)
		}
	})
}

type fakeAck struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (f *fakeAck) Ack(bool) error {
	f.acked = true
	return nil
}

func (f *fakeAck) Nack(_ bool, requeue bool) error {
	f.nacked = true
	f.requeue = requeue
	return nil
}

func TestDispatch(t *testing.T) {
	body, err := NewSpendMessage(core.SpendEvent{ExpenseID: "e1", Amount: 3}).ToJSON()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name        string
		body        []byte
		handlerErr  error
		wantAck     bool
		wantRequeue bool
		wantCalled  bool
	}{
		{name: "success acks", body: body, wantAck: true, wantCalled: true},
		{name: "handler error requeues", body: body, handlerErr: errors.New("sheets down"), wantRequeue: true, wantCalled: true},
		{name: "malformed body is dropped", body: []byte(`{"event": 7}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ack := &fakeAck{}
			called := false
			dispatch(context.Background(), log.Discard(), tt.body, ack, func(_ context.Context, m *SpendMessage) error {
				called = true
				if m.Event.ExpenseID != "e1" {
					t.Errorf("handler got expense %q", m.Event.ExpenseID)
				}
				return tt.handlerErr
			})

			if called != tt.wantCalled {
				t.Errorf("handler called = %v, want %v", called, tt.wantCalled)
			}
			if ack.acked != tt.wantAck {
				t.Errorf("acked = %v, want %v", ack.acked, tt.wantAck)
			}
			if !tt.wantAck && (!ack.nacked || ack.requeue != tt.wantRequeue) {
				t.Errorf("nacked = %v requeue = %v, want requeue %v", ack.nacked, ack.requeue, tt.wantRequeue)
			}
		})
	}
}

func TestSpendMessage_JSON(t *testing.T) {
	occurred := time.Date(2024, 8, 29, 12, 0, 0, 0, time.UTC)
	msg := NewSpendMessage(core.SpendEvent{
		ExpenseID:  "e1",
		BudgetID:   "b1",
		Title:      "Café",
		Amount:     2.5,
		Kind:       core.SpendIncremented,
		OccurredAt: occurred,
	})
	if msg.ID == "" || msg.Timestamp.IsZero() {
		t.Fatalf("NewSpendMessage() = %+v, want id and timestamp set", msg)
	}

	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}
	if !strings.Contains(string(data), `"expenseId":"e1"`) {
		t.Errorf("ToJSON() = %s, want camelCase event fields", data)
	}

	parsed, err := SpendMessageFromJSON(data)
	if err != nil {
		t.Fatalf("SpendMessageFromJSON() error = %v", err)
	}
	if parsed.ID != msg.ID || parsed.Event.Title != "Café" || !parsed.Event.OccurredAt.Equal(occurred) {
		t.Errorf("parsed = %+v, want %+v", parsed, msg)
	}
}

func TestSpendMessage_InvalidJSON(t *testing.T) {
	if _, err := SpendMessageFromJSON([]byte(`{"id": 5}`)); err == nil {
		t.Error("SpendMessageFromJSON() should fail with invalid JSON")
	}
}
