package clock

import (
	"testing"
	"time"
)

func TestFixedClock(t *testing.T) {
	start := time.Date(2024, 8, 29, 12, 0, 0, 0, time.UTC)
	c := NewFixed(start)

	if got := c.Now(); !got.Equal(start) {
		t.Fatalf("Now() = %v, want %v", got, start)
	}

	c.Advance(36 * time.Hour)
	if got, want := c.Now(), start.Add(36*time.Hour); !got.Equal(want) {
		t.Errorf("after Advance Now() = %v, want %v", got, want)
	}

	other := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.Set(other)
	if got := c.Now(); !got.Equal(other) {
		t.Errorf("after Set Now() = %v, want %v", got, other)
	}
}

func TestSystemClockLocation(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	now := System{Location: loc}.Now()
	if now.Location() != loc {
		t.Errorf("Now().Location() = %v, want %v", now.Location(), loc)
	}
}
