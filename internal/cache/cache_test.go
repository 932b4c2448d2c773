// ABOUTME: Tests for the event list cache.
// ABOUTME: Covers hits, TTL expiry, sweeping, and key derivation.

package cache

import (
	"testing"
	"time"

	"github.com/calwidget/calwidget/internal/event"
)

func TestCache_PutGet(t *testing.T) {
	c := New(time.Minute)
	events := []event.Event{{ID: "a", Date: "2024-03-05", Title: "hi"}}

	key := Key("tok", "2024-03-01", "2024-03-31")
	c.Put(key, events)

	got, ok := c.Get(key)
	if !ok {
		t.Fatal("Get() miss, want hit")
	}
	if len(got) != 1 || got[0].ID != "a" {
		t.Errorf("got %+v", got)
	}
}

func TestCache_Expiry(t *testing.T) {
	c := New(10 * time.Millisecond)
	key := Key("tok", "2024-03-01", "2024-03-31")
	c.Put(key, nil)

	time.Sleep(20 * time.Millisecond)
	if _, ok := c.Get(key); ok {
		t.Error("Get() hit after TTL, want miss")
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d before sweep, want 1", c.Len())
	}

	c.Sweep()
	if c.Len() != 0 {
		t.Errorf("Len() = %d after sweep, want 0", c.Len())
	}
}

func TestKey_Distinct(t *testing.T) {
	a := Key("tok", "2024-03-01", "2024-03-31")
	b := Key("tok", "2024-04-01", "2024-04-30")
	other := Key("tok2", "2024-03-01", "2024-03-31")
	if a == b || a == other {
		t.Error("keys for different inputs collide")
	}
	if a == "tok|2024-03-01|2024-03-31" {
		t.Error("key leaks the raw token")
	}
}

func TestCache_Sweeper(t *testing.T) {
	c := New(time.Minute)
	if err := c.StartSweeper("* * * * *"); err != nil {
		t.Fatalf("StartSweeper() error = %v", err)
	}
	c.Stop()

	if err := New(time.Minute).StartSweeper("not a schedule"); err == nil {
		t.Error("StartSweeper(bad) error = nil, want error")
	}
}
