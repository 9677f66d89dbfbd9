package ident

import (
	"testing"
	"time"
)

func TestNewIsDeterministic(t *testing.T) {
	at := time.Date(2026, 2, 22, 18, 20, 0, 0, time.UTC)

	a := New([]byte("lost/校园卡"), at)
	b := New([]byte("lost/校园卡"), at)
	if a != b {
		t.Fatalf("same payload and time must yield the same id: %s vs %s", a, b)
	}
	if len(a) != 24 {
		t.Fatalf("expected 24 hex digits, got %d (%s)", len(a), a)
	}
}

func TestNewVariesWithPayloadAndTime(t *testing.T) {
	at := time.Now()

	if New([]byte("a"), at) == New([]byte("b"), at) {
		t.Fatalf("different payloads collided")
	}
	if New([]byte("a"), at) == New([]byte("a"), at.Add(time.Second)) {
		t.Fatalf("different times collided")
	}
}
