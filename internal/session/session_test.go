package session

import (
	"context"
	"strings"
	"testing"
)

func TestDeriveIDSameDayCollapses(t *testing.T) {
	a := DeriveID("+919876543210", "2026-08-31T09:15:00Z")
	b := DeriveID("+919876543210", "2026-08-31T21:40:12Z")
	if a != b {
		t.Fatalf("same sender + same day should collapse: %q vs %q", a, b)
	}
	if a != "+919876543210_2026-08-31" {
		t.Fatalf("unexpected id %q", a)
	}
}

func TestDeriveIDDifferentDays(t *testing.T) {
	a := DeriveID("scammer@example.com", "2026-08-30T23:59:59Z")
	b := DeriveID("scammer@example.com", "2026-08-31T00:00:01Z")
	if a == b {
		t.Fatalf("different days must yield different ids, both %q", a)
	}
}

func TestDeriveIDNormalizesOffsetsToUTC(t *testing.T) {
	// 01:30 IST on Sep 1 is 20:00 UTC on Aug 31.
	a := DeriveID("sender", "2026-09-01T01:30:00+05:30")
	b := DeriveID("sender", "2026-08-31T20:00:00Z")
	if a != b {
		t.Fatalf("offset timestamps should normalize to UTC date: %q vs %q", a, b)
	}
}

func TestDeriveIDFormats(t *testing.T) {
	tests := []struct {
		name      string
		timestamp string
		want      string
	}{
		{"bare date", "2026-08-31", "sender_2026-08-31"},
		{"no offset", "2026-08-31T10:00:00", "sender_2026-08-31"},
		{"space separated", "2026-08-31 10:00:00", "sender_2026-08-31"},
		{"epoch seconds", "1788158700", "sender_2026-08-31"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveID("sender", tt.timestamp)
			if got != tt.want {
				t.Fatalf("DeriveID(%q) = %q, want %q", tt.timestamp, got, tt.want)
			}
		})
	}
}

func TestDeriveIDUnparsableIsStable(t *testing.T) {
	a := DeriveID("sender", "five minutes ago")
	b := DeriveID("sender", "five minutes ago")
	if a != b {
		t.Fatalf("fallback id must be stable: %q vs %q", a, b)
	}
	if !strings.HasPrefix(a, "sender_") {
		t.Fatalf("fallback id should keep sender prefix, got %q", a)
	}
	if a == DeriveID("sender", "ten minutes ago") {
		t.Fatalf("different unparsable timestamps should not collide")
	}
}

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if _, ok, err := store.Load(ctx, "absent"); err != nil || ok {
		t.Fatalf("expected absent session, got ok=%v err=%v", ok, err)
	}

	sess, err := store.Init(ctx, "id-1")
	if err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if sess.TurnCount != 0 || sess.IntelligenceExtracted {
		t.Fatalf("init should zero the session, got %+v", sess)
	}

	sess.TurnCount = 2
	sess.IntelligenceExtracted = true
	if err := store.Save(ctx, "id-1", sess); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, ok, err := store.Load(ctx, "id-1")
	if err != nil || !ok {
		t.Fatalf("expected session after save, got ok=%v err=%v", ok, err)
	}
	if loaded.TurnCount != 2 || !loaded.IntelligenceExtracted {
		t.Fatalf("unexpected session %+v", loaded)
	}
	if loaded.LastUpdated.Before(loaded.CreatedAt) {
		t.Fatalf("save should stamp last_updated")
	}
}
