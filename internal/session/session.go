package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"
)

// ErrStore marks session store read/write failures. Callers treat these as
// non-fatal: a request must not fail because advisory session state is
// unavailable.
var ErrStore = errors.New("session: store failure")

// Session tracks per-sender-per-day engagement state.
type Session struct {
	TurnCount             int       `json:"turn_count"`
	CreatedAt             time.Time `json:"created_at"`
	IntelligenceExtracted bool      `json:"intelligence_extracted"`
	LastUpdated           time.Time `json:"last_updated"`
}

// Store is the session persistence boundary.
type Store interface {
	// Load returns the session for id; the bool reports whether it exists.
	Load(ctx context.Context, id string) (Session, bool, error)
	// Init creates and persists a zeroed session for id.
	Init(ctx context.Context, id string) (Session, error)
	// Save overwrites the session for id, stamping LastUpdated.
	Save(ctx context.Context, id string, s Session) error
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// DeriveID maps (sender, timestamp) to a deterministic session identifier:
// the sender plus the UTC calendar date, so same-day conversations from one
// sender collapse into a single session. Unparsable timestamps degrade to a
// stable hash suffix instead of failing the request.
func DeriveID(sender, timestamp string) string {
	sender = strings.TrimSpace(sender)
	ts := strings.TrimSpace(timestamp)

	if date, ok := datePortion(ts); ok {
		return sender + "_" + date
	}

	sum := sha256.Sum256([]byte(sender + "_" + ts))
	return sender + "_" + hex.EncodeToString(sum[:8])
}

func datePortion(ts string) (string, bool) {
	if ts == "" {
		return "", false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, ts); err == nil {
			return t.UTC().Format("2006-01-02"), true
		}
	}
	// Unix epoch seconds or milliseconds.
	if n, err := strconv.ParseInt(ts, 10, 64); err == nil && n > 0 {
		if n > 1e12 {
			n /= 1000
		}
		return time.Unix(n, 0).UTC().Format("2006-01-02"), true
	}
	return "", false
}
