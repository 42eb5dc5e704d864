package archive

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/scamshield-ai/scamshield/pkg/logging"
)

// DB is the subset of pgxpool.Pool used by Store.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Record is one archived scam conversation.
type Record struct {
	SessionID  string
	Transcript string
	ScamType   string
	Channel    string
	Language   string
	Locale     string
	TurnCount  int
	ArchivedAt time.Time
}

// Store writes completed scam transcripts to Postgres. It is write-only in
// the request path; rows exist for offline analysis and reporting.
type Store struct {
	db     DB
	logger *logging.Logger
}

// NewStore creates an archive Store. If db is nil, all operations are no-ops.
func NewStore(db DB, logger *logging.Logger) *Store {
	if logger == nil {
		logger = logging.Default()
	}
	return &Store{db: db, logger: logger}
}

// Enabled returns true if archival is configured.
func (s *Store) Enabled() bool {
	return s != nil && s.db != nil
}

const upsertTranscript = `
INSERT INTO scam_transcripts (session_id, transcript, scam_type, channel, language, locale, turn_count, archived_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (session_id) DO UPDATE SET
	transcript = EXCLUDED.transcript,
	scam_type = EXCLUDED.scam_type,
	turn_count = EXCLUDED.turn_count,
	archived_at = EXCLUDED.archived_at`

// ArchiveTranscript upserts the record keyed by session id, so each turn of a
// conversation overwrites the previous snapshot with the fuller transcript.
func (s *Store) ArchiveTranscript(ctx context.Context, rec Record) error {
	if !s.Enabled() {
		return nil
	}

	archivedAt := rec.ArchivedAt
	if archivedAt.IsZero() {
		archivedAt = time.Now().UTC()
	}

	_, err := s.db.Exec(ctx, upsertTranscript,
		rec.SessionID,
		rec.Transcript,
		rec.ScamType,
		rec.Channel,
		rec.Language,
		rec.Locale,
		rec.TurnCount,
		archivedAt,
	)
	if err != nil {
		return fmt.Errorf("archive: upsert transcript %s: %w", rec.SessionID, err)
	}

	s.logger.Info("archived scam transcript",
		"session_id", rec.SessionID,
		"scam_type", rec.ScamType,
		"turn_count", rec.TurnCount,
	)
	return nil
}

// Count returns the number of archived transcripts.
func (s *Store) Count(ctx context.Context) (int, error) {
	if !s.Enabled() {
		return 0, nil
	}
	var n int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM scam_transcripts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("archive: count transcripts: %w", err)
	}
	return n, nil
}
