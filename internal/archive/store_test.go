package archive

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchiveTranscriptUpserts(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rec := Record{
		SessionID:  "+919876543210_2026-08-31",
		Transcript: "scammer: send OTP\nuser: which button do I press?",
		ScamType:   "phishing",
		Channel:    "SMS",
		Language:   "English",
		Locale:     "IN",
		TurnCount:  2,
		ArchivedAt: time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC),
	}

	mock.ExpectExec("INSERT INTO scam_transcripts").
		WithArgs(rec.SessionID, rec.Transcript, rec.ScamType, rec.Channel, rec.Language, rec.Locale, rec.TurnCount, rec.ArchivedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	store := NewStore(mock, nil)
	require.NoError(t, store.ArchiveTranscript(context.Background(), rec))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestArchiveTranscriptDisabledIsNoop(t *testing.T) {
	store := NewStore(nil, nil)
	assert.False(t, store.Enabled())

	require.NoError(t, store.ArchiveTranscript(context.Background(), Record{SessionID: "x"}))

	n, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestCount(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(7))

	store := NewStore(mock, nil)
	n, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}
