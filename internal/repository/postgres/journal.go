package postgres

import (
	"database/sql"

	"translatebot/internal/domain"
)

// JournalRepo implements repository.JournalRepository
type JournalRepo struct {
	db *sql.DB
}

// NewJournalRepo creates a new journal repository
func NewJournalRepo(db *sql.DB) *JournalRepo {
	return &JournalRepo{db: db}
}

// SaveEntry stores a single gateway outcome
func (r *JournalRepo) SaveEntry(entry domain.TranslationLog) error {
	query := `
		INSERT INTO translation_log (id, event_id, channel_id, user_id, backend, success, error, source_chars, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(query,
		entry.ID,
		entry.EventID,
		entry.ChannelID,
		entry.UserID,
		entry.Backend,
		entry.Success,
		nullString(entry.Error),
		entry.SourceChars,
		entry.CreatedAt,
	)
	return err
}

// CountSince returns the number of calls and failed calls in the last days
func (r *JournalRepo) CountSince(days int) (int, int, error) {
	query := `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE NOT success)
		FROM translation_log
		WHERE created_at >= NOW() - INTERVAL '1 day' * $1
	`

	var total, failed int
	if err := r.db.QueryRow(query, days).Scan(&total, &failed); err != nil {
		return 0, 0, err
	}
	return total, failed, nil
}

// CleanOldEntries deletes entries older than specified days
func (r *JournalRepo) CleanOldEntries(days int) error {
	query := `
		DELETE FROM translation_log
		WHERE created_at < NOW() - INTERVAL '1 day' * $1
	`
	_, err := r.db.Exec(query, days)
	return err
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
