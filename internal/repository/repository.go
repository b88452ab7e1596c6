package repository

import (
	"translatebot/internal/domain"
)

// SettingsRepository defines per-user translation preference operations.
// Get reports true for users that never set a preference.
type SettingsRepository interface {
	Get(userID string) bool
	Set(userID string, enabled bool)
}

// JournalRepository defines translation journal operations
type JournalRepository interface {
	SaveEntry(entry domain.TranslationLog) error
	CountSince(days int) (total int, failed int, err error)
	CleanOldEntries(days int) error
}
