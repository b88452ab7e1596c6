package service

import (
	"time"
	"unicode/utf8"

	"translatebot/internal/domain"
	"translatebot/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JournalService records gateway outcomes and prunes old entries.
// A nil repository disables it.
type JournalService struct {
	journalRepo   repository.JournalRepository
	backend       string
	retentionDays int
	logger        *zap.Logger
}

// NewJournalService creates a new journal service
func NewJournalService(
	journalRepo repository.JournalRepository,
	backend string,
	retentionDays int,
	logger *zap.Logger,
) *JournalService {
	return &JournalService{
		journalRepo:   journalRepo,
		backend:       backend,
		retentionDays: retentionDays,
		logger:        logger,
	}
}

// Enabled reports whether a journal database is configured
func (s *JournalService) Enabled() bool {
	return s != nil && s.journalRepo != nil
}

// Record stores the outcome of translating msg
func (s *JournalService) Record(msg domain.Message, result domain.TranslationResult) error {
	if !s.Enabled() {
		return nil
	}

	entry := domain.TranslationLog{
		ID:          uuid.NewString(),
		EventID:     msg.ID,
		ChannelID:   msg.ChannelID,
		UserID:      msg.AuthorID,
		Backend:     s.backend,
		Success:     result.Success,
		SourceChars: utf8.RuneCountInString(msg.Text),
		CreatedAt:   time.Now().UTC(),
	}
	if !result.Success {
		entry.Error = result.Error
	}

	return s.journalRepo.SaveEntry(entry)
}

// CleanupOldData removes entries older than the retention period and logs
// a summary of what is left
func (s *JournalService) CleanupOldData() error {
	if !s.Enabled() {
		return nil
	}

	s.logger.Info("Starting cleanup of translation journal", zap.Int("retention_days", s.retentionDays))

	if err := s.journalRepo.CleanOldEntries(s.retentionDays); err != nil {
		s.logger.Error("Failed to cleanup translation journal", zap.Error(err))
		return err
	}

	total, failed, err := s.journalRepo.CountSince(s.retentionDays)
	if err != nil {
		s.logger.Warn("Failed to summarize translation journal", zap.Error(err))
		return nil
	}

	s.logger.Info("Cleanup completed successfully",
		zap.Int("translations", total),
		zap.Int("failed", failed),
	)
	return nil
}
