package service

import (
	"translatebot/internal/repository"
)

// SettingsService handles per-user translation preferences
type SettingsService struct {
	repo repository.SettingsRepository
}

// NewSettingsService creates a new settings service
func NewSettingsService(repo repository.SettingsRepository) *SettingsService {
	return &SettingsService{repo: repo}
}

// IsEnabled reports whether translation is on for the user (default on)
func (s *SettingsService) IsEnabled(userID string) bool {
	return s.repo.Get(userID)
}

// Enable turns translation on for the user
func (s *SettingsService) Enable(userID string) {
	s.repo.Set(userID, true)
}

// Disable turns translation off for the user
func (s *SettingsService) Disable(userID string) {
	s.repo.Set(userID, false)
}
