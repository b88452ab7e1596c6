package memory

import (
	"sync"
)

// SettingsRepo implements repository.SettingsRepository in process memory.
// Settings are lost on restart.
type SettingsRepo struct {
	mu       sync.RWMutex
	settings map[string]bool
}

// NewSettingsRepo creates an empty settings repository
func NewSettingsRepo() *SettingsRepo {
	return &SettingsRepo{settings: make(map[string]bool)}
}

// Get returns the stored flag, or true when the user never set one
func (r *SettingsRepo) Get(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	enabled, exists := r.settings[userID]
	if !exists {
		return true
	}
	return enabled
}

// Set overwrites the user's flag
func (r *SettingsRepo) Set(userID string, enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings[userID] = enabled
}
