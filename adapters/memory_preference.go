package adapters

import (
	"context"
	"sync"
	"time"

	"github.com/wicaksana/swara/domain/entities"
	"github.com/wicaksana/swara/domain/repositories"
)

// MemoryPreferenceRepository is an in-memory implementation of the
// preference store. It backs tests and single-process deployments that
// run without MongoDB; preferences then reset on restart.
type MemoryPreferenceRepository struct {
	mu    sync.RWMutex
	prefs map[int64]*entities.UserPreference
}

var _ repositories.PreferenceRepository = (*MemoryPreferenceRepository)(nil)

// NewMemoryPreferenceRepository creates an empty in-memory repository.
func NewMemoryPreferenceRepository() *MemoryPreferenceRepository {
	return &MemoryPreferenceRepository{
		prefs: make(map[int64]*entities.UserPreference),
	}
}

// Get returns a copy of the stored record, or the documented defaults
// when absent.
func (m *MemoryPreferenceRepository) Get(ctx context.Context, userID int64) (*entities.UserPreference, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	pref, exists := m.prefs[userID]
	if !exists {
		return entities.NewUserPreference(userID), nil
	}

	// Return a copy to prevent external modifications
	prefCopy := *pref
	return &prefCopy, nil
}

// SetVoice stores the selected voice id.
func (m *MemoryPreferenceRepository) SetVoice(ctx context.Context, userID int64, voiceID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	pref := m.upsert(userID)
	pref.VoiceID = voiceID
	pref.LastActiveAt = time.Now()
	return nil
}

// SetPitch stores a validated pitch offset.
func (m *MemoryPreferenceRepository) SetPitch(ctx context.Context, userID int64, pitch int) error {
	if err := entities.ValidateDelta(pitch); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	pref := m.upsert(userID)
	pref.Pitch = pitch
	pref.LastActiveAt = time.Now()
	return nil
}

// SetRate stores a validated rate offset.
func (m *MemoryPreferenceRepository) SetRate(ctx context.Context, userID int64, rate int) error {
	if err := entities.ValidateDelta(rate); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	pref := m.upsert(userID)
	pref.Rate = rate
	pref.LastActiveAt = time.Now()
	return nil
}

// SetLanguage stores the transcription language code.
func (m *MemoryPreferenceRepository) SetLanguage(ctx context.Context, userID int64, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	pref := m.upsert(userID)
	pref.Language = code
	pref.LastActiveAt = time.Now()
	return nil
}

// RecordConversion bumps the usage counter and activity timestamp.
func (m *MemoryPreferenceRepository) RecordConversion(ctx context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	pref := m.upsert(userID)
	pref.ConversionCount++
	pref.LastActiveAt = time.Now()
	return nil
}

// Stats aggregates user and conversion totals.
func (m *MemoryPreferenceRepository) Stats(ctx context.Context) (*repositories.PreferenceStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := &repositories.PreferenceStats{Users: int64(len(m.prefs))}
	for _, pref := range m.prefs {
		stats.Conversions += pref.ConversionCount
	}
	return stats, nil
}

// upsert returns the live record for a user, creating it with defaults
// when absent. Callers must hold the write lock.
func (m *MemoryPreferenceRepository) upsert(userID int64) *entities.UserPreference {
	if pref, exists := m.prefs[userID]; exists {
		return pref
	}
	pref := entities.NewUserPreference(userID)
	m.prefs[userID] = pref
	return pref
}
