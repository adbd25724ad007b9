package repositories

import (
	"context"

	"github.com/wicaksana/swara/domain/entities"
)

// PreferenceRepository defines upsert-style access to per-user
// settings. Get never fails on a missing record; it returns the
// defaults from entities.NewUserPreference. Writes create the record
// when absent and are visible to the next Get for the same user.
type PreferenceRepository interface {
	Get(ctx context.Context, userID int64) (*entities.UserPreference, error)
	SetVoice(ctx context.Context, userID int64, voiceID string) error
	SetPitch(ctx context.Context, userID int64, pitch int) error
	SetRate(ctx context.Context, userID int64, rate int) error
	SetLanguage(ctx context.Context, userID int64, code string) error
	// RecordConversion bumps the usage counter and the activity
	// timestamp in one write.
	RecordConversion(ctx context.Context, userID int64) error
	Stats(ctx context.Context) (*PreferenceStats, error)
}

// PreferenceStats summarizes stored preferences for the admin API.
type PreferenceStats struct {
	Users       int64 `json:"users"`
	Conversions int64 `json:"conversions"`
}
