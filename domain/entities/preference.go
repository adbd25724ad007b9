package entities

import (
	"errors"
	"time"
)

const (
	// DeltaMin and DeltaMax bound pitch and rate offsets from the
	// neutral baseline. Values outside the range are rejected, never
	// clamped.
	DeltaMin = -100
	DeltaMax = 100

	// DefaultVoiceID is used for users who never picked a voice.
	DefaultVoiceID = "en-US-AvaMultilingualNeural"

	// DefaultLanguage is the fallback transcription language code.
	DefaultLanguage = "en"
)

// ErrDeltaOutOfRange is returned when a pitch or rate value falls
// outside [DeltaMin, DeltaMax].
var ErrDeltaOutOfRange = errors.New("value out of range")

// UserPreference holds the per-user settings for synthesis and
// transcription. A record is created on first write; reads of a
// missing record yield the defaults from NewUserPreference.
type UserPreference struct {
	UserID          int64     `json:"user_id" bson:"_id"`
	VoiceID         string    `json:"voice_id" bson:"voice_id"`
	Pitch           int       `json:"pitch" bson:"pitch"`
	Rate            int       `json:"rate" bson:"rate"`
	Language        string    `json:"language" bson:"language"`
	LastActiveAt    time.Time `json:"last_active_at" bson:"last_active_at"`
	ConversionCount int64     `json:"conversion_count" bson:"conversion_count"`
}

// NewUserPreference returns the documented defaults for a user with no
// stored record.
func NewUserPreference(userID int64) *UserPreference {
	return &UserPreference{
		UserID:   userID,
		VoiceID:  DefaultVoiceID,
		Pitch:    0,
		Rate:     0,
		Language: DefaultLanguage,
	}
}

// ValidateDelta checks that a pitch or rate offset is within range.
func ValidateDelta(v int) error {
	if v < DeltaMin || v > DeltaMax {
		return ErrDeltaOutOfRange
	}
	return nil
}

// Validate checks the stored record for internal consistency.
func (p *UserPreference) Validate() error {
	if p.UserID == 0 {
		return errors.New("user_id is required")
	}
	if err := ValidateDelta(p.Pitch); err != nil {
		return err
	}
	if err := ValidateDelta(p.Rate); err != nil {
		return err
	}
	if p.ConversionCount < 0 {
		return errors.New("conversion_count cannot be negative")
	}
	return nil
}
