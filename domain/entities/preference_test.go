package entities

import "testing"

func TestNewUserPreferenceDefaults(t *testing.T) {
	pref := NewUserPreference(42)

	if pref.UserID != 42 {
		t.Errorf("Expected user id 42, got %d", pref.UserID)
	}
	if pref.VoiceID != DefaultVoiceID {
		t.Errorf("Expected default voice %s, got %s", DefaultVoiceID, pref.VoiceID)
	}
	if pref.Pitch != 0 || pref.Rate != 0 {
		t.Errorf("Expected neutral pitch and rate, got %d/%d", pref.Pitch, pref.Rate)
	}
	if pref.Language != DefaultLanguage {
		t.Errorf("Expected default language %s, got %s", DefaultLanguage, pref.Language)
	}
	if pref.ConversionCount != 0 {
		t.Errorf("Expected zero conversions, got %d", pref.ConversionCount)
	}
}

func TestValidateDelta(t *testing.T) {
	for _, v := range []int{DeltaMin, -50, 0, 50, DeltaMax} {
		if err := ValidateDelta(v); err != nil {
			t.Errorf("Expected %d to be accepted, got %v", v, err)
		}
	}
	for _, v := range []int{DeltaMin - 1, DeltaMax + 1, 150, -999} {
		if err := ValidateDelta(v); err != ErrDeltaOutOfRange {
			t.Errorf("Expected %d to be rejected with ErrDeltaOutOfRange, got %v", v, err)
		}
	}
}

func TestPreferenceValidate(t *testing.T) {
	pref := NewUserPreference(1)
	if err := pref.Validate(); err != nil {
		t.Errorf("Expected defaults to validate, got %v", err)
	}

	pref.Pitch = DeltaMax + 1
	if err := pref.Validate(); err == nil {
		t.Error("Expected out-of-range pitch to fail validation")
	}

	pref = NewUserPreference(0)
	if err := pref.Validate(); err == nil {
		t.Error("Expected zero user id to fail validation")
	}
}
