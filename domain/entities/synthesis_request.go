package entities

import (
	"fmt"

	"github.com/google/uuid"
)

// SynthesisRequest carries one synthesis invocation from preference
// resolution to delivery. It is built per message and discarded after
// the audio is sent.
type SynthesisRequest struct {
	ChatID  int64
	UserID  int64
	Text    string
	VoiceID string
	Pitch   int
	Rate    int

	// Correlation randomizes temp artifact names so concurrent
	// invocations sharing a scratch directory never collide.
	Correlation string
}

// NewSynthesisRequest builds a request with a fresh correlation suffix.
func NewSynthesisRequest(chatID, userID int64, text, voiceID string, pitch, rate int) SynthesisRequest {
	return SynthesisRequest{
		ChatID:      chatID,
		UserID:      userID,
		Text:        text,
		VoiceID:     voiceID,
		Pitch:       pitch,
		Rate:        rate,
		Correlation: uuid.New().String(),
	}
}

// PitchDelta renders the pitch offset in the synthesis service's
// signed-delta form. Zero and positive values carry an explicit "+".
func (r SynthesisRequest) PitchDelta() string {
	return fmt.Sprintf("%+dHz", r.Pitch)
}

// RateDelta renders the rate offset in the synthesis service's
// signed-delta form.
func (r SynthesisRequest) RateDelta() string {
	return fmt.Sprintf("%+d%%", r.Rate)
}
