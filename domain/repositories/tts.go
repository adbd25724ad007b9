package repositories

import "context"

// SpeechSynthesizer abstracts a text-to-speech engine. Pitch and rate
// are signed-delta strings ("+0Hz", "-25%"); the caller renders them.
// The call may block on network I/O for the whole synthesis.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text, voiceID, pitch, rate string) ([]byte, error)
}
