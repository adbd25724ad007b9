package repositories

import "context"

// SpeechRecognizer abstracts a speech recognition service. Audio is
// mono 16 kHz LINEAR16 WAV; language is a BCP-47 tag. A technically
// successful call with no confident transcript returns
// domain.ErrNoSpeechDetected.
type SpeechRecognizer interface {
	Transcribe(ctx context.Context, audio []byte, language string) (string, error)
}

// Transcoder normalizes arbitrary audio/video input to mono 16 kHz
// WAV. Ready reports whether a transcoder binary was found at startup.
type Transcoder interface {
	ToWAV(ctx context.Context, input []byte, sourceExt string) ([]byte, error)
	Ready() bool
}
