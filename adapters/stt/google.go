package stt

import (
	"context"
	"fmt"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"go.uber.org/zap"

	"github.com/wicaksana/swara/domain"
	"github.com/wicaksana/swara/domain/repositories"
)

// transcodeSampleRate matches the transcoder's output format.
const transcodeSampleRate = 16000

// GoogleRecognizer implements SpeechRecognizer using Google Cloud
// Speech-to-Text. Input is the transcoder's mono 16 kHz WAV.
type GoogleRecognizer struct {
	logger *zap.Logger
}

var _ repositories.SpeechRecognizer = (*GoogleRecognizer)(nil)

// NewGoogleRecognizer creates a new Google Cloud recognizer.
func NewGoogleRecognizer(logger *zap.Logger) *GoogleRecognizer {
	return &GoogleRecognizer{logger: logger}
}

// Transcribe converts audio to text. A technically successful call
// with no confident transcript returns domain.ErrNoSpeechDetected.
func (g *GoogleRecognizer) Transcribe(ctx context.Context, audio []byte, language string) (string, error) {
	if len(audio) == 0 {
		return "", fmt.Errorf("%w: empty audio", domain.ErrNoSpeechDetected)
	}

	client, err := speech.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create speech client: %w", err)
	}
	defer client.Close()

	resp, err := client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:        speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz: transcodeSampleRate,
			LanguageCode:    language,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	})
	if err != nil {
		return "", fmt.Errorf("recognize failed: %w", err)
	}

	var parts []string
	for _, result := range resp.Results {
		if len(result.Alternatives) > 0 {
			parts = append(parts, result.Alternatives[0].Transcript)
		}
	}
	transcript := strings.TrimSpace(strings.Join(parts, " "))
	if transcript == "" {
		return "", domain.ErrNoSpeechDetected
	}

	g.logger.Debug("Transcription completed",
		zap.String("language", language),
		zap.Int("chars", len(transcript)))

	return transcript, nil
}
