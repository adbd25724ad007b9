package tts

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	gctts "cloud.google.com/go/texttospeech/apiv1"
	ttspb "cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"go.uber.org/zap"

	"github.com/wicaksana/swara/domain/repositories"
)

// GoogleSynthesizer implements SpeechSynthesizer using Google Cloud
// Text-to-Speech. Credentials come from the ambient
// GOOGLE_APPLICATION_CREDENTIALS environment. Deployments selecting
// this backend are expected to run with a catalog of Google voice
// names.
type GoogleSynthesizer struct {
	logger *zap.Logger
}

var _ repositories.SpeechSynthesizer = (*GoogleSynthesizer)(nil)

// NewGoogleSynthesizer creates a new Google Cloud synthesizer.
func NewGoogleSynthesizer(logger *zap.Logger) *GoogleSynthesizer {
	return &GoogleSynthesizer{logger: logger}
}

// Synthesize converts text to MP3 audio. The signed-delta pitch maps
// to semitones (±100 → ±20) and rate to a speaking-rate multiplier
// (±100 → 2.0/0.5 of neutral).
func (g *GoogleSynthesizer) Synthesize(ctx context.Context, text, voiceID, pitch, rate string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	client, err := gctts.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create tts client: %w", err)
	}
	defer client.Close()

	languageCode := "en-US"
	if parts := strings.SplitN(voiceID, "-", 3); len(parts) == 3 {
		languageCode = parts[0] + "-" + parts[1]
	}

	req := &ttspb.SynthesizeSpeechRequest{
		Input: &ttspb.SynthesisInput{
			InputSource: &ttspb.SynthesisInput_Text{Text: text},
		},
		Voice: &ttspb.VoiceSelectionParams{
			LanguageCode: languageCode,
			Name:         voiceID,
		},
		AudioConfig: &ttspb.AudioConfig{
			AudioEncoding: ttspb.AudioEncoding_MP3,
			Pitch:         float64(parseDelta(pitch)) * 0.2,
			SpeakingRate:  1.0 + float64(parseDelta(rate))/100.0,
		},
	}

	started := time.Now()
	resp, err := client.SynthesizeSpeech(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("synthesize speech failed: %w", err)
	}

	g.logger.Debug("Google TTS synthesize completed",
		zap.String("voiceID", voiceID),
		zap.Duration("took", time.Since(started)),
		zap.Int("audioBytes", len(resp.GetAudioContent())))

	return resp.GetAudioContent(), nil
}

// parseDelta reads the leading signed integer of a delta string like
// "+12Hz" or "-25%". Malformed input counts as neutral.
func parseDelta(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	for i, r := range s {
		if r == '+' || r == '-' {
			if i != 0 {
				break
			}
			end = i + 1
			continue
		}
		if r < '0' || r > '9' {
			break
		}
		end = i + 1
	}
	v, err := strconv.Atoi(strings.TrimPrefix(s[:end], "+"))
	if err != nil {
		return 0
	}
	return v
}
