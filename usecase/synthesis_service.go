package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/wicaksana/swara/domain"
	"github.com/wicaksana/swara/domain/entities"
	"github.com/wicaksana/swara/domain/repositories"
)

const (
	synthesisAction = "record_voice"

	failureNotice = "❌ Sorry, I could not synthesize that. Please try again later."
)

// SynthesisService orchestrates one text-to-speech invocation: resolve
// preferences, signal liveness while the synthesis call blocks,
// deliver the audio and clean up. Failures never escape as faults;
// users see a generic notice in private chats only.
type SynthesisService struct {
	prefs       repositories.PreferenceRepository
	catalog     *entities.VoiceCatalog
	synthesizer repositories.SpeechSynthesizer
	gateway     repositories.Gateway
	logger      *zap.Logger

	livenessInterval time.Duration
	maxTextLength    int
	scratchDir       string
}

// NewSynthesisService creates a new synthesis orchestrator. scratchDir
// is where audio artifacts are materialized before upload; empty means
// the system temp directory.
func NewSynthesisService(
	prefs repositories.PreferenceRepository,
	catalog *entities.VoiceCatalog,
	synthesizer repositories.SpeechSynthesizer,
	gateway repositories.Gateway,
	livenessInterval time.Duration,
	maxTextLength int,
	scratchDir string,
	logger *zap.Logger,
) *SynthesisService {
	if scratchDir == "" {
		scratchDir = os.TempDir()
	}
	return &SynthesisService{
		prefs:            prefs,
		catalog:          catalog,
		synthesizer:      synthesizer,
		gateway:          gateway,
		livenessInterval: livenessInterval,
		maxTextLength:    maxTextLength,
		scratchDir:       scratchDir,
		logger:           logger,
	}
}

// Speak converts text to audio for one user and delivers it. The
// returned error reports what went wrong for the caller's log; all
// user-facing messaging has already happened by the time it returns.
func (s *SynthesisService) Speak(ctx context.Context, userID, chatID int64, kind repositories.ChatKind, replyTo int, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if utf8.RuneCountInString(text) > s.maxTextLength {
		if kind.IsPrivate() {
			_, _ = s.gateway.SendMessage(ctx, chatID,
				fmt.Sprintf("❌ Text is too long, the limit is %d characters.", s.maxTextLength), nil)
		}
		return domain.ErrTextTooLong
	}

	// Resolve
	pref, err := s.prefs.Get(ctx, userID)
	if err != nil {
		s.reportFailure(ctx, chatID, kind, err)
		return err
	}
	voice := s.catalog.Resolve(pref.VoiceID)

	// Prepare
	req := entities.NewSynthesisRequest(chatID, userID, text, voice.ID, pref.Pitch, pref.Rate)

	// Signal-Start: the liveness loop runs until the deferred stop,
	// whatever exit path is taken below.
	stop := s.signalBusy(chatID, synthesisAction)
	defer stop()

	var artifact string
	defer func() {
		if artifact != "" {
			if err := os.Remove(artifact); err != nil && !os.IsNotExist(err) {
				s.logger.Warn("Failed to remove audio artifact",
					zap.String("path", artifact), zap.Error(err))
			}
		}
	}()

	// Synthesize
	audio, err := s.synthesizer.Synthesize(ctx, req.Text, req.VoiceID, req.PitchDelta(), req.RateDelta())
	if err != nil {
		s.reportFailure(ctx, chatID, kind, err)
		return err
	}
	if len(audio) == 0 {
		s.reportFailure(ctx, chatID, kind, domain.ErrEmptySynthesisResult)
		return domain.ErrEmptySynthesisResult
	}

	// Deliver
	artifact = filepath.Join(s.scratchDir, "swara_"+req.Correlation+".mp3")
	if err := os.WriteFile(artifact, audio, 0o600); err != nil {
		s.reportFailure(ctx, chatID, kind, err)
		return err
	}

	caption := fmt.Sprintf("%s · pitch %+d · rate %+d", voice.DisplayName, req.Pitch, req.Rate)
	if err := s.gateway.SendAudio(ctx, chatID, artifact, caption, replyTo); err != nil {
		s.reportFailure(ctx, chatID, kind, err)
		return err
	}

	if err := s.prefs.RecordConversion(ctx, userID); err != nil {
		s.logger.Warn("Failed to record conversion", zap.Int64("userID", userID), zap.Error(err))
	}

	s.logger.Info("Synthesis delivered",
		zap.Int64("userID", userID),
		zap.String("voiceID", voice.ID),
		zap.Int("audioBytes", len(audio)))
	return nil
}

// signalBusy starts the liveness loop and returns its stop function.
// The stop function cancels the loop and waits for it to exit, so a
// loop never outlives its invocation.
func (s *SynthesisService) signalBusy(chatID int64, action string) func() {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		defer close(done)
		ticker := time.NewTicker(s.livenessInterval)
		defer ticker.Stop()

		for {
			if err := s.gateway.SendChatAction(ctx, chatID, action); err != nil && ctx.Err() == nil {
				s.logger.Debug("Chat action failed", zap.Int64("chatID", chatID), zap.Error(err))
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	return func() {
		cancel()
		<-done
	}
}

// reportFailure logs the cause for operators and notifies the user in
// private chats only; group chats stay silent to avoid noise.
func (s *SynthesisService) reportFailure(ctx context.Context, chatID int64, kind repositories.ChatKind, cause error) {
	s.logger.Error("Synthesis failed",
		zap.Int64("chatID", chatID),
		zap.String("chatKind", string(kind)),
		zap.Error(cause))

	if !kind.IsPrivate() {
		return
	}
	if _, err := s.gateway.SendMessage(ctx, chatID, failureNotice, nil); err != nil {
		s.logger.Warn("Failed to deliver failure notice", zap.Int64("chatID", chatID), zap.Error(err))
	}
}
