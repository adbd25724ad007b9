package usecase

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/wicaksana/swara/domain"
	"github.com/wicaksana/swara/domain/entities"
	"github.com/wicaksana/swara/domain/repositories"
)

const transcriptionAction = "typing"

// TranscriptionService runs the speech-to-text pipeline: download the
// submitted media, transcode it to the recognition format, recognize
// with the user's language and reply with the transcript.
type TranscriptionService struct {
	prefs      repositories.PreferenceRepository
	recognizer repositories.SpeechRecognizer
	transcoder repositories.Transcoder
	gateway    repositories.Gateway
	logger     *zap.Logger

	livenessInterval time.Duration
}

// NewTranscriptionService creates a new transcription pipeline.
func NewTranscriptionService(
	prefs repositories.PreferenceRepository,
	recognizer repositories.SpeechRecognizer,
	transcoder repositories.Transcoder,
	gateway repositories.Gateway,
	livenessInterval time.Duration,
	logger *zap.Logger,
) *TranscriptionService {
	return &TranscriptionService{
		prefs:            prefs,
		recognizer:       recognizer,
		transcoder:       transcoder,
		gateway:          gateway,
		livenessInterval: livenessInterval,
		logger:           logger,
	}
}

// Transcribe handles one media message. fileID identifies the media at
// the gateway; sourceExt is its original extension hint (".ogg" for
// voice notes). All user-facing outcomes are delivered before this
// returns; the returned error is for the caller's log.
func (s *TranscriptionService) Transcribe(ctx context.Context, userID, chatID int64, kind repositories.ChatKind, messageID int, fileID, sourceExt string) error {
	if !s.transcoder.Ready() {
		s.notify(ctx, chatID, kind,
			"❌ Audio conversion is not available on this server right now.")
		return domain.ErrTranscoderNotConfigured
	}

	stop := s.signalBusy(chatID)
	defer stop()

	media, remotePath, err := s.gateway.DownloadFile(ctx, fileID)
	if err != nil {
		s.notify(ctx, chatID, kind, "❌ Could not download your file. Please try again.")
		return fmt.Errorf("download failed: %w", err)
	}
	if ext := filepath.Ext(remotePath); ext != "" {
		sourceExt = ext
	}

	wav, err := s.transcoder.ToWAV(ctx, media, sourceExt)
	if err != nil {
		s.notify(ctx, chatID, kind,
			"❌ Audio conversion failed. Check the file format.")
		return err
	}

	pref, err := s.prefs.Get(ctx, userID)
	if err != nil {
		s.notify(ctx, chatID, kind, "❌ Something went wrong. Please try again.")
		return err
	}
	lang := entities.LanguageByCode(pref.Language)

	transcript, err := s.recognizer.Transcribe(ctx, wav, lang.Locale)
	if err != nil {
		if errors.Is(err, domain.ErrNoSpeechDetected) {
			s.notify(ctx, chatID, kind,
				"❌ Could not understand the audio. Please try again with clearer audio.")
			return err
		}
		s.notify(ctx, chatID, kind,
			"❌ The speech recognition service is unavailable. Please try again later.")
		return fmt.Errorf("recognition failed: %w", err)
	}

	reply := fmt.Sprintf("🎤 *Transcription (%s):*\n\n%s", lang.Name, transcript)
	if _, err := s.gateway.SendMessage(ctx, chatID, reply, nil); err != nil {
		return fmt.Errorf("failed to deliver transcript: %w", err)
	}

	s.logger.Info("Transcription delivered",
		zap.Int64("userID", userID),
		zap.String("language", lang.Code),
		zap.Int("chars", len(transcript)))
	return nil
}

// signalBusy mirrors the synthesis liveness loop with the typing
// indicator.
func (s *TranscriptionService) signalBusy(chatID int64) func() {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		defer close(done)
		ticker := time.NewTicker(s.livenessInterval)
		defer ticker.Stop()

		for {
			if err := s.gateway.SendChatAction(ctx, chatID, transcriptionAction); err != nil && ctx.Err() == nil {
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

// notify sends an error outcome to private chats; groups stay silent.
func (s *TranscriptionService) notify(ctx context.Context, chatID int64, kind repositories.ChatKind, text string) {
	if !kind.IsPrivate() {
		return
	}
	if _, err := s.gateway.SendMessage(ctx, chatID, text, nil); err != nil {
		s.logger.Warn("Failed to deliver notice", zap.Int64("chatID", chatID), zap.Error(err))
	}
}
